package ledmap

import "math"

// BuildObservation scores a raw detection against its camera, producing an
// Observation with detection, angular, and combined confidence. The cone is
// only consulted when the silhouette check is enabled.
func BuildObservation(det Detection, pose CameraPose, cone ConeShape, cfg ConfidenceConfig) (Observation, error) {
	if err := validatePose(pose); err != nil {
		return Observation{}, err
	}

	detConf := detectionConfidence(det, pose, cone, cfg)
	angConf := angularConfidence(det, pose, cfg)

	return Observation{
		Detection:           det,
		DetectionConfidence: detConf,
		AngularConfidence:   angConf,
		BaseWeight:          detConf * angConf,
	}, nil
}

// detectionConfidence averages the independent quality signals: brightness,
// blob size, and (optionally) whether the pixel falls on the cone silhouette.
func detectionConfidence(det Detection, pose CameraPose, cone ConeShape, cfg ConfidenceConfig) float64 {
	signals := []float64{
		brightnessConfidence(det.Brightness, cfg),
		blobAreaConfidence(det.BlobArea, cfg),
	}

	if cfg.SilhouetteCheck {
		signals = append(signals, silhouetteConfidence(det, pose, cone))
	}

	sum := 0.0
	for _, s := range signals {
		sum += s
	}
	return sum / float64(len(signals))
}

// brightnessConfidence maps brightness linearly between a floor and ceiling.
func brightnessConfidence(brightness float64, cfg ConfidenceConfig) float64 {
	if cfg.BrightnessCeiling <= cfg.BrightnessFloor {
		return clamp01(brightness / 255.0)
	}
	return clamp01((brightness - cfg.BrightnessFloor) / (cfg.BrightnessCeiling - cfg.BrightnessFloor))
}

// blobAreaConfidence maps blob area to a tolerance band: too small is sensor
// noise, too large is a reflection or merged blob.
func blobAreaConfidence(area float64, cfg ConfidenceConfig) float64 {
	switch {
	case area <= cfg.BlobAreaMin || area >= cfg.BlobAreaMax:
		return 0
	case area < cfg.BlobAreaIdealMin:
		return clamp01((area - cfg.BlobAreaMin) / (cfg.BlobAreaIdealMin - cfg.BlobAreaMin))
	case area > cfg.BlobAreaIdealMax:
		return clamp01((cfg.BlobAreaMax - area) / (cfg.BlobAreaMax - cfg.BlobAreaIdealMax))
	default:
		return 1
	}
}

// silhouetteConfidence checks that the pixel's ray actually crosses the cone.
// A detection outside the expected silhouette is likely a reflection off the
// wall or floor.
func silhouetteConfidence(det Detection, pose CameraPose, cone ConeShape) float64 {
	ray, err := PixelRay(pose, det.PixelX, det.PixelY)
	if err != nil {
		return 0
	}
	if _, _, err := IntersectCone(ray, cone); err != nil {
		return 0
	}
	return 1
}

// angularConfidence rates how close the detection sits to the optical axis.
// viewingAngle scales the radial pixel distance into [0, FOV/2]; confidence is
// its cosine with a configurable floor.
func angularConfidence(det Detection, pose CameraPose, cfg ConfidenceConfig) float64 {
	cx := float64(pose.ImageWidth) / 2.0
	cy := float64(pose.ImageHeight) / 2.0

	radial := math.Hypot(det.PixelX-cx, det.PixelY-cy)
	maxRadial := math.Hypot(cx, cy)
	if maxRadial < 1e-9 {
		return cfg.AngularFloor
	}

	halfFOV := pose.FOVDeg * math.Pi / 180.0 / 2.0
	viewingAngle := radial / maxRadial * halfFOV

	conf := math.Cos(viewingAngle)
	if conf < cfg.AngularFloor {
		conf = cfg.AngularFloor
	}
	return clamp01(conf)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
