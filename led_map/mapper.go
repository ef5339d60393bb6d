package ledmap

import "context"

// Mapper runs the full light-position reconstruction pipeline.
type Mapper struct {
	cfg Config
}

// NewMapper creates a new Mapper with the given configuration.
func NewMapper(cfg *Config) *Mapper {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	return &Mapper{cfg: *cfg}
}

// Map reconstructs one LightPosition per light index from a batch of
// detections. numLights fixes the index domain [0, numLights-1]; when it is
// non-positive the domain is derived from the highest detected index.
//
// Cameras with invalid geometry reject all of their detections but do not
// fail the run; their indices are reported in MapResult.SkippedCameras.
// Per-observation failures (missed intersections, filtered reflections) are
// recovered locally. Only a degenerate cone, an empty batch, or a run where
// no light at all can be resolved surface as errors.
func (m *Mapper) Map(
	ctx context.Context,
	detections []Detection,
	cameras []CameraPose,
	cone ConeShape,
	numLights int,
) (*MapResult, error) {
	if _, err := NewConeShape(cone.BaseRadius, cone.TopRadius, cone.Height); err != nil {
		return nil, err
	}
	if len(detections) == 0 {
		return nil, ErrNoDetections
	}

	if numLights <= 0 {
		for _, d := range detections {
			if d.LightIndex >= numLights {
				numLights = d.LightIndex + 1
			}
		}
	}

	validCamera := make([]bool, len(cameras))
	var skipped []int
	for i, pose := range cameras {
		if validatePose(pose) == nil {
			validCamera[i] = true
		} else {
			skipped = append(skipped, i)
		}
	}

	// Stage 1: score each detection, grouped per camera.
	byCamera := make(map[int][]Observation)
	for _, det := range detections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if det.CameraIndex < 0 || det.CameraIndex >= len(cameras) || !validCamera[det.CameraIndex] {
			continue
		}
		if det.LightIndex < 0 || det.LightIndex >= numLights {
			continue
		}
		obs, err := BuildObservation(det, cameras[det.CameraIndex], cone, m.cfg.Confidence)
		if err != nil {
			continue
		}
		byCamera[det.CameraIndex] = append(byCamera[det.CameraIndex], obs)
	}

	// Stage 2: strip reflection clusters, then segment each camera's view.
	segmentsByCamera := make(map[int][]OcclusionSegment, len(byCamera))
	occlusionScores := make(map[int][]float64, len(byCamera))
	var surviving []Observation
	for camIdx, obs := range byCamera {
		filtered := FilterReflections(obs, m.cfg.Reflection)
		segments, scores := AnalyzeOcclusion(filtered, numLights, m.cfg.Occlusion)
		segmentsByCamera[camIdx] = segments
		occlusionScores[camIdx] = scores
		surviving = append(surviving, filtered...)
	}

	// Stage 3: resolve each light from its best witness.
	resolved := make([]*LightPosition, numLights)
	numObserved := 0
	for i := 0; i < numLights; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pos, err := ResolveLight(i, surviving, occlusionScores, cameras, cone, m.cfg.Resolver)
		if err != nil {
			// Deferred to the gap filler.
			continue
		}
		p := pos
		resolved[i] = &p
		numObserved++
	}

	// Stage 4: fill the remaining indices from resolved neighbors.
	positions, err := FillGaps(resolved, cone, m.cfg.GapFill)
	if err != nil {
		return nil, err
	}

	return &MapResult{
		Positions:        positions,
		NumObserved:      numObserved,
		NumPredicted:     numLights - numObserved,
		SegmentsByCamera: segmentsByCamera,
		SkippedCameras:   skipped,
	}, nil
}
