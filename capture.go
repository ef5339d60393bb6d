package treemap

import (
	"context"
	"fmt"
	"time"

	ledmap "github.com/lightbough/treemap/led_map"
)

// Capture runs the full capture sweep: every light is lit individually and
// photographed by every camera, and each frame is handed to the blob
// detector. Lights or frames that produce no detection are skipped; the
// reconstruction engine deals with the gaps.
func Capture(ctx context.Context, r *Rig) ([]ledmap.Detection, error) {
	numLights := r.lights.NumLights()
	if numLights <= 0 {
		return nil, fmt.Errorf("light controller reports %d lights", numLights)
	}

	r.logger.Infof("Starting capture sweep: %d lights, %d cameras", numLights, len(r.cameras))

	if err := r.lights.AllOff(ctx); err != nil {
		return nil, fmt.Errorf("clearing string: %w", err)
	}

	var detections []ledmap.Detection
	for idx := 0; idx < numLights; idx++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := r.lights.SetLight(ctx, idx, true); err != nil {
			return nil, fmt.Errorf("lighting %d: %w", idx, err)
		}
		if err := sleepCtx(ctx, r.SettleDelay); err != nil {
			return nil, err
		}

		for camIdx := range r.cameras {
			img, err := r.frames.Capture(ctx, camIdx)
			if err != nil {
				r.logger.Warnf("Camera %d failed on light %d: %v", camIdx, idx, err)
				continue
			}

			blob, ok := r.detector.DetectBlob(img)
			if !ok {
				continue
			}
			detections = append(detections, ledmap.Detection{
				LightIndex:  idx,
				CameraIndex: camIdx,
				PixelX:      blob.X,
				PixelY:      blob.Y,
				Brightness:  blob.Brightness,
				BlobArea:    blob.Area,
			})
		}

		if err := r.lights.SetLight(ctx, idx, false); err != nil {
			return nil, fmt.Errorf("dousing %d: %w", idx, err)
		}

		if (idx+1)%25 == 0 {
			r.logger.Infof("Captured %d/%d lights (%d detections so far)", idx+1, numLights, len(detections))
		}
	}

	r.logger.Infof("Capture sweep complete: %d detections", len(detections))
	return detections, nil
}

// MapLights reconstructs light positions from a detection batch.
func MapLights(ctx context.Context, r *Rig, detections []ledmap.Detection) (*ledmap.MapResult, error) {
	numLights := r.lights.NumLights()

	result, err := r.mapper.Map(ctx, detections, r.cameras, r.cone, numLights)
	if err != nil {
		return nil, fmt.Errorf("mapping: %w", err)
	}

	r.logger.Infof("Mapped %d lights: %d observed, %d predicted",
		len(result.Positions), result.NumObserved, result.NumPredicted)
	for camIdx, segs := range result.SegmentsByCamera {
		r.logger.Debugf("Camera %d sees %d visibility segments", camIdx, len(segs))
	}
	for _, camIdx := range result.SkippedCameras {
		r.logger.Warnf("Camera %d rejected: invalid geometry", camIdx)
	}

	r.lastResult = result
	return result, nil
}

// Run executes a complete session: capture sweep, then reconstruction.
func Run(ctx context.Context, r *Rig) (*ledmap.MapResult, error) {
	detections, err := Capture(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return MapLights(ctx, r, detections)
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
