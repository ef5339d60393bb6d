package ledmap

import "gonum.org/v1/gonum/floats"

// AnalyzeOcclusion segments one camera's view of the light string into
// visible and hidden runs, and derives a per-index occlusion score.
//
// The string's physical winding means a camera sees contiguous runs of
// indices, not isolated flickers; a smoothed, thresholded scan over the
// per-index detection confidences recovers those runs directly. The result is
// camera-relative visibility, not an absolute front-of-tree classification.
//
// Scores: 0 for indices in visible segments; for hidden segments,
// HiddenScoreBase + HiddenScoreRange*(1 - segment average confidence).
func AnalyzeOcclusion(obs []Observation, numLights int, cfg OcclusionConfig) ([]OcclusionSegment, []float64) {
	conf := make([]float64, numLights)
	for _, o := range obs {
		if o.LightIndex >= 0 && o.LightIndex < numLights {
			conf[o.LightIndex] = o.DetectionConfidence
		}
	}

	smoothed := smoothCentered(conf, cfg.SmoothingWindow)
	segments := segmentByThreshold(smoothed, cfg.VisibleThreshold)

	scores := make([]float64, numLights)
	for _, seg := range segments {
		if seg.State == SegmentVisible {
			continue
		}
		score := cfg.HiddenScoreBase + cfg.HiddenScoreRange*(1-seg.AvgConfidence)
		if score > 1 {
			score = 1
		}
		for i := seg.StartIndex; i <= seg.EndIndex; i++ {
			scores[i] = score
		}
	}

	return segments, scores
}

// smoothCentered applies a centered moving average. The window shrinks
// symmetrically at the ends of the array, so boundary indices are averaged
// only over in-range neighbors rather than zero padding.
func smoothCentered(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	half := window / 2
	out := make([]float64, len(values))
	for i := range values {
		r := half
		if i < r {
			r = i
		}
		if len(values)-1-i < r {
			r = len(values) - 1 - i
		}
		out[i] = floats.Sum(values[i-r:i+r+1]) / float64(2*r+1)
	}
	return out
}

// segmentByThreshold runs a two-state scan over the smoothed confidences,
// opening a new segment whenever the value crosses the visibility threshold.
// The resulting segments partition [0, len-1] with no gaps or overlaps.
func segmentByThreshold(smoothed []float64, threshold float64) []OcclusionSegment {
	if len(smoothed) == 0 {
		return nil
	}

	stateAt := func(v float64) SegmentState {
		if v >= threshold {
			return SegmentVisible
		}
		return SegmentHidden
	}

	var segments []OcclusionSegment
	start := 0
	state := stateAt(smoothed[0])

	flush := func(end int) {
		run := smoothed[start : end+1]
		segments = append(segments, OcclusionSegment{
			StartIndex:    start,
			EndIndex:      end,
			State:         state,
			AvgConfidence: floats.Sum(run) / float64(len(run)),
		})
	}

	for i := 1; i < len(smoothed); i++ {
		if s := stateAt(smoothed[i]); s != state {
			flush(i - 1)
			start = i
			state = s
		}
	}
	flush(len(smoothed) - 1)

	return segments
}
