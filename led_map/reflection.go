package ledmap

import "math"

// pixelCell is a spatial bucket key for reflection clustering.
type pixelCell struct {
	x, y int
}

// FilterReflections detects specular-reflection artifacts for one camera by
// clustering observations across all light indices by rounded pixel location.
// A pixel cell claimed by k >= 2 distinct light indices cannot be the true
// location of all of them, so every member's detection confidence is
// discounted with cluster size. Observations whose discounted confidence falls
// below the minimum, and all members of oversized clusters, are dropped
// outright rather than weighted down.
//
// The input slice must contain observations from a single camera; the order of
// survivors is preserved.
func FilterReflections(obs []Observation, cfg ReflectionConfig) []Observation {
	if len(obs) == 0 {
		return nil
	}

	tol := cfg.PixelTolerance
	if tol <= 0 {
		tol = 1
	}

	clusters := make(map[pixelCell]map[int]bool) // cell -> distinct light indices
	for _, o := range obs {
		cell := cellFor(o, tol)
		if clusters[cell] == nil {
			clusters[cell] = make(map[int]bool)
		}
		clusters[cell][o.LightIndex] = true
	}

	survivors := make([]Observation, 0, len(obs))
	for _, o := range obs {
		k := len(clusters[cellFor(o, tol)])
		if k < 2 {
			survivors = append(survivors, o)
			continue
		}

		if cfg.MaxClusterSize > 0 && k > cfg.MaxClusterSize {
			continue
		}

		discounted := o
		discounted.DetectionConfidence = o.DetectionConfidence * reflectionDiscount(k, cfg)
		discounted.BaseWeight = discounted.DetectionConfidence * discounted.AngularConfidence

		if discounted.DetectionConfidence < cfg.MinConfidence {
			continue
		}
		survivors = append(survivors, discounted)
	}
	return survivors
}

// reflectionDiscount returns the confidence multiplier for a cluster of k
// distinct light indices. Monotonically decreasing in k.
func reflectionDiscount(k int, cfg ReflectionConfig) float64 {
	rate := cfg.DiscountRate
	if rate <= 0 {
		rate = 0.5
	}
	return 1.0 / (1.0 + rate*float64(k-1))
}

func cellFor(o Observation, tol float64) pixelCell {
	return pixelCell{
		x: int(math.Round(o.PixelX / tol)),
		y: int(math.Round(o.PixelY / tol)),
	}
}
