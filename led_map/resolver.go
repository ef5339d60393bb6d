package ledmap

import "sort"

// scoredObservation pairs an observation with its occlusion evidence.
type scoredObservation struct {
	obs            Observation
	occlusionScore float64
	finalWeight    float64
}

// ResolveLight picks the single best observation for one light index and
// intersects its camera ray with the cone. Observations are weighted softly:
// finalWeight = baseWeight * (1 - occlusionScore), so a fully occluded
// observation is strongly discouraged but never excluded — a light hidden from
// every camera still yields the least-bad choice instead of failing.
//
// The occlusion evidence also decides which surface the ray grazes: scores
// below the threshold pick the near (front) intersection, scores at or above
// it pick the far (back) one. Observations whose rays miss the cone are
// skipped in favor of the next-best candidate.
//
// Observations of the same light from different cameras are never averaged;
// mixing a front-facing and back-facing witness would land between the two
// surfaces, on neither.
func ResolveLight(
	lightIndex int,
	obs []Observation,
	occlusionScores map[int][]float64, // camera index -> per-light scores
	cameras []CameraPose,
	cone ConeShape,
	cfg ResolverConfig,
) (LightPosition, error) {
	candidates := make([]scoredObservation, 0, len(obs))
	for _, o := range obs {
		if o.LightIndex != lightIndex {
			continue
		}
		score := 0.0
		if scores, ok := occlusionScores[o.CameraIndex]; ok && lightIndex < len(scores) {
			score = scores[lightIndex]
		}
		candidates = append(candidates, scoredObservation{
			obs:            o,
			occlusionScore: score,
			finalWeight:    o.BaseWeight * (1 - score),
		})
	}

	if len(candidates) == 0 {
		return LightPosition{}, ErrInsufficientObservations
	}

	// Best candidate first; ties keep the lower camera index for determinism.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].finalWeight > candidates[j].finalWeight
	})

	for _, cand := range candidates {
		if cand.obs.CameraIndex < 0 || cand.obs.CameraIndex >= len(cameras) {
			continue
		}
		pose := cameras[cand.obs.CameraIndex]

		ray, err := PixelRay(pose, cand.obs.PixelX, cand.obs.PixelY)
		if err != nil {
			continue
		}
		near, far, err := IntersectCone(ray, cone)
		if err != nil {
			// This observation misses the cone; try the next-best witness.
			continue
		}

		pt := near
		surface := SurfaceFront
		if cand.occlusionScore >= cfg.BackSurfaceThreshold {
			pt = far
			surface = SurfaceBack
		}

		return LightPosition{
			LightIndex:       lightIndex,
			X:                pt.Point.X,
			Y:                pt.Point.Y,
			Z:                pt.Point.Z,
			NormalizedHeight: pt.NormalizedHeight,
			AngleDeg:         pt.AngleDeg,
			Radius:           pt.Radius,
			Confidence:       cand.finalWeight,
			Surface:          surface,
			Resolution:       ResolvedObserved,
		}, nil
	}

	return LightPosition{}, ErrInsufficientObservations
}
