package ledmap

import (
	"math"

	"github.com/golang/geo/r3"
)

// FillGaps produces a LightPosition for every unresolved index by
// interpolating or extrapolating from resolved neighbors along the string.
//
// The index axis is a linear, non-circular topology: index 0 and index N-1 are
// the physical ends of the string, so neighbor searches run outward along the
// slice and never wrap, even though the derived angles of the two ends may
// both sit near the 0/360 seam.
//
// All arithmetic happens in Cartesian space; angle and radius are derived from
// the result afterward. Interpolating the angle directly would take unequal
// angular steps on a cone (arc length depends on radius) and would break
// across the 0/360 seam.
//
// resolved has one entry per light index; nil entries are filled. Returns
// ErrNoResolvedNeighbors when no index is resolved at all.
func FillGaps(resolved []*LightPosition, cone ConeShape, cfg GapFillConfig) ([]LightPosition, error) {
	n := len(resolved)
	any := false
	for _, p := range resolved {
		if p != nil {
			any = true
			break
		}
	}
	if !any {
		return nil, ErrNoResolvedNeighbors
	}

	out := make([]LightPosition, n)
	for i := 0; i < n; i++ {
		if resolved[i] != nil {
			out[i] = *resolved[i]
			continue
		}

		before := nearestResolved(resolved, i, -1)
		after := nearestResolved(resolved, i, +1)

		var filled LightPosition
		switch {
		case before >= 0 && after >= 0:
			filled = interpolate(i, resolved[before], resolved[after], cone, cfg)
		case before >= 0:
			filled = extrapolate(i, before, resolved, -1, cone, cfg)
		default:
			filled = extrapolate(i, after, resolved, +1, cone, cfg)
		}
		out[i] = filled
	}
	return out, nil
}

// nearestResolved walks from index i in the given direction and returns the
// first resolved index, or -1 when the string end is reached first.
func nearestResolved(resolved []*LightPosition, i, dir int) int {
	for j := i + dir; j >= 0 && j < len(resolved); j += dir {
		if resolved[j] != nil {
			return j
		}
	}
	return -1
}

// interpolate places light i on the straight segment between its two nearest
// resolved neighbors, by fractional index position.
func interpolate(i int, before, after *LightPosition, cone ConeShape, cfg GapFillConfig) LightPosition {
	t := float64(i-before.LightIndex) / float64(after.LightIndex-before.LightIndex)

	pt := r3.Vector{
		X: before.X + t*(after.X-before.X),
		Y: before.Y + t*(after.Y-before.Y),
		Z: before.Z + t*(after.Z-before.Z),
	}

	conf := (before.Confidence + t*(after.Confidence-before.Confidence)) * cfg.InterpolationPenalty
	return predictedPosition(i, pt, conf, cone)
}

// extrapolate continues the string past its last resolved light on one side.
// The per-index step vector comes from the two nearest resolved lights on
// that side; with only one anchor available, a small horizontal tangent step
// stands in for the unknown winding direction.
func extrapolate(i, anchor int, resolved []*LightPosition, dir int, cone ConeShape, cfg GapFillConfig) LightPosition {
	a := resolved[anchor]
	// Second anchor: the next resolved light further into the resolved side.
	next := nearestResolved(resolved, anchor, dir)

	var step r3.Vector
	if next >= 0 {
		b := resolved[next]
		span := float64(a.LightIndex - b.LightIndex)
		step = r3.Vector{
			X: (a.X - b.X) / span,
			Y: (a.Y - b.Y) / span,
			Z: (a.Z - b.Z) / span,
		}
	} else {
		// Single resolved light on this side: step along the horizontal
		// tangent of the winding at the anchor.
		radial := math.Hypot(a.X, a.Y)
		tangent := r3.Vector{X: 1}
		if radial > 1e-9 {
			tangent = r3.Vector{X: -a.Y / radial, Y: a.X / radial}
		}
		step = tangent.Mul(cfg.DefaultStepFraction * cone.Height)
	}

	gap := i - a.LightIndex // Signed; matches the direction of travel.
	pt := r3.Vector{
		X: a.X + step.X*float64(gap),
		Y: a.Y + step.Y*float64(gap),
		Z: a.Z + step.Z*float64(gap),
	}
	// Extrapolation can walk off the cone vertically; keep it on the object.
	if pt.Z < 0 {
		pt.Z = 0
	}
	if pt.Z > cone.Height {
		pt.Z = cone.Height
	}

	decay := math.Pow(cfg.ExtrapolationDecay, math.Abs(float64(gap)))
	return predictedPosition(i, pt, a.Confidence*decay, cone)
}

func predictedPosition(i int, pt r3.Vector, confidence float64, cone ConeShape) LightPosition {
	cc := cone.ConeCoords(pt)
	return LightPosition{
		LightIndex:       i,
		X:                pt.X,
		Y:                pt.Y,
		Z:                pt.Z,
		NormalizedHeight: cc.NormalizedHeight,
		AngleDeg:         cc.AngleDeg,
		Radius:           cc.Radius,
		Confidence:       clamp01(confidence),
		Surface:          SurfaceFront,
		Resolution:       ResolvedPredicted,
	}
}
