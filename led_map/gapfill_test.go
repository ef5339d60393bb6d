package ledmap

import (
	"math"
	"testing"
)

// resolvedAt builds an observed LightPosition on the cone surface.
func resolvedAt(cone ConeShape, idx int, normH, angleDeg, conf float64) *LightPosition {
	pt := cone.SurfacePoint(normH, angleDeg)
	cc := cone.ConeCoords(pt)
	return &LightPosition{
		LightIndex:       idx,
		X:                pt.X,
		Y:                pt.Y,
		Z:                pt.Z,
		NormalizedHeight: cc.NormalizedHeight,
		AngleDeg:         cc.AngleDeg,
		Radius:           cc.Radius,
		Confidence:       conf,
		Surface:          SurfaceFront,
		Resolution:       ResolvedObserved,
	}
}

func TestFillGaps_MidpointIsCartesianMidpoint(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	cfg := DefaultConfig().GapFill

	resolved := make([]*LightPosition, 3)
	resolved[0] = resolvedAt(cone, 0, 0.2, 30, 0.9)
	resolved[2] = resolvedAt(cone, 2, 0.4, 80, 0.7)

	out, err := FillGaps(resolved, cone, cfg)
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}

	mid := out[1]
	wantX := (resolved[0].X + resolved[2].X) / 2
	wantY := (resolved[0].Y + resolved[2].Y) / 2
	wantZ := (resolved[0].Z + resolved[2].Z) / 2

	if math.Abs(mid.X-wantX) > 1e-12 || math.Abs(mid.Y-wantY) > 1e-12 || math.Abs(mid.Z-wantZ) > 1e-12 {
		t.Errorf("midpoint (%f,%f,%f), want (%f,%f,%f)", mid.X, mid.Y, mid.Z, wantX, wantY, wantZ)
	}

	// Angle must be the atan2 of the midpoint, not the average of the
	// endpoint angles.
	wantAngle := normalizeAngleDeg(math.Atan2(wantY, wantX) * 180 / math.Pi)
	if math.Abs(mid.AngleDeg-wantAngle) > 1e-9 {
		t.Errorf("midpoint angle %f, want derived %f", mid.AngleDeg, wantAngle)
	}
	naiveAvg := (resolved[0].AngleDeg + resolved[2].AngleDeg) / 2
	if math.Abs(wantAngle-naiveAvg) < 1e-9 {
		t.Log("derived angle happens to equal naive average for this geometry")
	}

	wantRadius := math.Hypot(wantX, wantY)
	if math.Abs(mid.Radius-wantRadius) > 1e-12 {
		t.Errorf("midpoint radius %f, want %f", mid.Radius, wantRadius)
	}
	if mid.Resolution != ResolvedPredicted {
		t.Errorf("midpoint resolution %v, want predicted", mid.Resolution)
	}
}

func TestFillGaps_InterpolationCrossesAngleSeam(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	cfg := DefaultConfig().GapFill

	// Endpoints at 350° and 10°: the string physically passes through 0°,
	// not through 180°.
	resolved := make([]*LightPosition, 3)
	resolved[0] = resolvedAt(cone, 0, 0.5, 350, 0.8)
	resolved[2] = resolvedAt(cone, 2, 0.5, 10, 0.8)

	out, err := FillGaps(resolved, cone, cfg)
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}

	mid := out[1]
	// Midpoint of the chord sits at angle 0 (= 360 seam).
	seamDist := math.Min(mid.AngleDeg, 360-mid.AngleDeg)
	if seamDist > 1e-6 {
		t.Errorf("midpoint angle %f, want 0/360 seam (interpolated through the seam)", mid.AngleDeg)
	}
	if math.Abs(mid.AngleDeg-180) < 90 {
		t.Errorf("midpoint angle %f went the long way around", mid.AngleDeg)
	}
	// The chord midpoint lies slightly inside the surface radius.
	surfR := cone.RadiusAt(mid.Z)
	if mid.Radius > surfR+1e-9 {
		t.Errorf("chord midpoint radius %f outside surface radius %f", mid.Radius, surfR)
	}
}

func TestFillGaps_StringEndsNeverWrap(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	cfg := DefaultConfig().GapFill

	// Only the top end of the string is resolved. Index 0 sits at an angle
	// adjacent to index n-1 on the cone, but they are opposite physical ends
	// of the string: index 0 must be extrapolated from the right-hand
	// neighbors, never interpolated against a wrapped partner.
	n := 10
	resolved := make([]*LightPosition, n)
	resolved[n-1] = resolvedAt(cone, n-1, 0.9, 355, 0.9)
	resolved[n-2] = resolvedAt(cone, n-2, 0.85, 340, 0.9)

	out, err := FillGaps(resolved, cone, cfg)
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}

	// Index 0 continues the step vector from (n-2, n-1) backwards.
	step := [3]float64{
		resolved[n-1].X - resolved[n-2].X,
		resolved[n-1].Y - resolved[n-2].Y,
		resolved[n-1].Z - resolved[n-2].Z,
	}
	wantX := resolved[n-2].X - step[0]*float64(n-2-0)
	wantY := resolved[n-2].Y - step[1]*float64(n-2-0)
	wantZ := resolved[n-2].Z - step[2]*float64(n-2-0)
	if wantZ < 0 {
		wantZ = 0
	}
	if wantZ > cone.Height {
		wantZ = cone.Height
	}

	got := out[0]
	if math.Abs(got.X-wantX) > 1e-9 || math.Abs(got.Y-wantY) > 1e-9 || math.Abs(got.Z-wantZ) > 1e-9 {
		t.Errorf("index 0 = (%f,%f,%f), want extrapolated (%f,%f,%f)",
			got.X, got.Y, got.Z, wantX, wantY, wantZ)
	}
	if got.Resolution != ResolvedPredicted {
		t.Errorf("index 0 resolution %v, want predicted", got.Resolution)
	}
}

func TestFillGaps_ExtrapolationConfidenceDecays(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	cfg := DefaultConfig().GapFill

	n := 8
	resolved := make([]*LightPosition, n)
	resolved[0] = resolvedAt(cone, 0, 0.1, 10, 0.8)
	resolved[1] = resolvedAt(cone, 1, 0.15, 30, 0.8)

	out, err := FillGaps(resolved, cone, cfg)
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}

	prev := resolved[1].Confidence
	for i := 2; i < n; i++ {
		if out[i].Confidence >= prev {
			t.Errorf("confidence at index %d (%f) did not decay below %f", i, out[i].Confidence, prev)
		}
		prev = out[i].Confidence
	}

	wantFar := 0.8 * math.Pow(cfg.ExtrapolationDecay, float64(n-2))
	if math.Abs(out[n-1].Confidence-wantFar) > 1e-9 {
		t.Errorf("furthest extrapolated confidence %f, want %f", out[n-1].Confidence, wantFar)
	}
}

func TestFillGaps_SingleAnchorUsesDefaultStep(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	cfg := DefaultConfig().GapFill

	n := 4
	resolved := make([]*LightPosition, n)
	resolved[1] = resolvedAt(cone, 1, 0.5, 90, 0.6)

	out, err := FillGaps(resolved, cone, cfg)
	if err != nil {
		t.Fatalf("FillGaps failed: %v", err)
	}

	// All indices filled, anchored positions near the lone resolved light.
	anchor := resolved[1]
	stepLen := cfg.DefaultStepFraction * cone.Height
	for i := 0; i < n; i++ {
		if i == 1 {
			continue
		}
		dx := out[i].X - anchor.X
		dy := out[i].Y - anchor.Y
		dist := math.Hypot(dx, dy)
		wantDist := stepLen * math.Abs(float64(i-1))
		if math.Abs(dist-wantDist) > 1e-9 {
			t.Errorf("index %d drifted %f from anchor, want %f", i, dist, wantDist)
		}
	}
}

func TestFillGaps_NothingResolved(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	resolved := make([]*LightPosition, 5)
	if _, err := FillGaps(resolved, cone, DefaultConfig().GapFill); err != ErrNoResolvedNeighbors {
		t.Errorf("expected ErrNoResolvedNeighbors, got %v", err)
	}
}
