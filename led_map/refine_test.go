package ledmap

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestRefinePose_RecoversAzimuthAndDistance(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	cfg := DefaultConfig().Refine

	// The camera is really 4 degrees around and 3% further out than the
	// hand-measured calibration claims.
	truePose := CameraPose{
		Position:    r3.Vector{X: 2.5 * 1.03 * math.Cos(4*math.Pi/180), Y: 2.5 * 1.03 * math.Sin(4*math.Pi/180), Z: 1.2},
		AzimuthDeg:  4,
		FOVDeg:      60,
		ImageWidth:  1920,
		ImageHeight: 1080,
	}
	// The true Z offset matches; only azimuth/distance are wrong.
	measured := truePose
	measured.Position = r3.Vector{X: 2.5, Y: 0, Z: 1.2}
	measured.AzimuthDeg = 0

	// Reference lights spread over the camera-facing surface.
	refs := []ReferenceLight{
		{NormalizedHeight: 0.2, AngleDeg: 340},
		{NormalizedHeight: 0.4, AngleDeg: 20},
		{NormalizedHeight: 0.6, AngleDeg: 0},
		{NormalizedHeight: 0.8, AngleDeg: 40},
	}
	for i := range refs {
		pt := cone.SurfacePoint(refs[i].NormalizedHeight, refs[i].AngleDeg)
		px, py, ok := ProjectPoint(truePose, pt)
		if !ok {
			t.Fatalf("reference %d not visible from true pose", i)
		}
		refs[i].PixelX = px
		refs[i].PixelY = py
	}

	refined, err := RefinePose(measured, refs, cone, cfg)
	if err != nil {
		t.Fatalf("RefinePose failed: %v", err)
	}

	// Reprojection through the refined pose matches the observed pixels.
	var maxErr float64
	for _, ref := range refs {
		pt := cone.SurfacePoint(ref.NormalizedHeight, ref.AngleDeg)
		px, py, ok := ProjectPoint(refined, pt)
		if !ok {
			t.Fatal("reference behind refined camera")
		}
		if e := math.Hypot(px-ref.PixelX, py-ref.PixelY); e > maxErr {
			maxErr = e
		}
	}
	if maxErr > 1.0 {
		t.Errorf("max reprojection error %.3f px after refinement", maxErr)
	}

	if d := refined.Position.Sub(truePose.Position).Norm(); d > 0.02 {
		t.Errorf("refined position off by %.4f m from true pose", d)
	}
	if d := math.Abs(refined.AzimuthDeg - 4); d > 0.5 {
		t.Errorf("refined azimuth %.2f, want ~4", refined.AzimuthDeg)
	}
	t.Logf("refined position %v (true %v), azimuth %.3f, reprojection %.4f px",
		refined.Position, truePose.Position, refined.AzimuthDeg, maxErr)
}

func TestRefinePose_NoOpWhenCalibrationExact(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	pose := testPose()

	refs := []ReferenceLight{
		{NormalizedHeight: 0.3, AngleDeg: 350},
		{NormalizedHeight: 0.7, AngleDeg: 10},
	}
	for i := range refs {
		pt := cone.SurfacePoint(refs[i].NormalizedHeight, refs[i].AngleDeg)
		px, py, ok := ProjectPoint(pose, pt)
		if !ok {
			t.Fatalf("reference %d not visible", i)
		}
		refs[i].PixelX = px
		refs[i].PixelY = py
	}

	refined, err := RefinePose(pose, refs, cone, DefaultConfig().Refine)
	if err != nil {
		t.Fatalf("RefinePose failed: %v", err)
	}
	if d := refined.Position.Sub(pose.Position).Norm(); d > 1e-6 {
		t.Errorf("exact calibration moved by %g", d)
	}
}

func TestRefinePose_TooFewReferences(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	if _, err := RefinePose(testPose(), []ReferenceLight{{}}, cone, DefaultConfig().Refine); err != ErrInsufficientObservations {
		t.Errorf("expected ErrInsufficientObservations, got %v", err)
	}
}

func TestRefinePose_InvalidCamera(t *testing.T) {
	cone, _ := NewConeShape(0.5, 0.05, 2.0)
	bad := CameraPose{FOVDeg: -1, ImageWidth: 640, ImageHeight: 480}
	if _, err := RefinePose(bad, []ReferenceLight{{}, {}}, cone, DefaultConfig().Refine); err != ErrInvalidCameraGeometry {
		t.Errorf("expected ErrInvalidCameraGeometry, got %v", err)
	}
}
