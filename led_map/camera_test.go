package ledmap

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func testPose() CameraPose {
	return CameraPose{
		Position:    r3.Vector{X: 2.5, Y: 0, Z: 1.0},
		AzimuthDeg:  0,
		FOVDeg:      60,
		ImageWidth:  1920,
		ImageHeight: 1080,
	}
}

func TestPixelRay_CenterPixel(t *testing.T) {
	pose := testPose()

	ray, err := PixelRay(pose, float64(pose.ImageWidth)/2, float64(pose.ImageHeight)/2)
	if err != nil {
		t.Fatalf("PixelRay failed: %v", err)
	}

	// The center pixel looks straight at the tree base.
	want := pose.Position.Mul(-1)
	want = want.Mul(1.0 / want.Norm())
	if d := ray.Dir.Sub(want).Norm(); d > 1e-9 {
		t.Errorf("center ray direction %v, want %v", ray.Dir, want)
	}
	if ray.Origin != pose.Position {
		t.Errorf("ray origin %v, want camera position %v", ray.Origin, pose.Position)
	}
}

func TestPixelRay_UnitDirection(t *testing.T) {
	pose := testPose()
	ray, err := PixelRay(pose, 100, 900)
	if err != nil {
		t.Fatalf("PixelRay failed: %v", err)
	}
	if math.Abs(ray.Dir.Norm()-1) > 1e-12 {
		t.Errorf("ray direction not normalized: |d| = %f", ray.Dir.Norm())
	}
}

func TestPixelRay_InvalidGeometry(t *testing.T) {
	cases := []struct {
		name string
		pose CameraPose
	}{
		{"zero fov", CameraPose{Position: r3.Vector{X: 1}, FOVDeg: 0, ImageWidth: 640, ImageHeight: 480}},
		{"negative fov", CameraPose{Position: r3.Vector{X: 1}, FOVDeg: -10, ImageWidth: 640, ImageHeight: 480}},
		{"zero width", CameraPose{Position: r3.Vector{X: 1}, FOVDeg: 60, ImageWidth: 0, ImageHeight: 480}},
		{"zero height", CameraPose{Position: r3.Vector{X: 1}, FOVDeg: 60, ImageWidth: 640, ImageHeight: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := PixelRay(tc.pose, 10, 10); err != ErrInvalidCameraGeometry {
				t.Errorf("expected ErrInvalidCameraGeometry, got %v", err)
			}
		})
	}
}

func TestProjectPoint_RayRoundTrip(t *testing.T) {
	pose := testPose()

	for _, px := range []struct{ x, y float64 }{
		{960, 540},
		{400, 300},
		{1500, 800},
		{10, 10},
	} {
		ray, err := PixelRay(pose, px.x, px.y)
		if err != nil {
			t.Fatalf("PixelRay failed: %v", err)
		}

		// March along the ray and project back.
		pt := ray.Origin.Add(ray.Dir.Mul(2.0))
		gotX, gotY, ok := ProjectPoint(pose, pt)
		if !ok {
			t.Fatalf("ProjectPoint reported point behind camera for pixel (%v, %v)", px.x, px.y)
		}
		if math.Abs(gotX-px.x) > 1e-6 || math.Abs(gotY-px.y) > 1e-6 {
			t.Errorf("round trip pixel (%f, %f), want (%f, %f)", gotX, gotY, px.x, px.y)
		}
	}
}

func TestProjectPoint_BehindCamera(t *testing.T) {
	pose := testPose()
	// A point past the camera, away from the tree.
	if _, _, ok := ProjectPoint(pose, r3.Vector{X: 5, Y: 0, Z: 1}); ok {
		t.Error("expected behind-camera point to be rejected")
	}
}
