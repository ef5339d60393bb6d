package ledmap

import (
	"math"

	"github.com/golang/geo/r3"
)

// cameraBasis is the camera's world-frame orientation. Cameras always point at
// the tree's vertical axis, so the basis is fully determined by the position.
type cameraBasis struct {
	forward r3.Vector // Toward the tree axis
	right   r3.Vector // Forward rotated 90 degrees in the horizontal plane
	up      r3.Vector // right x forward
}

// validatePose rejects cameras with non-positive FOV or image dimensions.
func validatePose(pose CameraPose) error {
	if pose.FOVDeg <= 0 || pose.ImageWidth <= 0 || pose.ImageHeight <= 0 {
		return ErrInvalidCameraGeometry
	}
	return nil
}

// focalLengthPx computes the focal length in pixels from the horizontal FOV.
func focalLengthPx(pose CameraPose) float64 {
	halfFOV := pose.FOVDeg * math.Pi / 180.0 / 2.0
	return float64(pose.ImageWidth) / 2.0 / math.Tan(halfFOV)
}

// lookAtBasis builds the camera's orientation from its position. The camera
// looks at the base of the tree axis (the world origin).
func lookAtBasis(pose CameraPose) cameraBasis {
	forward := pose.Position.Mul(-1)
	norm := forward.Norm()
	if norm < 1e-9 {
		forward = r3.Vector{X: -1}
	} else {
		forward = forward.Mul(1.0 / norm)
	}

	// Rightward direction: forward rotated -90 degrees in the horizontal plane.
	right := r3.Vector{X: forward.Y, Y: -forward.X}
	rnorm := right.Norm()
	if rnorm < 1e-9 {
		// Camera directly above or below the tree; any horizontal right works.
		right = r3.Vector{Y: -1}
	} else {
		right = right.Mul(1.0 / rnorm)
	}
	up := right.Cross(forward)
	return cameraBasis{forward: forward, right: right, up: up}
}

// PixelRay converts a pixel coordinate into a world-space ray through that
// pixel. Pixel Y grows downward, world Z grows upward.
func PixelRay(pose CameraPose, px, py float64) (Ray, error) {
	if err := validatePose(pose); err != nil {
		return Ray{}, err
	}

	f := focalLengthPx(pose)
	cx := float64(pose.ImageWidth) / 2.0
	cy := float64(pose.ImageHeight) / 2.0

	dx := (px - cx) / f
	dy := (py - cy) / f

	basis := lookAtBasis(pose)
	dir := basis.forward.Add(basis.right.Mul(dx)).Sub(basis.up.Mul(dy))
	norm := dir.Norm()
	if norm < 1e-12 {
		return Ray{}, ErrInvalidCameraGeometry
	}

	return Ray{Origin: pose.Position, Dir: dir.Mul(1.0 / norm)}, nil
}

// ProjectPoint maps a world point to pixel coordinates for a camera. Returns
// ok=false when the point is behind the camera.
func ProjectPoint(pose CameraPose, pt r3.Vector) (px, py float64, ok bool) {
	if validatePose(pose) != nil {
		return 0, 0, false
	}

	basis := lookAtBasis(pose)
	v := pt.Sub(pose.Position)
	depth := v.Dot(basis.forward)
	if depth < 1e-9 {
		return 0, 0, false
	}

	f := focalLengthPx(pose)
	cx := float64(pose.ImageWidth) / 2.0
	cy := float64(pose.ImageHeight) / 2.0

	px = cx + f*v.Dot(basis.right)/depth
	py = cy - f*v.Dot(basis.up)/depth
	return px, py, true
}
