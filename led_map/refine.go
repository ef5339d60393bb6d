package ledmap

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// ReferenceLight ties a known cone-surface position to the pixel where one
// camera detected it, for pose refinement.
type ReferenceLight struct {
	NormalizedHeight float64
	AngleDeg         float64
	PixelX           float64
	PixelY           float64
}

// RefinePose refines a calibrated camera pose against a handful of reference
// lights with known cone coordinates. Two parameters are solved for: an
// azimuth correction about the tree axis and a radial distance scale. Each
// Gauss-Newton step solves the 2x2 normal equations built from a numeric
// Jacobian of the pixel reprojection residuals.
//
// Full six-degree pose estimation is deliberately out of reach here; the
// mount fixes the camera level and pointed at the tree, and azimuth and
// distance are the two measurements most often off after a hand calibration.
func RefinePose(pose CameraPose, refs []ReferenceLight, cone ConeShape, cfg RefineConfig) (CameraPose, error) {
	if err := validatePose(pose); err != nil {
		return CameraPose{}, err
	}
	if len(refs) < 2 {
		return CameraPose{}, ErrInsufficientObservations
	}

	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = 10
	}
	eps := cfg.Epsilon
	if eps <= 0 {
		eps = 1e-5
	}

	params := [2]float64{0, 1} // azimuth offset (radians), radial scale

	for iter := 0; iter < iterations; iter++ {
		res := residuals(pose, params, refs, cone)

		m := len(res)
		jac := mat.NewDense(m, 2, nil)
		for p := 0; p < 2; p++ {
			bumped := params
			bumped[p] += eps
			resB := residuals(pose, bumped, refs, cone)
			for i := 0; i < m; i++ {
				jac.Set(i, p, (resB[i]-res[i])/eps)
			}
		}

		r := mat.NewVecDense(m, res)

		// Normal equations: (J^T J) delta = J^T r.
		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		var jtr mat.VecDense
		jtr.MulVec(jac.T(), r)

		var delta mat.VecDense
		if err := delta.SolveVec(&jtj, &jtr); err != nil {
			return CameraPose{}, err
		}

		params[0] -= delta.AtVec(0)
		params[1] -= delta.AtVec(1)

		if math.Abs(delta.AtVec(0)) < 1e-10 && math.Abs(delta.AtVec(1)) < 1e-10 {
			break
		}
	}

	refined := applyParams(pose, params)
	return refined, nil
}

// residuals computes the flattened pixel reprojection errors for a candidate
// parameter pair.
func residuals(pose CameraPose, params [2]float64, refs []ReferenceLight, cone ConeShape) []float64 {
	adjusted := applyParams(pose, params)
	out := make([]float64, 0, 2*len(refs))
	for _, ref := range refs {
		pt := cone.SurfacePoint(ref.NormalizedHeight, ref.AngleDeg)
		px, py, ok := ProjectPoint(adjusted, pt)
		if !ok {
			// Behind the camera for this parameter guess; penalize heavily so
			// the solver steps away.
			out = append(out, 1e6, 1e6)
			continue
		}
		out = append(out, px-ref.PixelX, py-ref.PixelY)
	}
	return out
}

// applyParams rotates the camera position about the tree axis by the azimuth
// offset and scales its horizontal distance.
func applyParams(pose CameraPose, params [2]float64) CameraPose {
	dAz, scale := params[0], params[1]
	cosA, sinA := math.Cos(dAz), math.Sin(dAz)

	p := pose.Position
	rotated := r3.Vector{
		X: p.X*cosA - p.Y*sinA,
		Y: p.X*sinA + p.Y*cosA,
		Z: p.Z,
	}
	rotated.X *= scale
	rotated.Y *= scale

	out := pose
	out.Position = rotated
	out.AzimuthDeg = normalizeAngleDeg(pose.AzimuthDeg + dAz*180.0/math.Pi)
	return out
}
