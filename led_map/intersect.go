package ledmap

import "math"

// Height tolerance for accepting intersections at the cone's rim.
const heightTol = 1e-9

// minRayT rejects intersections at or behind the ray origin.
const minRayT = 1e-9

// IntersectCone computes the near and far intersections of a ray with the
// truncated cone surface. Substituting the ray into x²+y² = radius(z)² gives a
// quadratic in the ray parameter t; roots are kept only when t > 0 and the
// resulting height lies within [0, Height].
//
// Returns ErrNoIntersection when no valid root exists. When exactly one root
// is valid, near and far are the same point.
func IntersectCone(ray Ray, cone ConeShape) (near, far ConePoint, err error) {
	o := ray.Origin
	d := ray.Dir
	k := cone.slope()

	// radius(t) = c0 + c1*t along the ray.
	c0 := cone.BaseRadius - k*o.Z
	c1 := -k * d.Z

	a := d.X*d.X + d.Y*d.Y - c1*c1
	b := 2 * (o.X*d.X + o.Y*d.Y - c0*c1)
	c := o.X*o.X + o.Y*o.Y - c0*c0

	var roots []float64
	if math.Abs(a) < 1e-12 {
		// Ray runs parallel to the cone slope; the quadratic degenerates.
		if math.Abs(b) < 1e-12 {
			return ConePoint{}, ConePoint{}, ErrNoIntersection
		}
		roots = []float64{-c / b}
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return ConePoint{}, ConePoint{}, ErrNoIntersection
		}
		sq := math.Sqrt(disc)
		roots = []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
	}

	var valid []float64
	for _, t := range roots {
		if t <= minRayT {
			continue
		}
		z := o.Z + t*d.Z
		if z < -heightTol || z > cone.Height+heightTol {
			// The surface is a truncated cone, not an infinite one.
			continue
		}
		valid = append(valid, t)
	}

	if len(valid) == 0 {
		return ConePoint{}, ConePoint{}, ErrNoIntersection
	}

	tNear := valid[0]
	tFar := valid[len(valid)-1]
	if tNear > tFar {
		tNear, tFar = tFar, tNear
	}

	near = cone.ConeCoords(o.Add(d.Mul(tNear)))
	far = cone.ConeCoords(o.Add(d.Mul(tFar)))
	return near, far, nil
}
