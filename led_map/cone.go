package ledmap

import (
	"math"

	"github.com/golang/geo/r3"
)

// ConeShape is the truncated cone the light string is wound around. The base
// sits at z=0 centered on the origin, the top at z=Height.
type ConeShape struct {
	BaseRadius float64
	TopRadius  float64
	Height     float64
}

// NewConeShape validates the cone parameters. Violations reject the whole run.
func NewConeShape(baseRadius, topRadius, height float64) (ConeShape, error) {
	if baseRadius <= 0 || topRadius < 0 || topRadius >= baseRadius || height <= 0 {
		return ConeShape{}, ErrDegenerateCone
	}
	return ConeShape{BaseRadius: baseRadius, TopRadius: topRadius, Height: height}, nil
}

// RadiusAt returns the cone surface radius at height z.
func (c ConeShape) RadiusAt(z float64) float64 {
	return c.BaseRadius - (c.BaseRadius-c.TopRadius)*(z/c.Height)
}

// slope is the radius lost per unit of height.
func (c ConeShape) slope() float64 {
	return (c.BaseRadius - c.TopRadius) / c.Height
}

// SurfacePoint converts cone coordinates to a Cartesian point on the surface.
func (c ConeShape) SurfacePoint(normalizedHeight, angleDeg float64) r3.Vector {
	z := normalizedHeight * c.Height
	r := c.RadiusAt(z)
	a := angleDeg * math.Pi / 180.0
	return r3.Vector{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}
}

// ConeCoords converts a Cartesian point to a ConePoint. Angle and radius are
// always derived from x,y; the point need not lie exactly on the surface.
func (c ConeShape) ConeCoords(pt r3.Vector) ConePoint {
	return ConePoint{
		Point:            pt,
		NormalizedHeight: pt.Z / c.Height,
		AngleDeg:         normalizeAngleDeg(math.Atan2(pt.Y, pt.X) * 180.0 / math.Pi),
		Radius:           math.Hypot(pt.X, pt.Y),
	}
}

// normalizeAngleDeg maps an angle to [0, 360).
func normalizeAngleDeg(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}
