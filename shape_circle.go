package physics

import "math"

// Circle is a disc of Radius centered at Center, in body-local coordinates.
type Circle struct {
	Center Vector
	Radius float64
}

func NewCircleShape(center Vector, radius float64) (*Circle, error) {
	if radius <= 0 || !isValid(radius) {
		return nil, invalidArg("NewCircleShape", "radius must be positive and finite")
	}
	if !center.IsValid() {
		return nil, invalidArg("NewCircleShape", "center must be finite")
	}
	return &Circle{Center: center, Radius: radius}, nil
}

func (c *Circle) GetType() ShapeType  { return ShapeTypeCircle }
func (c *Circle) GetRadius() float64  { return c.Radius }
func (c *Circle) GetChildCount() int  { return 1 }

func (c *Circle) ComputeAABB(xf Transform, childIndex int) AABB {
	p := xf.Apply(c.Center)
	return NewAABBForCircle(p, c.Radius)
}

func (c *Circle) ComputeMass(density float64) MassData {
	mass := density * math.Pi * c.Radius * c.Radius
	return MassData{
		Mass:   mass,
		Center: c.Center,
		I:      mass * (0.5*c.Radius*c.Radius + c.Center.Dot(c.Center)),
	}
}

func (c *Circle) TestPoint(xf Transform, p Vector) bool {
	center := xf.Apply(c.Center)
	return DistanceSq(p, center) <= c.Radius*c.Radius
}

func (c *Circle) RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool) {
	position := xf.Apply(c.Center)
	s := input.P1.Sub(position)
	b := s.LengthSq() - c.Radius*c.Radius

	r := input.P2.Sub(input.P1)
	rr := r.LengthSq()
	if rr < epsilon {
		return RayCastOutput{}, false
	}

	c2 := s.Dot(r)
	sigma := c2*c2 - rr*b
	if sigma < 0 || rr < epsilon {
		return RayCastOutput{}, false
	}

	t := -(c2 + math.Sqrt(sigma))
	if 0 <= t && t <= input.MaxFraction*rr {
		t /= rr
		hit := s.Add(r.Mul(t))
		return RayCastOutput{Normal: hit.Normalize(), Fraction: t}, true
	}
	return RayCastOutput{}, false
}

func (c *Circle) proxy(childIndex int) distanceProxy {
	return distanceProxy{vertices: []Vector{c.Center}, radius: c.Radius}
}
