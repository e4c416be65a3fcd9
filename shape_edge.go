package physics

// Edge is a single line segment (V1, V2), optionally carrying ghost
// vertices Vertex0/Vertex3 from the chain it came from so narrow phase can
// derive one-sided normals and suppress ghost-vertex collisions.
type Edge struct {
	Vertex0, V1, V2, Vertex3 Vector
	HasVertex0, HasVertex3   bool
	Radius                   float64
}

func NewEdgeShape(v1, v2 Vector) (*Edge, error) {
	if !v1.IsValid() || !v2.IsValid() {
		return nil, invalidArg("NewEdgeShape", "vertices must be finite")
	}
	if DistanceSq(v1, v2) < epsilon*epsilon {
		return nil, &ShapeDegeneracyError{Reason: "edge endpoints coincide"}
	}
	return &Edge{V1: v1, V2: v2, Radius: PolygonRadius}, nil
}

func (e *Edge) GetType() ShapeType { return ShapeTypeEdge }
func (e *Edge) GetRadius() float64 { return e.Radius }
func (e *Edge) GetChildCount() int { return 1 }

func (e *Edge) ComputeAABB(xf Transform, childIndex int) AABB {
	v1 := xf.Apply(e.V1)
	v2 := xf.Apply(e.V2)
	lower := MinVec(v1, v2)
	upper := MaxVec(v1, v2)
	r := Vector{e.Radius, e.Radius}
	return AABB{LowerBound: lower.Sub(r), UpperBound: upper.Add(r)}
}

func (e *Edge) ComputeMass(density float64) MassData {
	mid := e.V1.Add(e.V2).Mul(0.5)
	return MassData{Mass: 0, Center: mid, I: 0}
}

func (e *Edge) TestPoint(xf Transform, p Vector) bool {
	return false // a zero-thickness (or skin-thin) segment has no interior
}

func (e *Edge) RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool) {
	p1 := xf.Q.InvRotateVec(input.P1.Sub(xf.P))
	p2 := xf.Q.InvRotateVec(input.P2.Sub(xf.P))
	d := p2.Sub(p1)

	v1, v2 := e.V1, e.V2
	e2 := v2.Sub(v1)
	normal := e2.RPerp().Normalize()

	denom := d.Dot(normal)
	if denom == 0 {
		return RayCastOutput{}, false
	}

	t := v1.Sub(p1).Dot(normal) / denom
	if t < 0 || t > input.MaxFraction {
		return RayCastOutput{}, false
	}

	point := p1.Add(d.Mul(t))
	s := point.Sub(v1).Dot(e2) / e2.LengthSq()
	if s < 0 || s > 1 {
		return RayCastOutput{}, false
	}

	if denom > 0 {
		normal = normal.Neg()
	}
	return RayCastOutput{Normal: xf.Q.RotateVec(normal), Fraction: t}, true
}

func (e *Edge) proxy(childIndex int) distanceProxy {
	return distanceProxy{vertices: []Vector{e.V1, e.V2}, radius: e.Radius}
}
