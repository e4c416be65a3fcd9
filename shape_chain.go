package physics

// Chain is an open polyline of connected one-sided edges, presented to
// the rest of the pipeline as a sequence of edge children. GetChild(i)
// returns the i-th segment as an Edge carrying the adjacent ghost
// vertices needed to suppress ghost-vertex collisions at shared
// endpoints.
type Chain struct {
	Vertices []Vector
	Radius   float64
}

func NewChainShape(vertices []Vector) (*Chain, error) {
	if len(vertices) < 2 {
		return nil, &ShapeDegeneracyError{Reason: "chain needs at least 2 vertices"}
	}
	for i, v := range vertices {
		if !v.IsValid() {
			return nil, invalidArg("NewChainShape", "vertex must be finite")
		}
		if i > 0 && DistanceSq(v, vertices[i-1]) < epsilon*epsilon {
			return nil, &ShapeDegeneracyError{Reason: "chain has coincident adjacent vertices"}
		}
	}
	return &Chain{Vertices: vertices, Radius: PolygonRadius}, nil
}

func (c *Chain) GetType() ShapeType { return ShapeTypeChain }
func (c *Chain) GetRadius() float64 { return c.Radius }
func (c *Chain) GetChildCount() int { return len(c.Vertices) - 1 }

// GetChildEdge returns child i as a standalone Edge, with ghost vertices
// populated from the neighboring chain vertices where present.
func (c *Chain) GetChildEdge(i int) *Edge {
	e := &Edge{V1: c.Vertices[i], V2: c.Vertices[i+1], Radius: c.Radius}
	if i > 0 {
		e.Vertex0 = c.Vertices[i-1]
		e.HasVertex0 = true
	}
	if i+2 < len(c.Vertices) {
		e.Vertex3 = c.Vertices[i+2]
		e.HasVertex3 = true
	}
	return e
}

func (c *Chain) ComputeAABB(xf Transform, childIndex int) AABB {
	return c.GetChildEdge(childIndex).ComputeAABB(xf, 0)
}

func (c *Chain) ComputeMass(density float64) MassData {
	return MassData{} // chains are always static/kinematic boundary geometry
}

func (c *Chain) TestPoint(xf Transform, p Vector) bool { return false }

func (c *Chain) RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool) {
	return c.GetChildEdge(childIndex).RayCast(input, xf, 0)
}

func (c *Chain) proxy(childIndex int) distanceProxy {
	return c.GetChildEdge(childIndex).proxy(0)
}
