package physics

import "math"

// Polygon is a convex polygon with a small "skin" radius (zero is
// allowed). Vertices are stored in counter-clockwise order with
// outward-facing Normals of equal length.
type Polygon struct {
	Vertices []Vector
	Normals  []Vector
	Centroid Vector
	Radius   float64
}

// NewPolygonShape computes the convex hull of points (Andrew's monotone
// chain), rejecting a polygon with fewer than 3 vertices or non-convex
// input as a shape degeneracy.
func NewPolygonShape(points []Vector) (*Polygon, error) {
	if len(points) < 3 {
		return nil, &ShapeDegeneracyError{Reason: "polygon needs at least 3 points"}
	}
	for _, p := range points {
		if !p.IsValid() {
			return nil, invalidArg("NewPolygonShape", "vertex must be finite")
		}
	}

	hull := convexHull(points)
	if len(hull) < 3 {
		return nil, &ShapeDegeneracyError{Reason: "points do not form a convex polygon with nonzero area"}
	}
	distinct := make([]Vector, len(points))
	copy(distinct, points)
	sortVectors(distinct)
	if len(hull) < len(dedupe(distinct)) {
		return nil, &ShapeDegeneracyError{Reason: "points are not in convex position"}
	}
	if len(hull) > MaxPolygonVertices {
		return nil, &ShapeDegeneracyError{Reason: "polygon exceeds the maximum vertex count"}
	}

	normals := make([]Vector, len(hull))
	for i := range hull {
		j := (i + 1) % len(hull)
		edge := hull[j].Sub(hull[i])
		assert(edge.LengthSq() > epsilon*epsilon, "degenerate polygon edge")
		normals[i] = edge.RPerp().Normalize()
	}

	return &Polygon{
		Vertices: hull,
		Normals:  normals,
		Centroid: computeCentroid(hull),
		Radius:   PolygonRadius,
	}, nil
}

// NewBoxShape builds an axis-aligned box polygon centered at the origin
// (or at center, rotated by angle), the common convenience constructor
// every Box2D-family engine offers alongside the general polygon.
func NewBoxShape(hx, hy float64) (*Polygon, error) {
	return NewBoxShapeAt(hx, hy, VectorZero(), 0)
}

func NewBoxShapeAt(hx, hy float64, center Vector, angle float64) (*Polygon, error) {
	if hx <= 0 || hy <= 0 {
		return nil, invalidArg("NewBoxShapeAt", "half extents must be positive")
	}
	q := NewRotation(angle)
	local := []Vector{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}}
	normals := []Vector{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for i := range local {
		local[i] = center.Add(q.RotateVec(local[i]))
		normals[i] = q.RotateVec(normals[i])
	}
	return &Polygon{
		Vertices: local,
		Normals:  normals,
		Centroid: center,
		Radius:   PolygonRadius,
	}, nil
}

func (p *Polygon) GetType() ShapeType { return ShapeTypePolygon }
func (p *Polygon) GetRadius() float64 { return p.Radius }
func (p *Polygon) GetChildCount() int { return 1 }

func (p *Polygon) ComputeAABB(xf Transform, childIndex int) AABB {
	lower := xf.Apply(p.Vertices[0])
	upper := lower
	for i := 1; i < len(p.Vertices); i++ {
		v := xf.Apply(p.Vertices[i])
		lower = MinVec(lower, v)
		upper = MaxVec(upper, v)
	}
	r := Vector{p.Radius, p.Radius}
	return AABB{LowerBound: lower.Sub(r), UpperBound: upper.Add(r)}
}

func (p *Polygon) ComputeMass(density float64) MassData {
	// Standard Box2D polygon mass computation: triangulate from a
	// reference point (vertex 0) and accumulate area/centroid/inertia.
	center := VectorZero()
	var area, I float64
	ref := p.Vertices[0]
	const inv3 = 1.0 / 3.0

	for i := 0; i < len(p.Vertices); i++ {
		e1 := p.Vertices[i].Sub(ref)
		j := (i + 1) % len(p.Vertices)
		e2 := p.Vertices[j].Sub(ref)

		d := e1.Cross(e2)
		triArea := 0.5 * d
		area += triArea

		center = center.Add(e1.Add(e2).Mul(triArea * inv3))

		intx2 := e1.X*e1.X + e1.X*e2.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e1.Y*e2.Y + e2.Y*e2.Y
		I += (0.25 * inv3 * d) * (intx2 + inty2)
	}

	mass := density * area
	if area > epsilon {
		center = center.Mul(1.0 / area)
	}
	centroid := ref.Add(center)

	I = density * I
	// shift inertia from the triangulation reference point to the
	// centroid, then to the origin for storage per Box2D convention
	I -= mass * center.Dot(center)
	I += mass * centroid.Dot(centroid)

	return MassData{Mass: mass, Center: centroid, I: I}
}

func (p *Polygon) TestPoint(xf Transform, point Vector) bool {
	local := xf.ApplyInv(point)
	for i := range p.Vertices {
		d := p.Normals[i].Dot(local.Sub(p.Vertices[i]))
		if d > 0 {
			return false
		}
	}
	return true
}

func (p *Polygon) RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool) {
	p1 := xf.Q.InvRotateVec(input.P1.Sub(xf.P))
	p2 := xf.Q.InvRotateVec(input.P2.Sub(xf.P))
	d := p2.Sub(p1)

	lower, upper := 0.0, input.MaxFraction
	index := -1

	for i := range p.Vertices {
		numerator := p.Normals[i].Dot(p.Vertices[i].Sub(p1))
		denominator := p.Normals[i].Dot(d)

		if denominator == 0 {
			if numerator < 0 {
				return RayCastOutput{}, false
			}
			continue
		}

		t := numerator / denominator
		if denominator < 0 && t > lower {
			lower = t
			index = i
		} else if denominator > 0 && t < upper {
			upper = t
		}

		if upper < lower {
			return RayCastOutput{}, false
		}
	}

	if index >= 0 {
		normal := xf.Q.RotateVec(p.Normals[index])
		return RayCastOutput{Normal: normal, Fraction: lower}, true
	}
	return RayCastOutput{}, false
}

func (p *Polygon) proxy(childIndex int) distanceProxy {
	return distanceProxy{vertices: p.Vertices, radius: p.Radius}
}

func computeCentroid(vs []Vector) Vector {
	center := VectorZero()
	var area float64
	ref := vs[0]
	const inv3 = 1.0 / 3.0
	for i := range vs {
		e1 := vs[i].Sub(ref)
		j := (i + 1) % len(vs)
		e2 := vs[j].Sub(ref)
		d := e1.Cross(e2)
		triArea := 0.5 * d
		area += triArea
		center = center.Add(e1.Add(e2).Mul(triArea * inv3))
	}
	if area > epsilon {
		center = center.Mul(1.0 / area)
	}
	return ref.Add(center)
}

// convexHull computes the counter-clockwise convex hull via Andrew's
// monotone chain, deduplicating near-coincident points.
func convexHull(points []Vector) []Vector {
	pts := make([]Vector, len(points))
	copy(pts, points)

	sortVectors(pts)

	pts = dedupe(pts)
	if len(pts) < 3 {
		return pts
	}

	var lower, upper []Vector
	for _, p := range pts {
		for len(lower) >= 2 && cross3(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross3(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	lower = lower[:len(lower)-1]
	upper = upper[:len(upper)-1]
	return append(lower, upper...)
}

func cross3(o, a, b Vector) float64 {
	return a.Sub(o).Cross(b.Sub(o))
}

func sortVectors(pts []Vector) {
	// simple insertion sort by (x, y); hull inputs are always small
	for i := 1; i < len(pts); i++ {
		j := i
		for j > 0 && less(pts[j], pts[j-1]) {
			pts[j], pts[j-1] = pts[j-1], pts[j]
			j--
		}
	}
}

func less(a, b Vector) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func dedupe(pts []Vector) []Vector {
	out := pts[:0:0]
	for i, p := range pts {
		if i == 0 || DistanceSq(p, pts[i-1]) > epsilon*epsilon {
			out = append(out, p)
		}
	}
	return out
}
