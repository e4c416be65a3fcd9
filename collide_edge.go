package physics

import "math"

// CollideEdgeCircle reuses the same region logic as circle-polygon,
// clamped to the segment's two ends. The face normal is flipped toward the
// circle, so the segment collides from either side; the edge's adjacent
// vertices, where present, only serve to skip a circle that lies in the
// neighbouring segment's region past a shared endpoint.
func CollideEdgeCircle(edgeA *Edge, xfA Transform, circB *Circle, xfB Transform) Manifold {
	var m Manifold

	q := xfA.ApplyInv(xfB.Apply(circB.Center))

	a, b := edgeA.V1, edgeA.V2
	e := b.Sub(a)

	u := e.Dot(b.Sub(q))
	v := e.Dot(q.Sub(a))

	radius := edgeA.Radius + circB.Radius

	var pA Vector
	var normal Vector

	switch {
	case v <= 0:
		pA = a
		d := q.Sub(a)
		if edgeA.HasVertex0 {
			u1 := a.Sub(edgeA.Vertex0).Dot(a.Sub(q))
			if u1 > 0 {
				return m // ghost vertex region, suppress
			}
		}
		if d.LengthSq() > radius*radius {
			return m
		}
		normal = d.Normalize()
	case u <= 0:
		pA = b
		d := q.Sub(b)
		if edgeA.HasVertex3 {
			u2 := edgeA.Vertex3.Sub(b).Dot(q.Sub(b))
			if u2 > 0 {
				return m
			}
		}
		if d.LengthSq() > radius*radius {
			return m
		}
		normal = d.Normalize()
	default:
		eLenSq := e.LengthSq()
		if eLenSq < epsilon {
			return m
		}
		pA = a.Add(e.Mul(v / eLenSq))
		d := q.Sub(pA)
		if d.LengthSq() > radius*radius {
			return m
		}
		normal = e.RPerp().Normalize()
		if normal.Dot(q.Sub(a)) < 0 {
			normal = normal.Neg()
		}
	}

	m.Type = ManifoldFaceA
	m.LocalNormal = normal
	m.LocalPoint = pA
	m.PointCount = 1
	m.Points[0] = ManifoldPoint{LocalPoint: circB.Center}
	return m
}

// CollideEdgePolygon wraps the edge in a 2-vertex polygon and runs a
// one-sided SAT test of polyB against the edge's first face normal. The
// edge's adjacent vertices (Vertex0/Vertex3) are not consulted, so no
// ghost-vertex suppression is done at a chain's shared endpoints.
func CollideEdgePolygon(edgeA *Edge, xfA Transform, polyB *Polygon, xfB Transform) Manifold {
	edgePoly := &Polygon{
		Vertices: []Vector{edgeA.V1, edgeA.V2},
		Normals:  []Vector{edgeA.V2.Sub(edgeA.V1).RPerp().Normalize(), edgeA.V1.Sub(edgeA.V2).RPerp().Normalize()},
		Centroid: edgeA.V1.Add(edgeA.V2).Mul(0.5),
		Radius:   edgeA.Radius,
	}
	// A 2-vertex "polygon" isn't convex in the polygon-polygon sense
	// (findIncidentEdge/clip assume >=3 verts don't degenerate); instead
	// run one-sided SAT directly against the single edge normal.
	return collideOneSidedEdgePolygon(edgeA, edgePoly, xfA, polyB, xfB)
}

func collideOneSidedEdgePolygon(edgeA *Edge, edgePoly *Polygon, xfA Transform, polyB *Polygon, xfB Transform) Manifold {
	var m Manifold

	xf := MulTInvTransforms(xfA, xfB)

	normal := edgePoly.Normals[0] // outward normal of the single face, edge local

	// Find polygonB's support vertex against -normal (transformed).
	nLocal := xf.Q.RotateVec(normal)
	minDot := math.Inf(1)
	incident := 0
	for i := range polyB.Normals {
		d := nLocal.Dot(polyB.Normals[i])
		if d < minDot {
			minDot = d
			incident = i
		}
	}

	v1 := xf.Apply(polyB.Vertices[incident])
	v2 := xf.Apply(polyB.Vertices[(incident+1)%len(polyB.Vertices)])

	totalRadius := edgeA.Radius + polyB.Radius
	e := edgeA.V2.Sub(edgeA.V1)
	eLen := e.Length()
	if eLen < epsilon {
		return m
	}
	tangent := e.Mul(1.0 / eLen)

	sep1 := normal.Dot(v1.Sub(edgeA.V1))
	sep2 := normal.Dot(v2.Sub(edgeA.V1))
	if sep1 > totalRadius && sep2 > totalRadius {
		return m
	}
	if sep1 > totalRadius || sep2 > totalRadius {
		// Clip the one point that is too far along the normal towards the
		// edge plane so we still report the touching point.
		t := sep1 / (sep1 - sep2)
		mid := v1.Add(v2.Sub(v1).Mul(t))
		if sep1 > totalRadius {
			v1 = mid
		} else {
			v2 = mid
		}
	}

	side1 := -tangent.Dot(v1.Sub(edgeA.V1))
	side2 := tangent.Dot(v2.Sub(edgeA.V2))
	if side1 > totalRadius && side2 > totalRadius {
		return m
	}

	m.Type = ManifoldFaceA
	m.LocalNormal = normal
	m.LocalPoint = edgeA.V1.Add(edgeA.V2).Mul(0.5)

	count := 0
	for i, v := range [2]Vector{v1, v2} {
		sep := normal.Dot(v.Sub(edgeA.V1))
		if sep <= totalRadius {
			// points are stored in B's local frame, per the FaceA manifold
			// convention ComputeWorldManifold expects.
			m.Points[count] = ManifoldPoint{
				LocalPoint: xf.ApplyInv(v),
				ID:         ContactFeature{IndexA: 0, IndexB: uint8((incident + i) % len(polyB.Vertices)), TypeA: featureFace, TypeB: featureVertex},
			}
			count++
		}
	}
	m.PointCount = count
	return m
}
