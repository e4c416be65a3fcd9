package physics

import "math"

// clipVertex is one endpoint produced by Sutherland-Hodgman clipping,
// tagged with the feature id of whichever edge/vertex produced it so
// warm-starting can match it across steps.
type clipVertex struct {
	v  Vector
	id ContactFeature
}

// findMaxSeparation finds the reference-polygon edge with the largest
// separation from the other polygon (the classic SAT sweep).
func findMaxSeparation(poly1, poly2 *Polygon, xf1, xf2 Transform) (int, float64) {
	xf := MulTInvTransforms(xf2, xf1)

	bestIndex := 0
	maxSeparation := math.Inf(-1)

	for i := range poly1.Vertices {
		n := xf.Q.RotateVec(poly1.Normals[i])
		v1 := xf.Apply(poly1.Vertices[i])

		minDot := math.Inf(1)
		for j := range poly2.Vertices {
			d := n.Dot(poly2.Vertices[j].Sub(v1))
			if d < minDot {
				minDot = d
			}
		}

		if minDot > maxSeparation {
			maxSeparation = minDot
			bestIndex = i
		}
	}

	return bestIndex, maxSeparation
}

func findIncidentEdge(poly1 *Polygon, xf1 Transform, edge1 int, poly2 *Polygon, xf2 Transform) [2]clipVertex {
	normal1 := MulTInvTransforms(xf2, xf1).Q.RotateVec(poly1.Normals[edge1])

	index := 0
	minDot := math.Inf(1)
	for i := range poly2.Normals {
		d := normal1.Dot(poly2.Normals[i])
		if d < minDot {
			minDot = d
			index = i
		}
	}

	i1 := index
	i2 := (index + 1) % len(poly2.Vertices)

	return [2]clipVertex{
		{v: poly2.Vertices[i1], id: ContactFeature{IndexA: uint8(edge1), IndexB: uint8(i1), TypeA: featureFace, TypeB: featureVertex}},
		{v: poly2.Vertices[i2], id: ContactFeature{IndexA: uint8(edge1), IndexB: uint8(i2), TypeA: featureFace, TypeB: featureVertex}},
	}
}

// clipSegmentToLine clips the segment [vIn0, vIn1] against the half-plane
// normal.Dot(x) <= offset, returning the clipped points and their count
// (Sutherland-Hodgman for a single plane).
func clipSegmentToLine(vIn [2]clipVertex, normal Vector, offset float64, edgeIndex uint8) ([2]clipVertex, int) {
	var out [2]clipVertex
	count := 0

	dist0 := normal.Dot(vIn[0].v) - offset
	dist1 := normal.Dot(vIn[1].v) - offset

	if dist0 <= 0 {
		out[count] = vIn[0]
		count++
	}
	if dist1 <= 0 {
		out[count] = vIn[1]
		count++
	}

	if dist0*dist1 < 0 {
		interp := dist0 / (dist0 - dist1)
		out[count] = clipVertex{
			v:  vIn[0].v.Add(vIn[1].v.Sub(vIn[0].v).Mul(interp)),
			id: ContactFeature{IndexA: edgeIndex, IndexB: vIn[0].id.IndexB, TypeA: featureFace, TypeB: featureVertex},
		}
		count++
	}

	return out, count
}

// CollidePolygons implements polygon-polygon via SAT with incident/
// reference edge clipping.
func CollidePolygons(polyA *Polygon, xfA Transform, polyB *Polygon, xfB Transform) Manifold {
	var m Manifold
	totalRadius := polyA.Radius + polyB.Radius

	edgeA, separationA := findMaxSeparation(polyA, polyB, xfA, xfB)
	if separationA > totalRadius {
		return m
	}

	edgeB, separationB := findMaxSeparation(polyB, polyA, xfB, xfA)
	if separationB > totalRadius {
		return m
	}

	var poly1, poly2 *Polygon
	var xf1, xf2 Transform
	var edge1 int
	var flip bool
	const tol = 0.1 * LinearSlop

	if separationB > separationA+tol {
		poly1, poly2 = polyB, polyA
		xf1, xf2 = xfB, xfA
		edge1 = edgeB
		flip = true
	} else {
		poly1, poly2 = polyA, polyB
		xf1, xf2 = xfA, xfB
		edge1 = edgeA
		flip = false
	}

	incident := findIncidentEdge(poly1, xf1, edge1, poly2, xf2)

	i11 := edge1
	i12 := (edge1 + 1) % len(poly1.Vertices)

	v11 := poly1.Vertices[i11]
	v12 := poly1.Vertices[i12]

	localTangent := v12.Sub(v11).Normalize()
	localNormal := localTangent.RPerp()
	planePoint := v11.Add(v12).Mul(0.5)

	worldTangent := xf1.Q.RotateVec(localTangent)
	normal := worldTangent.RPerp()

	frontOffset := normal.Dot(xf1.Apply(v11))
	sideOffset1 := -worldTangent.Dot(xf1.Apply(v11)) + totalRadius
	sideOffset2 := worldTangent.Dot(xf1.Apply(v12)) + totalRadius

	incidentWorld := [2]clipVertex{
		{v: xf2.Apply(incident[0].v), id: incident[0].id},
		{v: xf2.Apply(incident[1].v), id: incident[1].id},
	}

	clip1, n1 := clipSegmentToLine(incidentWorld, worldTangent.Neg(), sideOffset1, uint8(i11))
	if n1 < 2 {
		return m
	}

	clip2, n2 := clipSegmentToLine(clip1, worldTangent, sideOffset2, uint8(i12))
	if n2 < 2 {
		return m
	}

	m.LocalNormal = localNormal
	m.LocalPoint = planePoint
	if flip {
		m.Type = ManifoldFaceB
	} else {
		m.Type = ManifoldFaceA
	}

	pointCount := 0
	for i := 0; i < 2; i++ {
		separation := normal.Dot(clip2[i].v) - frontOffset
		if separation <= totalRadius {
			localPoint := xf2.ApplyInv(clip2[i].v)
			id := clip2[i].id
			if flip {
				id.TypeA, id.TypeB = id.TypeB, id.TypeA
				id.IndexA, id.IndexB = id.IndexB, id.IndexA
			}
			m.Points[pointCount] = ManifoldPoint{LocalPoint: localPoint, ID: id}
			pointCount++
		}
	}
	m.PointCount = pointCount

	return m
}
