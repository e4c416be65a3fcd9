package physics

import "math"

// CollideCircles implements the circle-circle entry of the Collide*
// dispatch table.
func CollideCircles(a *Circle, xfA Transform, b *Circle, xfB Transform) Manifold {
	var m Manifold

	pA := xfA.Apply(a.Center)
	pB := xfB.Apply(b.Center)

	d := pB.Sub(pA)
	distSq := d.LengthSq()
	rA, rB := a.Radius, b.Radius
	radius := rA + rB

	if distSq > radius*radius {
		return m
	}

	m.Type = ManifoldCircles
	m.LocalPoint = a.Center
	m.LocalNormal = Vector{}
	m.PointCount = 1
	m.Points[0] = ManifoldPoint{LocalPoint: b.Center}
	return m
}

// CollideCirclePolygon implements circle-polygon: select the closest
// polygon face or vertex region.
func CollideCirclePolygon(polyA *Polygon, xfA Transform, circB *Circle, xfB Transform) Manifold {
	var m Manifold

	c := xfB.Apply(circB.Center)
	cLocal := xfA.ApplyInv(c)

	// find the face with maximum separation
	normalIndex := 0
	separation := math.Inf(-1)
	radius := polyA.Radius + circB.Radius

	for i := range polyA.Vertices {
		s := polyA.Normals[i].Dot(cLocal.Sub(polyA.Vertices[i]))
		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	if separation > radius {
		return m
	}

	v1 := polyA.Vertices[normalIndex]
	v2 := polyA.Vertices[(normalIndex+1)%len(polyA.Vertices)]

	if separation < epsilon {
		m.Type = ManifoldFaceA
		m.LocalNormal = polyA.Normals[normalIndex]
		m.LocalPoint = v1.Add(v2).Mul(0.5)
		m.PointCount = 1
		m.Points[0] = ManifoldPoint{LocalPoint: circB.Center}
		return m
	}

	u1 := cLocal.Sub(v1).Dot(v2.Sub(v1))
	u2 := cLocal.Sub(v2).Dot(v1.Sub(v2))

	switch {
	case u1 <= 0:
		if DistanceSq(cLocal, v1) > radius*radius {
			return m
		}
		m.Type = ManifoldFaceA
		m.LocalNormal = cLocal.Sub(v1).Normalize()
		m.LocalPoint = v1
	case u2 <= 0:
		if DistanceSq(cLocal, v2) > radius*radius {
			return m
		}
		m.Type = ManifoldFaceA
		m.LocalNormal = cLocal.Sub(v2).Normalize()
		m.LocalPoint = v2
	default:
		normal := polyA.Normals[normalIndex]
		if cLocal.Sub(v1).Dot(normal) > radius {
			return m
		}
		m.Type = ManifoldFaceA
		m.LocalNormal = normal
		m.LocalPoint = v1.Add(v2).Mul(0.5)
	}

	m.PointCount = 1
	m.Points[0] = ManifoldPoint{LocalPoint: circB.Center}
	return m
}
