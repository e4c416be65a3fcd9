package physics

// Collide dispatches to the correct Collide* routine for the (typeA,
// typeB) pair. The Collide* routines take the polygon or edge as their
// first shape, so a Circle/Polygon, Circle/Edge or Polygon/Edge pair is
// passed the other way round and its manifold flipped back.
// childA/childB select which edge of a Chain is in play; other shapes
// ignore their child index. The returned manifold's
// normal always points from fixtureA to fixtureB as originally passed in,
// regardless of which shape ended up canonicalized as the SAT reference.
func Collide(shapeA Shape, childA int, xfA Transform, shapeB Shape, childB int, xfB Transform) Manifold {
	a := resolveChild(shapeA, childA)
	b := resolveChild(shapeB, childB)

	switch va := a.(type) {
	case *Circle:
		switch vb := b.(type) {
		case *Circle:
			return CollideCircles(va, xfA, vb, xfB)
		case *Polygon:
			return flipManifold(CollideCirclePolygon(vb, xfB, va, xfA))
		case *Edge:
			return flipManifold(CollideEdgeCircle(vb, xfB, va, xfA))
		}
	case *Polygon:
		switch vb := b.(type) {
		case *Circle:
			return CollideCirclePolygon(va, xfA, vb, xfB)
		case *Polygon:
			return CollidePolygons(va, xfA, vb, xfB)
		case *Edge:
			return flipManifold(CollideEdgePolygon(vb, xfB, va, xfA))
		}
	case *Edge:
		switch vb := b.(type) {
		case *Circle:
			return CollideEdgeCircle(va, xfA, vb, xfB)
		case *Polygon:
			return CollideEdgePolygon(va, xfA, vb, xfB)
		case *Edge:
			return Manifold{} // two one-sided segments never generate a manifold
		}
	}
	return Manifold{}
}

func resolveChild(s Shape, child int) Shape {
	if c, ok := s.(*Chain); ok {
		return c.GetChildEdge(child)
	}
	return s
}

// flipManifold swaps the manifold's reference frame so normals keep
// pointing from A to B after a canonicalized call computed it the other
// way around.
func flipManifold(m Manifold) Manifold {
	if m.PointCount == 0 {
		return m
	}
	switch m.Type {
	case ManifoldFaceA:
		m.Type = ManifoldFaceB
	case ManifoldFaceB:
		m.Type = ManifoldFaceA
	}
	return m
}
