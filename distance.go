package physics

import "math"

// DistanceInput bundles the two proxies and their transforms for a
// closest-points query.
type DistanceInput struct {
	ProxyA, ProxyB distanceProxy
	TransformA, TransformB Transform
	UseRadii               bool
}

// DistanceOutput reports the closest points (in world space, already
// shifted by the proxy radii if UseRadii was set), the distance between
// them, and how many GJK iterations it took.
type DistanceOutput struct {
	PointA, PointB Vector
	Distance       float64
	Iterations     int
}

// SimplexCache lets a caller carry GJK state across repeated calls on a
// slowly-changing pair: an indices pair plus a perimeter metric. If
// the cached metric has drifted too far, or an index is out of range for
// the new proxies, the cache is reset and GJK starts cold.
type SimplexCache struct {
	Count    int
	IndexA   [3]int
	IndexB   [3]int
	Metric   float64
}

type simplexVertex struct {
	wA, wB, w Vector
	a, b      int // supporting vertex index into each proxy
	u         float64
}

type simplex struct {
	v     [3]simplexVertex
	count int
}

func (s *simplex) readCache(cache *SimplexCache, proxyA, proxyB distanceProxy, xfA, xfB Transform) {
	assert(cache.Count <= 3, "corrupt simplex cache")
	s.count = cache.Count
	for i := 0; i < s.count; i++ {
		v := &s.v[i]
		v.a = cache.IndexA[i]
		v.b = cache.IndexB[i]
		if v.a >= len(proxyA.vertices) || v.b >= len(proxyB.vertices) {
			s.count = 0
			break
		}
		wALocal := proxyA.vertices[v.a]
		wBLocal := proxyB.vertices[v.b]
		v.wA = xfA.Apply(wALocal)
		v.wB = xfB.Apply(wBLocal)
		v.w = v.wB.Sub(v.wA)
		v.u = 1
	}

	if s.count > 1 {
		metric1 := cache.Metric
		metric2 := s.getMetric()
		if metric2 < 0.5*metric1 || 2*metric1 < metric2 || metric2 < epsilon {
			s.count = 0
		}
	}

	if s.count == 0 {
		v := &s.v[0]
		v.a = 0
		v.b = 0
		v.wA = xfA.Apply(proxyA.vertices[0])
		v.wB = xfB.Apply(proxyB.vertices[0])
		v.w = v.wB.Sub(v.wA)
		v.u = 1
		s.count = 1
	}
}

func (s *simplex) writeCache(cache *SimplexCache) {
	cache.Metric = s.getMetric()
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		cache.IndexA[i] = s.v[i].a
		cache.IndexB[i] = s.v[i].b
	}
}

func (s *simplex) getSearchDirection() Vector {
	switch s.count {
	case 1:
		return s.v[0].w.Neg()
	case 2:
		e12 := s.v[1].w.Sub(s.v[0].w)
		sgn := e12.Cross(s.v[0].w.Neg())
		if sgn > 0 {
			return e12.Perp()
		}
		return e12.RPerp()
	default:
		return Vector{}
	}
}

func (s *simplex) getClosestPoint() Vector {
	switch s.count {
	case 1:
		return s.v[0].w
	case 2:
		return s.v[0].w.Mul(s.v[0].u).Add(s.v[1].w.Mul(s.v[1].u))
	default:
		return Vector{}
	}
}

func (s *simplex) getWitnessPoints() (a, b Vector) {
	switch s.count {
	case 1:
		return s.v[0].wA, s.v[0].wB
	case 2:
		a = s.v[0].wA.Mul(s.v[0].u).Add(s.v[1].wA.Mul(s.v[1].u))
		b = s.v[0].wB.Mul(s.v[0].u).Add(s.v[1].wB.Mul(s.v[1].u))
		return
	default:
		a = s.v[0].wA.Mul(s.v[0].u).Add(s.v[1].wA.Mul(s.v[1].u)).Add(s.v[2].wA.Mul(s.v[2].u))
		b = a
		return
	}
}

func (s *simplex) getMetric() float64 {
	switch s.count {
	case 1:
		return 0
	case 2:
		return Distance(s.v[0].w, s.v[1].w)
	default:
		return s.v[1].w.Sub(s.v[0].w).Cross(s.v[2].w.Sub(s.v[0].w))
	}
}

// solve2 reduces a 2-simplex to its closest feature to the origin (a
// sub-segment or a single vertex), setting barycentric weights u.
func (s *simplex) solve2() {
	w1 := s.v[0].w
	w2 := s.v[1].w
	e12 := w2.Sub(w1)

	d12_2 := -w1.Dot(e12)
	if d12_2 <= 0 {
		s.v[0].u = 1
		s.count = 1
		return
	}

	d12_1 := w2.Dot(e12)
	if d12_1 <= 0 {
		s.v[0] = s.v[1]
		s.v[0].u = 1
		s.count = 1
		return
	}

	inv := 1.0 / (d12_1 + d12_2)
	s.v[0].u = d12_1 * inv
	s.v[1].u = d12_2 * inv
	s.count = 2
}

// solve3 reduces a 3-simplex (triangle) to its closest feature: a vertex,
// an edge, or the whole triangle if the origin lies inside it.
func (s *simplex) solve3() {
	w1, w2, w3 := s.v[0].w, s.v[1].w, s.v[2].w

	e12 := w2.Sub(w1)
	w1e12 := w1.Dot(e12)
	w2e12 := w2.Dot(e12)
	d12_1 := w2e12
	d12_2 := -w1e12

	e13 := w3.Sub(w1)
	w1e13 := w1.Dot(e13)
	w3e13 := w3.Dot(e13)
	d13_1 := w3e13
	d13_2 := -w1e13

	e23 := w3.Sub(w2)
	w2e23 := w2.Dot(e23)
	w3e23 := w3.Dot(e23)
	d23_1 := w3e23
	d23_2 := -w2e23

	n123 := e12.Cross(e13)

	d123_1 := n123 * w2.Cross(w3)
	d123_2 := n123 * w3.Cross(w1)
	d123_3 := n123 * w1.Cross(w2)

	if d12_2 <= 0 && d13_2 <= 0 {
		s.v[0].u = 1
		s.count = 1
		return
	}

	if d12_1 > 0 && d12_2 > 0 && d123_3 <= 0 {
		inv := 1.0 / (d12_1 + d12_2)
		s.v[0].u = d12_1 * inv
		s.v[1].u = d12_2 * inv
		s.count = 2
		return
	}

	if d13_1 > 0 && d13_2 > 0 && d123_2 <= 0 {
		inv := 1.0 / (d13_1 + d13_2)
		s.v[0].u = d13_1 * inv
		s.v[1] = s.v[2]
		s.v[1].u = d13_2 * inv
		s.count = 2
		return
	}

	if d12_1 <= 0 && d23_2 <= 0 {
		s.v[0] = s.v[1]
		s.v[0].u = 1
		s.count = 1
		return
	}

	if d13_1 <= 0 && d23_1 <= 0 {
		s.v[0] = s.v[2]
		s.v[0].u = 1
		s.count = 1
		return
	}

	if d23_1 > 0 && d23_2 > 0 && d123_1 <= 0 {
		inv := 1.0 / (d23_1 + d23_2)
		s.v[1].u = d23_1 * inv
		s.v[2].u = d23_2 * inv
		s.count = 2
		s.v[0] = s.v[2]
		return
	}

	inv := 1.0 / (d123_1 + d123_2 + d123_3)
	s.v[0].u = d123_1 * inv
	s.v[1].u = d123_2 * inv
	s.v[2].u = d123_3 * inv
	s.count = 3
}

// ComputeDistance computes the closest points between two convex proxies under
// fixed transforms, evolving a simplex toward the origin of the Minkowski
// difference.
func ComputeDistance(input DistanceInput, cache *SimplexCache) DistanceOutput {
	proxyA, proxyB := input.ProxyA, input.ProxyB
	xfA, xfB := input.TransformA, input.TransformB

	var s simplex
	s.readCache(cache, proxyA, proxyB, xfA, xfB)

	var saveA, saveB [3]int
	iter := 0
	for iter < MaxGJKIterations {
		saveCount := s.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = s.v[i].a
			saveB[i] = s.v[i].b
		}

		switch s.count {
		case 1:
		case 2:
			s.solve2()
		case 3:
			s.solve3()
		}

		if s.count == 3 {
			break
		}

		d := s.getSearchDirection()
		if d.LengthSq() < epsilon*epsilon {
			break
		}

		vertex := &s.v[s.count]
		vertex.a = proxyA.support(xfA.Q.InvRotateVec(d.Neg()))
		vertex.wA = xfA.Apply(proxyA.vertices[vertex.a])
		vertex.b = proxyB.support(xfB.Q.InvRotateVec(d))
		vertex.wB = xfB.Apply(proxyB.vertices[vertex.b])
		vertex.w = vertex.wB.Sub(vertex.wA)

		iter++

		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.a == saveA[i] && vertex.b == saveB[i] {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}
		s.count++
	}

	pA, pB := s.getWitnessPoints()
	distance := Distance(pA, pB)

	s.writeCache(cache)

	out := DistanceOutput{PointA: pA, PointB: pB, Distance: distance, Iterations: iter}

	if input.UseRadii {
		rA := proxyA.radius
		rB := proxyB.radius

		if out.Distance < epsilon {
			mid := pA.Add(pB).Mul(0.5)
			out.PointA = mid
			out.PointB = mid
			out.Distance = 0
			return out
		}

		normal := pB.Sub(pA).Normalize()
		out.Distance = math.Max(0, out.Distance-rA-rB)
		out.PointA = pA.Add(normal.Mul(rA))
		out.PointB = pB.Sub(normal.Mul(rB))
	}

	return out
}
