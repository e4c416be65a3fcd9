package physics

import "math"

// TOIState is the outcome of a TimeOfImpact query.
type TOIState int

const (
	TOIStateUnknown TOIState = iota
	TOIStateFailed
	TOIStateOverlapped
	TOIStateTouching
	TOIStateSeparated
)

// TOIInput bundles the two swept proxies and the time horizon to search.
type TOIInput struct {
	ProxyA, ProxyB distanceProxy
	SweepA, SweepB Sweep
	TMax           float64
}

type TOIOutput struct {
	State TOIState
	T     float64
}

// separationFunction evaluates the signed separation along a fixed axis
// between the two sweeps at parameter t, used by the TOI root search. It
// is derived once per outer iteration from either a point-to-point axis
// (points type) or a face normal of one proxy (faceA/faceB types).
type separationFunction struct {
	proxyA, proxyB distanceProxy
	sweepA, sweepB Sweep
	kind           int // 0 = points, 1 = faceA, 2 = faceB
	localPoint     Vector
	axis           Vector
}

const (
	sepPoints = iota
	sepFaceA
	sepFaceB
)

func newSeparationFunction(cache *SimplexCache, proxyA, proxyB distanceProxy, sweepA, sweepB Sweep, t1 float64) separationFunction {
	xfA := sweepA.GetTransform(t1)
	xfB := sweepB.GetTransform(t1)

	sf := separationFunction{proxyA: proxyA, proxyB: proxyB, sweepA: sweepA, sweepB: sweepB}

	count := cache.Count
	assert(0 < count && count < 3, "degenerate simplex cache for TOI")

	if count == 1 {
		sf.kind = sepPoints
		localA := proxyA.vertices[cache.IndexA[0]]
		localB := proxyB.vertices[cache.IndexB[0]]
		pointA := xfA.Apply(localA)
		pointB := xfB.Apply(localB)
		sf.axis = pointB.Sub(pointA).Normalize()
		return sf
	}

	if cache.IndexA[0] == cache.IndexA[1] {
		// two points on B, one on A: B provides the face
		sf.kind = sepFaceB
		localB1 := proxyB.vertices[cache.IndexB[0]]
		localB2 := proxyB.vertices[cache.IndexB[1]]
		sf.axis = localB2.Sub(localB1).RPerp().Normalize()
		normal := xfB.Q.RotateVec(sf.axis)
		sf.localPoint = localB1.Add(localB2).Mul(0.5)
		pointB := xfB.Apply(sf.localPoint)
		localA := proxyA.vertices[cache.IndexA[0]]
		pointA := xfA.Apply(localA)
		if pointA.Sub(pointB).Dot(normal) < 0 {
			sf.axis = sf.axis.Neg()
		}
		return sf
	}

	sf.kind = sepFaceA
	localA1 := proxyA.vertices[cache.IndexA[0]]
	localA2 := proxyA.vertices[cache.IndexA[1]]
	sf.axis = localA2.Sub(localA1).RPerp().Normalize()
	normal := xfA.Q.RotateVec(sf.axis)
	sf.localPoint = localA1.Add(localA2).Mul(0.5)
	pointA := xfA.Apply(sf.localPoint)
	localB := proxyB.vertices[cache.IndexB[0]]
	pointB := xfB.Apply(localB)
	if pointB.Sub(pointA).Dot(normal) < 0 {
		sf.axis = sf.axis.Neg()
	}
	return sf
}

func (sf separationFunction) evaluate(t float64) float64 {
	xfA := sf.sweepA.GetTransform(t)
	xfB := sf.sweepB.GetTransform(t)

	switch sf.kind {
	case sepPoints:
		axisA := xfA.Q.InvRotateVec(sf.axis)
		axisB := xfB.Q.InvRotateVec(sf.axis.Neg())
		localA := sf.proxyA.vertices[sf.proxyA.support(axisA)]
		localB := sf.proxyB.vertices[sf.proxyB.support(axisB)]
		pointA := xfA.Apply(localA)
		pointB := xfB.Apply(localB)
		return pointB.Sub(pointA).Dot(sf.axis)

	case sepFaceA:
		normal := xfA.Q.RotateVec(sf.axis)
		pointA := xfA.Apply(sf.localPoint)
		axisB := xfB.Q.InvRotateVec(normal.Neg())
		localB := sf.proxyB.vertices[sf.proxyB.support(axisB)]
		pointB := xfB.Apply(localB)
		return pointB.Sub(pointA).Dot(normal)

	default: // sepFaceB
		normal := xfB.Q.RotateVec(sf.axis)
		pointB := xfB.Apply(sf.localPoint)
		axisA := xfA.Q.InvRotateVec(normal.Neg())
		localA := sf.proxyA.vertices[sf.proxyA.support(axisA)]
		pointA := xfA.Apply(localA)
		return pointA.Sub(pointB).Dot(normal)
	}
}

// ComputeTOI finds the earliest t in [0, tMax] at which the two swept
// proxies first come within the target tolerance.
func ComputeTOI(input TOIInput) TOIOutput {
	sweepA := input.SweepA
	sweepB := input.SweepB
	sweepA.Normalize()
	sweepB.Normalize()

	tMax := input.TMax
	totalRadius := input.ProxyA.radius + input.ProxyB.radius
	target := math.Max(LinearSlop, totalRadius-3*LinearSlop)
	tolerance := 0.25 * LinearSlop

	t1 := 0.0
	cache := &SimplexCache{}

	for iter := 0; ; iter++ {
		xfA := sweepA.GetTransform(t1)
		xfB := sweepB.GetTransform(t1)

		distOut := ComputeDistance(DistanceInput{
			ProxyA: input.ProxyA, ProxyB: input.ProxyB,
			TransformA: xfA, TransformB: xfB,
		}, cache)

		if distOut.Distance <= 0 || (iter == 0 && distOut.Distance < target-tolerance) {
			return TOIOutput{State: TOIStateOverlapped, T: 0}
		}

		if distOut.Distance < target+tolerance {
			return TOIOutput{State: TOIStateTouching, T: t1}
		}

		if iter >= MaxTOIIterations {
			return TOIOutput{State: TOIStateFailed, T: t1}
		}

		sf := newSeparationFunction(cache, input.ProxyA, input.ProxyB, sweepA, sweepB, t1)

		done := false
		t2 := tMax
		rootIterCount := 0
		pushBackIter := 0
		for {
			s2 := sf.evaluate(t2)
			if s2 > target+tolerance {
				return TOIOutput{State: TOIStateSeparated, T: tMax}
			}
			if s2 > target-tolerance {
				t1 = t2
				break
			}

			s1 := sf.evaluate(t1)
			if s1 < target-tolerance {
				return TOIOutput{State: TOIStateFailed, T: t1}
			}
			if s1 <= target+tolerance {
				done = true
				break
			}

			a1, a2 := t1, t2
			rootIter := 0
			for {
				var t float64
				if rootIter&1 == 1 {
					t = a1 + (target-s1)*(a2-a1)/(s2-s1)
				} else {
					t = 0.5 * (a1 + a2)
				}
				rootIter++

				s := sf.evaluate(t)
				if math.Abs(s-target) < tolerance {
					t2 = t
					break
				}
				if s > target {
					a1 = t
					s1 = s
				} else {
					a2 = t
					s2 = s
				}
				if rootIter >= MaxTOIRootIterations {
					break
				}
			}
			rootIterCount += rootIter

			pushBackIter++
			if pushBackIter == MaxSubSteps {
				break
			}
		}

		if done {
			break
		}

		if iter >= MaxTOIIterations {
			return TOIOutput{State: TOIStateFailed, T: t1}
		}
	}

	return TOIOutput{State: TOIStateTouching, T: t1}
}
