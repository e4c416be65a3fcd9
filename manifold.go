package physics

// ManifoldType tags how a manifold's Normal/LocalPoint are to be
// interpreted.
type ManifoldType int

const (
	ManifoldCircles ManifoldType = iota
	ManifoldFaceA
	ManifoldFaceB
)

// ContactFeature identifies which vertex/edge combination produced a
// manifold point; it's the persistent key warm starting matches across
// steps.
type ContactFeature struct {
	IndexA, IndexB uint8
	TypeA, TypeB   uint8
}

const (
	featureVertex = iota
	featureFace
)

// ManifoldPoint is one of up to two contact points in a Manifold,
// carrying the accumulated impulses that persist across steps for warm
// starting.
type ManifoldPoint struct {
	LocalPoint     Vector
	NormalImpulse  float64
	TangentImpulse float64
	ID             ContactFeature
}

// Manifold is the narrow-phase result for one contact: up to two points
// plus a normal and reference point, expressed in the reference body's
// local frame.
type Manifold struct {
	Type       ManifoldType
	LocalPoint  Vector // circle center (Circles) or reference face point (FaceA/FaceB)
	LocalNormal Vector
	Points      [MaxManifoldPoints]ManifoldPoint
	PointCount  int
}

// WorldManifold holds the world normal, the resolved world-space contact
// points, and each point's interpenetration ("separation") along that
// normal, used by the
// velocity/position solvers.
type WorldManifold struct {
	Normal     Vector
	Points     [MaxManifoldPoints]Vector
	Separations [MaxManifoldPoints]float64
}

// ComputeWorldManifold converts a local manifold into world space given
// the two shape radii and the two body transforms.
func (m *Manifold) ComputeWorldManifold(xfA, xfB Transform, radiusA, radiusB float64) WorldManifold {
	var wm WorldManifold
	if m.PointCount == 0 {
		return wm
	}

	switch m.Type {
	case ManifoldCircles:
		normal := Vector{1, 0}
		pointA := xfA.Apply(m.LocalPoint)
		pointB := xfB.Apply(m.Points[0].LocalPoint)
		if DistanceSq(pointA, pointB) > epsilon*epsilon {
			normal = pointB.Sub(pointA).Normalize()
		}
		cA := pointA.Add(normal.Mul(radiusA))
		cB := pointB.Sub(normal.Mul(radiusB))
		wm.Normal = normal
		wm.Points[0] = cA.Add(cB).Mul(0.5)
		wm.Separations[0] = cB.Sub(cA).Dot(normal)

	case ManifoldFaceA, ManifoldFaceB:
		refXf, otherXf := xfA, xfB
		refRadius, otherRadius := radiusA, radiusB
		if m.Type == ManifoldFaceB {
			refXf, otherXf = xfB, xfA
			refRadius, otherRadius = radiusB, radiusA
		}

		normal := refXf.Q.RotateVec(m.LocalNormal)
		planePoint := refXf.Apply(m.LocalPoint)

		for i := 0; i < m.PointCount; i++ {
			clipPoint := otherXf.Apply(m.Points[i].LocalPoint)
			cA := clipPoint.Add(normal.Mul(refRadius - clipPoint.Sub(planePoint).Dot(normal)))
			cB := clipPoint.Sub(normal.Mul(otherRadius))
			wm.Points[i] = cA.Add(cB).Mul(0.5)
			wm.Separations[i] = cB.Sub(cA).Dot(normal)
		}

		if m.Type == ManifoldFaceB {
			normal = normal.Neg()
		}
		wm.Normal = normal
	}

	return wm
}
