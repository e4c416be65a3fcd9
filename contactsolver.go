package physics

import "math"

// Contact velocity/position solve: friction pass before the normal pass,
// in a sequential-impulse normal+friction block solve.

func initContactVelocityConstraints(c *Contact, step solverStep) {
	fixtureA, fixtureB := c.fixtureA, c.fixtureB
	bodyA, bodyB := fixtureA.body, fixtureB.body

	radiusA := shapeChild(fixtureA.shape, c.childA).GetRadius()
	radiusB := shapeChild(fixtureB.shape, c.childB).GetRadius()

	wm := c.manifold.ComputeWorldManifold(bodyA.transform, bodyB.transform, radiusA, radiusB)
	c.normal = wm.Normal

	mA, mB := bodyA.invMass, bodyB.invMass
	iA, iB := bodyA.invI, bodyB.invI

	for i := 0; i < c.manifold.PointCount; i++ {
		cp := &c.points[i]

		cp.rA = wm.Points[i].Sub(bodyA.sweep.C)
		cp.rB = wm.Points[i].Sub(bodyB.sweep.C)

		rnA := cp.rA.Cross(c.normal)
		rnB := cp.rB.Cross(c.normal)
		kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB
		if kNormal > 0 {
			cp.normalMass = 1 / kNormal
		}

		tangent := c.normal.RPerp()
		rtA := cp.rA.Cross(tangent)
		rtB := cp.rB.Cross(tangent)
		kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB
		if kTangent > 0 {
			cp.tangentMass = 1 / kTangent
		}

		vA := bodyA.linearVelocity.Add(CrossSV(bodyA.angularVelocity, cp.rA))
		vB := bodyB.linearVelocity.Add(CrossSV(bodyB.angularVelocity, cp.rB))
		vRel := c.normal.Dot(vB.Sub(vA))
		cp.velocityBias = 0
		if vRel < -velocityThreshold {
			cp.velocityBias = -c.restitution * vRel
		}
	}
}

const velocityThreshold = 1.0

func warmStartContact(c *Contact, step solverStep) {
	fixtureA, fixtureB := c.fixtureA, c.fixtureB
	bodyA, bodyB := fixtureA.body, fixtureB.body
	mA, mB := bodyA.invMass, bodyB.invMass
	iA, iB := bodyA.invI, bodyB.invI

	tangent := c.normal.RPerp()

	for i := 0; i < c.manifold.PointCount; i++ {
		mp := &c.manifold.Points[i]
		cp := &c.points[i]

		P := c.normal.Mul(mp.NormalImpulse).Add(tangent.Mul(mp.TangentImpulse))
		bodyA.linearVelocity = bodyA.linearVelocity.Sub(P.Mul(mA))
		bodyA.angularVelocity -= iA * cp.rA.Cross(P)
		bodyB.linearVelocity = bodyB.linearVelocity.Add(P.Mul(mB))
		bodyB.angularVelocity += iB * cp.rB.Cross(P)
	}
}

func solveContactVelocityConstraints(c *Contact, step solverStep) {
	fixtureA, fixtureB := c.fixtureA, c.fixtureB
	bodyA, bodyB := fixtureA.body, fixtureB.body
	mA, mB := bodyA.invMass, bodyB.invMass
	iA, iB := bodyA.invI, bodyB.invI

	tangent := c.normal.RPerp()

	// friction first, against the previous step's normal impulse, the way
	// Box2D's b2ContactSolver orders its two passes.
	for i := 0; i < c.manifold.PointCount; i++ {
		mp := &c.manifold.Points[i]
		cp := &c.points[i]

		vA := bodyA.linearVelocity.Add(CrossSV(bodyA.angularVelocity, cp.rA))
		vB := bodyB.linearVelocity.Add(CrossSV(bodyB.angularVelocity, cp.rB))
		vt := tangent.Dot(vB.Sub(vA)) - c.tangentSpeed

		lambda := cp.tangentMass * -vt
		maxFriction := c.friction * mp.NormalImpulse
		newImpulse := clampF(mp.TangentImpulse+lambda, -maxFriction, maxFriction)
		lambda = newImpulse - mp.TangentImpulse
		mp.TangentImpulse = newImpulse

		P := tangent.Mul(lambda)
		bodyA.linearVelocity = bodyA.linearVelocity.Sub(P.Mul(mA))
		bodyA.angularVelocity -= iA * cp.rA.Cross(P)
		bodyB.linearVelocity = bodyB.linearVelocity.Add(P.Mul(mB))
		bodyB.angularVelocity += iB * cp.rB.Cross(P)
	}

	for i := 0; i < c.manifold.PointCount; i++ {
		mp := &c.manifold.Points[i]
		cp := &c.points[i]

		vA := bodyA.linearVelocity.Add(CrossSV(bodyA.angularVelocity, cp.rA))
		vB := bodyB.linearVelocity.Add(CrossSV(bodyB.angularVelocity, cp.rB))
		vn := c.normal.Dot(vB.Sub(vA))

		lambda := -cp.normalMass * (vn - cp.velocityBias)
		newImpulse := math.Max(mp.NormalImpulse+lambda, 0)
		lambda = newImpulse - mp.NormalImpulse
		mp.NormalImpulse = newImpulse

		P := c.normal.Mul(lambda)
		bodyA.linearVelocity = bodyA.linearVelocity.Sub(P.Mul(mA))
		bodyA.angularVelocity -= iA * cp.rA.Cross(P)
		bodyB.linearVelocity = bodyB.linearVelocity.Add(P.Mul(mB))
		bodyB.angularVelocity += iB * cp.rB.Cross(P)
	}
}

// contactImpulses reports the manifold's accumulated normal/tangent
// impulses for ContactListener.PostSolve.
func contactImpulses(c *Contact) ContactImpulse {
	var ci ContactImpulse
	ci.Count = c.manifold.PointCount
	for i := 0; i < ci.Count; i++ {
		ci.NormalImpulses[i] = c.manifold.Points[i].NormalImpulse
		ci.TangentImpulses[i] = c.manifold.Points[i].TangentImpulse
	}
	return ci
}

func solveContactPositionConstraints(c *Contact, step solverStep) bool {
	fixtureA, fixtureB := c.fixtureA, c.fixtureB
	bodyA, bodyB := fixtureA.body, fixtureB.body
	mA, mB := bodyA.invMass, bodyB.invMass
	iA, iB := bodyA.invI, bodyB.invI

	radiusA := shapeChild(fixtureA.shape, c.childA).GetRadius()
	radiusB := shapeChild(fixtureB.shape, c.childB).GetRadius()

	minSeparation := 0.0

	for i := 0; i < c.manifold.PointCount; i++ {
		wm := c.manifold.ComputeWorldManifold(bodyA.transform, bodyB.transform, radiusA, radiusB)
		point := wm.Points[i]
		normal := wm.Normal
		separation := wm.Separations[i]

		rA := point.Sub(bodyA.sweep.C)
		rB := point.Sub(bodyB.sweep.C)

		minSeparation = math.Min(minSeparation, separation)

		C := clampF(Baumgarte*(separation+LinearSlop), -MaxLinearCorrection, 0)

		rnA := rA.Cross(normal)
		rnB := rB.Cross(normal)
		K := mA + mB + iA*rnA*rnA + iB*rnB*rnB
		var impulse float64
		if K > 0 {
			impulse = -C / K
		}

		P := normal.Mul(impulse)
		bodyA.sweep.C = bodyA.sweep.C.Sub(P.Mul(mA))
		bodyA.sweep.A -= iA * rA.Cross(P)
		bodyB.sweep.C = bodyB.sweep.C.Add(P.Mul(mB))
		bodyB.sweep.A += iB * rB.Cross(P)

		bodyA.synchronizeTransform()
		bodyB.synchronizeTransform()
	}

	return minSeparation >= -3*LinearSlop
}
