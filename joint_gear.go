package physics

import "math"

// GearJointDef configures a GearJoint: couples the scalar coordinate of
// two other joints (each a RevoluteJoint or a PrismaticJoint) by a fixed
// ratio. It constrains two existing joints rather than two bodies
// directly.
type GearJointDef struct {
	BodyA, BodyB     *Body
	JointA, JointB   Joint
	Ratio            float64
	CollideConnected bool
	UserData         interface{}
}

// GearJoint enforces coordinate1 + ratio*coordinate2 == constant, where
// each coordinate is the angle (revolute) or translation (prismatic) of
// one of the two coupled joints.
type GearJoint struct {
	jointBase

	jointA, jointB Joint
	typeA, typeB   JointType
	ratio          float64
	constant       float64

	bodyC, bodyD *Body

	localAnchorA, localAnchorB Vector
	localAnchorC, localAnchorD Vector
	localAxisC, localAxisD     Vector

	referenceAngleA, referenceAngleB float64

	// solver temp
	lcA, lcB, lcC, lcD Vector
	mA, mB, mC, mD     float64
	iA, iB, iC, iD     float64
	jvAC, jvBD         Vector
	jwA, jwB, jwC, jwD float64
	mass               float64
	impulse            float64
}

func NewGearJoint(def GearJointDef) (*GearJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewGearJoint", "both bodies are required")
	}
	if def.JointA == nil || def.JointB == nil {
		return nil, invalidArg("NewGearJoint", "jointA and jointB are required")
	}
	typeA := def.JointA.GetType()
	typeB := def.JointB.GetType()
	if (typeA != JointRevoluteType && typeA != JointPrismaticType) ||
		(typeB != JointRevoluteType && typeB != JointPrismaticType) {
		return nil, invalidArg("NewGearJoint", "jointA and jointB must be revolute or prismatic")
	}

	j := &GearJoint{
		jointBase: newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		jointA:    def.JointA,
		jointB:    def.JointB,
		typeA:     typeA,
		typeB:     typeB,
		ratio:     def.Ratio,
	}

	j.bodyC = def.JointA.BodyA()
	j.bodyD = def.JointB.BodyA()

	var coordinateA, coordinateB float64

	if rj, ok := def.JointA.(*RevoluteJoint); ok {
		j.localAnchorC = rj.localAnchorA
		j.localAnchorA = rj.localAnchorB
		j.referenceAngleA = rj.referenceAngle
		coordinateA = rj.GetJointAngle()
	} else if pj, ok := def.JointA.(*PrismaticJoint); ok {
		j.localAnchorC = pj.localAnchorA
		j.localAnchorA = pj.localAnchorB
		j.localAxisC = pj.localAxisA
		coordinateA = pj.GetJointTranslation()
	}

	if rj, ok := def.JointB.(*RevoluteJoint); ok {
		j.localAnchorD = rj.localAnchorA
		j.localAnchorB = rj.localAnchorB
		j.referenceAngleB = rj.referenceAngle
		coordinateB = rj.GetJointAngle()
	} else if pj, ok := def.JointB.(*PrismaticJoint); ok {
		j.localAnchorD = pj.localAnchorA
		j.localAnchorB = pj.localAnchorB
		j.localAxisD = pj.localAxisA
		coordinateB = pj.GetJointTranslation()
	}

	j.constant = coordinateA + j.ratio*coordinateB
	return j, nil
}

func (j *GearJoint) GetType() JointType { return JointGearType }

func (j *GearJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()

	j.lcA = j.bodyA.sweep.LocalCenter
	j.lcB = j.bodyB.sweep.LocalCenter
	j.lcC = j.bodyC.sweep.LocalCenter
	j.lcD = j.bodyD.sweep.LocalCenter
	j.mA, j.mB = j.invMassA, j.invMassB
	j.mC, j.mD = j.bodyC.invMass, j.bodyD.invMass
	j.iA, j.iB = j.invIA, j.invIB
	j.iC, j.iD = j.bodyC.invI, j.bodyD.invI

	qA := NewRotation(j.bodyA.sweep.A)
	qB := NewRotation(j.bodyB.sweep.A)
	qC := NewRotation(j.bodyC.sweep.A)
	qD := NewRotation(j.bodyD.sweep.A)

	j.mass = 0

	if j.typeA == JointRevoluteType {
		j.jvAC = Vector{}
		j.jwA = 1
		j.jwC = 1
		j.mass += j.iA + j.iC
	} else {
		axis := qC.RotateVec(j.localAxisC)
		rC := qC.RotateVec(j.localAnchorC.Sub(j.lcC))
		rA := qA.RotateVec(j.localAnchorA.Sub(j.lcA))
		j.jvAC = axis
		j.jwC = rC.Cross(axis)
		j.jwA = rA.Cross(axis)
		j.mass += j.mC + j.mA + j.iC*j.jwC*j.jwC + j.iA*j.jwA*j.jwA
	}

	if j.typeB == JointRevoluteType {
		j.jvBD = Vector{}
		j.jwB = j.ratio
		j.jwD = j.ratio
		j.mass += j.ratio * j.ratio * (j.iB + j.iD)
	} else {
		axis := qD.RotateVec(j.localAxisD)
		rD := qD.RotateVec(j.localAnchorD.Sub(j.lcD))
		rB := qB.RotateVec(j.localAnchorB.Sub(j.lcB))
		j.jvBD = axis.Mul(j.ratio)
		j.jwD = j.ratio * rD.Cross(axis)
		j.jwB = j.ratio * rB.Cross(axis)
		j.mass += j.ratio * j.ratio * (j.mD + j.mB) + j.iD*j.jwD*j.jwD + j.iB*j.jwB*j.jwB
	}

	if j.mass > 0 {
		j.mass = 1 / j.mass
	}

	if !step.warmStarting {
		j.impulse = 0
	}
}

func (j *GearJoint) warmStart() {
	P := j.impulse
	j.bodyA.linearVelocity = j.bodyA.linearVelocity.Add(j.jvAC.Mul(j.mA * P))
	j.bodyA.angularVelocity += j.iA * j.jwA * P
	j.bodyC.linearVelocity = j.bodyC.linearVelocity.Sub(j.jvAC.Mul(j.mC * P))
	j.bodyC.angularVelocity -= j.iC * j.jwC * P
	j.bodyB.linearVelocity = j.bodyB.linearVelocity.Add(j.jvBD.Mul(j.mB * P))
	j.bodyB.angularVelocity += j.iB * j.jwB * P
	j.bodyD.linearVelocity = j.bodyD.linearVelocity.Sub(j.jvBD.Mul(j.mD * P))
	j.bodyD.angularVelocity -= j.iD * j.jwD * P
}

func (j *GearJoint) solveVelocityConstraints(step solverStep) {
	Cdot := j.jvAC.Dot(j.bodyA.linearVelocity.Sub(j.bodyC.linearVelocity)) +
		j.jvBD.Dot(j.bodyB.linearVelocity.Sub(j.bodyD.linearVelocity)) +
		j.jwA*j.bodyA.angularVelocity - j.jwC*j.bodyC.angularVelocity +
		j.jwB*j.bodyB.angularVelocity - j.jwD*j.bodyD.angularVelocity

	impulse := -j.mass * Cdot
	j.impulse += impulse

	j.bodyA.linearVelocity = j.bodyA.linearVelocity.Add(j.jvAC.Mul(j.mA * impulse))
	j.bodyA.angularVelocity += j.iA * j.jwA * impulse
	j.bodyC.linearVelocity = j.bodyC.linearVelocity.Sub(j.jvAC.Mul(j.mC * impulse))
	j.bodyC.angularVelocity -= j.iC * j.jwC * impulse
	j.bodyB.linearVelocity = j.bodyB.linearVelocity.Add(j.jvBD.Mul(j.mB * impulse))
	j.bodyB.angularVelocity += j.iB * j.jwB * impulse
	j.bodyD.linearVelocity = j.bodyD.linearVelocity.Sub(j.jvBD.Mul(j.mD * impulse))
	j.bodyD.angularVelocity -= j.iD * j.jwD * impulse
}

func (j *GearJoint) solvePositionConstraints(step solverStep) bool {
	qA := NewRotation(j.bodyA.sweep.A)
	qB := NewRotation(j.bodyB.sweep.A)
	qC := NewRotation(j.bodyC.sweep.A)
	qD := NewRotation(j.bodyD.sweep.A)

	var JvAC, JvBD Vector
	var JwA, JwB, JwC, JwD float64
	mass := 0.0

	var coordinateA, coordinateB float64

	if j.typeA == JointRevoluteType {
		JvAC = Vector{}
		JwA, JwC = 1, 1
		mass += j.iA + j.iC
		coordinateA = j.bodyA.sweep.A - j.bodyC.sweep.A - j.referenceAngleA
	} else {
		axis := qC.RotateVec(j.localAxisC)
		rC := qC.RotateVec(j.localAnchorC.Sub(j.lcC))
		rA := qA.RotateVec(j.localAnchorA.Sub(j.lcA))
		JvAC = axis
		JwC = rC.Cross(axis)
		JwA = rA.Cross(axis)
		mass += j.mC + j.mA + j.iC*JwC*JwC + j.iA*JwA*JwA
		d := j.bodyA.sweep.C.Add(rA).Sub(j.bodyC.sweep.C).Add(rC.Neg())
		coordinateA = d.Dot(axis)
	}

	if j.typeB == JointRevoluteType {
		JvBD = Vector{}
		JwB, JwD = j.ratio, j.ratio
		mass += j.ratio * j.ratio * (j.iB + j.iD)
		coordinateB = j.bodyB.sweep.A - j.bodyD.sweep.A - j.referenceAngleB
	} else {
		axis := qD.RotateVec(j.localAxisD)
		rD := qD.RotateVec(j.localAnchorD.Sub(j.lcD))
		rB := qB.RotateVec(j.localAnchorB.Sub(j.lcB))
		JvBD = axis.Mul(j.ratio)
		JwD = j.ratio * rD.Cross(axis)
		JwB = j.ratio * rB.Cross(axis)
		mass += j.ratio*j.ratio*(j.mD+j.mB) + j.iD*JwD*JwD + j.iB*JwB*JwB
		d := j.bodyB.sweep.C.Add(rB).Sub(j.bodyD.sweep.C).Add(rD.Neg())
		coordinateB = d.Dot(axis)
	}

	C := (coordinateA + j.ratio*coordinateB) - j.constant

	var impulse float64
	if mass > 0 {
		impulse = -C / mass
	}

	j.bodyA.sweep.C = j.bodyA.sweep.C.Add(JvAC.Mul(j.mA * impulse))
	j.bodyA.sweep.A += j.iA * JwA * impulse
	j.bodyC.sweep.C = j.bodyC.sweep.C.Sub(JvAC.Mul(j.mC * impulse))
	j.bodyC.sweep.A -= j.iC * JwC * impulse
	j.bodyB.sweep.C = j.bodyB.sweep.C.Add(JvBD.Mul(j.mB * impulse))
	j.bodyB.sweep.A += j.iB * JwB * impulse
	j.bodyD.sweep.C = j.bodyD.sweep.C.Sub(JvBD.Mul(j.mD * impulse))
	j.bodyD.sweep.A -= j.iD * JwD * impulse

	j.bodyA.synchronizeTransform()
	j.bodyB.synchronizeTransform()
	j.bodyC.synchronizeTransform()
	j.bodyD.synchronizeTransform()

	return math.Abs(C) < LinearSlop
}

func (j *GearJoint) GetReactionForce(invDt float64) Vector {
	return j.jvAC.Mul(j.impulse * invDt)
}
func (j *GearJoint) GetReactionTorque(invDt float64) float64 {
	return j.iA * j.jwA * j.impulse * invDt
}
