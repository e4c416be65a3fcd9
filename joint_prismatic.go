package physics

import "math"

// PrismaticJointDef configures a PrismaticJoint: bodies slide along a
// shared axis, with an optional motor and translation limit.
type PrismaticJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB Vector
	LocalAxisA                 Vector
	ReferenceAngle             float64
	EnableLimit                bool
	LowerTranslation           float64
	UpperTranslation           float64
	EnableMotor                bool
	MotorSpeed                 float64
	MaxMotorForce              float64
	CollideConnected           bool
	UserData                   interface{}
}

// PrismaticJoint constrains bodyB to translate along an axis fixed in
// bodyA and to keep a fixed relative angle, optionally driven or
// bounded along that axis.
type PrismaticJoint struct {
	jointBase

	localAnchorA, localAnchorB Vector
	localAxisA                 Vector
	localYAxisA                Vector
	referenceAngle             float64

	enableLimit              bool
	lowerTranslation, upperTranslation float64
	enableMotor              bool
	motorSpeed               float64
	maxMotorForce            float64

	// solver temp
	axis, perp     Vector
	s1, s2         float64
	a1, a2         float64
	k11, k12, k22  float64
	motorMass      float64
	impulse        Vector2Impulse
	motorImpulse   float64
	limitState     LimitState
}

// Vector2Impulse is the 2-component accumulated impulse a prismatic
// joint carries: the perpendicular point constraint and the axial limit.
type Vector2Impulse struct {
	X, Y float64 // X: perpendicular impulse, Y: axial limit impulse
}

func NewPrismaticJoint(def PrismaticJointDef) (*PrismaticJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewPrismaticJoint", "both bodies are required")
	}
	axis := def.LocalAxisA
	if axis.LengthSq() < epsilon*epsilon {
		axis = Vector{1, 0}
	} else {
		axis = axis.Normalize()
	}
	return &PrismaticJoint{
		jointBase:        newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		localAnchorA:     def.LocalAnchorA,
		localAnchorB:     def.LocalAnchorB,
		localAxisA:       axis,
		localYAxisA:      axis.Perp(),
		referenceAngle:   def.ReferenceAngle,
		enableLimit:      def.EnableLimit,
		lowerTranslation: def.LowerTranslation,
		upperTranslation: def.UpperTranslation,
		enableMotor:      def.EnableMotor,
		motorSpeed:       def.MotorSpeed,
		maxMotorForce:    def.MaxMotorForce,
	}, nil
}

func (j *PrismaticJoint) GetType() JointType { return JointPrismaticType }

func (j *PrismaticJoint) GetJointTranslation() float64 {
	bA, bB := j.bodyA, j.bodyB
	d := bB.sweep.C.Sub(bA.sweep.C)
	axis := bA.transform.Q.RotateVec(j.localAxisA)
	return d.Dot(axis)
}

func (j *PrismaticJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bA, bB := j.bodyA, j.bodyB

	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))
	d := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	j.axis = qA.RotateVec(j.localAxisA)
	j.a1 = d.Add(rA).Cross(j.axis)
	j.a2 = rB.Cross(j.axis)
	j.motorMass = mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	if j.motorMass != 0 {
		j.motorMass = 1 / j.motorMass
	}

	j.perp = qA.RotateVec(j.localYAxisA)
	j.s1 = d.Add(rA).Cross(j.perp)
	j.s2 = rB.Cross(j.perp)

	k11 := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	k12 := iA*j.s1 + iB*j.s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}
	j.k11, j.k12, j.k22 = k11, k12, k22

	if j.enableLimit {
		jointTranslation := j.axis.Dot(d)
		if math.Abs(j.upperTranslation-j.lowerTranslation) < 2*LinearSlop {
			j.limitState = LimitEqual
		} else if jointTranslation <= j.lowerTranslation {
			if j.limitState != LimitAtLower {
				j.impulse.Y = 0
			}
			j.limitState = LimitAtLower
		} else if jointTranslation >= j.upperTranslation {
			if j.limitState != LimitAtUpper {
				j.impulse.Y = 0
			}
			j.limitState = LimitAtUpper
		} else {
			j.limitState = LimitInactive
			j.impulse.Y = 0
		}
	} else {
		j.limitState = LimitInactive
	}

	if !j.enableMotor {
		j.motorImpulse = 0
	}

	if !step.warmStarting {
		j.impulse = Vector2Impulse{}
		j.motorImpulse = 0
	}
}

func (j *PrismaticJoint) warmStart() {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	axialImpulse := j.motorImpulse + j.impulse.Y
	P := j.axis.Mul(axialImpulse).Add(j.perp.Mul(j.impulse.X))
	LA := axialImpulse*j.a1 + j.impulse.X*j.s1
	LB := axialImpulse*j.a2 + j.impulse.X*j.s2

	bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
	bA.angularVelocity -= iA * LA
	bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
	bB.angularVelocity += iB * LB
}

func (j *PrismaticJoint) solveVelocityConstraints(step solverStep) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	if j.enableMotor && j.limitState != LimitEqual {
		Cdot := j.axis.Dot(bB.linearVelocity.Sub(bA.linearVelocity)) + j.a2*bB.angularVelocity - j.a1*bA.angularVelocity
		impulse := j.motorMass * (j.motorSpeed - Cdot)
		oldImpulse := j.motorImpulse
		maxImpulse := j.maxMotorForce * step.dt
		j.motorImpulse = clampF(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		P := j.axis.Mul(impulse)
		bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
		bA.angularVelocity -= iA * impulse * j.a1
		bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
		bB.angularVelocity += iB * impulse * j.a2
	}

	if j.enableLimit && j.limitState != LimitInactive {
		Cdot := j.axis.Dot(bB.linearVelocity.Sub(bA.linearVelocity)) + j.a2*bB.angularVelocity - j.a1*bA.angularVelocity
		impulse := -j.motorMass * Cdot
		oldImpulse := j.impulse.Y
		j.impulse.Y += impulse

		switch j.limitState {
		case LimitAtLower:
			j.impulse.Y = math.Max(j.impulse.Y, 0)
		case LimitAtUpper:
			j.impulse.Y = math.Min(j.impulse.Y, 0)
		}
		impulse = j.impulse.Y - oldImpulse

		P := j.axis.Mul(impulse)
		bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
		bA.angularVelocity -= iA * impulse * j.a1
		bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
		bB.angularVelocity += iB * impulse * j.a2
	}

	Cdot1X := j.perp.Dot(bB.linearVelocity.Sub(bA.linearVelocity)) + j.s2*bB.angularVelocity - j.s1*bA.angularVelocity
	Cdot1Y := bB.angularVelocity - bA.angularVelocity

	rhsX := -Cdot1X
	rhsY := -Cdot1Y

	det := j.k11*j.k22 - j.k12*j.k12
	if det != 0 {
		det = 1 / det
	}
	dImpulseX := det * (j.k22*rhsX - j.k12*rhsY)
	dImpulseY := det * (j.k11*rhsY - j.k12*rhsX)
	j.impulse.X += dImpulseX

	P := j.perp.Mul(dImpulseX)
	LA := dImpulseX*j.s1 + dImpulseY
	LB := dImpulseX*j.s2 + dImpulseY

	bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
	bA.angularVelocity -= iA * LA
	bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
	bB.angularVelocity += iB * LB
}

func (j *PrismaticJoint) solvePositionConstraints(step solverStep) bool {
	bA, bB := j.bodyA, j.bodyB
	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))
	d := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())

	axis := qA.RotateVec(j.localAxisA)
	a1 := d.Add(rA).Cross(axis)
	a2 := rB.Cross(axis)
	perp := qA.RotateVec(j.localYAxisA)
	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	C1X := perp.Dot(d)
	C1Y := bB.sweep.A - bA.sweep.A - j.referenceAngle

	linearError := math.Abs(C1X)
	angularError := math.Abs(C1Y)

	var C2 float64
	active := false
	if j.enableLimit {
		translation := axis.Dot(d)
		if math.Abs(j.upperTranslation-j.lowerTranslation) < 2*LinearSlop {
			C2 = clampF(translation, -MaxLinearCorrection, MaxLinearCorrection)
			linearError = math.Max(linearError, math.Abs(translation))
			active = true
		} else if translation <= j.lowerTranslation {
			C2 = clampF(translation-j.lowerTranslation+LinearSlop, -MaxLinearCorrection, 0)
			linearError = math.Max(linearError, j.lowerTranslation-translation)
			active = true
		} else if translation >= j.upperTranslation {
			C2 = clampF(translation-j.upperTranslation-LinearSlop, 0, MaxLinearCorrection)
			linearError = math.Max(linearError, translation-j.upperTranslation)
			active = true
		}
	}

	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}

	if active {
		k13 := iA*s1*a1 + iB*s2*a2
		k23 := iA*a1 + iB*a2
		k33 := mA + mB + iA*a1*a1 + iB*a2*a2
		if k33 == 0 {
			k33 = 1
		}
		K := Mat33{
			Ex: Vec3{k11, k12, k13},
			Ey: Vec3{k12, k22, k23},
			Ez: Vec3{k13, k23, k33},
		}
		Cv := Vec3{-C1X, -C1Y, -C2}
		impulse := K.Solve33(Cv)

		P := perp.Mul(impulse.X).Add(axis.Mul(impulse.Z))
		LA := impulse.X*s1 + impulse.Y + impulse.Z*a1
		LB := impulse.X*s2 + impulse.Y + impulse.Z*a2

		bA.sweep.C = bA.sweep.C.Sub(P.Mul(mA))
		bA.sweep.A -= iA * LA
		bB.sweep.C = bB.sweep.C.Add(P.Mul(mB))
		bB.sweep.A += iB * LB
	} else {
		K := Mat22{Ex: Vector{k11, k12}, Ey: Vector{k12, k22}}
		impulse := K.Solve(Vector{-C1X, -C1Y})

		P := perp.Mul(impulse.X)
		LA := impulse.X*s1 + impulse.Y
		LB := impulse.X*s2 + impulse.Y

		bA.sweep.C = bA.sweep.C.Sub(P.Mul(mA))
		bA.sweep.A -= iA * LA
		bB.sweep.C = bB.sweep.C.Add(P.Mul(mB))
		bB.sweep.A += iB * LB
	}

	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return linearError <= LinearSlop && angularError <= AngularSlop
}

func (j *PrismaticJoint) GetReactionForce(invDt float64) Vector {
	return j.perp.Mul(j.impulse.X).Add(j.axis.Mul(j.motorImpulse + j.impulse.Y)).Mul(invDt)
}
func (j *PrismaticJoint) GetReactionTorque(invDt float64) float64 {
	return j.impulse.Y * invDt
}
