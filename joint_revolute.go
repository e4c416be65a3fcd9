package physics

import "math"

// RevoluteJointDef configures a RevoluteJoint: a shared point plus an
// optional motor and angular limit.
type RevoluteJointDef struct {
	BodyA, BodyB             *Body
	LocalAnchorA, LocalAnchorB Vector
	ReferenceAngle           float64
	EnableLimit              bool
	LowerAngle, UpperAngle   float64
	EnableMotor              bool
	MotorSpeed               float64
	MaxMotorTorque           float64
	CollideConnected         bool
	UserData                 interface{}
}

// RevoluteJoint pins two bodies together at a point, optionally driving
// or limiting their relative angle.
type RevoluteJoint struct {
	jointBase

	localAnchorA, localAnchorB Vector
	referenceAngle             float64

	enableLimit            bool
	lowerAngle, upperAngle float64
	enableMotor            bool
	motorSpeed             float64
	maxMotorTorque         float64

	// accumulated impulses: (x, y) point impulse, z reserved for the
	// combined point+limit solve (mirrors Box2D's Vec3 impulse)
	impulse      Vec3
	motorImpulse float64

	rA, rB Vector
	mass   Mat33
	motorMass float64
	limitState LimitState
}

func NewRevoluteJoint(def RevoluteJointDef) (*RevoluteJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewRevoluteJoint", "both bodies are required")
	}
	return &RevoluteJoint{
		jointBase:      newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		enableLimit:    def.EnableLimit,
		lowerAngle:     def.LowerAngle,
		upperAngle:     def.UpperAngle,
		enableMotor:    def.EnableMotor,
		motorSpeed:     def.MotorSpeed,
		maxMotorTorque: def.MaxMotorTorque,
	}, nil
}

func (j *RevoluteJoint) GetType() JointType { return JointRevoluteType }

func (j *RevoluteJoint) GetJointAngle() float64 {
	return j.bodyB.sweep.A - j.bodyA.sweep.A - j.referenceAngle
}

func (j *RevoluteJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bA, bB := j.bodyA, j.bodyB

	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)
	j.rA = qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	j.rB = qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	fixedRotation := (iA + iB) == 0

	j.mass.Ex.X = mA + mB + j.rA.Y*j.rA.Y*iA + j.rB.Y*j.rB.Y*iB
	j.mass.Ey.X = -j.rA.Y*j.rA.X*iA - j.rB.Y*j.rB.X*iB
	j.mass.Ez.X = -j.rA.Y*iA - j.rB.Y*iB
	j.mass.Ex.Y = j.mass.Ey.X
	j.mass.Ey.Y = mA + mB + j.rA.X*j.rA.X*iA + j.rB.X*j.rB.X*iB
	j.mass.Ez.Y = j.rA.X*iA + j.rB.X*iB
	j.mass.Ex.Z = j.mass.Ez.X
	j.mass.Ey.Z = j.mass.Ez.Y
	j.mass.Ez.Z = iA + iB

	j.motorMass = iA + iB
	if j.motorMass != 0 {
		j.motorMass = 1 / j.motorMass
	}

	if !j.enableMotor || fixedRotation {
		j.motorImpulse = 0
	}

	if j.enableLimit && !fixedRotation {
		jointAngle := j.GetJointAngle()
		if math.Abs(j.upperAngle-j.lowerAngle) < 2*AngularSlop {
			j.limitState = LimitEqual
		} else if jointAngle <= j.lowerAngle {
			if j.limitState != LimitAtLower {
				j.impulse.Z = 0
			}
			j.limitState = LimitAtLower
		} else if jointAngle >= j.upperAngle {
			if j.limitState != LimitAtUpper {
				j.impulse.Z = 0
			}
			j.limitState = LimitAtUpper
		} else {
			j.limitState = LimitInactive
			j.impulse.Z = 0
		}
	} else {
		j.limitState = LimitInactive
	}

	if !step.warmStarting {
		j.impulse = Vec3{}
		j.motorImpulse = 0
	}
}

func (j *RevoluteJoint) warmStart() {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	P := Vector{j.impulse.X, j.impulse.Y}
	bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
	bA.angularVelocity -= iA * (j.rA.Cross(P) + j.motorImpulse + j.impulse.Z)
	bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
	bB.angularVelocity += iB * (j.rB.Cross(P) + j.motorImpulse + j.impulse.Z)
}

func (j *RevoluteJoint) solveVelocityConstraints(step solverStep) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	fixedRotation := (iA + iB) == 0

	if j.enableMotor && j.limitState != LimitEqual && !fixedRotation {
		Cdot := bB.angularVelocity - bA.angularVelocity - j.motorSpeed
		impulse := -j.motorMass * Cdot
		oldImpulse := j.motorImpulse
		maxImpulse := j.maxMotorTorque * step.dt
		j.motorImpulse = clampF(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		bA.angularVelocity -= iA * impulse
		bB.angularVelocity += iB * impulse
	}

	if j.enableLimit && j.limitState != LimitInactive && !fixedRotation {
		Cdot1 := bB.angularVelocity - bA.angularVelocity
		vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
		vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
		Cdot2 := vpB.Sub(vpA)
		Cdot := Vec3{Cdot2.X, Cdot2.Y, Cdot1}

		impulse := j.mass.Solve33(Cdot.Mul(-1))

		if j.limitState == LimitEqual {
			j.impulse = j.impulse.Add(impulse)
		} else if j.limitState == LimitAtLower {
			newImpulse := j.impulse.Z + impulse.Z
			if newImpulse < 0 {
				rhs := Vector{Cdot2.X, Cdot2.Y}.Neg().Add(Vector{j.mass.Ez.X, j.mass.Ez.Y}.Mul(j.impulse.Z))
				reduced := j.mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -j.impulse.Z
				j.impulse.X += impulse.X
				j.impulse.Y += impulse.Y
				j.impulse.Z = 0
			} else {
				j.impulse = j.impulse.Add(impulse)
			}
		} else {
			newImpulse := j.impulse.Z + impulse.Z
			if newImpulse > 0 {
				rhs := Vector{Cdot2.X, Cdot2.Y}.Neg().Add(Vector{j.mass.Ez.X, j.mass.Ez.Y}.Mul(j.impulse.Z))
				reduced := j.mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -j.impulse.Z
				j.impulse.X += impulse.X
				j.impulse.Y += impulse.Y
				j.impulse.Z = 0
			} else {
				j.impulse = j.impulse.Add(impulse)
			}
		}

		P := Vector{impulse.X, impulse.Y}
		bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
		bA.angularVelocity -= iA * (j.rA.Cross(P) + impulse.Z)
		bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
		bB.angularVelocity += iB * (j.rB.Cross(P) + impulse.Z)
	} else {
		vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
		vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
		Cdot := vpB.Sub(vpA)

		impulse := j.mass.Solve22(Cdot.Neg())
		j.impulse.X += impulse.X
		j.impulse.Y += impulse.Y

		bA.linearVelocity = bA.linearVelocity.Sub(impulse.Mul(mA))
		bA.angularVelocity -= iA * j.rA.Cross(impulse)
		bB.linearVelocity = bB.linearVelocity.Add(impulse.Mul(mB))
		bB.angularVelocity += iB * j.rB.Cross(impulse)
	}
}

func (j *RevoluteJoint) solvePositionConstraints(step solverStep) bool {
	bA, bB := j.bodyA, j.bodyB
	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	angularError := 0.0
	positionError := 0.0

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB
	fixedRotation := (iA + iB) == 0

	if j.enableLimit && j.limitState != LimitInactive && !fixedRotation {
		angle := bB.sweep.A - bA.sweep.A - j.referenceAngle
		var C float64
		var limitImpulse float64
		switch j.limitState {
		case LimitEqual:
			C = clampF(angle-j.lowerAngle, -MaxAngularCorrection, MaxAngularCorrection)
		case LimitAtLower:
			C = angle - j.lowerAngle
			angularError = math.Min(0, C)
			C = clampF(C+AngularSlop, -MaxAngularCorrection, 0)
		case LimitAtUpper:
			C = angle - j.upperAngle
			angularError = math.Max(0, C)
			C = clampF(C-AngularSlop, 0, MaxAngularCorrection)
		}
		if iA+iB > 0 {
			limitImpulse = -(1 / (iA + iB)) * C
		}
		bA.sweep.A -= iA * limitImpulse
		bB.sweep.A += iB * limitImpulse
		qA = NewRotation(bA.sweep.A)
		qB = NewRotation(bB.sweep.A)
		angularError = math.Abs(angularError)
	}

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	C := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())
	positionError = C.Length()

	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X

	K := Mat22{Ex: Vector{k11, k12}, Ey: Vector{k12, k22}}
	impulse := K.Solve(C).Neg()

	bA.sweep.C = bA.sweep.C.Sub(impulse.Mul(mA))
	bA.sweep.A -= iA * rA.Cross(impulse)
	bB.sweep.C = bB.sweep.C.Add(impulse.Mul(mB))
	bB.sweep.A += iB * rB.Cross(impulse)

	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return positionError <= LinearSlop && angularError <= AngularSlop
}

func (j *RevoluteJoint) GetReactionForce(invDt float64) Vector {
	return Vector{j.impulse.X, j.impulse.Y}.Mul(invDt)
}
func (j *RevoluteJoint) GetReactionTorque(invDt float64) float64 {
	return j.impulse.Z * invDt
}
