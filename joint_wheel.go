package physics

import "math"

// WheelJointDef configures a WheelJoint: bodyB is free to translate
// along an axis fixed in bodyA (with a spring) and to rotate freely,
// with an optional motor.
type WheelJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB Vector
	LocalAxisA                 Vector
	EnableMotor                bool
	MotorSpeed                 float64
	MaxMotorTorque             float64
	FrequencyHz                float64
	DampingRatio               float64
	CollideConnected           bool
	UserData                   interface{}
}

// WheelJoint models a suspension strut: a spring along an axle axis
// plus free rotation, optionally driven by a motor.
type WheelJoint struct {
	jointBase

	localAnchorA, localAnchorB Vector
	localAxisA, localYAxisA    Vector

	enableMotor    bool
	motorSpeed     float64
	maxMotorTorque float64
	frequencyHz, dampingRatio float64

	axis, perp    Vector
	s1, s2        float64
	a1, a2        float64
	bias          float64
	gamma         float64
	springMass    float64
	springImpulse float64

	motorMass    float64
	motorImpulse float64

	mass    float64
	impulse float64
}

func NewWheelJoint(def WheelJointDef) (*WheelJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewWheelJoint", "both bodies are required")
	}
	axis := def.LocalAxisA
	if axis.LengthSq() < epsilon*epsilon {
		axis = Vector{1, 0}
	} else {
		axis = axis.Normalize()
	}
	return &WheelJoint{
		jointBase:      newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		localAxisA:     axis,
		localYAxisA:    axis.Perp(),
		enableMotor:    def.EnableMotor,
		motorSpeed:     def.MotorSpeed,
		maxMotorTorque: def.MaxMotorTorque,
		frequencyHz:    def.FrequencyHz,
		dampingRatio:   def.DampingRatio,
	}, nil
}

func (j *WheelJoint) GetType() JointType { return JointWheelType }

func (j *WheelJoint) GetJointTranslation() float64 {
	bA, bB := j.bodyA, j.bodyB
	d := bB.sweep.C.Sub(bA.sweep.C)
	axis := bA.transform.Q.RotateVec(j.localAxisA)
	return d.Dot(axis)
}

func (j *WheelJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))
	d := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())

	j.axis = qA.RotateVec(j.localAxisA)
	j.a1 = d.Add(rA).Cross(j.axis)
	j.a2 = rB.Cross(j.axis)

	invMass := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	if invMass != 0 {
		j.motorMass = 1 / invMass
	} else {
		j.motorMass = 0
	}

	j.perp = qA.RotateVec(j.localYAxisA)
	j.s1 = d.Add(rA).Cross(j.perp)
	j.s2 = rB.Cross(j.perp)

	k := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	if k != 0 {
		j.mass = 1 / k
	} else {
		j.mass = 0
	}

	if j.frequencyHz > 0 {
		C := j.axis.Dot(d)
		omega := 2 * math.Pi * j.frequencyHz
		dr := 2 * j.motorMass * j.dampingRatio * omega
		kk := j.motorMass * omega * omega

		j.gamma = step.dt * (dr + step.dt*kk)
		if j.gamma != 0 {
			j.gamma = 1 / j.gamma
		}
		j.bias = C * step.dt * kk * j.gamma

		invSpringMass := j.motorMass + j.gamma
		if invSpringMass != 0 {
			j.springMass = 1 / invSpringMass
		} else {
			j.springMass = 0
		}
	} else {
		j.springMass = 0
		j.bias = 0
		j.gamma = 0
	}

	if !j.enableMotor {
		j.motorImpulse = 0
	}

	if !step.warmStarting {
		j.impulse = 0
		j.springImpulse = 0
		j.motorImpulse = 0
	}
}

func (j *WheelJoint) warmStart() {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	P := j.perp.Mul(j.impulse).Add(j.axis.Mul(j.springImpulse + j.motorImpulse))
	LA := j.impulse*j.s1 + j.springImpulse*j.a1 + j.motorImpulse
	LB := j.impulse*j.s2 + j.springImpulse*j.a2 + j.motorImpulse

	bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
	bA.angularVelocity -= iA * LA
	bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
	bB.angularVelocity += iB * LB
}

func (j *WheelJoint) solveVelocityConstraints(step solverStep) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	// spring
	if j.frequencyHz > 0 {
		Cdot := j.axis.Dot(bB.linearVelocity.Sub(bA.linearVelocity)) + j.a2*bB.angularVelocity - j.a1*bA.angularVelocity
		impulse := -j.springMass * (Cdot + j.bias + j.gamma*j.springImpulse)
		j.springImpulse += impulse

		P := j.axis.Mul(impulse)
		LA := impulse * j.a1
		LB := impulse * j.a2

		bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
		bA.angularVelocity -= iA * LA
		bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
		bB.angularVelocity += iB * LB
	}

	// motor
	if j.enableMotor {
		Cdot := bB.angularVelocity - bA.angularVelocity - j.motorSpeed
		impulse := -j.motorMass * Cdot
		oldImpulse := j.motorImpulse
		maxImpulse := j.maxMotorTorque * step.dt
		j.motorImpulse = clampF(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		bA.angularVelocity -= iA * impulse
		bB.angularVelocity += iB * impulse
	}

	// perpendicular point constraint
	{
		Cdot := j.perp.Dot(bB.linearVelocity.Sub(bA.linearVelocity)) + j.s2*bB.angularVelocity - j.s1*bA.angularVelocity
		impulse := -j.mass * Cdot
		j.impulse += impulse

		P := j.perp.Mul(impulse)
		LA := impulse * j.s1
		LB := impulse * j.s2

		bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
		bA.angularVelocity -= iA * LA
		bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
		bB.angularVelocity += iB * LB
	}
}

func (j *WheelJoint) solvePositionConstraints(step solverStep) bool {
	bA, bB := j.bodyA, j.bodyB
	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))
	d := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())

	perp := qA.RotateVec(j.localYAxisA)
	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	C := perp.Dot(d)

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	k := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	var impulse float64
	if k != 0 {
		impulse = -C / k
	}

	P := perp.Mul(impulse)
	LA := impulse * s1
	LB := impulse * s2

	bA.sweep.C = bA.sweep.C.Sub(P.Mul(mA))
	bA.sweep.A -= iA * LA
	bB.sweep.C = bB.sweep.C.Add(P.Mul(mB))
	bB.sweep.A += iB * LB

	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return math.Abs(C) <= LinearSlop
}

func (j *WheelJoint) GetReactionForce(invDt float64) Vector {
	return j.perp.Mul(j.impulse).Add(j.axis.Mul(j.springImpulse)).Mul(invDt)
}
func (j *WheelJoint) GetReactionTorque(invDt float64) float64 {
	return j.motorImpulse * invDt
}
