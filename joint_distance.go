package physics

import "math"

// DistanceJointDef configures a DistanceJoint, a position/velocity
// equality constraint holding two anchor points at a fixed distance, with
// an optional soft spring/damper.
type DistanceJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     Vector
	LocalAnchorB     Vector
	Length           float64
	FrequencyHz      float64
	DampingRatio     float64
	CollideConnected bool
	UserData         interface{}
}

// DistanceJoint holds two anchor points at a fixed distance, optionally
// as a soft spring instead of a rigid constraint.
type DistanceJoint struct {
	jointBase

	localAnchorA, localAnchorB Vector
	length                     float64
	frequencyHz, dampingRatio  float64

	// solver temp
	u                  Vector
	rA, rB             Vector
	mass               float64
	impulse            float64
	gamma, bias        float64
}

func NewDistanceJoint(def DistanceJointDef) (*DistanceJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewDistanceJoint", "both bodies are required")
	}
	if def.Length < 0 {
		return nil, invalidArg("NewDistanceJoint", "length must be non-negative")
	}
	return &DistanceJoint{
		jointBase:    newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		length:       def.Length,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}, nil
}

func (j *DistanceJoint) GetType() JointType { return JointDistanceType }

func (j *DistanceJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()

	bA, bB := j.bodyA, j.bodyB
	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	j.rA = qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	j.rB = qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))
	j.u = bB.sweep.C.Add(j.rB).Sub(bA.sweep.C).Add(j.rA.Neg())

	length := j.u.Length()
	if length > LinearSlop {
		j.u = j.u.Mul(1 / length)
	} else {
		j.u = Vector{}
	}

	crA := j.rA.Cross(j.u)
	crB := j.rB.Cross(j.u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	if invMass != 0 {
		j.mass = 1 / invMass
	} else {
		j.mass = 0
	}

	if j.frequencyHz > 0 {
		C := length - j.length
		omega := 2 * math.Pi * j.frequencyHz
		d := 2 * j.mass * j.dampingRatio * omega
		k := j.mass * omega * omega
		j.gamma = step.dt * (d + step.dt*k)
		if j.gamma != 0 {
			j.gamma = 1 / j.gamma
		}
		j.bias = C * step.dt * k * j.gamma

		invMass += j.gamma
		if invMass != 0 {
			j.mass = 1 / invMass
		} else {
			j.mass = 0
		}
	} else {
		j.gamma = 0
		j.bias = 0
	}

	if !step.warmStarting {
		j.impulse = 0
	}
}

func (j *DistanceJoint) warmStart() {
	P := j.u.Mul(j.impulse)
	j.bodyA.linearVelocity = j.bodyA.linearVelocity.Sub(P.Mul(j.invMassA))
	j.bodyA.angularVelocity -= j.invIA * j.rA.Cross(P)
	j.bodyB.linearVelocity = j.bodyB.linearVelocity.Add(P.Mul(j.invMassB))
	j.bodyB.angularVelocity += j.invIB * j.rB.Cross(P)
}

func (j *DistanceJoint) solveVelocityConstraints(step solverStep) {
	bA, bB := j.bodyA, j.bodyB
	vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
	vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
	Cdot := j.u.Dot(vpB.Sub(vpA))

	impulse := -j.mass * (Cdot + j.bias + j.gamma*j.impulse)
	j.impulse += impulse

	P := j.u.Mul(impulse)
	bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(j.invMassA))
	bA.angularVelocity -= j.invIA * j.rA.Cross(P)
	bB.linearVelocity = bB.linearVelocity.Add(P.Mul(j.invMassB))
	bB.angularVelocity += j.invIB * j.rB.Cross(P)
}

func (j *DistanceJoint) solvePositionConstraints(step solverStep) bool {
	if j.frequencyHz > 0 {
		return true // soft constraints are velocity-only
	}

	bA, bB := j.bodyA, j.bodyB
	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	d := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())
	length := d.Length()
	if length < epsilon {
		return true
	}
	u := d.Mul(1 / length)
	C := clampF(length-j.length, -MaxLinearCorrection, MaxLinearCorrection)

	crA := rA.Cross(u)
	crB := rB.Cross(u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	var impulse float64
	if invMass != 0 {
		impulse = -C / invMass
	}

	P := u.Mul(impulse)
	bA.sweep.C = bA.sweep.C.Sub(P.Mul(j.invMassA))
	bA.sweep.A -= j.invIA * rA.Cross(P)
	bB.sweep.C = bB.sweep.C.Add(P.Mul(j.invMassB))
	bB.sweep.A += j.invIB * rB.Cross(P)

	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return math.Abs(C) < LinearSlop
}

func (j *DistanceJoint) GetReactionForce(invDt float64) Vector {
	return j.u.Mul(j.impulse * invDt)
}
func (j *DistanceJoint) GetReactionTorque(invDt float64) float64 { return 0 }
