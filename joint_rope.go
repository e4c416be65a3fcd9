package physics

import "math"

// RopeJointDef configures a RopeJoint: a maximum-distance-only
// constraint, letting the anchors swing freely inside maxLength but
// snapping taut beyond it.
type RopeJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB Vector
	MaxLength                  float64
	CollideConnected           bool
	UserData                   interface{}
}

// RopeJoint bounds the distance between two anchor points from above,
// applying no force while the rope is slack.
type RopeJoint struct {
	jointBase

	localAnchorA, localAnchorB Vector
	maxLength                  float64

	rA, rB  Vector
	u       Vector
	length  float64
	mass    float64
	state   LimitState
	impulse float64
}

func NewRopeJoint(def RopeJointDef) (*RopeJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewRopeJoint", "both bodies are required")
	}
	if def.MaxLength < 0 {
		return nil, invalidArg("NewRopeJoint", "maxLength must be non-negative")
	}
	return &RopeJoint{
		jointBase:    newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		maxLength:    def.MaxLength,
	}, nil
}

func (j *RopeJoint) GetType() JointType { return JointRopeType }

func (j *RopeJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bA, bB := j.bodyA, j.bodyB

	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)
	j.rA = qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	j.rB = qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	j.u = bB.sweep.C.Add(j.rB).Sub(bA.sweep.C).Add(j.rA.Neg())
	j.length = j.u.Length()

	C := j.length - j.maxLength
	if C > 0 {
		j.state = LimitAtUpper
	} else {
		j.state = LimitInactive
	}

	if j.length > LinearSlop {
		j.u = j.u.Mul(1 / j.length)
	} else {
		j.u = Vector{}
		j.mass = 0
		j.impulse = 0
		return
	}

	crA := j.rA.Cross(j.u)
	crB := j.rB.Cross(j.u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	if invMass != 0 {
		j.mass = 1 / invMass
	} else {
		j.mass = 0
	}

	if !step.warmStarting {
		j.impulse = 0
	}
}

func (j *RopeJoint) warmStart() {
	P := j.u.Mul(j.impulse)
	j.bodyA.linearVelocity = j.bodyA.linearVelocity.Sub(P.Mul(j.invMassA))
	j.bodyA.angularVelocity -= j.invIA * j.rA.Cross(P)
	j.bodyB.linearVelocity = j.bodyB.linearVelocity.Add(P.Mul(j.invMassB))
	j.bodyB.angularVelocity += j.invIB * j.rB.Cross(P)
}

func (j *RopeJoint) solveVelocityConstraints(step solverStep) {
	if j.state != LimitAtUpper {
		return
	}
	bA, bB := j.bodyA, j.bodyB

	vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
	vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
	C := j.length - j.maxLength
	Cdot := j.u.Dot(vpB.Sub(vpA))
	if C < 0 {
		Cdot += step.invDt * C
	}

	impulse := -j.mass * Cdot
	oldImpulse := j.impulse
	j.impulse = math.Min(0, j.impulse+impulse)
	impulse = j.impulse - oldImpulse

	P := j.u.Mul(impulse)
	bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(j.invMassA))
	bA.angularVelocity -= j.invIA * j.rA.Cross(P)
	bB.linearVelocity = bB.linearVelocity.Add(P.Mul(j.invMassB))
	bB.angularVelocity += j.invIB * j.rB.Cross(P)
}

func (j *RopeJoint) solvePositionConstraints(step solverStep) bool {
	bA, bB := j.bodyA, j.bodyB
	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	d := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())
	length := d.Length()
	var u Vector
	if length > 0 {
		u = d.Mul(1 / length)
	}
	C := clampF(length-j.maxLength, 0, MaxLinearCorrection)

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

	return (length - j.maxLength) < LinearSlop
}

func (j *RopeJoint) GetReactionForce(invDt float64) Vector {
	return j.u.Mul(j.impulse * invDt)
}
func (j *RopeJoint) GetReactionTorque(invDt float64) float64 { return 0 }
