package physics

import "math"

const minPulleyLength = 2.0

// PulleyJointDef configures a PulleyJoint: two bodies share a single
// rope run over two fixed ground anchors, coupled by a ratio.
type PulleyJointDef struct {
	BodyA, BodyB               *Body
	GroundAnchorA, GroundAnchorB Vector
	LocalAnchorA, LocalAnchorB Vector
	LengthA, LengthB           float64
	Ratio                      float64
	CollideConnected           bool
	UserData                   interface{}
}

// PulleyJoint constrains the combined rope length lengthA + ratio*lengthB
// to the value fixed at construction, so pulling in one side lets the
// other out.
type PulleyJoint struct {
	jointBase

	groundAnchorA, groundAnchorB Vector
	localAnchorA, localAnchorB   Vector
	lengthA, lengthB             float64
	ratio                        float64
	constant                     float64

	uA, uB Vector
	rA, rB Vector
	mass   float64
	impulse float64
}

func NewPulleyJoint(def PulleyJointDef) (*PulleyJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewPulleyJoint", "both bodies are required")
	}
	if def.Ratio < epsilon {
		return nil, invalidArg("NewPulleyJoint", "ratio must be positive")
	}
	return &PulleyJoint{
		jointBase:     newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		groundAnchorA: def.GroundAnchorA,
		groundAnchorB: def.GroundAnchorB,
		localAnchorA:  def.LocalAnchorA,
		localAnchorB:  def.LocalAnchorB,
		lengthA:       def.LengthA,
		lengthB:       def.LengthB,
		ratio:         def.Ratio,
		constant:      def.LengthA + def.Ratio*def.LengthB,
	}, nil
}

func (j *PulleyJoint) GetType() JointType { return JointPulleyType }

func (j *PulleyJoint) GetCurrentLengthA() float64 {
	p := j.bodyA.GetWorldPoint(j.localAnchorA)
	return p.Sub(j.groundAnchorA).Length()
}

func (j *PulleyJoint) GetCurrentLengthB() float64 {
	p := j.bodyB.GetWorldPoint(j.localAnchorB)
	return p.Sub(j.groundAnchorB).Length()
}

func (j *PulleyJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bA, bB := j.bodyA, j.bodyB

	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	j.rA = qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	j.rB = qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	j.uA = bA.sweep.C.Add(j.rA).Sub(j.groundAnchorA)
	j.uB = bB.sweep.C.Add(j.rB).Sub(j.groundAnchorB)

	lengthA := j.uA.Length()
	lengthB := j.uB.Length()

	if lengthA > minPulleyLength*LinearSlop {
		j.uA = j.uA.Mul(1 / lengthA)
	} else {
		j.uA = Vector{}
	}
	if lengthB > minPulleyLength*LinearSlop {
		j.uB = j.uB.Mul(1 / lengthB)
	} else {
		j.uB = Vector{}
	}

	ruA := j.rA.Cross(j.uA)
	ruB := j.rB.Cross(j.uB)

	mA := j.invMassA + j.invIA*ruA*ruA
	mB := j.invMassB + j.invIB*ruB*ruB

	invMass := mA + j.ratio*j.ratio*mB
	if invMass > 0 {
		j.mass = 1 / invMass
	} else {
		j.mass = 0
	}

	if !step.warmStarting {
		j.impulse = 0
	}
}

func (j *PulleyJoint) warmStart() {
	bA, bB := j.bodyA, j.bodyB
	PA := j.uA.Mul(-j.impulse)
	PB := j.uB.Mul(-j.ratio * j.impulse)

	bA.linearVelocity = bA.linearVelocity.Add(PA.Mul(j.invMassA))
	bA.angularVelocity += j.invIA * j.rA.Cross(PA)
	bB.linearVelocity = bB.linearVelocity.Add(PB.Mul(j.invMassB))
	bB.angularVelocity += j.invIB * j.rB.Cross(PB)
}

func (j *PulleyJoint) solveVelocityConstraints(step solverStep) {
	bA, bB := j.bodyA, j.bodyB

	vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
	vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))

	Cdot := -j.uA.Dot(vpA) - j.ratio*j.uB.Dot(vpB)
	impulse := -j.mass * Cdot
	j.impulse += impulse

	PA := j.uA.Mul(-impulse)
	PB := j.uB.Mul(-j.ratio * impulse)
	bA.linearVelocity = bA.linearVelocity.Add(PA.Mul(j.invMassA))
	bA.angularVelocity += j.invIA * j.rA.Cross(PA)
	bB.linearVelocity = bB.linearVelocity.Add(PB.Mul(j.invMassB))
	bB.angularVelocity += j.invIB * j.rB.Cross(PB)
}

// solvePositionConstraints recomputes rA/rB from the bodies' current
// sweep rotations rather than reusing the velocity-phase rA/rB: those
// were taken at the start of the step and are stale by the time
// position iterations run.
func (j *PulleyJoint) solvePositionConstraints(step solverStep) bool {
	bA, bB := j.bodyA, j.bodyB
	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	uA := bA.sweep.C.Add(rA).Sub(j.groundAnchorA)
	uB := bB.sweep.C.Add(rB).Sub(j.groundAnchorB)

	lengthA := uA.Length()
	lengthB := uB.Length()

	if lengthA > minPulleyLength*LinearSlop {
		uA = uA.Mul(1 / lengthA)
	} else {
		uA = Vector{}
	}
	if lengthB > minPulleyLength*LinearSlop {
		uB = uB.Mul(1 / lengthB)
	} else {
		uB = Vector{}
	}

	ruA := rA.Cross(uA)
	ruB := rB.Cross(uB)

	mA := j.invMassA + j.invIA*ruA*ruA
	mB := j.invMassB + j.invIB*ruB*ruB

	invMass := mA + j.ratio*j.ratio*mB
	var mass float64
	if invMass > 0 {
		mass = 1 / invMass
	}

	C := j.constant - lengthA - j.ratio*lengthB
	linearError := math.Abs(C)

	impulse := -mass * C

	PA := uA.Mul(-impulse)
	PB := uB.Mul(-j.ratio * impulse)

	bA.sweep.C = bA.sweep.C.Add(PA.Mul(j.invMassA))
	bA.sweep.A += j.invIA * rA.Cross(PA)
	bB.sweep.C = bB.sweep.C.Add(PB.Mul(j.invMassB))
	bB.sweep.A += j.invIB * rB.Cross(PB)

	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return linearError < LinearSlop
}

func (j *PulleyJoint) GetReactionForce(invDt float64) Vector {
	return j.uB.Mul(j.impulse * invDt)
}
func (j *PulleyJoint) GetReactionTorque(invDt float64) float64 { return 0 }
