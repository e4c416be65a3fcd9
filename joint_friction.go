package physics

// FrictionJointDef configures a FrictionJoint: a velocity-only linear
// and angular friction constraint with no positional target, used to
// drag bodies to rest under bounded force/torque.
type FrictionJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB Vector
	MaxForce                   float64
	MaxTorque                  float64
	CollideConnected           bool
	UserData                   interface{}
}

// FrictionJoint applies bounded linear and angular friction between two
// bodies' anchor points, with no spring and no rest position.
type FrictionJoint struct {
	jointBase

	localAnchorA, localAnchorB Vector
	maxForce, maxTorque        float64

	rA, rB        Vector
	linearMass    Mat22
	angularMass   float64
	linearImpulse Vector
	angularImpulse float64
}

func NewFrictionJoint(def FrictionJointDef) (*FrictionJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewFrictionJoint", "both bodies are required")
	}
	return &FrictionJoint{
		jointBase:    newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		maxForce:     def.MaxForce,
		maxTorque:    def.MaxTorque,
	}, nil
}

func (j *FrictionJoint) GetType() JointType { return JointFrictionType }

func (j *FrictionJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bA, bB := j.bodyA, j.bodyB

	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)
	j.rA = qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	j.rB = qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	k11 := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k12 := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k22 := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.linearMass = invertMat22(Mat22{Ex: Vector{k11, k12}, Ey: Vector{k12, k22}})

	j.angularMass = iA + iB
	if j.angularMass != 0 {
		j.angularMass = 1 / j.angularMass
	}

	if !step.warmStarting {
		j.linearImpulse = Vector{}
		j.angularImpulse = 0
	}
}

func (j *FrictionJoint) warmStart() {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	bA.linearVelocity = bA.linearVelocity.Sub(j.linearImpulse.Mul(mA))
	bA.angularVelocity -= iA * (j.rA.Cross(j.linearImpulse) + j.angularImpulse)
	bB.linearVelocity = bB.linearVelocity.Add(j.linearImpulse.Mul(mB))
	bB.angularVelocity += iB * (j.rB.Cross(j.linearImpulse) + j.angularImpulse)
}

func (j *FrictionJoint) solveVelocityConstraints(step solverStep) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	// angular friction
	{
		Cdot := bB.angularVelocity - bA.angularVelocity
		impulse := -j.angularMass * Cdot

		oldImpulse := j.angularImpulse
		maxImpulse := j.maxTorque * step.dt
		j.angularImpulse = clampF(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.angularImpulse - oldImpulse

		bA.angularVelocity -= iA * impulse
		bB.angularVelocity += iB * impulse
	}

	// linear friction
	{
		vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
		vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
		Cdot := vpB.Sub(vpA)

		impulse := j.linearMass.MulVec(Cdot.Neg())
		oldImpulse := j.linearImpulse
		j.linearImpulse = j.linearImpulse.Add(impulse)

		maxImpulse := j.maxForce * step.dt
		if j.linearImpulse.LengthSq() > maxImpulse*maxImpulse {
			j.linearImpulse = j.linearImpulse.Mul(maxImpulse / j.linearImpulse.Length())
		}
		impulse = j.linearImpulse.Sub(oldImpulse)

		bA.linearVelocity = bA.linearVelocity.Sub(impulse.Mul(mA))
		bA.angularVelocity -= iA * j.rA.Cross(impulse)
		bB.linearVelocity = bB.linearVelocity.Add(impulse.Mul(mB))
		bB.angularVelocity += iB * j.rB.Cross(impulse)
	}
}

func (j *FrictionJoint) solvePositionConstraints(step solverStep) bool { return true }

func (j *FrictionJoint) GetReactionForce(invDt float64) Vector {
	return j.linearImpulse.Mul(invDt)
}
func (j *FrictionJoint) GetReactionTorque(invDt float64) float64 {
	return j.angularImpulse * invDt
}
