package physics

// MotorJointDef configures a MotorJoint: drives bodyB toward a linear
// and angular offset relative to bodyA, with an impulse accumulator
// bounded by the configured max force/torque times dt.
type MotorJointDef struct {
	BodyA, BodyB     *Body
	LinearOffset     Vector
	AngularOffset    float64
	MaxForce         float64
	MaxTorque        float64
	CorrectionFactor float64
	CollideConnected bool
	UserData         interface{}
}

// MotorJoint drags bodyB toward a fixed offset from bodyA, as if a
// hidden motor tracked the difference every step.
type MotorJoint struct {
	jointBase

	linearOffset     Vector
	angularOffset    float64
	maxForce         float64
	maxTorque        float64
	correctionFactor float64

	rA, rB        Vector
	linearError   Vector
	angularError  float64
	linearMass    Mat22
	angularMass   float64
	linearImpulse Vector
	angularImpulse float64
}

func NewMotorJoint(def MotorJointDef) (*MotorJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewMotorJoint", "both bodies are required")
	}
	cf := def.CorrectionFactor
	if cf == 0 {
		cf = 0.3
	}
	return &MotorJoint{
		jointBase:        newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		linearOffset:     def.LinearOffset,
		angularOffset:    def.AngularOffset,
		maxForce:         def.MaxForce,
		maxTorque:        def.MaxTorque,
		correctionFactor: cf,
	}, nil
}

func (j *MotorJoint) GetType() JointType { return JointMotorType }

func (j *MotorJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bA, bB := j.bodyA, j.bodyB

	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)
	j.rA = qA.RotateVec(j.localCenterA.Neg())
	j.rB = qB.RotateVec(j.localCenterB.Neg())

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

	j.linearError = bB.sweep.C.Add(j.rB).Sub(bA.sweep.C).Sub(j.rA).Sub(qA.RotateVec(j.linearOffset))
	j.angularError = bB.sweep.A - bA.sweep.A - j.angularOffset

	if !step.warmStarting {
		j.linearImpulse = Vector{}
		j.angularImpulse = 0
	}
}

func (j *MotorJoint) warmStart() {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	bA.linearVelocity = bA.linearVelocity.Sub(j.linearImpulse.Mul(mA))
	bA.angularVelocity -= iA * (j.rA.Cross(j.linearImpulse) + j.angularImpulse)
	bB.linearVelocity = bB.linearVelocity.Add(j.linearImpulse.Mul(mB))
	bB.angularVelocity += iB * (j.rB.Cross(j.linearImpulse) + j.angularImpulse)
}

func (j *MotorJoint) solveVelocityConstraints(step solverStep) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	// angular
	{
		Cdot := bB.angularVelocity - bA.angularVelocity + j.correctionFactor*step.invDt*j.angularError
		impulse := -j.angularMass * Cdot

		oldImpulse := j.angularImpulse
		maxImpulse := j.maxTorque * step.dt
		j.angularImpulse = clampF(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.angularImpulse - oldImpulse

		bA.angularVelocity -= iA * impulse
		bB.angularVelocity += iB * impulse
	}

	// linear
	{
		vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
		vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
		Cdot := vpB.Sub(vpA).Add(j.linearError.Mul(j.correctionFactor * step.invDt))

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

func (j *MotorJoint) solvePositionConstraints(step solverStep) bool { return true }

func (j *MotorJoint) GetReactionForce(invDt float64) Vector {
	return j.linearImpulse.Mul(invDt)
}
func (j *MotorJoint) GetReactionTorque(invDt float64) float64 {
	return j.angularImpulse * invDt
}
