package physics

import "math"

// WeldJointDef configures a WeldJoint: rigidly fixes the relative
// position and angle of two bodies, with an optional soft spring on
// the angular term.
type WeldJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB Vector
	ReferenceAngle             float64
	FrequencyHz                float64
	DampingRatio               float64
	CollideConnected           bool
	UserData                   interface{}
}

// WeldJoint glues two bodies together at a point and angle.
type WeldJoint struct {
	jointBase

	localAnchorA, localAnchorB Vector
	referenceAngle             float64
	frequencyHz, dampingRatio  float64

	bias      float64
	gamma     float64
	impulse   Vec3
	rA, rB    Vector
	mass      Mat33
}

func NewWeldJoint(def WeldJointDef) (*WeldJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewWeldJoint", "both bodies are required")
	}
	return &WeldJoint{
		jointBase:      newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		frequencyHz:    def.FrequencyHz,
		dampingRatio:   def.DampingRatio,
	}, nil
}

func (j *WeldJoint) GetType() JointType { return JointWeldType }

func (j *WeldJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bA, bB := j.bodyA, j.bodyB

	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)
	j.rA = qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	j.rB = qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	var K Mat33
	K.Ex.X = mA + mB + j.rA.Y*j.rA.Y*iA + j.rB.Y*j.rB.Y*iB
	K.Ey.X = -j.rA.Y*j.rA.X*iA - j.rB.Y*j.rB.X*iB
	K.Ez.X = -j.rA.Y*iA - j.rB.Y*iB
	K.Ex.Y = K.Ey.X
	K.Ey.Y = mA + mB + j.rA.X*j.rA.X*iA + j.rB.X*j.rB.X*iB
	K.Ez.Y = j.rA.X*iA + j.rB.X*iB
	K.Ex.Z = K.Ez.X
	K.Ey.Z = K.Ez.Y
	K.Ez.Z = iA + iB

	if j.frequencyHz > 0 {
		j.mass = K
		invM := iA + iB
		var m float64
		if invM > 0 {
			m = 1 / invM
		}
		C := bB.sweep.A - bA.sweep.A - j.referenceAngle
		omega := 2 * math.Pi * j.frequencyHz
		d := 2 * m * j.dampingRatio * omega
		k := m * omega * omega
		j.gamma = step.dt * (d + step.dt*k)
		if j.gamma != 0 {
			j.gamma = 1 / j.gamma
		}
		j.bias = C * step.dt * k * j.gamma

		invM += j.gamma
		if invM != 0 {
			j.mass.Ez.Z = 1 / invM
		}
	} else {
		j.mass = K
		j.gamma = 0
		j.bias = 0
	}

	if !step.warmStarting {
		j.impulse = Vec3{}
	}
}

func (j *WeldJoint) warmStart() {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	P := Vector{j.impulse.X, j.impulse.Y}
	bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
	bA.angularVelocity -= iA * (j.rA.Cross(P) + j.impulse.Z)
	bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
	bB.angularVelocity += iB * (j.rB.Cross(P) + j.impulse.Z)
}

func (j *WeldJoint) solveVelocityConstraints(step solverStep) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	if j.frequencyHz > 0 {
		Cdot2 := bB.angularVelocity - bA.angularVelocity
		impulse2 := -j.mass.Ez.Z * (Cdot2 + j.bias + j.gamma*j.impulse.Z)
		j.impulse.Z += impulse2
		bA.angularVelocity -= iA * impulse2
		bB.angularVelocity += iB * impulse2

		vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
		vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
		Cdot1 := vpB.Sub(vpA)

		impulse1 := j.mass.Solve22(Cdot1.Neg())
		j.impulse.X += impulse1.X
		j.impulse.Y += impulse1.Y

		P := impulse1
		bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
		bA.angularVelocity -= iA * j.rA.Cross(P)
		bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
		bB.angularVelocity += iB * j.rB.Cross(P)
	} else {
		vpA := bA.linearVelocity.Add(CrossSV(bA.angularVelocity, j.rA))
		vpB := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
		Cdot1 := vpB.Sub(vpA)
		Cdot2 := bB.angularVelocity - bA.angularVelocity
		Cdot := Vec3{Cdot1.X, Cdot1.Y, Cdot2}

		impulse := j.mass.Solve33(Cdot.Mul(-1))
		j.impulse = j.impulse.Add(impulse)

		P := Vector{impulse.X, impulse.Y}
		bA.linearVelocity = bA.linearVelocity.Sub(P.Mul(mA))
		bA.angularVelocity -= iA * (j.rA.Cross(P) + impulse.Z)
		bB.linearVelocity = bB.linearVelocity.Add(P.Mul(mB))
		bB.angularVelocity += iB * (j.rB.Cross(P) + impulse.Z)
	}
}

func (j *WeldJoint) solvePositionConstraints(step solverStep) bool {
	bA, bB := j.bodyA, j.bodyB
	qA := NewRotation(bA.sweep.A)
	qB := NewRotation(bB.sweep.A)

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	rA := qA.RotateVec(j.localAnchorA.Sub(j.localCenterA))
	rB := qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	var positionError, angularError float64

	var K Mat33
	K.Ex.X = mA + mB + rA.Y*rA.Y*iA + rB.Y*rB.Y*iB
	K.Ey.X = -rA.Y*rA.X*iA - rB.Y*rB.X*iB
	K.Ez.X = -rA.Y*iA - rB.Y*iB
	K.Ex.Y = K.Ey.X
	K.Ey.Y = mA + mB + rA.X*rA.X*iA + rB.X*rB.X*iB
	K.Ez.Y = rA.X*iA + rB.X*iB
	K.Ex.Z = K.Ez.X
	K.Ey.Z = K.Ez.Y
	K.Ez.Z = iA + iB

	if j.frequencyHz > 0 {
		C := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())
		positionError = C.Length()
		angularError = 0

		impulse2 := K.Solve22(C.Neg())
		bA.sweep.C = bA.sweep.C.Sub(impulse2.Mul(mA))
		bA.sweep.A -= iA * rA.Cross(impulse2)
		bB.sweep.C = bB.sweep.C.Add(impulse2.Mul(mB))
		bB.sweep.A += iB * rB.Cross(impulse2)
	} else {
		C1 := bB.sweep.C.Add(rB).Sub(bA.sweep.C).Add(rA.Neg())
		C2 := bB.sweep.A - bA.sweep.A - j.referenceAngle

		positionError = C1.Length()
		angularError = math.Abs(C2)

		C := Vec3{C1.X, C1.Y, C2}
		impulse := K.Solve33(C.Mul(-1))

		P := Vector{impulse.X, impulse.Y}
		bA.sweep.C = bA.sweep.C.Sub(P.Mul(mA))
		bA.sweep.A -= iA * (rA.Cross(P) + impulse.Z)
		bB.sweep.C = bB.sweep.C.Add(P.Mul(mB))
		bB.sweep.A += iB * (rB.Cross(P) + impulse.Z)
	}

	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return positionError <= LinearSlop && angularError <= AngularSlop
}

func (j *WeldJoint) GetReactionForce(invDt float64) Vector {
	return Vector{j.impulse.X, j.impulse.Y}.Mul(invDt)
}
func (j *WeldJoint) GetReactionTorque(invDt float64) float64 {
	return j.impulse.Z * invDt
}
