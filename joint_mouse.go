package physics

import "math"

// MouseJointDef configures a MouseJoint: a soft point constraint that
// drags bodyB toward a moving world target, typically driven by pointer
// input.
type MouseJointDef struct {
	BodyA, BodyB     *Body
	Target           Vector
	MaxForce         float64
	FrequencyHz      float64
	DampingRatio     float64
	CollideConnected bool
	UserData         interface{}
}

// MouseJoint drags bodyB's anchor toward a world-space target point
// using a soft spring, clamped to MaxForce.
type MouseJoint struct {
	jointBase

	localAnchorB Vector
	target       Vector
	maxForce     float64
	frequencyHz, dampingRatio float64

	beta  float64
	gamma float64

	rB      Vector
	mass    Mat22
	C       Vector
	impulse Vector
}

func NewMouseJoint(def MouseJointDef) (*MouseJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, invalidArg("NewMouseJoint", "both bodies are required")
	}
	if def.MaxForce < 0 {
		return nil, invalidArg("NewMouseJoint", "maxForce must be non-negative")
	}
	return &MouseJoint{
		jointBase:    newJointBase(def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		target:       def.Target,
		maxForce:     def.MaxForce,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
		localAnchorB: def.BodyB.GetLocalPoint(def.Target),
	}, nil
}

func (j *MouseJoint) GetType() JointType { return JointMouseType }

func (j *MouseJoint) SetTarget(target Vector) {
	if !j.bodyB.awake {
		j.bodyB.Activate()
	}
	j.target = target
}
func (j *MouseJoint) GetTarget() Vector { return j.target }

func (j *MouseJoint) initVelocityConstraints(step solverStep) {
	j.initBodyData()
	bB := j.bodyB

	qB := NewRotation(bB.sweep.A)

	mass := bB.mass
	omega := 2 * math.Pi * j.frequencyHz
	d := 2 * mass * j.dampingRatio * omega
	k := mass * omega * omega

	j.gamma = step.dt * (d + step.dt*k)
	if j.gamma != 0 {
		j.gamma = 1 / j.gamma
	}
	j.beta = step.dt * k * j.gamma

	j.rB = qB.RotateVec(j.localAnchorB.Sub(j.localCenterB))

	k11 := j.invMassB + j.invIB*j.rB.Y*j.rB.Y + j.gamma
	k12 := -j.invIB * j.rB.X * j.rB.Y
	k22 := j.invMassB + j.invIB*j.rB.X*j.rB.X + j.gamma
	K := Mat22{Ex: Vector{k11, k12}, Ey: Vector{k12, k22}}
	j.mass = invertMat22(K)

	j.C = bB.sweep.C.Add(j.rB).Sub(j.target)
	j.C = j.C.Mul(j.beta)

	bB.angularVelocity *= 0.98

	if !step.warmStarting {
		j.impulse = Vector{}
	}
}

func invertMat22(m Mat22) Mat22 {
	det := m.Det()
	if det != 0 {
		det = 1 / det
	}
	return Mat22{
		Ex: Vector{det * m.Ey.Y, -det * m.Ex.Y},
		Ey: Vector{-det * m.Ey.X, det * m.Ex.X},
	}
}

func (j *MouseJoint) warmStart() {
	bB := j.bodyB
	bB.linearVelocity = bB.linearVelocity.Add(j.impulse.Mul(j.invMassB))
	bB.angularVelocity += j.invIB * j.rB.Cross(j.impulse)
}

func (j *MouseJoint) solveVelocityConstraints(step solverStep) {
	bB := j.bodyB
	Cdot := bB.linearVelocity.Add(CrossSV(bB.angularVelocity, j.rB))
	Cdot = Cdot.Add(j.C).Add(j.impulse.Mul(j.gamma))

	impulse := j.mass.MulVec(Cdot.Neg())

	oldImpulse := j.impulse
	j.impulse = j.impulse.Add(impulse)
	maxImpulse := j.maxForce * step.dt
	if j.impulse.LengthSq() > maxImpulse*maxImpulse {
		j.impulse = j.impulse.Mul(maxImpulse / j.impulse.Length())
	}
	impulse = j.impulse.Sub(oldImpulse)

	bB.linearVelocity = bB.linearVelocity.Add(impulse.Mul(j.invMassB))
	bB.angularVelocity += j.invIB * j.rB.Cross(impulse)
}

func (j *MouseJoint) solvePositionConstraints(step solverStep) bool { return true }

func (j *MouseJoint) GetReactionForce(invDt float64) Vector { return j.impulse.Mul(invDt) }
func (j *MouseJoint) GetReactionTorque(invDt float64) float64 { return 0 }
