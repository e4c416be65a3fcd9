package physics

// JointType tags the closed set of joint kinds.
type JointType int

const (
	JointDistanceType JointType = iota
	JointRevoluteType
	JointPrismaticType
	JointWeldType
	JointPulleyType
	JointGearType
	JointMouseType
	JointFrictionType
	JointRopeType
	JointWheelType
	JointMotorType
)

// LimitState is the state machine a limit joint's scalar impulse
// accumulator runs through each solve, clamped each iteration according
// to which side, if any, the limit is pinned against.
type LimitState int

const (
	LimitInactive LimitState = iota
	LimitAtLower
	LimitAtUpper
	LimitEqual
)

// solverStep carries the per-step scalars every joint's solve routines
// need. Warm-started impulses are applied without any dtRatio rescaling.
type solverStep struct {
	dt, invDt   float64
	dtRatio     float64 // not set by World.Step and not read by any solve routine
	velocityIterations int
	positionIterations int
	warmStarting       bool
}

// Joint is implemented by all eleven joint kinds. Every joint contributes
// Jacobian rows to the solver through the three lifecycle methods; the
// unexported ones are the allocation-free per-step path.
type Joint interface {
	GetType() JointType
	BodyA() *Body
	BodyB() *Body
	CollideConnected() bool
	UserData() interface{}

	GetReactionForce(invDt float64) Vector
	GetReactionTorque(invDt float64) float64

	initVelocityConstraints(step solverStep)
	warmStart()
	solveVelocityConstraints(step solverStep)
	solvePositionConstraints(step solverStep) bool

	edgeA() *JointEdge
	edgeB() *JointEdge
	setNext(j Joint)
	getNext() Joint
}

// JointEdge is a borrowed link in a body's intrusive joint list, owned by
// the Joint it belongs to.
type JointEdge struct {
	joint      Joint
	other      *Body
	prev, next *JointEdge
}

func (e *JointEdge) Next() *JointEdge { return e.next }
func (e *JointEdge) Other() *Body     { return e.other }
func (e *JointEdge) Joint() Joint     { return e.joint }

// jointBase is embedded by every concrete joint; it stores the fields
// common to all eleven kinds: bodyA, bodyB, the collideConnected flag,
// and the solver-temp mass fields every joint needs during a solve.
type jointBase struct {
	bodyA, bodyB     *Body
	collideConnected bool
	userData         interface{}

	edgeAv, edgeBv JointEdge

	index int // position in World.joints, maintained by the world
	next  Joint

	// solver-temp fields shared by most joints; concrete joints add their
	// own beyond these.
	localCenterA, localCenterB Vector
	invMassA, invMassB         float64
	invIA, invIB               float64
}

func newJointBase(bodyA, bodyB *Body, collideConnected bool, userData interface{}) jointBase {
	jb := jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: collideConnected, userData: userData}
	return jb
}

func (j *jointBase) BodyA() *Body             { return j.bodyA }
func (j *jointBase) BodyB() *Body             { return j.bodyB }
func (j *jointBase) CollideConnected() bool   { return j.collideConnected }
func (j *jointBase) UserData() interface{}    { return j.userData }
func (j *jointBase) edgeA() *JointEdge        { return &j.edgeAv }
func (j *jointBase) edgeB() *JointEdge        { return &j.edgeBv }
func (j *jointBase) setNext(n Joint)          { j.next = n }
func (j *jointBase) getNext() Joint           { return j.next }

func (j *jointBase) initBodyData() {
	j.localCenterA = j.bodyA.sweep.LocalCenter
	j.localCenterB = j.bodyB.sweep.LocalCenter
	j.invMassA = j.bodyA.invMass
	j.invMassB = j.bodyB.invMass
	j.invIA = j.bodyA.invI
	j.invIB = j.bodyB.invI
}
