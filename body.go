package physics

import "math"

// BodyType is one of the three body kinds.
type BodyType int

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

// BodyDef is the option struct World.CreateBody accepts.
type BodyDef struct {
	Type                 BodyType
	Position             Vector
	Angle                float64
	LinearVelocity       Vector
	AngularVelocity      float64
	LinearDamping        float64
	AngularDamping       float64
	FixedRotation        bool
	Bullet               bool
	GravityScale         float64
	AllowSleep           bool
	Awake                bool
	Active               bool
	UserData             interface{}
}

func DefaultBodyDef() BodyDef {
	return BodyDef{
		Type:         BodyStatic,
		GravityScale: 1.0,
		AllowSleep:   true,
		Awake:        true,
		Active:       true,
	}
}

// Body is a rigid body. Fixtures/joints/contacts are owned elsewhere and
// borrow intrusive list edges from this body: the body holds only head
// pointers.
type Body struct {
	id       int
	bodyType BodyType
	world    *World

	transform Transform
	sweep     Sweep

	linearVelocity  Vector
	angularVelocity float64

	force  Vector
	torque float64

	mass, invMass float64
	I, invI       float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	awake         bool
	sleepAllowed  bool
	fixedRotation bool
	bullet        bool
	active        bool

	sleepTime float64

	fixtureList  *Fixture
	fixtureCount int

	jointList   *JointEdge
	contactList *ContactEdge

	islandIndex int

	// sleeping-component bookkeeping: bodies that fall asleep together are
	// linked into one union-find-style component so they wake together.
	sleepingRoot *Body
	sleepingNext *Body

	userData interface{}

	next *Body // world's intrusive body list
	prev *Body
}

func (b *Body) ID() int               { return b.id }
func (b *Body) GetType() BodyType     { return b.bodyType }
func (b *Body) Transform() Transform  { return b.transform }
func (b *Body) Position() Vector      { return b.transform.P }
func (b *Body) Angle() float64        { return b.sweep.A }
func (b *Body) LinearVelocity() Vector  { return b.linearVelocity }
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }
func (b *Body) Mass() float64         { return b.mass }
func (b *Body) InertiaLocal() float64 { return b.I }
func (b *Body) IsAwake() bool         { return b.awake }
func (b *Body) IsActive() bool        { return b.active }
func (b *Body) IsBullet() bool        { return b.bullet }
func (b *Body) UserData() interface{} { return b.userData }
func (b *Body) World() *World         { return b.world }

// GetWorldPoint converts a body-local point to world coordinates.
func (b *Body) GetWorldPoint(localPoint Vector) Vector {
	return b.transform.Apply(localPoint)
}

// GetLocalPoint converts a world point to body-local coordinates.
func (b *Body) GetLocalPoint(worldPoint Vector) Vector {
	return b.transform.ApplyInv(worldPoint)
}

// GetWorldVector rotates a body-local direction into world space.
func (b *Body) GetWorldVector(localVector Vector) Vector {
	return b.transform.Q.RotateVec(localVector)
}

// GetLocalVector rotates a world direction into body-local space.
func (b *Body) GetLocalVector(worldVector Vector) Vector {
	return b.transform.Q.InvRotateVec(worldVector)
}

func (b *Body) SetTransform(position Vector, angle float64) {
	b.transform = Transform{P: position, Q: NewRotation(angle)}
	b.sweep.C = b.transform.Apply(b.sweep.LocalCenter)
	b.sweep.A = angle
	b.sweep.C0 = b.sweep.C
	b.sweep.A0 = angle

	for f := b.fixtureList; f != nil; f = f.next {
		f.synchronize(b.world.broadPhase, b.transform, b.transform)
	}
}

func (b *Body) SetLinearVelocity(v Vector) {
	if b.bodyType == BodyStatic {
		return
	}
	if v.Dot(v) > 0 {
		b.Activate()
	}
	b.linearVelocity = v
}

func (b *Body) SetAngularVelocity(w float64) {
	if b.bodyType == BodyStatic {
		return
	}
	if w*w > 0 {
		b.Activate()
	}
	b.angularVelocity = w
}

func (b *Body) ApplyForce(force, point Vector, wake bool) {
	if b.bodyType != BodyDynamic {
		return
	}
	if wake && !b.awake {
		b.Activate()
	}
	if !b.awake {
		return
	}
	b.force = b.force.Add(force)
	b.torque += point.Sub(b.sweep.C).Cross(force)
}

func (b *Body) ApplyForceToCenter(force Vector, wake bool) {
	if b.bodyType != BodyDynamic {
		return
	}
	if wake && !b.awake {
		b.Activate()
	}
	if !b.awake {
		return
	}
	b.force = b.force.Add(force)
}

func (b *Body) ApplyTorque(torque float64, wake bool) {
	if b.bodyType != BodyDynamic {
		return
	}
	if wake && !b.awake {
		b.Activate()
	}
	if !b.awake {
		return
	}
	b.torque += torque
}

func (b *Body) ApplyLinearImpulse(impulse, point Vector, wake bool) {
	if b.bodyType != BodyDynamic {
		return
	}
	if wake && !b.awake {
		b.Activate()
	}
	if !b.awake {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(impulse.Mul(b.invMass))
	b.angularVelocity += b.invI * point.Sub(b.sweep.C).Cross(impulse)
}

func (b *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if b.bodyType != BodyDynamic {
		return
	}
	if wake && !b.awake {
		b.Activate()
	}
	if !b.awake {
		return
	}
	b.angularVelocity += b.invI * impulse
}

func (b *Body) KineticEnergy() float64 {
	return 0.5*b.mass*b.linearVelocity.LengthSq() + 0.5*b.I*b.angularVelocity*b.angularVelocity
}

// Activate wakes a sleeping dynamic body: restores sleep-time to zero
// and, if a world owns the body, re-buffers its proxies so the next
// broad-phase pass re-evaluates its pairs.
func (b *Body) Activate() {
	if b.bodyType == BodyStatic {
		return
	}
	wasAsleep := !b.awake
	b.awake = true
	b.sleepTime = 0
	if wasAsleep && b.world != nil {
		for f := b.fixtureList; f != nil; f = f.next {
			for _, p := range f.proxies {
				b.world.broadPhase.TouchProxy(p.proxyID)
			}
		}
	}
}

func (b *Body) SetAwake(flag bool) {
	if flag {
		b.Activate()
		return
	}
	b.awake = false
	b.sleepTime = 0
	b.linearVelocity = Vector{}
	b.angularVelocity = 0
	b.force = Vector{}
	b.torque = 0
}

func (b *Body) SetSleepingAllowed(flag bool) {
	b.sleepAllowed = flag
	if !flag {
		b.Activate()
	}
}

// ResetMassData recomputes mass/inertia from the attached fixtures'
// density. A static body always has invMass=invI=0; a body with
// fixedRotation set always has invI=0.
func (b *Body) ResetMassData() {
	b.mass = 0
	b.invMass = 0
	b.I = 0
	b.invI = 0
	b.sweep.LocalCenter = Vector{}

	if b.bodyType == BodyStatic || b.bodyType == BodyKinematic {
		b.sweep.C0 = b.transform.P
		b.sweep.C = b.transform.P
		b.sweep.A0 = b.sweep.A
		return
	}

	localCenter := Vector{}
	for f := b.fixtureList; f != nil; f = f.next {
		if f.density == 0 {
			continue
		}
		md := f.shape.ComputeMass(f.density)
		b.mass += md.Mass
		localCenter = localCenter.Add(md.Center.Mul(md.Mass))
		b.I += md.I
	}

	if b.mass > 0 {
		b.invMass = 1.0 / b.mass
		localCenter = localCenter.Mul(b.invMass)
	} else {
		// dynamic bodies always carry at least unit mass (Box2D convention)
		b.mass = 1.0
		b.invMass = 1.0
	}

	if b.I > 0 && !b.fixedRotation {
		b.I -= b.mass * localCenter.Dot(localCenter)
		assert(b.I > 0, "negative rotational inertia after parallel-axis shift")
		b.invI = 1.0 / b.I
	} else {
		b.I = 0
		b.invI = 0
	}

	oldCenter := b.sweep.C
	b.sweep.LocalCenter = localCenter
	b.sweep.C0 = b.transform.Apply(b.sweep.LocalCenter)
	b.sweep.C = b.sweep.C0

	b.linearVelocity = b.linearVelocity.Add(CrossSV(b.angularVelocity, b.sweep.C.Sub(oldCenter)))
}

func (b *Body) synchronizeTransform() {
	b.transform.Q = NewRotation(b.sweep.A)
	b.transform.P = b.sweep.C.Sub(b.transform.Q.RotateVec(b.sweep.LocalCenter))
}

func (b *Body) synchronizeFixtures() {
	xf1 := Transform{Q: NewRotation(b.sweep.A0)}
	xf1.P = b.sweep.C0.Sub(xf1.Q.RotateVec(b.sweep.LocalCenter))

	for f := b.fixtureList; f != nil; f = f.next {
		f.synchronize(b.world.broadPhase, xf1, b.transform)
	}
}

func (b *Body) advance(alpha float64) {
	b.sweep.Advance(alpha)
	b.sweep.C = b.sweep.C0
	b.sweep.A = b.sweep.A0
	b.synchronizeTransform()
}

// CreateFixture attaches a shape to the body, registering its proxies
// with the broad phase if the body already belongs to a world.
func (b *Body) CreateFixture(def FixtureDef) (*Fixture, error) {
	if def.Shape == nil {
		return nil, invalidArg("CreateFixture", "shape must not be nil")
	}
	if def.Density < 0 || !isValid(def.Density) {
		return nil, invalidArg("CreateFixture", "density must be non-negative and finite")
	}
	if b.world != nil && b.world.locked != 0 {
		return nil, invalidArg("CreateFixture", "world is locked during step/query")
	}

	f := &Fixture{
		body:        b,
		shape:       def.Shape,
		density:     def.Density,
		friction:    def.Friction,
		restitution: def.Restitution,
		isSensor:    def.IsSensor,
		filter:      def.Filter,
		userData:    def.UserData,
	}
	if f.filter == (Filter{}) {
		f.filter = DefaultFilter()
	}

	f.next = b.fixtureList
	b.fixtureList = f
	b.fixtureCount++

	if b.world != nil {
		f.createProxies(b.world.broadPhase, b.transform)
	}

	if f.density > 0 {
		b.ResetMassData()
	}
	if b.world != nil {
		b.world.flagNewFixtures = true
	}

	return f, nil
}

func (b *Body) DestroyFixture(f *Fixture) {
	if f == nil || f.body != b {
		return
	}

	prev := (*Fixture)(nil)
	node := b.fixtureList
	for node != nil {
		if node == f {
			if prev == nil {
				b.fixtureList = node.next
			} else {
				prev.next = node.next
			}
			break
		}
		prev = node
		node = node.next
	}
	b.fixtureCount--

	if b.world != nil {
		edge := b.contactList
		for edge != nil {
			next := edge.next
			c := edge.contact
			if c.fixtureA == f || c.fixtureB == f {
				b.world.contactManager.destroy(c)
			}
			edge = next
		}
		f.destroyProxies(b.world.broadPhase)
	}

	b.ResetMassData()
}

// contactEdgesInvolving returns the set of contacts touching fixture f,
// used by Fixture.SetFilterData to re-check the filter on a live contact.
func (b *Body) contactEdgesInvolving(f *Fixture) []*Contact {
	var out []*Contact
	for e := b.contactList; e != nil; e = e.next {
		if e.contact.fixtureA == f || e.contact.fixtureB == f {
			out = append(out, e.contact)
		}
	}
	return out
}

func (b *Body) shouldCollide(other *Body) bool {
	if b.bodyType != BodyDynamic && other.bodyType != BodyDynamic {
		return false
	}
	for e := b.jointList; e != nil; e = e.next {
		if e.other == other && !e.joint.collideConnected {
			return false
		}
	}
	return true
}

// integrateVelocity applies gravity/force/damping for one step.
func (b *Body) integrateVelocity(gravity Vector, dt float64) {
	if b.bodyType != BodyDynamic {
		return
	}
	v := b.linearVelocity.Add(gravity.Mul(b.gravityScale).Add(b.force.Mul(b.invMass)).Mul(dt))
	w := b.angularVelocity + dt*b.invI*b.torque

	v = v.Mul(1.0 / (1.0 + dt*b.linearDamping))
	w *= 1.0 / (1.0 + dt*b.angularDamping)

	b.linearVelocity = v
	b.angularVelocity = w
}

// integratePosition advances the sweep by dt, clamping translation and
// rotation per step so a single step can't move a body further than the
// configured maxima.
func (b *Body) integratePosition(dt float64) {
	translation := b.linearVelocity.Mul(dt)
	if translation.LengthSq() > MaxTranslation*MaxTranslation {
		ratio := MaxTranslation / translation.Length()
		b.linearVelocity = b.linearVelocity.Mul(ratio)
	}

	rotation := b.angularVelocity * dt
	if rotation*rotation > MaxRotation*MaxRotation {
		ratio := MaxRotation / math.Abs(rotation)
		b.angularVelocity *= ratio
	}

	b.sweep.C0 = b.sweep.C
	b.sweep.A0 = b.sweep.A
	b.sweep.C = b.sweep.C.Add(b.linearVelocity.Mul(dt))
	b.sweep.A += b.angularVelocity * dt

	b.synchronizeTransform()
}

func (b *Body) clampVelocity() {
	speedSq := b.linearVelocity.LengthSq()
	if speedSq > MaxLinearVelocity*MaxLinearVelocity {
		b.linearVelocity = b.linearVelocity.Mul(MaxLinearVelocity / math.Sqrt(speedSq))
	}
	if b.angularVelocity > MaxAngularVelocity {
		b.angularVelocity = MaxAngularVelocity
	} else if b.angularVelocity < -MaxAngularVelocity {
		b.angularVelocity = -MaxAngularVelocity
	}
}
