package physics

import (
	"io"
	"log"
)

// World owns every body, joint, and contact, and drives the broad
// phase/island solve/TOI pipeline each Step.
type World struct {
	broadPhase     *BroadPhase
	contactManager *ContactManager

	bodyList   *Body
	bodyCount  int
	jointList  Joint
	jointCount int

	gravity Vector

	allowSleep        bool
	continuousPhysics bool
	subStepping       bool

	locked          int // >0 while Step/QueryAABB callbacks run
	flagNewFixtures bool

	nextBodyID int

	profile Profile

	// Logger receives the one non-hot-path diagnostic the step pipeline
	// ever emits (a TOI solve that failed to separate two bodies).
	// Defaults to discarding output.
	Logger *log.Logger
}

func NewWorld(gravity Vector) *World {
	bp := NewBroadPhase()
	return &World{
		broadPhase:        bp,
		contactManager:    newContactManager(bp),
		gravity:           gravity,
		allowSleep:        true,
		continuousPhysics: true,
		Logger:            log.New(io.Discard, "physics: ", 0),
	}
}

func (w *World) SetGravity(g Vector) { w.gravity = g }
func (w *World) GetGravity() Vector  { return w.gravity }
func (w *World) SetAllowSleeping(v bool) {
	w.allowSleep = v
	if !v {
		for b := w.bodyList; b != nil; b = b.next {
			b.SetAwake(true)
		}
	}
}
func (w *World) SetContinuousPhysics(v bool)          { w.continuousPhysics = v }
func (w *World) SetSubStepping(v bool)                { w.subStepping = v }
func (w *World) SetContactListener(l ContactListener) { w.contactManager.listener = l }
func (w *World) SetDestructionListener(l DestructionListener) {
	w.contactManager.destructionListener = l
}
func (w *World) GetProfile() Profile { return w.profile }
func (w *World) BodyCount() int      { return w.bodyCount }
func (w *World) JointCount() int     { return w.jointCount }
func (w *World) IsLocked() bool      { return w.locked > 0 }

func (w *World) CreateBody(def BodyDef) (*Body, error) {
	if w.IsLocked() {
		return nil, invalidArg("CreateBody", "world is locked during step/query")
	}

	gravityScale := def.GravityScale
	if gravityScale == 0 {
		gravityScale = 1
	}

	b := &Body{
		id:              w.nextBodyID,
		bodyType:        def.Type,
		world:           w,
		transform:       Transform{P: def.Position, Q: NewRotation(def.Angle)},
		linearVelocity:  def.LinearVelocity,
		angularVelocity: def.AngularVelocity,
		linearDamping:   def.LinearDamping,
		angularDamping:  def.AngularDamping,
		gravityScale:    gravityScale,
		fixedRotation:   def.FixedRotation,
		bullet:          def.Bullet,
		sleepAllowed:    def.AllowSleep,
		awake:           def.Awake || def.Type == BodyStatic,
		active:          def.Active,
		userData:        def.UserData,
	}
	b.sweep.C = def.Position
	b.sweep.C0 = def.Position
	b.sweep.A = def.Angle
	b.sweep.A0 = def.Angle
	w.nextBodyID++

	b.next = w.bodyList
	if w.bodyList != nil {
		w.bodyList.prev = b
	}
	w.bodyList = b
	w.bodyCount++

	return b, nil
}

func (w *World) DestroyBody(b *Body) error {
	if w.IsLocked() {
		return invalidArg("DestroyBody", "world is locked during step/query")
	}

	for e := b.jointList; e != nil; {
		next := e.next
		w.DestroyJoint(e.joint)
		e = next
	}

	for e := b.contactList; e != nil; {
		next := e.next
		w.contactManager.destroy(e.contact)
		e = next
	}

	for f := b.fixtureList; f != nil; {
		next := f.next
		if w.contactManager.destructionListener != nil {
			w.contactManager.destructionListener.SayGoodbyeFixture(f)
		}
		f.destroyProxies(w.broadPhase)
		f = next
	}
	b.fixtureList = nil
	b.fixtureCount = 0

	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	if b == w.bodyList {
		w.bodyList = b.next
	}
	w.bodyCount--
	b.world = nil
	return nil
}

func (w *World) linkJoint(j Joint, bodyA, bodyB *Body) {
	ea, eb := j.edgeA(), j.edgeB()
	*ea = JointEdge{joint: j, other: bodyB}
	*eb = JointEdge{joint: j, other: bodyA}

	ea.next = bodyA.jointList
	bodyA.jointList = ea
	eb.next = bodyB.jointList
	bodyB.jointList = eb

	j.setNext(w.jointList)
	w.jointList = j
	w.jointCount++

	if !j.CollideConnected() {
		for e := bodyB.contactList; e != nil; e = e.next {
			if e.other == bodyA {
				e.contact.flagFilterDirty()
			}
		}
	}
}

// CreateJoint registers a constructed joint with the world's intrusive
// lists, wiring its edges into both bodies' jointList.
func (w *World) CreateJoint(j Joint) error {
	if w.IsLocked() {
		return invalidArg("CreateJoint", "world is locked during step/query")
	}
	w.linkJoint(j, j.BodyA(), j.BodyB())
	return nil
}

func (w *World) DestroyJoint(j Joint) error {
	if w.IsLocked() {
		return invalidArg("DestroyJoint", "world is locked during step/query")
	}

	bodyA, bodyB := j.BodyA(), j.BodyB()
	bodyA.Activate()
	bodyB.Activate()

	unlinkJointEdge(&bodyA.jointList, j.edgeA())
	unlinkJointEdge(&bodyB.jointList, j.edgeB())

	prev := Joint(nil)
	node := w.jointList
	for node != nil {
		if node == j {
			if prev == nil {
				w.jointList = node.getNext()
			} else {
				prev.setNext(node.getNext())
			}
			break
		}
		prev = node
		node = node.getNext()
	}
	w.jointCount--

	if w.contactManager.destructionListener != nil {
		w.contactManager.destructionListener.SayGoodbyeJoint(j)
	}

	if !j.CollideConnected() {
		for e := bodyB.contactList; e != nil; e = e.next {
			if e.other == bodyA {
				e.contact.flagFilterDirty()
			}
		}
	}
	return nil
}

func unlinkJointEdge(head **JointEdge, e *JointEdge) {
	prev := (*JointEdge)(nil)
	node := *head
	for node != nil {
		if node == e {
			if prev == nil {
				*head = node.next
			} else {
				prev.next = node.next
			}
			return
		}
		prev = node
		node = node.next
	}
}

// Step advances the simulation by dt, running broad phase, narrow phase,
// island solving, and (if enabled) continuous collision, in that order.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	if velocityIterations <= 0 {
		velocityIterations = DefaultVelocityIterations
	}
	if positionIterations <= 0 {
		positionIterations = DefaultPositionIterations
	}

	w.contactManager.findNewContacts()
	w.flagNewFixtures = false

	w.locked++
	defer func() { w.locked-- }()

	if dt > 0 {
		step := TimeStep{
			dt: dt, invDt: 1 / dt,
			velocityIterations: velocityIterations,
			positionIterations: positionIterations,
			warmStarting:       true,
		}

		w.contactManager.collide()
		w.solve(step)

		if w.continuousPhysics {
			w.solveTOI(step)
		}
	}

	for b := w.bodyList; b != nil; b = b.next {
		b.force = Vector{}
		b.torque = 0
	}
}

func (w *World) solve(step TimeStep) {
	islands := buildIslands(w.bodyListSlice())
	for _, isl := range islands {
		isl.listener = w.contactManager.listener
		isl.solve(step, w.gravity, w.allowSleep)
	}
}

func (w *World) bodyListSlice() []*Body {
	out := make([]*Body, 0, w.bodyCount)
	for b := w.bodyList; b != nil; b = b.next {
		out = append(out, b)
	}
	return out
}

// solveTOI runs the continuous collision pass: for each bullet or
// fast-moving dynamic body, find the earliest time of impact against the
// static bodies, and the bodies whose bullet flag differs from its own,
// that overlap its fat AABB; move both bodies back to that time and apply
// one position correction. The rest of the step's motion is not
// re-simulated, and each body gets at most one such impact per step.
func (w *World) solveTOI(step TimeStep) {
	for b := w.bodyList; b != nil; b = b.next {
		if !w.shouldSolveTOIFor(b) {
			continue
		}
		w.solveTOIForBody(b, step)
	}
}

func (w *World) shouldSolveTOIFor(b *Body) bool {
	if b.bodyType != BodyDynamic || !b.awake {
		return false
	}
	if !b.bullet {
		translation := b.sweep.C.Sub(b.sweep.C0)
		if translation.Length() <= 0.5*MaxTranslation {
			return false
		}
	}
	return true
}

func (w *World) solveTOIForBody(b *Body, step TimeStep) {
	minT := 1.0
	var other *Body

	for f := b.fixtureList; f != nil; f = f.next {
		for childA := 0; childA < f.shape.GetChildCount(); childA++ {
			fatAABB := f.GetAABB(childA)
			w.broadPhase.Query(fatAABB, func(id int) bool {
				proxy, ok := w.broadPhase.GetUserData(id).(*fixtureProxy)
				if !ok {
					return true
				}
				fB := proxy.fixture
				bB := fB.body
				if bB == b || (bB.bodyType != BodyStatic && b.bullet == bB.bullet) {
					return true
				}
				if !b.shouldCollide(bB) {
					return true
				}

				input := TOIInput{
					ProxyA: f.shape.proxy(childA),
					ProxyB: fB.shape.proxy(proxy.childIndex),
					SweepA: b.sweep, SweepB: bB.sweep,
					TMax: minT,
				}
				out := ComputeTOI(input)
				if out.State == TOIStateFailed {
					w.Logger.Printf("TOI solve failed between body %d and %d, skipping", b.id, bB.id)
				}
				if out.State == TOIStateTouching && out.T < minT {
					minT = out.T
					other = bB
				}
				return true
			})
		}
	}

	if other == nil || minT >= 1.0 {
		return
	}

	b.advance(minT)
	other.advance(minT)

	// a minimal single-contact position correction at the TOI; the next
	// full step's island solve handles the resulting velocity response.
	for f := b.fixtureList; f != nil; f = f.next {
		for g := other.fixtureList; g != nil; g = g.next {
			if !b.shouldCollide(other) {
				continue
			}
			m := Collide(f.shape, 0, b.transform, g.shape, 0, other.transform)
			if m.PointCount == 0 {
				continue
			}
			c := newContact(f, 0, g, 0)
			c.manifold = m
			solveContactPositionConstraints(c, step.asSolverStep())
		}
	}
}

// QueryAABB visits every fixture whose fat AABB overlaps aabb; the
// callback returns false to stop the query early.
func (w *World) QueryAABB(aabb AABB, cb func(f *Fixture) bool) {
	w.locked++
	defer func() { w.locked-- }()
	w.broadPhase.Query(aabb, func(id int) bool {
		proxy, ok := w.broadPhase.GetUserData(id).(*fixtureProxy)
		if !ok {
			return true
		}
		return cb(proxy.fixture)
	})
}

// RayCast casts a segment from p1 to p2 against every fixture in the
// world; cb returns the fraction to continue clipping the ray to, 0 to
// stop immediately, or the input fraction to keep going unclipped.
func (w *World) RayCast(p1, p2 Vector, cb func(f *Fixture, point, normal Vector, fraction float64) float64) {
	input := RayCastInput{P1: p1, P2: p2, MaxFraction: 1}
	w.broadPhase.RayCast(input, func(subInput RayCastInput, id int) float64 {
		proxy, ok := w.broadPhase.GetUserData(id).(*fixtureProxy)
		if !ok {
			return subInput.MaxFraction
		}
		f := proxy.fixture
		out, hit := f.RayCast(subInput, proxy.childIndex)
		if !hit {
			return subInput.MaxFraction
		}
		point := subInput.P1.Add(subInput.P2.Sub(subInput.P1).Mul(out.Fraction))
		return cb(f, point, out.Normal, out.Fraction)
	})
}

// RayCastResult is the hit reported by RayCastClosest.
type RayCastResult struct {
	Fixture  *Fixture
	Point    Vector
	Normal   Vector
	Fraction float64
}

// RayCastClosest is a convenience wrapper over RayCast that returns only
// the closest fixture hit along the segment, or ok=false if nothing was
// hit.
func (w *World) RayCastClosest(p1, p2 Vector) (result RayCastResult, ok bool) {
	w.RayCast(p1, p2, func(f *Fixture, point, normal Vector, fraction float64) float64 {
		result = RayCastResult{Fixture: f, Point: point, Normal: normal, Fraction: fraction}
		ok = true
		return fraction
	})
	return result, ok
}

// RayCastAny is a convenience wrapper over RayCast that returns the first
// fixture the broad phase happens to report, without clipping the ray to
// the closest hit so far; useful for cheap "is anything in the way" tests.
func (w *World) RayCastAny(p1, p2 Vector) (result RayCastResult, ok bool) {
	w.RayCast(p1, p2, func(f *Fixture, point, normal Vector, fraction float64) float64 {
		result = RayCastResult{Fixture: f, Point: point, Normal: normal, Fraction: fraction}
		ok = true
		return 0
	})
	return result, ok
}
