package physics

// ContactListener observes contact lifecycle transitions: begin, end,
// pre-solve, and post-solve.
type ContactListener interface {
	BeginContact(c *Contact)
	EndContact(c *Contact)
	PreSolve(c *Contact, oldManifold Manifold)
	PostSolve(c *Contact, impulse *ContactImpulse)
}

// ContactImpulse reports the per-point impulses applied during the
// velocity solve, passed to ContactListener.PostSolve.
type ContactImpulse struct {
	NormalImpulses  [MaxManifoldPoints]float64
	TangentImpulses [MaxManifoldPoints]float64
	Count           int
}

// DestructionListener is notified when a fixture or joint is destroyed as
// a side effect of destroying the body/joint that owns it.
type DestructionListener interface {
	SayGoodbyeFixture(f *Fixture)
	SayGoodbyeJoint(j Joint)
}

// ContactManager owns the live contact set and runs the broad-phase pair
// emission plus narrow-phase update each step.
type ContactManager struct {
	broadPhase *BroadPhase
	contactList *Contact
	contactCount int

	listener           ContactListener
	destructionListener DestructionListener
}

func newContactManager(bp *BroadPhase) *ContactManager {
	return &ContactManager{broadPhase: bp}
}

func (cm *ContactManager) addPair(userDataA, userDataB interface{}) {
	proxyA := userDataA.(*fixtureProxy)
	proxyB := userDataB.(*fixtureProxy)

	fixtureA := proxyA.fixture
	fixtureB := proxyB.fixture

	bodyA := fixtureA.body
	bodyB := fixtureB.body

	if bodyA == bodyB {
		return
	}

	for e := bodyB.contactList; e != nil; e = e.next {
		if e.other == bodyA {
			oc := e.contact
			if (oc.fixtureA == fixtureA && oc.fixtureB == fixtureB && oc.childA == proxyA.childIndex && oc.childB == proxyB.childIndex) ||
				(oc.fixtureA == fixtureB && oc.fixtureB == fixtureA && oc.childA == proxyB.childIndex && oc.childB == proxyA.childIndex) {
				return // contact already exists for this (fixture, child) pair
			}
		}
	}

	if !bodyA.shouldCollide(bodyB) {
		return
	}
	if !fixtureA.filter.ShouldCollide(fixtureB.filter) {
		return
	}

	c := newContact(fixtureA, proxyA.childIndex, fixtureB, proxyB.childIndex)

	c.next = cm.contactList
	if cm.contactList != nil {
		cm.contactList.prev = c
	}
	cm.contactList = c
	cm.contactCount++

	// re-fetch in case newContact canonicalized/swapped the pair
	a, b := c.fixtureA.body, c.fixtureB.body

	c.edgeA.next = a.contactList
	if a.contactList != nil {
		a.contactList.prev = &c.edgeA
	}
	a.contactList = &c.edgeA

	c.edgeB.next = b.contactList
	if b.contactList != nil {
		b.contactList.prev = &c.edgeB
	}
	b.contactList = &c.edgeB

	if !fixtureA.isSensor && !fixtureB.isSensor {
		a.Activate()
		b.Activate()
	}
}

// findNewContacts asks the broad phase for newly overlapping pairs and
// creates a Contact for each one that passes filtering.
func (cm *ContactManager) findNewContacts() {
	cm.broadPhase.UpdatePairs(cm.addPair)
}

// collide re-checks dirty filters, destroys contacts whose fat AABBs
// separated, and otherwise runs the narrow phase on what remains.
func (cm *ContactManager) collide() {
	c := cm.contactList
	for c != nil {
		next := c.next

		fixtureA, fixtureB := c.fixtureA, c.fixtureB
		bodyA, bodyB := fixtureA.body, fixtureB.body

		if c.flags&contactFlagFilterDirty != 0 {
			c.flags &^= contactFlagFilterDirty
			if !bodyA.shouldCollide(bodyB) || !fixtureA.filter.ShouldCollide(fixtureB.filter) {
				cm.destroy(c)
				c = next
				continue
			}
		}

		if !fixtureA.isSensor && !fixtureB.isSensor && !bodyA.awake && !bodyB.awake {
			c = next
			continue
		}

		proxyIDA := fixtureA.proxies[c.childA].proxyID
		proxyIDB := fixtureB.proxies[c.childB].proxyID
		if !cm.broadPhase.TestOverlap(proxyIDA, proxyIDB) {
			cm.destroy(c)
			c = next
			continue
		}

		c.update(cm.listener)
		c = next
	}
}

func (cm *ContactManager) destroy(c *Contact) {
	fixtureA, fixtureB := c.fixtureA, c.fixtureB
	bodyA, bodyB := fixtureA.body, fixtureB.body

	if c.IsTouching() && cm.listener != nil {
		cm.listener.EndContact(c)
	}

	if c.prev != nil {
		c.prev.next = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	}
	if c == cm.contactList {
		cm.contactList = c.next
	}
	cm.contactCount--

	unlinkContactEdge(&bodyA.contactList, &c.edgeA)
	unlinkContactEdge(&bodyB.contactList, &c.edgeB)
}

func unlinkContactEdge(head **ContactEdge, e *ContactEdge) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if *head == e {
		*head = e.next
	}
	e.prev = nil
	e.next = nil
}
