package physics

import "math"

// ContactEdge is a borrowed link in a body's intrusive contact list,
// owned by the Contact it belongs to: edges are owned by their
// contact/joint, borrowed by their bodies.
type ContactEdge struct {
	contact  *Contact
	other    *Body
	prev, next *ContactEdge
}

const (
	contactFlagTouching = 1 << iota
	contactFlagEnabled
	contactFlagFilterDirty
	contactFlagIsland
)

// Contact is the persistent edge between two fixture-proxies. The
// ordered pair (fixtureA, fixtureB) is canonicalized once at
// creation so that fixtureA has the lower ShapeType; Collide still flips
// the manifold for pairs whose routine takes the other shape first.
type Contact struct {
	fixtureA, fixtureB *Fixture
	childA, childB     int

	manifold Manifold

	friction, restitution, tangentSpeed float64

	flags uint32

	edgeA, edgeB ContactEdge

	// velocity-solver scratch, one slot per manifold point: reused across
	// iterations so initVelocityConstraints/solveVelocityConstraints never
	// allocate
	points [MaxManifoldPoints]contactConstraintPoint
	normal Vector

	next, prev *Contact // contact manager's intrusive list
}

type contactConstraintPoint struct {
	rA, rB               Vector
	normalMass, tangentMass float64
	velocityBias         float64
}

func newContact(fixtureA *Fixture, childA int, fixtureB *Fixture, childB int) *Contact {
	// canonicalize by shape type, the way Box2D's contact-registry
	// function table picks a stable (A,B) order per pair of ShapeTypes.
	if fixtureA.shape.GetType() > fixtureB.shape.GetType() {
		fixtureA, fixtureB = fixtureB, fixtureA
		childA, childB = childB, childA
	}

	c := &Contact{
		fixtureA: fixtureA, childA: childA,
		fixtureB: fixtureB, childB: childB,
		friction:    math.Sqrt(fixtureA.friction * fixtureB.friction),
		restitution: math.Max(fixtureA.restitution, fixtureB.restitution),
		flags:       contactFlagEnabled,
	}
	c.edgeA = ContactEdge{contact: c, other: fixtureB.body}
	c.edgeB = ContactEdge{contact: c, other: fixtureA.body}
	return c
}

func (c *Contact) FixtureA() *Fixture { return c.fixtureA }
func (c *Contact) FixtureB() *Fixture { return c.fixtureB }
func (c *Contact) ChildIndexA() int   { return c.childA }
func (c *Contact) ChildIndexB() int   { return c.childB }
func (c *Contact) Manifold() Manifold { return c.manifold }
func (c *Contact) IsTouching() bool   { return c.flags&contactFlagTouching != 0 }
func (c *Contact) IsEnabled() bool    { return c.flags&contactFlagEnabled != 0 }
func (c *Contact) SetEnabled(v bool) {
	if v {
		c.flags |= contactFlagEnabled
	} else {
		c.flags &^= contactFlagEnabled
	}
}

// ResetFrictionAndRestitution restores the sqrt/max mixing rule; friction
// and restitution otherwise stay fixed at whatever was mixed at creation
// until the user explicitly resets them.
func (c *Contact) ResetFrictionAndRestitution() {
	c.friction = math.Sqrt(c.fixtureA.friction * c.fixtureB.friction)
	c.restitution = math.Max(c.fixtureA.restitution, c.fixtureB.restitution)
}

func (c *Contact) SetFriction(f float64)    { c.friction = f }
func (c *Contact) Friction() float64        { return c.friction }
func (c *Contact) SetRestitution(r float64) { c.restitution = r }
func (c *Contact) Restitution() float64     { return c.restitution }
func (c *Contact) SetTangentSpeed(s float64) { c.tangentSpeed = s }
func (c *Contact) TangentSpeed() float64     { return c.tangentSpeed }

func (c *Contact) flagFilterDirty() { c.flags |= contactFlagFilterDirty }

// update runs the narrow phase and preserves warm-start impulses across
// feature-id matches by matching feature ids point-for-point before
// overwriting the manifold. It returns nothing: a flip of the touching
// state is reported through the listener's BeginContact/EndContact, and
// the previous manifold is handed to PreSolve.
func (c *Contact) update(listener ContactListener) {
	oldManifold := c.manifold
	wasTouching := c.IsTouching()

	bodyA, bodyB := c.fixtureA.body, c.fixtureB.body
	touching := false

	if c.fixtureA.isSensor || c.fixtureB.isSensor {
		shapeA := shapeChild(c.fixtureA.shape, c.childA)
		shapeB := shapeChild(c.fixtureB.shape, c.childB)
		touching = testShapeOverlap(shapeA, bodyA.transform, shapeB, bodyB.transform)
		c.manifold = Manifold{}
	} else {
		c.manifold = Collide(c.fixtureA.shape, c.childA, bodyA.transform, c.fixtureB.shape, c.childB, bodyB.transform)
		touching = c.manifold.PointCount > 0

		// match feature ids to carry impulses forward for warm starting
		for i := 0; i < c.manifold.PointCount; i++ {
			mp := &c.manifold.Points[i]
			mp.NormalImpulse = 0
			mp.TangentImpulse = 0
			for j := 0; j < oldManifold.PointCount; j++ {
				if oldManifold.Points[j].ID == mp.ID {
					mp.NormalImpulse = oldManifold.Points[j].NormalImpulse
					mp.TangentImpulse = oldManifold.Points[j].TangentImpulse
					break
				}
			}
		}
	}

	if touching {
		c.flags |= contactFlagTouching
	} else {
		c.flags &^= contactFlagTouching
	}

	if listener != nil {
		if !wasTouching && touching {
			listener.BeginContact(c)
		} else if wasTouching && !touching {
			listener.EndContact(c)
		}
		if touching {
			listener.PreSolve(c, oldManifold)
		}
	}
}

func shapeChild(s Shape, child int) Shape { return resolveChild(s, child) }

func testShapeOverlap(shapeA Shape, xfA Transform, shapeB Shape, xfB Transform) bool {
	input := DistanceInput{
		ProxyA: shapeA.proxy(0), ProxyB: shapeB.proxy(0),
		TransformA: xfA, TransformB: xfB,
		UseRadii: true,
	}
	out := ComputeDistance(input, &SimplexCache{})
	return out.Distance < 10*epsilon
}
