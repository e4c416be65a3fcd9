package physics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newGroundBox(t *testing.T, w *World, y float64) *Body {
	t.Helper()
	ground, err := w.CreateBody(BodyDef{Type: BodyStatic, Position: V(0, y), Active: true})
	require.NoError(t, err)
	poly, err := NewBoxShape(50, 1)
	require.NoError(t, err)
	_, err = ground.CreateFixture(FixtureDef{Shape: poly, Density: 0, Friction: 0.3})
	require.NoError(t, err)
	return ground
}

func TestWorldFallingCircleSettlesOnGround(t *testing.T) {
	w := NewWorld(V(0, -10))
	newGroundBox(t, w, 0)

	circle, err := NewCircleShape(V(0, 0), 0.5)
	require.NoError(t, err)
	ball, err := w.CreateBody(BodyDef{
		Type: BodyDynamic, Position: V(0, 10), AllowSleep: true, Awake: true, Active: true,
	})
	require.NoError(t, err)
	_, err = ball.CreateFixture(FixtureDef{Shape: circle, Density: 1, Friction: 0.3, Restitution: 0})
	require.NoError(t, err)

	for i := 0; i < 600; i++ {
		w.Step(1.0/60.0, 8, 3)
	}

	// the ball should have come to rest on top of the ground box (half-height
	// 1 plus its own radius 0.5) rather than tunneling through or floating.
	require.InDelta(t, 1.5, ball.Position().Y, 0.1)
	require.Less(t, ball.LinearVelocity().Length(), 0.5)
}

func TestWorldDistanceJointHoldsLength(t *testing.T) {
	w := NewWorld(V(0, -10))

	anchor, err := w.CreateBody(BodyDef{Type: BodyStatic, Position: V(0, 10), Active: true})
	require.NoError(t, err)

	circle, err := NewCircleShape(V(0, 0), 0.25)
	require.NoError(t, err)
	bob, err := w.CreateBody(BodyDef{Type: BodyDynamic, Position: V(5, 10), Awake: true, Active: true, AllowSleep: true})
	require.NoError(t, err)
	_, err = bob.CreateFixture(FixtureDef{Shape: circle, Density: 1})
	require.NoError(t, err)

	joint, err := NewDistanceJoint(DistanceJointDef{
		BodyA: anchor, BodyB: bob, Length: 5,
	})
	require.NoError(t, err)
	require.NoError(t, w.CreateJoint(joint))

	for i := 0; i < 300; i++ {
		w.Step(1.0/60.0, 8, 3)
		d := Distance(anchor.Position(), bob.Position())
		require.InDelta(t, 5.0, d, 0.05)
	}
}

func TestWorldSnapshotRoundTrip(t *testing.T) {
	w := NewWorld(V(0, -9.8))
	newGroundBox(t, w, -5)

	circle, err := NewCircleShape(V(0, 0), 1)
	require.NoError(t, err)
	a, err := w.CreateBody(BodyDef{Type: BodyDynamic, Position: V(1, 2), Awake: true, Active: true})
	require.NoError(t, err)
	_, err = a.CreateFixture(FixtureDef{Shape: circle, Density: 2, Friction: 0.1, Restitution: 0.2})
	require.NoError(t, err)

	b, err := w.CreateBody(BodyDef{Type: BodyDynamic, Position: V(4, 2), Awake: true, Active: true})
	require.NoError(t, err)
	_, err = b.CreateFixture(FixtureDef{Shape: circle, Density: 2})
	require.NoError(t, err)

	joint, err := NewDistanceJoint(DistanceJointDef{BodyA: a, BodyB: b, Length: 3})
	require.NoError(t, err)
	require.NoError(t, w.CreateJoint(joint))

	var buf bytes.Buffer
	require.NoError(t, w.Dump(&buf))

	restored, err := Load(&buf)
	require.NoError(t, err)

	require.Equal(t, w.BodyCount(), restored.BodyCount())
	require.Equal(t, w.JointCount(), restored.JointCount())
	require.Equal(t, w.GetGravity(), restored.GetGravity())
}

type lockProbeListener struct {
	createErr error
	called    bool
}

func (l *lockProbeListener) BeginContact(c *Contact) {
	l.called = true
	_, l.createErr = c.fixtureA.body.world.CreateBody(BodyDef{Type: BodyStatic})
}
func (l *lockProbeListener) EndContact(c *Contact)                            {}
func (l *lockProbeListener) PreSolve(c *Contact, oldManifold Manifold)        {}
func (l *lockProbeListener) PostSolve(c *Contact, impulse *ContactImpulse)    {}

func TestWorldLockedDuringStepRejectsMutation(t *testing.T) {
	w := NewWorld(V(0, -10))
	require.False(t, w.IsLocked())

	newGroundBox(t, w, 0)
	circle, err := NewCircleShape(V(0, 0), 0.5)
	require.NoError(t, err)
	ball, err := w.CreateBody(BodyDef{Type: BodyDynamic, Position: V(0, 0.9), Awake: true, Active: true})
	require.NoError(t, err)
	_, err = ball.CreateFixture(FixtureDef{Shape: circle, Density: 1})
	require.NoError(t, err)

	listener := &lockProbeListener{}
	w.SetContactListener(listener)

	for i := 0; i < 10 && !listener.called; i++ {
		w.Step(1.0/60.0, 8, 3)
	}

	require.True(t, listener.called)
	require.Error(t, listener.createErr)
	require.False(t, w.IsLocked())
}
