package physics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCircleBody(t *testing.T, w *World, pos Vector, bodyType BodyType) *Body {
	t.Helper()
	b, err := w.CreateBody(BodyDef{Type: bodyType, Position: pos, Awake: true, Active: true, AllowSleep: true})
	require.NoError(t, err)
	if bodyType != BodyStatic {
		circle, err := NewCircleShape(V(0, 0), 0.5)
		require.NoError(t, err)
		_, err = b.CreateFixture(FixtureDef{Shape: circle, Density: 1})
		require.NoError(t, err)
	}
	return b
}

func TestRevoluteJointPendulumStaysOnCircle(t *testing.T) {
	w := NewWorld(V(0, -10))
	anchor := newTestCircleBody(t, w, V(0, 10), BodyStatic)
	bob := newTestCircleBody(t, w, V(3, 10), BodyDynamic)

	joint, err := NewRevoluteJoint(RevoluteJointDef{BodyA: anchor, BodyB: bob})
	require.NoError(t, err)
	require.NoError(t, w.CreateJoint(joint))

	for i := 0; i < 180; i++ {
		w.Step(1.0/60.0, 8, 3)
		d := Distance(anchor.Position(), bob.Position())
		require.InDelta(t, 3.0, d, 0.05)
	}
}

func TestGearJointCouplesTwoRevoluteJoints(t *testing.T) {
	w := NewWorld(V(0, 0))
	ground := newTestCircleBody(t, w, V(0, 0), BodyStatic)
	wheelA := newTestCircleBody(t, w, V(2, 0), BodyDynamic)
	wheelB := newTestCircleBody(t, w, V(-2, 0), BodyDynamic)

	jointA, err := NewRevoluteJoint(RevoluteJointDef{BodyA: ground, BodyB: wheelA})
	require.NoError(t, err)
	require.NoError(t, w.CreateJoint(jointA))

	jointB, err := NewRevoluteJoint(RevoluteJointDef{BodyA: ground, BodyB: wheelB})
	require.NoError(t, err)
	require.NoError(t, w.CreateJoint(jointB))

	gear, err := NewGearJoint(GearJointDef{
		BodyA: wheelA, BodyB: wheelB, JointA: jointA, JointB: jointB, Ratio: 1,
	})
	require.NoError(t, err)
	require.NoError(t, w.CreateJoint(gear))

	wheelA.SetAngularVelocity(2.0)

	for i := 0; i < 30; i++ {
		w.Step(1.0/60.0, 8, 3)
	}

	// ratio 1 gear drives the coupled wheel at the opposite angular rate.
	require.InDelta(t, -wheelA.AngularVelocity(), wheelB.AngularVelocity(), 0.25)
}

func TestRopeJointClampsMaxLengthButAllowsSlack(t *testing.T) {
	w := NewWorld(V(0, -10))
	anchor := newTestCircleBody(t, w, V(0, 10), BodyStatic)
	bob := newTestCircleBody(t, w, V(0, 9), BodyDynamic)

	joint, err := NewRopeJoint(RopeJointDef{BodyA: anchor, BodyB: bob, MaxLength: 5})
	require.NoError(t, err)
	require.NoError(t, w.CreateJoint(joint))

	for i := 0; i < 240; i++ {
		w.Step(1.0/60.0, 8, 3)
		d := Distance(anchor.Position(), bob.Position())
		require.LessOrEqual(t, d, 5.2)
	}
}
