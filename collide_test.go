package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollideCirclesOverlapping(t *testing.T) {
	a, err := NewCircleShape(V(0, 0), 1)
	require.NoError(t, err)
	b, err := NewCircleShape(V(0, 0), 1)
	require.NoError(t, err)

	m := Collide(a, 0, Transform{P: V(0, 0), Q: RotationIdentity()}, b, 0, Transform{P: V(1.5, 0), Q: RotationIdentity()})
	require.Equal(t, 1, m.PointCount)
	assert.Equal(t, ManifoldCircles, m.Type)
}

func TestCollideCirclesSeparated(t *testing.T) {
	a, err := NewCircleShape(V(0, 0), 1)
	require.NoError(t, err)
	b, err := NewCircleShape(V(0, 0), 1)
	require.NoError(t, err)

	m := Collide(a, 0, Transform{P: V(0, 0), Q: RotationIdentity()}, b, 0, Transform{P: V(10, 0), Q: RotationIdentity()})
	assert.Equal(t, 0, m.PointCount)
}

func TestCollidePolygonsFlatOnFlat(t *testing.T) {
	box, err := NewBoxShape(1, 1)
	require.NoError(t, err)

	xfA := Transform{P: V(0, 0), Q: RotationIdentity()}
	xfB := Transform{P: V(0, 1.9), Q: RotationIdentity()}

	m := Collide(box, 0, xfA, box, 0, xfB)
	require.Greater(t, m.PointCount, 0)

	wm := m.ComputeWorldManifold(xfA, xfB, box.Radius, box.Radius)
	for i := 0; i < m.PointCount; i++ {
		assert.Less(t, wm.Separations[i], 0.01)
	}
}
