package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAABBCombine(t *testing.T) {
	a := AABB{LowerBound: V(0, 0), UpperBound: V(1, 1)}
	b := AABB{LowerBound: V(2, -1), UpperBound: V(3, 0.5)}
	c := a.Combine(b)
	assert.Equal(t, V(0, -1), c.LowerBound)
	assert.Equal(t, V(3, 1), c.UpperBound)
	assert.True(t, c.Contains(a))
	assert.True(t, c.Contains(b))
}

func TestAABBIntersects(t *testing.T) {
	a := AABB{LowerBound: V(0, 0), UpperBound: V(2, 2)}
	b := AABB{LowerBound: V(1, 1), UpperBound: V(3, 3)}
	c := AABB{LowerBound: V(10, 10), UpperBound: V(11, 11)}
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}

func TestAABBExtend(t *testing.T) {
	a := AABB{LowerBound: V(0, 0), UpperBound: V(1, 1)}
	e := a.Extend(0.5)
	assert.Equal(t, V(-0.5, -0.5), e.LowerBound)
	assert.Equal(t, V(1.5, 1.5), e.UpperBound)
}

func TestAABBRayCastHit(t *testing.T) {
	box := AABB{LowerBound: V(-1, -1), UpperBound: V(1, 1)}
	out, hit := box.RayCast(RayCastInput{P1: V(-5, 0), P2: V(5, 0), MaxFraction: 1})
	require.True(t, hit)
	assert.InDelta(t, -1.0, out.Normal.X, 1e-9)
	assert.InDelta(t, 0.4, out.Fraction, 1e-9)
}

func TestAABBRayCastMiss(t *testing.T) {
	box := AABB{LowerBound: V(-1, -1), UpperBound: V(1, 1)}
	_, hit := box.RayCast(RayCastInput{P1: V(-5, 5), P2: V(5, 5), MaxFraction: 1})
	assert.False(t, hit)
}
