package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBasics(t *testing.T) {
	a := V(1, 2)
	b := V(3, -1)

	assert.Equal(t, V(4, 1), a.Add(b))
	assert.Equal(t, V(-2, 3), a.Sub(b))
	assert.Equal(t, 1.0, a.Dot(b))
	assert.InDelta(t, -7.0, a.Cross(b), 1e-9)
	assert.Equal(t, V(-2, 1), a.Perp())
	assert.Equal(t, V(2, -1), a.RPerp())
}

func TestVectorNormalizeDegenerate(t *testing.T) {
	assert.Equal(t, Vector{}, Vector{}.Normalize())
	n := V(3, 4).Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
}

func TestRotationRoundTrip(t *testing.T) {
	q := NewRotation(0.7)
	v := V(2, -3)
	got := q.InvRotateVec(q.RotateVec(v))
	assert.InDelta(t, v.X, got.X, 1e-9)
	assert.InDelta(t, v.Y, got.Y, 1e-9)
}

func TestTransformApplyInvIsInverse(t *testing.T) {
	xf := Transform{P: V(5, -2), Q: NewRotation(1.2)}
	v := V(1, 1)
	require.InDelta(t, v.X, xf.ApplyInv(xf.Apply(v)).X, 1e-9)
	require.InDelta(t, v.Y, xf.ApplyInv(xf.Apply(v)).Y, 1e-9)
}

func TestMat22SolveIsLinearInverse(t *testing.T) {
	m := Mat22{Ex: V(2, 0), Ey: V(0, 4)}
	x := m.Solve(V(4, 8))
	assert.InDelta(t, 2.0, x.X, 1e-9)
	assert.InDelta(t, 2.0, x.Y, 1e-9)
}

func TestMat22SolveSingularReturnsZero(t *testing.T) {
	m := Mat22{Ex: V(1, 1), Ey: V(2, 2)}
	x := m.Solve(V(1, 1))
	assert.Equal(t, Vector{}, x)
}

func TestSweepGetTransformInterpolates(t *testing.T) {
	s := Sweep{C0: V(0, 0), C: V(10, 0), A0: 0, A: math.Pi / 2}
	mid := s.GetTransform(0.5)
	assert.InDelta(t, 5.0, mid.P.X, 1e-9)
	assert.InDelta(t, math.Pi/4, mid.Q.Angle(), 1e-9)
}

func TestSweepAdvance(t *testing.T) {
	s := Sweep{C0: V(0, 0), C: V(10, 0), A0: 0, A: 0}
	s.Advance(0.5)
	assert.InDelta(t, 5.0, s.C0.X, 1e-9)
	assert.InDelta(t, 0.5, s.Alpha0, 1e-9)
}
