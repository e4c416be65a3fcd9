package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSweep(center Vector) Sweep {
	return Sweep{C0: center, C: center, A0: 0, A: 0, Alpha0: 0}
}

func TestTimeOfImpactOverlappingCirclesReportsOverlapAtZero(t *testing.T) {
	circA, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)
	circB, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)

	input := TOIInput{
		ProxyA: circA.proxy(0),
		ProxyB: circB.proxy(0),
		SweepA: fixedSweep(V(0, 0)),
		SweepB: fixedSweep(V(1.9, 0)),
		TMax:   1.0,
	}

	out := ComputeTOI(input)
	assert.Equal(t, TOIStateOverlapped, out.State)
	assert.Equal(t, 0.0, out.T)
}

func TestTimeOfImpactSeparatedCirclesNeverTouch(t *testing.T) {
	circA, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)
	circB, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)

	input := TOIInput{
		ProxyA: circA.proxy(0),
		ProxyB: circB.proxy(0),
		SweepA: fixedSweep(V(0, 0)),
		SweepB: fixedSweep(V(10, 0)),
		TMax:   1.0,
	}

	out := ComputeTOI(input)
	assert.Equal(t, TOIStateSeparated, out.State)
	assert.Equal(t, 1.0, out.T)
}

func TestTimeOfImpactApproachingCirclesFindsImpactTime(t *testing.T) {
	circA, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)
	circB, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)

	sweepB := Sweep{C0: V(6, 0), C: V(0, 0), A0: 0, A: 0, Alpha0: 0}

	input := TOIInput{
		ProxyA: circA.proxy(0),
		ProxyB: circB.proxy(0),
		SweepA: fixedSweep(V(0, 0)),
		SweepB: sweepB,
		TMax:   1.0,
	}

	out := ComputeTOI(input)
	assert.Equal(t, TOIStateTouching, out.State)
	assert.Greater(t, out.T, 0.0)
	assert.Less(t, out.T, 1.0)

	// at the reported impact time the circle centers should sit at the TOI
	// target separation: the radius sum less 3*LinearSlop
	xfA := input.SweepA.GetTransform(out.T)
	xfB := input.SweepB.GetTransform(out.T)
	var cache SimplexCache
	dist := ComputeDistance(DistanceInput{
		ProxyA: input.ProxyA, ProxyB: input.ProxyB,
		TransformA: xfA, TransformB: xfB,
	}, &cache)
	assert.InDelta(t, 2.0-3*LinearSlop, dist.Distance, 0.01)
}
