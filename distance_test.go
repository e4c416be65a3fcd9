package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceOverlappingCircles(t *testing.T) {
	circA, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)
	circB, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)

	input := DistanceInput{
		ProxyA:     circA.proxy(0),
		ProxyB:     circB.proxy(0),
		TransformA: Transform{P: V(0, 0), Q: RotationIdentity()},
		TransformB: Transform{P: V(1.9, 0), Q: RotationIdentity()},
		UseRadii:   true,
	}

	var cache SimplexCache
	out := ComputeDistance(input, &cache)
	assert.InDelta(t, 0.0, out.Distance, 1e-9)
}

func TestDistanceSeparatedCircles(t *testing.T) {
	circA, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)
	circB, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)

	input := DistanceInput{
		ProxyA:     circA.proxy(0),
		ProxyB:     circB.proxy(0),
		TransformA: Transform{P: V(0, 0), Q: RotationIdentity()},
		TransformB: Transform{P: V(2.1, 0), Q: RotationIdentity()},
		UseRadii:   true,
	}

	var cache SimplexCache
	out := ComputeDistance(input, &cache)
	assert.InDelta(t, 0.1, out.Distance, 1e-9)
}

func TestDistanceWithoutRadiiMeasuresCenters(t *testing.T) {
	circA, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)
	circB, err := NewCircleShape(Vector{}, 1)
	require.NoError(t, err)

	input := DistanceInput{
		ProxyA:     circA.proxy(0),
		ProxyB:     circB.proxy(0),
		TransformA: Transform{P: V(0, 0), Q: RotationIdentity()},
		TransformB: Transform{P: V(3, 0), Q: RotationIdentity()},
		UseRadii:   false,
	}

	var cache SimplexCache
	out := ComputeDistance(input, &cache)
	assert.InDelta(t, 3.0, out.Distance, 1e-9)
}

func TestDistanceSimplexCacheReusedAcrossCalls(t *testing.T) {
	circA, err := NewCircleShape(Vector{}, 0.5)
	require.NoError(t, err)
	polyB, err := NewPolygonShape([]Vector{V(-1, -1), V(1, -1), V(1, 1), V(-1, 1)})
	require.NoError(t, err)

	xfA := Transform{P: V(0, 0), Q: RotationIdentity()}
	xfB := Transform{P: V(3, 0), Q: RotationIdentity()}

	var cache SimplexCache
	first := ComputeDistance(DistanceInput{
		ProxyA: circA.proxy(0), ProxyB: polyB.proxy(0),
		TransformA: xfA, TransformB: xfB, UseRadii: true,
	}, &cache)
	require.Greater(t, first.Distance, 0.0)

	xfB.P = V(3.01, 0)
	second := ComputeDistance(DistanceInput{
		ProxyA: circA.proxy(0), ProxyB: polyB.proxy(0),
		TransformA: xfA, TransformB: xfB, UseRadii: true,
	}, &cache)
	assert.InDelta(t, first.Distance, second.Distance, 0.02)
}
