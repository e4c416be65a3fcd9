package physics

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamicTreeCreateQueryDestroy(t *testing.T) {
	tree := NewDynamicTree()

	idA := tree.CreateProxy(AABB{LowerBound: V(0, 0), UpperBound: V(1, 1)}, "a")
	idB := tree.CreateProxy(AABB{LowerBound: V(5, 5), UpperBound: V(6, 6)}, "b")

	var hits []string
	tree.Query(AABB{LowerBound: V(-1, -1), UpperBound: V(2, 2)}, func(id int) bool {
		hits = append(hits, tree.GetUserData(id).(string))
		return true
	})
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0])

	assert.True(t, tree.GetFatAABB(idA).Contains(AABB{LowerBound: V(0, 0), UpperBound: V(1, 1)}))

	tree.DestroyProxy(idB)
	var after []int
	tree.Query(AABB{LowerBound: V(-10, -10), UpperBound: V(10, 10)}, func(id int) bool {
		after = append(after, id)
		return true
	})
	assert.Equal(t, []int{idA}, after)
}

func TestDynamicTreeMoveProxy(t *testing.T) {
	tree := NewDynamicTree()
	id := tree.CreateProxy(AABB{LowerBound: V(0, 0), UpperBound: V(1, 1)}, nil)

	moved := tree.MoveProxy(id, AABB{LowerBound: V(100, 100), UpperBound: V(101, 101)}, V(1, 1))
	assert.True(t, moved)

	var found bool
	tree.Query(AABB{LowerBound: V(99, 99), UpperBound: V(102, 102)}, func(id int) bool {
		found = true
		return true
	})
	assert.True(t, found)
}

func TestDynamicTreeRayCastFindsLeaf(t *testing.T) {
	tree := NewDynamicTree()
	tree.CreateProxy(AABB{LowerBound: V(5, -1), UpperBound: V(6, 1)}, "target")

	var hit []int
	tree.RayCast(RayCastInput{P1: V(0, 0), P2: V(10, 0), MaxFraction: 1}, func(input RayCastInput, id int) float64 {
		hit = append(hit, id)
		return input.MaxFraction
	})
	require.Len(t, hit, 1)
}

func TestBroadPhaseUpdatePairsIsDeterministic(t *testing.T) {
	bp := NewBroadPhase()
	idA := bp.CreateProxy(AABB{LowerBound: V(0, 0), UpperBound: V(1, 1)}, "a")
	idB := bp.CreateProxy(AABB{LowerBound: V(0.5, 0.5), UpperBound: V(1.5, 1.5)}, "b")
	bp.TouchProxy(idA)
	bp.TouchProxy(idB)

	var pairs [][2]string
	bp.UpdatePairs(func(userDataA, userDataB interface{}) {
		pairs = append(pairs, [2]string{userDataA.(string), userDataB.(string)})
	})
	require.Len(t, pairs, 1)

	sort.Strings(pairs[0][:])
	assert.Equal(t, [2]string{"a", "b"}, pairs[0])
}
