package physics

import "sort"

// pairID is an emitted broad-phase candidate pair, canonicalized so (a,b)
// and (b,a) are the same key.
type pairID struct {
	A, B int
}

// BroadPhase wraps a DynamicTree with a move buffer: proxies that move
// during a step are buffered, then re-queried together in one pass to
// emit candidate overlapping pairs.
type BroadPhase struct {
	tree       *DynamicTree
	moveBuffer []int
	moveSet    map[int]bool
	pairSet    map[pairID]bool
}

func NewBroadPhase() *BroadPhase {
	return &BroadPhase{
		tree:    NewDynamicTree(),
		moveSet: make(map[int]bool),
		pairSet: make(map[pairID]bool),
	}
}

func (bp *BroadPhase) CreateProxy(aabb AABB, userData interface{}) int {
	id := bp.tree.CreateProxy(aabb, userData)
	bp.bufferMove(id)
	return id
}

func (bp *BroadPhase) DestroyProxy(id int) {
	bp.unbufferMove(id)
	bp.tree.DestroyProxy(id)
}

func (bp *BroadPhase) MoveProxy(id int, aabb AABB, displacement Vector) {
	if bp.tree.MoveProxy(id, aabb, displacement) {
		bp.bufferMove(id)
	}
}

// TouchProxy forces a proxy back into the move buffer without moving it,
// used when a fixture's filter changes and its pairs must be re-emitted.
func (bp *BroadPhase) TouchProxy(id int) {
	bp.bufferMove(id)
}

func (bp *BroadPhase) GetFatAABB(id int) AABB         { return bp.tree.GetFatAABB(id) }
func (bp *BroadPhase) GetUserData(id int) interface{} { return bp.tree.GetUserData(id) }

func (bp *BroadPhase) TestOverlap(idA, idB int) bool {
	return bp.tree.GetFatAABB(idA).Intersects(bp.tree.GetFatAABB(idB))
}

func (bp *BroadPhase) Query(aabb AABB, cb func(id int) bool) {
	bp.tree.Query(aabb, cb)
}

func (bp *BroadPhase) RayCast(input RayCastInput, cb RayCastCallback) {
	bp.tree.RayCast(input, cb)
}

func (bp *BroadPhase) bufferMove(id int) {
	if !bp.moveSet[id] {
		bp.moveSet[id] = true
		bp.moveBuffer = append(bp.moveBuffer, id)
	}
}

func (bp *BroadPhase) unbufferMove(id int) {
	if bp.moveSet[id] {
		delete(bp.moveSet, id)
		for i, v := range bp.moveBuffer {
			if v == id {
				bp.moveBuffer = append(bp.moveBuffer[:i], bp.moveBuffer[i+1:]...)
				break
			}
		}
	}
}

// UpdatePairs queries the tree once per moved proxy with its fat AABB,
// dedupes the resulting pairs by canonical (min,max) id, and calls
// addPairCallback for each unique pair in ascending (idA, idB) order, then
// clear the move buffer.
func (bp *BroadPhase) UpdatePairs(addPairCallback func(userDataA, userDataB interface{})) {
	for k := range bp.pairSet {
		delete(bp.pairSet, k)
	}

	var newPairs []pairID

	for _, queryID := range bp.moveBuffer {
		fatAABB := bp.tree.GetFatAABB(queryID)
		bp.tree.Query(fatAABB, func(id int) bool {
			if id == queryID {
				return true
			}
			a, b := id, queryID
			if a > b {
				a, b = b, a
			}
			key := pairID{a, b}
			if !bp.pairSet[key] {
				bp.pairSet[key] = true
				newPairs = append(newPairs, key)
			}
			return true
		})
	}

	sort.Slice(newPairs, func(i, j int) bool {
		if newPairs[i].A != newPairs[j].A {
			return newPairs[i].A < newPairs[j].A
		}
		return newPairs[i].B < newPairs[j].B
	})

	for _, p := range newPairs {
		addPairCallback(bp.tree.GetUserData(p.A), bp.tree.GetUserData(p.B))
	}

	bp.moveBuffer = bp.moveBuffer[:0]
	for k := range bp.moveSet {
		delete(bp.moveSet, k)
	}
}
