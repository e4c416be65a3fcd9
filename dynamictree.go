package physics

import "math"

const nullNode = -1

// treeNode is one node of the DynamicTree arena. Leaves carry UserData
// and Child1==Child2==nullNode; internal nodes carry both children and no
// UserData. The arena is a growable slice with an explicit free-list so
// node ids stay stable across removal and reuse.
type treeNode struct {
	aabb     AABB
	userData interface{}

	parent int // also doubles as "next free node" when this node is on the free list
	child1 int
	child2 int
	height int // -1 marks a free node
}

func (n *treeNode) isLeaf() bool { return n.child1 == nullNode }

// DynamicTree is a self-balancing AABB tree used to find overlapping
// fixture-proxy pairs. Every leaf AABB is fattened ("fat AABB") so
// that small motions do not force a reinsertion.
type DynamicTree struct {
	root int

	nodes        []treeNode
	nodeCount    int
	freeList     int
	insertionCnt int
}

func NewDynamicTree() *DynamicTree {
	t := &DynamicTree{root: nullNode}
	t.nodes = make([]treeNode, 16)
	t.freeList = 0
	for i := 0; i < len(t.nodes)-1; i++ {
		t.nodes[i].parent = i + 1
		t.nodes[i].height = -1
	}
	t.nodes[len(t.nodes)-1].parent = nullNode
	t.nodes[len(t.nodes)-1].height = -1
	return t
}

func (t *DynamicTree) allocateNode() int {
	if t.freeList == nullNode {
		assert(len(t.nodes) == t.nodeCount, "free list corrupt")
		old := t.nodes
		t.nodes = make([]treeNode, len(old)*2)
		copy(t.nodes, old)
		for i := len(old); i < len(t.nodes)-1; i++ {
			t.nodes[i].parent = i + 1
			t.nodes[i].height = -1
		}
		t.nodes[len(t.nodes)-1].parent = nullNode
		t.nodes[len(t.nodes)-1].height = -1
		t.freeList = len(old)
	}

	id := t.freeList
	t.freeList = t.nodes[id].parent
	t.nodes[id] = treeNode{parent: nullNode, child1: nullNode, child2: nullNode, height: 0}
	t.nodeCount++
	return id
}

func (t *DynamicTree) freeNode(id int) {
	assert(0 <= id && id < len(t.nodes), "node id out of range")
	assert(t.nodeCount > 0, "freeing from an empty tree")
	t.nodes[id].parent = t.freeList
	t.nodes[id].height = -1
	t.freeList = id
	t.nodeCount--
}

// CreateProxy allocates a leaf with fat AABB = aabb extended by
// AABBExtension, inserts it by SAH descent, and returns a stable id.
func (t *DynamicTree) CreateProxy(aabb AABB, userData interface{}) int {
	id := t.allocateNode()
	t.nodes[id].aabb = aabb.Extend(AABBExtension)
	t.nodes[id].userData = userData
	t.nodes[id].height = 0
	t.insertLeaf(id)
	return id
}

// DestroyProxy removes the leaf and rebalances the tree.
func (t *DynamicTree) DestroyProxy(id int) {
	assert(0 <= id && id < len(t.nodes), "node id out of range")
	assert(t.nodes[id].isLeaf(), "destroying a non-leaf proxy")
	t.removeLeaf(id)
	t.freeNode(id)
}

// MoveProxy reinserts the proxy if its fat AABB no longer contains the new
// tight AABB, predicting the displacement direction. Returns whether the
// tree was actually restructured.
func (t *DynamicTree) MoveProxy(id int, aabb AABB, displacement Vector) bool {
	assert(0 <= id && id < len(t.nodes), "node id out of range")
	assert(t.nodes[id].isLeaf(), "moving a non-leaf proxy")

	if t.nodes[id].aabb.Contains(aabb) {
		return false
	}

	t.removeLeaf(id)

	fat := aabb.Extend(AABBExtension)

	if displacement.X < 0 {
		fat.LowerBound.X += AABBMultiplier * displacement.X
	} else {
		fat.UpperBound.X += AABBMultiplier * displacement.X
	}
	if displacement.Y < 0 {
		fat.LowerBound.Y += AABBMultiplier * displacement.Y
	} else {
		fat.UpperBound.Y += AABBMultiplier * displacement.Y
	}

	t.nodes[id].aabb = fat
	t.insertLeaf(id)
	return true
}

func (t *DynamicTree) GetFatAABB(id int) AABB          { return t.nodes[id].aabb }
func (t *DynamicTree) GetUserData(id int) interface{}  { return t.nodes[id].userData }
func (t *DynamicTree) GetHeight() int {
	if t.root == nullNode {
		return 0
	}
	return t.nodes[t.root].height
}

// GetAreaRatio is total node perimeter over root perimeter, a balance
// quality metric.
func (t *DynamicTree) GetAreaRatio() float64 {
	if t.root == nullNode {
		return 0
	}
	rootPerimeter := t.nodes[t.root].aabb.Perimeter()
	var total float64
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.height < 0 {
			continue
		}
		total += n.aabb.Perimeter()
	}
	return total / rootPerimeter
}

func (t *DynamicTree) insertLeaf(leaf int) {
	t.insertionCnt++

	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	leafAABB := t.nodes[leaf].aabb
	index := t.root

	for !t.nodes[index].isLeaf() {
		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		area := t.nodes[index].aabb.Perimeter()
		combined := t.nodes[index].aabb.Combine(leafAABB)
		combinedArea := combined.Perimeter()

		// cost of creating a new parent for this node and the new leaf
		cost := 2.0 * combinedArea
		// minimum cost of pushing the leaf further down the tree
		inheritanceCost := 2.0 * (combinedArea - area)

		cost1 := t.descentCost(child1, leafAABB, inheritanceCost)
		cost2 := t.descentCost(child2, leafAABB, inheritanceCost)

		if cost < cost1 && cost < cost2 {
			break
		}

		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].aabb = leafAABB.Combine(t.nodes[sibling].aabb)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullNode {
		if t.nodes[oldParent].child1 == sibling {
			t.nodes[oldParent].child1 = newParent
		} else {
			t.nodes[oldParent].child2 = newParent
		}
		t.nodes[newParent].child1 = sibling
		t.nodes[newParent].child2 = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
	} else {
		t.nodes[newParent].child1 = sibling
		t.nodes[newParent].child2 = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
		t.root = newParent
	}

	// walk back up, refitting AABBs and rebalancing
	index = t.nodes[leaf].parent
	for index != nullNode {
		index = t.balance(index)

		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		t.nodes[index].height = 1 + maxInt(t.nodes[child1].height, t.nodes[child2].height)
		t.nodes[index].aabb = t.nodes[child1].aabb.Combine(t.nodes[child2].aabb)

		index = t.nodes[index].parent
	}
}

func (t *DynamicTree) descentCost(child int, leafAABB AABB, inheritanceCost float64) float64 {
	if t.nodes[child].isLeaf() {
		combined := leafAABB.Combine(t.nodes[child].aabb)
		return combined.Perimeter() + inheritanceCost
	}
	combined := leafAABB.Combine(t.nodes[child].aabb)
	oldArea := t.nodes[child].aabb.Perimeter()
	newArea := combined.Perimeter()
	return (newArea - oldArea) + inheritanceCost
}

func (t *DynamicTree) removeLeaf(leaf int) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	var sibling int
	if t.nodes[parent].child1 == leaf {
		sibling = t.nodes[parent].child2
	} else {
		sibling = t.nodes[parent].child1
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].child1 == parent {
			t.nodes[grandParent].child1 = sibling
		} else {
			t.nodes[grandParent].child2 = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)

		index := grandParent
		for index != nullNode {
			index = t.balance(index)
			child1 := t.nodes[index].child1
			child2 := t.nodes[index].child2
			t.nodes[index].aabb = t.nodes[child1].aabb.Combine(t.nodes[child2].aabb)
			t.nodes[index].height = 1 + maxInt(t.nodes[child1].height, t.nodes[child2].height)
			index = t.nodes[index].parent
		}
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
}

// balance restores AVL-like balance at iA by rotating the imbalanced child
// up when |height(left) - height(right)| > 1, returning the index of the
// node now occupying iA's old position.
func (t *DynamicTree) balance(iA int) int {
	A := &t.nodes[iA]
	if A.isLeaf() || A.height < 2 {
		return iA
	}

	iB := A.child1
	iC := A.child2
	B := &t.nodes[iB]
	C := &t.nodes[iC]

	balance := C.height - B.height

	if balance > 1 {
		return t.rotateUp(iA, iC, iB)
	}
	if balance < -1 {
		return t.rotateUp(iA, iB, iC)
	}
	return iA
}

// rotateUp rotates iHeavy (the taller child of iA) up to take iA's place,
// pushing iA down next to the lighter grandchild. iHeavy/iLight are the two
// children of iA in either order; the caller has already established
// iHeavy is the one being promoted.
func (t *DynamicTree) rotateUp(iA, iHeavy, iLight int) int {
	heavyIsChild1 := t.nodes[iA].child1 == iHeavy
	F := &t.nodes[iHeavy]
	iF1 := F.child1
	iF2 := F.child2
	F1 := &t.nodes[iF1]
	F2 := &t.nodes[iF2]

	// swap A and F
	F.child1 = iA
	F.parent = t.nodes[iA].parent
	t.nodes[iA].parent = iHeavy

	if F.parent != nullNode {
		if t.nodes[F.parent].child1 == iA {
			t.nodes[F.parent].child1 = iHeavy
		} else {
			t.nodes[F.parent].child2 = iHeavy
		}
	} else {
		t.root = iHeavy
	}

	// rotate
	if F1.height > F2.height {
		F.child2 = iF1
		if heavyIsChild1 {
			t.nodes[iA].child1 = iF2
		} else {
			t.nodes[iA].child2 = iF2
		}
		F2.parent = iA
		t.nodes[iA].aabb = t.nodes[iLight].aabb.Combine(F2.aabb)
		F.aabb = t.nodes[iA].aabb.Combine(F1.aabb)
		t.nodes[iA].height = 1 + maxInt(t.nodes[iLight].height, F2.height)
		F.height = 1 + maxInt(t.nodes[iA].height, F1.height)
	} else {
		F.child2 = iF2
		if heavyIsChild1 {
			t.nodes[iA].child1 = iF1
		} else {
			t.nodes[iA].child2 = iF1
		}
		F1.parent = iA
		t.nodes[iA].aabb = t.nodes[iLight].aabb.Combine(F1.aabb)
		F.aabb = t.nodes[iA].aabb.Combine(F2.aabb)
		t.nodes[iA].height = 1 + maxInt(t.nodes[iLight].height, F1.height)
		F.height = 1 + maxInt(t.nodes[iA].height, F2.height)
	}

	return iHeavy
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Query performs a pre-order traversal invoking cb(id) at every leaf whose
// fat AABB overlaps aabb. cb returns false to stop early.
func (t *DynamicTree) Query(aabb AABB, cb func(id int) bool) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}
		n := &t.nodes[id]
		if !n.aabb.Intersects(aabb) {
			continue
		}
		if n.isLeaf() {
			if !cb(id) {
				return
			}
		} else {
			stack = append(stack, n.child1, n.child2)
		}
	}
}

// RayCastCallback returns the updated maxFraction: 0 stops the cast, the
// input's original maxFraction leaves it unchanged, any other value clips
// the ray.
type RayCastCallback func(input RayCastInput, id int) float64

// RayCast runs a conservative segment-AABB slab test at each node, pruning
// by the running maxFraction, invoking cb at leaves.
func (t *DynamicTree) RayCast(input RayCastInput, cb RayCastCallback) {
	if t.root == nullNode {
		return
	}

	p1, p2 := input.P1, input.P2
	r := p2.Sub(p1)
	assert(r.LengthSq() > 0, "degenerate ray")
	r = r.Normalize()
	v := r.Perp()
	absV := Vector{math.Abs(v.X), math.Abs(v.Y)}

	maxFraction := input.MaxFraction

	segmentAABB := AABB{
		LowerBound: MinVec(p1, p1.Add(p2.Sub(p1).Mul(maxFraction))),
		UpperBound: MaxVec(p1, p1.Add(p2.Sub(p1).Mul(maxFraction))),
	}

	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}
		n := &t.nodes[id]
		if !n.aabb.Intersects(segmentAABB) {
			continue
		}

		center := n.aabb.Center()
		extents := n.aabb.Extents()
		toCenter := center.Sub(p1)
		sep := math.Abs(v.Dot(toCenter)) - absV.Dot(extents)
		if sep > 0 {
			continue
		}

		if n.isLeaf() {
			subInput := RayCastInput{P1: input.P1, P2: input.P2, MaxFraction: maxFraction}
			f := cb(subInput, id)
			if f == 0 {
				return
			}
			if f > 0 {
				maxFraction = f
				end := p1.Add(p2.Sub(p1).Mul(maxFraction))
				segmentAABB = AABB{LowerBound: MinVec(p1, end), UpperBound: MaxVec(p1, end)}
			}
		} else {
			stack = append(stack, n.child1, n.child2)
		}
	}
}

// Validate walks the whole tree and panics if any structural invariant
// is violated.
func (t *DynamicTree) Validate() {
	if t.root == nullNode {
		return
	}
	t.validateNode(t.root)
}

func (t *DynamicTree) validateNode(id int) {
	n := &t.nodes[id]
	if n.isLeaf() {
		assert(n.height == 0, "leaf height must be 0")
		return
	}
	c1, c2 := n.child1, n.child2
	assert(t.nodes[c1].parent == id, "child1 parent mismatch")
	assert(t.nodes[c2].parent == id, "child2 parent mismatch")
	t.validateNode(c1)
	t.validateNode(c2)

	height := 1 + maxInt(t.nodes[c1].height, t.nodes[c2].height)
	assert(n.height == height, "height invariant violated")

	aabb := t.nodes[c1].aabb.Combine(t.nodes[c2].aabb)
	assert(aabb.LowerBound == n.aabb.LowerBound && aabb.UpperBound == n.aabb.UpperBound, "aabb invariant violated")
}
