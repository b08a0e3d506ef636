package tree

var _ RBNode[int, int] = (*rbNode[int, int])(nil)

// index maps Left to 0 and Right to 1.
func (dir RBDirection) index() int {
	return int(dir+1) >> 1
}

func (dir RBDirection) opposite() RBDirection {
	return -dir
}

type rbNode[K any, V any] struct {
	parent   *rbNode[K, V]
	children [2]*rbNode[K, V]
	key      K
	val      V
	color    RBColor
}

func (node *rbNode[K, V]) Color() RBColor {
	if node == nil {
		return Undefined
	}
	return node.color
}

func (node *rbNode[K, V]) Key() (key K) {
	if node == nil {
		return
	}
	return node.key
}

func (node *rbNode[K, V]) Val() (val V) {
	if node == nil {
		return
	}
	return node.val
}

// Left, Right and Parent return an untyped nil instead of
// a typed nil pointer wrapped into the interface.

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.children[0] == nil {
		return nil
	}
	return node.children[0]
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.children[1] == nil {
		return nil
	}
	return node.children[1]
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) child(dir RBDirection) *rbNode[K, V] {
	return node.children[dir.index()]
}

// setChild links both directions, a nil child only clears the slot.
func (node *rbNode[K, V]) setChild(dir RBDirection, child *rbNode[K, V]) {
	node.children[dir.index()] = child
	if child != nil {
		child.parent = node
	}
}

func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

// Nil leaves are black.
func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K, V]) direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.parent == nil {
		return Root
	}
	if node == node.parent.children[0] {
		return Left
	}
	return Right
}

// extreme returns the last node by walking dir from the node.
func (node *rbNode[K, V]) extreme(dir RBDirection) *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.child(dir) != nil; aux = aux.child(dir) {
	}
	return aux
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	return node.extreme(Left)
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	return node.extreme(Right)
}

// neighbor is the succ (dir is Right) or the pred (dir is Left) in sorted order.
// If the node has a subtree on dir side, the neighbor is the opposite
// extreme of that subtree. Otherwise, backtrack while the node is the
// dir child of its parent, the first parent reached from the other side
// is the neighbor. Nil means there is no neighbor.
func (node *rbNode[K, V]) neighbor(dir RBDirection) *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}

	if sub := x.child(dir); sub != nil {
		return sub.extreme(dir.opposite())
	}

	aux := x.parent
	for aux != nil && x == aux.child(dir) {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *rbNode[K, V]) pred() *rbNode[K, V] {
	return node.neighbor(Left)
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[K, V]) succ() *rbNode[K, V] {
	return node.neighbor(Right)
}

func (node *rbNode[K, V]) height() int {
	if node == nil {
		return 0
	}
	return 1 + max(node.children[0].height(), node.children[1].height())
}

func (node *rbNode[K, V]) detach() {
	var (
		zeroK K
		zeroV V
	)
	node.parent = nil
	node.children = [2]*rbNode[K, V]{}
	node.key, node.val = zeroK, zeroV
}
