package tree

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/SamJulson/RBTree/lib/infra"
	"github.com/SamJulson/RBTree/xlog"
)

var _ RBTree[int, int] = (*rbTree[int, int])(nil)

type rbTreeStats struct {
	count     atomic.Int64
	inserts   atomic.Int64
	removes   atomic.Int64
	rotations atomic.Int64
}

type rbTree[K any, V any] struct {
	root   *rbNode[K, V]
	cmp    infra.Comparator[K]
	logger xlog.XLogger
	stats  rbTreeStats
	// version is increased by every structural mutation,
	// iterators compare it to detect that they are stale.
	version        uint64
	isDesc         bool
	isRmBorrowSucc bool
	// Resolved once by K and V, non-nillable types skip the absence check.
	isKeyNillable bool
	isValNillable bool
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.stats.count.Load()
}

func (tree *rbTree[K, V]) Height() int {
	return tree.root.height()
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *rbTree[K, V]) Stats() RBTreeStats {
	return RBTreeStats{
		Nodes:     tree.stats.count.Load(),
		Inserts:   tree.stats.inserts.Load(),
		Removes:   tree.stats.removes.Load(),
		Rotations: tree.stats.rotations.Load(),
	}
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// The longest path nodes' number is 2 * shortest path nodes' number.

// replaceChild attaches n to the slot of p at dir, or to the root if p is nil.
func (tree *rbTree[K, V]) replaceChild(p *rbNode[K, V], dir RBDirection, n *rbNode[K, V]) {
	if p == nil {
		tree.root = n
		if n != nil {
			n.parent = nil
		}
		return
	}
	p.setChild(dir, n)
}

/*
rotate(X, Left) is the left rotation, X moves down to the left
and its right child S rises.

		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc

rotate(S, Right) is the mirror.
*/
func (tree *rbTree[K, V]) rotate(x *rbNode[K, V], dir RBDirection) {
	if dir != Left && dir != Right {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown rotate direction " + dir.String())
	}
	if x == nil || x.child(dir.opposite()) == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate node x is nil or x's rising child is nil")
	}

	y := x.child(dir.opposite())
	p, xDir := x.parent, x.direction()
	x.setChild(dir.opposite(), y.child(dir))
	y.setChild(dir, x)
	tree.replaceChild(p, xDir, y)
	tree.stats.rotations.Add(1)
}

func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	tree.rotate(x, Left)
}

func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	tree.rotate(x, Right)
}

func (tree *rbTree[K, V]) checkKeyVal(op string, key K, val V) error {
	if tree.isKeyNillable && isAbsent(key) {
		err := infra.WrapErrorStack(fmt.Errorf("%w: %s with absent key", ErrRBTreeInvalidArgument, op))
		tree.logger.Debug("[rbtree] argument rejected", zap.Error(err))
		return err
	}
	if tree.isValNillable && isAbsent(val) {
		err := infra.WrapErrorStack(fmt.Errorf("%w: %s with absent value", ErrRBTreeInvalidArgument, op))
		tree.logger.Debug("[rbtree] argument rejected", zap.Error(err))
		return err
	}
	return nil
}

func (tree *rbTree[K, V]) checkKey(op string, key K) error {
	if tree.isKeyNillable && isAbsent(key) {
		err := infra.WrapErrorStack(fmt.Errorf("%w: %s with absent key", ErrRBTreeInvalidArgument, op))
		tree.logger.Debug("[rbtree] argument rejected", zap.Error(err))
		return err
	}
	return nil
}

func (tree *rbTree[K, V]) Insert(key K, val V) error {
	if err := tree.checkKeyVal("insert", key, val); err != nil {
		return err
	}
	tree.insert(key, val)
	return nil
}

func (tree *rbTree[K, V]) InsertIfAbsent(key K, val V) error {
	if err := tree.checkKeyVal("insert", key, val); err != nil {
		return err
	}
	if tree.search(key) != nil {
		return ErrRBTreeKeyExists
	}
	tree.insert(key, val)
	return nil
}

// i1: Empty rbtree, the new node becomes the root directly
// and it is painted black by the rebalance.
// i2: Otherwise, descend by the comparator (less to left,
// greater or equal to right) until a nil leaf, then attach
// a red node there.
func (tree *rbTree[K, V]) insert(key K, val V) *rbNode[K, V] {
	z := &rbNode[K, V]{
		key:   key,
		val:   val,
		color: Red,
	}

	var y *rbNode[K, V]
	dir := Root
	for x := tree.root; x != nil; x = x.child(dir) {
		y = x
		if /* less */ tree.cmp(key, x.key) < 0 {
			dir = Left
		} else /* greater or equal */ {
			dir = Right
		}
	}
	tree.replaceChild(y, dir, z)

	tree.stats.count.Add(1)
	tree.stats.inserts.Add(1)
	tree.version++
	tree.insertRebalance(z)
	return z
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: Current node X's parent P is black, hold p3 and p4.

im2: Current node X's parent P is red and P is root, repaint P into black.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation, it is still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

Finally, the root is always repainted into black.
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	for /* im1 */ x.parent.isRed() {
		p := x.parent
		gp := p.parent
		if /* im2 */ gp == nil {
			p.color = Black
			break
		}

		pDir := p.direction()
		if /* im3 */ uncle := gp.child(pDir.opposite()); uncle.isRed() {
			p.color, uncle.color = Black, Black
			gp.color = Red
			x = gp
			continue
		}

		if /* im4 */ x.direction() != pDir {
			tree.rotate(p, pDir)
			x, p = p, x
		}

		/* im5 */
		tree.rotate(gp, pDir.opposite())
		p.color, gp.color = Black, Red
		break
	}
	tree.root.color = Black
}

func (tree *rbTree[K, V]) search(key K) *rbNode[K, V] {
	for aux := tree.root; aux != nil; {
		res := tree.cmp(key, aux.key)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			aux = aux.child(Left)
		} else /* greater */ {
			aux = aux.child(Right)
		}
	}
	return nil
}

func (tree *rbTree[K, V]) Search(key K) (val V, err error) {
	if err = tree.checkKey("search", key); err != nil {
		return val, err
	}
	node := tree.search(key)
	if node == nil {
		return val, ErrRBTreeKeyNotFound
	}
	return node.val, nil
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	if tree.isKeyNillable && isAbsent(key) {
		return false
	}
	return tree.search(key) != nil
}

func (tree *rbTree[K, V]) Min() (RBNode[K, V], bool) {
	if tree.root == nil {
		return nil, false
	}
	return tree.root.minimum(), true
}

func (tree *rbTree[K, V]) Max() (RBNode[K, V], bool) {
	if tree.root == nil {
		return nil, false
	}
	return tree.root.maximum(), true
}

/*
r1: Only a root node, remove directly.

r2: Current node Z has left and right node.
Find node Z's pred or succ (Y) to replace it to be removed.
Swap the key and value only. Y has one child at most.

Find pred:

	  |                    |
	  Z                    Y
	 / \                  / \
	L  ..   swap(Z, Y)   L  ..
	 \      =========>    \
	  Y                    Z

r3: (1) Y is a red leaf node, unlink directly.

r3: (2) Y is a black leaf node, rebalance before unlink because
the path loses a black node. (black-violation)

r4: Y is not a leaf node but contains a not nil child node.
The child node must be a red node (see conclusion).
Replace Y by its child and repaint the child into black.
*/
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) RBNode[K, V] {
	res := &rbNode[K, V]{
		key:   z.key,
		val:   z.val,
		color: z.color,
	}

	y := z
	if /* r2 */ z.child(Left) != nil && z.child(Right) != nil {
		if tree.isRmBorrowSucc {
			y = z.succ()
		} else {
			y = z.pred()
		}
		z.key, z.val = y.key, y.val
	}

	replace := y.child(Left)
	if replace == nil {
		replace = y.child(Right)
	}

	if /* r4 */ replace != nil {
		if y.isRed() || replace.isBlack() {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] single child node must be black with a red child, violate (r4)")
		}
		tree.replaceChild(y.parent, y.direction(), replace)
		replace.color = Black
	} else if /* r1 */ y.parent == nil {
		tree.root = nil
	} else /* r3 */ {
		if /* r3 (2) */ y.isBlack() {
			tree.removeRebalance(y)
		}
		y.parent.setChild(y.direction(), nil)
	}
	y.detach()

	tree.stats.count.Add(-1)
	tree.stats.removes.Add(1)
	tree.version++
	return res
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node (near nephew).
Sd is the opposite direction to X and it X's sibling's child node (far nephew).

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
Rotate P to the X side, repaint S into black, P into red.
Then X has a black sibling, enter rm2-rm5.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Current node X's parent P is red, the sibling S, nephew node Sc and Sd
is black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: All of current node X's parent P, the sibling S, nephew node Sc and Sd
are black.
Paint the S into red to satisfy p4 locally. Then recursive to handle P.

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color.
Rotate S away from X, repaint S into red, Sc into black.
Enter into rm5 to fix.

	  {P}                   {P}
	  / \    r-rotate(S)    / \
	[X] [S]  ==========>  [X] [Sc]
	    / \                     \
	  <Sc> [Sd]                 <S>
	                              \
	                              [Sd]

rm5: Current node X's sibling S is black and far nephew Sd is red.
Rotate P to the X side, S takes P's color, P and Sd are repainted into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) removeRebalance(x *rbNode[K, V]) {
	for x != tree.root && x.isBlack() {
		dir := x.direction()
		p := x.parent
		s := p.child(dir.opposite())
		if /* rm1 */ s.isRed() {
			tree.rotate(p, dir)
			s.color, p.color = Black, Red
			s = p.child(dir.opposite())
		}

		sc, sd := s.child(dir), s.child(dir.opposite())
		if /* rm2, rm3 */ sc.isBlack() && sd.isBlack() {
			s.color = Red
			x = p
			continue
		}

		if /* rm4 */ sd.isBlack() {
			tree.rotate(s, dir.opposite())
			sc.color, s.color = Black, Red
			s = p.child(dir.opposite())
			sd = s.child(dir.opposite())
		}

		/* rm5 */
		tree.rotate(p, dir)
		s.color, p.color = p.color, Black
		sd.color = Black
		x = tree.root
	}
	x.color = Black
}

// Remove removes the first node reached by the descent of key.
func (tree *rbTree[K, V]) Remove(key K) (RBNode[K, V], error) {
	if err := tree.checkKey("remove", key); err != nil {
		return nil, err
	}
	if tree.stats.count.Load() <= 0 {
		return nil, ErrRBTreeEmpty
	}
	z := tree.search(key)
	if z == nil {
		return nil, ErrRBTreeKeyNotFound
	}
	return tree.removeNode(z), nil
}

func (tree *rbTree[K, V]) RemoveMin() (RBNode[K, V], error) {
	if tree.stats.count.Load() <= 0 || tree.root == nil {
		return nil, ErrRBTreeEmpty
	}
	return tree.removeNode(tree.root.minimum()), nil
}

func (tree *rbTree[K, V]) RemoveMax() (RBNode[K, V], error) {
	if tree.stats.count.Load() <= 0 || tree.root == nil {
		return nil, ErrRBTreeEmpty
	}
	return tree.removeNode(tree.root.maximum()), nil
}

func (tree *rbTree[K, V]) Iterator() RBIterator[K, V] {
	return newRBIterator(tree, false)
}

func (tree *rbTree[K, V]) ReverseIterator() RBIterator[K, V] {
	return newRBIterator(tree, true)
}

// Inorder traversal by the succ links.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	if action == nil {
		return
	}
	idx := int64(0)
	for aux := tree.root.minimum(); aux != nil; aux = aux.succ() {
		if !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
	}
}

// Release postorder traversal by the parent links.
// Descend to a node without children, detach it from its parent,
// then back to the parent. Each node is released once and never
// after its children.
func (tree *rbTree[K, V]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	released := int64(0)
	for aux != nil {
		if l := aux.child(Left); l != nil {
			aux = l
			continue
		}
		if r := aux.child(Right); r != nil {
			aux = r
			continue
		}
		p := aux.parent
		if p != nil {
			p.setChild(aux.direction(), nil)
		}
		aux.detach()
		released++
		aux = p
	}
	tree.stats.count.Add(-released)
	tree.version++
	tree.logger.Debug("[rbtree] released", zap.Int64("nodes", released))
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

// WithRBTreeDesc reverses the comparator, the iteration becomes descending.
func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeRemoveBorrowSucc removes a node with two children
// by borrowing its succ instead of its pred.
func WithRBTreeRemoveBorrowSucc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isRmBorrowSucc = true
	}
}

func WithRBTreeLogger[K any, V any](logger xlog.XLogger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger
		}
	}
}

func newRBTree[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	tree := &rbTree[K, V]{
		cmp:            cmp,
		logger:         xlog.NewNopXLogger(),
		isDesc:         false,
		isRmBorrowSucc: false,
		isKeyNillable:  isNillable[K](),
		isValNillable:  isNillable[V](),
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.isDesc {
		tree.cmp = infra.ReverseComparator(cmp)
	}
	return tree
}

// NewRBTree never synthesizes an order, the comparator is required.
func NewRBTree[K any, V any](cmp infra.Comparator[K], opts ...RBTreeOpt[K, V]) (RBTree[K, V], error) {
	if cmp == nil {
		return nil, infra.WrapErrorStack(fmt.Errorf("%w: nil comparator", ErrRBTreeInvalidArgument))
	}
	return newRBTree[K, V](cmp, opts...), nil
}

func NewOrderedRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](infra.OrderedKeyCompare[K], opts...)
}
