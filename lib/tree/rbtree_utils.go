package tree

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"go.uber.org/multierr"

	"github.com/SamJulson/RBTree/lib/infra"
)

var (
	ErrRBTreeRedViolation    = errors.New("rbtree red violation")
	ErrRBTreeBlackViolation  = errors.New("rbtree black violation")
	ErrRBTreeRootViolation   = errors.New("rbtree root is not black")
	ErrRBTreeOrderViolation  = errors.New("rbtree inorder sequence is not sorted")
	ErrRBTreeHeightViolation = errors.New("rbtree height exceeds 2*log2(n+1)")
)

func isNillableKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return true
	default:
	}
	return false
}

// isNillable reports whether a T is able to hold nil.
// Slices are values here, a nil slice is an empty one.
func isNillable[T any]() bool {
	return isNillableKind(reflect.TypeFor[T]().Kind())
}

// isAbsent reports the nil-able kinds holding nil.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return isNillableKind(rv.Kind()) && rv.IsNil()
}

func isBlack[K any, V any](node RBNode[K, V]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K any, V any](node RBNode[K, V]) bool {
	return node != nil && node.Color() == Red
}

func blackDepthTo[K any, V any](target, to RBNode[K, V]) int {
	depth := 0
	for aux := target; aux != nil; aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
		if aux == to {
			break
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate that no red node has a red child.
func RedViolationValidate[K any, V any](tree RBTree[K, V]) error {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode[K, V], 0, size>>1+1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; isRed[K, V](aux) {
			if isRed[K, V](aux.Left()) || isRed[K, V](aux.Right()) {
				return fmt.Errorf("%w: red node with red child", ErrRBTreeRedViolation)
			}
		}

		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load all nodes owning at least one nil leaf.
func bfsLeaves[K any, V any](tree RBTree[K, V]) []RBNode[K, V] {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	leaves := make([]RBNode[K, V], 0, size>>1+1)
	queue := make([]RBNode[K, V], 0, size>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K any, V any](tree RBTree[K, V]) error {
	leaves := bfsLeaves[K, V](tree)
	if leaves == nil {
		return nil
	}

	root := tree.Root()
	blackDepth := blackDepthTo[K, V](leaves[0], root)
	for i := 1; i < len(leaves); i++ {
		if depth := blackDepthTo[K, V](leaves[i], root); depth != blackDepth {
			return fmt.Errorf("%w: black depth %d and %d", ErrRBTreeBlackViolation, blackDepth, depth)
		}
	}
	return nil
}

func RootColorValidate[K any, V any](tree RBTree[K, V]) error {
	if root := tree.Root(); root != nil && root.Color() != Black {
		return fmt.Errorf("%w: %s", ErrRBTreeRootViolation, root.Color())
	}
	return nil
}

// OrderValidate checks the inorder keys against cmp, equal keys are allowed.
// A descending tree has to be checked by the reversed comparator.
func OrderValidate[K any, V any](tree RBTree[K, V], cmp infra.Comparator[K]) error {
	if cmp == nil {
		return ErrRBTreeInvalidArgument
	}

	var (
		prev    K
		hasPrev bool
		err     error
	)
	tree.Foreach(func(idx int64, color RBColor, key K, val V) bool {
		if hasPrev && cmp(prev, key) > 0 {
			err = fmt.Errorf("%w: at index %d", ErrRBTreeOrderViolation, idx)
			return false
		}
		prev, hasPrev = key, true
		return true
	})
	return err
}

func HeightValidate[K any, V any](tree RBTree[K, V]) error {
	n := tree.Len()
	h := tree.Height()
	if float64(h) > 2*math.Log2(float64(n+1)) {
		return fmt.Errorf("%w: height %d with %d nodes", ErrRBTreeHeightViolation, h, n)
	}
	return nil
}

// Validate runs all the rbtree property validations and
// collects every violation.
func Validate[K any, V any](tree RBTree[K, V], cmp infra.Comparator[K]) error {
	return multierr.Combine(
		RootColorValidate[K, V](tree),
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
		OrderValidate[K, V](tree, cmp),
		HeightValidate[K, V](tree),
	)
}
