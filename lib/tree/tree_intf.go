package tree

import "errors"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	// Undefined is only reported by an absent (nil) node.
	Undefined RBColor = iota
	Black
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var (
	ErrRBTreeInvalidArgument = errors.New("[rbtree] invalid argument")
	ErrRBTreeKeyNotFound     = errors.New("[rbtree] key not found")
	ErrRBTreeKeyExists       = errors.New("[rbtree] key exists")
	ErrRBTreeEmpty           = errors.New("[rbtree] empty element to remove")
	ErrRBIteratorExhausted   = errors.New("[rbtree] iterator exhausted")
	ErrRBIteratorInvalidated = errors.New("[rbtree] iterator invalidated by tree mutation")
)

// RBNode is the read only view of a tree vertex.
// All getters are safe on an absent node, they return
// zero key and value, Undefined color and nil relatives.
type RBNode[K any, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBTreeStats are loaded atomically, so they are
// the only part of the tree safe to read from another
// goroutine (metrics exporters).
type RBTreeStats struct {
	Nodes     int64
	Inserts   int64
	Removes   int64
	Rotations int64
}

// RBTree is not thread safe.
// A single owner or an external lock is required.
type RBTree[K any, V any] interface {
	Len() int64
	Height() int
	Root() RBNode[K, V]
	Stats() RBTreeStats
	// Insert never deduplicates, an equal key is placed
	// on the right side of the existing ones.
	Insert(key K, val V) error
	// InsertIfAbsent returns ErrRBTreeKeyExists if an equal key is present.
	InsertIfAbsent(key K, val V) error
	// Search returns ErrRBTreeKeyNotFound if the descent reaches a nil leaf.
	Search(key K) (V, error)
	Contains(key K) bool
	Min() (RBNode[K, V], bool)
	Max() (RBNode[K, V], bool)
	// Remove returns a detached copy of the removed entry.
	Remove(key K) (RBNode[K, V], error)
	RemoveMin() (RBNode[K, V], error)
	RemoveMax() (RBNode[K, V], error)
	Iterator() RBIterator[K, V]
	ReverseIterator() RBIterator[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	// Release drops every node, children before parent.
	// The tree is empty and reusable afterward.
	Release()
}

// RBIterator walks the tree by parent links without auxiliary storage.
// Key and Val are valid after a successful Next.
// Any tree mutation after the iterator creation invalidates it.
type RBIterator[K any, V any] interface {
	HasNext() bool
	Next() error
	Key() K
	Val() V
}
