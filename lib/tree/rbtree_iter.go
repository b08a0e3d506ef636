package tree

var _ RBIterator[int, int] = (*rbIterator[int, int])(nil)

type rbIterator[K any, V any] struct {
	tree    *rbTree[K, V]
	current *rbNode[K, V]
	next    *rbNode[K, V]
	version uint64
	reverse bool
}

func newRBIterator[K any, V any](tree *rbTree[K, V], reverse bool) *rbIterator[K, V] {
	iter := &rbIterator[K, V]{
		tree:    tree,
		version: tree.version,
		reverse: reverse,
	}
	if reverse {
		iter.next = tree.root.maximum()
	} else {
		iter.next = tree.root.minimum()
	}
	return iter
}

func (iter *rbIterator[K, V]) HasNext() bool {
	return iter.version == iter.tree.version && iter.next != nil
}

func (iter *rbIterator[K, V]) Next() error {
	if iter.version != iter.tree.version {
		iter.current, iter.next = nil, nil
		return ErrRBIteratorInvalidated
	}
	if iter.next == nil {
		iter.current = nil
		return ErrRBIteratorExhausted
	}
	iter.current = iter.next
	if iter.reverse {
		iter.next = iter.current.pred()
	} else {
		iter.next = iter.current.succ()
	}
	return nil
}

func (iter *rbIterator[K, V]) Key() K {
	return iter.current.Key()
}

func (iter *rbIterator[K, V]) Val() V {
	return iter.current.Val()
}
