package tree

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRBIterator(t *testing.T) {
	testcases := []struct {
		name     string
		keys     []int
		reverse  bool
		expected []int
	}{
		{
			name:     "empty",
			keys:     []int{},
			expected: []int{},
		},
		{
			name:     "single",
			keys:     []int{1},
			expected: []int{1},
		},
		{
			name:     "ascending",
			keys:     []int{5, 3, 8, 1, 4, 7, 9, 2, 6},
			expected: lo.RangeFrom(1, 9),
		},
		{
			name:     "descending",
			keys:     []int{5, 3, 8, 1, 4, 7, 9, 2, 6},
			reverse:  true,
			expected: lo.Reverse(lo.RangeFrom(1, 9)),
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewOrderedRBTree[int, int]()
			for _, k := range tc.keys {
				require.NoError(tt, tree.Insert(k, k*k))
			}
			iter := tree.Iterator()
			if tc.reverse {
				iter = tree.ReverseIterator()
			}
			got := make([]int, 0, len(tc.keys))
			for iter.HasNext() {
				require.NoError(tt, iter.Next())
				require.Equal(tt, iter.Key()*iter.Key(), iter.Val())
				got = append(got, iter.Key())
			}
			require.Equal(tt, tc.expected, got)

			require.False(tt, iter.HasNext())
			require.ErrorIs(tt, iter.Next(), ErrRBIteratorExhausted)
			require.Equal(tt, 0, iter.Key())
			require.Equal(tt, 0, iter.Val())
		})
	}
}

func TestRBIterator_BeforeNext(t *testing.T) {
	tree := NewOrderedRBTree[string, string]()
	require.NoError(t, tree.Insert("k", "v"))
	iter := tree.Iterator()
	require.True(t, iter.HasNext())
	require.Equal(t, "", iter.Key())
	require.Equal(t, "", iter.Val())
	require.NoError(t, iter.Next())
	require.Equal(t, "k", iter.Key())
	require.Equal(t, "v", iter.Val())
}

func TestRBIterator_Invalidated(t *testing.T) {
	tree := NewOrderedRBTree[int, int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, tree.Insert(i, i))
	}

	iter := tree.Iterator()
	require.NoError(t, iter.Next())
	require.Equal(t, 0, iter.Key())
	require.NoError(t, tree.Insert(100, 100))
	require.False(t, iter.HasNext())
	require.ErrorIs(t, iter.Next(), ErrRBIteratorInvalidated)
	require.Equal(t, 0, iter.Key())

	iter = tree.ReverseIterator()
	_, err := tree.RemoveMax()
	require.NoError(t, err)
	require.ErrorIs(t, iter.Next(), ErrRBIteratorInvalidated)

	iter = tree.Iterator()
	tree.Release()
	require.ErrorIs(t, iter.Next(), ErrRBIteratorInvalidated)

	// failed mutations never invalidate.
	require.NoError(t, tree.Insert(1, 1))
	iter = tree.Iterator()
	require.ErrorIs(t, tree.InsertIfAbsent(1, 2), ErrRBTreeKeyExists)
	_, err = tree.Remove(2)
	require.ErrorIs(t, err, ErrRBTreeKeyNotFound)
	_, err = tree.Search(1)
	require.NoError(t, err)
	require.True(t, iter.HasNext())
	require.NoError(t, iter.Next())
	require.Equal(t, 1, iter.Key())
}

func TestRBIterator_Duplicates(t *testing.T) {
	tree := NewOrderedRBTree[int, string]()
	for _, v := range []string{"a", "b", "c", "d"} {
		require.NoError(t, tree.Insert(1, v))
	}
	require.NoError(t, tree.Insert(0, "z"))

	got := make([]string, 0, 5)
	for iter := tree.Iterator(); iter.HasNext(); {
		require.NoError(t, iter.Next())
		got = append(got, iter.Val())
	}
	require.Equal(t, []string{"z", "a", "b", "c", "d"}, got)

	got = got[:0]
	for iter := tree.ReverseIterator(); iter.HasNext(); {
		require.NoError(t, iter.Next())
		got = append(got, iter.Val())
	}
	require.Equal(t, []string{"d", "c", "b", "a", "z"}, got)
}
