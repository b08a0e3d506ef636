package infra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplexCompare(t *testing.T) {
	var c1 complex128 = complex(1.0, 2.0) // 1.0+2.0i
	var c2 complex128 = complex(1.1, 2.0) // 1.1+2.0i
	_c1 := math.Hypot(real(c1), imag(c1))
	_c2 := math.Hypot(real(c2), imag(c2))
	assert.Greater(t, _c2, _c1)
}

func TestOrderedKeyCompare(t *testing.T) {
	type testcase struct {
		name     string
		i, j     float64
		expected int64
	}
	testcases := []testcase{
		{name: "less", i: 1, j: 2, expected: -1},
		{name: "equal", i: 2, j: 2, expected: 0},
		{name: "greater", i: 3, j: 2, expected: 1},
		{name: "nan less", i: math.NaN(), j: -1, expected: -1},
		{name: "nan equal", i: math.NaN(), j: math.NaN(), expected: 0},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			require.Equal(tt, tc.expected, OrderedKeyCompare(tc.i, tc.j))
		})
	}

	require.Less(t, OrderedKeyCompare("abc", "abd"), int64(0))
	require.Greater(t, OrderedKeyCompare[uint8]('b', 'a'), int64(0))
}

func TestReverseComparator(t *testing.T) {
	require.Nil(t, ReverseComparator[int](nil))

	desc := ReverseComparator[int](OrderedKeyCompare[int])
	require.Equal(t, int64(1), desc(1, 2))
	require.Equal(t, int64(0), desc(2, 2))
	require.Equal(t, int64(-1), desc(3, 2))
}
