package parallelism

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindMaxLegal(t *testing.T) {
	// pred true for v <= 7, false above: a prefix truth set over [0, 20].
	pred := func(v int64) bool { return v <= 7 }
	require.EqualValues(t, 7, findMaxLegal(pred, 0, 20))
}

func TestFindMaxLegal_AllTrue(t *testing.T) {
	pred := func(v int64) bool { return true }
	require.EqualValues(t, 20, findMaxLegal(pred, 0, 20))
}

func TestFindMinLegal(t *testing.T) {
	// pred true for v >= 12, false below: a suffix truth set over [0, 20].
	pred := func(v int64) bool { return v >= 12 }
	require.EqualValues(t, 12, findMinLegal(pred, 0, 20))
}

func TestFindMinLegal_AllTrue(t *testing.T) {
	pred := func(v int64) bool { return true }
	require.EqualValues(t, 0, findMinLegal(pred, 0, 20))
}

// Exercises the exact predicates legalize builds on top of countRanges.
func TestBisection_AgainstCountRanges(t *testing.T) {
	weights := []int64{10, 1, 10, 1, 10, 1, 10, 1, 10, 1}
	minW, totalW := int64(1), int64(0)
	for _, w := range weights {
		totalW += w
	}

	// find the largest limit still producing >= 8 ranges. For these weights the
	// count is 10 for every limit up to 10 and drops to 5 at 11, so l1 = 10 and
	// exactly 8 ranges are never reachable.
	l1 := findMaxLegal(func(v int64) bool { return int64(countRanges(weights, v)) >= 8 }, minW, totalW)
	require.EqualValues(t, 10, l1)
	require.EqualValues(t, 10, countRanges(weights, l1))

	pStar := int64(countRanges(weights, l1))
	l2 := findMinLegal(func(v int64) bool { return int64(countRanges(weights, v)) == pStar }, minW, l1)
	require.EqualValues(t, pStar, countRanges(weights, l2))
}
