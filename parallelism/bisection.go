package parallelism

// findMaxLegal returns the largest v in [lo, hi] with pred(v) == true,
// assuming pred's truth set is a prefix of [lo, hi] (true for small v,
// false for large v). Callers must guarantee pred(lo) == true.
func findMaxLegal(pred func(int64) bool, lo, hi int64) int64 {
	best := lo
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if pred(mid) {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

// findMinLegal returns the smallest v in [lo, hi] with pred(v) == true,
// assuming pred's truth set is a suffix of [lo, hi] (false for small v,
// true for large v). Callers must guarantee pred(hi) == true.
func findMinLegal(pred func(int64) bool, lo, hi int64) int64 {
	best := hi
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if pred(mid) {
			best = mid
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return best
}
