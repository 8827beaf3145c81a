package cover

import "algcore/internal/bitpack"

// canonicalize reorders the cubeNum cubes packed into chunk (w words
// each) into strictly descending canonical order (bitpack.Compare) and
// deletes duplicates in place, returning the new cube count.
//
// Small runs (n<=4) use a hand-coded insertion sort — allocation-free,
// no recursion — matching the source's hard-coded small-n
// specializations (spec §4.4). Larger covers use a bottom-up merge
// sort with a scratch buffer sized for the widest left run (the
// largest merge width below n, so up to n-1 cubes), skipping the merge step
// entirely when the left run's last cube already dominates the right
// run's first (spec §4.4's trivial-case test).
func canonicalize(chunk []uint64, w, n int) int {
	if n <= 1 {
		return n
	}
	if n <= 4 {
		insertionSortRange(chunk, w, 0, n)
		return dedup(chunk, w, n)
	}

	const base = 4
	for lo := 0; lo < n; lo += base {
		hi := lo + base
		if hi > n {
			hi = n
		}
		insertionSortRange(chunk, w, lo, hi)
	}

	maxLeft := base
	for maxLeft*2 < n {
		maxLeft *= 2
	}
	scratch := make([]uint64, maxLeft*w)
	for width := base; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := lo + width
			if mid >= n {
				continue // only one run in this window; already sorted
			}
			hi := lo + 2*width
			if hi > n {
				hi = n
			}
			mergeRuns(chunk, w, lo, mid, hi, scratch)
		}
	}
	return dedup(chunk, w, n)
}

func cubeSlice(chunk []uint64, w, i int) []uint64 {
	return chunk[i*w : (i+1)*w]
}

func swapCubes(chunk []uint64, w, i, j int, tmp []uint64) {
	a, b := cubeSlice(chunk, w, i), cubeSlice(chunk, w, j)
	copy(tmp, a)
	copy(a, b)
	copy(b, tmp)
}

// insertionSortRange sorts chunk's cubes over [lo,hi) into descending
// canonical order, in place.
func insertionSortRange(chunk []uint64, w, lo, hi int) {
	if hi-lo < 2 {
		return
	}
	tmp := make([]uint64, w)
	for i := lo + 1; i < hi; i++ {
		j := i
		for j > lo && bitpack.Compare(cubeSlice(chunk, w, j-1), cubeSlice(chunk, w, j)) < 0 {
			swapCubes(chunk, w, j-1, j, tmp)
			j--
		}
	}
}

// mergeRuns merges the two sorted (descending) runs [lo,mid) and
// [mid,hi) in place, using scratch (at least as long as the left run,
// which is never shorter than the right run) to hold a copy of the
// left run while interleaving.
func mergeRuns(chunk []uint64, w, lo, mid, hi int, scratch []uint64) {
	// Trivial case: the left run's last cube already dominates (or
	// equals) the right run's first — the runs are already correctly
	// ordered relative to each other, so skip the merge entirely.
	if bitpack.Compare(cubeSlice(chunk, w, mid-1), cubeSlice(chunk, w, mid)) >= 0 {
		return
	}

	leftLen := mid - lo
	left := scratch[:leftLen*w]
	copy(left, chunk[lo*w:mid*w])

	li, ri, oi := 0, mid, lo
	for li < leftLen && ri < hi {
		if bitpack.Compare(left[li*w:(li+1)*w], cubeSlice(chunk, w, ri)) >= 0 {
			copy(cubeSlice(chunk, w, oi), left[li*w:(li+1)*w])
			li++
		} else {
			copy(cubeSlice(chunk, w, oi), cubeSlice(chunk, w, ri))
			ri++
		}
		oi++
	}
	for li < leftLen {
		copy(cubeSlice(chunk, w, oi), left[li*w:(li+1)*w])
		li++
		oi++
	}
	// Any remaining right-run cubes are already at their final
	// positions: oi has tracked ri in lockstep whenever the right run
	// was the source, so once the left run is exhausted oi == ri.
}

// dedup collapses adjacent equal cubes in chunk[0:n) (already sorted
// descending), returning the surviving cube count. Merging two sorted
// runs that happen to share a cube is ordinary deduplication, not an
// error, per spec §4.4.
func dedup(chunk []uint64, w, n int) int {
	if n == 0 {
		return 0
	}
	k := 1
	for i := 1; i < n; i++ {
		if bitpack.Compare(cubeSlice(chunk, w, i), cubeSlice(chunk, w, k-1)) == 0 {
			continue
		}
		if i != k {
			copy(cubeSlice(chunk, w, k), cubeSlice(chunk, w, i))
		}
		k++
	}
	return k
}
