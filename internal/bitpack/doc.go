// Package bitpack implements the packed-bit-vector primitives a single
// cube is built on: two bits per variable, word-parallel set/clear,
// product, quotient, cofactor, containment, intersection, compare, and
// literal counting.
//
// Encoding (fixed project-wide, chosen in DESIGN.md): each variable
// occupies a 2-bit pattern —
//
//	00  don't-appear (X)
//	01  positive literal
//	10  negative literal
//	11  conflict — never legal in a live cube
//
// 32 variables pack into one uint64 word, most-significant pair first,
// so that word-by-word, then bit-by-bit, unsigned comparison of the
// word slice matches left-to-right variable order. That property is
// the entire basis of the canonical cover order in package cover.
package bitpack

// VarsPerWord is the number of variables packed into a single uint64
// word (two bits each).
const VarsPerWord = 32

// NumWords returns the word count needed to hold n variables.
func NumWords(n int) int {
	return (n + VarsPerWord - 1) / VarsPerWord
}

// shift returns the bit offset of the low bit of variable v's pattern
// within its word.
func shift(v int) uint {
	i := v % VarsPerWord
	return 2 * uint(VarsPerWord-1-i)
}

func wordIndex(v int) int {
	return v / VarsPerWord
}
