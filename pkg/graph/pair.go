package graph

import "math"

// MagicPair encodes an ordered pair of node IDs into a single edge key using
// Szudzik's elegant pairing function. The encoding is order-sensitive:
// MagicPair(a, b) != MagicPair(b, a) for a != b, which the edge table relies
// on to keep directed edges distinct.
//
// The function is injective for inputs below 2^32; loaders assign node IDs
// sequentially, so realistic ontologies stay far inside that range.
func MagicPair(x, y uint64) uint64 {
	if x >= y {
		return x*x + x + y
	}
	return y*y + x
}

// MagicUnpair inverts MagicPair, recovering the ordered pair from an edge
// key. Useful for debugging edge tables.
func MagicUnpair(z uint64) (uint64, uint64) {
	q := uint64(math.Floor(math.Sqrt(float64(z))))
	l := z - q*q
	if l < q {
		return l, q
	}
	return q, l - q
}
