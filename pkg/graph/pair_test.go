package graph

import "testing"

func TestMagicPairOrderSensitive(t *testing.T) {
	t.Parallel()

	if MagicPair(2, 3) == MagicPair(3, 2) {
		t.Error("MagicPair must distinguish (a,b) from (b,a)")
	}
}

func TestMagicPairRoundTrip(t *testing.T) {
	t.Parallel()

	pairs := [][2]uint64{
		{0, 0}, {0, 1}, {1, 0}, {1, 1},
		{2, 3}, {3, 2}, {100, 200}, {200, 100},
		{12345, 67890}, {67890, 12345},
	}
	for _, p := range pairs {
		x, y := MagicUnpair(MagicPair(p[0], p[1]))
		if x != p[0] || y != p[1] {
			t.Errorf("MagicUnpair(MagicPair(%d, %d)) = (%d, %d)", p[0], p[1], x, y)
		}
	}
}

func TestMagicPairInjectiveOverSmallRange(t *testing.T) {
	t.Parallel()

	seen := make(map[uint64][2]uint64)
	for x := uint64(0); x < 50; x++ {
		for y := uint64(0); y < 50; y++ {
			key := MagicPair(x, y)
			if prev, dup := seen[key]; dup {
				t.Fatalf("collision: (%d,%d) and (%d,%d) both map to %d", x, y, prev[0], prev[1], key)
			}
			seen[key] = [2]uint64{x, y}
		}
	}
}
