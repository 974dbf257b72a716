package dice

import "testing"

func TestRollBounds(t *testing.T) {
	for _, sides := range []int{1, 6, 20, 100} {
		for i := 0; i < 1000; i++ {
			got := Roll(sides)
			if got < 1 || got > sides {
				t.Fatalf("Roll(%d) = %d, out of range", sides, got)
			}
		}
	}
}

func TestRollDegenerateSides(t *testing.T) {
	for _, sides := range []int{0, -5} {
		if got := Roll(sides); got != 1 {
			t.Errorf("Roll(%d) = %d, want 1", sides, got)
		}
	}
}

func TestD20CoversRange(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		seen[D20()] = true
	}
	for v := 1; v <= 20; v++ {
		if !seen[v] {
			t.Errorf("D20 never produced %d in 10000 rolls", v)
		}
	}
}
