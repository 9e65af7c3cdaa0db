package cost

import (
	"math"
	"testing"
)

// ticksToBlocks integrates Velocity over the given fractional tick count.
func ticksToBlocks(ticks float64) float64 {
	whole := int(math.Floor(ticks))
	var dist float64
	for tick := 0; tick < whole; tick++ {
		dist += Velocity(tick)
	}
	return dist + Velocity(whole)*(ticks-math.Floor(ticks))
}

func TestFallTableRoundTrip(t *testing.T) {
	if len(FallNBlocks) != 4097 {
		t.Fatalf("expected 4097 fall entries, got %d", len(FallNBlocks))
	}
	for n, ticks := range FallNBlocks {
		if blocks := ticksToBlocks(ticks); math.Abs(blocks-float64(n)) > 1e-11 {
			t.Fatalf("fall %d blocks: round trip gave %.15f", n, blocks)
		}
	}
}

func TestFallTableMonotonic(t *testing.T) {
	for n := 1; n < FallTableSize; n++ {
		if FallNBlocks[n] <= FallNBlocks[n-1] {
			t.Fatalf("fall table not increasing at %d: %v <= %v", n, FallNBlocks[n], FallNBlocks[n-1])
		}
	}
}

func TestNamedConstants(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"fall 1.25", Fall125Blocks, 6.2344},
		{"fall 0.25", Fall025Blocks, 3.0710},
		{"jump one block", JumpOneBlock, 3.1634},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 0.0001 {
			t.Errorf("%s: expected %.4f, got %.6f", tt.name, tt.want, tt.got)
		}
	}
}

func TestFallSaturates(t *testing.T) {
	if Fall(4097) != Inf || Fall(-1) != Inf {
		t.Fatalf("expected out-of-table falls to saturate to Inf")
	}
	if Fall(0) != 0 {
		t.Fatalf("expected falling zero blocks to cost nothing, got %v", Fall(0))
	}
}

func TestBreakTicks(t *testing.T) {
	if BreakTicks(-1, 1) != Inf {
		t.Fatalf("unbreakable blocks should cost Inf")
	}
	if BreakTicks(0, 1) != 1 {
		t.Fatalf("instant blocks should take a single tick")
	}
	if got := BreakTicks(1.5, 1); got != 45 {
		t.Fatalf("expected stone to take 45 ticks by hand, got %v", got)
	}
	if got := BreakTicks(1.5, 6); got >= BreakTicks(1.5, 1) {
		t.Fatalf("a faster tool should break quicker, got %v", got)
	}
}
