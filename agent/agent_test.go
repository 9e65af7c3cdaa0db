package agent

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

func TestFeet(t *testing.T) {
	tests := []struct {
		pos  mgl64.Vec3
		want cube.Pos
	}{
		{mgl64.Vec3{0.5, 64, 0.5}, cube.Pos{0, 64, 0}},
		{mgl64.Vec3{-0.5, 64, -0.5}, cube.Pos{-1, 64, -1}},
		// Standing on soul sand, 0.125 below the full block.
		{mgl64.Vec3{2.5, 63.875, 2.5}, cube.Pos{2, 64, 2}},
		{mgl64.Vec3{2.5, 63.8, 2.5}, cube.Pos{2, 63, 2}},
	}
	for _, tt := range tests {
		if got := (State{Pos: tt.pos}).Feet(); got != tt.want {
			t.Errorf("feet of %v: expected %v, got %v", tt.pos, tt.want, got)
		}
	}
}
