package path

import (
	"reflect"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/internal"
	"github.com/oomph-ac/pathing/movement"
)

// Splice joins second onto the end of first. Both paths must share a goal and second must start where
// first ends. If first passes through a position of second before its end, the joined path takes the
// shortcut from there, but only when allowOverlap is set. The boolean is false if the paths cannot
// be joined.
func Splice(first, second *Path, allowOverlap bool) (*Path, bool) {
	if first == nil || second == nil {
		return nil, false
	}
	if !sameGoal(first.goal, second.goal) || first.Dest() != second.Start() {
		return nil, false
	}

	inSecond := internal.PositionSet()
	defer internal.ReleasePositionSet(inSecond)
	for _, pos := range second.positions {
		inSecond[pos] = struct{}{}
	}

	// The last position of first is always in second, so only earlier ones count as overlap.
	join := -1
	for i := 0; i < first.Len()-1; i++ {
		if _, ok := inSecond[first.positions[i]]; ok {
			join = i
			break
		}
	}
	if join != -1 && !allowOverlap {
		return nil, false
	}
	if join == -1 {
		join = first.Len() - 1
	}
	at := indexOf(second.positions, first.positions[join])

	positions := make([]cube.Pos, 0, join+1+second.Len()-at-1)
	positions = append(positions, first.positions[:join+1]...)
	positions = append(positions, second.positions[at+1:]...)

	movements := make([]*movement.Movement, 0, len(positions)-1)
	movements = append(movements, first.movements[:join]...)
	movements = append(movements, second.movements[at:]...)

	return &Path{positions: positions, movements: movements, goal: first.goal, numNodes: first.numNodes + second.numNodes}, true
}

func indexOf(positions []cube.Pos, pos cube.Pos) int {
	for i, p := range positions {
		if p == pos {
			return i
		}
	}
	return -1
}

// sameGoal compares goals by value. Composite goals hold slices, so == would panic on them.
func sameGoal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
