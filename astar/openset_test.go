package astar

import (
	"math/rand"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
)

func nodeWithCost(i int, c float64) *PathNode {
	n := newNode(cube.Pos{i, 0, 0}, 0)
	n.Combined = c
	return n
}

func TestOpenSetOrdering(t *testing.T) {
	s := NewOpenSet()
	r := rand.New(rand.NewSource(1))
	nodes := make([]*PathNode, 0, 500)
	for i := 0; i < 500; i++ {
		n := nodeWithCost(i, r.Float64()*1000)
		nodes = append(nodes, n)
		s.Insert(n)
	}
	// Move some nodes up and some down.
	for i := 0; i < 100; i++ {
		n := nodes[r.Intn(len(nodes))]
		n.Combined = r.Float64() * 1000
		s.Update(n)
	}

	last := -1.0
	for !s.Empty() {
		if s.Peek().Combined < last {
			t.Fatalf("peek returned %v after %v", s.Peek().Combined, last)
		}
		n := s.RemoveLowest()
		if n.Combined < last {
			t.Fatalf("removed %v after %v", n.Combined, last)
		}
		if n.Open() {
			t.Fatalf("removed node still reports itself as open")
		}
		last = n.Combined
	}
}

func TestOpenSetGrows(t *testing.T) {
	s := NewOpenSet()
	const count = initialCapacity*3 + 7
	for i := count; i > 0; i-- {
		s.Insert(nodeWithCost(i, float64(i)))
	}
	if s.Len() != count {
		t.Fatalf("expected %d nodes, got %d", count, s.Len())
	}
	for i := 1; i <= count; i++ {
		if n := s.RemoveLowest(); n.Combined != float64(i) {
			t.Fatalf("expected cost %d, got %v", i, n.Combined)
		}
	}
}

func TestOpenSetClear(t *testing.T) {
	s := NewOpenSet()
	nodes := []*PathNode{nodeWithCost(0, 3), nodeWithCost(1, 1), nodeWithCost(2, 2)}
	for _, n := range nodes {
		s.Insert(n)
	}
	s.Clear()
	if s.Len() != 0 || !s.Empty() {
		t.Fatalf("expected empty set after clear")
	}
	for _, n := range nodes {
		if n.Open() {
			t.Fatalf("node %v still reports itself as open", n.Pos)
		}
	}
	s.Insert(nodes[0])
	if s.Peek() != nodes[0] {
		t.Fatalf("expected set to be usable after clear")
	}
}

func TestOpenSetEmptyPanics(t *testing.T) {
	for name, f := range map[string]func(s *OpenSet){
		"remove": func(s *OpenSet) { s.RemoveLowest() },
		"peek":   func(s *OpenSet) { s.Peek() },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected %s on empty set to panic", name)
				}
			}()
			f(NewOpenSet())
		}()
	}
}
