package astar

import "github.com/oomph-ac/pathing/assert"

const initialCapacity = 1024

// OpenSet is the frontier of a calculation: a binary min-heap of nodes ordered by their combined cost.
// Every node tracks its own slot in the heap so that it can be re-sorted in place after its cost
// changes. Slot 0 is unused.
type OpenSet struct {
	nodes []*PathNode
	size  int
}

// NewOpenSet creates an empty OpenSet.
func NewOpenSet() *OpenSet {
	return &OpenSet{nodes: make([]*PathNode, initialCapacity)}
}

// Len returns the amount of nodes in the set.
func (s *OpenSet) Len() int { return s.size }

// Empty returns true if no nodes are in the set.
func (s *OpenSet) Empty() bool { return s.size == 0 }

// Insert adds a node to the set.
func (s *OpenSet) Insert(n *PathNode) {
	assert.IsTrue(!n.Open(), "node %v is already in an open set", n.Pos)
	if s.size >= len(s.nodes)-1 {
		grown := make([]*PathNode, len(s.nodes)*2)
		copy(grown, s.nodes)
		s.nodes = grown
	}
	s.size++
	s.nodes[s.size] = n
	n.heapIndex = s.size
	s.up(s.size)
}

// Update restores the heap order after the combined cost of n changed, in either direction.
func (s *OpenSet) Update(n *PathNode) {
	assert.IsTrue(n.Open() && s.nodes[n.heapIndex] == n, "node %v is not in this open set", n.Pos)
	s.down(s.up(n.heapIndex))
}

// Peek returns the node with the lowest combined cost without removing it. It panics if the set is
// empty.
func (s *OpenSet) Peek() *PathNode {
	assert.IsTrue(s.size > 0, "peek on empty open set")
	return s.nodes[1]
}

// RemoveLowest removes and returns the node with the lowest combined cost. It panics if the set is
// empty.
func (s *OpenSet) RemoveLowest() *PathNode {
	assert.IsTrue(s.size > 0, "remove on empty open set")
	lowest := s.nodes[1]
	last := s.nodes[s.size]
	s.nodes[s.size] = nil
	s.size--
	lowest.heapIndex = -1

	if s.size > 0 {
		s.nodes[1] = last
		last.heapIndex = 1
		s.down(1)
	}
	return lowest
}

// Clear removes every node from the set.
func (s *OpenSet) Clear() {
	for i := 1; i <= s.size; i++ {
		s.nodes[i].heapIndex = -1
		s.nodes[i] = nil
	}
	s.size = 0
}

// up moves the node at index i towards the root until its parent is not more expensive, returning
// where it ended up.
func (s *OpenSet) up(i int) int {
	n := s.nodes[i]
	for i > 1 {
		parent := i >> 1
		p := s.nodes[parent]
		if p.Combined <= n.Combined {
			break
		}
		s.nodes[i] = p
		p.heapIndex = i
		i = parent
	}
	s.nodes[i] = n
	n.heapIndex = i
	return i
}

func (s *OpenSet) down(i int) {
	n := s.nodes[i]
	for {
		child := i << 1
		if child > s.size {
			break
		}
		if right := child + 1; right <= s.size && s.nodes[right].Combined < s.nodes[child].Combined {
			child = right
		}
		c := s.nodes[child]
		if n.Combined <= c.Combined {
			break
		}
		s.nodes[i] = c
		c.heapIndex = i
		i = child
	}
	s.nodes[i] = n
	n.heapIndex = i
}
