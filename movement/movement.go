package movement

import (
	"fmt"
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/cost"
	"github.com/oomph-ac/pathing/internal"
)

// Movement is one step of a path: a single movement of a Kind from Src to Dest. The kind, source and
// destination never change. The execution status and block caches are updated by the path executor.
type Movement struct {
	kind      Kind
	src, dest cube.Pos

	cost                  float64
	calculatedWhileLoaded bool

	valid    []cube.Pos
	relevant []cube.Pos

	blockHash  uint64
	hashed     bool
	toBreak    []cube.Pos
	toPlace    []cube.Pos
	toWalkInto []cube.Pos

	status    Status
	ticks     int
	waitTicks int
	in        agent.Input
}

// New creates a movement of kind k from src to dest. The cost is calculated against c, capped at the
// estimate the movement was found with, if it is lower.
func New(k Kind, src, dest cube.Pos, c *Context, estimate float64) *Movement {
	m := &Movement{kind: k, src: src, dest: dest}
	m.valid = m.validPositions()
	m.relevant = m.relevantPositions()
	m.cost = costBetween(c, k, src, dest)
	if estimate < m.cost {
		m.cost = estimate
	}
	m.calculatedWhileLoaded = c.Loaded(dest)
	m.RefreshBlocks(c)
	return m
}

// Kind returns the kind of the movement.
func (m *Movement) Kind() Kind { return m.kind }

// Src returns the position the movement starts at.
func (m *Movement) Src() cube.Pos { return m.src }

// Dest returns the position the movement ends at.
func (m *Movement) Dest() cube.Pos { return m.dest }

// Direction returns Dest minus Src.
func (m *Movement) Direction() cube.Pos { return m.dest.Sub(m.src) }

// Cost returns the cost estimate the movement was created with.
func (m *Movement) Cost() float64 { return m.cost }

// CalculatedWhileLoaded returns true if the chunk of the destination was loaded when the cost was
// calculated.
func (m *Movement) CalculatedWhileLoaded() bool { return m.calculatedWhileLoaded }

// Status returns the execution status of the movement.
func (m *Movement) Status() Status { return m.status }

// Input returns the keys the movement held down during its last update.
func (m *Movement) Input() agent.Input { return m.in }

// ValidPositions returns the positions the agent may be standing in while the movement is in
// progress.
func (m *Movement) ValidPositions() []cube.Pos { return m.valid }

// ContainsValid returns true if pos is one of the valid positions of the movement.
func (m *Movement) ContainsValid(pos cube.Pos) bool { return slices.Contains(m.valid, pos) }

// ToBreak returns the blocks that must be broken for the movement, as of the last refresh.
func (m *Movement) ToBreak() []cube.Pos { return m.toBreak }

// ToPlace returns the blocks that must be placed for the movement, as of the last refresh.
func (m *Movement) ToPlace() []cube.Pos { return m.toPlace }

// ToWalkInto returns the hazardous blocks the movement brushes against, as of the last refresh.
func (m *Movement) ToWalkInto() []cube.Pos { return m.toWalkInto }

// RecalculateCost returns the cost of the movement against c. The block caches are recomputed only if
// one of the blocks the movement depends on changed since the last refresh.
func (m *Movement) RecalculateCost(c *Context) float64 {
	m.RefreshBlocks(c)
	return costBetween(c, m.kind, m.src, m.dest)
}

// RefreshBlocks recomputes the blocks to break, place and avoid if any block the movement depends on
// changed. It returns true if any of those sets changed as a result.
func (m *Movement) RefreshBlocks(c *Context) bool {
	h := m.fingerprint(c)
	if m.hashed && h == m.blockHash {
		return false
	}
	m.hashed, m.blockHash = true, h

	toBreak, toPlace, toWalkInto := m.toBreak, m.toPlace, m.toWalkInto
	m.computeBlocks(c)
	return !slices.Equal(toBreak, m.toBreak) || !slices.Equal(toPlace, m.toPlace) || !slices.Equal(toWalkInto, m.toWalkInto)
}

// fingerprint hashes every block the movement depends on.
func (m *Movement) fingerprint(c *Context) uint64 {
	h := internal.Hasher()
	defer internal.HasherPool.Put(h)

	for _, pos := range m.relevant {
		b := c.Block(pos)
		_, _ = h.WriteString(b.Name)
		_, _ = h.Write([]byte{b.Flags()})
	}
	return h.Sum64()
}

func (m *Movement) computeBlocks(c *Context) {
	m.toBreak, m.toPlace, m.toWalkInto = nil, nil, nil
	for _, pos := range m.breakCandidates() {
		if !canWalkThrough(c.Block(pos)) {
			m.toBreak = append(m.toBreak, pos)
		}
	}
	if pos, ok := m.placeCandidate(); ok && !canWalkOn(c.Block(pos)) {
		m.toPlace = append(m.toPlace, pos)
	}
	for _, pos := range m.hazardCandidates() {
		if b := c.Block(pos); b.Avoid || (m.kind == KindDiagonal && !canWalkThrough(b)) {
			m.toWalkInto = append(m.toWalkInto, pos)
		}
	}
}

// breakCandidates returns the positions that must be passable for the movement, in the order they
// are broken.
func (m *Movement) breakCandidates() []cube.Pos {
	src, dest := m.src, m.dest
	up := func(p cube.Pos, n int) cube.Pos { return p.Add(cube.Pos{0, n, 0}) }
	switch m.kind {
	case KindTraverse:
		return []cube.Pos{up(dest, 1), dest}
	case KindAscend:
		return []cube.Pos{up(src, 2), dest, up(dest, 1)}
	case KindDescend:
		return []cube.Pos{up(dest, 2), up(dest, 1), dest}
	case KindFall:
		d := m.Direction()
		column := make([]cube.Pos, 0, src[1]-dest[1]+2)
		for y := src[1] + 1; y >= dest[1]; y-- {
			column = append(column, cube.Pos{src[0] + d[0], y, src[2] + d[2]})
		}
		return column
	case KindDiagonal:
		return []cube.Pos{dest, up(dest, 1)}
	case KindPillar:
		return []cube.Pos{up(src, 2)}
	case KindDownward:
		return []cube.Pos{dest}
	}
	return nil
}

// placeCandidate returns the position a block must exist at for the movement, if any.
func (m *Movement) placeCandidate() (cube.Pos, bool) {
	switch m.kind {
	case KindTraverse, KindAscend:
		return m.dest.Side(cube.FaceDown), true
	case KindPillar:
		return m.src, true
	}
	return cube.Pos{}, false
}

// hazardCandidates returns blocks next to the route of the movement that the agent may touch.
func (m *Movement) hazardCandidates() []cube.Pos {
	switch m.kind {
	case KindDiagonal:
		a := cube.Pos{m.src[0], m.src[1], m.dest[2]}
		b := cube.Pos{m.dest[0], m.src[1], m.src[2]}
		return []cube.Pos{a, a.Side(cube.FaceUp), b, b.Side(cube.FaceUp)}
	case KindParkour:
		d := m.Direction()
		over := m.dest.Add(cube.Pos{sign(d[0]), 0, sign(d[2])})
		return []cube.Pos{over, over.Side(cube.FaceUp)}
	}
	return nil
}

func (m *Movement) validPositions() []cube.Pos {
	src, dest := m.src, m.dest
	var positions []cube.Pos
	switch m.kind {
	case KindAscend:
		prior := src.Sub(m.Direction()).Add(cube.Pos{0, 1, 0})
		positions = []cube.Pos{src, src.Side(cube.FaceUp), dest, prior, prior.Side(cube.FaceUp)}
	case KindDescend:
		positions = []cube.Pos{src, dest.Side(cube.FaceUp), dest}
	case KindFall:
		positions = []cube.Pos{src}
		for y := src[1] - dest[1]; y >= 0; y-- {
			positions = append(positions, dest.Add(cube.Pos{0, y, 0}))
		}
	case KindDiagonal:
		positions = []cube.Pos{src, dest, {src[0], src[1], dest[2]}, {dest[0], src[1], src[2]}}
	case KindParkour:
		d := m.Direction()
		dir := cube.Pos{sign(d[0]), 0, sign(d[2])}
		dist := max(abs(d[0]), abs(d[2]))
		for i := 0; i <= dist; i++ {
			p := src.Add(cube.Pos{dir[0] * i, 0, dir[2] * i})
			positions = append(positions, p, p.Side(cube.FaceUp))
		}
	default:
		positions = []cube.Pos{src, dest}
	}
	return dedupe(positions)
}

// relevantPositions returns every block whose state can change the cost of the movement: the feet,
// head and floor of each valid position plus the blocks the movement acts on.
func (m *Movement) relevantPositions() []cube.Pos {
	var positions []cube.Pos
	for _, p := range m.valid {
		positions = append(positions, p.Side(cube.FaceDown), p, p.Add(cube.Pos{0, 1, 0}), p.Add(cube.Pos{0, 2, 0}))
	}
	positions = append(positions, m.breakCandidates()...)
	if pos, ok := m.placeCandidate(); ok {
		positions = append(positions, pos)
	}
	positions = append(positions, m.hazardCandidates()...)
	return dedupe(positions)
}

func dedupe(positions []cube.Pos) []cube.Pos {
	set := internal.PositionSet()
	defer internal.ReleasePositionSet(set)

	out := positions[:0]
	for _, p := range positions {
		if _, ok := set[p]; ok {
			continue
		}
		set[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Reset puts the movement back into its initial state so that it can be executed again.
func (m *Movement) Reset() {
	m.status = StatusPrepping
	m.ticks, m.waitTicks = 0, 0
	m.in = agent.Input{}
}

// Cancel marks the movement as cancelled unless it already finished.
func (m *Movement) Cancel() {
	if !m.status.Terminal() {
		m.status = StatusCancelled
	}
}

// SafeToCancel returns true if the agent can stop the movement where it is without ending up in a
// dangerous spot, such as the middle of a jump.
func (m *Movement) SafeToCancel(st agent.State, c *Context) bool {
	switch m.kind {
	case KindTraverse:
		return m.status != StatusRunning || canWalkOn(c.Block(m.dest.Side(cube.FaceDown)))
	case KindDescend, KindFall, KindDiagonal:
		return st.Feet() == m.src || m.status != StatusRunning
	case KindParkour, KindPillar:
		return m.status != StatusRunning
	}
	return true
}

// Impossible returns true if a cost is too high to ever be executed.
func Impossible(c float64) bool {
	return c >= cost.Inf
}

func (m *Movement) String() string {
	return fmt.Sprintf("%v %v -> %v", m.kind, m.src, m.dest)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
