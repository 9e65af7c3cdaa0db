package movement

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/cost"
	"github.com/oomph-ac/pathing/game"
)

var horizontalFaces = [...]cube.Face{cube.FaceNorth, cube.FaceSouth, cube.FaceWest, cube.FaceEast}

// Update runs one tick of the movement against the agent passed and returns its new status. c should
// reflect the live world. Once the movement reaches a terminal status, Update keeps returning it
// without touching the agent.
func (m *Movement) Update(a agent.Controller, c *Context) Status {
	if m.status.Terminal() {
		return m.status
	}
	st := a.State()
	m.ticks++

	if m.status != StatusRunning {
		if !m.prepare(a, c, st) {
			if m.status.Terminal() {
				m.stop(a)
			}
			return m.status
		}
		a.StopBreaking()
		m.status = StatusRunning
	}

	switch m.kind {
	case KindTraverse, KindDiagonal:
		m.status = m.runWalk(a, c, st)
	case KindAscend:
		m.status = m.runAscend(a, c, st)
	case KindDescend:
		m.status = m.runDescend(a, c, st)
	case KindFall:
		m.status = m.runFall(a, c, st)
	case KindPillar:
		m.status = m.runPillar(a, c, st)
	case KindDownward:
		m.status = m.runDownward(a, c, st)
	case KindParkour:
		m.status = m.runParkour(a, c, st)
	default:
		m.status = StatusFailed
	}
	if m.status.Terminal() {
		m.stop(a)
	}
	return m.status
}

// prepare breaks and places the blocks the movement needs one at a time. It returns true once nothing
// is left to do.
func (m *Movement) prepare(a agent.Controller, c *Context, st agent.State) bool {
	if (m.kind == KindAscend || m.kind == KindPillar) && st.Feet()[1] < m.src[1] {
		m.status = StatusUnreachable
		return false
	}
	for _, pos := range m.breakCandidates() {
		b := c.Block(pos)
		if canWalkThrough(b) || (m.kind == KindPillar && ladder(b)) {
			continue
		}
		if !c.AllowBreak || cost.BreakTicks(b.Hardness, c.BreakSpeed) >= cost.Inf {
			m.status = StatusUnreachable
			return false
		}
		if !c.withinReach(st, pos) {
			return m.wait(a, c, st)
		}
		m.look(a, st, centre(pos))
		m.setInput(a, agent.Input{})
		a.StartBreaking(pos)
		m.status = StatusPrepping
		return false
	}

	pos, ok := m.placeCandidate()
	if !ok || m.kind == KindPillar || canWalkOn(c.Block(pos)) {
		return true
	}
	if !c.AllowPlace || !c.HasThrowaway {
		m.status = StatusUnreachable
		return false
	}
	face, ok := c.placeFace(pos, nil)
	if !ok {
		m.status = StatusUnreachable
		return false
	}
	if !c.withinReach(st, pos) {
		return m.wait(a, c, st)
	}
	m.look(a, st, centre(pos).Add(faceOffset(face)))
	m.setInput(a, agent.Input{Sneak: true})
	if !a.Place(pos, face) {
		return m.wait(a, c, st)
	}
	m.status = StatusPrepping
	return false
}

// wait holds the agent at the centre of the source block until a block comes within reach, giving up
// after a while.
func (m *Movement) wait(a agent.Controller, c *Context, st agent.State) bool {
	m.waitTicks++
	if m.waitTicks > c.PrepWaitTicks {
		m.status = StatusUnreachable
		return false
	}
	m.status = StatusWaiting
	a.StopBreaking()
	if hzDist(st.Pos, centre(m.src)) > 0.2 {
		m.drive(a, st, m.src, agent.Input{Forward: true})
	} else {
		m.setInput(a, agent.Input{})
	}
	return false
}

func (m *Movement) runWalk(a agent.Controller, c *Context, st agent.State) Status {
	if st.Feet() == m.dest {
		return StatusSuccess
	}
	in := agent.Input{Forward: true}
	if c.CanSprint && !c.Block(m.src).Liquid && !c.Block(m.dest).Liquid {
		in.Sprint = true
	}
	m.drive(a, st, m.dest, in)
	return StatusRunning
}

func (m *Movement) runAscend(a agent.Controller, c *Context, st agent.State) Status {
	feet := st.Feet()
	if feet[1] < m.src[1] {
		return StatusUnreachable
	}
	if feet == m.dest {
		return StatusSuccess
	}
	in := agent.Input{Forward: true}
	if feet != m.src.Side(cube.FaceUp) {
		d := m.Direction()
		xAxis, zAxis := float64(abs(d[0])), float64(abs(d[2]))
		dc := centre(m.dest)
		flat := xAxis*math.Abs(dc[0]-st.Pos[0]) + zAxis*math.Abs(dc[2]-st.Pos[2])
		side := zAxis*math.Abs(dc[0]-st.Pos[0]) + xAxis*math.Abs(dc[2]-st.Pos[2])
		lateral := xAxis*st.Vel[2] + zAxis*st.Vel[0]
		if math.Abs(lateral) <= 0.1 && (m.headBonkClear(c) || (flat <= 1.2 && side <= 0.2)) {
			in.Jump = true
		}
	}
	m.drive(a, st, m.dest, in)
	return StatusRunning
}

// headBonkClear returns true if nothing is above the head of the agent that could stop it from
// jumping early.
func (m *Movement) headBonkClear(c *Context) bool {
	up := m.src.Add(cube.Pos{0, 2, 0})
	for _, face := range horizontalFaces {
		if !canWalkThrough(c.Block(up.Side(face))) {
			return false
		}
	}
	return true
}

func (m *Movement) runDescend(a agent.Controller, c *Context, st agent.State) Status {
	feet := st.Feet()
	d := m.Direction()
	fake := m.dest.Add(cube.Pos{d[0], 0, d[2]})
	if (feet == m.dest || feet == fake) && (c.Block(m.dest).Liquid || st.Pos[1]-float64(m.dest[1]) < 0.5) {
		return StatusSuccess
	}
	if feet != m.dest || hzDist(st.Pos, centre(m.dest)) > 0.25 {
		if m.ticks < 20 && hzDist(st.Pos, centre(m.src)) < 1.25 {
			m.drive(a, st, fake, agent.Input{Forward: true})
		} else {
			m.drive(a, st, m.dest, agent.Input{Forward: true})
		}
	} else {
		m.setInput(a, agent.Input{})
	}
	return StatusRunning
}

func (m *Movement) runFall(a agent.Controller, c *Context, st agent.State) Status {
	if st.Feet() == m.dest && (c.Block(m.dest).Liquid || st.Pos[1]-float64(m.dest[1]) < 0.094) {
		return StatusSuccess
	}
	dc := centre(m.dest)
	var in agent.Input
	if math.Abs(st.Pos[0]+st.Vel[0]-dc[0]) > 0.1 || math.Abs(st.Pos[2]+st.Vel[2]-dc[2]) > 0.1 {
		in.Forward = true
		if !st.OnGround && math.Abs(st.Vel[1]) > 0.4 {
			in.Sneak = true
		}
	}
	m.drive(a, st, m.dest, in)
	return StatusRunning
}

func (m *Movement) runPillar(a agent.Controller, c *Context, st agent.State) Status {
	feet := st.Feet()
	if feet[1] < m.src[1] {
		return StatusUnreachable
	}
	if ladder(c.Block(m.src)) {
		if feet == m.dest {
			return StatusSuccess
		}
		m.drive(a, st, m.dest, agent.Input{Jump: true})
		return StatusRunning
	}
	blockThere := canWalkOn(c.Block(m.src))
	if feet == m.dest && blockThere {
		return StatusSuccess
	}

	var in agent.Input
	yaw := st.Yaw
	sc := centre(m.src)
	if hzDist(st.Pos, sc) > 0.17 {
		yaw, _ = game.RotationTo(st.Eyes(), sc)
		in.Forward = true
	} else if math.Hypot(st.Vel[0], st.Vel[2]) < 0.05 {
		in.Jump = st.Pos[1] < float64(m.dest[1])
	}
	a.SetRotation(yaw, 90)
	m.setInput(a, in)

	if !blockThere && st.Pos[1] >= float64(m.src[1])+1 {
		if !c.HasThrowaway || !a.Place(m.src, cube.FaceDown) {
			m.waitTicks++
			if m.waitTicks > c.PrepWaitTicks {
				return StatusUnreachable
			}
		}
	}
	return StatusRunning
}

func (m *Movement) runDownward(a agent.Controller, c *Context, st agent.State) Status {
	feet := st.Feet()
	if feet == m.dest && (st.OnGround || ladder(c.Block(m.dest))) {
		return StatusSuccess
	}
	if !m.ContainsValid(feet) {
		return StatusUnreachable
	}
	if m.ticks < 10 && hzDist(st.Pos, centre(m.dest)) < 0.2 {
		m.setInput(a, agent.Input{})
		return StatusRunning
	}
	m.drive(a, st, m.dest, agent.Input{Forward: hzDist(st.Pos, centre(m.dest)) >= 0.2})
	return StatusRunning
}

func (m *Movement) runParkour(a agent.Controller, c *Context, st agent.State) Status {
	feet := st.Feet()
	if feet == m.dest && st.OnGround && st.Pos[1]-float64(m.dest[1]) < 0.094 {
		return StatusSuccess
	}
	d := m.Direction()
	dir := mgl64.Vec3{float64(sign(d[0])), 0, float64(sign(d[2]))}
	dist := max(abs(d[0]), abs(d[2]))

	in := agent.Input{Forward: true, Sprint: dist >= 4 && c.CanSprint}
	speed := st.Vel.Dot(dir)
	if st.OnGround {
		// Jump on the last tick the source block still supports the agent. The body is 0.6 wide, so
		// support is lost 0.8 blocks past the centre.
		progress := st.Pos.Sub(centre(m.src)).Dot(dir)
		if feet != m.src || progress+speed*0.546+0.13 >= 0.8 {
			in.Jump = true
		}
	} else {
		// Coast onto the centre of the destination once holding forward would carry the agent past it.
		remaining := centre(m.dest).Sub(st.Pos).Dot(dir)
		n := airTicks(st.Pos[1], st.Vel[1], float64(m.dest[1]))
		if remaining <= speed*(1-math.Pow(0.91, float64(n)))/0.09 {
			in.Forward, in.Sprint = false, false
		}
	}
	m.drive(a, st, m.dest, in)
	return StatusRunning
}

// airTicks returns the ticks until an entity at height y moving vertically at vy drops back to landY.
func airTicks(y, vy, landY float64) int {
	for n := 1; n <= 60; n++ {
		y += vy
		if y <= landY && vy < 0 {
			return n
		}
		vy = (vy - 0.08) * 0.98
	}
	return 60
}

// drive faces the agent towards the centre of target, keeping its pitch, and applies the input.
func (m *Movement) drive(a agent.Controller, st agent.State, target cube.Pos, in agent.Input) {
	yaw, _ := game.RotationTo(st.Eyes(), centre(target))
	a.SetRotation(yaw, st.Pitch)
	m.setInput(a, in)
}

func (m *Movement) look(a agent.Controller, st agent.State, target mgl64.Vec3) {
	a.SetRotation(game.RotationTo(st.Eyes(), target))
}

func (m *Movement) setInput(a agent.Controller, in agent.Input) {
	m.in = in
	a.SetInput(in)
}

func (m *Movement) stop(a agent.Controller) {
	m.setInput(a, agent.Input{})
	a.StopBreaking()
}

func faceOffset(face cube.Face) mgl64.Vec3 {
	switch face {
	case cube.FaceDown:
		return mgl64.Vec3{0, -0.5, 0}
	case cube.FaceUp:
		return mgl64.Vec3{0, 0.5, 0}
	case cube.FaceNorth:
		return mgl64.Vec3{0, 0, -0.5}
	case cube.FaceSouth:
		return mgl64.Vec3{0, 0, 0.5}
	case cube.FaceWest:
		return mgl64.Vec3{-0.5, 0, 0}
	}
	return mgl64.Vec3{0.5, 0, 0}
}

func hzDist(a, b mgl64.Vec3) float64 {
	return math.Hypot(a[0]-b[0], a[2]-b[2])
}
