package bedsim

import (
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing/agent"
	"github.com/oomph-ac/pathing/world"
)

func floorWorld(minX, maxX int) *world.World {
	w := world.New(nil)
	w.Fill(cube.Pos{minX, 63, -8}, cube.Pos{maxX, 63, 8}, world.Stone)
	return w
}

func tickN(p *Player, n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

func TestFallsOntoGround(t *testing.T) {
	p := NewPlayer(floorWorld(-8, 8), mgl64.Vec3{0.5, 67, 0.5}, DefaultOptions())
	if p.State().OnGround {
		t.Fatalf("expected player in the air to not be on ground")
	}
	tickN(p, 40)

	st := p.State()
	if !st.OnGround || math.Abs(st.Pos[1]-64) > 1e-9 {
		t.Fatalf("expected player to land at y=64, got %v (on ground: %v)", st.Pos, st.OnGround)
	}
	if st.Feet() != (cube.Pos{0, 64, 0}) {
		t.Fatalf("unexpected feet %v", st.Feet())
	}
}

func TestWalkForward(t *testing.T) {
	p := NewPlayer(floorWorld(-8, 16), mgl64.Vec3{0.5, 64, 0.5}, DefaultOptions())
	p.SetRotation(-90, 0)
	p.SetInput(agent.Input{Forward: true})
	tickN(p, 20)

	st := p.State()
	if st.Pos[0] < 3.5 || st.Pos[0] > 5.5 {
		t.Fatalf("expected player to walk about 4 blocks towards +X, got %v", st.Pos)
	}
	if math.Abs(st.Pos[2]-0.5) > 1e-3 {
		t.Fatalf("expected player to walk straight, got %v", st.Pos)
	}

	sprinter := NewPlayer(floorWorld(-8, 16), mgl64.Vec3{0.5, 64, 0.5}, DefaultOptions())
	sprinter.SetRotation(-90, 0)
	sprinter.SetInput(agent.Input{Forward: true, Sprint: true})
	tickN(sprinter, 20)
	if sprinter.State().Pos[0] <= st.Pos[0] {
		t.Fatalf("expected sprinting to be faster: %v <= %v", sprinter.State().Pos[0], st.Pos[0])
	}

	hungry := DefaultOptions()
	hungry.CanSprint = false
	walker := NewPlayer(floorWorld(-8, 16), mgl64.Vec3{0.5, 64, 0.5}, hungry)
	walker.SetRotation(-90, 0)
	walker.SetInput(agent.Input{Forward: true, Sprint: true})
	tickN(walker, 20)
	if math.Abs(walker.State().Pos[0]-st.Pos[0]) > 1e-9 {
		t.Fatalf("expected a player unable to sprint to walk, got %v and %v", walker.State().Pos[0], st.Pos[0])
	}
}

func TestJumpHeight(t *testing.T) {
	p := NewPlayer(floorWorld(-8, 8), mgl64.Vec3{0.5, 64, 0.5}, DefaultOptions())
	p.SetInput(agent.Input{Jump: true})
	p.Tick()
	p.SetInput(agent.Input{})

	peak := p.State().Pos[1]
	for i := 0; i < 20; i++ {
		p.Tick()
		peak = max(peak, p.State().Pos[1])
	}
	if h := peak - 64; h < 1.2 || h > 1.3 {
		t.Fatalf("expected a jump to be about 1.25 blocks high, got %v", h)
	}
	if !p.State().OnGround {
		t.Fatalf("expected player to land again")
	}
}

func TestWallStopsPlayer(t *testing.T) {
	w := floorWorld(-8, 8)
	w.Fill(cube.Pos{3, 64, -8}, cube.Pos{3, 65, 8}, world.Stone)
	p := NewPlayer(w, mgl64.Vec3{0.5, 64, 0.5}, DefaultOptions())
	p.SetRotation(-90, 0)
	p.SetInput(agent.Input{Forward: true})
	tickN(p, 40)

	if x := p.State().Pos[0]; x < 2.69 || x > 2.71 {
		t.Fatalf("expected player to stop against the wall, got x=%v", x)
	}
	if !p.Movement().CollideX {
		t.Fatalf("expected a horizontal collision")
	}
}

func TestSneakStopsAtEdge(t *testing.T) {
	p := NewPlayer(floorWorld(-8, 0), mgl64.Vec3{0.5, 64, 0.5}, DefaultOptions())
	p.SetRotation(-90, 0)
	p.SetInput(agent.Input{Forward: true, Sneak: true})
	tickN(p, 60)

	st := p.State()
	if !st.OnGround || st.Pos[1] != 64 {
		t.Fatalf("expected sneaking player to stay on the block, got %v", st.Pos)
	}
	if st.Pos[0] < 1 || st.Pos[0] > 1.3 {
		t.Fatalf("expected sneaking player to stop over the edge, got x=%v", st.Pos[0])
	}

	p.SetInput(agent.Input{Forward: true})
	tickN(p, 20)
	if p.State().Pos[1] >= 64 {
		t.Fatalf("expected player to walk off the edge once it stops sneaking")
	}
}

func TestBreaking(t *testing.T) {
	w := floorWorld(-8, 8)
	target := cube.Pos{1, 64, 0}
	w.SetBlock(target, world.Stone)
	p := NewPlayer(w, mgl64.Vec3{0.5, 64, 0.5}, DefaultOptions())

	p.StartBreaking(target)
	// Stone has a hardness of 1.5, so it takes 45 ticks with a break speed of 1.
	tickN(p, 44)
	if b := w.BlockAt(target); b.Name != world.Stone.Name {
		t.Fatalf("expected stone to still be there, got %v", b.Name)
	}
	p.StartBreaking(target)
	p.Tick()
	if b := w.BlockAt(target); b.Name != world.Air.Name {
		t.Fatalf("expected stone to be broken, got %v", b.Name)
	}
	if _, ok := p.Breaking(); ok {
		t.Fatalf("expected player to stop breaking after the block broke")
	}

	w.SetBlock(target, world.Stone)
	p.StartBreaking(target)
	tickN(p, 30)
	p.StopBreaking()
	p.StartBreaking(target)
	tickN(p, 30)
	if b := w.BlockAt(target); b.Name != world.Stone.Name {
		t.Fatalf("expected progress to reset after breaking was aborted")
	}

	w.SetBlock(target, world.Bedrock)
	tickN(p, 200)
	if b := w.BlockAt(target); b.Name != world.Bedrock.Name {
		t.Fatalf("expected bedrock to be unbreakable")
	}
}

func TestPlace(t *testing.T) {
	w := floorWorld(-8, 8)
	opts := DefaultOptions()
	opts.Throwaways = 1
	p := NewPlayer(w, mgl64.Vec3{0.5, 64, 0.5}, opts)

	if p.Place(cube.Pos{0, 64, 0}, cube.FaceDown) {
		t.Fatalf("expected placing inside the player to fail")
	}
	if p.Place(cube.Pos{1, 65, 0}, cube.FaceDown) {
		t.Fatalf("expected placing against air to fail")
	}
	if p.Place(cube.Pos{20, 64, 0}, cube.FaceDown) {
		t.Fatalf("expected placing out of reach to fail")
	}
	if !p.Place(cube.Pos{1, 64, 0}, cube.FaceDown) {
		t.Fatalf("expected placing next to the player to succeed")
	}
	if b := w.BlockAt(cube.Pos{1, 64, 0}); b.Name != world.Cobblestone.Name {
		t.Fatalf("expected cobblestone to be placed, got %v", b.Name)
	}
	if p.Throwaways() != 0 || p.State().HasThrowaway {
		t.Fatalf("expected the only throwaway to be used up")
	}
	if p.Place(cube.Pos{-1, 64, 0}, cube.FaceDown) {
		t.Fatalf("expected placing without throwaways to fail")
	}
}

func TestClimbLadder(t *testing.T) {
	w := floorWorld(-8, 8)
	w.Fill(cube.Pos{0, 64, 0}, cube.Pos{0, 70, 0}, world.Ladder)
	p := NewPlayer(w, mgl64.Vec3{0.5, 64, 0.5}, DefaultOptions())
	p.SetInput(agent.Input{Jump: true})
	tickN(p, 10)

	if y := p.State().Pos[1]; y < 65.5 {
		t.Fatalf("expected player to climb the ladder, got y=%v", y)
	}
	p.SetInput(agent.Input{Sneak: true})
	y := p.State().Pos[1]
	tickN(p, 10)
	if p.State().Pos[1] < y-0.2 {
		t.Fatalf("expected a sneaking player to hold on to the ladder, fell from %v to %v", y, p.State().Pos[1])
	}
}

func TestWater(t *testing.T) {
	w := floorWorld(-8, 8)
	w.Fill(cube.Pos{-8, 60, -8}, cube.Pos{8, 62, 8}, world.Water)
	w.Fill(cube.Pos{-8, 59, -8}, cube.Pos{8, 59, 8}, world.Stone)
	w.Fill(cube.Pos{-8, 63, -8}, cube.Pos{8, 63, 8}, world.Air)
	p := NewPlayer(w, mgl64.Vec3{0.5, 70, 0.5}, DefaultOptions())
	tickN(p, 30)

	m := p.Movement()
	if !m.InWater {
		t.Fatalf("expected player to be in water, at %v", m.Pos)
	}
	if m.FallDistance != 0 {
		t.Fatalf("expected water to reset the fall distance")
	}
}

func TestNearbyBBoxes(t *testing.T) {
	w := floorWorld(-8, 8)
	w.SetBlock(cube.Pos{0, 64, 1}, world.Water)
	st := MovementState{Pos: mgl64.Vec3{0.5, 64, 0.5}, Size: mgl64.Vec2{PlayerWidth, PlayerHeight}}

	if boxes := NearbyBBoxes(w, st.BoundingBox()); len(boxes) != 0 {
		t.Fatalf("expected a player resting on the floor to only touch it, got %v", boxes)
	}
	boxes := NearbyBBoxes(w, st.BoundingBox().Translate(mgl64.Vec3{0, -0.01}))
	if len(boxes) != 1 || boxes[0] != blockBox(cube.Pos{0, 63, 0}) {
		t.Fatalf("expected the block below the player, got %v", boxes)
	}
	if boxes := NearbyBBoxes(w, st.BoundingBox().Translate(mgl64.Vec3{0, 0, 0.5})); len(boxes) != 0 {
		t.Fatalf("expected water to not collide, got %v", boxes)
	}
	if boxes := NearbyBBoxes(w, st.BoundingBox().Translate(mgl64.Vec3{0.5, -0.01})); len(boxes) != 2 {
		t.Fatalf("expected a player over the edge of two blocks to touch both, got %v", boxes)
	}
}
