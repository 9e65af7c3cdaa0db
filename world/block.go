package world

// BlockInfo is everything the pathing engine needs to know about a single block. It is a plain
// value so that snapshots can be shared between goroutines freely.
type BlockInfo struct {
	// Name is the identifier of the block, such as "minecraft:stone".
	Name string
	// Passable is true if an entity can move through the block without colliding with it.
	Passable bool
	// Solid is true if the block has a full cube collision box that can be stood on.
	Solid bool
	// Climbable is true for ladders and vines.
	Climbable bool
	// Liquid is true for water and lava.
	Liquid bool
	// Friction is the slipperiness of the block when walked on. Most blocks use 0.6.
	Friction float64
	// SpeedFactor multiplies the movement speed of an entity walking on the block.
	SpeedFactor float64
	// JumpFactor multiplies the jump velocity of an entity jumping off the block.
	JumpFactor float64
	// Hardness is the base hardness of the block. A negative hardness means the block is unbreakable.
	Hardness float64
	// Avoid marks blocks that hurt entities touching them, such as lava, fire or magma.
	Avoid bool
	// Falling marks blocks affected by gravity, such as sand and gravel.
	Falling bool
}

const (
	flagPassable = 1 << iota
	flagSolid
	flagClimbable
	flagLiquid
	flagAvoid
	flagFalling
)

// Flags packs the boolean properties of the block into a bitmask.
func (b BlockInfo) Flags() uint8 {
	var f uint8
	if b.Passable {
		f |= flagPassable
	}
	if b.Solid {
		f |= flagSolid
	}
	if b.Climbable {
		f |= flagClimbable
	}
	if b.Liquid {
		f |= flagLiquid
	}
	if b.Avoid {
		f |= flagAvoid
	}
	if b.Falling {
		f |= flagFalling
	}
	return f
}

// Water reports if the block is a liquid that is safe to move through.
func (b BlockInfo) Water() bool {
	return b.Liquid && !b.Avoid
}

func solid(name string, hardness float64) BlockInfo {
	return BlockInfo{Name: name, Solid: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1, Hardness: hardness}
}

var (
	Air         = BlockInfo{Name: "minecraft:air", Passable: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1}
	Stone       = solid("minecraft:stone", 1.5)
	Dirt        = solid("minecraft:dirt", 0.5)
	Grass       = solid("minecraft:grass_block", 0.6)
	Cobblestone = solid("minecraft:cobblestone", 2)
	Planks      = solid("minecraft:oak_planks", 2)
	Glass       = solid("minecraft:glass", 0.3)
	Bedrock     = solid("minecraft:bedrock", -1)
	Obsidian    = solid("minecraft:obsidian", 50)

	Sand   = BlockInfo{Name: "minecraft:sand", Solid: true, Falling: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1, Hardness: 0.5}
	Gravel = BlockInfo{Name: "minecraft:gravel", Solid: true, Falling: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1, Hardness: 0.6}

	Ice      = BlockInfo{Name: "minecraft:ice", Solid: true, Friction: 0.98, SpeedFactor: 1, JumpFactor: 1, Hardness: 0.5}
	SoulSand = BlockInfo{Name: "minecraft:soul_sand", Solid: true, Friction: 0.6, SpeedFactor: 0.4, JumpFactor: 1, Hardness: 0.5}
	Honey    = BlockInfo{Name: "minecraft:honey_block", Solid: true, Friction: 0.8, SpeedFactor: 0.4, JumpFactor: 0.5}
	Magma    = BlockInfo{Name: "minecraft:magma", Solid: true, Avoid: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1, Hardness: 0.5}

	Ladder = BlockInfo{Name: "minecraft:ladder", Passable: true, Climbable: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1, Hardness: 0.4}
	Vine   = BlockInfo{Name: "minecraft:vine", Passable: true, Climbable: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1, Hardness: 0.2}
	Water  = BlockInfo{Name: "minecraft:water", Passable: true, Liquid: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1, Hardness: -1}
	Lava   = BlockInfo{Name: "minecraft:lava", Passable: true, Liquid: true, Avoid: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1, Hardness: -1}
	Fire   = BlockInfo{Name: "minecraft:fire", Passable: true, Avoid: true, Friction: 0.6, SpeedFactor: 1, JumpFactor: 1}
)
