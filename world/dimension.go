package world

import "github.com/df-mc/dragonfly/server/block/cube"

// OverworldRange is the default vertical range of a world.
var OverworldRange = cube.Range{-64, 319}
