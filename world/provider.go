package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Provider is the read side of a world used by the path calculator and movements.
type Provider interface {
	// BlockAt returns the block at the position passed. Positions in unloaded chunks or outside of
	// the world height read as air.
	BlockAt(pos cube.Pos) BlockInfo
	// IsChunkLoaded returns true if the chunk at the given chunk coordinates is loaded.
	IsChunkLoaded(chunkX, chunkZ int32) bool
	// Range returns the vertical range of the world.
	Range() cube.Range
}

// Snapshotter is a Provider that can produce immutable snapshots of itself.
type Snapshotter interface {
	Provider
	Snapshot() Provider
}

// Editor is a Provider that can be modified.
type Editor interface {
	Provider
	SetBlock(pos cube.Pos, b BlockInfo)
}

// ChunkPos returns the position of the chunk containing pos.
func ChunkPos(pos cube.Pos) protocol.ChunkPos {
	return protocol.ChunkPos{int32(pos[0]) >> 4, int32(pos[2]) >> 4}
}

// Loaded returns true if the chunk containing pos is loaded in p.
func Loaded(p Provider, pos cube.Pos) bool {
	c := ChunkPos(pos)
	return p.IsChunkLoaded(c[0], c[1])
}
