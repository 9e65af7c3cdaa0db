package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Snapshot is an immutable view of a World at a point in time. It is safe for concurrent use
// without locking.
type Snapshot struct {
	rng    cube.Range
	chunks map[protocol.ChunkPos]*Chunk
}

// BlockAt ...
func (s *Snapshot) BlockAt(pos cube.Pos) BlockInfo {
	if pos.OutOfBounds(s.rng) {
		return Air
	}
	c, ok := s.chunks[ChunkPos(pos)]
	if !ok {
		return Air
	}
	return c.Block(pos)
}

// IsChunkLoaded ...
func (s *Snapshot) IsChunkLoaded(chunkX, chunkZ int32) bool {
	_, ok := s.chunks[protocol.ChunkPos{chunkX, chunkZ}]
	return ok
}

// Range ...
func (s *Snapshot) Range() cube.Range {
	return s.rng
}
