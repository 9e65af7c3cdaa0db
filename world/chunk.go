package world

import "github.com/df-mc/dragonfly/server/block/cube"

// Chunk is an immutable 16xNx16 column of blocks. Air is never stored. Modifying a chunk produces a
// new chunk so that snapshots holding the old one are unaffected.
type Chunk struct {
	blocks map[cube.Pos]BlockInfo
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{blocks: make(map[cube.Pos]BlockInfo)}
}

// Block returns the block at the absolute position passed.
func (c *Chunk) Block(pos cube.Pos) BlockInfo {
	if b, ok := c.blocks[pos]; ok {
		return b
	}
	return Air
}

// Len returns the amount of non-air blocks in the chunk.
func (c *Chunk) Len() int {
	return len(c.blocks)
}

// with returns a copy of the chunk with the given blocks set.
func (c *Chunk) with(changes map[cube.Pos]BlockInfo) *Chunk {
	n := &Chunk{blocks: make(map[cube.Pos]BlockInfo, len(c.blocks)+len(changes))}
	for pos, b := range c.blocks {
		n.blocks[pos] = b
	}
	for pos, b := range changes {
		if b.Name == Air.Name {
			delete(n.blocks, pos)
			continue
		}
		n.blocks[pos] = b
	}
	return n
}
