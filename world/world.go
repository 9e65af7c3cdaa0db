package world

import (
	"io"

	"github.com/chewxy/math32"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// World is an in-memory, chunked block store. Reads and writes may happen from any goroutine.
// Chunks are copy-on-write, which makes Snapshot cheap: it only copies the chunk map.
type World struct {
	rng    cube.Range
	chunks map[protocol.ChunkPos]*Chunk
	log    logrus.FieldLogger

	deadlock.RWMutex
}

// New creates an empty world using the overworld height range.
func New(log logrus.FieldLogger) *World {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &World{
		rng:    OverworldRange,
		chunks: make(map[protocol.ChunkPos]*Chunk),
		log:    log,
	}
}

// Range returns the vertical range of the world.
func (w *World) Range() cube.Range {
	return w.rng
}

// LoadChunk marks the chunk at the position passed as loaded, creating an empty chunk if it did not
// exist yet.
func (w *World) LoadChunk(pos protocol.ChunkPos) {
	w.Lock()
	defer w.Unlock()

	if _, ok := w.chunks[pos]; !ok {
		w.chunks[pos] = NewChunk()
	}
}

// LoadArea loads every chunk overlapping the horizontal area between min and max.
func (w *World) LoadArea(min, max cube.Pos) {
	from, to := ChunkPos(min), ChunkPos(max)
	for x := from[0]; x <= to[0]; x++ {
		for z := from[1]; z <= to[1]; z++ {
			w.LoadChunk(protocol.ChunkPos{x, z})
		}
	}
}

// UnloadChunk removes the chunk at the position passed.
func (w *World) UnloadChunk(pos protocol.ChunkPos) {
	w.Lock()
	defer w.Unlock()

	delete(w.chunks, pos)
}

// IsChunkLoaded ...
func (w *World) IsChunkLoaded(chunkX, chunkZ int32) bool {
	w.RLock()
	_, ok := w.chunks[protocol.ChunkPos{chunkX, chunkZ}]
	w.RUnlock()
	return ok
}

// BlockAt returns the block at the position passed.
func (w *World) BlockAt(pos cube.Pos) BlockInfo {
	if pos.OutOfBounds(w.rng) {
		return Air
	}
	w.RLock()
	c := w.chunks[ChunkPos(pos)]
	w.RUnlock()

	if c == nil {
		return Air
	}
	return c.Block(pos)
}

// SetBlock sets the block at the position passed. The chunk is loaded if it was not already.
func (w *World) SetBlock(pos cube.Pos, b BlockInfo) {
	if pos.OutOfBounds(w.rng) {
		return
	}
	w.apply(map[protocol.ChunkPos]map[cube.Pos]BlockInfo{
		ChunkPos(pos): {pos: b},
	})
}

// Fill sets every block in the cuboid between min and max (inclusive) to b.
func (w *World) Fill(min, max cube.Pos, b BlockInfo) {
	changes := make(map[protocol.ChunkPos]map[cube.Pos]BlockInfo)
	for x := min[0]; x <= max[0]; x++ {
		for y := min[1]; y <= max[1]; y++ {
			for z := min[2]; z <= max[2]; z++ {
				pos := cube.Pos{x, y, z}
				if pos.OutOfBounds(w.rng) {
					continue
				}
				c := ChunkPos(pos)
				if changes[c] == nil {
					changes[c] = make(map[cube.Pos]BlockInfo)
				}
				changes[c][pos] = b
			}
		}
	}
	w.apply(changes)
}

func (w *World) apply(changes map[protocol.ChunkPos]map[cube.Pos]BlockInfo) {
	w.Lock()
	defer w.Unlock()

	for chunkPos, blocks := range changes {
		c, ok := w.chunks[chunkPos]
		if !ok {
			c = NewChunk()
		}
		w.chunks[chunkPos] = c.with(blocks)
	}
}

// Snapshot returns an immutable view of the world as it is right now. Later edits to the world are
// not visible through the snapshot.
func (w *World) Snapshot() Provider {
	w.RLock()
	defer w.RUnlock()

	chunks := make(map[protocol.ChunkPos]*Chunk, len(w.chunks))
	for pos, c := range w.chunks {
		chunks[pos] = c
	}
	return &Snapshot{rng: w.rng, chunks: chunks}
}

// CleanChunks unloads every chunk outside of the given radius around pos.
func (w *World) CleanChunks(radius int32, pos protocol.ChunkPos) {
	w.Lock()
	defer w.Unlock()

	for chunkPos := range w.chunks {
		if !chunkInRange(radius, chunkPos, pos) {
			delete(w.chunks, chunkPos)
			w.log.WithFields(logrus.Fields{"chunk": chunkPos, "radius": radius, "center": pos}).Debug("unloaded chunk out of range")
		}
	}
}

// PurgeChunks removes all chunks from the world.
func (w *World) PurgeChunks() {
	w.Lock()
	defer w.Unlock()

	clear(w.chunks)
}

// chunkInRange returns true if the chunk position is within the given radius of the chunk position.
func chunkInRange(radius int32, chunkPos, pos protocol.ChunkPos) bool {
	diffX, diffZ := pos[0]-chunkPos[0], pos[1]-chunkPos[1]
	dist := math32.Sqrt(float32(diffX*diffX) + float32(diffZ*diffZ))

	return int32(dist) <= radius
}
