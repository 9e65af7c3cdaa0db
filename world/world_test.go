package world

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

func TestSnapshotIsolation(t *testing.T) {
	w := New(nil)
	w.Fill(cube.Pos{-4, 63, -4}, cube.Pos{4, 63, 4}, Stone)

	snap := w.Snapshot()
	w.SetBlock(cube.Pos{0, 63, 0}, Air)
	w.SetBlock(cube.Pos{1, 64, 0}, Bedrock)

	if b := snap.BlockAt(cube.Pos{0, 63, 0}); b.Name != Stone.Name {
		t.Fatalf("snapshot saw a later edit: %v", b.Name)
	}
	if b := snap.BlockAt(cube.Pos{1, 64, 0}); b.Name != Air.Name {
		t.Fatalf("snapshot saw a later edit: %v", b.Name)
	}
	if b := w.BlockAt(cube.Pos{0, 63, 0}); b.Name != Air.Name {
		t.Fatalf("expected world to reflect edit, got %v", b.Name)
	}
}

func TestUnloadedChunksReadAsAir(t *testing.T) {
	w := New(nil)
	w.SetBlock(cube.Pos{40, 10, 40}, Stone)
	if !w.IsChunkLoaded(2, 2) {
		t.Fatalf("expected chunk to be loaded after SetBlock")
	}
	w.UnloadChunk(protocol.ChunkPos{2, 2})
	if b := w.BlockAt(cube.Pos{40, 10, 40}); b.Name != Air.Name {
		t.Fatalf("expected air in unloaded chunk, got %v", b.Name)
	}
	if Loaded(w, cube.Pos{40, 10, 40}) {
		t.Fatalf("expected chunk to be unloaded")
	}
}

func TestNegativeChunkPos(t *testing.T) {
	if c := ChunkPos(cube.Pos{-1, 0, -17}); c != (protocol.ChunkPos{-1, -2}) {
		t.Fatalf("unexpected chunk pos %v", c)
	}
}

func TestOutOfRange(t *testing.T) {
	w := New(nil)
	w.SetBlock(cube.Pos{0, 400, 0}, Stone)
	if b := w.BlockAt(cube.Pos{0, 400, 0}); b.Name != Air.Name {
		t.Fatalf("expected air above the world, got %v", b.Name)
	}
}

func TestCleanChunks(t *testing.T) {
	w := New(nil)
	w.LoadArea(cube.Pos{-64, 0, -64}, cube.Pos{64, 0, 64})
	w.CleanChunks(2, protocol.ChunkPos{0, 0})
	if !w.IsChunkLoaded(1, 1) {
		t.Fatalf("expected chunk within radius to stay loaded")
	}
	if w.IsChunkLoaded(4, 0) {
		t.Fatalf("expected chunk outside radius to be unloaded")
	}
	w.PurgeChunks()
	if w.IsChunkLoaded(0, 0) {
		t.Fatalf("expected all chunks to be purged")
	}
}
