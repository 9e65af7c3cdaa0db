package internal

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/zeebo/xxh3"
)

// HasherPool holds reusable xxh3 hashers. Hashers taken from the pool are reset.
var HasherPool = sync.Pool{
	New: func() interface{} {
		return xxh3.New()
	},
}

// Hasher takes a reset hasher from HasherPool.
func Hasher() *xxh3.Hasher {
	h := HasherPool.Get().(*xxh3.Hasher)
	h.Reset()
	return h
}

// PositionSetPool holds reusable maps used to deduplicate block positions.
var PositionSetPool = sync.Pool{
	New: func() interface{} {
		return make(map[cube.Pos]struct{})
	},
}

// PositionSet takes an empty set from PositionSetPool. It should be returned with ReleasePositionSet.
func PositionSet() map[cube.Pos]struct{} {
	return PositionSetPool.Get().(map[cube.Pos]struct{})
}

// ReleasePositionSet clears the set and returns it to PositionSetPool.
func ReleasePositionSet(set map[cube.Pos]struct{}) {
	clear(set)
	PositionSetPool.Put(set)
}
