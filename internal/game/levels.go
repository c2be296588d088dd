package game

import (
	"math/rand"

	"homebound/internal/generate"
	"homebound/internal/level"
)

// randomLevel builds a generated puzzle sized by opts.
func randomLevel(rng *rand.Rand, opts Options) *level.Level {
	return generate.Random(rng, opts.RandomWidth, opts.RandomHeight)
}

// LoadLevels reads a level file. It is a thin wrapper so callers only
// import this package.
func LoadLevels(path string) ([]*level.Level, error) {
	return level.LoadFile(path)
}
