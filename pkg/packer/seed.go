package packer

import "time"

// maxSeed bounds serialized seeds to the documented range 0 <= seed < 1e9.
const maxSeed = 1_000_000_000

// SeedSource supplies seeds when the session has none configured. The
// default derives seeds from the wall clock, which is deliberately
// non-reproducible; tests and reproducible workflows inject a fixed
// source or set the seed option explicitly.
type SeedSource interface {
	Seed() int64
}

// timeSeedSource is the default, wall-clock-derived seed source.
type timeSeedSource struct{}

func (timeSeedSource) Seed() int64 {
	return time.Now().UnixNano()
}

// boundSeed reduces any seed value into the serializable range. Explicit
// and derived seeds pass through the same reduction so a supplied seed is
// deterministic.
func boundSeed(v int64) int64 {
	if v < 0 {
		v = -v
	}
	return v % maxSeed
}
