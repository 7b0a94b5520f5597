package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/rand"
)

// Source supplies every random decision the engine makes: die faces and deck shuffles.
type Source interface {
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
	// Shuffle permutes n elements through swap
	Shuffle(n int, swap func(i, j int))
}

// SeededSource is a deterministic PCG-backed Source whose state can be persisted
type SeededSource struct {
	*rand.Rand
	pcg  *rand.PCGSource
	seed uint64
}

// NewSeededSource creates a Source that replays identically for the same seed
func NewSeededSource(seed uint64) *SeededSource {
	pcg := &rand.PCGSource{}
	pcg.Seed(seed)
	return &SeededSource{
		Rand: rand.New(pcg),
		pcg:  pcg,
		seed: seed,
	}
}

// Seed returns the seed the source was created with
func (s *SeededSource) Seed() uint64 {
	return s.seed
}

// MarshalBinary captures the current generator position
func (s *SeededSource) MarshalBinary() ([]byte, error) {
	return s.pcg.MarshalBinary()
}

// UnmarshalBinary restores a generator position captured by MarshalBinary
func (s *SeededSource) UnmarshalBinary(data []byte) error {
	return s.pcg.UnmarshalBinary(data)
}

// NewSeed generates a random seed using crypto/rand
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
