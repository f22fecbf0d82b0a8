package sim

import (
	"hash/fnv"
	"math/rand"
)

// Random streams. Each draws from its own source so that, for example, an
// extra escalation draw never shifts the category sequence.
const (
	SubsystemSpawn     = "spawn"     // origin category of new patients; seeded with the clinic seed itself
	SubsystemCare      = "care"      // hepatologist escalation decisions
	SubsystemPlacement = "placement" // jittered standing point inside a nurse room
)

// PartitionedRNG hands out one seeded *rand.Rand per named stream. Streams
// other than SubsystemSpawn are seeded with seed XOR fnv1a64(name).
// NOT thread-safe.
type PartitionedRNG struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates the streams of a clinic seeded with seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{seed: seed, streams: make(map[string]*rand.Rand, 3)}
}

// ForSubsystem returns the stream for name, creating it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.streams[name]; ok {
		return r
	}
	r := rand.New(rand.NewSource(streamSeed(p.seed, name)))
	p.streams[name] = r
	return r
}

// Reseed drops every stream; later draws restart from the seed.
func (p *PartitionedRNG) Reseed() {
	clear(p.streams)
}

func streamSeed(seed int64, name string) int64 {
	if name == SubsystemSpawn {
		return seed
	}
	return seed ^ fnv1a64(name)
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
