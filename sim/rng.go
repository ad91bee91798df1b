package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey identifies a reproducible workload. Two generator runs with
// the same key and configuration produce identical customers.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemArrivals drives inter-arrival gaps. It uses the master seed
	// directly.
	SubsystemArrivals = "arrivals"

	// SubsystemService drives service durations.
	SubsystemService = "service"
)

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem,
// so drawing more arrival gaps never shifts the service durations.
//
// Derivation formula:
//   - For SubsystemArrivals: masterSeed
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same name always returns the same cached instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	seed := int64(p.key)
	if name != SubsystemArrivals {
		seed ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
