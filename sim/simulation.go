// Package sim drives a cache model over a stream of memory-access
// records, classifying each access and accumulating hit, miss, and
// eviction counts.
package sim

import (
	"fmt"

	"github.com/sarchlab/cachesim/cache"
)

// Kind identifies the instruction kind of an access record.
type Kind int

const (
	// KindLoad is a data load.
	KindLoad Kind = iota
	// KindStore is a data store. Loads and stores classify identically;
	// no dirty-bit or write-back behavior is modeled.
	KindStore
	// KindModify is a load immediately followed by a store to the same
	// address.
	KindModify
	// KindIgnore is an instruction fetch record, skipped entirely.
	KindIgnore
)

// String returns the trace-file letter for the kind.
func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "L"
	case KindStore:
		return "S"
	case KindModify:
		return "M"
	case KindIgnore:
		return "I"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// An Access is one normalized memory-access record. Size is the byte
// count reported by the trace; it never affects classification.
type Access struct {
	Kind    Kind
	Address uint64
	Size    int
}

// Statistics holds the running access counts for one simulation.
type Statistics struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// A Simulation owns the cache state and counters for one trace replay.
type Simulation struct {
	config cache.Config
	store  *cache.Store
	stats  Statistics
}

// New creates a Simulation with cold cache state. It fails if the
// geometry is invalid; the error wraps cache.ErrGeometry.
func New(config cache.Config) (*Simulation, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Simulation{
		config: config,
		store:  cache.NewStore(config.NumSets(), config.LinesPerSet),
	}, nil
}

// Config returns the simulation's cache geometry.
func (s *Simulation) Config() cache.Config {
	return s.config
}

// Stats returns a snapshot of the counters. It is authoritative once the
// whole trace has been processed.
func (s *Simulation) Stats() Statistics {
	return s.stats
}

// Store exposes the underlying line metadata, mainly for inspection in
// tests and diagnostics.
func (s *Simulation) Store() *cache.Store {
	return s.store
}

// Reset restores cold cache state and clears the counters.
func (s *Simulation) Reset() {
	s.store.Reset()
	s.stats = Statistics{}
}

// Teardown releases the cache storage. The simulation must not be used
// afterwards.
func (s *Simulation) Teardown() {
	s.store = nil
}

// Process classifies one access record, updating cache state and
// counters. The returned Event carries the outcome of each resolver
// pass for diagnostic printing. An unknown kind fails before any state
// is touched.
func (s *Simulation) Process(a Access) (Event, error) {
	if s.store == nil {
		return Event{}, fmt.Errorf("simulation already torn down")
	}

	ev := Event{Access: a}

	switch a.Kind {
	case KindIgnore:
		return ev, nil

	case KindLoad, KindStore:
		ev.Outcomes = append(ev.Outcomes, s.resolve(a.Address))

	case KindModify:
		// The implicit load installs the tag, so the implicit store that
		// follows it must hit.
		ev.Outcomes = append(ev.Outcomes, s.resolve(a.Address))

		second := s.resolve(a.Address)
		if second != cache.Hit {
			panic(fmt.Sprintf(
				"sim: modify store at %#x resolved as %v, want hit",
				a.Address, second))
		}
		ev.Outcomes = append(ev.Outcomes, second)

	default:
		return Event{}, fmt.Errorf("unknown access kind: %d", int(a.Kind))
	}

	return ev, nil
}

// resolve runs one resolver pass for the address and counts the
// outcome.
func (s *Simulation) resolve(addr uint64) cache.Outcome {
	tag, setIndex := cache.Decode(
		addr, s.config.SetIndexBits, s.config.BlockOffsetBits)
	result := s.store.Resolve(setIndex, tag)

	switch result.Outcome {
	case cache.Hit:
		s.stats.Hits++
	case cache.Miss:
		s.stats.Misses++
	case cache.MissEviction:
		s.stats.Misses++
		s.stats.Evictions++
	}

	return result.Outcome
}
