package cache

// A Line holds the metadata tracked for one cache line. No data bytes
// are stored; the simulator only classifies accesses.
type Line struct {
	Valid bool
	Tag   uint64

	// Rank is the line's position in the recency order of its set.
	// Rank 0 is the most recently used valid line; rank LinesPerSet-1 is
	// the eviction candidate. Among the valid lines of a set the ranks
	// always form a permutation of 0..k-1, k being the valid-line count.
	Rank int
}

// A Set is a fixed group of lines that one range of set indices maps to.
type Set struct {
	Lines []Line
}

// Touch marks the line in the given slot as the most recently used line
// of the set. Every valid line whose rank is at most the touched line's
// prior rank shifts down one position; the touched line moves to rank 0.
// Lines that were already less recent keep their ranks.
func (s *Set) Touch(slot int) {
	prev := s.Lines[slot].Rank

	for i := range s.Lines {
		line := &s.Lines[i]
		if !line.Valid || line.Rank > prev {
			continue
		}

		if line.Rank == prev {
			line.Rank = 0
		} else {
			line.Rank++
		}
	}
}

// A Store is the full line-metadata array of a cache, numSets sets of
// linesPerSet lines each. It is allocated once per simulation run.
type Store struct {
	sets        []Set
	linesPerSet int
}

// NewStore creates a Store with all lines invalid and each line's rank
// initialized to its slot index.
func NewStore(numSets, linesPerSet int) *Store {
	s := &Store{
		sets:        make([]Set, numSets),
		linesPerSet: linesPerSet,
	}
	for i := range s.sets {
		s.sets[i].Lines = make([]Line, linesPerSet)
	}
	s.Reset()

	return s
}

// NumSets returns the number of sets in the store.
func (s *Store) NumSets() int {
	return len(s.sets)
}

// LinesPerSet returns the associativity of the store.
func (s *Store) LinesPerSet() int {
	return s.linesPerSet
}

// Set returns the set at the given index.
func (s *Store) Set(setIndex uint64) *Set {
	return &s.sets[setIndex]
}

// Sets returns all sets in the store.
func (s *Store) Sets() []Set {
	return s.sets
}

// Reset invalidates every line and restores the initial slot-index
// ranks.
func (s *Store) Reset() {
	for i := range s.sets {
		for j := range s.sets[i].Lines {
			s.sets[i].Lines[j] = Line{Rank: j}
		}
	}
}
