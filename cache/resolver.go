package cache

import "fmt"

// Outcome classifies a single resolved access.
type Outcome int

const (
	// Hit means the tag was already present in a valid line.
	Hit Outcome = iota
	// Miss means the tag was installed in an invalid line.
	Miss
	// MissEviction means every line was valid and the least recently
	// used one was overwritten.
	MissEviction
)

// String returns the outcome words used in verbose trace output.
func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case MissEviction:
		return "miss eviction"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// AccessResult reports how an access resolved and which slot served it.
type AccessResult struct {
	Outcome Outcome
	Slot    int
}

// Resolve looks up tag in the set at setIndex, filling or evicting a
// line if needed, and refreshes the recency order of the slot that
// served the access. Each phase scans slots in ascending order and the
// first qualifying slot wins, so resolution is deterministic.
func (s *Store) Resolve(setIndex uint64, tag uint64) AccessResult {
	set := s.Set(setIndex)

	// Hit: a valid line already holds the tag.
	for i := range set.Lines {
		if set.Lines[i].Valid && set.Lines[i].Tag == tag {
			set.Touch(i)
			return AccessResult{Outcome: Hit, Slot: i}
		}
	}

	// Fill: claim the first invalid line.
	for i := range set.Lines {
		if !set.Lines[i].Valid {
			set.Lines[i].Valid = true
			set.Lines[i].Tag = tag
			set.Touch(i)
			return AccessResult{Outcome: Miss, Slot: i}
		}
	}

	// Evict: the set is full, so exactly one line carries the bottom
	// rank. Overwrite it.
	for i := range set.Lines {
		if set.Lines[i].Rank == s.linesPerSet-1 {
			set.Lines[i].Tag = tag
			set.Touch(i)
			return AccessResult{Outcome: MissEviction, Slot: i}
		}
	}

	// Unreachable while the rank permutation invariant holds: a full set
	// always contains a line with the bottom rank.
	panic(fmt.Sprintf("cache: set %d has no eviction candidate", setIndex))
}
