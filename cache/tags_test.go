package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

// ranksArePermutation checks that the valid lines of a set carry the
// ranks 0..k-1 with no duplicates, k being the valid-line count.
func ranksArePermutation(set *cache.Set) bool {
	seen := map[int]bool{}
	valid := 0

	for _, line := range set.Lines {
		if !line.Valid {
			continue
		}
		valid++
		if seen[line.Rank] {
			return false
		}
		seen[line.Rank] = true
	}

	for r := 0; r < valid; r++ {
		if !seen[r] {
			return false
		}
	}

	return true
}

var _ = Describe("Store", func() {
	var store *cache.Store

	BeforeEach(func() {
		store = cache.NewStore(4, 3)
	})

	Describe("NewStore", func() {
		It("should create all lines invalid", func() {
			for _, set := range store.Sets() {
				for _, line := range set.Lines {
					Expect(line.Valid).To(BeFalse())
					Expect(line.Tag).To(Equal(uint64(0)))
				}
			}
		})

		It("should initialize each rank to its slot index", func() {
			for _, set := range store.Sets() {
				for slot, line := range set.Lines {
					Expect(line.Rank).To(Equal(slot))
				}
			}
		})

		It("should report its geometry", func() {
			Expect(store.NumSets()).To(Equal(4))
			Expect(store.LinesPerSet()).To(Equal(3))
		})
	})

	Describe("Touch", func() {
		var set *cache.Set

		BeforeEach(func() {
			set = store.Set(0)
			for slot := range set.Lines {
				set.Lines[slot].Valid = true
			}
		})

		It("should move the touched line to rank 0", func() {
			set.Touch(2)
			Expect(set.Lines[2].Rank).To(Equal(0))
		})

		It("should shift formerly more recent lines down by one", func() {
			// Ranks start 0,1,2. Touching the rank-2 line pushes the
			// other two down.
			set.Touch(2)
			Expect(set.Lines[0].Rank).To(Equal(1))
			Expect(set.Lines[1].Rank).To(Equal(2))
		})

		It("should leave less recent lines untouched", func() {
			// Touch the rank-1 line: the rank-2 line stays put.
			set.Touch(1)
			Expect(set.Lines[0].Rank).To(Equal(1))
			Expect(set.Lines[1].Rank).To(Equal(0))
			Expect(set.Lines[2].Rank).To(Equal(2))
		})

		It("should be a no-op on the most recently used line", func() {
			set.Touch(0)
			set.Touch(0)
			Expect(set.Lines[0].Rank).To(Equal(0))
			Expect(set.Lines[1].Rank).To(Equal(1))
			Expect(set.Lines[2].Rank).To(Equal(2))
		})

		It("should skip invalid lines", func() {
			set.Lines[1].Valid = false
			set.Touch(2)
			Expect(set.Lines[1].Rank).To(Equal(1))
			Expect(set.Lines[0].Rank).To(Equal(1))
			Expect(set.Lines[2].Rank).To(Equal(0))
		})

		It("should preserve the rank permutation under any sequence", func() {
			sequence := []int{2, 0, 1, 1, 2, 0, 2, 2, 1, 0}
			for _, slot := range sequence {
				set.Touch(slot)
				Expect(ranksArePermutation(set)).To(BeTrue())
			}
		})
	})

	Describe("Reset", func() {
		It("should restore the cold state", func() {
			set := store.Set(1)
			set.Lines[0].Valid = true
			set.Lines[0].Tag = 0x42
			set.Touch(0)

			store.Reset()

			for _, set := range store.Sets() {
				for slot, line := range set.Lines {
					Expect(line.Valid).To(BeFalse())
					Expect(line.Tag).To(Equal(uint64(0)))
					Expect(line.Rank).To(Equal(slot))
				}
			}
		})
	})
})
