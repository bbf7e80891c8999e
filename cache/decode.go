package cache

// Decode splits a memory address into its tag and set index under the
// given geometry. The set index is the setBits bits immediately above
// the block offset; the tag is everything above those.
//
// When setBits+offsetBits equals AddressWidth there are no tag bits
// left, and the tag is 0 rather than the result of a full-width shift.
func Decode(addr uint64, setBits, offsetBits int) (tag, setIndex uint64) {
	setIndex = (addr >> offsetBits) & (uint64(1)<<setBits - 1)

	tagShift := setBits + offsetBits
	if tagShift >= AddressWidth {
		return 0, setIndex
	}

	return addr >> tagShift, setIndex
}
