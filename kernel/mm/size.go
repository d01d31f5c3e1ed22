package mm

// Size represents a memory block size in bytes.
type Size uint64

// Common memory block sizes.
const (
	Byte Size = 1
	Kb        = 1024 * Byte
	Mb        = 1024 * Kb
	Gb        = 1024 * Mb
)

// Sections returns the number of whole sections needed to hold a block of
// this size.
func (s Size) Sections() uint64 {
	sections := uint64(s) >> SectionShift
	if uint64(s)&uint64(OffsetMask) != 0 {
		sections++
	}
	return sections
}
