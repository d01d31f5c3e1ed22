package mm

const (
	// SectionShift is equal to log2(SectionSize). A virtual address is
	// converted to a section table index by shifting right by SectionShift.
	SectionShift = 20

	// SectionSize defines the number of bytes mapped by a single section
	// table entry.
	SectionSize = uint32(1 << SectionShift)

	// OffsetMask selects the offset of an address within its section.
	OffsetMask = SectionSize - 1

	// TableIndexBits is the number of address bits that select a section
	// table entry.
	TableIndexBits = 32 - SectionShift

	// TableEntries is the number of entries in the section table. The table
	// covers the full 4G address space with a single level.
	TableEntries = 1 << TableIndexBits

	tableIndexMask = uint32(TableEntries - 1)
)
