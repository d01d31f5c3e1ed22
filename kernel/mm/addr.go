// Package mm contains the address arithmetic shared by the memory management
// code. The MMU translates addresses through a single-level table of 1M
// sections, so an address splits into exactly two parts:
//
//	+--------12------------+------------20-------------+
//	|  Section table index |   Offset within section   |
//	+----------------------+---------------------------+
//	\-- TableIndex(addr) -/ \----- Offset(addr) ------/
//	\-- PageNumber(addr) -/
//
// There is no directory level above the section table.
package mm

// VirtAddr is a 32-bit virtual (linear) address.
type VirtAddr uint32

// PhysAddr is a 32-bit physical address.
type PhysAddr uint32

// TableIndex returns the section table index selected by addr.
func TableIndex(addr VirtAddr) uint32 {
	return (uint32(addr) >> SectionShift) & tableIndexMask
}

// PageNumber returns the section number of addr. With a single translation
// level this always equals TableIndex.
func PageNumber(addr VirtAddr) uint32 {
	return uint32(addr) >> SectionShift
}

// Offset returns the offset of addr within its section.
func Offset(addr VirtAddr) uint32 {
	return uint32(addr) & OffsetMask
}

// Compose builds a virtual address from a section table index and an offset
// within the section. Bits of either argument that fall outside its field
// are discarded, so Compose(TableIndex(a), Offset(a)) == a for every a.
func Compose(index, offset uint32) VirtAddr {
	return VirtAddr((index&tableIndexMask)<<SectionShift | offset&OffsetMask)
}

// IsSectionAligned returns true if addr is the first byte of a section.
func IsSectionAligned(addr uint32) bool {
	return addr&OffsetMask == 0
}
