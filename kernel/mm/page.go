package mm

// Frame describes a physical memory section index.
type Frame uint32

// Address returns the physical address of the first byte of this Frame.
func (f Frame) Address() PhysAddr {
	return PhysAddr(uint32(f) << SectionShift)
}

// FrameFromAddress returns the Frame that contains the given physical
// address. Addresses that are not section-aligned are rounded down to the
// frame that contains them.
func FrameFromAddress(physAddr PhysAddr) Frame {
	return Frame(uint32(physAddr) >> SectionShift)
}

// Page describes a virtual memory section index.
type Page uint32

// Address returns the virtual address of the first byte of this Page.
func (p Page) Address() VirtAddr {
	return VirtAddr(uint32(p) << SectionShift)
}

// PageFromAddress returns the Page that contains the given virtual address.
// This function can handle both aligned and not aligned virtual addresses.
// In the latter case, the input address will be rounded down to the page
// that contains it.
func PageFromAddress(virtAddr VirtAddr) Page {
	return Page(PageNumber(virtAddr))
}
