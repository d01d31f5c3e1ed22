package vmm

import (
	"sync/atomic"

	"pios/kernel"
	"pios/kernel/mm"
	"pios/kernel/sync"
)

// SectionTable is the single-level translation table read by the MMU. The
// hardware sees only the entries array: 4096 consecutive 32-bit words, one
// per 1M section of the virtual address space. The table base register
// requires the array to be 16K aligned.
//
// The MMU reads entries concurrently with any update, so every slot is
// written with a single aligned 32-bit atomic store. Writers are serialised
// by a spinlock so that multi-section updates do not interleave. TLB and
// cache maintenance after an update is the caller's responsibility.
type SectionTable struct {
	entries [mm.TableEntries]uint32

	lock sync.Spinlock
}

// Entry returns the entry that translates the given virtual page. Pages
// outside the table read as fault entries.
func (t *SectionTable) Entry(page mm.Page) SectionEntry {
	if page >= mm.TableEntries {
		return 0
	}
	return SectionEntry(atomic.LoadUint32(&t.entries[page]))
}

// Lookup returns the entry that translates virtAddr.
func (t *SectionTable) Lookup(virtAddr mm.VirtAddr) SectionEntry {
	return t.Entry(mm.PageFromAddress(virtAddr))
}

// Set stores entry in the slot for page. It returns ErrInvalidSection if
// page lies outside the table.
func (t *SectionTable) Set(page mm.Page, entry SectionEntry) *kernel.Error {
	if page >= mm.TableEntries {
		return ErrInvalidSection
	}

	t.lock.Acquire()
	t.store(page, entry)
	t.lock.Release()
	return nil
}

func (t *SectionTable) store(page mm.Page, entry SectionEntry) {
	atomic.StoreUint32(&t.entries[page], uint32(entry))
}

// Map establishes a mapping from the virtual page to the physical frame
// using the given permission and attribute flags. Only FlagCacheable,
// FlagBufferable and FlagExecuteNever may be passed. Any existing mapping
// for the page is replaced.
func (t *SectionTable) Map(page mm.Page, frame mm.Frame, perm Permission, flags SectionEntryFlag) *kernel.Error {
	if page >= mm.TableEntries || frame >= mm.TableEntries {
		return ErrInvalidSection
	}

	entry, err := newSectionEntry(frame.Address(), perm, flags)
	if err != nil {
		return err
	}

	return t.Set(page, entry)
}

// MapRegion maps size bytes starting at virtAddr to the physical region
// starting at physAddr. Both addresses must be section aligned; size is
// rounded up to a whole number of sections. The table is left untouched if
// any argument is rejected.
func (t *SectionTable) MapRegion(virtAddr mm.VirtAddr, physAddr mm.PhysAddr, size mm.Size, perm Permission, flags SectionEntryFlag) *kernel.Error {
	if !mm.IsSectionAligned(uint32(virtAddr)) {
		return ErrInvalidAlignment
	}

	// Validates physAddr, perm and flags once for the whole region.
	entry, err := newSectionEntry(physAddr, perm, flags)
	if err != nil {
		return err
	}

	count := size.Sections()
	if uint64(mm.PageNumber(virtAddr))+count > mm.TableEntries ||
		uint64(mm.PageNumber(mm.VirtAddr(physAddr)))+count > mm.TableEntries {
		return ErrAddressOverflow
	}

	page := mm.PageFromAddress(virtAddr)

	t.lock.Acquire()
	for i := uint32(0); i < uint32(count); i++ {
		t.store(page+mm.Page(i), entry+SectionEntry(i<<mm.SectionShift))
	}
	t.lock.Release()

	return nil
}

// Unmap removes the mapping for page. It returns ErrInvalidSection if page
// lies outside the table and ErrTranslationFault if the page is not mapped
// to a section.
func (t *SectionTable) Unmap(page mm.Page) *kernel.Error {
	if page >= mm.TableEntries {
		return ErrInvalidSection
	}

	t.lock.Acquire()
	defer t.lock.Release()

	if !t.Entry(page).Translates() {
		return ErrTranslationFault
	}

	t.store(page, 0)
	return nil
}

// Walk invokes fn for every entry that does not generate a translation
// fault, in ascending virtual address order. Walk stops when fn returns
// false.
func (t *SectionTable) Walk(fn func(page mm.Page, entry SectionEntry) bool) {
	for page := mm.Page(0); page < mm.TableEntries; page++ {
		entry := t.Entry(page)
		if entry.IsFault() {
			continue
		}

		if !fn(page, entry) {
			return
		}
	}
}
