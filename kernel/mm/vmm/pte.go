package vmm

import (
	"pios/kernel"
	"pios/kernel/mm"
)

// EntryType is the descriptor type held in bits [1:0] of a section table
// entry.
type EntryType uint8

// Section table entry types.
const (
	// EntryFault generates a translation fault on access.
	EntryFault EntryType = iota

	// EntryCoarse points to a second-level coarse page table. The kernel
	// only uses 1M sections so these entries are rejected.
	EntryCoarse

	// EntrySection maps a 1M section.
	EntrySection

	// EntryReserved is architecturally reserved and also faults.
	EntryReserved
)

// String implements fmt.Stringer.
func (t EntryType) String() string {
	switch t {
	case EntryFault:
		return "fault"
	case EntryCoarse:
		return "coarse"
	case EntrySection:
		return "section"
	default:
		return "reserved"
	}
}

// SectionEntryFlag describes a cache or execution attribute of a section.
type SectionEntryFlag uint32

const (
	// FlagBufferable allows writes to the section to be buffered.
	FlagBufferable SectionEntryFlag = 1 << 2

	// FlagCacheable allows the section contents to be cached.
	FlagCacheable SectionEntryFlag = 1 << 3

	// FlagExecuteNever prevents instruction fetches from the section in
	// every processor mode.
	FlagExecuteNever SectionEntryFlag = 1 << 4

	attributeFlagMask = FlagBufferable | FlagCacheable | FlagExecuteNever
)

const (
	entryTypeMask = uint32(3)

	domainShift = 5
	domainMask  = uint32(0xf << domainShift)

	// sectionBaseMask selects the physical section base address. All flag
	// bits live below it.
	sectionBaseMask = ^mm.OffsetMask
)

// SectionEntry is a raw 32-bit section table entry:
//
//	31         20 19  16 15 14  12 11 10 9 8    5 4  3 2 1 0
//	+------------+------+---+------+-----+-+------+--+-+-+---+
//	|section base| zero |APX| zero | AP  |0|domain|XN|C|B|type|
//	+------------+------+---+------+-----+-+------+--+-+-+---+
//
// Entries are values; a mapping is changed by storing a new entry in the
// table, never by editing one in place.
type SectionEntry uint32

// NewSectionEntry returns a section entry mapping the 1M section that starts
// at base with the given permission and attributes. The entry uses domain 0.
func NewSectionEntry(base mm.PhysAddr, perm Permission, cacheable, bufferable, executeNever bool) (SectionEntry, *kernel.Error) {
	var flags SectionEntryFlag
	if cacheable {
		flags |= FlagCacheable
	}
	if bufferable {
		flags |= FlagBufferable
	}
	if executeNever {
		flags |= FlagExecuteNever
	}

	return newSectionEntry(base, perm, flags)
}

func newSectionEntry(base mm.PhysAddr, perm Permission, flags SectionEntryFlag) (SectionEntry, *kernel.Error) {
	if !mm.IsSectionAligned(uint32(base)) {
		return 0, ErrInvalidAlignment
	}

	if flags&^attributeFlagMask != 0 {
		return 0, ErrInvalidFlags
	}

	permBits, ok := perm.bits()
	if !ok {
		return 0, ErrInvalidPermission
	}

	return SectionEntry(uint32(base) | permBits | uint32(flags) | uint32(EntrySection)), nil
}

// Type returns the descriptor type encoded in the entry.
func (e SectionEntry) Type() EntryType {
	return EntryType(uint32(e) & entryTypeMask)
}

// IsFault returns true if accessing the section generates a translation
// fault. Fault entries carry no other meaning.
func (e SectionEntry) IsFault() bool {
	t := e.Type()
	return t == EntryFault || t == EntryReserved
}

// Translates returns true if the entry maps a section.
func (e SectionEntry) Translates() bool {
	return e.Type() == EntrySection
}

// BaseAddress returns the physical base address stored in the entry. The
// value is only meaningful when Type() returns EntrySection.
func (e SectionEntry) BaseAddress() mm.PhysAddr {
	return mm.PhysAddr(uint32(e) & sectionBaseMask)
}

// Frame returns the physical frame that this entry points to.
func (e SectionEntry) Frame() mm.Frame {
	return mm.FrameFromAddress(e.BaseAddress())
}

// Domain returns the access control domain of the section.
func (e SectionEntry) Domain() uint8 {
	return uint8((uint32(e) & domainMask) >> domainShift)
}

// HasFlags returns true if this entry has all the input flags set.
func (e SectionEntry) HasFlags(flags SectionEntryFlag) bool {
	return (uint32(e) & uint32(flags)) == uint32(flags)
}

// HasAnyFlag returns true if this entry has at least one of the input flags set.
func (e SectionEntry) HasAnyFlag(flags SectionEntryFlag) bool {
	return (uint32(e) & uint32(flags)) != 0
}

// Permission returns the access permission encoded in the entry.
func (e SectionEntry) Permission() (Permission, *kernel.Error) {
	perm, ok := permissionFromBits(uint32(e))
	if !ok {
		return permissionInvalid, ErrInvalidPermission
	}
	return perm, nil
}

// Section is the decoded form of a section entry.
type Section struct {
	Base         mm.PhysAddr
	Permission   Permission
	Cacheable    bool
	Bufferable   bool
	ExecuteNever bool
}

// Decode checks the entry type and unpacks a section entry. It returns
// ErrTranslationFault for fault and reserved entries, ErrUnsupportedEntryType
// for coarse page table entries and ErrInvalidPermission if the APX/AP bits
// hold a combination the kernel never emits.
func (e SectionEntry) Decode() (Section, *kernel.Error) {
	switch e.Type() {
	case EntrySection:
	case EntryCoarse:
		return Section{}, ErrUnsupportedEntryType
	default:
		return Section{}, ErrTranslationFault
	}

	perm, err := e.Permission()
	if err != nil {
		return Section{}, err
	}

	return Section{
		Base:         e.BaseAddress(),
		Permission:   perm,
		Cacheable:    e.HasFlags(FlagCacheable),
		Bufferable:   e.HasFlags(FlagBufferable),
		ExecuteNever: e.HasFlags(FlagExecuteNever),
	}, nil
}

// Entry encodes s back into a section entry.
func (s Section) Entry() (SectionEntry, *kernel.Error) {
	return NewSectionEntry(s.Base, s.Permission, s.Cacheable, s.Bufferable, s.ExecuteNever)
}
