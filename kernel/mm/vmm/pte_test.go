package vmm

import (
	"testing"

	"pios/kernel/mm"
)

func TestNewSectionEntryAlignment(t *testing.T) {
	specs := []struct {
		base   mm.PhysAddr
		expErr bool
	}{
		{0x00000000, false},
		{0x00100000, false},
		{0xfff00000, false},
		{0x00100001, true},
		{0x000fffff, true},
		{0x20080000, true},
	}

	for specIndex, spec := range specs {
		entry, err := NewSectionEntry(spec.base, SupervisorReadWriteUserNone, false, false, false)
		switch {
		case spec.expErr && err != ErrInvalidAlignment:
			t.Errorf("[spec %d] expected ErrInvalidAlignment; got %v", specIndex, err)
		case spec.expErr && entry != 0:
			t.Errorf("[spec %d] expected a zero entry on error; got 0x%x", specIndex, entry)
		case !spec.expErr && err != nil:
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
		case !spec.expErr && entry.BaseAddress() != spec.base:
			t.Errorf("[spec %d] expected base 0x%x; got 0x%x", specIndex, spec.base, entry.BaseAddress())
		}
	}
}

func TestNewSectionEntryEncoding(t *testing.T) {
	specs := []struct {
		base         mm.PhysAddr
		perm         Permission
		cacheable    bool
		bufferable   bool
		executeNever bool
		exp          SectionEntry
	}{
		{0x00200000, SupervisorReadWriteUserReadOnly, true, false, false, 0x0020080a},
		{0x00000000, SupervisorReadOnlyUserReadOnly, false, false, false, 0x00008c02},
		{0x80000000, SupervisorReadOnlyUserNone, true, true, false, 0x8000840e},
		{0x20000000, SupervisorReadWriteUserNone, false, false, true, 0x20000412},
		{0xfff00000, SupervisorReadWriteUserReadWrite, true, true, true, 0xfff00c1e},
	}

	for specIndex, spec := range specs {
		entry, err := NewSectionEntry(spec.base, spec.perm, spec.cacheable, spec.bufferable, spec.executeNever)
		if err != nil {
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
			continue
		}

		if entry != spec.exp {
			t.Errorf("[spec %d] expected entry 0x%08x; got 0x%08x", specIndex, uint32(spec.exp), uint32(entry))
		}

		if got := entry.Domain(); got != 0 {
			t.Errorf("[spec %d] expected domain 0; got %d", specIndex, got)
		}
	}
}

func TestNewSectionEntryRejectsInvalidPermission(t *testing.T) {
	for _, perm := range []Permission{permissionInvalid, Permission(6), Permission(255)} {
		if _, err := NewSectionEntry(0x00100000, perm, false, false, false); err != ErrInvalidPermission {
			t.Errorf("expected ErrInvalidPermission for permission %d; got %v", perm, err)
		}
	}
}

func TestSectionEntryDecode(t *testing.T) {
	entry, err := NewSectionEntry(0x00200000, SupervisorReadWriteUserReadOnly, true, false, false)
	if err != nil {
		t.Fatal(err)
	}

	if got := entry.Type(); got != EntrySection {
		t.Fatalf("expected entry type to be %s; got %s", EntrySection, got)
	}

	section, err := entry.Decode()
	if err != nil {
		t.Fatal(err)
	}

	exp := Section{
		Base:       0x00200000,
		Permission: SupervisorReadWriteUserReadOnly,
		Cacheable:  true,
	}
	if section != exp {
		t.Fatalf("expected decoded section to be %+v; got %+v", exp, section)
	}

	if got := section.Permission.Privileged(); got != AccessReadWrite {
		t.Errorf("expected privileged access to be %s; got %s", AccessReadWrite, got)
	}

	if got := section.Permission.Unprivileged(); got != AccessReadOnly {
		t.Errorf("expected unprivileged access to be %s; got %s", AccessReadOnly, got)
	}

	reencoded, err := section.Entry()
	if err != nil {
		t.Fatal(err)
	}
	if reencoded != entry {
		t.Fatalf("expected re-encoded entry to be 0x%x; got 0x%x", entry, reencoded)
	}
}

func TestSectionEntryClassification(t *testing.T) {
	specs := []struct {
		entry    SectionEntry
		expType  EntryType
		expFault bool
		expErr   error
	}{
		{0x00000000, EntryFault, true, ErrTranslationFault},
		{0xfffffffc, EntryFault, true, ErrTranslationFault},
		{0x00200c08, EntryFault, true, ErrTranslationFault},
		{0x00200c0b, EntryReserved, true, ErrTranslationFault},
		{0x00200001, EntryCoarse, false, ErrUnsupportedEntryType},
		{0xfffffffd, EntryCoarse, false, ErrUnsupportedEntryType},
		// section with APX=0 AP=00 (no access at all) is never emitted
		{0x00200002, EntrySection, false, ErrInvalidPermission},
		{0x00208002, EntrySection, false, ErrInvalidPermission},
		{0x00200c02, EntrySection, false, nil},
	}

	for specIndex, spec := range specs {
		if got := spec.entry.Type(); got != spec.expType {
			t.Errorf("[spec %d] expected type %s; got %s", specIndex, spec.expType, got)
		}

		if got := spec.entry.IsFault(); got != spec.expFault {
			t.Errorf("[spec %d] expected IsFault() to return %t; got %t", specIndex, spec.expFault, got)
		}

		if got := spec.entry.Translates(); got != (spec.expType == EntrySection) {
			t.Errorf("[spec %d] expected Translates() to return %t; got %t", specIndex, spec.expType == EntrySection, got)
		}

		_, err := spec.entry.Decode()
		switch {
		case spec.expErr == nil && err != nil:
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
		case spec.expErr != nil && (err == nil || error(err) != spec.expErr):
			t.Errorf("[spec %d] expected error %v; got %v", specIndex, spec.expErr, err)
		}
	}
}

func TestSectionEntryBaseAddressIgnoresFlags(t *testing.T) {
	specs := []struct {
		entry SectionEntry
		exp   mm.PhysAddr
	}{
		{0x00000000, 0x00000000},
		{0x000fffff, 0x00000000},
		{0x0020080a, 0x00200000},
		{0xfffffffe, 0xfff00000},
		{0xabcfffff, 0xabc00000},
	}

	for specIndex, spec := range specs {
		if got := spec.entry.BaseAddress(); got != spec.exp {
			t.Errorf("[spec %d] expected base address of 0x%x to be 0x%x; got 0x%x", specIndex, spec.entry, spec.exp, got)
		}

		if got, exp := spec.entry.Frame(), mm.FrameFromAddress(spec.exp); got != exp {
			t.Errorf("[spec %d] expected frame %d; got %d", specIndex, exp, got)
		}
	}
}

func TestSectionEntryFlags(t *testing.T) {
	entry, err := NewSectionEntry(0x00300000, SupervisorReadWriteUserNone, true, true, true)
	if err != nil {
		t.Fatal(err)
	}

	if !entry.HasFlags(FlagCacheable | FlagBufferable | FlagExecuteNever) {
		t.Errorf("expected entry 0x%x to have all attribute flags set", entry)
	}

	entry, err = NewSectionEntry(0x00300000, SupervisorReadWriteUserNone, false, true, false)
	if err != nil {
		t.Fatal(err)
	}

	if entry.HasFlags(FlagCacheable | FlagBufferable) {
		t.Errorf("expected HasFlags to fail when only some flags are set")
	}

	if !entry.HasAnyFlag(FlagCacheable | FlagBufferable) {
		t.Errorf("expected HasAnyFlag to succeed when some flags are set")
	}

	if entry.HasAnyFlag(FlagExecuteNever) {
		t.Errorf("expected execute-never to be clear")
	}

	if _, err := newSectionEntry(0x00300000, SupervisorReadWriteUserNone, SectionEntryFlag(1<<9)); err != ErrInvalidFlags {
		t.Errorf("expected ErrInvalidFlags for bits outside the attribute mask; got %v", err)
	}
}

func TestEntryTypeString(t *testing.T) {
	specs := map[EntryType]string{
		EntryFault:    "fault",
		EntryCoarse:   "coarse",
		EntrySection:  "section",
		EntryReserved: "reserved",
	}

	for entryType, exp := range specs {
		if got := entryType.String(); got != exp {
			t.Errorf("expected %d to stringify as %q; got %q", entryType, exp, got)
		}
	}
}
