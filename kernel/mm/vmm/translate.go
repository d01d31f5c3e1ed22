package vmm

import (
	"pios/kernel"
	"pios/kernel/mm"
)

var (
	// activeTable is the section table installed in the translation table
	// base register.
	activeTable *SectionTable
)

// SetActiveTable records t as the table used by the MMU. Loading the table
// base register is done by the caller.
func SetActiveTable(t *SectionTable) { activeTable = t }

// ActiveTable returns the table registered with SetActiveTable.
func ActiveTable() *SectionTable { return activeTable }

// Translate returns the physical address that corresponds to virtAddr in the
// active section table.
func Translate(virtAddr mm.VirtAddr) (mm.PhysAddr, *kernel.Error) {
	if activeTable == nil {
		return 0, ErrNoActiveTable
	}

	return activeTable.Translate(virtAddr)
}

// Translate returns the physical address that corresponds to the supplied
// virtual address or an error if the address is not mapped by a section.
func (t *SectionTable) Translate(virtAddr mm.VirtAddr) (mm.PhysAddr, *kernel.Error) {
	entry := t.Lookup(virtAddr)
	switch {
	case entry.Translates():
		return entry.BaseAddress() + mm.PhysAddr(mm.Offset(virtAddr)), nil
	case entry.Type() == EntryCoarse:
		return 0, ErrUnsupportedEntryType
	default:
		return 0, ErrTranslationFault
	}
}

// CheckAccess models the check the MMU performs for a data access to
// virtAddr. On success it returns the translated physical address. On
// failure it returns the fault cause bits the hardware would report along
// with ErrTranslationFault, ErrUnsupportedEntryType or ErrPermissionFault.
func (t *SectionTable) CheckAccess(virtAddr mm.VirtAddr, write, user bool) (mm.PhysAddr, FaultCode, *kernel.Error) {
	var code FaultCode
	if write {
		code |= FaultWrite
	}
	if user {
		code |= FaultUserMode
	}

	section, err := t.Lookup(virtAddr).Decode()
	if err != nil {
		if err == ErrInvalidPermission {
			// An unknown APX/AP pattern is treated as no access.
			return 0, code | FaultProtection, ErrPermissionFault
		}
		return 0, code, err
	}

	access := section.Permission.Privileged()
	if user {
		access = section.Permission.Unprivileged()
	}

	if !access.Allows(write) {
		return 0, code | FaultProtection, ErrPermissionFault
	}

	return section.Base + mm.PhysAddr(mm.Offset(virtAddr)), 0, nil
}
