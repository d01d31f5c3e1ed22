// Package vmm implements the section-mapped virtual memory layer: the
// encoding of section table entries, the section table itself and the
// software model of address translation.
package vmm

import "pios/kernel"

var (
	// ErrInvalidAlignment is returned when a section base address is not
	// aligned to a section boundary.
	ErrInvalidAlignment = &kernel.Error{Module: "vmm", Message: "address is not aligned to a 1M section boundary"}

	// ErrInvalidPermission is returned when a permission value or an
	// APX/AP bit pattern is not one of the supported combinations.
	ErrInvalidPermission = &kernel.Error{Module: "vmm", Message: "unsupported section access permission"}

	// ErrInvalidFlags is returned when attribute flags other than
	// cacheable, bufferable and execute-never are requested.
	ErrInvalidFlags = &kernel.Error{Module: "vmm", Message: "unsupported section attribute flags"}

	// ErrUnsupportedEntryType is returned when an entry references a coarse
	// page table.
	ErrUnsupportedEntryType = &kernel.Error{Module: "vmm", Message: "coarse page table entries are not supported"}

	// ErrTranslationFault is returned when a virtual address has no valid
	// section mapping.
	ErrTranslationFault = &kernel.Error{Module: "vmm", Message: "virtual address does not point to a mapped section"}

	// ErrPermissionFault is returned by CheckAccess when the section
	// permissions do not allow the requested access.
	ErrPermissionFault = &kernel.Error{Module: "vmm", Message: "access violates section permissions"}

	// ErrAddressOverflow is returned when a region extends past the end of
	// the 32-bit address space.
	ErrAddressOverflow = &kernel.Error{Module: "vmm", Message: "region wraps past the end of the address space"}

	// ErrInvalidSection is returned when a page or frame number lies
	// outside the 4G address space.
	ErrInvalidSection = &kernel.Error{Module: "vmm", Message: "section number is outside the address space"}

	// ErrNoActiveTable is returned by Translate before SetActiveTable has
	// been called.
	ErrNoActiveTable = &kernel.Error{Module: "vmm", Message: "no active section table"}
)
