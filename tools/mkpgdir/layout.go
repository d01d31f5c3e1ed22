package main

import (
	"pios/kernel"
	"pios/kernel/mm"
	"pios/kernel/mm/vmm"
)

// layout describes the boot address space.
type layout struct {
	// kernBase is the virtual address where physical memory starts being
	// mapped.
	kernBase mm.VirtAddr

	// ramSize is the amount of RAM mapped at kernBase.
	ramSize mm.Size

	// devBase and devSize describe the memory-mapped peripheral window.
	// Peripherals appear at kernBase+devBase.
	devBase mm.PhysAddr
	devSize mm.Size
}

// region is a single contiguous mapping installed by buildTable.
type region struct {
	name  string
	virt  mm.VirtAddr
	phys  mm.PhysAddr
	size  mm.Size
	perm  vmm.Permission
	flags vmm.SectionEntryFlag
}

// regions returns the mappings of the boot table in installation order.
//
// The first section is identity mapped so that the instructions following
// the MMU enable keep executing until control jumps into the kernel window.
// RAM is mapped write-back cacheable. Peripherals are strongly ordered and
// never executable.
func (l layout) regions() []region {
	return []region{
		{"identity", 0, 0, mm.Mb, vmm.SupervisorReadWriteUserNone, vmm.FlagCacheable},
		{"ram", l.kernBase, 0, l.ramSize, vmm.SupervisorReadWriteUserNone, vmm.FlagCacheable | vmm.FlagBufferable},
		{"devices", l.kernBase + mm.VirtAddr(l.devBase), l.devBase, l.devSize, vmm.SupervisorReadWriteUserNone, vmm.FlagExecuteNever},
	}
}

// buildTable returns a section table populated with the regions of l. It
// fails if a region is misaligned or does not fit in the address space.
func buildTable(l layout) (*vmm.SectionTable, *kernel.Error) {
	if uint64(l.kernBase)+uint64(l.devBase) >= 1<<32 {
		return nil, vmm.ErrAddressOverflow
	}

	table := new(vmm.SectionTable)
	for _, r := range l.regions() {
		if err := table.MapRegion(r.virt, r.phys, r.size, r.perm, r.flags); err != nil {
			return nil, err
		}
	}

	return table, nil
}
