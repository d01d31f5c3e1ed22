package vmm

import (
	"io"

	"pios/kernel/kfmt"
	"pios/kernel/mm"
)

// FaultCode holds the fault cause bits reported by the hardware when a
// memory access fails. Recovering from the fault is up to the fault handler.
type FaultCode uint32

const (
	// FaultProtection is set when the fault was caused by a protection
	// violation. When clear the address was not mapped.
	FaultProtection FaultCode = 1 << iota

	// FaultWrite is set when the faulting access was a write.
	FaultWrite

	// FaultUserMode is set when the fault occurred while in user mode.
	FaultUserMode
)

// HasFlags returns true if all the input bits are set.
func (c FaultCode) HasFlags(flags FaultCode) bool {
	return c&flags == flags
}

// Reason returns a short description of the fault.
func (c FaultCode) Reason() string {
	switch c &^ FaultUserMode {
	case 0:
		return "read from unmapped section"
	case FaultProtection:
		return "section protection violation (read)"
	case FaultWrite:
		return "write to unmapped section"
	case FaultProtection | FaultWrite:
		return "section protection violation (write)"
	default:
		return "unknown"
	}
}

// DumpTo writes a description of a fault at faultAddress to w.
func (c FaultCode) DumpTo(w io.Writer, faultAddress mm.VirtAddr) {
	mode := "kernel"
	if c.HasFlags(FaultUserMode) {
		mode = "user"
	}

	kfmt.Fprintf(w, "Fault while accessing address: 0x%8x (%s mode)\nReason: %s\n", uint32(faultAddress), mode, c.Reason())
}
