package gate

import (
	"io"

	"pios/kernel"
	"pios/kernel/cpu"
	"pios/kernel/kfmt"
)

// TaskState is the 32-bit task state segment. The processor loads the stack
// for a more privileged ring from ESPn/SSn when an interrupt or call gate
// raises the privilege level, and saves the remaining fields on a hardware
// task switch. Every selector occupies the low half of a 32-bit slot.
type TaskState struct {
	Link uint32

	ESP0 uint32
	SS0  Selector
	_    uint16
	ESP1 uint32
	SS1  Selector
	_    uint16
	ESP2 uint32
	SS2  Selector
	_    uint16

	// CR3 holds the physical address of the translation table.
	CR3    uint32
	EIP    uint32
	EFlags cpu.EFlags

	EAX uint32
	ECX uint32
	EDX uint32
	EBX uint32
	ESP uint32
	EBP uint32
	ESI uint32
	EDI uint32

	ES  Selector
	_   uint16
	CS  Selector
	_   uint16
	SS  Selector
	_   uint16
	DS  Selector
	_   uint16
	FS  Selector
	_   uint16
	GS  Selector
	_   uint16
	LDT Selector
	_   uint16

	// T raises a debug exception on a task switch to this task when bit 0
	// is set.
	T uint16

	// IOMB is the offset of the I/O permission bitmap from the start of
	// the segment. Values at or past the segment limit deny all port I/O
	// at user privilege.
	IOMB uint16
}

// SetStack records the stack used when entering ring level. Only rings 0-2
// have a stack slot.
func (ts *TaskState) SetStack(level PrivilegeLevel, esp uint32, ss Selector) *kernel.Error {
	switch level {
	case 0:
		ts.ESP0, ts.SS0 = esp, ss
	case 1:
		ts.ESP1, ts.SS1 = esp, ss
	case 2:
		ts.ESP2, ts.SS2 = esp, ss
	default:
		return ErrInvalidPrivilegeLevel
	}

	return nil
}

// DumpTo outputs the task state contents to w.
func (ts *TaskState) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "EAX = %8x EBX = %8x ECX = %8x EDX = %8x\n", ts.EAX, ts.EBX, ts.ECX, ts.EDX)
	kfmt.Fprintf(w, "ESI = %8x EDI = %8x EBP = %8x ESP = %8x\n", ts.ESI, ts.EDI, ts.EBP, ts.ESP)
	kfmt.Fprintf(w, "EIP = %8x EFL = %8x CR3 = %8x\n", ts.EIP, uint32(ts.EFlags), ts.CR3)
	kfmt.Fprintf(w, "CS  = %4x SS  = %4x DS  = %4x ES  = %4x FS  = %4x GS  = %4x\n",
		uint16(ts.CS), uint16(ts.SS), uint16(ts.DS), uint16(ts.ES), uint16(ts.FS), uint16(ts.GS))
	kfmt.Fprintf(w, "SS0 = %4x ESP0 = %8x\n", uint16(ts.SS0), ts.ESP0)
	kfmt.Fprintf(w, "SS1 = %4x ESP1 = %8x\n", uint16(ts.SS1), ts.ESP1)
	kfmt.Fprintf(w, "SS2 = %4x ESP2 = %8x\n", uint16(ts.SS2), ts.ESP2)
	kfmt.Fprintf(w, "LDT = %4x LNK = %8x IOMB = %4x T = %d\n", uint16(ts.LDT), ts.Link, ts.IOMB, ts.T)
}
