package gate

import (
	"io"
	"sync/atomic"
	"unsafe"

	"pios/kernel"
	"pios/kernel/kfmt"
	"pios/kernel/sync"
)

// InterruptNumber describes an x86 interrupt/exception/trap slot.
type InterruptNumber uint8

const (
	// DivideByZero occurs when dividing any number by 0 using the DIV or
	// IDIV instruction.
	DivideByZero = InterruptNumber(0)

	// Debug is raised by debug registers and single stepping.
	Debug = InterruptNumber(1)

	// NMI (non-maskable-interrupt) is a hardware interrupt that indicates
	// issues with RAM or unrecoverable hardware problems.
	NMI = InterruptNumber(2)

	// Breakpoint is raised by the INT3 instruction. Its gate is usually
	// installed with user privilege so debuggers can use it.
	Breakpoint = InterruptNumber(3)

	// Overflow is raised by the INTO instruction when the overflow flag is
	// set.
	Overflow = InterruptNumber(4)

	// BoundRangeExceeded occurs when the BOUND instruction is invoked with
	// an index out of range.
	BoundRangeExceeded = InterruptNumber(5)

	// InvalidOpcode occurs when the CPU attempts to execute an invalid or
	// undefined instruction opcode.
	InvalidOpcode = InterruptNumber(6)

	// DeviceNotAvailable occurs when the CPU attempts to execute an FPU
	// instruction while no FPU is available or while CR0.TS is set.
	DeviceNotAvailable = InterruptNumber(7)

	// DoubleFault occurs when an exception is raised while the CPU is
	// trying to invoke the handler for a prior exception.
	DoubleFault = InterruptNumber(8)

	// InvalidTSS occurs when a task switch references an invalid task
	// state segment.
	InvalidTSS = InterruptNumber(10)

	// SegmentNotPresent occurs when loading a segment or gate whose present
	// bit is clear.
	SegmentNotPresent = InterruptNumber(11)

	// StackSegmentFault occurs when a stack segment limit check fails or a
	// not-present stack segment is loaded.
	StackSegmentFault = InterruptNumber(12)

	// GPFException occurs when a general protection fault occurs.
	GPFException = InterruptNumber(13)

	// PageFaultException occurs when a translation or protection check
	// fails. The pushed error code carries the fault cause bits.
	PageFaultException = InterruptNumber(14)

	// FloatingPointException occurs when an unmasked x87 exception is
	// pending and CR0.NE is set.
	FloatingPointException = InterruptNumber(16)

	// AlignmentCheck occurs when alignment checks are enabled and an
	// unaligned memory access is performed at user privilege.
	AlignmentCheck = InterruptNumber(17)

	// MachineCheck occurs when the CPU detects internal errors such as
	// memory-, bus- or cache-related errors.
	MachineCheck = InterruptNumber(18)

	// SIMDFloatingPointException occurs when an unmasked SSE exception
	// occurs while CR4.OSXMMEXCPT is set.
	SIMDFloatingPointException = InterruptNumber(19)

	// IRQBase is the first vector used for remapped hardware interrupts.
	IRQBase = InterruptNumber(32)

	// Syscall is the software interrupt used for system calls.
	Syscall = InterruptNumber(48)
)

// numVectors is the number of slots in an interrupt descriptor table.
const numVectors = 256

// InterruptTable is an interrupt descriptor table. Each slot is written at
// most once; until then it holds a non-present descriptor.
type InterruptTable struct {
	gates [numVectors]GateDescriptor

	lock sync.Spinlock
}

// Install stores gate in the slot for vector. Only present gates can be
// installed and a slot accepts exactly one; ErrGateNotPresent and
// ErrGateInstalled report the respective violations.
func (t *InterruptTable) Install(vector InterruptNumber, gate GateDescriptor) *kernel.Error {
	if !gate.Present() {
		return ErrGateNotPresent
	}

	t.lock.Acquire()
	defer t.lock.Release()

	slot := &t.gates[vector]
	if atomic.LoadUint32(&slot.bits[1])&gatePresentBit != 0 {
		return ErrGateInstalled
	}

	// The present bit lives in the high word so it is stored last.
	atomic.StoreUint32(&slot.bits[0], gate.bits[0])
	atomic.StoreUint32(&slot.bits[1], gate.bits[1])
	return nil
}

// Gate returns the descriptor installed for vector.
func (t *InterruptTable) Gate(vector InterruptNumber) GateDescriptor {
	slot := &t.gates[vector]

	var g GateDescriptor
	g.bits[1] = atomic.LoadUint32(&slot.bits[1])
	g.bits[0] = atomic.LoadUint32(&slot.bits[0])
	return g
}

// Descriptor returns the pseudo-descriptor that loads this table when it is
// located at the linear address base.
func (t *InterruptTable) Descriptor(base uint32) PseudoDescriptor {
	return NewPseudoDescriptor(uint16(unsafe.Sizeof(t.gates)-1), base)
}

// DumpTo writes one line per present gate to w.
func (t *InterruptTable) DumpTo(w io.Writer) {
	for vector := 0; vector < numVectors; vector++ {
		g := t.Gate(InterruptNumber(vector))
		if !g.Present() {
			continue
		}

		kfmt.Fprintf(w, "%3d: %s sel=0x%4x off=0x%4x%4x dpl=%d\n",
			vector, g.Type().String(), uint16(g.Selector()), g.OffsetHigh(), g.OffsetLow(), uint8(g.DPL()))
	}
}
