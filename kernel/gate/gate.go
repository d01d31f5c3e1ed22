// Package gate describes the records consumed by the processor's privilege
// transition machinery: segment selectors, interrupt, trap and call gate
// descriptors, the 32-bit task state segment and the pseudo-descriptors used
// to load descriptor table registers.
package gate

import (
	"encoding/binary"

	"pios/kernel"
)

var (
	// ErrInvalidPrivilegeLevel is returned when a privilege level outside
	// the 0..3 range is supplied.
	ErrInvalidPrivilegeLevel = &kernel.Error{Module: "gate", Message: "privilege level must be in the range 0-3"}

	// ErrInvalidSelectorIndex is returned when a descriptor index does not
	// fit in the 13-bit selector index field.
	ErrInvalidSelectorIndex = &kernel.Error{Module: "gate", Message: "selector index must be in the range 0-8191"}

	// ErrGateNotPresent is returned when installing a gate whose present
	// bit is clear.
	ErrGateNotPresent = &kernel.Error{Module: "gate", Message: "cannot install a non-present gate"}

	// ErrGateInstalled is returned when installing a gate into an
	// interrupt table slot that already holds one.
	ErrGateInstalled = &kernel.Error{Module: "gate", Message: "a gate is already installed for this vector"}
)

// PrivilegeLevel is a processor protection ring. Ring 0 is the most
// privileged.
type PrivilegeLevel uint8

const (
	// KernelPrivilege is the privilege level of kernel code.
	KernelPrivilege PrivilegeLevel = 0

	// UserPrivilege is the privilege level of user code.
	UserPrivilege PrivilegeLevel = 3

	maxPrivilegeLevel = UserPrivilege
)

// Valid returns true if pl is one of the four hardware rings.
func (pl PrivilegeLevel) Valid() bool {
	return pl <= maxPrivilegeLevel
}

// Selector is a segment selector: a descriptor table index, a table
// indicator bit and the requested privilege level.
type Selector uint16

const (
	selectorRPLMask    = Selector(3)
	selectorTableBit   = Selector(1 << 2)
	selectorIndexShift = 3
	maxSelectorIndex   = uint16(0x1fff)
)

// Well-known global descriptor table selectors.
const (
	KernelText Selector = 0x08
	KernelData Selector = 0x10
	UserText   Selector = 0x18
	UserData   Selector = 0x20
	TSS0       Selector = 0x28
)

// NewSelector returns a global descriptor table selector for the given
// descriptor index and requested privilege level.
func NewSelector(index uint16, rpl PrivilegeLevel) (Selector, *kernel.Error) {
	if index > maxSelectorIndex {
		return 0, ErrInvalidSelectorIndex
	}

	if !rpl.Valid() {
		return 0, ErrInvalidPrivilegeLevel
	}

	return Selector(index)<<selectorIndexShift | Selector(rpl), nil
}

// Index returns the descriptor table index referenced by the selector.
func (s Selector) Index() uint16 {
	return uint16(s >> selectorIndexShift)
}

// RPL returns the requested privilege level.
func (s Selector) RPL() PrivilegeLevel {
	return PrivilegeLevel(s & selectorRPLMask)
}

// IsLocal returns true if the selector references the local descriptor
// table.
func (s Selector) IsLocal() bool {
	return s&selectorTableBit != 0
}

// GateType is the 4-bit system descriptor type.
type GateType uint8

// System segment and gate descriptor types.
const (
	TypeTSS16Available  GateType = 0x1
	TypeLDT             GateType = 0x2
	TypeTSS16Busy       GateType = 0x3
	TypeCallGate16      GateType = 0x4
	TypeTaskGate        GateType = 0x5
	TypeInterruptGate16 GateType = 0x6
	TypeTrapGate16      GateType = 0x7
	TypeTSS32Available  GateType = 0x9
	TypeTSS32Busy       GateType = 0xb
	TypeCallGate32      GateType = 0xc
	TypeInterruptGate32 GateType = 0xe
	TypeTrapGate32      GateType = 0xf
)

// String implements fmt.Stringer.
func (t GateType) String() string {
	switch t {
	case TypeCallGate32:
		return "call gate"
	case TypeInterruptGate32:
		return "interrupt gate"
	case TypeTrapGate32:
		return "trap gate"
	case TypeTaskGate:
		return "task gate"
	case TypeTSS32Available, TypeTSS32Busy, TypeTSS16Available, TypeTSS16Busy:
		return "task state segment"
	case TypeLDT:
		return "local descriptor table"
	case TypeCallGate16, TypeInterruptGate16, TypeTrapGate16:
		return "16-bit gate"
	default:
		return "reserved"
	}
}

// GateDescriptor is an 8-byte interrupt, trap or call gate as stored in a
// descriptor table. The layout of the two words is:
//
//	word 0: | selector [31:16] | offset[15:0] [15:0] |
//	word 1: | offset[31:16] [31:16] | P [15] | DPL [14:13] | S [12] | type [11:8] | 0 [7:5] | args [4:0] |
//
// Gates are built once during initialisation and never modified.
type GateDescriptor struct {
	bits [2]uint32
}

const (
	gateArgCountMask = uint32(0x1f)
	gateTypeShift    = 8
	gateTypeMask     = uint32(0xf)
	gateSystemBit    = uint32(1 << 12)
	gateDPLShift     = 13
	gateDPLMask      = uint32(3)
	gatePresentBit   = uint32(1 << 15)
)

// NewInterruptOrTrapGate returns a present gate that transfers control to
// off within the code segment referenced by sel. Interrupt gates clear the
// interrupt flag on entry; trap gates leave it unchanged. dpl is the
// privilege level required to invoke the gate with a software interrupt.
func NewInterruptOrTrapGate(isTrap bool, sel Selector, off uint32, dpl PrivilegeLevel) (GateDescriptor, *kernel.Error) {
	gateType := TypeInterruptGate32
	if isTrap {
		gateType = TypeTrapGate32
	}

	return newGate(gateType, sel, off, dpl)
}

// NewCallGate returns a present call gate with no stack-copied arguments.
func NewCallGate(sel Selector, off uint32, dpl PrivilegeLevel) (GateDescriptor, *kernel.Error) {
	return newGate(TypeCallGate32, sel, off, dpl)
}

func newGate(gateType GateType, sel Selector, off uint32, dpl PrivilegeLevel) (GateDescriptor, *kernel.Error) {
	if !dpl.Valid() {
		return GateDescriptor{}, ErrInvalidPrivilegeLevel
	}

	var g GateDescriptor
	g.bits[0] = uint32(sel)<<16 | off&0xffff
	g.bits[1] = off&0xffff0000 |
		gatePresentBit |
		uint32(dpl)<<gateDPLShift |
		uint32(gateType)<<gateTypeShift

	return g, nil
}

// OffsetLow returns bits [15:0] of the target offset.
func (g GateDescriptor) OffsetLow() uint16 { return uint16(g.bits[0]) }

// OffsetHigh returns bits [31:16] of the target offset.
func (g GateDescriptor) OffsetHigh() uint16 { return uint16(g.bits[1] >> 16) }

// Selector returns the target code segment selector.
func (g GateDescriptor) Selector() Selector { return Selector(g.bits[0] >> 16) }

// ArgCount returns the number of stack words copied by a call gate.
func (g GateDescriptor) ArgCount() uint8 { return uint8(g.bits[1] & gateArgCountMask) }

// Type returns the descriptor type.
func (g GateDescriptor) Type() GateType {
	return GateType((g.bits[1] >> gateTypeShift) & gateTypeMask)
}

// DPL returns the descriptor privilege level.
func (g GateDescriptor) DPL() PrivilegeLevel {
	return PrivilegeLevel((g.bits[1] >> gateDPLShift) & gateDPLMask)
}

// Present returns true if the present bit is set.
func (g GateDescriptor) Present() bool { return g.bits[1]&gatePresentBit != 0 }

// IsSystem returns true for system descriptors, which includes every gate.
// The hardware encodes this as a clear S bit.
func (g GateDescriptor) IsSystem() bool { return g.bits[1]&gateSystemBit == 0 }

// Bytes returns the descriptor in the little-endian byte order used in
// memory.
func (g GateDescriptor) Bytes() [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint32(b[0:], g.bits[0])
	binary.LittleEndian.PutUint32(b[4:], g.bits[1])
	return b
}
