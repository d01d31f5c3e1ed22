// Package cpu describes processor state words consumed by the privilege
// transition code.
package cpu

// EFlags is a snapshot of the processor flags register.
type EFlags uint32

// Flag bits of the EFlags register.
const (
	FlagCarry                   EFlags = 0x00000001
	FlagParity                  EFlags = 0x00000004
	FlagAuxCarry                EFlags = 0x00000010
	FlagZero                    EFlags = 0x00000040
	FlagSign                    EFlags = 0x00000080
	FlagTrap                    EFlags = 0x00000100
	FlagInterrupt               EFlags = 0x00000200
	FlagDirection               EFlags = 0x00000400
	FlagOverflow                EFlags = 0x00000800
	FlagNestedTask              EFlags = 0x00004000
	FlagResume                  EFlags = 0x00010000
	FlagVirtual8086             EFlags = 0x00020000
	FlagAlignmentCheck          EFlags = 0x00040000
	FlagVirtualInterrupt        EFlags = 0x00080000
	FlagVirtualInterruptPending EFlags = 0x00100000
	FlagID                      EFlags = 0x00200000

	// IOPLMask selects the I/O privilege level field.
	IOPLMask EFlags = 0x00003000

	ioplShift = 12
)

// HasFlags returns true if all the input flags are set.
func (f EFlags) HasFlags(flags EFlags) bool {
	return f&flags == flags
}

// IOPL returns the I/O privilege level (0-3) encoded in the flags.
func (f EFlags) IOPL() uint8 {
	return uint8((f & IOPLMask) >> ioplShift)
}

// WithIOPL returns a copy of f with the I/O privilege level set to level.
// Only the two low bits of level are used.
func (f EFlags) WithIOPL(level uint8) EFlags {
	return (f &^ IOPLMask) | (EFlags(level&3) << ioplShift)
}
