package gate

import "encoding/binary"

// PseudoDescriptor is the packed 6-byte operand of the instructions that load
// the global, local and interrupt descriptor table registers: a 16-bit limit
// followed by a 32-bit linear base address.
type PseudoDescriptor [6]byte

// NewPseudoDescriptor packs limit and base. The limit is the size of the
// table in bytes minus one.
func NewPseudoDescriptor(limit uint16, base uint32) PseudoDescriptor {
	var pd PseudoDescriptor
	binary.LittleEndian.PutUint16(pd[0:], limit)
	binary.LittleEndian.PutUint32(pd[2:], base)
	return pd
}

// Limit returns the table limit.
func (pd PseudoDescriptor) Limit() uint16 {
	return binary.LittleEndian.Uint16(pd[0:])
}

// Base returns the table base address.
func (pd PseudoDescriptor) Base() uint32 {
	return binary.LittleEndian.Uint32(pd[2:])
}
