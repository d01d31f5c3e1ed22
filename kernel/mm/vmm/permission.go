package vmm

// Access describes the kind of access a processor mode has to a section.
type Access uint8

// The supported access levels.
const (
	AccessNone Access = iota
	AccessReadOnly
	AccessReadWrite
)

// Allows returns true if a read (or, when write is set, a write) is
// permitted by this access level.
func (a Access) Allows(write bool) bool {
	if write {
		return a == AccessReadWrite
	}
	return a != AccessNone
}

// String implements fmt.Stringer.
func (a Access) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessReadOnly:
		return "read-only"
	case AccessReadWrite:
		return "read-write"
	default:
		return "invalid"
	}
}

// Permission selects one of the APX/AP combinations used by the kernel. The
// hardware decodes the three bits as a matrix of privileged and unprivileged
// access; only the combinations below are ever emitted.
type Permission uint8

const (
	// permissionInvalid is the zero value so that an unset Permission is
	// never mistaken for a real one.
	permissionInvalid Permission = iota

	// SupervisorReadWriteUserReadOnly: APX=0 AP=10.
	SupervisorReadWriteUserReadOnly

	// SupervisorReadOnlyUserReadOnly: APX=1 AP=11.
	SupervisorReadOnlyUserReadOnly

	// SupervisorReadOnlyUserNone: APX=1 AP=01.
	SupervisorReadOnlyUserNone

	// SupervisorReadWriteUserNone: APX=0 AP=01. Older code calls this
	// combination "supervisor write only"; the hardware grants privileged
	// reads as well.
	SupervisorReadWriteUserNone

	// SupervisorReadWriteUserReadWrite: APX=0 AP=11.
	SupervisorReadWriteUserReadWrite
)

// Permissions lists every supported Permission.
var Permissions = [...]Permission{
	SupervisorReadWriteUserReadOnly,
	SupervisorReadOnlyUserReadOnly,
	SupervisorReadOnlyUserNone,
	SupervisorReadWriteUserNone,
	SupervisorReadWriteUserReadWrite,
}

const (
	// apxBit is the APX bit of a section entry.
	apxBit = uint32(1 << 15)

	// apShift is the position of the two AP bits of a section entry.
	apShift = 10

	// permissionMask selects the APX and AP bits of a section entry.
	permissionMask = apxBit | uint32(3<<apShift)
)

// bits returns the APX/AP bit pattern for p or false if p is not a supported
// permission.
func (p Permission) bits() (uint32, bool) {
	switch p {
	case SupervisorReadWriteUserReadOnly:
		return 2 << apShift, true
	case SupervisorReadOnlyUserReadOnly:
		return apxBit | 3<<apShift, true
	case SupervisorReadOnlyUserNone:
		return apxBit | 1<<apShift, true
	case SupervisorReadWriteUserNone:
		return 1 << apShift, true
	case SupervisorReadWriteUserReadWrite:
		return 3 << apShift, true
	default:
		return 0, false
	}
}

// permissionFromBits maps the APX/AP bits of a raw entry back to a
// Permission. Patterns the kernel never emits (e.g. no access at all) are
// rejected.
func permissionFromBits(raw uint32) (Permission, bool) {
	switch raw & permissionMask {
	case 2 << apShift:
		return SupervisorReadWriteUserReadOnly, true
	case apxBit | 3<<apShift:
		return SupervisorReadOnlyUserReadOnly, true
	case apxBit | 1<<apShift:
		return SupervisorReadOnlyUserNone, true
	case 1 << apShift:
		return SupervisorReadWriteUserNone, true
	case 3 << apShift:
		return SupervisorReadWriteUserReadWrite, true
	default:
		return permissionInvalid, false
	}
}

// Valid returns true if p is one of the supported permissions.
func (p Permission) Valid() bool {
	_, ok := p.bits()
	return ok
}

// Privileged returns the access granted to privileged processor modes.
func (p Permission) Privileged() Access {
	switch p {
	case SupervisorReadWriteUserReadOnly, SupervisorReadWriteUserNone, SupervisorReadWriteUserReadWrite:
		return AccessReadWrite
	case SupervisorReadOnlyUserReadOnly, SupervisorReadOnlyUserNone:
		return AccessReadOnly
	default:
		return AccessNone
	}
}

// Unprivileged returns the access granted to user mode.
func (p Permission) Unprivileged() Access {
	switch p {
	case SupervisorReadWriteUserReadWrite:
		return AccessReadWrite
	case SupervisorReadWriteUserReadOnly, SupervisorReadOnlyUserReadOnly:
		return AccessReadOnly
	default:
		return AccessNone
	}
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	switch p {
	case SupervisorReadWriteUserReadOnly:
		return "SRW/URO"
	case SupervisorReadOnlyUserReadOnly:
		return "SRO/URO"
	case SupervisorReadOnlyUserNone:
		return "SRO/U--"
	case SupervisorReadWriteUserNone:
		return "SRW/U--"
	case SupervisorReadWriteUserReadWrite:
		return "SRW/URW"
	default:
		return "invalid"
	}
}
