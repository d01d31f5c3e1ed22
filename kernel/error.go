package kernel

// Error describes a kernel error. Errors are declared as package-level
// pointers to Error and compared by identity so that reporting one never
// requires an allocation.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
