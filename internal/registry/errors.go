package registry

// duplicateIDError signals a Register call with an id that already exists.
type duplicateIDError struct{ id string }

func (e duplicateIDError) Error() string { return "duplicate backend id: " + e.id }

// ErrDuplicateID constructs a duplicate-id registration error.
func ErrDuplicateID(id string) error { return duplicateIDError{id: id} }

// IsDuplicateID reports whether err indicates an already-registered id.
func IsDuplicateID(err error) bool {
	_, ok := err.(duplicateIDError)
	return ok
}

// cycleError signals that a descriptor's fallback chain loops back on itself.
type cycleError struct{ id string }

func (e cycleError) Error() string { return "fallback cycle detected at backend: " + e.id }

// ErrCycleDetected constructs a fallback-cycle registration error.
func ErrCycleDetected(id string) error { return cycleError{id: id} }

// IsCycleDetected reports whether err indicates a fallback cycle.
func IsCycleDetected(err error) bool {
	_, ok := err.(cycleError)
	return ok
}

// invalidDescriptorError signals a descriptor failing basic validation.
type invalidDescriptorError struct{ msg string }

func (e invalidDescriptorError) Error() string { return "invalid descriptor: " + e.msg }

// ErrInvalidDescriptor constructs a descriptor validation error.
func ErrInvalidDescriptor(msg string) error { return invalidDescriptorError{msg: msg} }

// IsInvalidDescriptor reports whether err indicates a rejected descriptor.
func IsInvalidDescriptor(err error) bool {
	_, ok := err.(invalidDescriptorError)
	return ok
}
