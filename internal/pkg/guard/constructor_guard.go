// Package guard provides a construction marker for value objects
// and commands. Embedding a ConstructorGuard lets a type detect whether it
// was created through its designated constructor or as a zero value, so that
// invariants established by the constructor cannot be bypassed.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller does not
// supply its own construction error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. The zero value
// fails validation.
//
// Example:
//
//	type SubmitCommand struct {
//	    voyageID kernel.UUID
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewSubmitCommand(voyageID kernel.UUID) (SubmitCommand, error) {
//	    return SubmitCommand{voyageID: voyageID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c SubmitCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as
// constructed. Call it only from constructors.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
