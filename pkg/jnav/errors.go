package jnav

import "errors"

// Navigator errors. They are returned as-is, never wrapped, so callers may
// compare with == as well as errors.Is.
var (
	// ErrInvalidParameter indicates a missing or zero-length required argument.
	ErrInvalidParameter = errors.New("jnav: invalid parameter")

	// ErrNotAnObject indicates the entered or resolved token is not an object.
	ErrNotAnObject = errors.New("jnav: not an object")

	// ErrNotAnArray indicates the entered or resolved token is not an array.
	ErrNotAnArray = errors.New("jnav: not an array")

	// ErrNotAContainer indicates a descend target that is neither object nor array.
	ErrNotAContainer = errors.New("jnav: not a container")

	// ErrKeyNotFound indicates the key is absent from the entered object.
	ErrKeyNotFound = errors.New("jnav: key not found")

	// ErrIndexOutOfBounds indicates an element or token index outside its range.
	ErrIndexOutOfBounds = errors.New("jnav: index out of bounds")

	// ErrBufferTooSmall indicates a destination or scratch buffer too small for the value.
	ErrBufferTooSmall = errors.New("jnav: buffer too small")

	// ErrNotString indicates a string was requested from a non-string token.
	ErrNotString = errors.New("jnav: not a string")

	// ErrNotNumber indicates a number was requested from a non-primitive token.
	ErrNotNumber = errors.New("jnav: not a number")

	// ErrNotBoolean indicates a primitive that is not true, false, 1 or 0.
	ErrNotBoolean = errors.New("jnav: not a boolean")

	// ErrAtRoot indicates an ascend with no enclosing container. Releasing the
	// root has no matching descend, and ErrAtRoot is returned in place of
	// ErrNotAnObject or ErrNotAnArray in that case.
	ErrAtRoot = errors.New("jnav: already at root")
)
