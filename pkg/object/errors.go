package object

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an absent object. It is the one non-error read
// outcome: callers distinguish a missing object from corruption with
// errors.Is.
var ErrNotFound = errors.New("object not found")

// ErrBadHash reports a hash string that is not a full lowercase hex
// digest. Damaged ref files are the usual source.
var ErrBadHash = errors.New("malformed object hash")

// CorruptError reports a structurally damaged stored object: failed
// decompression, a malformed envelope header, or a length mismatch.
type CorruptError struct {
	Hash   Hash
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt object %s: %s: %v", e.Hash, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt object %s: %s", e.Hash, e.Reason)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// UnsupportedTypeError reports an unrecognized type tag on decode.
type UnsupportedTypeError struct {
	Tag string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported object type %q", e.Tag)
}

// TypeMismatchError reports an object whose stored type differs from the
// type the caller required.
type TypeMismatchError struct {
	Hash Hash
	Got  ObjectType
	Want ObjectType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("object %s: type mismatch: got %q, want %q", e.Hash, e.Got, e.Want)
}
