package ccard

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Code is one of the five wire-level error codes every sketch operation can
// report. It mirrors the CCARD_ERR_* enum of the C library this package's
// wire format is compatible with.
type Code int

const (
	// OK indicates success.
	OK Code = iota
	// InvalidCtx means the sketch is nil or was never properly constructed.
	InvalidCtx
	// MergeFailed means a merge source's algorithm, hash, k, or length did
	// not match the receiver.
	MergeFailed
	// InvalidArg means k was out of range or a blob was malformed.
	InvalidArg
	// OutOfMemory means an allocation failed during a resize or promotion.
	OutOfMemory
)

var codeStrings = [...]string{
	OK:          "no error",
	InvalidCtx:  "invalid or uninitialized sketch",
	MergeFailed: "merge failed: incompatible hash, k, algorithm, or length",
	InvalidArg:  "invalid argument: k out of range or malformed blob",
	OutOfMemory: "out of memory",
}

// String returns the one fixed human-readable message for this code. There
// is exactly one string per code, as required by the operational contract.
func (c Code) String() string {
	if c < OK || int(c) >= len(codeStrings) {
		return "unknown error"
	}
	return codeStrings[c]
}

// ccardError pairs a Code with a contextual message. It satisfies error so
// callers can use errors.Is/As normally while still being able to recover
// the wire Code via CodeOf.
type ccardError struct {
	code Code
	err  error
}

func newError(code Code, format string, args ...interface{}) *ccardError {
	return &ccardError{code: code, err: errors.Errorf(format, args...)}
}

func (e *ccardError) Error() string {
	return e.err.Error()
}

func (e *ccardError) Unwrap() error {
	return e.err
}

// CodeOf extracts the wire Code from an error produced by this package. It
// returns InvalidArg for any error this package did not originate, since
// that's the closest generic classification available.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var ce *ccardError
	if stderrors.As(err, &ce) {
		return ce.code
	}
	return InvalidArg
}

var (
	// ErrInsufficientBytes is returned when a framed blob is shorter than
	// its 3-byte header or a storage body is empty. A non-empty dense body
	// of the wrong length is reported by a separate InvalidArg error.
	ErrInsufficientBytes = newError(InvalidArg, "insufficient bytes to deserialize sketch")
	// ErrIncompatible is a MergeFailed sentinel for sources that disagree
	// on hash, k, algorithm, or length. Sketch.Merge does not return this
	// value; it reports each mismatch with its own MergeFailed error naming
	// the mismatching values.
	ErrIncompatible = newError(MergeFailed, "cannot merge sketches with different hash, k, or algorithm")
	// ErrInvalidCtx is returned by any operation on a nil or zero-value sketch.
	ErrInvalidCtx = newError(InvalidCtx, "invalid or uninitialized sketch")
)
