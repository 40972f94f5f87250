package prover

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingStream is returned when an expression refers to a stream id
	// that is not registered.
	ErrMissingStream = errors.New("missing stream")
	// ErrNonProductive is returned when unrolling a stream at some offset
	// requires the value being unrolled.
	ErrNonProductive = errors.New("non-productive stream")
)

// UnsupportedError reports an expression the translator does not encode. It
// only fails the property being translated.
type UnsupportedError struct {
	Construct string
}

func (e *UnsupportedError) Error() string {
	return "unsupported construct: " + e.Construct
}

// InternalError reports an ill-typed input: an operand tag the operator does
// not accept, or a property that does not reduce to bool.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Msg
}

func internalf(format string, args ...interface{}) error {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

func unsupported(format string, args ...interface{}) error {
	return &UnsupportedError{Construct: fmt.Sprintf(format, args...)}
}

// IsUnsupported reports whether err was caused by an UnsupportedError.
func IsUnsupported(err error) bool {
	var u *UnsupportedError
	return errors.As(err, &u)
}
