package vibes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTooManyResults reports a result count the stack window cannot hold.
	ErrTooManyResults = errors.New("too many results")
	// ErrStringTooLarge reports a buffer growing past Config.MaxStringBytes.
	ErrStringTooLarge = errors.New("string size overflow")
	errUnknownBuiltin = errors.New("unknown builtin")
)

// TypeError reports an operand or element of the wrong kind. Arg is the
// 1-based argument position it refers to, or 0 when it is not tied to one.
type TypeError struct {
	Function string
	Arg      int
	Message  string
}

func (e *TypeError) Error() string {
	if e.Arg > 0 {
		return fmt.Sprintf("bad argument #%d to '%s' (%s)", e.Arg, e.Function, e.Message)
	}
	return e.Message
}

// RuntimeError is the error a failed call surfaces to the host. Cause keeps
// the originating error (a *TypeError, a hook error, a sentinel).
type RuntimeError struct {
	Function string
	Message  string
	Cause    error
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.Function != "" {
		fmt.Fprintf(&b, "\n  at %s", re.Function)
	}
	return b.String()
}

func (re *RuntimeError) Unwrap() error {
	return re.Cause
}

// NewRuntimeError builds an error raised by a builtin itself rather than
// one propagated from a nested operation.
func NewRuntimeError(function string, cause error, format string, args ...any) *RuntimeError {
	return &RuntimeError{Function: function, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func wrapCallError(function string, err error) error {
	if err == nil {
		return nil
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		if re.Function == "" {
			re.Function = function
		}
		return err
	}
	return &RuntimeError{Function: function, Message: err.Error(), Cause: err}
}
