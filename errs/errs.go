// Package errs implements the error taxonomy shared by the decoder, the weight codecs and the trainer
package errs

import stderrors "errors"
import "fmt"

import "github.com/pkg/errors"

// FormatError reports malformed or truncated binary input.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return "format error: " + e.Msg
}

// ConfigError reports an invalid configuration: zero classes, an empty
// dataset, pixel vectors and weight rows of different lengths.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Msg
}

// IOError reports a failure of an external collaborator, such as reading
// or writing persisted weights.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return "io error: " + e.Msg
	}
	return "io error: " + e.Msg + ": " + e.Err.Error()
}

func (e *IOError) Cause() error  { return e.Err }
func (e *IOError) Unwrap() error { return e.Err }

// Format returns a FormatError with a stack trace attached.
func Format(msg string) error {
	return errors.WithStack(&FormatError{Msg: msg})
}

// Config returns a ConfigError with a stack trace attached.
func Config(msg string) error {
	return errors.WithStack(&ConfigError{Msg: msg})
}

// Configf formats a ConfigError message.
func Configf(format string, args ...interface{}) error {
	return Config(fmt.Sprintf(format, args...))
}

// IO wraps err as an IOError. A nil err yields nil.
func IO(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&IOError{Msg: msg, Err: err})
}

// Common messages.
const (
	BadImageMagic = "bad image magic"
	BadLabelMagic = "bad label magic"
	UnexpectedEOF = "unexpected end of input"
	CountMismatch = "image/label count mismatch"
	EmptyDataset  = "empty dataset"
	ZeroPixels    = "images have no pixels"
)

// IsFormat reports whether err carries a FormatError.
func IsFormat(err error) bool {
	var target *FormatError
	return stderrors.As(err, &target)
}

// IsConfig reports whether err carries a ConfigError.
func IsConfig(err error) bool {
	var target *ConfigError
	return stderrors.As(err, &target)
}

// IsIO reports whether err carries an IOError.
func IsIO(err error) bool {
	var target *IOError
	return stderrors.As(err, &target)
}

// Message returns the bare message of a FormatError or ConfigError found
// in err's chain, or "" if there is none.
func Message(err error) string {
	var f *FormatError
	if stderrors.As(err, &f) {
		return f.Msg
	}
	var c *ConfigError
	if stderrors.As(err, &c) {
		return c.Msg
	}
	return ""
}
