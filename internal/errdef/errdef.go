package errdef

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeUnknown   Code = "unknown"
	CodeConfig    Code = "config"
	CodeNetwork   Code = "network"
	CodeResponse  Code = "response"
	CodeMalformed Code = "malformed"
	CodeStorage   Code = "storage"
	CodeUI        Code = "ui"
)

// Status lines shown in place of the placeholder when a load fails.
const (
	StatusFailed    = "Error: Data Load Failed..."
	StatusMalformed = "Error: Malformed Data..."

	responseStatusPrefix = "Response Error: "
)

// Detailer is implemented by errors that carry text worth showing to the
// user, such as a response body.
type Detailer interface {
	Detail() string
}

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap annotates an existing error with a pickterm error code and optional
// message, returning nil when the original error is nil.
func Wrap(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: ensureCode(code), Message: msg, Err: err}
}

// New creates a formatted error with the supplied code.
func New(code Code, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: ensureCode(code), Message: msg}
}

// CodeOf extracts the outermost pickterm error code from the wrapped error
// value.
func CodeOf(err error) Code {
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Is reports whether the supplied error carries the target error code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Message returns the error string or empty when the error is nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Status maps err onto the one-line status shown to the user. Response
// errors show their detail, malformed data and everything else get fixed
// texts. A nil error has no status.
func Status(err error) string {
	if err == nil {
		return ""
	}
	switch CodeOf(err) {
	case CodeResponse:
		var d Detailer
		if stdErrors.As(err, &d) {
			if detail := strings.TrimSpace(d.Detail()); detail != "" {
				return responseStatusPrefix + detail
			}
		}
		return responseStatusPrefix + "unexpected status"
	case CodeMalformed:
		return StatusMalformed
	default:
		return StatusFailed
	}
}

func ensureCode(code Code) Code {
	if code == "" {
		return CodeUnknown
	}
	return code
}
