package reconcile

import (
	"errors"
	"fmt"
)

// ErrorType categorizes the conditions a reconciliation run can hit
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeSourceUnreadable
	ErrorTypeTargetUnreadable
	ErrorTypeFieldExtractionMiss
	ErrorTypeNoMatchingCollection
	ErrorTypeMissingSerial
	ErrorTypeNoOverflowTarget
)

// ErrorSeverity indicates whether a condition stops the run
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityFatal
)

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeSourceUnreadable:
		return "SOURCE_UNREADABLE"
	case ErrorTypeTargetUnreadable:
		return "TARGET_UNREADABLE"
	case ErrorTypeFieldExtractionMiss:
		return "FIELD_EXTRACTION_MISS"
	case ErrorTypeNoMatchingCollection:
		return "NO_MATCHING_COLLECTION"
	case ErrorTypeMissingSerial:
		return "MISSING_SERIAL"
	case ErrorTypeNoOverflowTarget:
		return "NO_OVERFLOW_TARGET"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the type by name in JSON and YAML output
func (et ErrorType) MarshalText() ([]byte, error) {
	return []byte(et.String()), nil
}

// UnmarshalText parses a type name written by MarshalText. Unknown names
// decode as ErrorTypeUnknown.
func (et *ErrorType) UnmarshalText(text []byte) error {
	name := string(text)
	for t := ErrorTypeUnknown; t <= ErrorTypeNoOverflowTarget; t++ {
		if t.String() == name {
			*et = t
			return nil
		}
	}
	*et = ErrorTypeUnknown
	return nil
}

// Severity returns the severity level for a given error type
func (et ErrorType) Severity() ErrorSeverity {
	switch et {
	case ErrorTypeSourceUnreadable, ErrorTypeTargetUnreadable, ErrorTypeUnknown:
		return SeverityFatal
	case ErrorTypeNoOverflowTarget:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// String returns the severity name
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a fatal condition returned by Run
type Error struct {
	Type    ErrorType
	Message string
	Path    string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given type
func NewError(errorType ErrorType, message string, err error) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// WithPath adds file path information to an existing Error
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// TypeOf returns the type of the first *Error in err's chain
func TypeOf(err error) ErrorType {
	var re *Error
	if errors.As(err, &re) {
		return re.Type
	}
	return ErrorTypeUnknown
}

// IsFatal reports whether err stops a run. Errors that are not *Error are
// always fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return TypeOf(err).Severity() == SeverityFatal
}

// Warning is a non-fatal condition recorded in the summary
type Warning struct {
	Type   ErrorType `json:"type" yaml:"type"`
	Detail string    `json:"detail" yaml:"detail"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Type, w.Detail)
}
