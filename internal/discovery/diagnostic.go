// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
)

const (
	// SeverityWarning indicates a recoverable condition; the build proceeds.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a build-breaking condition. Resolution still
	// completes; the caller decides whether to stop.
	SeverityError Severity = "error"

	// CodeConfigFileNotFound reports a target without a declarative config file.
	CodeConfigFileNotFound DiagnosticCode = "config_file_not_found"
	// CodeTemplatesNotFound reports CLI mode with zero template files.
	CodeTemplatesNotFound DiagnosticCode = "templates_not_found"
	// CodeArgFileInvalid reports an argument file that exists but cannot be decoded.
	CodeArgFileInvalid DiagnosticCode = "arg_file_invalid"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is the sentinel error wrapped by InvalidDiagnosticCodeError.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// InvalidSeverityError is returned when a Severity value is not recognized.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidDiagnosticCodeError is returned when a DiagnosticCode value is not recognized.
	InvalidDiagnosticCodeError struct {
		Value DiagnosticCode
	}

	// Diagnostic is returned to callers rather than written to stderr so the
	// CLI layer owns rendering policy.
	Diagnostic struct {
		Severity Severity       `json:"severity" yaml:"severity"`
		Code     DiagnosticCode `json:"code" yaml:"code"`
		Message  string         `json:"message" yaml:"message"`
		// Path is the file or directory the diagnostic is about (optional).
		Path string `json:"path,omitempty" yaml:"path,omitempty"`
		// Cause is the underlying error (optional).
		Cause error `json:"-" yaml:"-"`
	}
)

// NewWarning builds a warning diagnostic.
func NewWarning(code DiagnosticCode, path, message string, cause error) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Path: path, Cause: cause}
}

// NewError builds an error diagnostic.
func NewError(code DiagnosticCode, path, message string, cause error) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: message, Path: path, Cause: cause}
}

// HasErrors reports whether any diagnostic has SeverityError.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// IsValid returns whether the Severity is a known level.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// IsValid returns whether the DiagnosticCode is a known code.
func (c DiagnosticCode) IsValid() (bool, []error) {
	switch c {
	case CodeConfigFileNotFound, CodeTemplatesNotFound, CodeArgFileInvalid:
		return true, nil
	default:
		return false, []error{&InvalidDiagnosticCodeError{Value: c}}
	}
}

// Error implements the error interface for InvalidSeverityError.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid diagnostic severity %q (valid: warning, error)", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// Error implements the error interface for InvalidDiagnosticCodeError.
func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidDiagnosticCode for errors.Is() compatibility.
func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }
