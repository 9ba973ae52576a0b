// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrEmptyName is returned when a target has no name.
	ErrEmptyName = errors.New("target name must not be empty")
	// ErrEmptyDirectory is returned when a target has no source directory.
	ErrEmptyDirectory = errors.New("target directory must not be empty")
	// ErrRelativeInput is returned when an input file path is not absolute.
	ErrRelativeInput = errors.New("input file path must be absolute")
)

type (
	// Target is the read-only description of one unit of compilation.
	Target struct {
		// Name identifies the target in command display names.
		Name string
		// Directory is the target's source directory.
		Directory string
		// InputFiles are absolute paths in host declaration order.
		InputFiles []string
	}

	// InvalidTargetError collects field-level validation errors.
	// It wraps ErrInvalidTarget for errors.Is() compatibility.
	InvalidTargetError struct {
		FieldErrors []error
	}
)

// New builds a Target from already-absolute inputs, cleaning every path.
func New(name, directory string, inputFiles []string) Target {
	files := make([]string, 0, len(inputFiles))
	for _, f := range inputFiles {
		files = append(files, filepath.Clean(f))
	}
	return Target{
		Name:       name,
		Directory:  filepath.Clean(directory),
		InputFiles: files,
	}
}

// IsValid reports whether the target can be resolved.
func (t Target) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, ErrEmptyName)
	}
	if strings.TrimSpace(t.Directory) == "" {
		errs = append(errs, ErrEmptyDirectory)
	}
	for _, f := range t.InputFiles {
		if !filepath.IsAbs(f) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrRelativeInput, f))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidTargetError{FieldErrors: errs}}
	}
	return true, nil
}

// Validate returns IsValid's error, or nil.
func (t Target) Validate() error {
	if ok, errs := t.IsValid(); !ok {
		return errs[0]
	}
	return nil
}

// Error implements the error interface for InvalidTargetError.
func (e *InvalidTargetError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid target: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidTarget and the field errors.
func (e *InvalidTargetError) Unwrap() []error {
	return append([]error{ErrInvalidTarget}, e.FieldErrors...)
}
