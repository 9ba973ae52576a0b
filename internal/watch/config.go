// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const defaultDebounce = 500 * time.Millisecond

var (
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")

	// DefaultPatterns select the files that affect generation output.
	DefaultPatterns = []string{
		"**/*.swift",
		"**/*.stencil",
		"**/*.swifttemplate",
		"**/.sourcery.yml",
		"**/.sourcery-args",
	}

	// defaultIgnores never trigger callbacks: VCS metadata, SwiftPM build
	// state, editor swap files and Finder metadata.
	defaultIgnores = []string{
		"**/.git/**",
		"**/.build/**",
		"**/.swiftpm/**",
		"**/*.swp",
		"**/*~",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the directory watched recursively. Empty means the
		// working directory.
		BaseDir string
		// Patterns select which changed files trigger the callback. Empty
		// means DefaultPatterns.
		Patterns []string
		// Ignore adds patterns to the built-in ignores.
		Ignore []string
		// ExcludeDirs are absolute directories whose events are dropped, such
		// as the generator's own output directory.
		ExcludeDirs []string
		// Debounce is the quiet period after the last event. Zero or negative
		// means 500ms.
		Debounce time.Duration
		// OnChange receives the changed paths relative to BaseDir.
		OnChange func(ctx context.Context, changed []string) error
	}

	// InvalidWatchConfigError collects every invalid field of a Config.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}
)

// Validate checks every pattern and the base directory.
func (c Config) Validate() error {
	var errs []error
	for _, p := range c.Patterns {
		if err := validatePattern(p); err != nil {
			errs = append(errs, fmt.Errorf("watch pattern: %w", err))
		}
	}
	for _, p := range c.Ignore {
		if err := validatePattern(p); err != nil {
			errs = append(errs, fmt.Errorf("ignore pattern: %w", err))
		}
	}
	if c.BaseDir != "" && strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, errors.New("base directory must not be blank"))
	}
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

func validatePattern(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New("pattern must not be empty")
	}
	if !doublestar.ValidatePattern(p) {
		return fmt.Errorf("%q: %w", p, doublestar.ErrBadPattern)
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }
