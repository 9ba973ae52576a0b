// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/invowk/sourcery-build/internal/issue"
	"github.com/invowk/sourcery-build/pkg/platform"
)

// ErrToolNotFound is returned when no sourcery executable can be located.
var ErrToolNotFound = errors.New("sourcery executable not found")

// Locator finds the sourcery executable. Candidates are tried in order: the
// configured path, an installed bundle, then PATH.
type Locator struct {
	// ConfiguredPath is an explicit executable path (optional).
	ConfiguredPath string
	// InstallDir and Version identify an installed bundle (optional).
	InstallDir string
	Version    string
	Host       platform.Host
	// LookPath searches PATH. When nil, exec.LookPath is used.
	LookPath func(string) (string, error)
}

// FindInstalled returns the executable of an installed version.
func FindInstalled(installDir, version string, host platform.Host) (string, error) {
	bundle, err := OpenBundle(filepath.Join(installDir, version))
	if err != nil {
		return "", err
	}
	return bundle.ExecutablePath(host.Triples())
}

// installedVersions lists the version directories under dir, newest first.
// Entries whose name is not a normalized version are skipped.
func installedVersions(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if v, err := NormalizeVersion(e.Name()); err == nil && v == e.Name() {
			versions = append(versions, v)
		}
	}
	slices.SortFunc(versions, func(a, b string) int {
		c, _ := CompareVersions(b, a)
		return c
	})
	return versions
}

// Locate returns the executable path. Failure is an *issue.ActionableError
// wrapping ErrToolNotFound.
func (l Locator) Locate() (string, error) {
	if l.ConfiguredPath != "" {
		info, err := os.Stat(l.ConfiguredPath)
		if err == nil && !info.IsDir() {
			return l.ConfiguredPath, nil
		}
		if err == nil {
			err = fs.ErrInvalid
		}
		return "", l.notFound(fmt.Errorf("%w: configured path %s: %w", ErrToolNotFound, l.ConfiguredPath, err))
	}

	if l.InstallDir != "" {
		version := l.Version
		if version == "" {
			version = DefaultVersion
		}
		if v, err := NormalizeVersion(version); err == nil {
			path, err := FindInstalled(l.InstallDir, v, l.Host)
			if err == nil {
				return path, nil
			}
			slog.Debug("no installed sourcery bundle", "dir", l.InstallDir, "version", v, "error", err)
			if installed := installedVersions(l.InstallDir); len(installed) > 0 {
				if c, _ := CompareVersions(installed[0], v); c < 0 {
					slog.Warn("installed sourcery bundles are older than tool.version; run 'sourcery-build install'",
						"wanted", v, "newest_installed", installed[0])
				}
			}
		}
	}

	lookPath := l.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(ExecutableName)
	if err != nil {
		return "", l.notFound(fmt.Errorf("%w: %w", ErrToolNotFound, err))
	}
	return path, nil
}

func (l Locator) notFound(cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation("locate sourcery").
		WithIssue(issue.ToolNotFoundId).
		Wrap(cause)
	if l.ConfiguredPath != "" {
		ctx = ctx.WithResource(l.ConfiguredPath).
			WithSuggestion("Check that tool.path points to the sourcery executable")
	} else {
		ctx = ctx.WithSuggestion("Run 'sourcery-build install' to download the pinned release").
			WithSuggestion("Or set tool.path in the configuration")
	}
	return ctx.BuildError()
}
