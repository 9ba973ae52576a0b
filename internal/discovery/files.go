// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	// ConfigFileName is the declarative configuration file looked up in a
	// target's source directory.
	ConfigFileName = ".sourcery.yml"
	// ArgFileName is the optional file of extra generator flags.
	ArgFileName = ".sourcery-args"

	// SourceExtension selects the files that define the source root.
	SourceExtension = "swift"
)

// TemplateExtensions are the recognized template file extensions, matched
// exactly and case-sensitively.
var TemplateExtensions = []string{"stencil", "swifttemplate"}

// FindTemplateFiles returns the inputs whose extension is a template
// extension, in input order.
func FindTemplateFiles(inputs []string) []string {
	var templates []string
	for _, f := range inputs {
		if isTemplate(f) {
			templates = append(templates, f)
		}
	}
	return templates
}

func isTemplate(path string) bool {
	ext := extension(path)
	for _, want := range TemplateExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// extension returns the extension of the last path component without the dot.
func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// FindSourceRoot returns the longest common string prefix of the inputs with
// the source extension, or fallback when there are none.
func FindSourceRoot(inputs []string, fallback string) string {
	var sources []string
	for _, f := range inputs {
		if extension(f) == SourceExtension {
			sources = append(sources, f)
		}
	}
	if len(sources) == 0 {
		return fallback
	}
	return CommonPrefix(sources)
}

// CommonPrefix returns the longest common string prefix of paths. It is not
// path-segment aware: "/a/foo" and "/a/foobar" yield "/a/foo". The prefix
// never ends inside a multi-byte character.
func CommonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	prefix := paths[0]
	for _, p := range paths[1:] {
		n := 0
		for n < len(prefix) && n < len(p) && prefix[n] == p[n] {
			n++
		}
		// Back off to a rune boundary.
		for n > 0 && n < len(prefix) && !utf8.RuneStart(prefix[n]) {
			n--
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// LocateFile reports whether dir/name exists as a non-directory. A stat error
// other than "not exist" is returned so callers can surface it.
func LocateFile(fsys afero.Fs, dir, name string) (path string, found bool, err error) {
	path = filepath.Join(dir, name)
	info, err := fsys.Stat(path)
	switch {
	case err == nil:
		return path, !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return path, false, nil
	default:
		return path, false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
}
