// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/invowk/sourcery-build/internal/discovery"
)

var (
	errInvalidUTF8 = errors.New("file is not valid UTF-8")
	errIsDirectory = errors.New("path is a directory")
)

// ReservedFlags are controlled by the resolver and dropped from the argument
// file together with their values.
var ReservedFlags = []string{"--sources", "--templates", "--output", "--cacheBasePath"}

// ParseArgFile reads an argument file and returns its generator flags in file
// order. A missing file or an empty path yields no tokens and no diagnostics.
// A file that cannot be read or decoded yields a single arg_file_invalid
// warning and no tokens.
func ParseArgFile(fsys afero.Fs, path string, env Environment) ([]string, []discovery.Diagnostic) {
	if path == "" {
		return nil, nil
	}

	info, err := fsys.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, []discovery.Diagnostic{invalidArgFile(path, err)}
	case info.IsDir():
		return nil, []discovery.Diagnostic{invalidArgFile(path, errIsDirectory)}
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, []discovery.Diagnostic{invalidArgFile(path, err)}
	}
	if !utf8.Valid(data) {
		return nil, []discovery.Diagnostic{invalidArgFile(path, errInvalidUTF8)}
	}

	return ParseArgs(string(data), env), nil
}

func invalidArgFile(path string, cause error) discovery.Diagnostic {
	return discovery.NewWarning(discovery.CodeArgFileInvalid, path,
		fmt.Sprintf("could not read argument file %s: %v; continuing without extra arguments", path, cause), cause)
}

// ParseArgs tokenizes argument file content. Lines not starting with "--"
// after trimming are ignored. Each flag line splits on its first space into
// the flag and an optional value. The value is trimmed on both sides, so
// "--flag   x" yields "x"; values have ${NAME} references expanded.
func ParseArgs(content string, env Environment) []string {
	var tokens []string
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--") {
			continue
		}

		flag, value, _ := strings.Cut(line, " ")
		if isReserved(flag) {
			continue
		}

		tokens = append(tokens, flag)
		if value = strings.TrimSpace(value); value != "" {
			tokens = append(tokens, ExpandVars(value, env))
		}
	}
	return tokens
}

func isReserved(flag string) bool {
	for _, r := range ReservedFlags {
		if flag == r {
			return true
		}
	}
	return false
}

// ExpandVars replaces every ${NAME} in s with env[NAME], or the empty string
// when NAME is absent. The scan is a single left-to-right pass over the
// original text; substituted values are never re-scanned. An unterminated
// "${" is kept literally.
func ExpandVars(s string, env Environment) string {
	var b strings.Builder
	b.Grow(len(s))
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.IndexByte(s[start+2:], '}')
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		b.WriteString(env[s[start+2:start+2+end]])
		s = s[start+2+end+1:]
	}
}
