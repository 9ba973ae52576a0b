// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LoadEnvFile reads a dotenv file and merges it into env. Relative paths are
// resolved against dir. A trailing '?' marks the file optional: a missing
// optional file is not an error.
func LoadEnvFile(fsys afero.Fs, env map[string]string, path, dir string) error {
	path, optional := strings.CutSuffix(path, "?")

	fullPath := path
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(dir, filepath.FromSlash(path))
	}

	content, err := afero.ReadFile(fsys, fullPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	return ParseEnvFile(env, content, path)
}

// ParseEnvFile parses dotenv content into env. Supported lines:
//
//	# comment
//	KEY=value          (inline " #" comments stripped)
//	KEY="a\tb"         (escapes: \n \r \t \\ \" \$)
//	KEY='literal'
//	export KEY=value
//	KEY=
//
// The filename is used for error messages only.
func ParseEnvFile(env map[string]string, content []byte, filename string) error {
	lineNum := 0
	for line := range strings.Lines(string(content)) {
		lineNum++
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%s:%d: invalid format (missing '=')", filename, lineNum)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%s:%d: empty variable name", filename, lineNum)
		}

		value, err := parseEnvValue(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filename, lineNum, err)
		}
		env[key] = value
	}
	return nil
}

func parseEnvValue(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	switch quote := value[0]; quote {
	case '"', '\'':
		if len(value) < 2 || value[len(value)-1] != quote {
			return "", fmt.Errorf("unterminated %c quote", quote)
		}
		inner := value[1 : len(value)-1]
		if quote == '\'' {
			return inner, nil
		}
		return unescape(inner), nil
	}

	if before, _, found := strings.Cut(value, " #"); found {
		value = strings.TrimSpace(before)
	}
	return value, nil
}

var escapes = map[byte]byte{'n': '\n', 'r': '\r', 't': '\t', '\\': '\\', '"': '"', '$': '$'}

func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if c, ok := escapes[s[i+1]]; ok {
				b.WriteByte(c)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
