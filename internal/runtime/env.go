// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

type (
	// EnvBuilder assembles the generator process environment. Precedence,
	// lowest to highest:
	//
	//  1. Host environment
	//  2. Env files, in order
	//  3. The command's derived environment
	EnvBuilder struct {
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
		// Files are dotenv files loaded on top of the host environment.
		Files []string
		// Dir resolves relative Files. When empty, the working directory is used.
		Dir string

		fs afero.Fs
	}
)

// NewEnvBuilder creates an EnvBuilder reading env files from the OS filesystem.
func NewEnvBuilder(files ...string) *EnvBuilder {
	return &EnvBuilder{Files: files, fs: afero.NewOsFs()}
}

// Build returns the merged environment for a command with the given derived env.
func (b *EnvBuilder) Build(derived map[string]string) (map[string]string, error) {
	environ := b.Environ
	if environ == nil {
		environ = os.Environ
	}

	env := make(map[string]string)
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}

	fsys := b.fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	dir := b.Dir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	for _, path := range b.Files {
		if err := LoadEnvFile(fsys, env, path, dir); err != nil {
			return nil, err
		}
	}

	maps.Copy(env, derived)
	return env, nil
}

// EnvToSlice converts an environment map to sorted "KEY=VALUE" strings.
func EnvToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}
