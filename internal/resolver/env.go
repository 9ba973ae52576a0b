// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"os"
	"strings"
)

const (
	// EnvPackageRootDir holds the package root directory.
	EnvPackageRootDir = "PACKAGE_ROOT_DIR"
	// EnvTargetDir holds the target's source directory.
	EnvTargetDir = "TARGET_DIR"
	// EnvDerivedSourcesDir holds the generator output directory.
	EnvDerivedSourcesDir = "DERIVED_SOURCES_DIR"
	// EnvSourceryCacheDir holds the generator cache directory.
	EnvSourceryCacheDir = "SOURCERY_CACHE_DIR"
)

// PassthroughKeys are the only host variables copied into the derived environment.
var PassthroughKeys = []string{"HOME", "USER"}

type (
	// EnvProvider supplies host environment variables to the resolver.
	EnvProvider interface {
		Lookup(key string) (string, bool)
	}

	// ProcessEnv reads from the process environment.
	ProcessEnv struct {
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
	}

	// MapEnv is a fixed environment, mainly for tests and hosts that
	// materialize their environment up front.
	MapEnv map[string]string
)

// Lookup implements EnvProvider.
func (p ProcessEnv) Lookup(key string) (string, bool) {
	if p.Environ == nil {
		return os.LookupEnv(key)
	}
	for _, kv := range p.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}

// Lookup implements EnvProvider.
func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// DeriveEnvironment builds the generator environment: the passthrough keys
// that are set on the host, overlaid with the target-specific keys.
func DeriveEnvironment(host EnvProvider, packageRoot, targetDir, outputDir, cacheDir string) Environment {
	env := make(Environment, len(PassthroughKeys)+4)
	if host != nil {
		for _, key := range PassthroughKeys {
			if v, ok := host.Lookup(key); ok {
				env[key] = v
			}
		}
	}

	env[EnvPackageRootDir] = packageRoot
	env[EnvTargetDir] = targetDir
	env[EnvDerivedSourcesDir] = outputDir
	env[EnvSourceryCacheDir] = cacheDir
	return env
}
