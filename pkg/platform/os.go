// SPDX-License-Identifier: MPL-2.0

package platform

import goruntime "runtime"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Architecture constants for runtime.GOARCH comparisons.
const (
	AMD64 = "amd64"
	ARM64 = "arm64"
)

// Host identifies an operating system and architecture pair.
type Host struct {
	OS   string
	Arch string
}

// Current returns the host this process runs on.
func Current() Host {
	return Host{OS: goruntime.GOOS, Arch: goruntime.GOARCH}
}

// Triples returns the target triples, most specific first, that an artifact
// bundle variant may list for this host. An unknown host yields nil.
func (h Host) Triples() []string {
	var arch []string
	switch h.Arch {
	case AMD64:
		arch = []string{"x86_64"}
	case ARM64:
		arch = []string{"arm64", "aarch64"}
	default:
		return nil
	}

	var vendorOS string
	switch h.OS {
	case Darwin:
		vendorOS = "apple-macosx"
	case Linux:
		vendorOS = "unknown-linux-gnu"
	case Windows:
		vendorOS = "unknown-windows-msvc"
	default:
		return nil
	}

	triples := make([]string, 0, len(arch))
	for _, a := range arch {
		triples = append(triples, a+"-"+vendorOS)
	}
	return triples
}

// String returns "os/arch".
func (h Host) String() string {
	return h.OS + "/" + h.Arch
}
