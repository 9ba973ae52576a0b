// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// DefaultVersion is the sourcery release installed when none is configured.
	DefaultVersion = "2.2.5"

	releaseURLFormat = "https://github.com/krzysztofzablocki/Sourcery/releases/download/%[1]s/sourcery-%[1]s.artifactbundle.zip"
)

var (
	// ErrInvalidVersion indicates a version that is not a semantic version.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrChecksumRequired is returned when no checksum is configured or known
	// for the requested bundle.
	ErrChecksumRequired = errors.New("no checksum configured for bundle")

	// knownChecksums pins the SHA-256 of official release bundles.
	knownChecksums = map[string]string{
		"2.2.5": "875ef49ba5e5aeb6dc6fb3094485ee54062deb4e487827f5756a9ea75b66ffd8",
	}
)

// NormalizeVersion validates v as semver and returns it without a "v" prefix,
// matching the release tags.
func NormalizeVersion(v string) (string, error) {
	canonical := v
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	if !semver.IsValid(canonical) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return strings.TrimPrefix(canonical, "v"), nil
}

// CompareVersions compares two versions as semver (-1, 0, +1). Both must be valid.
func CompareVersions(a, b string) (int, error) {
	na, err := NormalizeVersion(a)
	if err != nil {
		return 0, err
	}
	nb, err := NormalizeVersion(b)
	if err != nil {
		return 0, err
	}
	return semver.Compare("v"+na, "v"+nb), nil
}

// ReleaseURL returns the official bundle URL for a normalized version.
func ReleaseURL(version string) string {
	return fmt.Sprintf(releaseURLFormat, version)
}

// KnownChecksum returns the pinned checksum of an official release.
func KnownChecksum(version string) (string, bool) {
	sum, ok := knownChecksums[version]
	return sum, ok
}
