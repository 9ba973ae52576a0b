// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ExecutableName is the artifact and binary name inside the bundle.
	ExecutableName = "sourcery"

	bundleInfoFile = "info.json"
	// bundleInfoPattern matches info.json at the archive root or one
	// directory down (the usual "<name>.artifactbundle/info.json" layout).
	bundleInfoPattern = "{info.json,*.artifactbundle/info.json}"
)

var (
	// ErrBundleInfoNotFound is returned when an extracted bundle has no info.json.
	ErrBundleInfoNotFound = errors.New("artifact bundle info.json not found")
	// ErrArtifactNotFound is returned when info.json does not declare the executable.
	ErrArtifactNotFound = errors.New("artifact not declared in bundle")
	// ErrNoMatchingVariant is returned when no variant supports the host.
	ErrNoMatchingVariant = errors.New("no bundle variant supports this host")
)

type (
	// BundleInfo is the info.json manifest of an artifact bundle.
	BundleInfo struct {
		SchemaVersion string              `json:"schemaVersion"`
		Artifacts     map[string]Artifact `json:"artifacts"`
	}

	// Artifact is one named artifact of a bundle.
	Artifact struct {
		Version  string    `json:"version"`
		Type     string    `json:"type"`
		Variants []Variant `json:"variants"`
	}

	// Variant is a platform-specific build of an artifact.
	Variant struct {
		// Path is relative to the bundle directory.
		Path             string   `json:"path"`
		SupportedTriples []string `json:"supportedTriples"`
	}

	// Bundle is an extracted artifact bundle on disk.
	Bundle struct {
		Dir  string
		Info BundleInfo
	}
)

// ParseBundleInfo decodes an info.json document.
func ParseBundleInfo(data []byte) (*BundleInfo, error) {
	var info BundleInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse %s: %w", bundleInfoFile, err)
	}
	return &info, nil
}

// OpenBundle finds and parses the bundle manifest under root.
func OpenBundle(root string) (*Bundle, error) {
	matches, err := doublestar.Glob(os.DirFS(root), bundleInfoPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", root, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrBundleInfoNotFound, root)
	}
	slices.Sort(matches)

	infoPath := filepath.Join(root, filepath.FromSlash(matches[0]))
	data, err := os.ReadFile(infoPath)
	if err != nil {
		return nil, err
	}
	info, err := ParseBundleInfo(data)
	if err != nil {
		return nil, err
	}
	return &Bundle{Dir: filepath.Dir(infoPath), Info: *info}, nil
}

// Variant returns the first variant of the named artifact supporting any of
// the given triples. Triples are tried in order of preference.
func (i *BundleInfo) Variant(artifact string, triples []string) (Variant, error) {
	a, ok := i.Artifacts[artifact]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrArtifactNotFound, artifact)
	}
	for _, triple := range triples {
		for _, v := range a.Variants {
			if slices.Contains(v.SupportedTriples, triple) {
				return v, nil
			}
		}
	}
	return Variant{}, fmt.Errorf("%w: %v", ErrNoMatchingVariant, triples)
}

// ExecutablePath returns the absolute path of the executable for the host
// triples and checks that it exists.
func (b *Bundle) ExecutablePath(triples []string) (string, error) {
	v, err := b.Info.Variant(ExecutableName, triples)
	if err != nil {
		return "", err
	}
	path := filepath.Join(b.Dir, filepath.FromSlash(v.Path))
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, fs.ErrInvalid)
	}
	return path, nil
}
