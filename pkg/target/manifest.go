// SPDX-License-Identifier: MPL-2.0

package target

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/sourcery-build/pkg/cueutil"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnsupportedManifestFormat is returned for manifest files whose extension
// is not one of .json, .yaml, .yml, .toml or .cue.
var ErrUnsupportedManifestFormat = errors.New("unsupported manifest format")

//go:embed manifest_schema.cue
var manifestSchema []byte

type (
	// Manifest is a target plus the host directories it is built in.
	Manifest struct {
		Target        Target
		PackageRoot   string
		WorkDirectory string
	}

	// manifestFile is the on-disk shape shared by every manifest format.
	manifestFile struct {
		Name          string   `json:"name" yaml:"name" toml:"name"`
		Directory     string   `json:"directory" yaml:"directory" toml:"directory"`
		PackageRoot   string   `json:"package_root,omitempty" yaml:"package_root,omitempty" toml:"package_root,omitempty"`
		WorkDirectory string   `json:"work_directory,omitempty" yaml:"work_directory,omitempty" toml:"work_directory,omitempty"`
		InputFiles    []string `json:"input_files" yaml:"input_files" toml:"input_files"`
	}
)

// LoadManifest reads a manifest, choosing the decoder from the file extension,
// and resolves every relative path in it.
func LoadManifest(path string) (*Manifest, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	mf, err := decodeManifest(absPath, data)
	if err != nil {
		return nil, err
	}

	m := mf.resolve(filepath.Dir(absPath))
	if err := m.Target.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}
	return m, nil
}

func decodeManifest(path string, data []byte) (*manifestFile, error) {
	var mf manifestFile

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&mf); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, &mf, yaml.DisallowUnknownField()); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&mf); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".cue":
		result, err := cueutil.ParseAndDecode[manifestFile](manifestSchema, data, "#Manifest", cueutil.WithFilename(path))
		if err != nil {
			return nil, err
		}
		mf = *result.Value
	default:
		return nil, fmt.Errorf("%w: %q (use .json, .yaml, .yml, .toml or .cue)", ErrUnsupportedManifestFormat, ext)
	}

	return &mf, nil
}

// resolve anchors relative paths: directory and package_root against base,
// input files against the target directory.
func (mf *manifestFile) resolve(base string) *Manifest {
	dir := absFrom(base, mf.Directory)

	pkgRoot := base
	if mf.PackageRoot != "" {
		pkgRoot = absFrom(base, mf.PackageRoot)
	}

	workDir := DefaultWorkDirectory(pkgRoot, mf.Name)
	if mf.WorkDirectory != "" {
		workDir = absFrom(base, mf.WorkDirectory)
	}

	inputs := make([]string, 0, len(mf.InputFiles))
	for _, f := range mf.InputFiles {
		inputs = append(inputs, absFrom(dir, f))
	}

	return &Manifest{
		Target:        New(mf.Name, dir, inputs),
		PackageRoot:   filepath.Clean(pkgRoot),
		WorkDirectory: filepath.Clean(workDir),
	}
}

// DefaultWorkDirectory is the work directory used when the host does not
// provide one.
func DefaultWorkDirectory(packageRoot, name string) string {
	return filepath.Join(packageRoot, ".build", "sourcery-build", name)
}

func absFrom(base, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
