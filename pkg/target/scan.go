// SPDX-License-Identifier: MPL-2.0

package target

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// scanIgnores are directory globs never reported as target inputs.
var scanIgnores = []string{
	"**/.git/**",
	"**/.build/**",
	"**/.swiftpm/**",
	"**/.DS_Store",
}

// Scan lists every regular file below dir as absolute paths in lexical
// order. It is the fallback when the host does not declare input files.
// Files under any of the exclude directories are skipped, so generated output
// kept inside the target never feeds back into the next scan.
func Scan(fsys afero.Fs, dir string, exclude ...string) ([]string, error) {
	iofs := afero.NewIOFS(afero.NewBasePathFs(fsys, dir))

	matches, err := doublestar.Glob(iofs, "**/*", doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	excluded := excludedPrefixes(dir, exclude)

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if ignored(m) || underAny(m, excluded) {
			continue
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
	}
	slices.Sort(files)
	return files, nil
}

func ignored(rel string) bool {
	rel = path.Clean(rel)
	for _, pattern := range scanIgnores {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// excludedPrefixes returns the exclude directories that lie strictly inside
// dir, relative to it in slash form.
func excludedPrefixes(dir string, exclude []string) []string {
	var out []string
	for _, ex := range exclude {
		if ex == "" {
			continue
		}
		rel, err := filepath.Rel(dir, ex)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func underAny(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}
