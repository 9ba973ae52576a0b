// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBundleInfo_Variant(t *testing.T) {
	t.Parallel()

	info, err := ParseBundleInfo([]byte(testInfoJSON))
	if err != nil {
		t.Fatalf("ParseBundleInfo() error = %v", err)
	}

	v, err := info.Variant(ExecutableName, []string{"arm64-apple-macosx"})
	if err != nil || v.Path != "sourcery/bin/sourcery" {
		t.Errorf("Variant(mac) = %+v, %v", v, err)
	}

	if _, err := info.Variant(ExecutableName, []string{"x86_64-unknown-windows-msvc"}); !errors.Is(err, ErrNoMatchingVariant) {
		t.Errorf("Variant(windows) error = %v, want ErrNoMatchingVariant", err)
	}
	if _, err := info.Variant("other", []string{"arm64-apple-macosx"}); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Variant(other) error = %v, want ErrArtifactNotFound", err)
	}
	if _, err := ParseBundleInfo([]byte("{")); err == nil {
		t.Error("ParseBundleInfo() expected error for malformed JSON")
	}
}

func TestOpenBundle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	bundleDir := filepath.Join(root, "sourcery.artifactbundle")
	bin := filepath.Join(bundleDir, "sourcery", "bin", "sourcery")
	if err := os.MkdirAll(filepath.Dir(bin), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bundleDir, "info.json"), []byte(testInfoJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bin, []byte("bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	b, err := OpenBundle(root)
	if err != nil {
		t.Fatalf("OpenBundle() error = %v", err)
	}
	if b.Dir != bundleDir {
		t.Errorf("Dir = %q, want %q", b.Dir, bundleDir)
	}
	path, err := b.ExecutablePath(linuxHost.Triples())
	if err != nil || path != bin {
		t.Errorf("ExecutablePath() = %q, %v; want %q", path, err, bin)
	}

	if _, err := OpenBundle(t.TempDir()); !errors.Is(err, ErrBundleInfoNotFound) {
		t.Errorf("OpenBundle(empty) error = %v, want ErrBundleInfoNotFound", err)
	}
}
