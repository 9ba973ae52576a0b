// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadManifest_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		content string
	}{
		{"target.json", `{
  "name": "App",
  "directory": "Sources/App",
  "work_directory": "/tmp/work",
  "input_files": ["Models.swift", "Templates/AutoMockable.stencil"]
}`},
		{"target.yaml", `name: App
directory: Sources/App
work_directory: /tmp/work
input_files:
  - Models.swift
  - Templates/AutoMockable.stencil
`},
		{"target.toml", `name = "App"
directory = "Sources/App"
work_directory = "/tmp/work"
input_files = ["Models.swift", "Templates/AutoMockable.stencil"]
`},
		{"target.cue", `name: "App"
directory: "Sources/App"
work_directory: "/tmp/work"
input_files: ["Models.swift", "Templates/AutoMockable.stencil"]
`},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			path := writeManifest(t, tt.file, tt.content)
			base := filepath.Dir(path)

			m, err := LoadManifest(path)
			if err != nil {
				t.Fatalf("LoadManifest() error = %v", err)
			}

			want := &Manifest{
				Target: Target{
					Name:      "App",
					Directory: filepath.Join(base, "Sources", "App"),
					InputFiles: []string{
						filepath.Join(base, "Sources", "App", "Models.swift"),
						filepath.Join(base, "Sources", "App", "Templates", "AutoMockable.stencil"),
					},
				},
				PackageRoot:   base,
				WorkDirectory: "/tmp/work",
			}
			if diff := cmp.Diff(want, m); diff != "" {
				t.Errorf("LoadManifest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadManifest_DefaultWorkDirectory(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "target.json", `{"name": "Lib", "directory": "/abs/Lib", "package_root": "pkg"}`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	pkgRoot := filepath.Join(filepath.Dir(path), "pkg")
	if m.PackageRoot != pkgRoot {
		t.Errorf("PackageRoot = %q, want %q", m.PackageRoot, pkgRoot)
	}
	if want := DefaultWorkDirectory(pkgRoot, "Lib"); m.WorkDirectory != want {
		t.Errorf("WorkDirectory = %q, want %q", m.WorkDirectory, want)
	}
	if m.Target.Directory != "/abs/Lib" {
		t.Errorf("absolute directory rewritten: %q", m.Target.Directory)
	}
	if len(m.Target.InputFiles) != 0 {
		t.Errorf("InputFiles = %v, want empty", m.Target.InputFiles)
	}
}

func TestLoadManifest_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		content string
		wantSub string
		wantIs  error
	}{
		{"target.ini", `name=App`, "", ErrUnsupportedManifestFormat},
		{"target.json", `{"name": "App", "directory": "x", "bogus": 1}`, "bogus", nil},
		{"target.yaml", "name: App\ndirectory: x\nbogus: 1\n", "bogus", nil},
		{"target.toml", "name = \"App\"\ndirectory = \"x\"\nbogus = 1\n", "bogus", nil},
		{"target.cue", `name: "App"`, "directory", nil},
		{"target.json", `{"name": "", "directory": "x"}`, "", ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.file+"/"+tt.content, func(t *testing.T) {
			t.Parallel()

			_, err := LoadManifest(writeManifest(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error %v should wrap %v", err, tt.wantIs)
			}
			if tt.wantSub != "" && !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
