// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestFindTemplateFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		inputs []string
		want   []string
	}{
		{
			name:   "preserves input order",
			inputs: []string{"/t/B.swifttemplate", "/t/x.swift", "/t/A.stencil"},
			want:   []string{"/t/B.swifttemplate", "/t/A.stencil"},
		},
		{
			name:   "extension match is case sensitive",
			inputs: []string{"/t/A.Stencil", "/t/B.SWIFTTEMPLATE"},
			want:   nil,
		},
		{
			name:   "only the final extension counts",
			inputs: []string{"/t/A.stencil.bak", "/t/stencil", "/t/B.x.stencil"},
			want:   []string{"/t/B.x.stencil"},
		},
		{
			name:   "no inputs",
			inputs: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, FindTemplateFiles(tt.inputs)); diff != "" {
				t.Errorf("FindTemplateFiles() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindSourceRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		inputs   []string
		fallback string
		want     string
	}{
		{
			name:     "common directory keeps trailing slash",
			inputs:   []string{"/root/a/Foo.swift", "/root/a/Bar.swift"},
			fallback: "/root",
			want:     "/root/a/",
		},
		{
			name:     "prefix is not segment aware",
			inputs:   []string{"/root/ab/X.swift", "/root/ac/Y.swift"},
			fallback: "/root",
			want:     "/root/a",
		},
		{
			name:     "partial filename overlap",
			inputs:   []string{"/root/a/Foo.swift", "/root/a/FooBar.swift"},
			fallback: "/root",
			want:     "/root/a/Foo",
		},
		{
			name:     "single source is its own root",
			inputs:   []string{"/root/a/Foo.swift"},
			fallback: "/root",
			want:     "/root/a/Foo.swift",
		},
		{
			name:     "non swift inputs are ignored",
			inputs:   []string{"/root/a/Foo.swift", "/other/T.stencil"},
			fallback: "/root",
			want:     "/root/a/Foo.swift",
		},
		{
			name:     "no swift inputs falls back",
			inputs:   []string{"/root/T.stencil"},
			fallback: "/root/target",
			want:     "/root/target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FindSourceRoot(tt.inputs, tt.fallback); got != tt.want {
				t.Errorf("FindSourceRoot() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommonPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"empty", nil, ""},
		{"disjoint", []string{"/a/x", "b/y"}, ""},
		{"identical", []string{"/a/x", "/a/x"}, "/a/x"},
		{"one is prefix of other", []string{"/a/foo", "/a/foobar"}, "/a/foo"},
		{"multibyte boundary", []string{"/a/é.swift", "/a/è.swift"}, "/a/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CommonPrefix(tt.paths); got != tt.want {
				t.Errorf("CommonPrefix(%q) = %q, want %q", tt.paths, got, tt.want)
			}
		})
	}
}

func TestCommonPrefix_OrderIndependent(t *testing.T) {
	t.Parallel()

	paths := []string{"/w/Sources/App/Models/User.swift", "/w/Sources/App/View.swift", "/w/Sources/AppKit.swift"}
	want := CommonPrefix(paths)
	reversed := slices.Clone(paths)
	slices.Reverse(reversed)
	if got := CommonPrefix(reversed); got != want {
		t.Fatalf("CommonPrefix depends on order: %q vs %q", got, want)
	}
	if want != "/w/Sources/App" {
		t.Fatalf("CommonPrefix() = %q, want %q", want, "/w/Sources/App")
	}
}

func TestLocateFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	dir := filepath.FromSlash("/work/Target")
	if err := fsys.MkdirAll(filepath.Join(dir, ArgFileName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, filepath.Join(dir, ConfigFileName), []byte("sources: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, found, err := LocateFile(fsys, dir, ConfigFileName)
	if err != nil || !found {
		t.Fatalf("LocateFile(config) = %q, %v, %v; want found", path, found, err)
	}
	if path != filepath.Join(dir, ConfigFileName) {
		t.Errorf("path = %q", path)
	}

	if _, found, err := LocateFile(fsys, dir, ArgFileName); err != nil || found {
		t.Errorf("directory must not count as a file: found=%v err=%v", found, err)
	}

	if _, found, err := LocateFile(fsys, dir, "missing"); err != nil || found {
		t.Errorf("missing file: found=%v err=%v", found, err)
	}
}
