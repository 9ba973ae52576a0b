// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestEnvBuilder_Precedence(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/proj/a.env", []byte("FROM_FILE=a\nSHARED=file\nTARGET_DIR=file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := &EnvBuilder{
		Environ: func() []string { return []string{"PATH=/bin", "SHARED=host", "=ignored"} },
		Files:   []string{"a.env", "optional.env?"},
		Dir:     "/proj",
		fs:      fsys,
	}
	env, err := b.Build(map[string]string{"TARGET_DIR": "/t"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := map[string]string{
		"PATH":       "/bin",
		"SHARED":     "file",
		"FROM_FILE":  "a",
		"TARGET_DIR": "/t",
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvBuilder_MissingFile(t *testing.T) {
	t.Parallel()

	b := &EnvBuilder{
		Environ: func() []string { return nil },
		Files:   []string{"nope.env"},
		Dir:     "/proj",
		fs:      afero.NewMemMapFs(),
	}
	if _, err := b.Build(nil); err == nil {
		t.Fatal("expected error for a missing env file")
	}
}

func TestEnvToSlice(t *testing.T) {
	t.Parallel()

	got := EnvToSlice(map[string]string{"B": "2", "A": "1=1"})
	if diff := cmp.Diff([]string{"A=1=1", "B=2"}, got); diff != "" {
		t.Errorf("EnvToSlice() mismatch (-want +got):\n%s", diff)
	}
}
