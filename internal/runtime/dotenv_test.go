// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestParseEnvFile(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"# settings",
		"",
		"PLAIN=value",
		"export EXPORTED=yes",
		"  SPACED = padded  ",
		`DOUBLE="a\tb\n\"q\" \$HOME"`,
		`SINGLE='raw\n'`,
		"COMMENTED=kept # dropped",
		"EMPTY=",
		"WINDOWS=crlf\r",
	}, "\n")

	env := map[string]string{"PLAIN": "old"}
	if err := ParseEnvFile(env, []byte(content), ".env"); err != nil {
		t.Fatalf("ParseEnvFile() error = %v", err)
	}

	want := map[string]string{
		"PLAIN":     "value",
		"EXPORTED":  "yes",
		"SPACED":    "padded",
		"DOUBLE":    "a\tb\n\"q\" $HOME",
		"SINGLE":    `raw\n`,
		"COMMENTED": "kept",
		"EMPTY":     "",
		"WINDOWS":   "crlf",
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEnvFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"missing equals", "OK=1\nBROKEN\n", ".env:2: invalid format"},
		{"empty key", "=value", ".env:1: empty variable name"},
		{"unterminated double", `K="open`, `.env:1: unterminated " quote`},
		{"unterminated single", `K='`, ".env:1: unterminated ' quote"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ParseEnvFile(map[string]string{}, []byte(tt.content), ".env")
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ParseEnvFile() error = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/proj/build.env", []byte("A=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{}
	if err := LoadEnvFile(fsys, env, "build.env", "/proj"); err != nil {
		t.Fatalf("relative path: %v", err)
	}
	if env["A"] != "1" {
		t.Errorf("A = %q, want 1", env["A"])
	}

	if err := LoadEnvFile(fsys, env, "/proj/missing.env?", "/"); err != nil {
		t.Errorf("optional missing file: %v", err)
	}
	if err := LoadEnvFile(fsys, env, "/proj/missing.env", "/"); err == nil {
		t.Error("required missing file: expected error")
	}
}
