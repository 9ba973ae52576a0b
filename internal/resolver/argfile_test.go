// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/invowk/sourcery-build/internal/discovery"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	env := Environment{"TARGET_DIR": "/t", "HOME": "/home/me", "LOOP": "${TARGET_DIR}"}

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "flag with expanded value",
			content: "--exclude-sources ${TARGET_DIR}/Gen\n",
			want:    []string{"--exclude-sources", "/t/Gen"},
		},
		{
			name:    "reserved flags around a pass-through flag",
			content: "--sources /ignored\n--flag ${HOME}/x\n--templates /ignored",
			want:    []string{"--flag", "/home/me/x"},
		},
		{
			name:    "reserved flags dropped with their values",
			content: "--sources /x\n--templates /y\n--output /o\n--cacheBasePath /c\n--disableCache\n",
			want:    []string{"--disableCache"},
		},
		{
			name:    "non flag lines ignored",
			content: "# comment\nverbose\n-v\n\n   \n--quiet\n",
			want:    []string{"--quiet"},
		},
		{
			name:    "whitespace trimmed and empty value omitted",
			content: "   --parseDocumentation   \n--args   \n",
			want:    []string{"--parseDocumentation", "--args"},
		},
		{
			name:    "missing variable expands to empty",
			content: "--args a=${MISSING}b\n",
			want:    []string{"--args", "a=b"},
		},
		{
			name:    "expanded text is not rescanned",
			content: "--args ${LOOP}\n",
			want:    []string{"--args", "${TARGET_DIR}"},
		},
		{
			name:    "multiple references and unterminated brace",
			content: "--args ${HOME}:${TARGET_DIR}:${OPEN\n",
			want:    []string{"--args", "/home/me:/t:${OPEN"},
		},
		{
			name:    "order preserved without dedupe",
			content: "--a 1\n--b\n--a 2\n",
			want:    []string{"--a", "1", "--b", "--a", "2"},
		},
		{
			name:    "value keeps inner spaces",
			content: "--args key=a b  c\r\n",
			want:    []string{"--args", "key=a b  c"},
		},
		{
			name:    "leading value whitespace trimmed",
			content: "--flag   x\n--args \t${HOME} \n",
			want:    []string{"--flag", "x", "--args", "/home/me"},
		},
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, ParseArgs(tt.content, env)); diff != "" {
				t.Errorf("ParseArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpandVars(t *testing.T) {
	t.Parallel()

	env := Environment{"A": "x", "B": "${A}"}
	tests := map[string]string{
		"plain":       "plain",
		"${A}":        "x",
		"${A}${A}":    "xx",
		"${B}":        "${A}",
		"${}":         "",
		"$A":          "$A",
		"pre${A}post": "prexpost",
		"${A":         "${A",
	}
	for in, want := range tests {
		if got := ExpandVars(in, env); got != want {
			t.Errorf("ExpandVars(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseArgFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	mustWrite(t, fsys, "/t/.sourcery-args", "--disableCache\n--args dir=${TARGET_DIR}\n")
	mustWrite(t, fsys, "/t/bad-args", "--args \xff\xfe\n")
	if err := fsys.MkdirAll("/t/dir-args", 0o755); err != nil {
		t.Fatal(err)
	}

	env := Environment{"TARGET_DIR": "/t"}

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		tokens, diags := ParseArgFile(fsys, "/t/.sourcery-args", env)
		if len(diags) != 0 {
			t.Fatalf("unexpected diagnostics: %v", diags)
		}
		if diff := cmp.Diff([]string{"--disableCache", "--args", "dir=/t"}, tokens); diff != "" {
			t.Errorf("tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file and empty path", func(t *testing.T) {
		t.Parallel()

		for _, path := range []string{"", "/t/nope"} {
			tokens, diags := ParseArgFile(fsys, path, env)
			if tokens != nil || diags != nil {
				t.Errorf("ParseArgFile(%q) = %v, %v; want nil, nil", path, tokens, diags)
			}
		}
	})

	t.Run("invalid utf8 warns", func(t *testing.T) {
		t.Parallel()

		tokens, diags := ParseArgFile(fsys, "/t/bad-args", env)
		if tokens != nil {
			t.Errorf("tokens = %v, want nil", tokens)
		}
		if len(diags) != 1 {
			t.Fatalf("got %d diagnostics, want 1", len(diags))
		}
		d := diags[0]
		if d.Code != discovery.CodeArgFileInvalid || d.Severity != discovery.SeverityWarning {
			t.Errorf("diagnostic = %+v", d)
		}
		if !errors.Is(d.Cause, errInvalidUTF8) {
			t.Errorf("cause = %v, want errInvalidUTF8", d.Cause)
		}
	})

	t.Run("unreadable path warns", func(t *testing.T) {
		t.Parallel()

		tokens, diags := ParseArgFile(fsys, "/t/dir-args", env)
		if tokens != nil {
			t.Errorf("tokens = %v, want nil", tokens)
		}
		if len(diags) != 1 || !errors.Is(diags[0].Cause, errIsDirectory) {
			t.Fatalf("diagnostics = %v, want one arg_file_invalid", diags)
		}
	})
}

func mustWrite(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
