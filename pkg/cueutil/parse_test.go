// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:  string & !=""
	count: int & >=0 | *1
	tags?: [...string]
}
`

type testDoc struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	result, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "lib"`), "#Doc")
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if result.Value.Name != "lib" {
		t.Errorf("Name = %q, want %q", result.Value.Name, "lib")
	}
	if result.Value.Count != 1 {
		t.Errorf("Count = %d, want default 1", result.Value.Count)
	}
}

func TestParseAndDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantSub string
	}{
		{"syntax error", `name: "lib`, []Option{WithFilename("bad.cue")}, "bad.cue"},
		{"schema violation", `name: ""`, []Option{WithFilename("empty.cue")}, "name"},
		{"type mismatch", `name: "lib", count: "x"`, nil, "count"},
		{"size limit", `name: "lib"`, []Option{WithMaxFileSize(4)}, "exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(tt.data), "#Doc", tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestParseAndDecode_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "lib"`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Fatalf("expected missing definition error, got %v", err)
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.cue")
	if err := os.WriteFile(path, []byte("name: \"app\"\ntags: [\"a\", \"b\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := DecodeFile[testDoc]([]byte(testSchema), path, "#Doc")
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if doc.Name != "app" || len(doc.Tags) != 2 {
		t.Errorf("unexpected decoded value: %+v", doc)
	}

	if _, err := DecodeFile[testDoc]([]byte(testSchema), filepath.Join(t.TempDir(), "none.cue"), "#Doc"); err == nil {
		t.Error("expected error for missing file")
	}
}
