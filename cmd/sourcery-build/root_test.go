// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version, Commit, BuildDate = "v1.2.3", "abc123", "2026-01-01"
	want := "v1.2.3 (commit: abc123, built: 2026-01-01)"
	if got := getVersionString(); got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestExitError(t *testing.T) {
	bare := &ExitError{Code: 4}
	if bare.Error() != "exit status 4" {
		t.Errorf("Error() = %q", bare.Error())
	}
	if bare.Unwrap() != nil {
		t.Error("bare ExitError should not wrap anything")
	}

	cause := errors.New("generator crashed")
	wrapped := &ExitError{Code: 2, Err: cause}
	if wrapped.Error() != "generator crashed" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("ExitError should unwrap to its cause")
	}
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelWarn)

	logger.Info("hidden message")
	logger.Warn("visible message", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info record should be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "sourcery-build") {
		t.Errorf("warn record missing message or prefix:\n%s", out)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand(NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}))

	for _, name := range []string{"plan", "generate", "watch", "install", "config"} {
		if sub, _, err := root.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered (err = %v)", name, err)
		}
	}
}
