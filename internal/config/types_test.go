// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/invowk/sourcery-build/internal/tool"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Tool.Version != tool.DefaultVersion {
		t.Errorf("Tool.Version = %q, want %q", cfg.Tool.Version, tool.DefaultVersion)
	}
	if cfg.Tool.Path != "" || cfg.Tool.InstallDir != "" {
		t.Errorf("tool paths should default to empty, got %+v", cfg.Tool)
	}
	if !cfg.Build.FailOnError {
		t.Error("expected fail_on_error to default to true")
	}
	if !cfg.Build.Clean {
		t.Error("expected clean to default to true")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if cfg.Log.Level != LogLevelInfo {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Watch.Debounce != DefaultDebounce {
		t.Errorf("Watch.Debounce = %s, want %s", cfg.Watch.Debounce, DefaultDebounce)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme ColorScheme
		want   bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"AUTO", false},
		{"blue", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if !tt.want {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level LogLevel
		valid bool
		slog  slog.Level
	}{
		{LogLevelDebug, true, slog.LevelDebug},
		{LogLevelInfo, true, slog.LevelInfo},
		{LogLevelWarn, true, slog.LevelWarn},
		{LogLevelError, true, slog.LevelError},
		{"trace", false, slog.LevelInfo},
		{"", false, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.level.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if !tt.valid && !errors.Is(errs[0], ErrInvalidLogLevel) {
				t.Errorf("error should wrap ErrInvalidLogLevel, got: %v", errs[0])
			}
			if got := tt.level.Slog(); got != tt.slog {
				t.Errorf("Slog() = %v, want %v", got, tt.slog)
			}
		})
	}
}

func TestFilePath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path FilePath
		want bool
	}{
		{"empty is default", "", true},
		{"absolute", "/opt/sourcery/bin/sourcery", true},
		{"relative", "bin/sourcery", true},
		{"whitespace only", "   ", false},
		{"tab only", "\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.path.IsValid()
			if valid != tt.want {
				t.Errorf("FilePath(%q).IsValid() = %v, want %v", tt.path, valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidFilePath) {
				t.Errorf("error should wrap ErrInvalidFilePath, got: %v", errs[0])
			}
		})
	}
}

func TestToolConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     ToolConfig
		want    bool
		wantErr error
	}{
		{"zero value", ToolConfig{}, true, nil},
		{"v-prefixed version", ToolConfig{Version: "v2.2.5"}, true, nil},
		{"valid checksum", ToolConfig{Checksum: "875ef49ba5e5aeb6dc6fb3094485ee54062deb4e487827f5756a9ea75b66ffd8"}, true, nil},
		{"bad version", ToolConfig{Version: "latest"}, false, tool.ErrInvalidVersion},
		{"short checksum", ToolConfig{Checksum: "abc123"}, false, tool.ErrInvalidChecksum},
		{"blank install dir", ToolConfig{InstallDir: "  "}, false, ErrInvalidFilePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.cfg.IsValid()
			if valid != tt.want {
				t.Fatalf("IsValid() = %v, want %v (errs: %v)", valid, tt.want, errs)
			}
			if tt.want {
				return
			}
			var toolErr *InvalidToolConfigError
			if !errors.As(errs[0], &toolErr) {
				t.Fatalf("expected *InvalidToolConfigError, got %T", errs[0])
			}
			if !errors.Is(errs[0], ErrInvalidToolConfig) {
				t.Error("error should wrap ErrInvalidToolConfig")
			}
			if !errors.Is(toolErr.FieldErrors[0], tt.wantErr) {
				t.Errorf("field error = %v, want %v", toolErr.FieldErrors[0], tt.wantErr)
			}
		})
	}
}

func TestWatchConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, _ := (WatchConfig{Debounce: time.Second, Ignore: []string{"**/Pods/**"}}).IsValid(); !valid {
		t.Error("expected valid watch config")
	}

	valid, errs := (WatchConfig{Debounce: -time.Second, Ignore: []string{" "}}).IsValid()
	if valid {
		t.Fatal("expected invalid watch config")
	}
	var watchErr *InvalidWatchConfigError
	if !errors.As(errs[0], &watchErr) {
		t.Fatalf("expected *InvalidWatchConfigError, got %T", errs[0])
	}
	if len(watchErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(watchErr.FieldErrors), watchErr.FieldErrors)
	}
}

func TestConfig_IsValid_CollectsSections(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.UI.ColorScheme = "neon"
	cfg.Log.Level = "loud"

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected invalid config")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Fatalf("error should wrap ErrInvalidConfig, got %v", errs[0])
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(cfgErr.FieldErrors))
	}
}
