// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/invowk/sourcery-build/internal/config"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// skipConfigAnnotation marks commands that must run even when the config file is broken.
const skipConfigAnnotation = "sourcery-build/skip-config"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	verbose    bool
	logLevel   string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	root := &cobra.Command{
		Use:   "sourcery-build",
		Short: "Run the Sourcery code generator as a pre-build step",
		Long: TitleStyle.Render("sourcery-build") + SubtitleStyle.Render(" - Sourcery as a pre-build step") + `

sourcery-build discovers the templates and configuration of a build target,
assembles the Sourcery invocation and runs it so generated sources exist
before compilation.

A target with a .sourcery.yml file is generated from that file. Otherwise
its .stencil and .swifttemplate inputs are used as templates, its Swift
sources as input, and .sourcery-args adds extra generator flags.

` + SubtitleStyle.Render("Examples:") + `
  sourcery-build plan --target-dir Sources/App     Show what would run
  sourcery-build generate --manifest target.json   Generate for a manifest
  sourcery-build watch --target-dir Sources/App    Regenerate on change
  sourcery-build install                           Download the pinned release`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/sourcery-build/config.cue)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output and debug logging")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides log.level)")

	root.AddCommand(newPlanCommand(app))
	root.AddCommand(newGenerateCommand(app))
	root.AddCommand(newWatchCommand(app))
	root.AddCommand(newInstallCommand(app))
	root.AddCommand(newConfigCommand(app))

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// init loads configuration and installs the slog handler. Flags win over
// the config file.
func (a *App) init(cmd *cobra.Command, flags *rootFlagValues) error {
	a.configPath = flags.configPath

	if cmd.Annotations[skipConfigAnnotation] == "" {
		loaded, err := a.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
		if err != nil {
			return a.fail(cmd, err)
		}
		a.cfg = loaded.Config
		a.cfgSource = loaded.Path
	}

	a.verbose = flags.verbose || a.cfg.UI.Verbose

	level := a.cfg.Log.Level
	if flags.logLevel != "" {
		level = config.LogLevel(flags.logLevel)
		if valid, errs := level.IsValid(); !valid {
			return a.fail(cmd, errs[0])
		}
	}
	slogLevel := level.Slog()
	if a.verbose {
		slogLevel = slog.LevelDebug
	}
	slog.SetDefault(newLogger(a.stderr, slogLevel))

	slog.Debug("configuration loaded", "source", a.cfgSource, "log_level", slogLevel.String())
	return nil
}

// newLogger returns a slog logger backed by a charmbracelet/log handler.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Level:  log.Level(level),
		Prefix: "sourcery-build",
	})
	return slog.New(handler)
}
