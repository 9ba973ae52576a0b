// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/invowk/sourcery-build/internal/config"
	"github.com/invowk/sourcery-build/internal/issue"
	"github.com/invowk/sourcery-build/internal/resolver"
	"github.com/invowk/sourcery-build/internal/runtime"
	"github.com/invowk/sourcery-build/internal/tool"
	"github.com/invowk/sourcery-build/pkg/platform"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (config.Loaded, error)
	}

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every command handler receives an App reference.
	App struct {
		Config   ConfigProvider
		Fs       afero.Fs
		Env      resolver.EnvProvider
		Environ  func() []string
		LookPath func(string) (string, error)
		Host     platform.Host

		stdout io.Writer
		stderr io.Writer

		// Populated by init before any RunE handler runs.
		cfg        *config.Config
		cfgSource  string
		configPath string
		verbose    bool
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Fs       afero.Fs
		Environ  func() []string
		LookPath func(string) (string, error)
		Host     *platform.Host
		Stdout   io.Writer
		Stderr   io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}
	if deps.LookPath == nil {
		deps.LookPath = exec.LookPath
	}
	host := platform.Current()
	if deps.Host != nil {
		host = *deps.Host
	}

	return &App{
		Config:   deps.Config,
		Fs:       deps.Fs,
		Env:      resolver.ProcessEnv{Environ: deps.Environ},
		Environ:  deps.Environ,
		LookPath: deps.LookPath,
		Host:     host,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		cfg:      config.DefaultConfig(),
	}
}

// installDir returns the configured bundle directory or the per-user default.
func (a *App) installDir() (string, error) {
	if a.cfg.Tool.InstallDir != "" {
		return string(a.cfg.Tool.InstallDir), nil
	}
	return config.DefaultInstallDir()
}

// locateTool finds the sourcery executable. override comes from --tool and
// wins over tool.path.
func (a *App) locateTool(override string) (string, error) {
	configured := override
	if configured == "" {
		configured = string(a.cfg.Tool.Path)
	}

	installDir, err := a.installDir()
	if err != nil {
		// Without a cache dir only the configured path and PATH remain.
		installDir = ""
	}

	return tool.Locator{
		ConfiguredPath: configured,
		InstallDir:     installDir,
		Version:        a.cfg.Tool.Version,
		Host:           a.Host,
		LookPath:       a.LookPath,
	}.Locate()
}

// fail renders err on stderr and returns an ExitError carrying the exit code.
// Errors that already are an *ExitError keep their code.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	a.report(err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.Code}
	}
	return &ExitError{Code: runtime.ExitFailure}
}

// report renders err on stderr without ending the command.
func (a *App) report(err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			a.renderError(exitErr.Err)
		}
		return
	}
	a.renderError(err)
}

// renderError prints err, with suggestions for actionable errors and the
// catalogued issue text in verbose mode.
func (a *App) renderError(err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), err)
		return
	}

	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), ae.Format(a.verbose))

	if !a.verbose || ae.Issue == 0 {
		return
	}
	catalogued := issue.Get(ae.Issue)
	if catalogued == nil {
		return
	}
	rendered, renderErr := catalogued.Render(string(a.cfg.UI.ColorScheme))
	if renderErr != nil {
		fmt.Fprintf(a.stderr, "%s failed to render issue: %v\n", WarningStyle.Render("!"), renderErr)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}
