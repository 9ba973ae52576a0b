// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/invowk/sourcery-build/internal/discovery"
	"github.com/invowk/sourcery-build/internal/issue"
	"github.com/invowk/sourcery-build/internal/runtime"

	"github.com/spf13/cobra"
)

func newGenerateCommand(app *App) *cobra.Command {
	flags := &targetFlagValues{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Resolve the target and run Sourcery",
		Long: `Resolve the target, locate the sourcery executable and run the emitted
commands in order while holding the work directory lock.

Error diagnostics such as a target without templates fail the run unless
build.fail_on_error is false. A failing generator's exit code is propagated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.generate(cmd.Context(), flags); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	addTargetFlags(cmd, flags)
	return cmd
}

// generate performs one resolve + execute cycle. Diagnostics are rendered to
// stderr; the returned error is not.
func (a *App) generate(ctx context.Context, flags *targetFlagValues) error {
	m, res, err := a.resolve(flags)
	if err != nil {
		return err
	}

	renderDiagnostics(a.stderr, res.Diagnostics)
	if res.HasErrors() && a.cfg.Build.FailOnError {
		return &ExitError{
			Code: runtime.ExitFailure,
			Err: issue.NewErrorContext().
				WithOperation("resolve generator arguments").
				WithResource(m.Target.Name).
				WithIssue(issue.TemplatesNotFoundId).
				WithSuggestion("Add .stencil or .swifttemplate files to the target, or a .sourcery.yml config").
				WithSuggestion("Set build.fail_on_error to false to run the generator anyway").
				Wrap(diagnosticsError(res.Diagnostics)).
				BuildError(),
		}
	}

	toolPath, err := a.locateTool(flags.tool)
	if err != nil {
		return err
	}

	envBuilder := runtime.NewEnvBuilder(flags.envFiles...)
	envBuilder.Environ = a.Environ

	executor := runtime.NewExecutor(
		runtime.WithOutput(a.stdout, a.stderr),
		runtime.WithEnvBuilder(envBuilder),
		runtime.WithFs(a.Fs),
	)

	start := time.Now()
	_, err = executor.Run(ctx, m.WorkDirectory, a.buildCommands(res, toolPath, m))
	if err != nil {
		var cmdErr *runtime.CommandError
		if errors.As(err, &cmdErr) {
			return &ExitError{
				Code: cmdErr.ExitCode,
				Err: issue.NewErrorContext().
					WithOperation("generate sources").
					WithResource(m.Target.Name).
					WithIssue(issue.GenerationFailedId).
					WithSuggestion("Run 'sourcery-build plan' to inspect the generator invocation").
					Wrap(err).
					BuildError(),
			}
		}
		return err
	}

	fmt.Fprintf(a.stdout, "%s Generated sources for %s in %s\n",
		SuccessStyle.Render("✓"), m.Target.Name, time.Since(start).Round(time.Millisecond))
	return nil
}

// diagnosticsError joins the error-severity diagnostics into one error.
func diagnosticsError(diags []discovery.Diagnostic) error {
	var errs []error
	for _, d := range diags {
		if d.Severity == discovery.SeverityError {
			errs = append(errs, errors.New(d.Message))
		}
	}
	return errors.Join(errs...)
}
