// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"slices"

	"github.com/invowk/sourcery-build/internal/plan"
	"github.com/invowk/sourcery-build/internal/resolver"
	"github.com/invowk/sourcery-build/pkg/target"

	"github.com/spf13/cobra"
)

func newPlanCommand(app *App) *cobra.Command {
	flags := &targetFlagValues{}
	var format string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved configuration and the commands generate would run",
		Long: `Resolve the target and print its configuration mode, diagnostics and the
commands that would be executed, without running anything.

Error diagnostics are reported but do not change the exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, res, err := app.resolve(flags)
			if err != nil {
				return app.fail(cmd, err)
			}

			toolPath, err := app.locateTool(flags.tool)
			if err != nil {
				return app.fail(cmd, err)
			}

			cmds := app.buildCommands(res, toolPath, m)
			if err := writePlan(app.stdout, format, newPlanReport(m, res, cmds)); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	addTargetFlags(cmd, flags)
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

// buildCommands emits the commands for a resolution, dropping the clean
// command when build.clean is disabled.
func (a *App) buildCommands(res resolver.Resolution, toolPath string, m *target.Manifest) []plan.Command {
	cmds := plan.Build(res, toolPath, m.Target.Name)
	if !a.cfg.Build.Clean {
		cmds = slices.DeleteFunc(cmds, func(c plan.Command) bool { return c.Kind == plan.KindClean })
	}
	return cmds
}
