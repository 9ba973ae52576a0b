// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/invowk/sourcery-build/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App) *cobra.Command {
	flags := &targetFlagValues{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Generate, then regenerate whenever sources, templates or config change",
		Long: `Run generate once, then watch the target directory and run it again after
Swift sources, templates, .sourcery.yml or .sourcery-args change.

Failed runs are reported and watching continues. The work directory is never
watched, so generated output does not retrigger a run. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.watch(cmd.Context(), flags); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	addTargetFlags(cmd, flags)
	return cmd
}

func (a *App) watch(ctx context.Context, flags *targetFlagValues) error {
	m, err := a.loadTarget(flags)
	if err != nil {
		return err
	}

	regenerate := func(ctx context.Context) {
		if err := a.generate(ctx, flags); err != nil {
			a.report(err)
		}
	}

	fmt.Fprintf(a.stdout, "%s Initial generation for %s\n", CmdStyle.Render("→"), m.Target.Name)
	regenerate(ctx)

	w, err := watch.New(watch.Config{
		BaseDir:     m.Target.Directory,
		Ignore:      a.cfg.Watch.Ignore,
		ExcludeDirs: []string{m.WorkDirectory},
		Debounce:    a.cfg.Watch.Debounce,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(a.stdout, "%s Detected %d change(s), regenerating...\n", CmdStyle.Render("→"), len(changed))
			regenerate(ctx)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(a.stdout, "%s Watching %s (Ctrl+C to stop)\n", CmdStyle.Render("→"), m.Target.Directory)
	return w.Run(ctx)
}
