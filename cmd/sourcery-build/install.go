// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/sourcery-build/internal/issue"
	"github.com/invowk/sourcery-build/internal/tool"

	"github.com/spf13/cobra"
)

type installFlagValues struct {
	version  string
	url      string
	checksum string
	force    bool
}

func newInstallCommand(app *App) *cobra.Command {
	flags := &installFlagValues{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download and verify the Sourcery artifact bundle",
		Long: `Download the Sourcery release bundle, verify its SHA-256 checksum and
extract it into the install directory (tool.install_dir, default is the
per-user cache directory).

The official release of the pinned version has a known checksum. Any other
URL or version needs --checksum or tool.checksum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.install(cmd, flags); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.version, "version", "", "release version (overrides tool.version)")
	cmd.Flags().StringVar(&flags.url, "url", "", "bundle URL (overrides tool.bundle_url)")
	cmd.Flags().StringVar(&flags.checksum, "checksum", "", "expected sha256 of the bundle (overrides tool.checksum)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "reinstall even when the version is already present")
	return cmd
}

func (a *App) install(cmd *cobra.Command, flags *installFlagValues) error {
	dir, err := a.installDir()
	if err != nil {
		return err
	}

	req := tool.InstallRequest{
		Version:  firstNonEmpty(flags.version, a.cfg.Tool.Version),
		URL:      firstNonEmpty(flags.url, a.cfg.Tool.BundleURL),
		Checksum: firstNonEmpty(flags.checksum, a.cfg.Tool.Checksum),
		Force:    flags.force,
	}

	installer := tool.NewInstaller(dir, tool.WithHost(a.Host))
	res, err := installer.Install(cmd.Context(), req)
	if err != nil {
		return installError(dir, err)
	}

	if res.Cached {
		fmt.Fprintf(a.stdout, "%s sourcery %s already installed at %s\n", SuccessStyle.Render("✓"), res.Version, CmdStyle.Render(res.Path))
		return nil
	}
	fmt.Fprintf(a.stdout, "%s Installed sourcery %s at %s\n", SuccessStyle.Render("✓"), res.Version, CmdStyle.Render(res.Path))
	return nil
}

func installError(dir string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("install sourcery").
		WithResource(dir).
		Wrap(err)

	switch {
	case errors.Is(err, tool.ErrChecksumMismatch):
		ctx = ctx.WithIssue(issue.ChecksumMismatchId).
			WithSuggestion("Verify the checksum published with the release").
			WithSuggestion("Check that --url points at the intended artifact bundle")
	case errors.Is(err, tool.ErrChecksumRequired):
		ctx = ctx.WithSuggestion("Pass --checksum or set tool.checksum for custom versions or URLs")
	case errors.Is(err, tool.ErrNoMatchingVariant):
		ctx = ctx.WithIssue(issue.HostNotSupportedId).
			WithSuggestion("Build sourcery from source and set tool.path")
	default:
		ctx = ctx.WithSuggestion("Check your network connection and retry")
	}
	return ctx.BuildError()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
