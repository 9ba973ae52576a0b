// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/invowk/sourcery-build/internal/issue"
	"github.com/invowk/sourcery-build/internal/resolver"
	"github.com/invowk/sourcery-build/pkg/target"

	"github.com/spf13/cobra"
)

// targetFlagValues selects the build target. A manifest describes the target
// completely; otherwise the target directory is scanned for inputs.
type targetFlagValues struct {
	manifest    string
	targetDir   string
	name        string
	packageRoot string
	workDir     string
	tool        string
	envFiles    []string
}

func addTargetFlags(cmd *cobra.Command, f *targetFlagValues) {
	flags := cmd.Flags()
	flags.StringVarP(&f.manifest, "manifest", "m", "", "target manifest (.json, .yaml, .yml, .toml or .cue)")
	flags.StringVarP(&f.targetDir, "target-dir", "t", "", "target source directory to scan (default is the working directory)")
	flags.StringVar(&f.name, "name", "", "target name (default is the target directory's base name)")
	flags.StringVar(&f.packageRoot, "package-root", "", "package root directory (default is the target directory)")
	flags.StringVar(&f.workDir, "work-dir", "", "work directory for generated output and cache")
	flags.StringVar(&f.tool, "tool", "", "path to the sourcery executable (overrides tool.path)")
	flags.StringArrayVar(&f.envFiles, "env-file", nil, "dotenv file added to the generator environment (repeatable, suffix ? for optional)")
	cmd.MarkFlagsMutuallyExclusive("manifest", "target-dir")
	cmd.MarkFlagsMutuallyExclusive("manifest", "name")
}

// loadTarget materializes the target description from the flags.
func (a *App) loadTarget(f *targetFlagValues) (*target.Manifest, error) {
	if f.manifest != "" {
		m, err := target.LoadManifest(f.manifest)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load target manifest").
				WithResource(f.manifest).
				WithIssue(issue.ManifestParseErrorId).
				WithSuggestion("Required fields are name, directory and input_files").
				WithSuggestion("Relative paths are resolved against the manifest's directory").
				Wrap(err).
				BuildError()
		}
		if err := f.applyOverrides(m); err != nil {
			return nil, err
		}
		return m, nil
	}

	dir := f.targetDir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target directory: %w", err)
	}

	name := f.name
	if name == "" {
		name = filepath.Base(dir)
	}

	m := &target.Manifest{
		Target:        target.New(name, dir, nil),
		PackageRoot:   dir,
		WorkDirectory: target.DefaultWorkDirectory(dir, name),
	}
	if err := f.applyOverrides(m); err != nil {
		return nil, err
	}

	inputs, err := target.Scan(a.Fs, dir, m.WorkDirectory)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("scan target directory").
			WithResource(dir).
			WithSuggestion("Check that --target-dir points to a readable directory").
			Wrap(err).
			BuildError()
	}
	m.Target = target.New(name, dir, inputs)
	if err := m.Target.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// applyOverrides replaces the manifest's host directories with flag values.
// A package root override also moves the default work directory.
func (f *targetFlagValues) applyOverrides(m *target.Manifest) error {
	if f.packageRoot != "" {
		root, err := filepath.Abs(f.packageRoot)
		if err != nil {
			return fmt.Errorf("failed to resolve package root: %w", err)
		}
		if m.WorkDirectory == target.DefaultWorkDirectory(m.PackageRoot, m.Target.Name) {
			m.WorkDirectory = target.DefaultWorkDirectory(root, m.Target.Name)
		}
		m.PackageRoot = root
	}
	if f.workDir != "" {
		workDir, err := filepath.Abs(f.workDir)
		if err != nil {
			return fmt.Errorf("failed to resolve work directory: %w", err)
		}
		m.WorkDirectory = workDir
	}
	return nil
}

// resolve loads the target and runs the resolver against it.
func (a *App) resolve(f *targetFlagValues) (*target.Manifest, resolver.Resolution, error) {
	m, err := a.loadTarget(f)
	if err != nil {
		return nil, resolver.Resolution{}, err
	}

	r := resolver.New(resolver.WithFs(a.Fs), resolver.WithEnv(a.Env))
	res, err := r.Resolve(m.Target, resolver.Workspace{
		PackageRoot:   m.PackageRoot,
		WorkDirectory: m.WorkDirectory,
	})
	if err != nil {
		return nil, resolver.Resolution{}, err
	}
	return m, res, nil
}
