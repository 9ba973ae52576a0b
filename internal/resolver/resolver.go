// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/invowk/sourcery-build/internal/discovery"
	"github.com/invowk/sourcery-build/pkg/target"
)

const (
	// OutputDirName is the generator output directory under the work directory.
	OutputDirName = "Generated"
	// CacheDirName is the generator cache directory under the work directory.
	CacheDirName = "Cache"
)

var (
	// ErrInvalidRequest is returned when a target or workspace cannot be
	// resolved at all.
	ErrInvalidRequest = errors.New("invalid resolution request")
	// ErrEmptyWorkDirectory is returned when the workspace has no work directory.
	ErrEmptyWorkDirectory = errors.New("work directory must not be empty")
)

type (
	// Workspace describes host-provided locations for one build.
	Workspace struct {
		PackageRoot   string
		WorkDirectory string
	}

	// Resolution is the outcome of resolving one target.
	Resolution struct {
		Configuration   Configuration
		OutputDirectory string
		CacheDirectory  string
		Diagnostics     []discovery.Diagnostic
	}

	// Resolver resolves targets against an injected filesystem and host environment.
	Resolver struct {
		fs  afero.Fs
		env EnvProvider
	}

	// Option configures a Resolver.
	Option func(*Resolver)
)

// WithFs sets the filesystem used for config and argument file lookups.
func WithFs(fsys afero.Fs) Option {
	return func(r *Resolver) { r.fs = fsys }
}

// WithEnv sets the host environment provider.
func WithEnv(env EnvProvider) Option {
	return func(r *Resolver) { r.env = env }
}

// New creates a Resolver. By default it reads the OS filesystem and the
// process environment.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		fs:  afero.NewOsFs(),
		env: ProcessEnv{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OutputDirectory returns the generator output directory for a work directory.
func (w Workspace) OutputDirectory() string {
	return filepath.Join(w.WorkDirectory, OutputDirName)
}

// CacheDirectory returns the generator cache directory for a work directory.
func (w Workspace) CacheDirectory() string {
	return filepath.Join(w.WorkDirectory, CacheDirName)
}

// HasErrors reports whether the resolution carries an error diagnostic.
func (r Resolution) HasErrors() bool {
	return discovery.HasErrors(r.Diagnostics)
}

// Resolve computes the generator configuration for t.
//
// The returned error is reserved for requests that cannot be resolved at all
// (no target directory or no work directory). Missing config files, missing
// templates and unreadable argument files are reported in Diagnostics and
// resolution still produces a Configuration.
func (r *Resolver) Resolve(t target.Target, ws Workspace) (Resolution, error) {
	if t.Directory == "" {
		return Resolution{}, fmt.Errorf("%w: %w", ErrInvalidRequest, target.ErrEmptyDirectory)
	}
	if ws.WorkDirectory == "" {
		return Resolution{}, fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyWorkDirectory)
	}

	res := Resolution{
		OutputDirectory: ws.OutputDirectory(),
		CacheDirectory:  ws.CacheDirectory(),
	}
	env := DeriveEnvironment(r.env, ws.PackageRoot, t.Directory, res.OutputDirectory, res.CacheDirectory)

	configPath, found, err := discovery.LocateFile(r.fs, t.Directory, discovery.ConfigFileName)
	if found {
		res.Configuration = ConfigFileMode{ConfigPath: configPath, Env: env}
		return res, nil
	}

	msg := fmt.Sprintf("no %s found in %s; falling back to command-line options", discovery.ConfigFileName, t.Directory)
	res.Diagnostics = append(res.Diagnostics, discovery.NewWarning(discovery.CodeConfigFileNotFound, configPath, msg, err))

	templates := discovery.FindTemplateFiles(t.InputFiles)
	sources := discovery.FindSourceRoot(t.InputFiles, t.Directory)
	if len(templates) == 0 {
		res.Diagnostics = append(res.Diagnostics, discovery.NewError(discovery.CodeTemplatesNotFound, sources,
			fmt.Sprintf("no template files (.%s, .%s) found in %s",
				discovery.TemplateExtensions[0], discovery.TemplateExtensions[1], sources), nil))
	}

	extra, argDiags := ParseArgFile(r.fs, filepath.Join(t.Directory, discovery.ArgFileName), env)
	res.Diagnostics = append(res.Diagnostics, argDiags...)

	res.Configuration = CliOptionsMode{
		Sources:   sources,
		Templates: templates,
		ExtraArgs: extra,
		Env:       env,
	}
	return res, nil
}
