// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/sourcery-build/internal/resolver"
)

const (
	// KindClean removes previously generated output.
	KindClean Kind = "clean"
	// KindGenerate runs the code generator.
	KindGenerate Kind = "generate"

	// RemoveExecutable is the executable named by clean commands.
	RemoveExecutable = "/bin/rm"

	// DefaultFlag is passed to the generator when no extra arguments were given.
	DefaultFlag = "--verbose"
)

type (
	// Kind classifies a Command.
	Kind string

	// Command is one external invocation requested from the host.
	Command struct {
		Kind        Kind                 `json:"kind" yaml:"kind"`
		DisplayName string               `json:"display_name" yaml:"display_name"`
		Executable  string               `json:"executable" yaml:"executable"`
		Args        []string             `json:"args" yaml:"args"`
		Env         resolver.Environment `json:"env" yaml:"env"`
		// OutputDir is the directory the command produces or owns.
		OutputDir string `json:"output_dir" yaml:"output_dir"`
	}
)

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Build returns the commands for a resolution. CLI-options mode gets a clean
// command followed by the generate command; config-file mode only generates.
func Build(res resolver.Resolution, toolPath, targetName string) []Command {
	switch cfg := res.Configuration.(type) {
	case resolver.ConfigFileMode:
		return []Command{
			generateCommand(toolPath, targetName, cfg.Env, res.OutputDirectory,
				[]string{"--config", cfg.ConfigPath, "--cacheBasePath", res.CacheDirectory}),
		}
	case resolver.CliOptionsMode:
		args := make([]string, 0, 6+2*len(cfg.Templates)+len(cfg.ExtraArgs))
		args = append(args, "--sources", cfg.Sources)
		for _, tpl := range cfg.Templates {
			args = append(args, "--templates", tpl)
		}
		args = append(args, "--output", res.OutputDirectory, "--cacheBasePath", res.CacheDirectory)
		if len(cfg.ExtraArgs) == 0 {
			args = append(args, DefaultFlag)
		} else {
			args = append(args, cfg.ExtraArgs...)
		}

		return []Command{
			{
				Kind:        KindClean,
				DisplayName: "Clean previously-generated data for target " + targetName,
				Executable:  RemoveExecutable,
				Args:        []string{"-rf", res.OutputDirectory},
				Env:         cfg.Env,
				OutputDir:   filepath.Dir(res.OutputDirectory),
			},
			generateCommand(toolPath, targetName, cfg.Env, res.OutputDirectory, args),
		}
	default:
		return nil
	}
}

func generateCommand(toolPath, targetName string, env resolver.Environment, outputDir string, args []string) Command {
	return Command{
		Kind:        KindGenerate,
		DisplayName: "Generate sources for target: " + targetName,
		Executable:  toolPath,
		Args:        args,
		Env:         env,
		OutputDir:   outputDir,
	}
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Executable}, c.Args...)
}

// ShellLine renders the command as a single POSIX shell line.
func (c Command) ShellLine() string {
	argv := c.Argv()
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}

// Quote quotes s for a POSIX shell, leaving it bare when no quoting is needed.
func Quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		// Only strings the shell cannot represent at all land here.
		return fmt.Sprintf("%q", s)
	}
	return q
}
