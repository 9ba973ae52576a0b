// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/invowk/sourcery-build/internal/plan"
	"github.com/invowk/sourcery-build/pkg/platform"
)

// waitDelay bounds how long a cancelled generator may keep its output pipes open.
const waitDelay = 5 * time.Second

// ErrCommandFailed is the sentinel error wrapped by CommandError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Executor runs planned commands in order and stops at the first failure.
	Executor struct {
		stdout      io.Writer
		stderr      io.Writer
		env         *EnvBuilder
		spawnPrefix []string
		fs          afero.Fs
	}

	// ExecutorOption configures an Executor.
	ExecutorOption func(*Executor)

	// CommandError reports a command that did not succeed.
	CommandError struct {
		Command  plan.Command
		ExitCode ExitCode
		Err      error
	}
)

// WithOutput sets the writers the generator's output streams to.
func WithOutput(stdout, stderr io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithEnvBuilder sets the environment builder for generator processes.
func WithEnvBuilder(b *EnvBuilder) ExecutorOption {
	return func(e *Executor) { e.env = b }
}

// WithSpawnPrefix overrides the sandbox escape prefix.
func WithSpawnPrefix(prefix []string) ExecutorOption {
	return func(e *Executor) { e.spawnPrefix = prefix }
}

// WithFs sets the filesystem clean commands operate on. The run lock taken by
// Run is not affected and stays on the OS filesystem.
func WithFs(fsys afero.Fs) ExecutorOption {
	return func(e *Executor) { e.fs = fsys }
}

// NewExecutor creates an Executor writing to the process's stdout and stderr.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		env:         NewEnvBuilder(),
		spawnPrefix: platform.SpawnPrefix(),
		fs:          afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Command.DisplayName, e.Err)
	}
	return fmt.Sprintf("%s: exited with code %s", e.Command.DisplayName, e.ExitCode)
}

// Unwrap returns ErrCommandFailed and the underlying cause.
func (e *CommandError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCommandFailed, e.Err}
	}
	return []error{ErrCommandFailed}
}

// Run executes cmds while holding the lock on workDir. It returns the results
// of every command that ran; on failure the error is a *CommandError.
func (e *Executor) Run(ctx context.Context, workDir string, cmds []plan.Command) ([]*Result, error) {
	lock, err := AcquireRunLock(ctx, workDir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	results := make([]*Result, 0, len(cmds))
	for _, cmd := range cmds {
		slog.Info(cmd.DisplayName)
		res := e.Execute(ctx, cmd)
		results = append(results, res)
		if !res.Success() {
			return results, &CommandError{Command: cmd, ExitCode: res.ExitCode, Err: res.Error}
		}
	}
	return results, nil
}

// Execute runs a single command.
func (e *Executor) Execute(ctx context.Context, cmd plan.Command) *Result {
	start := time.Now()
	var res *Result
	switch cmd.Kind {
	case plan.KindClean:
		res = e.clean(cmd)
	case plan.KindGenerate:
		res = e.generate(ctx, cmd)
	default:
		res = NewErrorResult(cmd.Kind, ExitFailure, fmt.Errorf("unknown command kind %q", cmd.Kind))
	}
	res.Duration = time.Since(start)
	slog.Debug("command finished", "kind", cmd.Kind, "exit_code", res.ExitCode, "duration", res.Duration)
	return res
}

// clean removes every non-flag argument of a clean command.
func (e *Executor) clean(cmd plan.Command) *Result {
	for _, arg := range cmd.Args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if err := e.fs.RemoveAll(arg); err != nil {
			return NewErrorResult(cmd.Kind, ExitFailure, fmt.Errorf("remove %s: %w", arg, err))
		}
	}
	return NewSuccessResult(cmd.Kind)
}

func (e *Executor) generate(ctx context.Context, cmd plan.Command) *Result {
	if cmd.OutputDir != "" {
		if err := e.fs.MkdirAll(cmd.OutputDir, 0o755); err != nil {
			return NewErrorResult(cmd.Kind, ExitFailure, fmt.Errorf("create output directory: %w", err))
		}
	}

	env, err := e.env.Build(cmd.Env)
	if err != nil {
		return NewErrorResult(cmd.Kind, ExitFailure, err)
	}

	name, args := e.argv(cmd)
	c := exec.CommandContext(ctx, name, args...)
	c.Env = EnvToSlice(env)
	c.Stdout = e.stdout
	c.Stderr = e.stderr
	c.WaitDelay = waitDelay

	slog.Debug("running generator", "executable", name, "args", args)
	res := extractExitCode(c.Run())
	res.Kind = cmd.Kind
	return res
}

// argv applies the sandbox spawn prefix. Sandboxed hosts do not forward the
// caller's environment, so the derived variables are passed explicitly.
func (e *Executor) argv(cmd plan.Command) (string, []string) {
	if len(e.spawnPrefix) == 0 {
		return cmd.Executable, cmd.Args
	}

	args := append([]string{}, e.spawnPrefix[1:]...)
	for _, kv := range EnvToSlice(cmd.Env) {
		args = append(args, "--env="+kv)
	}
	args = append(args, cmd.Executable)
	args = append(args, cmd.Args...)
	return e.spawnPrefix[0], args
}

// extractExitCode maps a process error to a Result.
func extractExitCode(err error) *Result {
	if err == nil {
		return &Result{}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := ExitCode(exitErr.ExitCode())
		if validateErr := code.Validate(); validateErr != nil {
			// Killed by a signal (-1) or an out-of-range status.
			return &Result{ExitCode: ExitFailure, Error: err}
		}
		return &Result{ExitCode: code}
	}

	return &Result{ExitCode: ExitFailure, Error: err}
}
