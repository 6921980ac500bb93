// Package toolchain wraps the external .NET tools (msbuild, nuget) the build
// shells out to. Every invocation goes through a Runner so callers can echo,
// dry-run, or record commands without touching the tools themselves.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrToolFailed is returned when an external tool exits unsuccessfully.
var ErrToolFailed = errors.New("tool invocation failed")

// Command is a single external tool invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// String renders the command for logs, quoting arguments with spaces.
// The value following -ApiKey is masked.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for i, a := range c.Args {
		if i > 0 && strings.EqualFold(c.Args[i-1], "-ApiKey") {
			a = "****"
		}
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Verbose bool
	DryRun  bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewExecRunner creates an ExecRunner writing to the process streams.
func NewExecRunner(verbose, dryRun bool) *ExecRunner {
	return &ExecRunner{
		Verbose: verbose,
		DryRun:  dryRun,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if r.Verbose || r.DryRun {
		fmt.Fprintf(r.Stderr, "exec: %s\n", cmd)
	}
	if r.DryRun {
		return nil
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrToolFailed, cmd.Name, err)
	}
	return nil
}
