// Package executil runs external commands.
package executil

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current process environment.
	Env []string
}

// Shell returns a command that runs script with sh -c.
func Shell(script string, env ...string) Command {
	return Command{Name: "sh", Args: []string{"-c", script}, Env: env}
}

// String renders the command line for logs and test lookups.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Executor runs commands.
type Executor interface {
	// Run executes c and streams its output to stdout and stderr.
	Run(ctx context.Context, c Command, stdout, stderr io.Writer) error
}

// RealExecutor starts real processes.
type RealExecutor struct{}

// Run executes c and streams its output to stdout and stderr.
func (e *RealExecutor) Run(ctx context.Context, c Command, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("exec %s: %w", c.Name, err)
	}
	return nil
}
