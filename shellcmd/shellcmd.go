// Package shellcmd models external tool invocations as values. The same
// Command that is executed can also be rendered for display, so the
// "show the configure command" mode and the real run share one construction
// path.
package shellcmd

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Command is one child-process invocation: program, ordered arguments,
// working directory and extra environment entries.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string // KEY=VALUE pairs appended to the inherited environment
}

// New returns a Command for path with the given arguments.
func New(path string, args ...string) Command {
	return Command{Path: path, Args: args}
}

// In returns a copy of the command with the working directory set.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// WithEnv returns a copy of the command with extra KEY=VALUE entries.
func (c Command) WithEnv(kv ...string) Command {
	c.Env = append(append([]string(nil), c.Env...), kv...)
	return c
}

// String renders the command on a single line, shell style.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Render renders the command with one argument per line, the format used
// when echoing the assembled configure command.
func (c Command) Render() string {
	var b strings.Builder
	b.WriteString(c.Path)
	for _, a := range c.Args {
		b.WriteString(" \\\n    ")
		b.WriteString(a)
	}
	return b.String()
}

// Executor runs Commands. The build pipeline only ever talks to this
// interface so tests can record invocations instead of spawning processes.
type Executor interface {
	Run(Command) error
}

// System is the Executor backed by os/exec. Child stdout/stderr are wired
// straight through to the configured writers.
type System struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (s System) Run(c Command) error {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout, cmd.Stderr = s.Stdout, s.Stderr
	if s.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed", c.Path)
	}
	return nil
}

// ExitCode maps an error returned by an Executor to a process exit code:
// nil is 0, a child that exited non-zero propagates its own code, and
// anything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
