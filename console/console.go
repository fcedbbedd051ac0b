// Package console is the human-facing side of the build driver: the
// configuration summary, warnings, and the yes/no confirmation prompts.
// The prompt input is an injected reader so confirmation logic is
// deterministic under test.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrAborted is returned when the user declines a confirmation that the
// pipeline cannot proceed without.
var ErrAborted = errors.New("aborted by user")

var (
	warnTag = color.New(color.FgYellow, color.Bold).Sprint("warning:")
	noteTag = color.New(color.FgCyan).Sprint("note:")
)

// Console wraps a SugaredLogger for diagnostics together with the writer and
// reader used for direct user interaction.
type Console struct {
	*zap.SugaredLogger

	out io.Writer
	in  *bufio.Reader

	// interactive records whether the prompt input is a terminal; prompts
	// are still issued when it is not (answers then come from the stream,
	// EOF counting as "no").
	interactive bool
}

// New returns a Console reading prompt answers from in and writing
// user-facing text to out.
func New(logger *zap.SugaredLogger, in io.Reader, out io.Writer) *Console {
	c := &Console{
		SugaredLogger: logger,
		out:           out,
		in:            bufio.NewReader(in),
	}
	if f, ok := in.(*os.File); ok {
		c.interactive = isatty.IsTerminal(f.Fd())
	}
	return c
}

// Interactive reports whether prompt answers come from a terminal.
func (c *Console) Interactive() bool {
	return c.interactive
}

// Printf writes directly to the user-facing writer.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Warnf prints a highlighted warning. Warnings never stop the pipeline.
func (c *Console) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", warnTag, fmt.Sprintf(format, args...))
}

// Notef prints a low-key informational line.
func (c *Console) Notef(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", noteTag, fmt.Sprintf(format, args...))
}

// Confirm asks a yes/no question and reads one line of input. Only "y" and
// "yes" (case-insensitive) count as yes; EOF and everything else is no.
func (c *Console) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N] ", question)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, "reading confirmation")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Decide is the pure confirmation decision: assume-yes short-circuits the
// interactive ask entirely, so no prompt is ever issued under --yes.
func Decide(assumeYes bool, ask func() (bool, error)) (bool, error) {
	if assumeYes {
		return true, nil
	}
	return ask()
}
