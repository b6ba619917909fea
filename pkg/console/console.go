// Package console is the plain-terminal presentation layer: a numbered
// mode list driven by single raw keystrokes. It is used when the rich menu
// cannot run (dumb terminal, no TERM).
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/charlie0129/nvpsel/pkg/modes"
	"github.com/charlie0129/nvpsel/pkg/nvpmodel"
)

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03

	clearScreen = "\x1b[2J\x1b[H"
)

// Controller is the slice of nvpmodel.Client the presentation layer needs.
type Controller interface {
	CurrentMode() string
	SetMode(id string) *nvpmodel.ChangeResult
}

// KeyReader reads exactly one keystroke, without echo or line buffering.
type KeyReader interface {
	ReadKey() (byte, error)
}

type ttyKeyReader struct {
	fd int
}

// NewTTYKeyReader returns a KeyReader that puts stdin into raw mode for the
// duration of each read.
func NewTTYKeyReader() KeyReader {
	return &ttyKeyReader{fd: int(os.Stdin.Fd())}
}

func (r *ttyKeyReader) ReadKey() (byte, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to put terminal into raw mode")
	}
	defer func() {
		_ = term.Restore(r.fd, state)
	}()

	var buf [1]byte
	if _, err := os.Stdin.Read(buf[:]); err != nil {
		return 0, pkgerrors.Wrap(err, "failed to read keystroke")
	}
	return buf[0], nil
}

// Console runs the fallback selection loop.
type Console struct {
	out   io.Writer
	keys  KeyReader
	table modes.Table
	ctrl  Controller
}

func New(out io.Writer, keys KeyReader, table modes.Table, ctrl Controller) *Console {
	return &Console{
		out:   out,
		keys:  keys,
		table: table,
		ctrl:  ctrl,
	}
}

// Run loops until the operator presses ESC. Each iteration re-queries the
// current mode, prints the numbered list and acts on one keystroke. The
// loop itself never fails a mode change through to the caller; only I/O
// errors are returned.
func (c *Console) Run() error {
	c.banner()
	if err := c.awaitAck(); err != nil {
		return err
	}

	for {
		fmt.Fprint(c.out, clearScreen)
		c.printModes()
		fmt.Fprint(c.out, "\nPress a mode number to switch, ESC to quit: ")

		ch, err := c.keys.ReadKey()
		if err != nil {
			return err
		}

		switch {
		case ch == keyEscape || ch == keyCtrlC:
			fmt.Fprintln(c.out, "\nBye!")
			return nil
		default:
			fmt.Fprintln(c.out)
			id := string(ch)
			if name, ok := c.table.Name(id); ok {
				ReportChange(c.out, c.ctrl.SetMode(id), name)
			} else {
				fmt.Fprintf(c.out, "invalid choice: %q\n", id)
			}
		}

		if err := c.awaitAck(); err != nil {
			return err
		}
	}
}

func (c *Console) banner() {
	fmt.Fprintln(c.out, bold("nvpsel: Jetson power mode selector"))
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Interactive menu is unavailable on this terminal, falling back to")
	fmt.Fprintln(c.out, "single-keystroke selection. Modes with IDs longer than one character")
	fmt.Fprintln(c.out, "cannot be selected here; use 'nvpsel set <id>' for those.")
}

func (c *Console) printModes() {
	cur := c.ctrl.CurrentMode()

	if name, ok := c.table.Name(cur); ok {
		fmt.Fprintf(c.out, "Current power mode: %s (%s)\n\n", bold("%s", cur), name)
	} else {
		fmt.Fprintf(c.out, "Current power mode: %s\n\n", bold("%s", cur))
	}

	for _, rec := range c.table.Records() {
		marker := " "
		if rec.ID == cur {
			marker = color.New(color.Bold, color.FgGreen).Sprint("*")
		}
		fmt.Fprintf(c.out, " %s [%s] %s\n", marker, rec.ID, rec.Name)
	}
}

func (c *Console) awaitAck() error {
	return AwaitAck(c.out, c.keys)
}

// AwaitAck blocks until the operator presses any key. Shared with the rich
// menu loop, which needs the same iteration footer.
func AwaitAck(w io.Writer, keys KeyReader) error {
	fmt.Fprint(w, "\nPress any key to continue...")
	_, err := keys.ReadKey()
	fmt.Fprintln(w)
	return err
}

// ReportChange prints the outcome of a mode change. On failure the captured
// command output is passed through verbatim; it is the only diagnostic the
// operator gets.
func ReportChange(w io.Writer, res *nvpmodel.ChangeResult, name string) {
	if res.OK() {
		fmt.Fprintf(w, "%s switched to mode %s (%s)\n", okMark(), bold("%s", res.ID), name)
		return
	}

	fmt.Fprintf(w, "%s failed to switch to mode %s (%s)\n", failMark(), bold("%s", res.ID), name)
	if res.Output != "" {
		fmt.Fprint(w, res.Output)
		if res.Output[len(res.Output)-1] != '\n' {
			fmt.Fprintln(w)
		}
	}
}

func okMark() string {
	return color.New(color.Bold, color.FgGreen).Sprint("✔")
}

func failMark() string {
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
