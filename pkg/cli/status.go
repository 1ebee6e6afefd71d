package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes colored status lines for interactive commands.
// Color is disabled automatically when the output is not a terminal.
type Printer struct {
	out io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

// NewPrinter creates a printer writing to w, or os.Stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:    w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		cyan:   color.New(color.FgCyan),
	}
}

// Success prints a line prefixed with a green check mark.
func (p *Printer) Success(format string, args ...any) {
	p.green.Fprint(p.out, "✓ ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warn prints a line prefixed with a yellow exclamation mark.
func (p *Printer) Warn(format string, args ...any) {
	p.yellow.Fprint(p.out, "! ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Fail prints a line prefixed with a red cross.
func (p *Printer) Fail(format string, args ...any) {
	p.red.Fprint(p.out, "✗ ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Field prints an indented "label: value" line with a cyan label.
func (p *Printer) Field(label string, value any) {
	p.cyan.Fprintf(p.out, "  %s: ", label)
	fmt.Fprintf(p.out, "%v\n", value)
}

// Println prints a plain line.
func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}
