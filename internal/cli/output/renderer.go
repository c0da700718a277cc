// Package output provides the CLI rendering layer: a writer-backed
// renderer with text, markdown, and JSON modes, plus the lipgloss styles
// shared across commands.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	// ModeAuto picks text on a terminal and markdown when piped.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer for the given writers and mode.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, errOut: errOut, mode: mode, styles: NewStyles()}
}

// EffectiveMode resolves ModeAuto against the output destination.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return ModeText
	}
	return ModeMarkdown
}

// Writer returns the underlying output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the underlying error writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Styles returns the shared style set.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line to the output writer.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Printf writes formatted output to the output writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}
