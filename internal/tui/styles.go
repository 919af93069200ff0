package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const logoASCII = `
                                       _
 _ __   ___ _   _ _ __ ___  _ __   ___ | |_ ___
| '_ \ / _ \ | | | '__/ _ \| '_ \ / _ \| __/ _ \
| | | |  __/ |_| | | | (_) | | | | (_) | ||  __/
|_| |_|\___|\__,_|_|  \___/|_| |_|\___/ \__\___|`

// Printer writes styled output. Colors follow the terminal's capabilities
// and are dropped entirely when w is not a terminal or NO_COLOR is set.
type Printer struct {
	w io.Writer

	header  lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	errStyl lipgloss.Style
	muted   lipgloss.Style
	box     lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w, termenv.WithColorCache(true))
	if termenv.EnvNoColor() {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		w:       w,
		header:  r.NewStyle().Bold(true).Foreground(ColorPrimary),
		label:   r.NewStyle().Bold(true).Foreground(ColorText),
		success: r.NewStyle().Foreground(ColorSuccess),
		warning: r.NewStyle().Foreground(ColorWarning),
		errStyl: r.NewStyle().Bold(true).Foreground(ColorError),
		muted:   r.NewStyle().Foreground(ColorMuted),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1),
	}
}

func (p *Printer) Logo() {
	fmt.Fprintln(p.w, p.header.Render(strings.Trim(logoASCII, "\n")))
}

func (p *Printer) Header(s string) {
	fmt.Fprintln(p.w, p.header.Render(s))
}

// Field prints an aligned "label: value" line.
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.label.Render(label+":"), value)
}

func (p *Printer) Success(s string) {
	fmt.Fprintln(p.w, p.success.Render("✓ "+s))
}

func (p *Printer) Warn(s string) {
	fmt.Fprintln(p.w, p.warning.Render("! "+s))
}

func (p *Printer) Error(s string) {
	fmt.Fprintln(p.w, p.errStyl.Render("✗ "+s))
}

func (p *Printer) Muted(s string) {
	fmt.Fprintln(p.w, p.muted.Render(s))
}

// Box prints body inside a rounded border.
func (p *Printer) Box(body string) {
	fmt.Fprintln(p.w, p.box.Render(strings.TrimRight(body, "\n")))
}

// Path prints a saved artifact path, or a warning when it was not saved.
func (p *Printer) Path(label string, path *string) {
	if path == nil {
		p.Field(label, p.warning.Render("not saved"))
		return
	}
	p.Field(label, *path)
}
