package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"golang.org/x/term"

	"github.com/wricardo/klondike/game/engine"
)

// Color modes accepted by NewRenderer.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Renderer writes console output, coloring red cards, headings and errors
// when color is enabled.
type Renderer struct {
	out     io.Writer
	enabled bool

	red     *colorize.Color
	heading *colorize.Color
	failure *colorize.Color
	notice  *colorize.Color
}

// NewRenderer creates a renderer for out. In auto mode color is used only
// when out is a terminal.
func NewRenderer(out io.Writer, mode string) *Renderer {
	r := &Renderer{
		out:     out,
		red:     colorize.New(colorize.FgHiRed),
		heading: colorize.New(colorize.FgCyan, colorize.Bold),
		failure: colorize.New(colorize.FgYellow),
		notice:  colorize.New(colorize.FgGreen),
	}

	switch strings.ToLower(mode) {
	case ColorAlways:
		r.enabled = true
	case ColorNever:
		r.enabled = false
	default:
		r.enabled = IsTerminal(out)
	}

	for _, c := range []*colorize.Color{r.red, r.heading, r.failure, r.notice} {
		if r.enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Colored reports whether escape codes are written.
func (r *Renderer) Colored() bool {
	return r.enabled
}

// Println writes one plain line.
func (r *Renderer) Println(line string) {
	fmt.Fprintln(r.out, line)
}

// Prompt writes text without a trailing newline.
func (r *Renderer) Prompt(text string) {
	fmt.Fprint(r.out, text)
}

// Heading writes a highlighted line.
func (r *Renderer) Heading(line string) {
	fmt.Fprintln(r.out, r.heading.Sprint(line))
}

// Error writes a message for a failed command.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.out, r.failure.Sprint(msg))
}

// Notice writes a message for a notable success such as a win.
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, r.notice.Sprint(msg))
}

// Lines writes command output. Board headings are highlighted and hearts
// and diamonds are drawn in red.
func (r *Renderer) Lines(lines []string) {
	for _, line := range lines {
		switch line {
		case "# Board #", "*** DEBUG ***":
			r.Heading(line)
		default:
			r.Println(r.colorCards(line))
		}
	}
}

func (r *Renderer) colorCards(line string) string {
	if !r.enabled {
		return line
	}
	fields := strings.Split(line, " ")
	for i, f := range fields {
		if isRedCard(f) {
			fields[i] = r.red.Sprint(f)
		}
	}
	return strings.Join(fields, " ")
}

// isRedCard reports whether tok is a heart or diamond as printed on a board
// line, with or without a visibility marker.
func isRedCard(tok string) bool {
	tok = strings.TrimRight(tok, "+-")
	if len(tok) < 2 {
		return false
	}
	if _, err := engine.ParseRank(tok[:len(tok)-1]); err != nil {
		return false
	}
	suit, err := engine.ParseSuit(tok[len(tok)-1:])
	return err == nil && suit.IsRed()
}
