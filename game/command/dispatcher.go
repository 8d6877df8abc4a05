package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/klondike/game/engine"
)

// ErrFilesDisabled is returned for save and load when the dispatcher has no
// file directory.
var ErrFilesDisabled = errors.New("file commands are disabled")

// Result is what a command produced. Lines are meant to be printed in order.
type Result struct {
	Command Command  `json:"command"`
	Lines   []string `json:"lines"`
	Cards   int      `json:"cards,omitempty"`
	Mutated bool     `json:"mutated"`
	Done    bool     `json:"done,omitempty"`
	Menu    bool     `json:"menu,omitempty"`
}

func (r *Result) add(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

// Dispatcher runs parsed commands against one engine.
type Dispatcher struct {
	engine engine.Engine
	dir    string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFileDir enables save and load, resolving file names inside dir.
func WithFileDir(dir string) Option {
	return func(d *Dispatcher) {
		d.dir = dir
	}
}

// NewDispatcher creates a dispatcher for e.
func NewDispatcher(e engine.Engine, opts ...Option) *Dispatcher {
	d := &Dispatcher{engine: e}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Engine returns the engine commands are applied to.
func (d *Dispatcher) Engine() engine.Engine {
	return d.engine
}

// Execute parses and runs one line. Rule errors come back together with a
// non-nil Result so callers can still print what was attempted.
func (d *Dispatcher) Execute(line string) (*Result, error) {
	cmd, err := Parse(line)
	if err != nil {
		return &Result{Command: Command{Verb: strings.TrimSpace(line)}}, err
	}
	return d.Run(cmd)
}

// Run executes an already parsed command.
func (d *Dispatcher) Run(cmd Command) (*Result, error) {
	res := &Result{Command: cmd}
	if cmd.Verb != VerbComment && cmd.Verb != VerbDone {
		res.add("Executing: %s", cmd)
	}

	switch cmd.Verb {
	case VerbMove:
		n, err := d.engine.Move(cmd.Args[0], cmd.Args[1])
		if err != nil {
			return res, err
		}
		res.Cards, res.Mutated = n, true
		res.add("%s", d.engine.GetState(false).Message)

	case VerbDiscard:
		n, err := d.engine.Discard()
		if err != nil {
			return res, err
		}
		res.Cards, res.Mutated = n, true

	case VerbReset:
		n, err := d.engine.ResetStock()
		if err != nil {
			return res, err
		}
		res.Cards, res.Mutated = n, true

	case VerbBoard:
		res.Lines = append(res.Lines, BoardView(d.engine.Board(), false)...)

	case VerbCheat:
		res.Lines = append(res.Lines, BoardView(d.engine.Board(), true)...)

	case VerbComment:
		res.add("%s", strings.Join(cmd.Args, " "))

	case VerbHint:
		moves := d.engine.Hints()
		if len(moves) == 0 {
			res.add("No moves available")
		}
		for _, m := range moves {
			res.add("  %s", m.Command)
		}

	case VerbSave:
		path, err := d.path(cmd.Args[0])
		if err != nil {
			return res, err
		}
		if err := engine.SaveBoardFile(path, d.engine.Board()); err != nil {
			return res, err
		}
		res.add("Game saved to %s", cmd.Args[0])

	case VerbLoad:
		path, err := d.path(cmd.Args[0])
		if err != nil {
			return res, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return res, &engine.GameError{
				Kind: engine.ErrInvalidInput,
				Msg:  fmt.Sprintf("%s cannot be opened", cmd.Args[0]),
			}
		}
		if err := d.engine.Load(string(data)); err != nil {
			return res, err
		}
		res.Mutated = true
		res.add("Game loaded from %s", cmd.Args[0])

	case VerbMenu:
		res.Menu = true

	case VerbDone:
		res.Done = true

	case VerbHelp:
		res.Lines = append(res.Lines, HelpLines()...)
	}

	return res, nil
}

func (d *Dispatcher) path(name string) (string, error) {
	if d.dir == "" {
		return "", &engine.GameError{Kind: engine.ErrInvalidInput, Msg: ErrFilesDisabled.Error()}
	}
	// Only the base name is used so a command cannot reach outside dir.
	return filepath.Join(d.dir, filepath.Base(name)), nil
}

// BoardView renders the board the way the board and cheat commands print it.
func BoardView(b *engine.Board, reveal bool) []string {
	var lines []string
	if reveal {
		lines = append(lines, "", "*** DEBUG ***", "")
	} else {
		lines = append(lines, "", "# Board #", "---------")
	}
	lines = append(lines, engine.BoardLines(b, reveal)...)
	return append(lines, "")
}

// HelpLines lists every verb with its usage.
func HelpLines() []string {
	lines := make([]string, 0, len(Specs)+1)
	lines = append(lines, "Commands:")
	for _, s := range Specs {
		lines = append(lines, fmt.Sprintf("  %-18s %s", s.Usage, s.Help))
	}
	return lines
}

// Describe turns an error into the message shown to a player.
func Describe(err error) string {
	var ge *engine.GameError
	msg := err.Error()
	if errors.As(err, &ge) && ge.Msg != "" {
		msg = ge.Msg
	}

	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return "Invalid input: " + msg
	case errors.Is(err, engine.ErrUnknownPile):
		return "No such pile: " + msg
	case errors.Is(err, engine.ErrEmptySource):
		return "Nothing to move: " + msg
	case errors.Is(err, engine.ErrIllegalMove):
		return "Not a valid move: " + msg
	case errors.Is(err, engine.ErrFormat):
		return "File in incorrect save format: " + msg
	case errors.Is(err, engine.ErrNotEmpty):
		return "Stock must be empty: " + msg
	default:
		return "Error: " + msg
	}
}
