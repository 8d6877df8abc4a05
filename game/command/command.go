package command

import (
	"fmt"
	"strings"

	"github.com/wricardo/klondike/game/engine"
)

// Verbs understood by the dispatcher.
const (
	VerbMove    = "move"
	VerbDiscard = "discard"
	VerbReset   = "reset"
	VerbBoard   = "board"
	VerbCheat   = "cheat"
	VerbComment = "comment"
	VerbDone    = "done"
	VerbSave    = "save"
	VerbLoad    = "load"
	VerbMenu    = "menu"
	VerbHint    = "hint"
	VerbHelp    = "help"
)

// Spec describes one verb: its argument count and help text. MaxArgs of -1
// means any number of arguments.
type Spec struct {
	Verb    string `json:"verb"`
	MinArgs int    `json:"min_args"`
	MaxArgs int    `json:"max_args"`
	Usage   string `json:"usage"`
	Help    string `json:"help"`
}

// Specs lists every verb in help order.
var Specs = []Spec{
	{VerbMove, 2, 2, "move <from> <to>", "move cards; from is 1-7 or stock, to is 1-7 or suit"},
	{VerbDiscard, 0, 0, "discard", "deal up to three cards from the stock to the discard pile"},
	{VerbReset, 0, 0, "reset", "turn the discard pile back into the stock once the stock is empty"},
	{VerbBoard, 0, 0, "board", "show the board"},
	{VerbCheat, 0, 0, "cheat", "show the board with every card face-up"},
	{VerbComment, 0, -1, "comment <text>", "echo text, useful in scripts"},
	{VerbHint, 0, 0, "hint", "list the moves that would succeed"},
	{VerbSave, 1, 1, "save <file.txt>", "write the board to a save file"},
	{VerbLoad, 1, 1, "load <file.txt>", "replace the board with a save file"},
	{VerbMenu, 0, 0, "menu", "return to the main menu"},
	{VerbDone, 0, 0, "done", "end the game"},
	{VerbHelp, 0, 0, "help", "list commands"},
}

func lookup(verb string) (Spec, bool) {
	for _, s := range Specs {
		if s.Verb == verb {
			return s, true
		}
	}
	return Spec{}, false
}

// Command is a parsed input line.
type Command struct {
	Verb string   `json:"verb"`
	Args []string `json:"args,omitempty"`
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Verb
	}
	return c.Verb + " " + strings.Join(c.Args, " ")
}

// Parse splits a line on whitespace and checks the verb and its argument
// count. Verbs are case-insensitive; arguments are kept as typed except for
// move ids, which are lowercased.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, &engine.GameError{Kind: engine.ErrInvalidInput, Msg: "empty command"}
	}

	verb := strings.ToLower(fields[0])
	spec, ok := lookup(verb)
	if !ok {
		return Command{}, &engine.GameError{
			Kind: engine.ErrInvalidInput,
			Msg:  fmt.Sprintf("%q is not a valid command, type help for a list", fields[0]),
		}
	}

	args := fields[1:]
	if len(args) < spec.MinArgs || (spec.MaxArgs >= 0 && len(args) > spec.MaxArgs) {
		return Command{}, &engine.GameError{
			Kind: engine.ErrInvalidInput,
			Msg:  fmt.Sprintf("invalid number of arguments for %s, usage: %s", verb, spec.Usage),
		}
	}

	if verb == VerbMove {
		args = []string{strings.ToLower(args[0]), strings.ToLower(args[1])}
	}
	return Command{Verb: verb, Args: args}, nil
}
