package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/klondike/game/command"
	"github.com/wricardo/klondike/game/engine"
)

// DefaultSampleSave is the file the sample game writes its final board to.
const DefaultSampleSave = "hello.txt"

// DealSource supplies the starting board for each new game.
// config.Manager implements it.
type DealSource interface {
	GetDefault() (*engine.Board, string)
}

// Options configures a Console.
type Options struct {
	Deals DealSource

	// FileDir enables the save and load commands. The sample game writes
	// its result here too.
	FileDir string

	// SampleScript is the command file replayed by the sample game.
	SampleScript string
	SampleSave   string
}

// Console runs the text menu and games over a reader and a writer, so the
// same loop serves a local terminal and an SSH session.
type Console struct {
	in     *bufio.Scanner
	render *Renderer
	opts   Options
}

// New creates a console reading commands from in and writing through r.
func New(in io.Reader, r *Renderer, opts Options) *Console {
	if opts.SampleSave == "" {
		opts.SampleSave = DefaultSampleSave
	}
	return &Console{
		in:     bufio.NewScanner(in),
		render: r,
		opts:   opts,
	}
}

// readLine returns the next input line. ok is false once input is exhausted.
func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimRight(c.in.Text(), "\r"), true
}

// Run shows the main menu until the player exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.render.Heading("# Main Menu #")
		c.render.Println("1. Input Game")
		c.render.Println("2. Sample Game")
		c.render.Println("3. Exit")
		c.render.Prompt("Please select an option using the numbers: ")

		mode, ok := c.readLine()
		for ok && mode != "1" && mode != "2" && mode != "3" {
			c.render.Println("Input must be a number from the options!")
			c.render.Prompt("Please select a game mode: ")
			mode, ok = c.readLine()
		}
		if !ok {
			c.render.Println("")
			return nil
		}

		switch mode {
		case "1":
			c.render.Println("")
			menu, err := c.InputGame(ctx)
			if err != nil {
				return err
			}
			if !menu {
				return nil
			}
		case "2":
			c.render.Println("")
			if err := c.SampleGame(ctx); err != nil {
				c.render.Error(command.Describe(err))
			}
		case "3":
			c.render.Println("\nGoodbye!")
			return nil
		}
	}
}

func (c *Console) newDispatcher() (*command.Dispatcher, error) {
	deal, name := c.opts.Deals.GetDefault()
	e, err := engine.NewEngine(name, deal)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	var opts []command.Option
	if c.opts.FileDir != "" {
		opts = append(opts, command.WithFileDir(c.opts.FileDir))
	}
	return command.NewDispatcher(e, opts...), nil
}

// InputGame plays one interactive game. menu is true when the player left
// through the menu command rather than done or end of input.
func (c *Console) InputGame(ctx context.Context) (menu bool, err error) {
	d, err := c.newDispatcher()
	if err != nil {
		return false, err
	}

	c.render.Println("Welcome to Klondike!")
	c.render.Lines(command.BoardView(d.Engine().Board(), false))
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		c.render.Prompt("Your move: ")
		line, ok := c.readLine()
		if !ok {
			c.render.Println("")
			break
		}

		res, err := c.step(d, line)
		if err != nil {
			continue
		}
		if res.Menu {
			if c.confirmMenu() {
				c.render.Println("")
				return true, nil
			}
			c.render.Println("menu was not executed")
			continue
		}
		if res.Done {
			break
		}
	}
	c.render.Println("Thank you for playing!")
	return false, nil
}

// step runs one line and prints what it produced.
func (c *Console) step(d *command.Dispatcher, line string) (*command.Result, error) {
	res, err := d.Execute(line)
	if res != nil {
		c.render.Lines(res.Lines)
	}
	if err != nil {
		c.render.Error(command.Describe(err))
		return res, err
	}
	if res.Mutated && d.Engine().IsWon() {
		c.render.Notice("*** You won! Every card is on its foundation. ***")
	}
	return res, nil
}

func (c *Console) confirmMenu() bool {
	c.render.Prompt("\nYour game will not auto save if you exit to menu. Do you still wish to exit to menu? (y/n): ")
	for {
		answer, ok := c.readLine()
		if !ok {
			return true
		}
		switch strings.TrimSpace(answer) {
		case "y":
			return true
		case "n":
			return false
		}
		c.render.Prompt(`Invalid input. Please type "y" or "n": `)
	}
}

// Replay runs every line of script on a fresh game and returns the engine
// it played on. It stops early at done or menu.
func (c *Console) Replay(ctx context.Context, script io.Reader) (engine.Engine, error) {
	d, err := c.newDispatcher()
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(script)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return d.Engine(), err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		res, err := c.step(d, line)
		if err != nil {
			continue
		}
		if res.Done || res.Menu {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return d.Engine(), fmt.Errorf("failed to read script: %w", err)
	}
	return d.Engine(), nil
}

// SampleGame replays the sample script and writes the final board to the
// sample save file.
func (c *Console) SampleGame(ctx context.Context) error {
	if c.opts.SampleScript == "" {
		return &engine.GameError{Kind: engine.ErrInvalidInput, Msg: "no sample game is configured"}
	}
	f, err := os.Open(c.opts.SampleScript)
	if err != nil {
		return &engine.GameError{
			Kind: engine.ErrInvalidInput,
			Msg:  fmt.Sprintf("%s cannot be opened: file was not found", filepath.Base(c.opts.SampleScript)),
		}
	}
	defer f.Close()

	c.render.Println("Welcome to Klondike!")
	e, err := c.Replay(ctx, f)
	if err != nil {
		return err
	}

	if c.opts.FileDir != "" {
		path := filepath.Join(c.opts.FileDir, filepath.Base(c.opts.SampleSave))
		if err := engine.SaveBoardFile(path, e.Board()); err != nil {
			log.Printf("Warning: Failed to write sample result %s: %v", path, err)
		} else {
			c.render.Println("Game saved to " + c.opts.SampleSave)
		}
	}
	c.render.Println("Thank you for playing!")
	return nil
}
