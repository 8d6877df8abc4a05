// Command autoplay plays a session against a running server, choosing each
// move greedily from the hints endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/klondike/game/engine"
)

// Config controls one autoplay run.
type Config struct {
	DealID    string
	SessionID string
	Restart   bool
	MaxMoves  int
	Delay     time.Duration
	Verbose   bool
}

// Outcome summarizes a run.
type Outcome struct {
	SessionID string
	Won       bool
	Moves     int
	State     *engine.GameState
}

// Run plays until the game is won, the strategy runs out of useful moves,
// MaxMoves is reached or ctx is canceled.
func Run(ctx context.Context, client *Client, cfg Config) (*Outcome, error) {
	var state *engine.GameState
	var err error

	if cfg.SessionID != "" {
		client.sessionID = cfg.SessionID
		log.Printf("Resuming session: %s", client.sessionID)
		state, err = client.GetState(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		state, err = client.CreateSession(ctx, cfg.DealID)
		if err != nil {
			return nil, err
		}
		log.Printf("Session created: %s (deal %s)", client.sessionID, state.DealName)
	}

	if cfg.Restart {
		if state, err = client.Restart(ctx); err != nil {
			return nil, err
		}
	}

	out := &Outcome{SessionID: client.sessionID, State: state}
	strategy := NewGreedyStrategy()

	for out.Moves < cfg.MaxMoves {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		hints, err := client.Hints(ctx)
		if err != nil {
			return out, err
		}
		if hints.Won {
			state.Won = true
			break
		}

		move, ok := strategy.NextMove(state, hints.Moves)
		if !ok {
			log.Printf("No useful moves left")
			break
		}

		newState, err := client.Play(ctx, move)
		if newState != nil {
			state = newState
		}
		if err != nil {
			// Hints came from the same board, so a rejection means another
			// client changed the session in between.
			return out, err
		}
		out.Moves++

		if cfg.Verbose {
			log.Printf("%-16s foundations %d/%d", move.Command, state.FoundationCards, engine.DeckSize)
		}
		if cfg.Delay > 0 {
			time.Sleep(cfg.Delay)
		}
	}

	out.State = state
	out.Won = state.Won
	log.Printf("Moves=%d, Foundations=%d/%d", out.Moves, state.FoundationCards, engine.DeckSize)
	return out, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "play a Klondike session greedily through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("KLONDIKE_URL")},
			&cli.StringFlag{Name: "deal", Usage: "deal for the new session"},
			&cli.StringFlag{Name: "continue", Usage: "play an existing session by ID"},
			&cli.IntFlag{Name: "max-moves", Value: 3000, Usage: "maximum moves to play"},
			&cli.BoolFlag{Name: "restart", Usage: "restart the session from its deal before playing"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between moves"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Printf("Connecting to game server at %s", cmd.String("url"))

			out, err := Run(ctx, NewClient(cmd.String("url")), Config{
				DealID:    cmd.String("deal"),
				SessionID: cmd.String("continue"),
				MaxMoves:  int(cmd.Int("max-moves")),
				Restart:   cmd.Bool("restart"),
				Delay:     cmd.Duration("delay"),
				Verbose:   cmd.Bool("v"),
			})
			if err != nil {
				return err
			}

			if out.State != nil {
				fmt.Fprintln(cmd.Root().Writer, strings.Join(out.State.Lines, "\n"))
			}
			if !out.Won {
				return errors.New("failed to win session " + out.SessionID)
			}
			log.Printf("VICTORY! Session %s won with %d moves", out.SessionID, out.Moves)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
