// Command autoplay plays a Monopoly session through the REST API. Turns are
// played one at a time and a cash reserve strategy decides purchases,
// building and repaying mortgages for every seat.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"github.com/wricardo/mcp-training/monopoly/game/service"
	"github.com/wricardo/mcp-training/monopoly/logging"
)

// Options controls a run
type Options struct {
	MaxTurns int
	Delay    time.Duration
}

// Report summarizes a finished run
type Report struct {
	SessionID  string
	Turns      int
	Purchases  int
	Houses     int
	Hotels     int
	Unmortgage int
	GameOver   bool
	Standings  *service.StandingsResponse
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "play a game session through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL"},
			&cli.StringFlag{Name: "config", Usage: "rule configuration name"},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by ID"},
			&cli.StringSliceFlag{Name: "player", Usage: "player name, repeat per seat (default: four bots)"},
			&cli.IntFlag{Name: "seed", Usage: "dice and deck seed (0 = random)"},
			&cli.IntFlag{Name: "max-turns", Value: 2000, Usage: "turn cap"},
			&cli.IntFlag{Name: "reserve", Value: 200, Usage: "cash every player keeps after spending"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between turns"},
			&cli.BoolFlag{Name: "v", Usage: "log every turn"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	level := "info"
	if cmd.Bool("v") {
		level = "debug"
	}
	logger := logging.New(logging.Options{Level: level, Pretty: true})

	client := NewClient(strings.TrimSuffix(cmd.String("url"), "/"))
	logger.Info().Str("url", cmd.String("url")).Msg("connecting to game server")

	if id := cmd.String("continue"); id != "" {
		if _, err := client.Resume(ctx, id); err != nil {
			return err
		}
		logger.Info().Str("session", id).Msg("resuming session")
	} else {
		players := cmd.StringSlice("player")
		if len(players) == 0 {
			players = []string{"Bot 1", "Bot 2", "Bot 3", "Bot 4"}
		}
		seed := int(cmd.Int("seed"))
		if seed < 0 {
			return fmt.Errorf("seed must not be negative, got %d", seed)
		}
		if _, err := client.CreateSession(ctx, service.CreateSessionRequest{
			ConfigName: cmd.String("config"),
			Players:    players,
			Seed:       uint64(seed),
		}); err != nil {
			return err
		}
		logger.Info().Str("session", client.SessionID()).Strs("players", players).Msg("session created")
	}

	report, err := Play(ctx, client, NewStrategy(int(cmd.Int("reserve"))), Options{
		MaxTurns: int(cmd.Int("max-turns")),
		Delay:    cmd.Duration("delay"),
	}, logger)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

// Play runs turns until the game ends or the turn cap is reached
func Play(ctx context.Context, client *Client, strategy *Strategy, opts Options, logger zerolog.Logger) (*Report, error) {
	report := &Report{SessionID: client.SessionID()}

	for report.Turns < opts.MaxTurns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := client.PlayTurn(ctx)
		if err != nil {
			return nil, err
		}
		report.Turns++
		state := result.GameState

		if result.Turn != nil {
			logger.Debug().
				Int("turn", result.Turn.Turn).
				Ints("dice", result.Turn.Dice).
				Int("events", len(result.Turn.Events)).
				Str("next", result.NextPlayer).
				Msg(result.Message)
		}

		if result.GameOver {
			report.GameOver = true
			break
		}

		if state, err = act(ctx, client, strategy, state, report, logger); err != nil {
			return nil, err
		}
		if state != nil && state.GameOver {
			report.GameOver = true
			break
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	standings, err := client.Standings(ctx)
	if err != nil {
		return nil, err
	}
	report.Standings = standings
	return report, nil
}

// act applies the strategy to state and returns the state after the last
// accepted action
func act(ctx context.Context, client *Client, strategy *Strategy, state *engine.GameState, report *Report, logger zerolog.Logger) (*engine.GameState, error) {
	if strategy.ShouldBuy(state) {
		result, err := client.Buy(ctx)
		if err != nil {
			return nil, err
		}
		if result.Success {
			report.Purchases++
			logger.Debug().Int("amount", result.Amount).Msg(result.Message)
		}
		state = result.GameState
	}

	for _, space := range strategy.Unmortgages(state) {
		result, err := client.Unmortgage(ctx, space)
		if err != nil {
			return nil, err
		}
		if result.Success {
			report.Unmortgage++
			state = result.GameState
		}
	}

	for _, d := range strategy.Developments(state) {
		var result *service.ActionResult
		var err error
		if d.Hotel {
			result, err = client.BuildHotel(ctx, d.Player, d.Space)
		} else {
			result, err = client.BuildHouse(ctx, d.Player, d.Space)
		}
		if err != nil {
			return nil, err
		}
		if !result.Success {
			continue
		}
		if d.Hotel {
			report.Hotels++
		} else {
			report.Houses++
		}
		logger.Debug().Int("amount", result.Amount).Msg(result.Message)
		state = result.GameState
	}
	return state, nil
}

func printReport(r *Report) {
	fmt.Printf("\nSession %s: %d turns played\n", r.SessionID, r.Turns)
	fmt.Printf("Purchases: %d, houses: %d, hotels: %d, mortgages repaid: %d\n", r.Purchases, r.Houses, r.Hotels, r.Unmortgage)
	if r.Standings == nil {
		return
	}
	if r.GameOver {
		fmt.Printf("🎉 Winner: %s\n", r.Standings.Winner)
	} else {
		fmt.Println("Turn cap reached before the game ended")
	}
	for _, s := range r.Standings.Standings {
		fmt.Printf("%d. %s - net worth $%d (cash $%d)\n", s.Rank, s.Name, s.NetWorth, s.Money)
	}
}
