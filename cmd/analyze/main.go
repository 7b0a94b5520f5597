// Command analyze plays seeded games with a rules configuration and reports
// balance statistics: win rate per seat, game length, bankruptcies and the
// spaces players land on most.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/monopoly/game/config"
	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"github.com/wricardo/mcp-training/monopoly/logging"
)

// Options controls a simulation run
type Options struct {
	Games    int
	Players  int
	Seed     uint64
	MaxTurns int
	// BuyOffers accepts every open purchase offer when auto-buy is off
	BuyOffers bool
	Top       int
}

// SpaceCount is how often players ended a move on one space
type SpaceCount struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary aggregates the results of a simulation run
type Summary struct {
	Config       string       `json:"config"`
	Games        int          `json:"games"`
	Players      int          `json:"players"`
	Finished     int          `json:"finished"`
	Unfinished   int          `json:"unfinished"`
	WinsBySeat   []int        `json:"wins_by_seat"`
	Bankruptcies int          `json:"bankruptcies"`
	AverageTurns float64      `json:"average_turns"`
	ShortestGame int          `json:"shortest_game"`
	LongestGame  int          `json:"longest_game"`
	Landings     []SpaceCount `json:"landings"`
}

// WinRate is the share of finished games won from seat
func (s *Summary) WinRate(seat int) float64 {
	if s.Finished == 0 || seat < 0 || seat >= len(s.WinsBySeat) {
		return 0
	}
	return float64(s.WinsBySeat[seat]) / float64(s.Finished)
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "simulate seeded games and report rule balance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config name in --config-dir or a path to a config file (default: classic rules)"},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing rule configurations"},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "number of games to play"},
			&cli.IntFlag{Name: "players", Value: 4, Usage: "players per game"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "seed of the first game; game i uses seed+i"},
			&cli.IntFlag{Name: "max-turns", Value: 1000, Usage: "turn cap per game"},
			&cli.IntFlag{Name: "top", Value: 10, Usage: "number of landing spaces to list"},
			&cli.BoolFlag{Name: "buy", Usage: "accept purchase offers when auto-buy is off"},
			&cli.BoolFlag{Name: "json", Usage: "output JSON"},
			&cli.BoolFlag{Name: "debug", Usage: "log every finished game"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	level := "info"
	if cmd.Bool("debug") {
		level = "debug"
	}
	logger := logging.New(logging.Options{Level: level, Pretty: true})

	cfg, err := loadConfig(cmd.String("config"), cmd.String("config-dir"))
	if err != nil {
		return err
	}

	seed := int(cmd.Int("seed"))
	if seed < 0 {
		return fmt.Errorf("seed must not be negative, got %d", seed)
	}
	opts := Options{
		Games:     int(cmd.Int("games")),
		Players:   int(cmd.Int("players")),
		Seed:      uint64(seed),
		MaxTurns:  int(cmd.Int("max-turns")),
		BuyOffers: cmd.Bool("buy"),
		Top:       int(cmd.Int("top")),
	}

	summary, err := Simulate(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	return printSummary(os.Stdout, summary)
}

// loadConfig resolves name as a file path when it has a config extension,
// otherwise as a config name in dir. An empty name means the classic rules.
func loadConfig(name, dir string) (*engine.GameConfig, error) {
	if name == "" {
		return engine.DefaultGameConfig(), nil
	}
	for _, ext := range engine.ConfigExtensions {
		if filepath.Ext(name) == ext {
			return engine.LoadGameConfig(name)
		}
	}

	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}
	return manager.LoadConfig(name)
}

// Simulate plays opts.Games games and aggregates their outcome
func Simulate(ctx context.Context, cfg *engine.GameConfig, opts Options, logger zerolog.Logger) (*Summary, error) {
	if opts.Games < 1 {
		return nil, fmt.Errorf("games must be at least 1, got %d", opts.Games)
	}
	if opts.Players < engine.MinPlayers {
		return nil, fmt.Errorf("players must be at least %d, got %d", engine.MinPlayers, opts.Players)
	}
	if opts.MaxTurns < 1 {
		return nil, fmt.Errorf("max turns must be at least 1, got %d", opts.MaxTurns)
	}

	names := make([]string, opts.Players)
	for i := range names {
		names[i] = fmt.Sprintf("Player %d", i+1)
	}

	summary := &Summary{
		Config:     cfg.Name,
		Games:      opts.Games,
		Players:    opts.Players,
		WinsBySeat: make([]int, opts.Players),
	}
	landings := map[int]int{}
	var board *engine.Board
	totalTurns := 0

	for i := 0; i < opts.Games; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e, err := engine.NewEngine(cfg, names, engine.WithSeed(opts.Seed+uint64(i)))
		if err != nil {
			return nil, err
		}
		board = e.Board()

		turns, err := playGame(e, opts, landings)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
		totalTurns += turns

		for _, p := range e.Players() {
			if p.Bankrupt && !p.Surrendered {
				summary.Bankruptcies++
			}
		}

		if winner, ok := e.Winner(); ok {
			summary.Finished++
			summary.WinsBySeat[winner]++
			if summary.ShortestGame == 0 || turns < summary.ShortestGame {
				summary.ShortestGame = turns
			}
			if turns > summary.LongestGame {
				summary.LongestGame = turns
			}
			logger.Debug().Int("game", i+1).Int("turns", turns).Str("winner", names[winner]).Msg("game finished")
		} else {
			summary.Unfinished++
			logger.Debug().Int("game", i+1).Int("turns", turns).Msg("turn cap reached")
		}
	}

	summary.AverageTurns = float64(totalTurns) / float64(opts.Games)
	summary.Landings = topLandings(landings, board, opts.Top)
	return summary, nil
}

// playGame runs e to the end or the turn cap and counts landings
func playGame(e *engine.GameEngine, opts Options, landings map[int]int) (int, error) {
	turns := 0
	for turns < opts.MaxTurns {
		if opts.BuyOffers {
			if _, ok := e.PendingOffer(); ok {
				e.BuyCurrentProperty()
			}
		}

		log, err := e.PlayTurn()
		if errors.Is(err, engine.ErrGameOver) {
			break
		}
		if err != nil {
			return turns, err
		}
		turns++

		for _, ev := range log.Events {
			switch ev.Type {
			case engine.EventPlayerMoved, engine.EventPlayerJailed:
				landings[ev.To]++
			}
		}
		if e.IsGameOver() {
			break
		}
	}
	return turns, nil
}

func topLandings(counts map[int]int, board *engine.Board, n int) []SpaceCount {
	out := make([]SpaceCount, 0, len(counts))
	for idx, count := range counts {
		name := fmt.Sprintf("space %d", idx)
		if board != nil && board.Valid(idx) {
			name = board.SpaceAt(idx).Name()
		}
		out = append(out, SpaceCount{Index: idx, Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Index < out[j].Index
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func printSummary(w io.Writer, s *Summary) error {
	fmt.Fprintf(w, "=== %s: %d games, %d players ===\n", s.Config, s.Games, s.Players)
	fmt.Fprintf(w, "Finished: %d, turn cap reached: %d\n", s.Finished, s.Unfinished)
	fmt.Fprintf(w, "Average length: %.1f turns (shortest %d, longest %d)\n", s.AverageTurns, s.ShortestGame, s.LongestGame)
	fmt.Fprintf(w, "Bankruptcies: %d\n\n", s.Bankruptcies)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEAT\tWINS\tRATE")
	for seat, wins := range s.WinsBySeat {
		fmt.Fprintf(tw, "%d\t%d\t%.1f%%\n", seat+1, wins, 100*s.WinRate(seat))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "SPACE\tNAME\tLANDINGS")
	for _, l := range s.Landings {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", l.Index, l.Name, l.Count)
	}
	return tw.Flush()
}
