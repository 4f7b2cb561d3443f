// Package cli implements the tennis-sim subcommands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MJE43/tennis-sim-go/internal/config"
	"github.com/MJE43/tennis-sim-go/internal/engine"
	"github.com/MJE43/tennis-sim-go/internal/montecarlo"
	"github.com/MJE43/tennis-sim-go/internal/roster"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// ErrUsage is returned for malformed command lines.
var ErrUsage = errors.New("usage")

const usage = `usage: tennis-sim <command> [flags]

commands:
  simulate   estimate the match win rate of -p1 against -p2
  points     estimate the single-point outcome distribution
  play       play one match and print the score as it happens
  players    add|list|rm stored players
  formats    add|list|rm stored scoring formats
  serve      run the HTTP API
`

// env carries what every subcommand needs.
type env struct {
	cfg    config.Config
	log    zerolog.Logger
	out    io.Writer
	errOut io.Writer
	store  *roster.Store
}

// Run dispatches args[0] to its subcommand.
func Run(ctx context.Context, args []string, cfg config.Config, log zerolog.Logger, out, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if len(args) == 0 {
		fmt.Fprint(errOut, usage)
		return ErrUsage
	}

	e := &env{cfg: cfg, log: log, out: out, errOut: errOut}
	defer e.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "simulate":
		return e.simulate(ctx, rest)
	case "points":
		return e.points(ctx, rest)
	case "play":
		return e.play(ctx, rest)
	case "players":
		return e.players(ctx, rest)
	case "formats":
		return e.formats(ctx, rest)
	case "serve":
		return e.serve(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(errOut, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (e *env) openStore(ctx context.Context) (*roster.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	s, err := roster.Open(ctx, e.cfg.DBPath, e.log)
	if err != nil {
		return nil, err
	}
	e.store = s
	return s, nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
}

func (e *env) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	return fs
}

func (e *env) driver(workers int) *montecarlo.Driver {
	if workers <= 0 {
		workers = e.cfg.Workers
	}
	opts := []montecarlo.Option{
		montecarlo.WithLogger(e.log),
		montecarlo.WithMaxTrials(e.cfg.MaxTrials),
	}
	if workers > 0 {
		opts = append(opts, montecarlo.WithWorkers(workers))
	}
	return montecarlo.NewDriver(opts...)
}

// resolvePlayer accepts "name:skill" or the name of a stored player.
func (e *env) resolvePlayer(ctx context.Context, flagName, arg string) (tennis.Player, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return tennis.Player{}, fmt.Errorf("%w: -%s is required", ErrUsage, flagName)
	}
	if name, raw, ok := strings.Cut(arg, ":"); ok {
		skill, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return tennis.Player{}, fmt.Errorf("-%s: skill %q: %w", flagName, raw, err)
		}
		return tennis.NewPlayer(name, skill)
	}
	s, err := e.openStore(ctx)
	if err != nil {
		return tennis.Player{}, err
	}
	return roster.ResolvePlayer(ctx, s, arg)
}

// resolveFormat checks presets before touching the database.
func (e *env) resolveFormat(ctx context.Context, name string) (tennis.ScoringRules, error) {
	if rules, err := tennis.ScoringPreset(name); err == nil {
		return rules, nil
	}
	s, err := e.openStore(ctx)
	if err != nil {
		return tennis.ScoringRules{}, err
	}
	return roster.ResolveFormat(ctx, s, name)
}

// matchFlags are shared by simulate and play.
type matchFlags struct {
	p1, p2     string
	format     string
	model      string
	ties       string
	seedServer string
	seedClient string
}

func (e *env) bindMatchFlags(fs *flag.FlagSet) *matchFlags {
	m := &matchFlags{}
	fs.StringVar(&m.p1, "p1", "", "player one as name:skill or a stored player name")
	fs.StringVar(&m.p2, "p2", "", "player two as name:skill or a stored player name")
	fs.StringVar(&m.format, "format", e.cfg.Format, "scoring format (preset or stored name)")
	fs.StringVar(&m.model, "model", e.cfg.Model, "point model preset (tight, wide)")
	fs.StringVar(&m.ties, "ties", e.cfg.TiePolicy, "tie policy (player_two, strict)")
	fs.StringVar(&m.seedServer, "server-seed", e.cfg.ServerSeed, "server seed (random when both seeds are empty)")
	fs.StringVar(&m.seedClient, "client-seed", e.cfg.ClientSeed, "client seed")
	return m
}

func (m *matchFlags) seeds() engine.Seeds {
	return engine.Seeds{Server: m.seedServer, Client: m.seedClient}
}

func (e *env) buildMatchRequest(ctx context.Context, m *matchFlags) (montecarlo.MatchRequest, error) {
	one, err := e.resolvePlayer(ctx, "p1", m.p1)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}
	two, err := e.resolvePlayer(ctx, "p2", m.p2)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}
	rules, err := e.resolveFormat(ctx, m.format)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}
	model, err := tennis.PointModelPreset(m.model)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}
	ties, err := tennis.ParseTiePolicy(m.ties)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}
	seeds := m.seeds()
	if seeds != (engine.Seeds{}) {
		if err := seeds.Validate(); err != nil {
			return montecarlo.MatchRequest{}, err
		}
	}
	return montecarlo.MatchRequest{
		PlayerOne: one,
		PlayerTwo: two,
		Rules:     rules,
		Model:     model,
		Ties:      ties,
		Seeds:     seeds,
	}, nil
}

var hundred = decimal.NewFromInt(100)

func percent(part, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		StringFixed(2) + "%"
}

func elapsedSince(t time.Time) string {
	return time.Since(t).Round(time.Millisecond).String()
}
