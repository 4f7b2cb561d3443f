package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MJE43/tennis-sim-go/internal/engine"
	"github.com/MJE43/tennis-sim-go/internal/montecarlo"
	"github.com/MJE43/tennis-sim-go/internal/scoreboard"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

func (e *env) simulate(ctx context.Context, args []string) error {
	fs := e.flagSet("simulate")
	m := e.bindMatchFlags(fs)
	trials := fs.Int("trials", e.cfg.DefaultTrials, "number of matches to play")
	nonce := fs.Uint64("nonce", 0, "nonce of the first trial")
	timeoutMs := fs.Int("timeout-ms", e.cfg.TimeoutMs, "stop after this many milliseconds (0 = no limit)")
	workers := fs.Int("workers", 0, "worker goroutines (0 = config or GOMAXPROCS)")
	asJSON := fs.Bool("json", false, "print the statistics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := e.buildMatchRequest(ctx, m)
	if err != nil {
		return err
	}
	req.NonceStart = *nonce
	req.Trials = *trials
	req.TimeoutMs = *timeoutMs

	started := time.Now()
	stats, err := e.driver(*workers).EstimateMatchWinRate(ctx, req)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(e, stats)
	}

	one, two := req.PlayerOne, req.PlayerTwo
	fmt.Fprintf(e.out, "%s vs %s  [%s, %s model]\n", one, two, req.Rules, m.model)
	fmt.Fprintf(e.out, "trials: %d of %d in %s", stats.Trials, stats.Requested, elapsedSince(started))
	if stats.TimedOut {
		fmt.Fprint(e.out, " (timed out)")
	}
	fmt.Fprintln(e.out)
	fmt.Fprintf(e.out, "seeds: server=%s client=%s nonce_start=%d\n", stats.Seeds.Server, stats.Seeds.Client, stats.NonceStart)
	fmt.Fprintf(e.out, "%-20s %8s  %d wins, %d in straight sets\n",
		one.Name(), percent(stats.PlayerOneWins, stats.Trials), stats.PlayerOneWins, stats.StraightSetsOne)
	fmt.Fprintf(e.out, "%-20s %8s  %d wins, %d in straight sets\n",
		two.Name(), percent(stats.PlayerTwoWins, stats.Trials), stats.PlayerTwoWins, stats.StraightSetsTwo)
	fmt.Fprintf(e.out, "sets per match: %.2f ± %.2f   games per match: %.2f ± %.2f\n",
		stats.MeanSets, stats.StdDevSets, stats.MeanGames, stats.StdDevGames)
	return nil
}

func (e *env) points(ctx context.Context, args []string) error {
	fs := e.flagSet("points")
	p1 := fs.String("p1", "", "player one as name:skill or a stored player name")
	p2 := fs.String("p2", "", "player two as name:skill or a stored player name")
	model := fs.String("model", e.cfg.Model, "point model preset (tight, wide)")
	trials := fs.Int("trials", e.cfg.DefaultTrials, "number of points to resolve")
	nonce := fs.Uint64("nonce", 0, "nonce of the first trial")
	serverSeed := fs.String("server-seed", e.cfg.ServerSeed, "server seed (random when both seeds are empty)")
	clientSeed := fs.String("client-seed", e.cfg.ClientSeed, "client seed")
	workers := fs.Int("workers", 0, "worker goroutines (0 = config or GOMAXPROCS)")
	asJSON := fs.Bool("json", false, "print the statistics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	one, err := e.resolvePlayer(ctx, "p1", *p1)
	if err != nil {
		return err
	}
	two, err := e.resolvePlayer(ctx, "p2", *p2)
	if err != nil {
		return err
	}
	pm, err := tennis.PointModelPreset(*model)
	if err != nil {
		return err
	}

	seeds := engine.Seeds{Server: *serverSeed, Client: *clientSeed}
	if seeds != (engine.Seeds{}) {
		if err := seeds.Validate(); err != nil {
			return err
		}
	}

	stats, err := e.driver(*workers).EstimatePointOutcomeDistribution(ctx, montecarlo.PointRequest{
		PlayerOne:  one,
		PlayerTwo:  two,
		Model:      pm,
		Seeds:      seeds,
		NonceStart: *nonce,
		Trials:     *trials,
		TimeoutMs:  e.cfg.TimeoutMs,
	})
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(e, stats)
	}

	fmt.Fprintf(e.out, "%s vs %s  [%s model, %d points]\n", one, two, *model, stats.Trials)
	fmt.Fprintf(e.out, "%-20s %8s\n", one.Name()+" scores", percent(stats.PlayerOneScores, stats.Trials))
	fmt.Fprintf(e.out, "%-20s %8s\n", two.Name()+" scores", percent(stats.PlayerTwoScores, stats.Trials))
	fmt.Fprintf(e.out, "%-20s %8s\n", "no score", percent(stats.NoScore, stats.Trials))
	return nil
}

func (e *env) play(ctx context.Context, args []string) error {
	fs := e.flagSet("play")
	m := e.bindMatchFlags(fs)
	show := fs.String("show", "set,match", "comma separated detail: game (every point), set (every game), match, all")
	nonce := fs.Uint64("nonce", 0, "nonce identifying the match")
	if err := fs.Parse(args); err != nil {
		return err
	}
	detail, err := scoreboard.ParseDetail(*show)
	if err != nil {
		return err
	}

	req, err := e.buildMatchRequest(ctx, m)
	if err != nil {
		return err
	}
	req.Seeds = req.Seeds.OrRandom()
	fmt.Fprintf(e.out, "%s vs %s  seeds: server=%s client=%s nonce=%d\n",
		req.PlayerOne, req.PlayerTwo, req.Seeds.Server, req.Seeds.Client, *nonce)

	result, err := montecarlo.ReplayMatch(req, *nonce, scoreboard.NewPrinter(e.out, detail))
	if err != nil {
		return err
	}
	e.log.Debug().Stringer("winner", result.Winner).Int("games", result.Games()).Msg("match played")
	return nil
}

func writeJSON(e *env, v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
