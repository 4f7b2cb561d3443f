package montecarlo

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/MJE43/tennis-sim-go/internal/engine"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

const defaultBatchSize = 256

// Driver runs batches of independent trials across a pool of workers.
type Driver struct {
	workerCount int
	batchSize   int
	maxTrials   int
	logger      zerolog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithWorkers sets the worker count; values below one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workerCount = n
		}
	}
}

// WithBatchSize sets how many trials a worker takes per job.
func WithBatchSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

// WithMaxTrials lowers the per-request trial cap.
func WithMaxTrials(n int) Option {
	return func(d *Driver) {
		if n > 0 && n < MaxTrials {
			d.maxTrials = n
		}
	}
}

// WithLogger attaches a logger for run summaries.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// NewDriver creates a driver sized to GOMAXPROCS unless told otherwise.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   defaultBatchSize,
		maxTrials:   MaxTrials,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Workers reports the configured worker count.
func (d *Driver) Workers() int { return d.workerCount }

// EstimateMatchWinRate plays req.Trials matches and reports how often
// PlayerOne won, along with set and game length statistics.
func (d *Driver) EstimateMatchWinRate(ctx context.Context, req MatchRequest) (*MatchStats, error) {
	if req.Rules.IsZero() {
		return nil, ErrMissingRules
	}
	if err := d.checkTrials(req.Trials); err != nil {
		return nil, err
	}
	sim, err := tennis.NewSimulator(req.Rules, tennis.WithPointModel(req.Model), tennis.WithTiePolicy(req.Ties))
	if err != nil {
		return nil, err
	}
	seeds := req.Seeds.OrRandom()

	ctx, cancel := withTimeout(ctx, req.TimeoutMs)
	defer cancel()

	winners := make([]tennis.Side, req.Trials)
	sets := make([]float64, req.Trials)
	games := make([]float64, req.Trials)
	straight := make([]bool, req.Trials)

	started := time.Now()
	err = d.run(ctx, req.Trials, func(i int) {
		stream := engine.NewStream(seeds, req.NonceStart+uint64(i))
		m := sim.PlayMatch(stream, req.PlayerOne, req.PlayerTwo)
		sets[i] = float64(len(m.Sets))
		games[i] = float64(m.Games())
		straight[i] = m.StraightSets()
		winners[i] = m.Winner
	})
	if err != nil {
		return nil, err
	}

	stats := &MatchStats{Requested: req.Trials, Seeds: seeds, NonceStart: req.NonceStart}
	doneSets := make([]float64, 0, req.Trials)
	doneGames := make([]float64, 0, req.Trials)
	for i, w := range winners {
		switch w {
		case tennis.PlayerOne:
			stats.PlayerOneWins++
			if straight[i] {
				stats.StraightSetsOne++
			}
		case tennis.PlayerTwo:
			stats.PlayerTwoWins++
			if straight[i] {
				stats.StraightSetsTwo++
			}
		default:
			continue
		}
		doneSets = append(doneSets, sets[i])
		doneGames = append(doneGames, games[i])
	}

	stats.Trials = len(doneSets)
	if stats.Trials == 0 {
		return nil, ErrTimeout
	}
	stats.TimedOut = stats.Trials < stats.Requested
	stats.WinRate = float64(stats.PlayerOneWins) / float64(stats.Trials)
	stats.MeanSets, stats.StdDevSets = meanStdDev(doneSets)
	stats.MeanGames, stats.StdDevGames = meanStdDev(doneGames)

	d.logger.Debug().
		Str("player_one", req.PlayerOne.Name()).
		Str("player_two", req.PlayerTwo.Name()).
		Stringer("rules", req.Rules).
		Int("trials", stats.Trials).
		Int("workers", d.workerCount).
		Float64("win_rate", stats.WinRate).
		Bool("timed_out", stats.TimedOut).
		Dur("elapsed", time.Since(started)).
		Msg("match simulation finished")

	return stats, nil
}

// EstimatePointOutcomeDistribution resolves req.Trials independent points
// and reports the share of each outcome.
func (d *Driver) EstimatePointOutcomeDistribution(ctx context.Context, req PointRequest) (*PointStats, error) {
	if err := d.checkTrials(req.Trials); err != nil {
		return nil, err
	}
	if err := req.Model.Validate(); err != nil {
		return nil, err
	}
	seeds := req.Seeds.OrRandom()

	ctx, cancel := withTimeout(ctx, req.TimeoutMs)
	defer cancel()

	outcomes := make([]tennis.PointOutcome, req.Trials)
	done := make([]bool, req.Trials)

	started := time.Now()
	err := d.run(ctx, req.Trials, func(i int) {
		stream := engine.NewStream(seeds, req.NonceStart+uint64(i))
		outcomes[i] = req.Model.Resolve(stream, req.PlayerOne, req.PlayerTwo)
		done[i] = true
	})
	if err != nil {
		return nil, err
	}

	stats := &PointStats{Requested: req.Trials, Seeds: seeds, NonceStart: req.NonceStart}
	for i, o := range outcomes {
		if !done[i] {
			continue
		}
		stats.Trials++
		switch o {
		case tennis.PlayerOneScores:
			stats.PlayerOneScores++
		case tennis.PlayerTwoScores:
			stats.PlayerTwoScores++
		default:
			stats.NoScore++
		}
	}
	if stats.Trials == 0 {
		return nil, ErrTimeout
	}
	n := float64(stats.Trials)
	stats.TimedOut = stats.Trials < stats.Requested
	stats.PlayerOneFrac = float64(stats.PlayerOneScores) / n
	stats.PlayerTwoFrac = float64(stats.PlayerTwoScores) / n
	stats.NoScoreFrac = float64(stats.NoScore) / n

	d.logger.Debug().
		Int("trials", stats.Trials).
		Float64("player_one_frac", stats.PlayerOneFrac).
		Float64("player_two_frac", stats.PlayerTwoFrac).
		Float64("no_score_frac", stats.NoScoreFrac).
		Dur("elapsed", time.Since(started)).
		Msg("point simulation finished")

	return stats, nil
}

// ReplayMatch plays the single trial identified by nonce, reporting to
// observer if one is given. Seeds must be explicit.
func ReplayMatch(req MatchRequest, nonce uint64, observer tennis.Observer) (tennis.MatchResult, error) {
	if err := req.Seeds.Validate(); err != nil {
		return tennis.MatchResult{}, err
	}
	if req.Rules.IsZero() {
		return tennis.MatchResult{}, ErrMissingRules
	}
	opts := []tennis.Option{tennis.WithPointModel(req.Model), tennis.WithTiePolicy(req.Ties)}
	if observer != nil {
		opts = append(opts, tennis.WithObserver(observer))
	}
	sim, err := tennis.NewSimulator(req.Rules, opts...)
	if err != nil {
		return tennis.MatchResult{}, err
	}
	return sim.PlayMatch(engine.NewStream(req.Seeds, nonce), req.PlayerOne, req.PlayerTwo), nil
}

func (d *Driver) checkTrials(trials int) error {
	if trials < 1 || trials > d.maxTrials {
		return fmt.Errorf("%w: got %d, max %d", ErrInvalidTrials, trials, d.maxTrials)
	}
	return nil
}

// run feeds trial ranges to the workers and waits for them. A trial that
// panics aborts the run with an error; an expired context just stops it, and
// callers tell completed trials apart from skipped ones themselves.
func (d *Driver) run(ctx context.Context, trials int, evaluate func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan trialJob, d.workerCount*2)

	g.Go(func() error {
		defer close(jobs)
		for current := 0; current < trials; current += d.batchSize {
			job := trialJob{start: current, end: min(current+d.batchSize, trials)}
			select {
			case jobs <- job:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	workers := min(d.workerCount, (trials+d.batchSize-1)/d.batchSize)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return work(gctx, jobs, evaluate)
		})
	}

	return g.Wait()
}

func work(ctx context.Context, jobs <-chan trialJob, evaluate func(i int)) (err error) {
	current := -1
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("trial %d: %w", current, e)
				return
			}
			err = fmt.Errorf("trial %d: %v", current, r)
		}
	}()

	for job := range jobs {
		for i := job.start; i < job.end; i++ {
			if ctx.Err() != nil {
				return nil
			}
			current = i
			evaluate(i)
		}
	}
	return nil
}

func withTimeout(ctx context.Context, timeoutMs int) (context.Context, context.CancelFunc) {
	if timeoutMs > 0 {
		return context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	}
	return context.WithCancel(ctx)
}

func meanStdDev(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}
