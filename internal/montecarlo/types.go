package montecarlo

import (
	"github.com/MJE43/tennis-sim-go/internal/engine"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// MaxTrials bounds a single request.
const MaxTrials = 10_000_000

// MatchRequest describes a batch of independent matches. Trial i draws from
// the stream (Seeds, NonceStart+i), so a request with explicit seeds always
// produces the same statistics.
type MatchRequest struct {
	PlayerOne  tennis.Player
	PlayerTwo  tennis.Player
	Rules      tennis.ScoringRules
	Model      tennis.PointModel
	Ties       tennis.TiePolicy
	Seeds      engine.Seeds
	NonceStart uint64
	Trials     int
	TimeoutMs  int
}

// PointRequest describes a batch of independent single points.
type PointRequest struct {
	PlayerOne  tennis.Player
	PlayerTwo  tennis.Player
	Model      tennis.PointModel
	Seeds      engine.Seeds
	NonceStart uint64
	Trials     int
	TimeoutMs  int
}

// MatchStats aggregates a MatchRequest. Trials counts completed matches,
// which is less than Requested only when TimedOut is set.
type MatchStats struct {
	Requested       int          `json:"requested"`
	Trials          int          `json:"trials"`
	PlayerOneWins   int          `json:"player_one_wins"`
	PlayerTwoWins   int          `json:"player_two_wins"`
	WinRate         float64      `json:"win_rate"`
	StraightSetsOne int          `json:"straight_sets_one"`
	StraightSetsTwo int          `json:"straight_sets_two"`
	MeanSets        float64      `json:"mean_sets"`
	StdDevSets      float64      `json:"std_dev_sets"`
	MeanGames       float64      `json:"mean_games"`
	StdDevGames     float64      `json:"std_dev_games"`
	Seeds           engine.Seeds `json:"seeds"`
	NonceStart      uint64       `json:"nonce_start"`
	TimedOut        bool         `json:"timed_out,omitempty"`
}

// PointStats aggregates a PointRequest. The three fractions sum to one.
type PointStats struct {
	Requested       int          `json:"requested"`
	Trials          int          `json:"trials"`
	PlayerOneScores int          `json:"player_one_scores"`
	PlayerTwoScores int          `json:"player_two_scores"`
	NoScore         int          `json:"no_score"`
	PlayerOneFrac   float64      `json:"player_one_frac"`
	PlayerTwoFrac   float64      `json:"player_two_frac"`
	NoScoreFrac     float64      `json:"no_score_frac"`
	Seeds           engine.Seeds `json:"seeds"`
	NonceStart      uint64       `json:"nonce_start"`
	TimedOut        bool         `json:"timed_out,omitempty"`
}

// trialJob is a half-open range of trial indices.
type trialJob struct {
	start int
	end   int
}
