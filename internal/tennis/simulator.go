package tennis

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedTie is the panic value raised under TieStrict when a
	// winner has to be chosen between equal counts.
	ErrUnexpectedTie    = errors.New("winner requested on equal counts")
	ErrUnknownTiePolicy = errors.New("unknown tie policy")
)

// TiePolicy decides what happens when a game or set comparison is level.
// The loop conditions make a level finish impossible for valid rules, so the
// policy only matters if that assumption is ever broken.
type TiePolicy int

const (
	// TieToPlayerTwo awards level comparisons to PlayerTwo.
	TieToPlayerTwo TiePolicy = iota
	// TieStrict panics with ErrUnexpectedTie instead.
	TieStrict
)

func (p TiePolicy) String() string {
	if p == TieStrict {
		return "strict"
	}
	return "player_two"
}

// ParseTiePolicy accepts "player_two" (or "") and "strict".
func ParseTiePolicy(s string) (TiePolicy, error) {
	switch s {
	case "", "player_two":
		return TieToPlayerTwo, nil
	case "strict":
		return TieStrict, nil
	default:
		return TieToPlayerTwo, fmt.Errorf("%w: %q", ErrUnknownTiePolicy, s)
	}
}

// GameResult is the outcome of one game. Exchanges counts every resolved
// point, including those with no score.
type GameResult struct {
	Winner    Side `json:"winner"`
	PointsOne int  `json:"points_one"`
	PointsTwo int  `json:"points_two"`
	Exchanges int  `json:"exchanges"`
}

// SetResult is the final game count of one set.
type SetResult struct {
	GamesOne int `json:"games_one"`
	GamesTwo int `json:"games_two"`
}

// Winner compares the game counts; a level set goes to PlayerTwo.
func (s SetResult) Winner() Side {
	if s.GamesOne > s.GamesTwo {
		return PlayerOne
	}
	return PlayerTwo
}

func (s SetResult) String() string { return fmt.Sprintf("%d-%d", s.GamesOne, s.GamesTwo) }

// MatchResult is the outcome of one match.
type MatchResult struct {
	Winner  Side        `json:"winner"`
	Sets    []SetResult `json:"sets"`
	SetsOne int         `json:"sets_one"`
	SetsTwo int         `json:"sets_two"`
}

// Games returns the total number of games played.
func (m MatchResult) Games() int {
	n := 0
	for _, s := range m.Sets {
		n += s.GamesOne + s.GamesTwo
	}
	return n
}

// StraightSets reports whether the loser failed to take a set.
func (m MatchResult) StraightSets() bool {
	return m.SetsOne == 0 || m.SetsTwo == 0
}

// Simulator plays games, sets and matches under one set of rules. It holds
// no per-run state, so one Simulator may be used from many goroutines as long
// as each passes its own Source (and the Observer, if any, is safe for that).
type Simulator struct {
	rules    ScoringRules
	model    PointModel
	ties     TiePolicy
	observer Observer
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithPointModel overrides the default (tight) point model.
func WithPointModel(m PointModel) Option {
	return func(s *Simulator) { s.model = m }
}

// WithTiePolicy selects how level comparisons are settled.
func WithTiePolicy(p TiePolicy) Option {
	return func(s *Simulator) { s.ties = p }
}

// WithObserver registers a live-score observer.
func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observer = o }
}

// NewSimulator returns a simulator for rules.
func NewSimulator(rules ScoringRules, opts ...Option) (*Simulator, error) {
	if err := rules.cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		rules: rules,
		model: PointModelTight,
		ties:  TieToPlayerTwo,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.model.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulator) Rules() ScoringRules    { return s.rules }
func (s *Simulator) PointModel() PointModel { return s.model }
func (s *Simulator) TiePolicy() TiePolicy   { return s.ties }

// ResolvePoint plays one exchange with the simulator's point model.
func (s *Simulator) ResolvePoint(src Source, a, b Player) PointOutcome {
	return s.model.Resolve(src, a, b)
}

// PlayGame plays points until one side is past PointsToWinGame and leads by
// GamePointMargin. Exchanges without a score still consume randomness.
func (s *Simulator) PlayGame(src Source, a, b Player) GameResult {
	target := s.rules.cfg.PointsToWinGame
	margin := s.rules.cfg.GamePointMargin

	var g GameResult
	for (g.PointsOne <= target && g.PointsTwo <= target) || abs(g.PointsOne-g.PointsTwo) < margin {
		outcome := s.model.Resolve(src, a, b)
		switch outcome {
		case PlayerOneScores:
			g.PointsOne++
		case PlayerTwoScores:
			g.PointsTwo++
		}
		g.Exchanges++
		if s.observer != nil {
			s.observer.PointPlayed(PointEvent{
				Outcome:   outcome,
				PointsOne: g.PointsOne,
				PointsTwo: g.PointsTwo,
				Margin:    margin,
			})
		}
	}
	g.Winner = s.decide("game", g.PointsOne, g.PointsTwo)
	return g
}

// PlaySet plays games until one side has MinGamesToWinSet with a
// GameMarginToWinSet lead, or either side reaches MaxGamesInSet.
func (s *Simulator) PlaySet(src Source, a, b Player) SetResult {
	c := s.rules.cfg

	var set SetResult
	for (set.GamesOne < c.MinGamesToWinSet && set.GamesTwo < c.MinGamesToWinSet) ||
		(abs(set.GamesOne-set.GamesTwo) < c.GameMarginToWinSet &&
			set.GamesOne < c.MaxGamesInSet && set.GamesTwo < c.MaxGamesInSet) {
		game := s.PlayGame(src, a, b)
		if game.Winner == PlayerOne {
			set.GamesOne++
		} else {
			set.GamesTwo++
		}
		if s.observer != nil {
			s.observer.GameWon(GameEvent{Game: game, GamesOne: set.GamesOne, GamesTwo: set.GamesTwo})
		}
	}
	return set
}

// PlayMatch plays sets until one side has won SetsToWinMatch of them.
func (s *Simulator) PlayMatch(src Source, a, b Player) MatchResult {
	need := s.rules.cfg.SetsToWinMatch

	m := MatchResult{Sets: make([]SetResult, 0, 2*need-1)}
	for m.SetsOne < need && m.SetsTwo < need {
		set := s.PlaySet(src, a, b)
		m.Sets = append(m.Sets, set)
		if s.decide("set", set.GamesOne, set.GamesTwo) == PlayerOne {
			m.SetsOne++
		} else {
			m.SetsTwo++
		}
		if s.observer != nil {
			s.observer.SetWon(SetEvent{Number: len(m.Sets), Set: set, SetsOne: m.SetsOne, SetsTwo: m.SetsTwo})
		}
	}
	m.Winner = s.decide("match", m.SetsOne, m.SetsTwo)
	if s.observer != nil {
		s.observer.MatchWon(MatchEvent{PlayerOne: a, PlayerTwo: b, Match: m})
	}
	return m
}

func (s *Simulator) decide(level string, one, two int) Side {
	if one > two {
		return PlayerOne
	}
	if one == two && s.ties == TieStrict {
		panic(fmt.Errorf("%w: %s %d-%d", ErrUnexpectedTie, level, one, two))
	}
	return PlayerTwo
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
