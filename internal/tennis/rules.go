package tennis

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidRule is returned when a scoring rule field is not usable.
	ErrInvalidRule = errors.New("invalid scoring rule")
	// ErrUnknownPreset is returned for preset names that are not registered.
	ErrUnknownPreset = errors.New("unknown preset")
)

// RulesConfig is the plain, serialisable form of ScoringRules.
type RulesConfig struct {
	PointsToWinGame    int `json:"points_to_win_game"`
	GamePointMargin    int `json:"game_point_margin"`
	MinGamesToWinSet   int `json:"min_games_to_win_set"`
	MaxGamesInSet      int `json:"max_games_in_set"`
	GameMarginToWinSet int `json:"game_margin_to_win_set"`
	SetsToWinMatch     int `json:"sets_to_win_match"`
}

// ScoringRules describes when games, sets and matches end. Values are only
// obtainable through NewScoringRules or RulesConfig.Build, so every instance
// in circulation is valid and may be shared freely.
type ScoringRules struct {
	cfg RulesConfig
}

// NewScoringRules builds rules in the conventional argument order:
// points per game, point margin, min games, max games, game margin, sets.
func NewScoringRules(pointsToWinGame, gamePointMargin, minGamesToWinSet, maxGamesInSet, gameMarginToWinSet, setsToWinMatch int) (ScoringRules, error) {
	return RulesConfig{
		PointsToWinGame:    pointsToWinGame,
		GamePointMargin:    gamePointMargin,
		MinGamesToWinSet:   minGamesToWinSet,
		MaxGamesInSet:      maxGamesInSet,
		GameMarginToWinSet: gameMarginToWinSet,
		SetsToWinMatch:     setsToWinMatch,
	}.Build()
}

// Validate reports the first unusable field.
func (c RulesConfig) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"points_to_win_game", c.PointsToWinGame},
		{"game_point_margin", c.GamePointMargin},
		{"min_games_to_win_set", c.MinGamesToWinSet},
		{"max_games_in_set", c.MaxGamesInSet},
		{"game_margin_to_win_set", c.GameMarginToWinSet},
		{"sets_to_win_match", c.SetsToWinMatch},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %d", ErrInvalidRule, f.name, f.value)
		}
	}
	if c.MaxGamesInSet < c.MinGamesToWinSet {
		return fmt.Errorf("%w: max_games_in_set (%d) below min_games_to_win_set (%d)",
			ErrInvalidRule, c.MaxGamesInSet, c.MinGamesToWinSet)
	}
	return nil
}

// Build validates the config and freezes it.
func (c RulesConfig) Build() (ScoringRules, error) {
	if err := c.Validate(); err != nil {
		return ScoringRules{}, err
	}
	return ScoringRules{cfg: c}, nil
}

func (r ScoringRules) Config() RulesConfig     { return r.cfg }
func (r ScoringRules) PointsToWinGame() int    { return r.cfg.PointsToWinGame }
func (r ScoringRules) GamePointMargin() int    { return r.cfg.GamePointMargin }
func (r ScoringRules) MinGamesToWinSet() int   { return r.cfg.MinGamesToWinSet }
func (r ScoringRules) MaxGamesInSet() int      { return r.cfg.MaxGamesInSet }
func (r ScoringRules) GameMarginToWinSet() int { return r.cfg.GameMarginToWinSet }
func (r ScoringRules) SetsToWinMatch() int     { return r.cfg.SetsToWinMatch }

// IsZero reports whether r was never built.
func (r ScoringRules) IsZero() bool { return r.cfg == RulesConfig{} }

func (r ScoringRules) String() string {
	c := r.cfg
	return fmt.Sprintf("rules(%d,%d,%d,%d,%d,%d)", c.PointsToWinGame, c.GamePointMargin,
		c.MinGamesToWinSet, c.MaxGamesInSet, c.GameMarginToWinSet, c.SetsToWinMatch)
}

func (r ScoringRules) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.cfg)
}

// Preset names for scoring formats.
const (
	FormatClassic     = "classic"
	FormatClassic3Set = "classic-3set"
	FormatShort       = "short"
)

var (
	// Classic is best of five sets with standard games and sets.
	Classic = mustRules(3, 2, 6, 7, 2, 3)
	// Classic3Set is the best of three variant.
	Classic3Set = mustRules(3, 2, 6, 7, 2, 2)
	// ShortFormat is a single long game, used to stress point resolution.
	ShortFormat = mustRules(100, 3, 1, 1, 1, 1)
)

var scoringPresets = map[string]ScoringRules{
	FormatClassic:     Classic,
	FormatClassic3Set: Classic3Set,
	FormatShort:       ShortFormat,
}

// ScoringPreset looks up a built-in format by name.
func ScoringPreset(name string) (ScoringRules, error) {
	r, ok := scoringPresets[name]
	if !ok {
		return ScoringRules{}, fmt.Errorf("%w: scoring format %q", ErrUnknownPreset, name)
	}
	return r, nil
}

// ScoringPresets returns a copy of the built-in formats.
func ScoringPresets() map[string]ScoringRules {
	out := make(map[string]ScoringRules, len(scoringPresets))
	for k, v := range scoringPresets {
		out[k] = v
	}
	return out
}

// ScoringPresetNames lists built-in formats in sorted order.
func ScoringPresetNames() []string {
	names := make([]string, 0, len(scoringPresets))
	for name := range scoringPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustRules(p, d, minG, maxG, gd, s int) ScoringRules {
	r, err := NewScoringRules(p, d, minG, maxG, gd, s)
	if err != nil {
		panic(err)
	}
	return r
}
