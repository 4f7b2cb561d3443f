package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MJE43/tennis-sim-go/internal/engine"
	"github.com/MJE43/tennis-sim-go/internal/montecarlo"
	"github.com/MJE43/tennis-sim-go/internal/roster"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// ValidationError points at the offending request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// resolvePlayer builds an inline player or loads one from the roster
func (s *Server) resolvePlayer(ctx context.Context, field string, spec PlayerSpec) (tennis.Player, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return tennis.Player{}, fieldError(field+".name", "name is required")
	}
	if spec.Skill != nil {
		return tennis.NewPlayer(name, *spec.Skill)
	}
	return roster.ResolvePlayer(ctx, s.roster, name)
}

func (s *Server) resolveModel(name string) (tennis.PointModel, error) {
	if name == "" {
		name = s.opts.Model
	}
	return tennis.PointModelPreset(name)
}

// validateSeeds accepts an empty pair (random seeds) or a complete one
func validateSeeds(seeds engine.Seeds) error {
	if seeds == (engine.Seeds{}) {
		return nil
	}
	return seeds.Validate()
}

// resolveMatch turns a MatchSetup into a driver request without trial
// settings.
func (s *Server) resolveMatch(ctx context.Context, m MatchSetup) (montecarlo.MatchRequest, error) {
	one, err := s.resolvePlayer(ctx, "player_one", m.PlayerOne)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}
	two, err := s.resolvePlayer(ctx, "player_two", m.PlayerTwo)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}

	var rules tennis.ScoringRules
	if m.Rules != nil {
		rules, err = m.Rules.Build()
	} else {
		format := m.Format
		if format == "" {
			format = s.opts.Format
		}
		rules, err = roster.ResolveFormat(ctx, s.roster, format)
	}
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}

	model, err := s.resolveModel(m.Model)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}
	policy := m.TiePolicy
	if policy == "" {
		policy = s.opts.TiePolicy
	}
	ties, err := tennis.ParseTiePolicy(policy)
	if err != nil {
		return montecarlo.MatchRequest{}, err
	}
	if err := validateSeeds(m.Seeds); err != nil {
		return montecarlo.MatchRequest{}, err
	}

	return montecarlo.MatchRequest{
		PlayerOne: one,
		PlayerTwo: two,
		Rules:     rules,
		Model:     model,
		Ties:      ties,
		Seeds:     m.Seeds,
	}, nil
}

func (s *Server) trialSettings(trials, timeoutMs int) (int, int, error) {
	if trials < 0 {
		return 0, 0, fieldError("trials", "must be >= 1")
	}
	if trials == 0 {
		trials = s.opts.DefaultTrials
	}
	if timeoutMs < 0 {
		return 0, 0, fieldError("timeout_ms", "must be >= 0")
	}
	if timeoutMs == 0 {
		timeoutMs = s.opts.TimeoutMs
	}
	return trials, timeoutMs, nil
}

var hundred = decimal.NewFromInt(100)

// percent renders part/total as a percentage rounded to two places
func percent(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

func asValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}
	return ve, true
}
