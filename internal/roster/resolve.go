package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// ResolveFormat looks name up among the built-in presets first and then in
// the store. A nil store only consults presets.
func ResolveFormat(ctx context.Context, s *Store, name string) (tennis.ScoringRules, error) {
	rules, err := tennis.ScoringPreset(name)
	if err == nil || s == nil {
		return rules, err
	}
	rec, ferr := s.GetFormat(ctx, name)
	if errors.Is(ferr, ErrNotFound) {
		return tennis.ScoringRules{}, fmt.Errorf("%w: %q", tennis.ErrUnknownPreset, name)
	}
	if ferr != nil {
		return tennis.ScoringRules{}, ferr
	}
	return rec.ScoringRules()
}

// ResolvePlayer loads a stored player by name.
func ResolvePlayer(ctx context.Context, s *Store, name string) (tennis.Player, error) {
	if s == nil {
		return tennis.Player{}, fmt.Errorf("player %q: %w", name, ErrNotFound)
	}
	rec, err := s.GetPlayer(ctx, name)
	if err != nil {
		return tennis.Player{}, err
	}
	return rec.Player()
}
