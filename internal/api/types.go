package api

import (
	"github.com/shopspring/decimal"

	"github.com/MJE43/tennis-sim-go/internal/engine"
	"github.com/MJE43/tennis-sim-go/internal/montecarlo"
	"github.com/MJE43/tennis-sim-go/internal/roster"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types
const (
	ErrTypeValidation         = "validation_error"
	ErrTypeInvalidSeed        = "invalid_seed"
	ErrTypeUnknownPreset      = "unknown_preset"
	ErrTypeNotFound           = "not_found"
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory groups error types for logging
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryRoster     ErrorCategory = "roster"
	CategorySystem     ErrorCategory = "system"
	CategoryTimeout    ErrorCategory = "timeout"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidSeed, ErrTypeUnknownPreset:
		return CategoryValidation
	case ErrTypeNotFound:
		return CategoryRoster
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains engine version information
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit,omitempty"`
	BuildTime     string `json:"build_time,omitempty"`
}

// PlayerSpec names a player inline (name + skill) or by roster name (skill
// omitted).
type PlayerSpec struct {
	Name  string   `json:"name"`
	Skill *float64 `json:"skill,omitempty"`
}

// MatchSetup is shared by match simulations and replays. Rules, when given,
// take precedence over Format.
type MatchSetup struct {
	PlayerOne PlayerSpec          `json:"player_one"`
	PlayerTwo PlayerSpec          `json:"player_two"`
	Format    string              `json:"format,omitempty"`
	Rules     *tennis.RulesConfig `json:"rules,omitempty"`
	Model     string              `json:"model,omitempty"`
	TiePolicy string              `json:"tie_policy,omitempty"`
	Seeds     engine.Seeds        `json:"seeds"`
}

// MatchSimulationRequest asks for a Monte Carlo win-rate estimate
type MatchSimulationRequest struct {
	MatchSetup
	NonceStart uint64 `json:"nonce_start"`
	Trials     int    `json:"trials,omitempty"`
	TimeoutMs  int    `json:"timeout_ms,omitempty"`
}

// MatchSimulationResponse carries the statistics plus two-place percentages
type MatchSimulationResponse struct {
	ID               string                 `json:"id"`
	PlayerOne        tennis.Player          `json:"player_one"`
	PlayerTwo        tennis.Player          `json:"player_two"`
	Rules            tennis.ScoringRules    `json:"rules"`
	Model            tennis.PointModel      `json:"model"`
	Stats            *montecarlo.MatchStats `json:"stats"`
	PlayerOnePercent decimal.Decimal        `json:"player_one_percent"`
	PlayerTwoPercent decimal.Decimal        `json:"player_two_percent"`
	EngineVersion    string                 `json:"engine_version"`
}

// PointSimulationRequest asks for the outcome distribution of single points
type PointSimulationRequest struct {
	PlayerOne  PlayerSpec   `json:"player_one"`
	PlayerTwo  PlayerSpec   `json:"player_two"`
	Model      string       `json:"model,omitempty"`
	Seeds      engine.Seeds `json:"seeds"`
	NonceStart uint64       `json:"nonce_start"`
	Trials     int          `json:"trials,omitempty"`
	TimeoutMs  int          `json:"timeout_ms,omitempty"`
}

// PointSimulationResponse carries the outcome counts plus percentages
type PointSimulationResponse struct {
	ID               string                 `json:"id"`
	PlayerOne        tennis.Player          `json:"player_one"`
	PlayerTwo        tennis.Player          `json:"player_two"`
	Model            tennis.PointModel      `json:"model"`
	Stats            *montecarlo.PointStats `json:"stats"`
	PlayerOnePercent decimal.Decimal        `json:"player_one_percent"`
	PlayerTwoPercent decimal.Decimal        `json:"player_two_percent"`
	NoScorePercent   decimal.Decimal        `json:"no_score_percent"`
	EngineVersion    string                 `json:"engine_version"`
}

// MatchReplayRequest replays a single match; seeds are required
type MatchReplayRequest struct {
	MatchSetup
	Nonce     uint64 `json:"nonce"`
	WithGames bool   `json:"with_games,omitempty"`
}

// GameLine is one entry of a replay timeline
type GameLine struct {
	Set      int         `json:"set"`
	Winner   tennis.Side `json:"winner"`
	Points   string      `json:"points"`
	GamesOne int         `json:"games_one"`
	GamesTwo int         `json:"games_two"`
}

// MatchReplayResponse describes one played match
type MatchReplayResponse struct {
	PlayerOne     tennis.Player      `json:"player_one"`
	PlayerTwo     tennis.Player      `json:"player_two"`
	Winner        string             `json:"winner"`
	Score         string             `json:"score"`
	Match         tennis.MatchResult `json:"match"`
	Games         []GameLine         `json:"games,omitempty"`
	Seeds         engine.Seeds       `json:"seeds"`
	Nonce         uint64             `json:"nonce"`
	EngineVersion string             `json:"engine_version"`
}

// PresetsResponse lists the built-in scoring formats and point models
type PresetsResponse struct {
	Formats       map[string]tennis.ScoringRules `json:"formats"`
	Models        map[string]tennis.PointModel   `json:"models"`
	TiePolicies   []string                       `json:"tie_policies"`
	EngineVersion string                         `json:"engine_version"`
}

// PlayerBody is the PUT /players/{name} payload
type PlayerBody struct {
	Skill float64 `json:"skill"`
	Notes string  `json:"notes,omitempty"`
}

// PlayersResponse lists stored players
type PlayersResponse struct {
	Players []roster.PlayerRecord `json:"players"`
}

// FormatsResponse lists stored formats
type FormatsResponse struct {
	Formats []roster.FormatRecord `json:"formats"`
}
