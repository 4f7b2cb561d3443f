package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/MJE43/tennis-sim-go/internal/montecarlo"
	"github.com/MJE43/tennis-sim-go/internal/scoreboard"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// handleMatchSimulation estimates the match win rate of player one
func (s *Server) handleMatchSimulation(w http.ResponseWriter, r *http.Request) {
	var req MatchSimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON: "+err.Error())
		return
	}

	mreq, err := s.resolveMatch(r.Context(), req.MatchSetup)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	mreq.NonceStart = req.NonceStart
	mreq.Trials, mreq.TimeoutMs, err = s.trialSettings(req.Trials, req.TimeoutMs)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	id := uuid.NewString()
	s.log.Info().
		Str("simulation_id", id).
		Str("player_one", mreq.PlayerOne.Name()).
		Str("player_two", mreq.PlayerTwo.Name()).
		Stringer("rules", mreq.Rules).
		Int("trials", mreq.Trials).
		Str("server_hash", hashSeed(mreq.Seeds.Server)).
		Str("client_hash", hashSeed(mreq.Seeds.Client)).
		Uint64("nonce_start", mreq.NonceStart).
		Msg("match simulation request")

	stats, err := s.driver.EstimateMatchWinRate(r.Context(), mreq)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, MatchSimulationResponse{
		ID:               id,
		PlayerOne:        mreq.PlayerOne,
		PlayerTwo:        mreq.PlayerTwo,
		Rules:            mreq.Rules,
		Model:            mreq.Model,
		Stats:            stats,
		PlayerOnePercent: percent(stats.PlayerOneWins, stats.Trials),
		PlayerTwoPercent: percent(stats.PlayerTwoWins, stats.Trials),
		EngineVersion:    EngineVersion,
	})
}

// handlePointSimulation estimates the single-point outcome distribution
func (s *Server) handlePointSimulation(w http.ResponseWriter, r *http.Request) {
	var req PointSimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON: "+err.Error())
		return
	}

	ctx := r.Context()
	one, err := s.resolvePlayer(ctx, "player_one", req.PlayerOne)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	two, err := s.resolvePlayer(ctx, "player_two", req.PlayerTwo)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	model, err := s.resolveModel(req.Model)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	if err := validateSeeds(req.Seeds); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	trials, timeoutMs, err := s.trialSettings(req.Trials, req.TimeoutMs)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	id := uuid.NewString()
	stats, err := s.driver.EstimatePointOutcomeDistribution(ctx, montecarlo.PointRequest{
		PlayerOne:  one,
		PlayerTwo:  two,
		Model:      model,
		Seeds:      req.Seeds,
		NonceStart: req.NonceStart,
		Trials:     trials,
		TimeoutMs:  timeoutMs,
	})
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	s.log.Info().
		Str("simulation_id", id).
		Int("trials", stats.Trials).
		Bool("timed_out", stats.TimedOut).
		Msg("point simulation completed")

	s.writeJSON(w, http.StatusOK, PointSimulationResponse{
		ID:               id,
		PlayerOne:        one,
		PlayerTwo:        two,
		Model:            model,
		Stats:            stats,
		PlayerOnePercent: percent(stats.PlayerOneScores, stats.Trials),
		PlayerTwoPercent: percent(stats.PlayerTwoScores, stats.Trials),
		NoScorePercent:   percent(stats.NoScore, stats.Trials),
		EngineVersion:    EngineVersion,
	})
}

// handleMatchReplay plays the single match identified by seeds and nonce
func (s *Server) handleMatchReplay(w http.ResponseWriter, r *http.Request) {
	var req MatchReplayRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON: "+err.Error())
		return
	}
	if err := req.Seeds.Validate(); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	mreq, err := s.resolveMatch(r.Context(), req.MatchSetup)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	var (
		observer tennis.Observer
		tl       *timeline
	)
	if req.WithGames {
		tl = &timeline{}
		observer = tl
	}
	match, err := montecarlo.ReplayMatch(mreq, req.Nonce, observer)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	winner := mreq.PlayerTwo
	if match.Winner == tennis.PlayerOne {
		winner = mreq.PlayerOne
	}
	resp := MatchReplayResponse{
		PlayerOne:     mreq.PlayerOne,
		PlayerTwo:     mreq.PlayerTwo,
		Winner:        winner.Name(),
		Score:         scoreboard.FormatSets(match.Sets),
		Match:         match,
		Seeds:         mreq.Seeds,
		Nonce:         req.Nonce,
		EngineVersion: EngineVersion,
	}
	if tl != nil {
		resp.Games = tl.games
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handlePresets lists built-in formats, point models and tie policies
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, PresetsResponse{
		Formats:       tennis.ScoringPresets(),
		Models:        tennis.PointModelPresets(),
		TiePolicies:   []string{tennis.TieToPlayerTwo.String(), tennis.TieStrict.String()},
		EngineVersion: EngineVersion,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GetVersionInfo())
}

// timeline records every game of a replayed match.
type timeline struct {
	tennis.NopObserver
	set   int
	games []GameLine
}

func (t *timeline) GameWon(e tennis.GameEvent) {
	t.games = append(t.games, GameLine{
		Set:      t.set + 1,
		Winner:   e.Game.Winner,
		Points:   fmt.Sprintf("%d-%d", e.Game.PointsOne, e.Game.PointsTwo),
		GamesOne: e.GamesOne,
		GamesTwo: e.GamesTwo,
	})
}

func (t *timeline) SetWon(e tennis.SetEvent) { t.set = e.Number }
