package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// GET /api/v1/players
func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.roster.ListPlayers(r.Context())
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PlayersResponse{Players: players})
}

// GET /api/v1/players/{name}
func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	rec, err := s.roster.GetPlayer(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// PUT /api/v1/players/{name}
func (s *Server) handlePutPlayer(w http.ResponseWriter, r *http.Request) {
	var body PlayerBody
	if err := decodeJSON(r, &body); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON: "+err.Error())
		return
	}
	p, err := tennis.NewPlayer(chi.URLParam(r, "name"), body.Skill)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	rec, err := s.roster.SavePlayer(r.Context(), p, body.Notes)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// DELETE /api/v1/players/{name}
func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := s.roster.DeletePlayer(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/formats
func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	formats, err := s.roster.ListFormats(r.Context())
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, FormatsResponse{Formats: formats})
}

// GET /api/v1/formats/{name}
func (s *Server) handleGetFormat(w http.ResponseWriter, r *http.Request) {
	rec, err := s.roster.GetFormat(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// PUT /api/v1/formats/{name}
func (s *Server) handlePutFormat(w http.ResponseWriter, r *http.Request) {
	var cfg tennis.RulesConfig
	if err := decodeJSON(r, &cfg); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON: "+err.Error())
		return
	}
	rules, err := cfg.Build()
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	rec, err := s.roster.SaveFormat(r.Context(), chi.URLParam(r, "name"), rules)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// DELETE /api/v1/formats/{name}
func (s *Server) handleDeleteFormat(w http.ResponseWriter, r *http.Request) {
	if err := s.roster.DeleteFormat(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
