package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
)

type startSessionRequest struct {
	TraineeID string `json:"traineeId"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.SessionService.StartSession(r.Context(), req.TraineeID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, state)
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.SessionService.Status(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

type selectOptionRequest struct {
	SceneIndex  int `json:"sceneIndex"`
	OptionIndex int `json:"optionIndex"`
}

func (s *Server) handleSelectOption(w http.ResponseWriter, r *http.Request) {
	var req selectOptionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	status, err := s.SessionService.SelectOption(r.Context(), req.SceneIndex, req.OptionIndex)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	status, result, err := s.SessionService.Advance(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	response := map[string]any{"status": status}
	if result != nil {
		log.Debug("session completed with result: result_id=%s", result.ResultID)
		response["result"] = result
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := s.SessionService.AbandonSession(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.SessionService.GetResult(r.Context(), chi.URLParam(r, "resultID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	traineeID := q.Get("traineeId")
	if traineeID == "" {
		handleError(w, r, errors.NewBadRequestError("traineeId query parameter is required"))
		return
	}

	limit := 50
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o > 0 {
		offset = o
	}

	results, err := s.SessionService.ListResults(r.Context(), traineeID, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if results == nil {
		results = []models.TrainingResult{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}
