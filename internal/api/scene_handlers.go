package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
)

func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.SceneFilter{
		Status:       models.ApprovalStatus(q.Get("status")),
		SceneType:    models.SceneType(q.Get("sceneType")),
		DisasterType: q.Get("disasterType"),
		Difficulty:   q.Get("difficulty"),
		CreatedBy:    q.Get("createdBy"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	scenes, err := s.SceneService.ListScenes(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if scenes == nil {
		scenes = []models.Scene{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"scenes": scenes,
		"count":  len(scenes),
	})
}

func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var scene models.Scene
	if err := decodeJSON(r, &scene); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.SceneService.CreateScene(r.Context(), scene, actorFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.SceneService.GetScene(r.Context(), chi.URLParam(r, "sceneID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, scene)
}

func (s *Server) handleUpdateScene(w http.ResponseWriter, r *http.Request) {
	var scene models.Scene
	if err := decodeJSON(r, &scene); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.SceneService.UpdateScene(r.Context(), chi.URLParam(r, "sceneID"), scene, actorFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.SceneService.DeleteScene(r.Context(), chi.URLParam(r, "sceneID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleValidateGraph(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("validating scene graph")

	result, err := s.SceneService.ValidateGraph(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"valid":    result.Valid(),
		"errors":   result.Errors,
		"warnings": result.Warnings,
	})
}

func (s *Server) handleAuditReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.SceneService.AuditReport(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}
