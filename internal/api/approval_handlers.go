package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.ApprovalService.SubmitForReview(r.Context(), chi.URLParam(r, "sceneID"), actorFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, scene)
}

func (s *Server) handleApproveScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.ApprovalService.ApproveScene(r.Context(), chi.URLParam(r, "sceneID"), actorFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, scene)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleRejectScene(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	scene, err := s.ApprovalService.RejectScene(r.Context(), chi.URLParam(r, "sceneID"), actorFromContext(r.Context()), req.Reason)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, scene)
}
