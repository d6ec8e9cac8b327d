package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(actorMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/scenes", func(r chi.Router) {
		r.Get("/", s.handleListScenes)
		r.Post("/", s.handleCreateScene)
		r.Get("/validate", s.handleValidateGraph)
		r.Get("/audit", s.handleAuditReport)
		r.Get("/export", s.handleExportScenes)
		r.Post("/import", s.handleImportScenes)
		r.Get("/{sceneID}", s.handleGetScene)
		r.Put("/{sceneID}", s.handleUpdateScene)
		r.Delete("/{sceneID}", s.handleDeleteScene)
		r.Post("/{sceneID}/submit", s.handleSubmitScene)
		r.Post("/{sceneID}/approve", s.handleApproveScene)
		r.Post("/{sceneID}/reject", s.handleRejectScene)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleStartSession)
		r.Get("/current", s.handleSessionStatus)
		r.Post("/current/select", s.handleSelectOption)
		r.Post("/current/advance", s.handleAdvance)
		r.Post("/current/abandon", s.handleAbandonSession)
		r.Get("/events", s.handleSessionEvents)
	})

	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.handleListResults)
		r.Get("/{resultID}", s.handleGetResult)
	})

	return r
}
