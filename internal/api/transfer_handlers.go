package api

import (
	"io"
	"net/http"

	"github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/logger"
)

func (s *Server) handleExportScenes(w http.ResponseWriter, r *http.Request) {
	data, err := s.TransferService.ExportScenes(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="scenes.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to write export: %v", err)
	}
}

func (s *Server) handleImportScenes(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.MaxImportBytes
	if maxBytes <= 0 {
		maxBytes = 4 << 20
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read import body: "+err.Error()))
		return
	}

	count, err := s.TransferService.ImportScenes(r.Context(), data, actorFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"imported": count})
}
