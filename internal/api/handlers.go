package api

import (
	"github.com/seonu/drillforge/internal/services"
)

// Server bundles the HTTP handlers and their dependencies.
type Server struct {
	SceneService    services.SceneService
	ApprovalService services.ApprovalService
	SessionService  services.SessionService
	TransferService services.TransferService
	MaxImportBytes  int64
}
