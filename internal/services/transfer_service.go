package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/jobs"
	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/repository"
)

// TransferService moves scene collections in and out as JSON files.
type TransferService interface {
	ExportScenes(ctx context.Context) ([]byte, error)
	ImportScenes(ctx context.Context, data []byte, actor models.Actor) (int, error)
}

type transferService struct {
	sceneRepo repository.SceneRepository
	queue     jobs.JobQueue
}

// NewTransferService creates a new TransferService
func NewTransferService(sceneRepo repository.SceneRepository, queue jobs.JobQueue) TransferService {
	return &transferService{sceneRepo: sceneRepo, queue: queue}
}

func (s *transferService) ExportScenes(ctx context.Context) ([]byte, error) {
	log := logger.FromContext(ctx)

	scenes, err := s.sceneRepo.List(ctx, models.SceneFilter{})
	if err != nil {
		log.Error("failed to list scenes for export: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if scenes == nil {
		scenes = []models.Scene{}
	}

	data, err := json.MarshalIndent(scenes, "", "  ")
	if err != nil {
		log.Error("failed to marshal scenes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("exported %d scenes", len(scenes))
	return data, nil
}

// ImportScenes loads a JSON array of scenes. Imported scenes always
// land as clean drafts regardless of what approval state the file
// claims, and existing scenes with the same id are overwritten.
// Unknown fields in the file are ignored.
func (s *transferService) ImportScenes(ctx context.Context, data []byte, actor models.Actor) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("importing scenes: %d bytes", len(data))

	var scenes []models.Scene
	if err := json.Unmarshal(data, &scenes); err != nil {
		log.Debug("import rejected, not a scene array: %v", err)
		return 0, errors.NewFormatError("expected a JSON array of scenes", err)
	}

	for i := range scenes {
		if strings.TrimSpace(scenes[i].SceneID) == "" {
			return 0, errors.NewFormatError(fmt.Sprintf("scene at index %d has no sceneId", i), nil)
		}
	}

	now := time.Now().UTC()
	for i := range scenes {
		scene := scenes[i]
		scene.Approval = models.ApprovalRecord{Status: models.StatusDraft}
		scene.CreatedBy = actor.ID
		scene.CreatedAt = now
		scene.UpdatedAt = now
		if scene.Position == 0 {
			scene.Position = i + 1
		}
		if err := s.sceneRepo.Save(ctx, scene); err != nil {
			log.Error("failed to save imported scene: scene_id=%s: %v", scene.SceneID, err)
			return 0, errors.NewInternalError(err)
		}
	}

	log.Info("imported %d scenes", len(scenes))
	if s.queue != nil {
		if err := s.queue.EnqueueGraphAudit(); err != nil {
			log.Warn("failed to enqueue graph audit after import: %v", err)
		}
	}
	return len(scenes), nil
}
