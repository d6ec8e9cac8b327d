package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/seonu/drillforge/internal/approval"
	"github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/jobs"
	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/repository"
	"github.com/seonu/drillforge/internal/scenario"
)

// AuditReport is the cached outcome of a background graph audit.
type AuditReport struct {
	Result      scenario.ValidationResult `json:"result"`
	SceneCount  int                       `json:"sceneCount"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}

// SceneService handles scene authoring business logic
type SceneService interface {
	CreateScene(ctx context.Context, scene models.Scene, actor models.Actor) (*models.Scene, error)
	GetScene(ctx context.Context, sceneID string) (*models.Scene, error)
	ListScenes(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error)
	UpdateScene(ctx context.Context, sceneID string, scene models.Scene, actor models.Actor) (*models.Scene, error)
	DeleteScene(ctx context.Context, sceneID string) error
	ValidateGraph(ctx context.Context) (scenario.ValidationResult, error)
	AuditGraph(ctx context.Context) error
	AuditReport(ctx context.Context) (*AuditReport, error)
}

type sceneService struct {
	sceneRepo repository.SceneRepository
	queue     jobs.JobQueue

	mu     sync.RWMutex
	report *AuditReport
}

// NewSceneService creates a new SceneService. The job queue may be set
// later through SetJobQueue to break the construction cycle with the
// worker queue.
func NewSceneService(sceneRepo repository.SceneRepository) *sceneService {
	return &sceneService{sceneRepo: sceneRepo}
}

// SetJobQueue wires the background queue used for graph audits.
func (s *sceneService) SetJobQueue(queue jobs.JobQueue) {
	s.queue = queue
}

func (s *sceneService) CreateScene(ctx context.Context, scene models.Scene, actor models.Actor) (*models.Scene, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating scene: scene_id=%s, type=%s", scene.SceneID, scene.SceneType)

	if strings.TrimSpace(scene.SceneID) == "" {
		return nil, errors.NewValidationError("sceneId", "must not be empty")
	}
	if scene.SceneType == "" {
		return nil, errors.NewValidationError("sceneType", "must be one of disaster, training, ending")
	}

	existing, err := s.sceneRepo.Get(ctx, scene.SceneID)
	if err != nil {
		log.Error("failed to check for existing scene: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("scene already exists: " + scene.SceneID)
	}

	now := time.Now().UTC()
	scene.Approval = models.ApprovalRecord{Status: models.StatusDraft}
	scene.CreatedBy = actor.ID
	scene.CreatedAt = now
	scene.UpdatedAt = now
	if scene.Position == 0 {
		count, err := s.sceneRepo.Count(ctx, models.SceneFilter{})
		if err != nil {
			log.Error("failed to count scenes: %v", err)
			return nil, errors.NewInternalError(err)
		}
		scene.Position = count + 1
	}

	if err := s.sceneRepo.Insert(ctx, scene); err != nil {
		log.Error("failed to insert scene: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("scene created: scene_id=%s", scene.SceneID)
	s.enqueueAudit(log)
	return &scene, nil
}

func (s *sceneService) GetScene(ctx context.Context, sceneID string) (*models.Scene, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting scene: scene_id=%s", sceneID)

	scene, err := s.sceneRepo.Get(ctx, sceneID)
	if err != nil {
		log.Error("failed to get scene: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if scene == nil {
		return nil, errors.NewNotFoundError("scene", sceneID)
	}
	return scene, nil
}

func (s *sceneService) ListScenes(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error) {
	log := logger.FromContext(ctx)

	scenes, err := s.sceneRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list scenes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return scenes, nil
}

// UpdateScene applies an edit. Editing an approved or rejected scene
// resets it to a clean draft, so republication goes through review
// again.
func (s *sceneService) UpdateScene(ctx context.Context, sceneID string, scene models.Scene, actor models.Actor) (*models.Scene, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating scene: scene_id=%s", sceneID)

	existing, err := s.sceneRepo.Get(ctx, sceneID)
	if err != nil {
		log.Error("failed to get scene: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("scene", sceneID)
	}

	updated := *existing
	updated.SceneType = scene.SceneType
	updated.DisasterType = scene.DisasterType
	updated.Difficulty = scene.Difficulty
	updated.TimeLimitSeconds = scene.TimeLimitSeconds
	updated.ScriptText = scene.ScriptText
	updated.Options = scene.Options
	updated.NextSceneID = scene.NextSceneID
	if scene.Position != 0 {
		updated.Position = scene.Position
	}
	updated.Approval = approval.ResetOnEdit(existing.Approval)
	updated.UpdatedAt = time.Now().UTC()

	if err := s.sceneRepo.Update(ctx, updated); err != nil {
		log.Error("failed to update scene: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if existing.Approval.Status != updated.Approval.Status {
		log.Info("scene edit reset approval: scene_id=%s, %s -> %s",
			sceneID, existing.Approval.Status, updated.Approval.Status)
	}
	s.enqueueAudit(log)
	return &updated, nil
}

// DeleteScene removes the scene and clears every inbound reference so
// remaining scenes never point at a missing id.
func (s *sceneService) DeleteScene(ctx context.Context, sceneID string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting scene: scene_id=%s", sceneID)

	existing, err := s.sceneRepo.Get(ctx, sceneID)
	if err != nil {
		log.Error("failed to get scene: %v", err)
		return errors.NewInternalError(err)
	}
	if existing == nil {
		return errors.NewNotFoundError("scene", sceneID)
	}

	if err := s.sceneRepo.Delete(ctx, sceneID); err != nil {
		log.Error("failed to delete scene: %v", err)
		return errors.NewInternalError(err)
	}

	cleared, err := s.sceneRepo.ClearLinearReferences(ctx, sceneID)
	if err != nil {
		log.Error("failed to clear linear references: %v", err)
		return errors.NewInternalError(err)
	}

	// Choice edges live inside the options JSON, so they are rewritten
	// scene by scene.
	scenes, err := s.sceneRepo.List(ctx, models.SceneFilter{})
	if err != nil {
		log.Error("failed to list scenes for reference cleanup: %v", err)
		return errors.NewInternalError(err)
	}
	for _, scene := range scenes {
		changed := false
		for i := range scene.Options {
			if scene.Options[i].NextSceneID == sceneID {
				scene.Options[i].NextSceneID = ""
				changed = true
			}
		}
		if !changed {
			continue
		}
		scene.UpdatedAt = time.Now().UTC()
		if err := s.sceneRepo.Update(ctx, scene); err != nil {
			log.Error("failed to clear choice reference: scene_id=%s: %v", scene.SceneID, err)
			return errors.NewInternalError(err)
		}
		cleared++
	}

	log.Info("scene deleted: scene_id=%s, cleared %d inbound references", sceneID, cleared)
	s.enqueueAudit(log)
	return nil
}

func (s *sceneService) ValidateGraph(ctx context.Context) (scenario.ValidationResult, error) {
	log := logger.FromContext(ctx)

	scenes, err := s.sceneRepo.List(ctx, models.SceneFilter{})
	if err != nil {
		log.Error("failed to list scenes for validation: %v", err)
		return scenario.ValidationResult{}, errors.NewInternalError(err)
	}

	result := scenario.Validate(scenes)
	log.Debug("graph validated: %d scenes, %d errors, %d warnings",
		len(scenes), len(result.Errors), len(result.Warnings))
	return result, nil
}

// AuditGraph revalidates the collection and refreshes the cached
// report. It runs on the worker pool after every authoring change.
func (s *sceneService) AuditGraph(ctx context.Context) error {
	log := logger.FromContext(ctx)

	scenes, err := s.sceneRepo.List(ctx, models.SceneFilter{})
	if err != nil {
		log.Error("graph audit failed to list scenes: %v", err)
		return err
	}

	result := scenario.Validate(scenes)
	for _, w := range result.Warnings {
		log.Warn("graph audit warning: scene_id=%s, field=%s: %s", w.SceneID, w.Field, w.Message)
	}
	for _, e := range result.Errors {
		log.Warn("graph audit error: scene_id=%s, field=%s: %s", e.SceneID, e.Field, e.Message)
	}

	s.mu.Lock()
	s.report = &AuditReport{
		Result:      result,
		SceneCount:  len(scenes),
		GeneratedAt: time.Now().UTC(),
	}
	s.mu.Unlock()

	log.Info("graph audit complete: %d scenes, %d errors, %d warnings",
		len(scenes), len(result.Errors), len(result.Warnings))
	return nil
}

// AuditReport returns the latest cached audit, computing one on demand
// when no background audit has run yet.
func (s *sceneService) AuditReport(ctx context.Context) (*AuditReport, error) {
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()
	if report != nil {
		return report, nil
	}

	if err := s.AuditGraph(ctx); err != nil {
		return nil, errors.NewInternalError(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, nil
}

func (s *sceneService) enqueueAudit(log *logger.Logger) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueGraphAudit(); err != nil {
		log.Warn("failed to enqueue graph audit: %v", err)
	}
}
