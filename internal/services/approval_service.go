package services

import (
	"context"
	"time"

	"github.com/seonu/drillforge/internal/approval"
	"github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/repository"
	"github.com/seonu/drillforge/internal/scenario"
)

// ApprovalService handles the review workflow around scenes
type ApprovalService interface {
	SubmitForReview(ctx context.Context, sceneID string, actor models.Actor) (*models.Scene, error)
	ApproveScene(ctx context.Context, sceneID string, actor models.Actor) (*models.Scene, error)
	RejectScene(ctx context.Context, sceneID string, actor models.Actor, reason string) (*models.Scene, error)
}

type approvalService struct {
	sceneRepo repository.SceneRepository
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(sceneRepo repository.SceneRepository) ApprovalService {
	return &approvalService{sceneRepo: sceneRepo}
}

// SubmitForReview moves a draft to pending. The scene must be complete:
// non-empty script text and no blocking findings against the current
// graph. Warnings such as dangling references do not block submission.
func (s *approvalService) SubmitForReview(ctx context.Context, sceneID string, actor models.Actor) (*models.Scene, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting scene for review: scene_id=%s, actor=%s", sceneID, actor.ID)

	scene, err := s.loadScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	scenes, err := s.sceneRepo.List(ctx, models.SceneFilter{})
	if err != nil {
		log.Error("failed to list scenes for submission check: %v", err)
		return nil, errors.NewInternalError(err)
	}
	graph := scenario.Validate(scenes)

	updated, err := approval.Submit(*scene, graph)
	if err != nil {
		log.Debug("submission refused: scene_id=%s: %v", sceneID, err)
		return nil, err
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	log.Info("scene submitted for review: scene_id=%s", sceneID)
	return &updated, nil
}

func (s *approvalService) ApproveScene(ctx context.Context, sceneID string, actor models.Actor) (*models.Scene, error) {
	log := logger.FromContext(ctx)
	log.Debug("approving scene: scene_id=%s, actor=%s", sceneID, actor.ID)

	scene, err := s.loadScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	updated, err := approval.Approve(*scene, actor, time.Now().UTC())
	if err != nil {
		log.Debug("approval refused: scene_id=%s: %v", sceneID, err)
		return nil, err
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	log.Info("scene approved: scene_id=%s, approved_by=%s", sceneID, actor.ID)
	return &updated, nil
}

func (s *approvalService) RejectScene(ctx context.Context, sceneID string, actor models.Actor, reason string) (*models.Scene, error) {
	log := logger.FromContext(ctx)
	log.Debug("rejecting scene: scene_id=%s, actor=%s", sceneID, actor.ID)

	scene, err := s.loadScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	updated, err := approval.Reject(*scene, actor, reason)
	if err != nil {
		log.Debug("rejection refused: scene_id=%s: %v", sceneID, err)
		return nil, err
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	log.Info("scene rejected: scene_id=%s, rejected_by=%s", sceneID, actor.ID)
	return &updated, nil
}

func (s *approvalService) loadScene(ctx context.Context, sceneID string) (*models.Scene, error) {
	log := logger.FromContext(ctx)

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

func (s *approvalService) persist(ctx context.Context, scene models.Scene) error {
	log := logger.FromContext(ctx)

	scene.UpdatedAt = time.Now().UTC()
	if err := s.sceneRepo.Update(ctx, scene); err != nil {
		log.Error("failed to persist approval change: scene_id=%s: %v", scene.SceneID, err)
		return errors.NewInternalError(err)
	}
	return nil
}
