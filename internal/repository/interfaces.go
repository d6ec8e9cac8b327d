package repository

import (
	"context"

	"github.com/seonu/drillforge/internal/models"
)

// SceneRepository handles scene persistence for the authoring side.
type SceneRepository interface {
	Get(ctx context.Context, sceneID string) (*models.Scene, error)
	List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error)
	Count(ctx context.Context, filter models.SceneFilter) (int, error)
	Insert(ctx context.Context, scene models.Scene) error
	Update(ctx context.Context, scene models.Scene) error
	Save(ctx context.Context, scene models.Scene) error
	Delete(ctx context.Context, sceneID string) error
	ClearLinearReferences(ctx context.Context, sceneID string) (int, error)
}

// ResultRepository handles completed training results.
type ResultRepository interface {
	Insert(ctx context.Context, result models.TrainingResult) error
	Get(ctx context.Context, resultID string) (*models.TrainingResult, error)
	ListByTrainee(ctx context.Context, traineeID string, limit, offset int) ([]models.TrainingResult, error)
}
