package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/seonu/drillforge/internal/models"
)

// MockSceneRepository is a mock implementation of repository.SceneRepository
type MockSceneRepository struct {
	mock.Mock
}

func (m *MockSceneRepository) Get(ctx context.Context, sceneID string) (*models.Scene, error) {
	args := m.Called(ctx, sceneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scene), args.Error(1)
}

func (m *MockSceneRepository) List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Scene), args.Error(1)
}

func (m *MockSceneRepository) Count(ctx context.Context, filter models.SceneFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockSceneRepository) Insert(ctx context.Context, scene models.Scene) error {
	args := m.Called(ctx, scene)
	return args.Error(0)
}

func (m *MockSceneRepository) Update(ctx context.Context, scene models.Scene) error {
	args := m.Called(ctx, scene)
	return args.Error(0)
}

func (m *MockSceneRepository) Save(ctx context.Context, scene models.Scene) error {
	args := m.Called(ctx, scene)
	return args.Error(0)
}

func (m *MockSceneRepository) Delete(ctx context.Context, sceneID string) error {
	args := m.Called(ctx, sceneID)
	return args.Error(0)
}

func (m *MockSceneRepository) ClearLinearReferences(ctx context.Context, sceneID string) (int, error) {
	args := m.Called(ctx, sceneID)
	return args.Int(0), args.Error(1)
}
