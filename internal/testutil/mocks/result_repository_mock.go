package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/seonu/drillforge/internal/models"
)

// MockResultRepository is a mock implementation of repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Insert(ctx context.Context, result models.TrainingResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) Get(ctx context.Context, resultID string) (*models.TrainingResult, error) {
	args := m.Called(ctx, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingResult), args.Error(1)
}

func (m *MockResultRepository) ListByTrainee(ctx context.Context, traineeID string, limit, offset int) ([]models.TrainingResult, error) {
	args := m.Called(ctx, traineeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrainingResult), args.Error(1)
}
