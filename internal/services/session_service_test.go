package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/services"
	"github.com/seonu/drillforge/internal/session"
	"github.com/seonu/drillforge/internal/testutil/mocks"
)

func approvedScene(id string, limit int) models.Scene {
	scene := draftScene(id)
	scene.TimeLimitSeconds = limit
	scene.Approval.Status = models.StatusApproved
	return scene
}

func newSessionService(scenes []models.Scene) (services.SessionService, *session.ManualClock, *mocks.MockResultRepository) {
	sceneRepo := new(mocks.MockSceneRepository)
	sceneRepo.On("List", mock.Anything, models.SceneFilter{Status: models.StatusApproved}).Return(scenes, nil)
	resultRepo := new(mocks.MockResultRepository)
	clock := session.NewManualClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	return services.NewSessionService(sceneRepo, resultRepo, clock, time.Second), clock, resultRepo
}

func TestStartSession(t *testing.T) {
	svc, _, _ := newSessionService([]models.Scene{approvedScene("#1", 30)})

	state, err := svc.StartSession(context.Background(), "trainee-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"#1"}, state.OrderedSceneIDs)
	assert.NotEmpty(t, state.SessionID)
}

func TestStartSession_NoApprovedScenes(t *testing.T) {
	svc, _, _ := newSessionService(nil)

	_, err := svc.StartSession(context.Background(), "trainee-1")

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNoEligibleScenes))
}

func TestStartSession_AlreadyRunning(t *testing.T) {
	svc, _, _ := newSessionService([]models.Scene{approvedScene("#1", 30)})

	_, err := svc.StartSession(context.Background(), "trainee-1")
	require.NoError(t, err)

	_, err = svc.StartSession(context.Background(), "trainee-2")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func TestStartSession_ReplacesFinishedSession(t *testing.T) {
	svc, clock, resultRepo := newSessionService([]models.Scene{approvedScene("#1", 10)})
	resultRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.StartSession(context.Background(), "trainee-1")
	require.NoError(t, err)
	clock.Tick(10)
	_, _, err = svc.Advance(context.Background())
	require.NoError(t, err)

	state, err := svc.StartSession(context.Background(), "trainee-1")
	require.NoError(t, err)
	assert.NotEmpty(t, state.SessionID)
}

func TestSelectOptionAndAdvance_PersistsResult(t *testing.T) {
	svc, clock, resultRepo := newSessionService([]models.Scene{approvedScene("#1", 30)})
	resultRepo.On("Insert", mock.Anything, mock.MatchedBy(func(r models.TrainingResult) bool {
		return r.TraineeID == "trainee-1" && r.ResultID != "" && len(r.Details) == 1
	})).Return(nil)

	_, err := svc.StartSession(context.Background(), "trainee-1")
	require.NoError(t, err)

	clock.Tick(5)
	status, err := svc.SelectOption(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, session.StateAnswered, status.State)

	status, result, err := svc.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StateCompleted, status.State)
	require.NotNil(t, result)
	assert.Equal(t, "trainee-1", result.TraineeID)
	resultRepo.AssertExpectations(t)
}

func TestAdvance_NoActiveSession(t *testing.T) {
	svc, _, _ := newSessionService(nil)

	_, _, err := svc.Advance(context.Background())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func TestAbandonSession_StoresNothing(t *testing.T) {
	svc, _, resultRepo := newSessionService([]models.Scene{approvedScene("#1", 30)})

	_, err := svc.StartSession(context.Background(), "trainee-1")
	require.NoError(t, err)

	require.NoError(t, svc.AbandonSession(context.Background()))
	resultRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StateAbandoned, status.State)
}

func TestGetResult(t *testing.T) {
	sceneRepo := new(mocks.MockSceneRepository)
	resultRepo := new(mocks.MockResultRepository)
	clock := session.NewManualClock(time.Now())
	svc := services.NewSessionService(sceneRepo, resultRepo, clock, time.Second)

	stored := models.TrainingResult{ResultID: "r1", TraineeID: "trainee-1", TotalScore: 88}
	resultRepo.On("Get", mock.Anything, "r1").Return(&stored, nil)
	resultRepo.On("Get", mock.Anything, "missing").Return(nil, nil)

	got, err := svc.GetResult(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 88, got.TotalScore)

	_, err = svc.GetResult(context.Background(), "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestListResults(t *testing.T) {
	sceneRepo := new(mocks.MockSceneRepository)
	resultRepo := new(mocks.MockResultRepository)
	svc := services.NewSessionService(sceneRepo, resultRepo, session.NewManualClock(time.Now()), time.Second)

	resultRepo.On("ListByTrainee", mock.Anything, "trainee-1", 10, 0).
		Return([]models.TrainingResult{{ResultID: "r1"}, {ResultID: "r2"}}, nil)

	results, err := svc.ListResults(context.Background(), "trainee-1", 10, 0)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}
