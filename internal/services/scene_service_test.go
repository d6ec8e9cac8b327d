package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/services"
	"github.com/seonu/drillforge/internal/testutil/mocks"
)

var author = models.Actor{ID: "author-1", Role: models.RoleAuthor}

func draftScene(id string) models.Scene {
	return models.Scene{
		SceneID:          id,
		SceneType:        models.SceneTypeDisaster,
		TimeLimitSeconds: 30,
		ScriptText:       "script",
		Options: []models.Choice{
			{AnswerText: "a", Points: models.ChoicePoints{Speed: 50, Accuracy: 80}},
		},
		Approval: models.ApprovalRecord{Status: models.StatusDraft},
		Position: 1,
	}
}

func TestCreateScene(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewSceneService(repo)
	svc.SetJobQueue(queue)

	repo.On("Get", mock.Anything, "#1").Return(nil, nil)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(s models.Scene) bool {
		return s.SceneID == "#1" &&
			s.Approval.Status == models.StatusDraft &&
			s.CreatedBy == "author-1" &&
			!s.CreatedAt.IsZero()
	})).Return(nil)
	queue.On("EnqueueGraphAudit").Return(nil)

	created, err := svc.CreateScene(context.Background(), draftScene("#1"), author)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, created.Approval.Status)
	repo.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestCreateScene_DuplicateID(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewSceneService(repo)

	existing := draftScene("#1")
	repo.On("Get", mock.Anything, "#1").Return(&existing, nil)

	_, err := svc.CreateScene(context.Background(), draftScene("#1"), author)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateScene_MissingID(t *testing.T) {
	svc := services.NewSceneService(new(mocks.MockSceneRepository))

	_, err := svc.CreateScene(context.Background(), models.Scene{SceneType: models.SceneTypeDisaster}, author)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestGetScene_NotFound(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewSceneService(repo)

	repo.On("Get", mock.Anything, "#missing").Return(nil, nil)

	_, err := svc.GetScene(context.Background(), "#missing")

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestUpdateScene_ResetsApprovedToDraft(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewSceneService(repo)
	svc.SetJobQueue(queue)

	existing := draftScene("#1")
	existing.Approval = models.ApprovalRecord{Status: models.StatusApproved, ApprovedBy: "admin-1"}
	repo.On("Get", mock.Anything, "#1").Return(&existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s models.Scene) bool {
		return s.Approval.Status == models.StatusDraft &&
			s.Approval.ApprovedBy == "" &&
			s.ScriptText == "edited"
	})).Return(nil)
	queue.On("EnqueueGraphAudit").Return(nil)

	edit := draftScene("#1")
	edit.ScriptText = "edited"
	updated, err := svc.UpdateScene(context.Background(), "#1", edit, author)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, updated.Approval.Status)
	repo.AssertExpectations(t)
}

func TestUpdateScene_DraftStaysDraft(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewSceneService(repo)

	existing := draftScene("#1")
	repo.On("Get", mock.Anything, "#1").Return(&existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.UpdateScene(context.Background(), "#1", draftScene("#1"), author)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, updated.Approval.Status)
}

func TestDeleteScene_ClearsInboundReferences(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	queue := new(mocks.MockJobQueue)
	svc := services.NewSceneService(repo)
	svc.SetJobQueue(queue)

	target := draftScene("#target")
	pointer := draftScene("#pointer")
	pointer.Options[0].NextSceneID = "#target"
	clean := draftScene("#clean")

	repo.On("Get", mock.Anything, "#target").Return(&target, nil)
	repo.On("Delete", mock.Anything, "#target").Return(nil)
	repo.On("ClearLinearReferences", mock.Anything, "#target").Return(1, nil)
	repo.On("List", mock.Anything, models.SceneFilter{}).Return([]models.Scene{pointer, clean}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s models.Scene) bool {
		return s.SceneID == "#pointer" && s.Options[0].NextSceneID == ""
	})).Return(nil)
	queue.On("EnqueueGraphAudit").Return(nil)

	err := svc.DeleteScene(context.Background(), "#target")

	require.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestDeleteScene_NotFound(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewSceneService(repo)

	repo.On("Get", mock.Anything, "#missing").Return(nil, nil)

	err := svc.DeleteScene(context.Background(), "#missing")

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestValidateGraph_ReportsDanglingReference(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewSceneService(repo)

	scene := draftScene("#1")
	scene.Options[0].NextSceneID = "#ghost"
	repo.On("List", mock.Anything, models.SceneFilter{}).Return([]models.Scene{scene}, nil)

	result, err := svc.ValidateGraph(context.Background())

	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Warnings)
}

func TestAuditReport_CachesResult(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewSceneService(repo)

	repo.On("List", mock.Anything, models.SceneFilter{}).Return([]models.Scene{draftScene("#1")}, nil).Once()

	first, err := svc.AuditReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.SceneCount)

	// Second call serves the cache, no further repository hit.
	second, err := svc.AuditReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.GeneratedAt, second.GeneratedAt)
	repo.AssertExpectations(t)
}
