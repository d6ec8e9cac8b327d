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

var admin = models.Actor{ID: "admin-1", Role: models.RoleAdmin}

func TestSubmitForReview(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewApprovalService(repo)

	scene := draftScene("#1")
	repo.On("Get", mock.Anything, "#1").Return(&scene, nil)
	repo.On("List", mock.Anything, models.SceneFilter{}).Return([]models.Scene{scene}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s models.Scene) bool {
		return s.Approval.Status == models.StatusPending
	})).Return(nil)

	updated, err := svc.SubmitForReview(context.Background(), "#1", author)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Approval.Status)
	repo.AssertExpectations(t)
}

func TestSubmitForReview_IncompleteScene(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewApprovalService(repo)

	scene := draftScene("#1")
	scene.ScriptText = "   "
	repo.On("Get", mock.Anything, "#1").Return(&scene, nil)
	repo.On("List", mock.Anything, models.SceneFilter{}).Return([]models.Scene{scene}, nil)

	_, err := svc.SubmitForReview(context.Background(), "#1", author)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIncompleteScene))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSubmitForReview_GraphErrorsBlock(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewApprovalService(repo)

	// Non-ending scene with no options and no linear successor fails
	// graph validation, which blocks submission.
	scene := draftScene("#1")
	scene.Options = nil
	repo.On("Get", mock.Anything, "#1").Return(&scene, nil)
	repo.On("List", mock.Anything, models.SceneFilter{}).Return([]models.Scene{scene}, nil)

	_, err := svc.SubmitForReview(context.Background(), "#1", author)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIncompleteScene))
}

func TestApproveScene(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewApprovalService(repo)

	scene := draftScene("#1")
	scene.Approval.Status = models.StatusPending
	repo.On("Get", mock.Anything, "#1").Return(&scene, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s models.Scene) bool {
		return s.Approval.Status == models.StatusApproved &&
			s.Approval.ApprovedBy == "admin-1" &&
			s.Approval.ApprovedAt != nil
	})).Return(nil)

	updated, err := svc.ApproveScene(context.Background(), "#1", admin)

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Approval.Status)
	repo.AssertExpectations(t)
}

func TestApproveScene_AuthorForbidden(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewApprovalService(repo)

	scene := draftScene("#1")
	scene.Approval.Status = models.StatusPending
	repo.On("Get", mock.Anything, "#1").Return(&scene, nil)

	_, err := svc.ApproveScene(context.Background(), "#1", author)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForbidden))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRejectScene(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewApprovalService(repo)

	scene := draftScene("#1")
	scene.Approval.Status = models.StatusPending
	repo.On("Get", mock.Anything, "#1").Return(&scene, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s models.Scene) bool {
		return s.Approval.Status == models.StatusRejected &&
			s.Approval.RejectionReason == "script needs work"
	})).Return(nil)

	updated, err := svc.RejectScene(context.Background(), "#1", admin, "script needs work")

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Approval.Status)
	repo.AssertExpectations(t)
}

func TestRejectScene_MissingReason(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewApprovalService(repo)

	scene := draftScene("#1")
	scene.Approval.Status = models.StatusPending
	repo.On("Get", mock.Anything, "#1").Return(&scene, nil)

	_, err := svc.RejectScene(context.Background(), "#1", admin, "  ")

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMissingReason))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApprovalFlow_NotFound(t *testing.T) {
	repo := new(mocks.MockSceneRepository)
	svc := services.NewApprovalService(repo)

	repo.On("Get", mock.Anything, "#missing").Return(nil, nil)

	_, err := svc.SubmitForReview(context.Background(), "#missing", author)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	_, err = svc.ApproveScene(context.Background(), "#missing", admin)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	_, err = svc.RejectScene(context.Background(), "#missing", admin, "reason")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}
