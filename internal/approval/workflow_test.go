package approval_test

import (
	"testing"
	"time"

	"github.com/seonu/drillforge/internal/approval"
	apperrors "github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
var author = models.Actor{ID: "author-1", Role: models.RoleAuthor}

func draftScene() models.Scene {
	return models.Scene{
		SceneID:          "#1-1",
		SceneType:        models.SceneTypeDisaster,
		TimeLimitSeconds: 30,
		ScriptText:       "an earthquake hits the building",
		Options: []models.Choice{
			{AnswerText: "take cover", Points: models.ChoicePoints{Speed: 60, Accuracy: 90}},
		},
		Approval: models.ApprovalRecord{Status: models.StatusDraft},
	}
}

func cleanValidation(scenes ...models.Scene) scenario.ValidationResult {
	return scenario.Validate(scenes)
}

func TestSubmit_DraftToPending(t *testing.T) {
	s := draftScene()

	updated, err := approval.Submit(s, cleanValidation(s))

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Approval.Status)
}

func TestSubmit_EmptyScriptText(t *testing.T) {
	s := draftScene()
	s.ScriptText = "   "

	_, err := approval.Submit(s, cleanValidation(s))

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIncompleteScene))
	assert.Equal(t, models.StatusDraft, s.Approval.Status, "failed submit must not change state")
}

func TestSubmit_ValidationErrorsBlock(t *testing.T) {
	s := draftScene()
	s.TimeLimitSeconds = 5

	_, err := approval.Submit(s, cleanValidation(s))

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIncompleteScene))
}

func TestSubmit_WarningsDoNotBlock(t *testing.T) {
	s := draftScene()
	s.Options[0].NextSceneID = "#not-written-yet"

	res := cleanValidation(s)
	require.NotEmpty(t, res.Warnings)

	updated, err := approval.Submit(s, res)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Approval.Status)
}

func TestSubmit_OnlyFromDraft(t *testing.T) {
	for _, status := range []models.ApprovalStatus{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			s := draftScene()
			s.Approval.Status = status

			_, err := approval.Submit(s, cleanValidation(s))

			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
		})
	}
}

func TestApprove_PendingToApproved(t *testing.T) {
	s := draftScene()
	s.Approval.Status = models.StatusPending
	now := time.Now()

	updated, err := approval.Approve(s, admin, now)

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Approval.Status)
	assert.Equal(t, "admin-1", updated.Approval.ApprovedBy)
	require.NotNil(t, updated.Approval.ApprovedAt)
	assert.Equal(t, now, *updated.Approval.ApprovedAt)
	assert.Empty(t, updated.Approval.RejectionReason)
}

func TestApprove_RejectedOverride(t *testing.T) {
	s := draftScene()
	s.Approval = models.ApprovalRecord{
		Status:          models.StatusRejected,
		RejectionReason: "script too vague",
	}

	updated, err := approval.Approve(s, admin, time.Now())

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Approval.Status)
	assert.Empty(t, updated.Approval.RejectionReason, "override must clear the rejection reason")
}

func TestApprove_RequiresAdmin(t *testing.T) {
	s := draftScene()
	s.Approval.Status = models.StatusPending

	_, err := approval.Approve(s, author, time.Now())

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForbidden))
}

func TestApprove_DraftNotEligible(t *testing.T) {
	s := draftScene()

	_, err := approval.Approve(s, admin, time.Now())

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func TestReject_RequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   "} {
		s := draftScene()
		s.Approval.Status = models.StatusPending

		_, err := approval.Reject(s, admin, reason)

		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMissingReason))
		assert.Equal(t, models.StatusPending, s.Approval.Status, "failed reject must not change state")
	}
}

func TestReject_PendingToRejected(t *testing.T) {
	s := draftScene()
	s.Approval.Status = models.StatusPending

	updated, err := approval.Reject(s, admin, "unrealistic evacuation route")

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Approval.Status)
	assert.Equal(t, "unrealistic evacuation route", updated.Approval.RejectionReason)
	assert.Empty(t, updated.Approval.ApprovedBy)
	assert.Nil(t, updated.Approval.ApprovedAt)
}

func TestReject_RequiresAdmin(t *testing.T) {
	s := draftScene()
	s.Approval.Status = models.StatusPending

	_, err := approval.Reject(s, author, "some reason")

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForbidden))
}

func TestResetOnEdit(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		record models.ApprovalRecord
		want   models.ApprovalRecord
	}{
		{
			name: "approved resets to clean draft",
			record: models.ApprovalRecord{
				Status:     models.StatusApproved,
				ApprovedBy: "admin-1",
				ApprovedAt: &now,
			},
			want: models.ApprovalRecord{Status: models.StatusDraft},
		},
		{
			name: "rejected resets and clears reason",
			record: models.ApprovalRecord{
				Status:          models.StatusRejected,
				RejectionReason: "too short",
			},
			want: models.ApprovalRecord{Status: models.StatusDraft},
		},
		{
			name:   "draft passes through",
			record: models.ApprovalRecord{Status: models.StatusDraft},
			want:   models.ApprovalRecord{Status: models.StatusDraft},
		},
		{
			name:   "pending passes through",
			record: models.ApprovalRecord{Status: models.StatusPending},
			want:   models.ApprovalRecord{Status: models.StatusPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, approval.ResetOnEdit(tt.record))
		})
	}
}
