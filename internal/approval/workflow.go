// Package approval implements the publication state machine for
// scenes: draft -> pending -> approved | rejected. There is no
// absorbing state; approved and rejected scenes drop back to draft the
// moment they are edited.
package approval

import (
	"strings"
	"time"

	"github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/scenario"
)

// Submit moves a draft scene into review. The scene must have script
// text and no blocking validation findings; warnings are allowed.
func Submit(scene models.Scene, graph scenario.ValidationResult) (models.Scene, error) {
	if scene.Approval.Status != models.StatusDraft {
		return scene, errors.NewConflictError("only draft scenes can be submitted for review")
	}
	if strings.TrimSpace(scene.ScriptText) == "" {
		return scene, errors.NewIncompleteSceneError(scene.SceneID, "script text is empty")
	}
	if findings := graph.ErrorsFor(scene.SceneID); len(findings) > 0 {
		return scene, errors.NewIncompleteSceneError(scene.SceneID, findings[0].Message)
	}

	scene.Approval.Status = models.StatusPending
	return scene, nil
}

// Approve marks a pending scene as approved. Rejected scenes may also
// be approved directly; that is the human-override path, with the same
// postconditions. Admin only.
func Approve(scene models.Scene, actor models.Actor, now time.Time) (models.Scene, error) {
	if actor.Role != models.RoleAdmin {
		return scene, errors.NewForbiddenError("approve")
	}
	switch scene.Approval.Status {
	case models.StatusPending, models.StatusRejected:
	default:
		return scene, errors.NewConflictError("scene is not awaiting review")
	}

	scene.Approval = models.ApprovalRecord{
		Status:     models.StatusApproved,
		ApprovedBy: actor.ID,
		ApprovedAt: &now,
	}
	return scene, nil
}

// Reject marks a pending scene as rejected. The reason is mandatory
// and is surfaced to the author. Admin only.
func Reject(scene models.Scene, actor models.Actor, reason string) (models.Scene, error) {
	if actor.Role != models.RoleAdmin {
		return scene, errors.NewForbiddenError("reject")
	}
	if scene.Approval.Status != models.StatusPending {
		return scene, errors.NewConflictError("scene is not awaiting review")
	}
	if strings.TrimSpace(reason) == "" {
		return scene, errors.NewMissingReasonError(scene.SceneID)
	}

	scene.Approval = models.ApprovalRecord{
		Status:          models.StatusRejected,
		RejectionReason: reason,
	}
	return scene, nil
}

// ResetOnEdit applies the mandatory side effect of editing a reviewed
// scene: approved and rejected scenes return to draft with reviewer
// fields cleared, forcing re-review. Draft and pending records pass
// through unchanged.
func ResetOnEdit(record models.ApprovalRecord) models.ApprovalRecord {
	switch record.Status {
	case models.StatusApproved, models.StatusRejected:
		return models.ApprovalRecord{Status: models.StatusDraft}
	default:
		return record
	}
}
