package models

import "time"

// SceneType classifies a scene in the authored graph.
type SceneType string

const (
	SceneTypeDisaster SceneType = "disaster"
	SceneTypeTraining SceneType = "training"
	SceneTypeEnding   SceneType = "ending"
)

// ApprovalStatus is the publication state of a scene.
type ApprovalStatus string

const (
	StatusDraft    ApprovalStatus = "draft"
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// ChoicePoints carries the authored point values of a choice.
// Both values are expected in [0, 100].
type ChoicePoints struct {
	Speed    int `json:"speed"`
	Accuracy int `json:"accuracy"`
}

// Choice is a selectable branch out of a scene. NextSceneID is an id
// reference, never a pointer; it may name a scene that does not exist
// yet while authoring is in progress.
type Choice struct {
	AnswerText   string       `json:"answerText"`
	ReactionText string       `json:"reactionText"`
	NextSceneID  string       `json:"nextSceneId"`
	Points       ChoicePoints `json:"points"`
}

// ApprovalRecord tracks the review state of a scene.
type ApprovalRecord struct {
	Status          ApprovalStatus `json:"status"`
	ApprovedBy      string         `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

// Scene is one authored unit of narrative content. SceneID is a
// caller-chosen stable key (e.g. "#3-1") and must be unique across the
// collection. Ending scenes have no timer and may have no options; they
// can instead point at a follow-up scene through NextSceneID.
type Scene struct {
	SceneID          string         `json:"sceneId"`
	SceneType        SceneType      `json:"sceneType"`
	DisasterType     string         `json:"disasterType,omitempty"`
	Difficulty       string         `json:"difficulty,omitempty"`
	TimeLimitSeconds int            `json:"timeLimitSeconds,omitempty"`
	ScriptText       string         `json:"scriptText"`
	Options          []Choice       `json:"options"`
	NextSceneID      string         `json:"nextSceneId,omitempty"`
	Approval         ApprovalRecord `json:"approval"`
	Position         int            `json:"position"`
	CreatedBy        string         `json:"createdBy,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// IsEnding reports whether the scene terminates a narrative thread.
func (s *Scene) IsEnding() bool {
	return s.SceneType == SceneTypeEnding
}

// SceneFilter narrows scene listings.
type SceneFilter struct {
	Status       ApprovalStatus
	SceneType    SceneType
	DisasterType string
	Difficulty   string
	CreatedBy    string
	Limit        int
	Offset       int
}

// Role of the caller performing an authoring or review operation.
// Authentication is handled outside this service; only the role
// decision matters here.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
