package models

import "time"

// ChoiceRecord is what the runtime captures for one scene of a run.
// OptionIndex is nil when the scene timed out with no selection, in
// which case ElapsedSeconds equals the scene's time limit.
type ChoiceRecord struct {
	OptionIndex    *int `json:"optionIndex"`
	ElapsedSeconds int  `json:"elapsedSeconds"`
}

// TimedOut reports whether the record represents an unanswered scene.
func (c ChoiceRecord) TimedOut() bool {
	return c.OptionIndex == nil
}

// SessionState is the runtime-only snapshot of one training attempt.
// OrderedSceneIDs is fixed at start; authoring edits made while the
// session runs do not affect it.
type SessionState struct {
	SessionID       string                  `json:"sessionId"`
	TraineeID       string                  `json:"traineeId"`
	OrderedSceneIDs []string                `json:"orderedSceneIds"`
	CurrentIndex    int                     `json:"currentIndex"`
	ChoicesMade     map[string]ChoiceRecord `json:"choicesMade"`
	StartedAt       time.Time               `json:"startedAt"`
}

// Grade buckets a total score.
type Grade string

const (
	GradeExcellent    Grade = "EXCELLENT"
	GradeGood         Grade = "GOOD"
	GradeAverage      Grade = "AVERAGE"
	GradeBelowAverage Grade = "BELOW_AVERAGE"
	GradePoor         Grade = "POOR"
)

// ChoiceDetail is the per-scene breakdown inside a TrainingResult.
type ChoiceDetail struct {
	SceneID        string `json:"sceneId"`
	OptionIndex    *int   `json:"optionIndex"`
	AnswerText     string `json:"answerText,omitempty"`
	ReactionText   string `json:"reactionText,omitempty"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
	TimeBonus      int    `json:"timeBonus"`
	AdjustedSpeed  int    `json:"adjustedSpeed"`
	Accuracy       int    `json:"accuracy"`
	TimedOut       bool   `json:"timedOut"`
}

// TrainingResult is the immutable outcome of a completed session.
type TrainingResult struct {
	ResultID               string         `json:"resultId"`
	SessionID              string         `json:"sessionId"`
	TraineeID              string         `json:"traineeId"`
	TotalScore             int            `json:"totalScore"`
	SpeedScore             int            `json:"speedScore"`
	AccuracyScore          int            `json:"accuracyScore"`
	Grade                  Grade          `json:"grade"`
	Details                []ChoiceDetail `json:"details"`
	OverallFeedback        string         `json:"overallFeedback"`
	ImprovementSuggestions []string       `json:"improvementSuggestions"`
	TotalElapsedMs         int64          `json:"totalElapsedMs"`
	CompletedAt            time.Time      `json:"completedAt"`
}
