// Package scoring turns the timed choices of a completed training run
// into a score, grade, and feedback. Everything here is pure: same
// choices in, same result out.
package scoring

import (
	"math"
	"sort"

	"github.com/seonu/drillforge/internal/models"
)

// Weights of the two score components. Fixed constants, applied once to
// the aggregated averages, never per scene.
const (
	speedWeight    = 0.4
	accuracyWeight = 0.6
)

// Suggestion thresholds.
const (
	speedSuggestionBelow    = 80
	accuracySuggestionBelow = 80
	basicsSuggestionBelow   = 70
)

// Compute aggregates the recorded choices against the scene snapshot
// and produces an immutable result. Timed-out scenes earn no accuracy
// and no time bonus but still count toward the averages. When nothing
// was eligible the result is a fixed "incomplete" POOR outcome instead
// of a division by zero.
func Compute(choicesMade map[string]models.ChoiceRecord, scenesByID map[string]*models.Scene) models.TrainingResult {
	details := buildDetails(choicesMade, scenesByID)
	if len(details) == 0 {
		return models.TrainingResult{
			TotalScore:             0,
			Grade:                  models.GradePoor,
			Details:                []models.ChoiceDetail{},
			OverallFeedback:        "The session ended before any scene could be scored.",
			ImprovementSuggestions: []string{"Complete a full training run to receive a meaningful evaluation."},
		}
	}

	var speedSum, accuracySum float64
	for _, d := range details {
		speedSum += float64(d.AdjustedSpeed)
		accuracySum += float64(d.Accuracy)
	}
	avgSpeed := speedSum / float64(len(details))
	avgAccuracy := accuracySum / float64(len(details))
	total := int(math.Round(avgSpeed*speedWeight + avgAccuracy*accuracyWeight))

	return models.TrainingResult{
		TotalScore:             total,
		SpeedScore:             int(math.Round(avgSpeed)),
		AccuracyScore:          int(math.Round(avgAccuracy)),
		Grade:                  GradeFor(total),
		Details:                details,
		OverallFeedback:        feedbackFor(total),
		ImprovementSuggestions: suggestionsFor(avgSpeed, avgAccuracy),
	}
}

// GradeFor buckets a total score, highest threshold first.
func GradeFor(totalScore int) models.Grade {
	switch {
	case totalScore >= 90:
		return models.GradeExcellent
	case totalScore >= 80:
		return models.GradeGood
	case totalScore >= 70:
		return models.GradeAverage
	case totalScore >= 60:
		return models.GradeBelowAverage
	default:
		return models.GradePoor
	}
}

func buildDetails(choicesMade map[string]models.ChoiceRecord, scenesByID map[string]*models.Scene) []models.ChoiceDetail {
	details := make([]models.ChoiceDetail, 0, len(choicesMade))
	for sceneID, record := range choicesMade {
		scene, ok := scenesByID[sceneID]
		if !ok {
			continue
		}
		details = append(details, scoreScene(sceneID, record, scene))
	}

	// Map iteration order is random; present scenes in authoring order.
	sort.Slice(details, func(i, j int) bool {
		a, b := scenesByID[details[i].SceneID], scenesByID[details[j].SceneID]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return details[i].SceneID < details[j].SceneID
	})
	return details
}

func scoreScene(sceneID string, record models.ChoiceRecord, scene *models.Scene) models.ChoiceDetail {
	detail := models.ChoiceDetail{
		SceneID:        sceneID,
		OptionIndex:    record.OptionIndex,
		ElapsedSeconds: record.ElapsedSeconds,
		TimedOut:       record.TimedOut(),
	}

	if record.TimedOut() {
		// Full time elapsed: timeRatio is 1, so the bonus is zero and
		// the speed contribution is the raw authored points. No answer
		// means no accuracy credit.
		if len(scene.Options) > 0 {
			detail.AdjustedSpeed = minInt(100, scene.Options[0].Points.Speed)
		}
		return detail
	}

	idx := *record.OptionIndex
	if idx < 0 || idx >= len(scene.Options) {
		return detail
	}
	choice := scene.Options[idx]
	detail.AnswerText = choice.AnswerText
	detail.ReactionText = choice.ReactionText

	timeRatio := 1.0
	if scene.TimeLimitSeconds > 0 {
		timeRatio = float64(record.ElapsedSeconds) / float64(scene.TimeLimitSeconds)
	}
	timeBonus := math.Max(0, 100*(1-timeRatio))

	detail.TimeBonus = int(math.Round(timeBonus))
	detail.AdjustedSpeed = minInt(100, int(math.Round(float64(choice.Points.Speed)+timeBonus)))
	detail.Accuracy = choice.Points.Accuracy
	return detail
}

func feedbackFor(totalScore int) string {
	switch GradeFor(totalScore) {
	case models.GradeExcellent:
		return "Outstanding response. Your decisions were fast and consistently correct."
	case models.GradeGood:
		return "Solid response. Most decisions were sound; a little more polish will get you to the top band."
	case models.GradeAverage:
		return "Adequate response. You handled the core situations but left points on the table."
	case models.GradeBelowAverage:
		return "Shaky response. Several decisions were slow or incorrect; review the scenario material."
	default:
		return "Insufficient response. Work through the basic procedures again before the next drill."
	}
}

func suggestionsFor(avgSpeed, avgAccuracy float64) []string {
	var out []string
	if avgSpeed < speedSuggestionBelow {
		out = append(out, "Practice reacting faster: unused seconds convert directly into speed score.")
	}
	if avgAccuracy < accuracySuggestionBelow {
		out = append(out, "Review the correct procedures for each disaster type to raise accuracy.")
	}
	if avgSpeed < basicsSuggestionBelow && avgAccuracy < basicsSuggestionBelow {
		out = append(out, "Repeat the basic training scenarios before attempting advanced drills.")
	}
	if len(out) == 0 {
		out = append(out, "Keep up the current level with regular refresher sessions.")
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
