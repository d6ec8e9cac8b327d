// Package scenario models the authored scene collection as an arena of
// id-keyed records and checks its referential integrity. All edges are
// string id lookups, never object references, so a dangling reference
// is just a map miss.
package scenario

import (
	"fmt"

	"github.com/seonu/drillforge/internal/models"
)

const (
	// MinTimeLimitSeconds is the smallest countdown a timed scene may carry.
	MinTimeLimitSeconds = 10
	// MaxChoicePoints caps both point values of a choice.
	MaxChoicePoints = 100
)

// Finding is one validation error or warning, attached to a scene.
type Finding struct {
	SceneID string `json:"sceneId"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds the outcome of a graph validation pass.
// Errors block publishing and export; warnings do not, because
// authoring is expected to pass through incomplete intermediate states.
type ValidationResult struct {
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

// Valid reports whether the collection has no blocking errors.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ErrorsFor returns the blocking errors attached to one scene.
func (r ValidationResult) ErrorsFor(sceneID string) []Finding {
	var out []Finding
	for _, f := range r.Errors {
		if f.SceneID == sceneID {
			out = append(out, f)
		}
	}
	return out
}

// Index builds the arena: a map from scene id to scene. Later
// duplicates do not displace earlier ones; duplicate ids are reported
// by Validate.
func Index(scenes []models.Scene) map[string]*models.Scene {
	arena := make(map[string]*models.Scene, len(scenes))
	for i := range scenes {
		if _, exists := arena[scenes[i].SceneID]; !exists {
			arena[scenes[i].SceneID] = &scenes[i]
		}
	}
	return arena
}

// Validate checks the whole collection and accumulates findings. It
// never fails; the caller renders the findings inline per scene.
func Validate(scenes []models.Scene) ValidationResult {
	var res ValidationResult
	arena := Index(scenes)

	seen := make(map[string]bool, len(scenes))
	for i := range scenes {
		s := &scenes[i]
		if seen[s.SceneID] {
			res.Errors = append(res.Errors, Finding{
				SceneID: s.SceneID,
				Field:   "sceneId",
				Message: fmt.Sprintf("duplicate scene id %q", s.SceneID),
			})
		}
		seen[s.SceneID] = true

		res = validateScene(s, arena, res)
	}

	for _, orphan := range orphans(scenes, arena) {
		res.Warnings = append(res.Warnings, Finding{
			SceneID: orphan,
			Message: "scene is unreachable from any entry point",
		})
	}
	return res
}

func validateScene(s *models.Scene, arena map[string]*models.Scene, res ValidationResult) ValidationResult {
	if !s.IsEnding() {
		if len(s.Options) == 0 && s.NextSceneID == "" {
			res.Errors = append(res.Errors, Finding{
				SceneID: s.SceneID,
				Field:   "options",
				Message: "non-ending scene needs at least one choice or a next scene",
			})
		}
		if s.TimeLimitSeconds < MinTimeLimitSeconds {
			res.Errors = append(res.Errors, Finding{
				SceneID: s.SceneID,
				Field:   "timeLimitSeconds",
				Message: fmt.Sprintf("time limit must be at least %d seconds", MinTimeLimitSeconds),
			})
		}
	}

	for i, opt := range s.Options {
		if opt.Points.Speed < 0 || opt.Points.Speed > MaxChoicePoints {
			res.Errors = append(res.Errors, Finding{
				SceneID: s.SceneID,
				Field:   fmt.Sprintf("options[%d].points.speed", i),
				Message: fmt.Sprintf("speed points must be in [0, %d]", MaxChoicePoints),
			})
		}
		if opt.Points.Accuracy < 0 || opt.Points.Accuracy > MaxChoicePoints {
			res.Errors = append(res.Errors, Finding{
				SceneID: s.SceneID,
				Field:   fmt.Sprintf("options[%d].points.accuracy", i),
				Message: fmt.Sprintf("accuracy points must be in [0, %d]", MaxChoicePoints),
			})
		}
		if opt.NextSceneID != "" {
			if _, ok := arena[opt.NextSceneID]; !ok {
				res.Warnings = append(res.Warnings, Finding{
					SceneID: s.SceneID,
					Field:   fmt.Sprintf("options[%d].nextSceneId", i),
					Message: fmt.Sprintf("references missing scene %q", opt.NextSceneID),
				})
			}
		}
	}

	if s.NextSceneID != "" {
		if _, ok := arena[s.NextSceneID]; !ok {
			res.Warnings = append(res.Warnings, Finding{
				SceneID: s.SceneID,
				Field:   "nextSceneId",
				Message: fmt.Sprintf("references missing scene %q", s.NextSceneID),
			})
		}
	}
	return res
}

// ResolveNext returns the id of the scene a taken choice leads to, or
// "" when the choice points nowhere (empty or dangling reference),
// which means the session thread ends there. It never fails: a bad
// scene id or option index also degrades to "".
func ResolveNext(scenes []models.Scene, fromSceneID string, optionIndex int) string {
	arena := Index(scenes)
	from, ok := arena[fromSceneID]
	if !ok {
		return ""
	}
	if optionIndex < 0 || optionIndex >= len(from.Options) {
		return ""
	}
	next := from.Options[optionIndex].NextSceneID
	if next == "" {
		return ""
	}
	if _, ok := arena[next]; !ok {
		return ""
	}
	return next
}

// ReachableFrom walks the graph breadth-first from startID, following
// both choice edges and linear next-scene links. Cycles are expected
// (authors build retry loops); the visited set guarantees termination.
func ReachableFrom(scenes []models.Scene, startID string) map[string]bool {
	arena := Index(scenes)
	visited := make(map[string]bool)
	if _, ok := arena[startID]; !ok {
		return visited
	}

	queue := []string{startID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		s := arena[id]
		for _, opt := range s.Options {
			if opt.NextSceneID != "" && !visited[opt.NextSceneID] {
				if _, ok := arena[opt.NextSceneID]; ok {
					queue = append(queue, opt.NextSceneID)
				}
			}
		}
		if s.NextSceneID != "" && !visited[s.NextSceneID] {
			if _, ok := arena[s.NextSceneID]; ok {
				queue = append(queue, s.NextSceneID)
			}
		}
	}
	return visited
}

// entryPoints returns scenes with no inbound references. When every
// scene is referenced (the whole graph is cyclic), the first scene in
// authoring order is treated as the entry so the walk has somewhere to
// start.
func entryPoints(scenes []models.Scene, arena map[string]*models.Scene) []string {
	inbound := make(map[string]int, len(scenes))
	for i := range scenes {
		for _, opt := range scenes[i].Options {
			if _, ok := arena[opt.NextSceneID]; ok && opt.NextSceneID != scenes[i].SceneID {
				inbound[opt.NextSceneID]++
			}
		}
		if next := scenes[i].NextSceneID; next != "" && next != scenes[i].SceneID {
			if _, ok := arena[next]; ok {
				inbound[next]++
			}
		}
	}

	var entries []string
	seen := make(map[string]bool, len(scenes))
	for i := range scenes {
		id := scenes[i].SceneID
		if seen[id] {
			continue
		}
		seen[id] = true
		if inbound[id] == 0 {
			entries = append(entries, id)
		}
	}
	if len(entries) == 0 && len(scenes) > 0 {
		entries = append(entries, scenes[0].SceneID)
	}
	return entries
}

func orphans(scenes []models.Scene, arena map[string]*models.Scene) []string {
	if len(scenes) == 0 {
		return nil
	}
	reachable := make(map[string]bool)
	for _, entry := range entryPoints(scenes, arena) {
		for id := range ReachableFrom(scenes, entry) {
			reachable[id] = true
		}
	}

	var out []string
	seen := make(map[string]bool, len(scenes))
	for i := range scenes {
		id := scenes[i].SceneID
		if seen[id] {
			continue
		}
		seen[id] = true
		if !reachable[id] {
			out = append(out, id)
		}
	}
	return out
}
