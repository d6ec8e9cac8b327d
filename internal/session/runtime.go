// Package session drives a single training attempt: a timer-driven
// walk over the approved scene snapshot, capturing timed choices and
// handing the finished run to the score calculator. One runtime owns
// one attempt; nothing here is shared between sessions.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/scoring"
)

// State of the runtime. Running, TimedOut, and Answered refer to the
// scene at the current index.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateTimedOut   State = "timed_out"
	StateAnswered   State = "answered"
	StateCompleted  State = "completed"
	StateAbandoned  State = "abandoned"
)

// EventType tags a runtime event on the live feed.
type EventType string

const (
	EventStarted      EventType = "session_started"
	EventSceneEntered EventType = "scene_entered"
	EventTick         EventType = "tick"
	EventAnswered     EventType = "answered"
	EventTimedOut     EventType = "timed_out"
	EventCompleted    EventType = "completed"
	EventAbandoned    EventType = "abandoned"
)

// Event is one observable state change of a running session.
type Event struct {
	Type             EventType              `json:"type"`
	SessionID        string                 `json:"sessionId"`
	SceneID          string                 `json:"sceneId,omitempty"`
	SceneIndex       int                    `json:"sceneIndex"`
	SecondsRemaining int                    `json:"secondsRemaining"`
	OptionIndex      *int                   `json:"optionIndex,omitempty"`
	Result           *models.TrainingResult `json:"result,omitempty"`
}

const eventBuffer = 64

// Runtime is the state machine for one training attempt. All methods
// are safe to call concurrently with the tick callback; a mutex guards
// every transition because ticks arrive on the clock's goroutine.
type Runtime struct {
	mu    sync.Mutex
	clock Clock
	tick  time.Duration
	log   *logger.Logger

	state            State
	scenes           []models.Scene
	byID             map[string]*models.Scene
	session          models.SessionState
	secondsRemaining int
	stopClock        func()
	result           *models.TrainingResult
	events           chan Event
}

// NewRuntime creates an idle runtime driven by the given clock.
func NewRuntime(clock Clock, tick time.Duration) *Runtime {
	if tick <= 0 {
		tick = time.Second
	}
	return &Runtime{
		clock:  clock,
		tick:   tick,
		log:    logger.Default().WithPrefix("session"),
		state:  StateNotStarted,
		events: make(chan Event, eventBuffer),
	}
}

// Events exposes the runtime's event feed. Events are dropped, not
// blocked on, when the consumer falls behind.
func (r *Runtime) Events() <-chan Event {
	return r.events
}

// Start snapshots the eligible scenes (approved, non-ending, authoring
// order preserved) and enters the first one. The snapshot is fixed:
// authoring edits made after this point do not reach the session.
func (r *Runtime) Start(scenes []models.Scene, traineeID string) (models.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateNotStarted {
		return models.SessionState{}, errors.NewConflictError("session already started")
	}

	eligible := make([]models.Scene, 0, len(scenes))
	for _, s := range scenes {
		if s.Approval.Status == models.StatusApproved && !s.IsEnding() {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 {
		return models.SessionState{}, errors.NewNoEligibleScenesError()
	}

	ids := make([]string, len(eligible))
	r.byID = make(map[string]*models.Scene, len(eligible))
	for i := range eligible {
		ids[i] = eligible[i].SceneID
		r.byID[eligible[i].SceneID] = &eligible[i]
	}

	r.scenes = eligible
	r.session = models.SessionState{
		SessionID:       uuid.NewString(),
		TraineeID:       traineeID,
		OrderedSceneIDs: ids,
		CurrentIndex:    0,
		ChoicesMade:     make(map[string]models.ChoiceRecord, len(eligible)),
		StartedAt:       r.clock.Now(),
	}
	r.state = StateRunning
	r.secondsRemaining = eligible[0].TimeLimitSeconds
	r.stopClock = r.clock.Schedule(r.tick, r.onTick)

	r.log.Info("session started: id=%s, scenes=%d", r.session.SessionID, len(eligible))
	r.emit(Event{Type: EventStarted, SceneIndex: 0, SecondsRemaining: r.secondsRemaining})
	r.emit(Event{Type: EventSceneEntered, SceneID: ids[0], SceneIndex: 0, SecondsRemaining: r.secondsRemaining})
	return r.snapshotLocked(), nil
}

func (r *Runtime) onTick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRunning {
		return
	}

	r.secondsRemaining--
	scene := &r.scenes[r.session.CurrentIndex]
	if r.secondsRemaining > 0 {
		r.emit(Event{Type: EventTick, SceneID: scene.SceneID, SceneIndex: r.session.CurrentIndex, SecondsRemaining: r.secondsRemaining})
		return
	}

	// Countdown hit zero with no selection: the scene is recorded as
	// unanswered with the full time limit elapsed. Not an error.
	r.secondsRemaining = 0
	r.session.ChoicesMade[scene.SceneID] = models.ChoiceRecord{
		OptionIndex:    nil,
		ElapsedSeconds: scene.TimeLimitSeconds,
	}
	r.state = StateTimedOut
	r.log.Debug("scene timed out: scene=%s, index=%d", scene.SceneID, r.session.CurrentIndex)
	r.emit(Event{Type: EventTimedOut, SceneID: scene.SceneID, SceneIndex: r.session.CurrentIndex})
}

// SelectOption records the trainee's pick for the scene at sceneIndex.
// Valid only while that scene is running and the index is in range;
// anything else fails without side effects.
func (r *Runtime) SelectOption(sceneIndex, optionIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRunning {
		return errors.NewInvalidSelectionError("no scene is currently running")
	}
	if sceneIndex != r.session.CurrentIndex {
		return errors.NewInvalidSelectionError("selection is not for the current scene")
	}
	scene := &r.scenes[r.session.CurrentIndex]
	if optionIndex < 0 || optionIndex >= len(scene.Options) {
		return errors.NewInvalidSelectionError("option index out of range")
	}

	elapsed := scene.TimeLimitSeconds - r.secondsRemaining
	idx := optionIndex
	r.session.ChoicesMade[scene.SceneID] = models.ChoiceRecord{
		OptionIndex:    &idx,
		ElapsedSeconds: elapsed,
	}
	r.state = StateAnswered
	r.log.Debug("option selected: scene=%s, option=%d, elapsed=%ds", scene.SceneID, optionIndex, elapsed)
	r.emit(Event{Type: EventAnswered, SceneID: scene.SceneID, SceneIndex: sceneIndex, SecondsRemaining: r.secondsRemaining, OptionIndex: &idx})
	return nil
}

// Advance leaves an answered or timed-out scene. It either enters the
// next scene with a fresh countdown or, after the last scene,
// completes the session and computes the result synchronously.
func (r *Runtime) Advance() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateTimedOut && r.state != StateAnswered {
		return errors.NewConflictError("no finished scene to advance from")
	}

	next := r.session.CurrentIndex + 1
	if next < len(r.scenes) {
		r.session.CurrentIndex = next
		r.state = StateRunning
		r.secondsRemaining = r.scenes[next].TimeLimitSeconds
		r.emit(Event{Type: EventSceneEntered, SceneID: r.scenes[next].SceneID, SceneIndex: next, SecondsRemaining: r.secondsRemaining})
		return nil
	}

	r.stopClockLocked()
	r.state = StateCompleted

	result := scoring.Compute(r.session.ChoicesMade, r.byID)
	result.ResultID = uuid.NewString()
	result.SessionID = r.session.SessionID
	result.TraineeID = r.session.TraineeID
	result.CompletedAt = r.clock.Now()
	result.TotalElapsedMs = result.CompletedAt.Sub(r.session.StartedAt).Milliseconds()
	r.result = &result

	r.log.Info("session completed: id=%s, score=%d, grade=%s", r.session.SessionID, result.TotalScore, result.Grade)
	r.emit(Event{Type: EventCompleted, SceneIndex: r.session.CurrentIndex, Result: &result})
	return nil
}

// Abandon stops the clock and discards the session without a result.
// Half-finished attempts are never scored, not even partially.
func (r *Runtime) Abandon() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateCompleted {
		return errors.NewConflictError("session already completed")
	}
	if r.state == StateAbandoned {
		return nil
	}

	r.stopClockLocked()
	id := r.session.SessionID
	r.state = StateAbandoned
	r.session = models.SessionState{}
	r.result = nil

	r.log.Info("session abandoned: id=%s", id)
	r.emit(Event{Type: EventAbandoned, SessionID: id})
	return nil
}

// State returns the current runtime state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SecondsRemaining returns the current scene's countdown value.
func (r *Runtime) SecondsRemaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.secondsRemaining
}

// CurrentScene returns a copy of the scene at the current index, or
// nil when no session is in flight.
func (r *Runtime) CurrentScene() *models.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateRunning, StateTimedOut, StateAnswered:
		scene := r.scenes[r.session.CurrentIndex]
		return &scene
	default:
		return nil
	}
}

// Snapshot returns a copy of the session state for inspection.
func (r *Runtime) Snapshot() models.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Result returns the training result after completion, nil otherwise.
func (r *Runtime) Result() *models.TrainingResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

func (r *Runtime) snapshotLocked() models.SessionState {
	snap := r.session
	snap.OrderedSceneIDs = append([]string(nil), r.session.OrderedSceneIDs...)
	snap.ChoicesMade = make(map[string]models.ChoiceRecord, len(r.session.ChoicesMade))
	for k, v := range r.session.ChoicesMade {
		snap.ChoicesMade[k] = v
	}
	return snap
}

func (r *Runtime) stopClockLocked() {
	if r.stopClock != nil {
		r.stopClock()
		r.stopClock = nil
	}
}

func (r *Runtime) emit(e Event) {
	if e.SessionID == "" {
		e.SessionID = r.session.SessionID
	}
	select {
	case r.events <- e:
	default:
		// Feed consumer fell behind; drop rather than stall the timer.
	}
}
