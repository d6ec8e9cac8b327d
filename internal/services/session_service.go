package services

import (
	"context"
	"sync"
	"time"

	"github.com/seonu/drillforge/internal/errors"
	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/repository"
	"github.com/seonu/drillforge/internal/session"
)

// SessionStatus is a point-in-time view of the live training session.
type SessionStatus struct {
	State            session.State       `json:"state"`
	SecondsRemaining int                 `json:"secondsRemaining"`
	Session          models.SessionState `json:"session"`
	CurrentScene     *models.Scene       `json:"currentScene,omitempty"`
}

// SessionService drives training sessions and their stored results.
// One session runs at a time.
type SessionService interface {
	StartSession(ctx context.Context, traineeID string) (models.SessionState, error)
	SelectOption(ctx context.Context, sceneIndex, optionIndex int) (*SessionStatus, error)
	Advance(ctx context.Context) (*SessionStatus, *models.TrainingResult, error)
	AbandonSession(ctx context.Context) error
	Status(ctx context.Context) (*SessionStatus, error)
	Events() (<-chan session.Event, bool)
	GetResult(ctx context.Context, resultID string) (*models.TrainingResult, error)
	ListResults(ctx context.Context, traineeID string, limit, offset int) ([]models.TrainingResult, error)
}

type sessionService struct {
	sceneRepo  repository.SceneRepository
	resultRepo repository.ResultRepository
	clock      session.Clock
	tick       time.Duration

	mu      sync.Mutex
	runtime *session.Runtime
}

// NewSessionService creates a new SessionService
func NewSessionService(sceneRepo repository.SceneRepository, resultRepo repository.ResultRepository, clock session.Clock, tick time.Duration) SessionService {
	return &sessionService{
		sceneRepo:  sceneRepo,
		resultRepo: resultRepo,
		clock:      clock,
		tick:       tick,
	}
}

func (s *sessionService) StartSession(ctx context.Context, traineeID string) (models.SessionState, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting training session: trainee_id=%s", traineeID)

	if traineeID == "" {
		return models.SessionState{}, errors.NewValidationError("traineeId", "must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runtime != nil {
		switch s.runtime.State() {
		case session.StateRunning, session.StateTimedOut, session.StateAnswered:
			return models.SessionState{}, errors.NewConflictError("a training session is already in progress")
		}
	}

	scenes, err := s.sceneRepo.List(ctx, models.SceneFilter{Status: models.StatusApproved})
	if err != nil {
		log.Error("failed to list approved scenes: %v", err)
		return models.SessionState{}, errors.NewInternalError(err)
	}

	rt := session.NewRuntime(s.clock, s.tick)
	state, err := rt.Start(scenes, traineeID)
	if err != nil {
		return models.SessionState{}, err
	}

	s.runtime = rt
	log.Info("training session started: session_id=%s, scenes=%d", state.SessionID, len(state.OrderedSceneIDs))
	return state, nil
}

func (s *sessionService) SelectOption(ctx context.Context, sceneIndex, optionIndex int) (*SessionStatus, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting option: scene_index=%d, option_index=%d", sceneIndex, optionIndex)

	rt, err := s.activeRuntime()
	if err != nil {
		return nil, err
	}
	if err := rt.SelectOption(sceneIndex, optionIndex); err != nil {
		return nil, err
	}
	return statusOf(rt), nil
}

// Advance moves to the next scene, or completes the session when the
// last scene has been resolved. Completion computes and persists the
// training result.
func (s *sessionService) Advance(ctx context.Context) (*SessionStatus, *models.TrainingResult, error) {
	log := logger.FromContext(ctx)

	rt, err := s.activeRuntime()
	if err != nil {
		return nil, nil, err
	}
	if err := rt.Advance(); err != nil {
		return nil, nil, err
	}

	if rt.State() != session.StateCompleted {
		return statusOf(rt), nil, nil
	}

	result := rt.Result()
	if err := s.resultRepo.Insert(ctx, *result); err != nil {
		log.Error("failed to persist training result: result_id=%s: %v", result.ResultID, err)
		return nil, nil, errors.NewInternalError(err)
	}
	log.Info("training session completed: result_id=%s, total=%d, grade=%s",
		result.ResultID, result.TotalScore, result.Grade)
	return statusOf(rt), result, nil
}

func (s *sessionService) AbandonSession(ctx context.Context) error {
	log := logger.FromContext(ctx)

	rt, err := s.activeRuntime()
	if err != nil {
		return err
	}
	if err := rt.Abandon(); err != nil {
		return err
	}
	log.Info("training session abandoned")
	return nil
}

func (s *sessionService) Status(ctx context.Context) (*SessionStatus, error) {
	rt, err := s.activeRuntime()
	if err != nil {
		return nil, err
	}
	return statusOf(rt), nil
}

// Events exposes the live feed of the current session. The second
// return is false when no session has ever started.
func (s *sessionService) Events() (<-chan session.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtime == nil {
		return nil, false
	}
	return s.runtime.Events(), true
}

func (s *sessionService) GetResult(ctx context.Context, resultID string) (*models.TrainingResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting result: result_id=%s", resultID)

	result, err := s.resultRepo.Get(ctx, resultID)
	if err != nil {
		log.Error("failed to get result: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if result == nil {
		return nil, errors.NewNotFoundError("result", resultID)
	}
	return result, nil
}

func (s *sessionService) ListResults(ctx context.Context, traineeID string, limit, offset int) ([]models.TrainingResult, error) {
	log := logger.FromContext(ctx)

	results, err := s.resultRepo.ListByTrainee(ctx, traineeID, limit, offset)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return results, nil
}

func (s *sessionService) activeRuntime() (*session.Runtime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runtime == nil {
		return nil, errors.NewConflictError("no training session has been started")
	}
	return s.runtime, nil
}

func statusOf(rt *session.Runtime) *SessionStatus {
	return &SessionStatus{
		State:            rt.State(),
		SecondsRemaining: rt.SecondsRemaining(),
		Session:          rt.Snapshot(),
		CurrentScene:     rt.CurrentScene(),
	}
}
