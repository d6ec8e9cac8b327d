package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/repository"
	"github.com/seonu/drillforge/internal/repository/sqlite"
	"github.com/seonu/drillforge/internal/testutil"
)

type ResultRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ResultRepository
}

func (s *ResultRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewResultRepository(s.db)
}

func (s *ResultRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ResultRepositorySuite) newResult(id, traineeID string, completedAt time.Time) models.TrainingResult {
	idx := 0
	return models.TrainingResult{
		ResultID:      id,
		SessionID:     "session-" + id,
		TraineeID:     traineeID,
		TotalScore:    88,
		SpeedScore:    100,
		AccuracyScore: 80,
		Grade:         models.GradeGood,
		Details: []models.ChoiceDetail{
			{SceneID: "#1", OptionIndex: &idx, AnswerText: "Take cover", ElapsedSeconds: 12, TimeBonus: 60, AdjustedSpeed: 100, Accuracy: 80},
		},
		OverallFeedback:        "Good performance. Keep training to improve.",
		ImprovementSuggestions: []string{"Keep practicing varied scenarios."},
		TotalElapsedMs:         12000,
		CompletedAt:            completedAt,
	}
}

func (s *ResultRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	completedAt := time.Now().UTC().Truncate(time.Second)
	result := s.newResult("r1", "trainee-1", completedAt)

	s.Require().NoError(s.repo.Insert(ctx, result))

	got, err := s.repo.Get(ctx, "r1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(result.TotalScore, got.TotalScore)
	s.Assert().Equal(models.GradeGood, got.Grade)
	s.Require().Len(got.Details, 1)
	s.Assert().Equal("#1", got.Details[0].SceneID)
	s.Require().NotNil(got.Details[0].OptionIndex)
	s.Assert().Equal(0, *got.Details[0].OptionIndex)
	s.Assert().Equal(result.ImprovementSuggestions, got.ImprovementSuggestions)
	s.Assert().True(got.CompletedAt.Equal(completedAt))
}

func (s *ResultRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), "nope")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *ResultRepositorySuite) TestListByTrainee() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	s.Require().NoError(s.repo.Insert(ctx, s.newResult("r1", "trainee-1", base.Add(-2*time.Hour))))
	s.Require().NoError(s.repo.Insert(ctx, s.newResult("r2", "trainee-1", base)))
	s.Require().NoError(s.repo.Insert(ctx, s.newResult("r3", "trainee-2", base)))

	results, err := s.repo.ListByTrainee(ctx, "trainee-1", 10, 0)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Assert().Equal("r2", results[0].ResultID, "most recent first")
	s.Assert().Equal("r1", results[1].ResultID)

	page, err := s.repo.ListByTrainee(ctx, "trainee-1", 1, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Assert().Equal("r1", page[0].ResultID)
}

func TestResultRepositorySuite(t *testing.T) {
	suite.Run(t, new(ResultRepositorySuite))
}
