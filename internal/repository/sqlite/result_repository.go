package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/repository"
)

type resultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository implementation
func NewResultRepository(db *sql.DB) repository.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Insert(ctx context.Context, result models.TrainingResult) error {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("inserting result: result_id=%s, trainee_id=%s, total=%d", result.ResultID, result.TraineeID, result.TotalScore)

	details, err := json.Marshal(result.Details)
	if err != nil {
		return err
	}
	suggestions, err := json.Marshal(result.ImprovementSuggestions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO results (result_id, session_id, trainee_id, total_score, speed_score, accuracy_score,
                     grade, details, overall_feedback, suggestions, total_elapsed_ms, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, result.ResultID, result.SessionID, result.TraineeID, result.TotalScore, result.SpeedScore,
		result.AccuracyScore, result.Grade, string(details), result.OverallFeedback,
		string(suggestions), result.TotalElapsedMs, result.CompletedAt)
	if err != nil {
		log.Error("failed to insert result: %v", err)
	}
	return err
}

func (r *resultRepository) Get(ctx context.Context, resultID string) (*models.TrainingResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("getting result: result_id=%s", resultID)

	result, err := scanResult(r.db.QueryRowContext(ctx, `
SELECT result_id, session_id, trainee_id, total_score, speed_score, accuracy_score,
       grade, details, overall_feedback, suggestions, total_elapsed_ms, completed_at
FROM results
WHERE result_id = ?
`, resultID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("result not found: result_id=%s", resultID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get result: %v", err)
		return nil, err
	}
	return result, nil
}

func (r *resultRepository) ListByTrainee(ctx context.Context, traineeID string, limit, offset int) ([]models.TrainingResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("listing results: trainee_id=%s, limit=%d, offset=%d", traineeID, limit, offset)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT result_id, session_id, trainee_id, total_score, speed_score, accuracy_score,
       grade, details, overall_feedback, suggestions, total_elapsed_ms, completed_at
FROM results
WHERE trainee_id = ?
ORDER BY completed_at DESC
LIMIT ? OFFSET ?
`, traineeID, limit, offset)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, err
	}
	defer rows.Close()
	var results []models.TrainingResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			log.Error("failed to scan result row: %v", err)
			return nil, err
		}
		results = append(results, *result)
	}
	log.Debug("found %d results", len(results))
	return results, rows.Err()
}

func scanResult(row rowScanner) (*models.TrainingResult, error) {
	var res models.TrainingResult
	var details, suggestions string

	err := row.Scan(&res.ResultID, &res.SessionID, &res.TraineeID, &res.TotalScore, &res.SpeedScore,
		&res.AccuracyScore, &res.Grade, &details, &res.OverallFeedback, &suggestions,
		&res.TotalElapsedMs, &res.CompletedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(details), &res.Details); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(suggestions), &res.ImprovementSuggestions); err != nil {
		return nil, err
	}
	return &res, nil
}
