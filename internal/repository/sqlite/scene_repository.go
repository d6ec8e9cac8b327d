package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/seonu/drillforge/internal/logger"
	"github.com/seonu/drillforge/internal/models"
	"github.com/seonu/drillforge/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var sceneColumns = []string{
	"scene_id", "scene_type", "disaster_type", "difficulty", "time_limit_seconds",
	"script_text", "options", "next_scene_id", "approval_status", "approved_by",
	"approved_at", "rejection_reason", "position", "created_by", "created_at", "updated_at",
}

type sceneRepository struct {
	db *sql.DB
}

// NewSceneRepository creates a new SceneRepository implementation
func NewSceneRepository(db *sql.DB) repository.SceneRepository {
	return &sceneRepository{db: db}
}

func (r *sceneRepository) Get(ctx context.Context, sceneID string) (*models.Scene, error) {
	log := logger.FromContext(ctx).WithPrefix("scene_repo")
	log.Debug("getting scene: scene_id=%s", sceneID)

	query, args, err := sqlBuilder.Select(sceneColumns...).
		From("scenes").
		Where(squirrel.Eq{"scene_id": sceneID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	scene, err := scanScene(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("scene not found: scene_id=%s", sceneID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get scene: %v", err)
		return nil, err
	}
	return scene, nil
}

func (r *sceneRepository) List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error) {
	log := logger.FromContext(ctx).WithPrefix("scene_repo")
	log.Debug("listing scenes with filter: status=%s, type=%s, disaster=%s, difficulty=%s",
		filter.Status, filter.SceneType, filter.DisasterType, filter.Difficulty)

	query := applySceneFilter(sqlBuilder.Select(sceneColumns...).From("scenes"), filter).
		OrderBy("position ASC", "scene_id ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list scenes: %v", err)
		return nil, err
	}
	defer rows.Close()
	var scenes []models.Scene
	for rows.Next() {
		scene, err := scanScene(rows)
		if err != nil {
			log.Error("failed to scan scene row: %v", err)
			return nil, err
		}
		scenes = append(scenes, *scene)
	}
	log.Debug("found %d scenes", len(scenes))
	return scenes, rows.Err()
}

func (r *sceneRepository) Count(ctx context.Context, filter models.SceneFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("scene_repo")

	sqlStr, args, err := applySceneFilter(sqlBuilder.Select("COUNT(*)").From("scenes"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count scenes: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *sceneRepository) Insert(ctx context.Context, scene models.Scene) error {
	log := logger.FromContext(ctx).WithPrefix("scene_repo")
	log.Debug("inserting scene: scene_id=%s", scene.SceneID)

	options, err := json.Marshal(scene.Options)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO scenes (scene_id, scene_type, disaster_type, difficulty, time_limit_seconds,
                    script_text, options, next_scene_id, approval_status, approved_by,
                    approved_at, rejection_reason, position, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, scene.SceneID, scene.SceneType, scene.DisasterType, scene.Difficulty, scene.TimeLimitSeconds,
		scene.ScriptText, string(options), nullString(scene.NextSceneID), scene.Approval.Status,
		scene.Approval.ApprovedBy, scene.Approval.ApprovedAt, scene.Approval.RejectionReason,
		scene.Position, scene.CreatedBy, scene.CreatedAt, scene.UpdatedAt)
	if err != nil {
		log.Error("failed to insert scene: %v", err)
	}
	return err
}

func (r *sceneRepository) Update(ctx context.Context, scene models.Scene) error {
	log := logger.FromContext(ctx).WithPrefix("scene_repo")
	log.Debug("updating scene: scene_id=%s, status=%s", scene.SceneID, scene.Approval.Status)

	options, err := json.Marshal(scene.Options)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE scenes
SET scene_type = ?, disaster_type = ?, difficulty = ?, time_limit_seconds = ?,
    script_text = ?, options = ?, next_scene_id = ?, approval_status = ?,
    approved_by = ?, approved_at = ?, rejection_reason = ?, position = ?, updated_at = ?
WHERE scene_id = ?
`, scene.SceneType, scene.DisasterType, scene.Difficulty, scene.TimeLimitSeconds,
		scene.ScriptText, string(options), nullString(scene.NextSceneID), scene.Approval.Status,
		scene.Approval.ApprovedBy, scene.Approval.ApprovedAt, scene.Approval.RejectionReason,
		scene.Position, scene.UpdatedAt, scene.SceneID)
	if err != nil {
		log.Error("failed to update scene: %v", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sceneRepository) Save(ctx context.Context, scene models.Scene) error {
	log := logger.FromContext(ctx).WithPrefix("scene_repo")
	log.Debug("saving scene: scene_id=%s", scene.SceneID)

	options, err := json.Marshal(scene.Options)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO scenes (scene_id, scene_type, disaster_type, difficulty, time_limit_seconds,
                    script_text, options, next_scene_id, approval_status, approved_by,
                    approved_at, rejection_reason, position, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(scene_id) DO UPDATE SET
    scene_type = excluded.scene_type,
    disaster_type = excluded.disaster_type,
    difficulty = excluded.difficulty,
    time_limit_seconds = excluded.time_limit_seconds,
    script_text = excluded.script_text,
    options = excluded.options,
    next_scene_id = excluded.next_scene_id,
    approval_status = excluded.approval_status,
    approved_by = excluded.approved_by,
    approved_at = excluded.approved_at,
    rejection_reason = excluded.rejection_reason,
    position = excluded.position,
    updated_at = excluded.updated_at
`, scene.SceneID, scene.SceneType, scene.DisasterType, scene.Difficulty, scene.TimeLimitSeconds,
		scene.ScriptText, string(options), nullString(scene.NextSceneID), scene.Approval.Status,
		scene.Approval.ApprovedBy, scene.Approval.ApprovedAt, scene.Approval.RejectionReason,
		scene.Position, scene.CreatedBy, scene.CreatedAt, scene.UpdatedAt)
	if err != nil {
		log.Error("failed to save scene: %v", err)
	}
	return err
}

func (r *sceneRepository) Delete(ctx context.Context, sceneID string) error {
	log := logger.FromContext(ctx).WithPrefix("scene_repo")
	log.Debug("deleting scene: scene_id=%s", sceneID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM scenes WHERE scene_id = ?`, sceneID)
	if err != nil {
		log.Error("failed to delete scene: %v", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClearLinearReferences nulls out next_scene_id on every scene that
// points at the given scene, returning how many rows changed. Choice
// edges live inside the options JSON and are handled by the caller.
func (r *sceneRepository) ClearLinearReferences(ctx context.Context, sceneID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("scene_repo")
	log.Debug("clearing linear references to scene: scene_id=%s", sceneID)

	res, err := r.db.ExecContext(ctx, `UPDATE scenes SET next_scene_id = NULL WHERE next_scene_id = ?`, sceneID)
	if err != nil {
		log.Error("failed to clear references: %v", err)
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("cleared %d linear references", affected)
	return int(affected), nil
}

func applySceneFilter(query squirrel.SelectBuilder, filter models.SceneFilter) squirrel.SelectBuilder {
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"approval_status": filter.Status})
	}
	if filter.SceneType != "" {
		query = query.Where(squirrel.Eq{"scene_type": filter.SceneType})
	}
	if filter.DisasterType != "" {
		query = query.Where(squirrel.Eq{"disaster_type": filter.DisasterType})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.CreatedBy != "" {
		query = query.Where(squirrel.Eq{"created_by": filter.CreatedBy})
	}
	return query
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScene(row rowScanner) (*models.Scene, error) {
	var s models.Scene
	var options string
	var nextSceneID sql.NullString
	var approvedAt sql.NullTime

	err := row.Scan(&s.SceneID, &s.SceneType, &s.DisasterType, &s.Difficulty, &s.TimeLimitSeconds,
		&s.ScriptText, &options, &nextSceneID, &s.Approval.Status, &s.Approval.ApprovedBy,
		&approvedAt, &s.Approval.RejectionReason, &s.Position, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(options), &s.Options); err != nil {
		return nil, err
	}
	if nextSceneID.Valid {
		s.NextSceneID = nextSceneID.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		s.Approval.ApprovedAt = &t
	}
	return &s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
