package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/pkg/apperrors"
	"github.com/minilms/minilms/internal/pkg/dberrors"
	"github.com/minilms/minilms/internal/pkg/logger"
)

// LessonPostgres handles lesson database operations
type LessonPostgres struct {
	db DBTX
}

var lessonColumns = []string{"id", "course_id", "title", "content", "materials", "created_at"}

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	lesson := &models.Lesson{}
	err := row.Scan(&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Content, &lesson.Materials, &lesson.CreatedAt)
	return lesson, err
}

// Create inserts a lesson and fills in its ID and CreatedAt
func (r *LessonPostgres) Create(ctx context.Context, lesson *models.Lesson) error {
	sql, args, err := psql.Insert("lessons").
		Columns("course_id", "title", "content", "materials").
		Values(lesson.CourseID, lesson.Title, lesson.Content, lesson.Materials).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create lesson query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&lesson.ID, &lesson.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Msg("Error executing create lesson query")
		return fmt.Errorf("error creating lesson: %w", err)
	}
	return nil
}

// GetByID retrieves a lesson by ID
func (r *LessonPostgres) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	sql, args, err := psql.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lesson query: %w", err)
	}

	lesson, err := scanLesson(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Int64("lessonID", id).Msg("Error scanning lesson row")
		return nil, fmt.Errorf("error getting lesson by ID: %w", err)
	}
	return lesson, nil
}

// ListByCourse retrieves a course's lessons in creation order
func (r *LessonPostgres) ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	sql, args, err := psql.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list lessons query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list lessons query")
		return nil, fmt.Errorf("error querying lessons: %w", err)
	}
	defer rows.Close()

	lessons := []*models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lesson row: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lesson rows: %w", err)
	}
	return lessons, nil
}

// Delete removes a lesson; foreign keys cascade to its submissions
func (r *LessonPostgres) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("lessons").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete lesson query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lessonID", id).Msg("Error executing delete lesson query")
		return fmt.Errorf("error deleting lesson: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}
