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

// SubmissionPostgres handles homework submission database operations
type SubmissionPostgres struct {
	db DBTX
}

var submissionColumns = []string{"id", "student_id", "lesson_id", "file", "comment", "status", "reviewed_at", "created_at"}

func scanSubmission(row pgx.Row) (*models.HomeworkSubmission, error) {
	s := &models.HomeworkSubmission{}
	err := row.Scan(&s.ID, &s.StudentID, &s.LessonID, &s.File, &s.Comment, &s.Status, &s.ReviewedAt, &s.CreatedAt)
	return s, err
}

// Create inserts a submission; an empty status defaults to submitted
func (r *SubmissionPostgres) Create(ctx context.Context, submission *models.HomeworkSubmission) error {
	if err := NormalizeSubmissionStatus(submission); err != nil {
		return err
	}

	sql, args, err := psql.Insert("homework_submissions").
		Columns("student_id", "lesson_id", "file", "comment", "status").
		Values(submission.StudentID, submission.LessonID, submission.File, submission.Comment, submission.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create submission query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&submission.ID, &submission.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("submission references a missing record: %w", apperrors.ErrResourceNotFound)
		}
		logger.Error().Err(err).Msg("Error executing create submission query")
		return fmt.Errorf("error creating submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by ID
func (r *SubmissionPostgres) GetByID(ctx context.Context, id int64) (*models.HomeworkSubmission, error) {
	sql, args, err := psql.Select(submissionColumns...).
		From("homework_submissions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get submission query: %w", err)
	}

	submission, err := scanSubmission(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		logger.Error().Err(err).Int64("submissionID", id).Msg("Error scanning submission row")
		return nil, fmt.Errorf("error getting submission by ID: %w", err)
	}
	return submission, nil
}

func (r *SubmissionPostgres) list(ctx context.Context, where squirrel.Eq) ([]*models.HomeworkSubmission, error) {
	sql, args, err := psql.Select(submissionColumns...).
		From("homework_submissions").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list submissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list submissions query")
		return nil, fmt.Errorf("error querying submissions: %w", err)
	}
	defer rows.Close()

	submissions := []*models.HomeworkSubmission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning submission row: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}
	return submissions, nil
}

// ListByLesson retrieves a lesson's submissions, newest first
func (r *SubmissionPostgres) ListByLesson(ctx context.Context, lessonID int64) ([]*models.HomeworkSubmission, error) {
	return r.list(ctx, squirrel.Eq{"lesson_id": lessonID})
}

// ListByStudent retrieves a student's submissions, newest first
func (r *SubmissionPostgres) ListByStudent(ctx context.Context, studentID int64) ([]*models.HomeworkSubmission, error) {
	return r.list(ctx, squirrel.Eq{"student_id": studentID})
}
