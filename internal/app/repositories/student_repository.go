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

const studentsEmailKey = "students_email_key"

// StudentPostgres handles student and enrollment database operations
type StudentPostgres struct {
	db DBTX
}

// selectStudents loads students with their enrolled course IDs aggregated.
func selectStudents() squirrel.SelectBuilder {
	return psql.Select(
		"s.id", "s.name", "s.email", "s.created_at",
		"COALESCE(array_agg(e.course_id ORDER BY e.course_id) FILTER (WHERE e.course_id IS NOT NULL), '{}')",
	).
		From("students s").
		LeftJoin("enrollments e ON e.student_id = s.id").
		GroupBy("s.id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(&student.ID, &student.Name, &student.Email, &student.CreatedAt, &student.CourseIDs)
	return student, err
}

func (r *StudentPostgres) queryStudents(ctx context.Context, qb squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// Create inserts a student and its enrollments. Call it inside a
// transaction so a failed enrollment leaves no student behind.
func (r *StudentPostgres) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := psql.Insert("students").
		Columns("name", "email").
		Values(student.Name, student.Email).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentsEmailKey) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	if len(student.CourseIDs) == 0 {
		return nil
	}

	insert := psql.Insert("enrollments").Columns("student_id", "course_id").Suffix("ON CONFLICT DO NOTHING")
	for _, courseID := range student.CourseIDs {
		insert = insert.Values(student.ID, courseID)
	}
	sql, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create enrollments query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("enrollment references a deleted course: %w", apperrors.ErrCourseNotFound)
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing create enrollments query")
		return fmt.Errorf("error creating enrollments: %w", err)
	}
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentPostgres) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := selectStudents().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return student, nil
}

// GetByIDForUpdate locks the student row, then loads the student.
// FOR UPDATE cannot be combined with the aggregate in selectStudents.
func (r *StudentPostgres) GetByIDForUpdate(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := psql.Select("id").
		From("students").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock student query: %w", err)
	}

	var locked int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error locking student: %w", err)
	}
	return r.GetByID(ctx, id)
}

// ExistsByEmail reports whether a student already uses the email
func (r *StudentPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	sql, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("students").
		Where("lower(email) = lower(?)", email).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking student email: %w", err)
	}
	return exists, nil
}

// List retrieves all students, newest first
func (r *StudentPostgres) List(ctx context.Context) ([]*models.Student, error) {
	return r.queryStudents(ctx, selectStudents().OrderBy("s.created_at DESC", "s.id DESC"))
}

// ListByCourse retrieves the students enrolled in a course
func (r *StudentPostgres) ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	return r.queryStudents(ctx, selectStudents().
		Where("s.id IN (SELECT student_id FROM enrollments WHERE course_id = ?)", courseID).
		OrderBy("s.name ASC", "s.id ASC"))
}

// Delete removes a student; foreign keys cascade to its dependents
func (r *StudentPostgres) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
