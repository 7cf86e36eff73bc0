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

const (
	certificatesStudentCourseKey = "certificates_student_course_key"
	certificatesStudentFKey      = "certificates_student_id_fkey"
)

// CertificatePostgres handles certificate database operations
type CertificatePostgres struct {
	db DBTX
}

var certificateColumns = []string{"id", "student_id", "course_id", "pdf", "issued_at"}

func scanCertificate(row pgx.Row) (*models.Certificate, error) {
	c := &models.Certificate{}
	err := row.Scan(&c.ID, &c.StudentID, &c.CourseID, &c.PDF, &c.IssuedAt)
	return c, err
}

// Create inserts a certificate with the caller's IssuedAt
func (r *CertificatePostgres) Create(ctx context.Context, certificate *models.Certificate) error {
	sql, args, err := psql.Insert("certificates").
		Columns("student_id", "course_id", "pdf", "issued_at").
		Values(certificate.StudentID, certificate.CourseID, certificate.PDF, certificate.IssuedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create certificate query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&certificate.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, certificatesStudentCourseKey) {
			return apperrors.ErrCertificateAlreadyIssued
		}
		// The student or course was deleted after it was read.
		if dberrors.IsForeignKeyConstraintError(err, certificatesStudentFKey) {
			return apperrors.ErrStudentNotFound
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Msg("Error executing create certificate query")
		return fmt.Errorf("error creating certificate: %w", err)
	}
	return nil
}

// GetByStudentAndCourse retrieves the certificate of a (student, course) pair
func (r *CertificatePostgres) GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Certificate, error) {
	sql, args, err := psql.Select(certificateColumns...).
		From("certificates").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get certificate query: %w", err)
	}

	certificate, err := scanCertificate(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("error getting certificate: %w", err)
	}
	return certificate, nil
}

// ListByStudent retrieves a student's certificates, newest first
func (r *CertificatePostgres) ListByStudent(ctx context.Context, studentID int64) ([]*models.Certificate, error) {
	sql, args, err := psql.Select(certificateColumns...).
		From("certificates").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("issued_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list certificates query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list certificates query")
		return nil, fmt.Errorf("error querying certificates: %w", err)
	}
	defer rows.Close()

	certificates := []*models.Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning certificate row: %w", err)
		}
		certificates = append(certificates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certificate rows: %w", err)
	}
	return certificates, nil
}
