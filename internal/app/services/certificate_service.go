package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/repositories"
	"github.com/minilms/minilms/internal/pkg/apperrors"
	"github.com/minilms/minilms/internal/pkg/filestorage"
	"github.com/minilms/minilms/internal/pkg/pdf"
	"github.com/rs/zerolog"
)

// IssueStatus tells whether an issue call created the certificate.
type IssueStatus string

const (
	IssueStatusIssued        IssueStatus = "issued"
	IssueStatusAlreadyIssued IssueStatus = "already_issued"
)

// IssueOutcome is the result of a certificate issue call. For
// IssueStatusAlreadyIssued, Certificate is the one issued earlier.
type IssueOutcome struct {
	Status      IssueStatus
	Certificate *models.Certificate
}

// CertificateService defines the interface for certificate operations
type CertificateService interface {
	// IssueCertificate creates the single certificate of a (student, course)
	// pair. Repeated and concurrent calls return IssueStatusAlreadyIssued.
	IssueCertificate(ctx context.Context, studentID, courseID int64) (*IssueOutcome, error)
	HasCertificate(ctx context.Context, studentID, courseID int64) (bool, error)
	ListForStudent(ctx context.Context, studentID int64) ([]*models.Certificate, error)
}

type certificateServiceImpl struct {
	store    repositories.Store
	storage  filestorage.FileStorage
	renderer pdf.Renderer
	now      func() time.Time
	logger   zerolog.Logger
}

// NewCertificateService creates a new CertificateService
func NewCertificateService(deps Deps) CertificateService {
	return &certificateServiceImpl{
		store:    deps.Store,
		storage:  deps.Storage,
		renderer: deps.Renderer,
		now:      deps.clock(),
		logger:   deps.Logger.With().Str("service", "certificate").Logger(),
	}
}

// IssueCertificate renders, stores and records a certificate. The student
// row stays locked from the existence check until the insert commits.
func (s *certificateServiceImpl) IssueCertificate(ctx context.Context, studentID, courseID int64) (*IssueOutcome, error) {
	var (
		outcome    *IssueOutcome
		writtenRef string
	)

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		student, err := tx.Students().GetByIDForUpdate(ctx, studentID)
		if err != nil {
			return err
		}
		course, err := tx.Courses().GetByID(ctx, courseID)
		if err != nil {
			return err
		}

		existing, err := tx.Certificates().GetByStudentAndCourse(ctx, studentID, courseID)
		if err == nil {
			outcome = &IssueOutcome{Status: IssueStatusAlreadyIssued, Certificate: existing}
			return nil
		}
		if !errors.Is(err, apperrors.ErrCertificateNotFound) {
			return err
		}

		// PostgreSQL keeps microseconds; truncating keeps the stored value
		// equal to the one printed and returned.
		issuedAt := s.now().UTC().Truncate(time.Microsecond)

		document, err := s.renderer.Render(ctx, pdf.CertificateData{
			StudentName: student.Name,
			CourseTitle: course.Title,
			IssuedAt:    issuedAt,
		})
		if err != nil {
			return fmt.Errorf("error rendering certificate: %w", err)
		}

		ref, err := s.storage.SaveBytes(CertificatesDir, models.CertificateFileName(studentID, courseID), document)
		if err != nil {
			return fmt.Errorf("error saving certificate: %w", err)
		}
		writtenRef = ref

		certificate := &models.Certificate{
			StudentID: studentID,
			CourseID:  courseID,
			PDF:       ref,
			IssuedAt:  issuedAt,
		}
		if err := tx.Certificates().Create(ctx, certificate); err != nil {
			return err
		}
		outcome = &IssueOutcome{Status: IssueStatusIssued, Certificate: certificate}
		return nil
	})

	if err != nil {
		if errors.Is(err, apperrors.ErrCertificateAlreadyIssued) {
			// Another transaction committed first; its file has the same name.
			existing, getErr := s.store.Certificates().GetByStudentAndCourse(ctx, studentID, courseID)
			if getErr != nil {
				return nil, getErr
			}
			return &IssueOutcome{Status: IssueStatusAlreadyIssued, Certificate: existing}, nil
		}
		if writtenRef != "" {
			if delErr := s.storage.DeleteFile(writtenRef); delErr != nil {
				s.logger.Warn().Err(delErr).Str("ref", writtenRef).Msg("Failed to remove orphaned certificate file")
			}
		}
		return nil, err
	}

	if outcome.Status == IssueStatusIssued {
		s.logger.Info().
			Int64("certificateID", outcome.Certificate.ID).
			Int64("studentID", studentID).
			Int64("courseID", courseID).
			Msg("Certificate issued")
	} else {
		s.logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Certificate already issued")
	}
	return outcome, nil
}

// HasCertificate reports whether the pair already holds a certificate
func (s *certificateServiceImpl) HasCertificate(ctx context.Context, studentID, courseID int64) (bool, error) {
	_, err := s.store.Certificates().GetByStudentAndCourse(ctx, studentID, courseID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrCertificateNotFound) {
		return false, nil
	}
	return false, err
}

// ListForStudent retrieves the certificates of an existing student
func (s *certificateServiceImpl) ListForStudent(ctx context.Context, studentID int64) ([]*models.Certificate, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.store.Certificates().ListByStudent(ctx, studentID)
}
