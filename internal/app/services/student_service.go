package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/repositories"
	"github.com/minilms/minilms/internal/pkg/apperrors"
	"github.com/minilms/minilms/internal/pkg/validation"
	"github.com/rs/zerolog"
)

const emailTakenMessage = "a student with this email already exists"

// StudentDetail is a student with enrolled courses and issued certificates.
type StudentDetail struct {
	Student      *models.Student
	Courses      []*models.Course
	Certificates []*models.Certificate
}

// StudentService defines the interface for student operations
type StudentService interface {
	// CreateStudent stores a student and its enrollments. A used email or an
	// unknown course is reported as a validation error.
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentDetail(ctx context.Context, id int64) (*StudentDetail, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type studentServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(deps Deps) StudentService {
	return &studentServiceImpl{
		store:  deps.Store,
		logger: deps.Logger.With().Str("service", "student").Logger(),
	}
}

// CreateStudent validates and stores a new student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) error {
	student.Name = strings.TrimSpace(student.Name)
	student.Email = strings.TrimSpace(student.Email)
	if err := validation.Validate(student); err != nil {
		return err
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		taken, err := tx.Students().ExistsByEmail(ctx, student.Email)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.NewFieldError("email", emailTakenMessage)
		}

		for _, courseID := range student.CourseIDs {
			if _, err := tx.Courses().GetByID(ctx, courseID); err != nil {
				if errors.Is(err, apperrors.ErrCourseNotFound) {
					return apperrors.NewFieldError("courseIds", fmt.Sprintf("course %d does not exist", courseID))
				}
				return err
			}
		}

		return tx.Students().Create(ctx, student)
	})
	if err != nil {
		// A concurrent insert can still win the unique index.
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return apperrors.NewFieldError("email", emailTakenMessage)
		}
		// So can a concurrent course delete.
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.NewFieldError("courseIds", "course does not exist")
		}
		return err
	}

	s.logger.Info().Int64("studentID", student.ID).Int("courses", len(student.CourseIDs)).Msg("Student created")
	return nil
}

// GetStudentByID retrieves a student
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.store.Students().GetByID(ctx, id)
}

// GetStudentDetail retrieves a student with enrolled courses and certificates
func (s *studentServiceImpl) GetStudentDetail(ctx context.Context, id int64) (*StudentDetail, error) {
	student, err := s.store.Students().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	courses := make([]*models.Course, 0, len(student.CourseIDs))
	for _, courseID := range student.CourseIDs {
		course, err := s.store.Courses().GetByID(ctx, courseID)
		if err != nil {
			// The enrollment vanished with its course after the student was read.
			if errors.Is(err, apperrors.ErrCourseNotFound) {
				continue
			}
			return nil, err
		}
		courses = append(courses, course)
	}

	certificates, err := s.store.Certificates().ListByStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing certificates of student %d: %w", id, err)
	}

	return &StudentDetail{Student: student, Courses: courses, Certificates: certificates}, nil
}

// ListStudents retrieves all students, newest first
func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.store.Students().List(ctx)
}

// DeleteStudent removes a student with their submissions and certificates
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.store.Students().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
