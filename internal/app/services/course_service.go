package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/repositories"
	"github.com/minilms/minilms/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	// GetCourseWithLessons returns the course and its lessons in creation order.
	GetCourseWithLessons(ctx context.Context, id int64) (*models.Course, []*models.Lesson, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
}

type courseServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(deps Deps) CourseService {
	return &courseServiceImpl{
		store:  deps.Store,
		logger: deps.Logger.With().Str("service", "course").Logger(),
	}
}

func normalizeCourse(course *models.Course) {
	course.Title = strings.TrimSpace(course.Title)
	course.Teacher = strings.TrimSpace(course.Teacher)
}

// CreateCourse validates and stores a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) error {
	normalizeCourse(course)
	if err := validation.Validate(course); err != nil {
		return err
	}

	if err := s.store.Courses().Create(ctx, course); err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	s.logger.Info().Int64("courseID", course.ID).Str("title", course.Title).Msg("Course created")
	return nil
}

// GetCourseByID retrieves a course
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.store.Courses().GetByID(ctx, id)
}

// GetCourseWithLessons retrieves a course with its lessons
func (s *courseServiceImpl) GetCourseWithLessons(ctx context.Context, id int64) (*models.Course, []*models.Lesson, error) {
	course, err := s.store.Courses().GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	lessons, err := s.store.Lessons().ListByCourse(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing lessons of course %d: %w", id, err)
	}
	return course, lessons, nil
}

// ListCourses retrieves all courses, newest first
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.store.Courses().List(ctx)
}

// UpdateCourse validates and saves the editable course fields
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course) error {
	normalizeCourse(course)
	if err := validation.Validate(course); err != nil {
		return err
	}
	return s.store.Courses().Update(ctx, course)
}

// DeleteCourse removes a course with its lessons, submissions and certificates
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.store.Courses().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}
