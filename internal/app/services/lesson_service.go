package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/repositories"
	"github.com/minilms/minilms/internal/pkg/apperrors"
	"github.com/minilms/minilms/internal/pkg/filestorage"
	"github.com/minilms/minilms/internal/pkg/notify"
	"github.com/minilms/minilms/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// LessonService defines the interface for lesson operations
type LessonService interface {
	// CreateLesson stores the lesson with optional materials and notifies
	// the students enrolled in its course.
	CreateLesson(ctx context.Context, lesson *models.Lesson, materials *multipart.FileHeader) error
	GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessonsByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error)
	// ListEnrolledStudents returns the students who may submit homework for a lesson.
	ListEnrolledStudents(ctx context.Context, lessonID int64) ([]*models.Student, error)
	DeleteLesson(ctx context.Context, id int64) error
}

type lessonServiceImpl struct {
	store    repositories.Store
	storage  filestorage.FileStorage
	notifier notify.Notifier
	baseURL  string
	logger   zerolog.Logger
}

// NewLessonService creates a new LessonService
func NewLessonService(deps Deps) LessonService {
	return &lessonServiceImpl{
		store:    deps.Store,
		storage:  deps.Storage,
		notifier: deps.Notifier,
		baseURL:  strings.TrimRight(deps.BaseURL, "/"),
		logger:   deps.Logger.With().Str("service", "lesson").Logger(),
	}
}

// LessonNotice builds the notification sent to enrolled students.
func LessonNotice(baseURL string, course *models.Course, lesson *models.Lesson) (subject, body string) {
	subject = fmt.Sprintf("New lesson in course %s: %s", course.Title, lesson.Title)
	body = fmt.Sprintf("A new lesson has been added: %s. Details: %s/api/v1/lessons/%d", lesson.Title, baseURL, lesson.ID)
	return subject, body
}

// CreateLesson validates and stores a lesson
func (s *lessonServiceImpl) CreateLesson(ctx context.Context, lesson *models.Lesson, materials *multipart.FileHeader) error {
	lesson.Title = strings.TrimSpace(lesson.Title)
	lesson.Materials = nil
	if err := validation.Validate(lesson); err != nil {
		return err
	}

	course, err := s.store.Courses().GetByID(ctx, lesson.CourseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.NewFieldError("courseId", fmt.Sprintf("course %d does not exist", lesson.CourseID))
		}
		return err
	}

	if materials != nil {
		ref, err := s.storage.SaveFileWithPath(materials, MaterialsDir)
		if err != nil {
			return fmt.Errorf("error saving lesson materials: %w", err)
		}
		lesson.Materials = &ref
	}

	if err := s.store.Lessons().Create(ctx, lesson); err != nil {
		if lesson.Materials != nil {
			_ = s.storage.DeleteFile(*lesson.Materials)
		}
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.NewFieldError("courseId", fmt.Sprintf("course %d does not exist", lesson.CourseID))
		}
		return fmt.Errorf("error creating lesson: %w", err)
	}
	s.logger.Info().Int64("lessonID", lesson.ID).Int64("courseID", course.ID).Msg("Lesson created")

	s.notifyEnrolled(ctx, course, lesson)
	return nil
}

// notifyEnrolled never fails the lesson creation; lookup errors are logged.
func (s *lessonServiceImpl) notifyEnrolled(ctx context.Context, course *models.Course, lesson *models.Lesson) {
	students, err := s.store.Students().ListByCourse(ctx, course.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("lessonID", lesson.ID).Msg("Failed to load recipients for lesson notification")
		return
	}

	recipients := make([]string, 0, len(students))
	for _, st := range students {
		if st.Email != "" {
			recipients = append(recipients, st.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}

	subject, body := LessonNotice(s.baseURL, course, lesson)
	s.notifier.Notify(recipients, subject, body)
}

// GetLessonByID retrieves a lesson
func (s *lessonServiceImpl) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	return s.store.Lessons().GetByID(ctx, id)
}

// ListLessonsByCourse retrieves the lessons of an existing course
func (s *lessonServiceImpl) ListLessonsByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	if _, err := s.store.Courses().GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.store.Lessons().ListByCourse(ctx, courseID)
}

// ListEnrolledStudents retrieves the students enrolled in the lesson's course
func (s *lessonServiceImpl) ListEnrolledStudents(ctx context.Context, lessonID int64) ([]*models.Student, error) {
	lesson, err := s.store.Lessons().GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return s.store.Students().ListByCourse(ctx, lesson.CourseID)
}

// DeleteLesson removes a lesson with its submissions
func (s *lessonServiceImpl) DeleteLesson(ctx context.Context, id int64) error {
	if err := s.store.Lessons().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("lessonID", id).Msg("Lesson deleted")
	return nil
}
