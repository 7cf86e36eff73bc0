package services

import (
	"context"
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

// HomeworkService defines the interface for homework operations
type HomeworkService interface {
	// SubmitHomework stores a student's file for a lesson with status
	// submitted and notifies the operator. Unknown lessons or students fail
	// before anything is written.
	SubmitHomework(ctx context.Context, lessonID, studentID int64, comment string, file *multipart.FileHeader) (*models.HomeworkSubmission, error)
	ListByLesson(ctx context.Context, lessonID int64) ([]*models.HomeworkSubmission, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.HomeworkSubmission, error)
	// GetSubmission finds a submission of the given lesson. A submission
	// belonging to another lesson is reported as not found.
	GetSubmission(ctx context.Context, lessonID, submissionID int64) (*models.HomeworkSubmission, error)
}

type homeworkServiceImpl struct {
	store         repositories.Store
	storage       filestorage.FileStorage
	notifier      notify.Notifier
	operatorEmail string
	logger        zerolog.Logger
}

// NewHomeworkService creates a new HomeworkService
func NewHomeworkService(deps Deps) HomeworkService {
	return &homeworkServiceImpl{
		store:         deps.Store,
		storage:       deps.Storage,
		notifier:      deps.Notifier,
		operatorEmail: deps.OperatorEmail,
		logger:        deps.Logger.With().Str("service", "homework").Logger(),
	}
}

// HomeworkNotice builds the notification sent to the operator.
func HomeworkNotice(student *models.Student, lesson *models.Lesson) (subject, body string) {
	subject = fmt.Sprintf("New homework from %s", student.Name)
	body = fmt.Sprintf("Homework for lesson %s has been submitted.", lesson.Title)
	return subject, body
}

// SubmitHomework validates, stores and announces a submission
func (s *homeworkServiceImpl) SubmitHomework(ctx context.Context, lessonID, studentID int64, comment string, file *multipart.FileHeader) (*models.HomeworkSubmission, error) {
	if studentID <= 0 {
		return nil, apperrors.NewFieldError("studentId", "studentId is required")
	}

	lesson, err := s.store.Lessons().GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	student, err := s.store.Students().GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperrors.NewFieldError("file", "file is required")
	}

	ref, err := s.storage.SaveFileWithPath(file, HomeworkDir)
	if err != nil {
		return nil, fmt.Errorf("error saving homework file: %w", err)
	}

	submission := &models.HomeworkSubmission{
		StudentID: student.ID,
		LessonID:  lesson.ID,
		File:      ref,
		Comment:   strings.TrimSpace(comment),
		Status:    models.SubmissionSubmitted,
	}
	if err := validation.Validate(submission); err != nil {
		_ = s.storage.DeleteFile(ref)
		return nil, err
	}
	if err := s.store.Submissions().Create(ctx, submission); err != nil {
		_ = s.storage.DeleteFile(ref)
		return nil, fmt.Errorf("error creating homework submission: %w", err)
	}
	s.logger.Info().
		Int64("submissionID", submission.ID).
		Int64("lessonID", lesson.ID).
		Int64("studentID", student.ID).
		Msg("Homework submitted")

	subject, body := HomeworkNotice(student, lesson)
	s.notifier.Notify([]string{s.operatorEmail}, subject, body)

	return submission, nil
}

// ListByLesson retrieves the submissions of an existing lesson
func (s *homeworkServiceImpl) ListByLesson(ctx context.Context, lessonID int64) ([]*models.HomeworkSubmission, error) {
	if _, err := s.store.Lessons().GetByID(ctx, lessonID); err != nil {
		return nil, err
	}
	return s.store.Submissions().ListByLesson(ctx, lessonID)
}

// ListByStudent retrieves the submissions of an existing student
func (s *homeworkServiceImpl) ListByStudent(ctx context.Context, studentID int64) ([]*models.HomeworkSubmission, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.store.Submissions().ListByStudent(ctx, studentID)
}

// GetSubmission retrieves one submission of a lesson
func (s *homeworkServiceImpl) GetSubmission(ctx context.Context, lessonID, submissionID int64) (*models.HomeworkSubmission, error) {
	if _, err := s.store.Lessons().GetByID(ctx, lessonID); err != nil {
		return nil, err
	}
	submission, err := s.store.Submissions().GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.LessonID != lessonID {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return submission, nil
}
