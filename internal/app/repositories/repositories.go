package repositories

import (
	"context"
	"fmt"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/pkg/apperrors"
)

// CourseRepository persists courses. Deleting a course removes its lessons,
// their homework submissions, its enrollments and its certificates.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	// List returns courses newest first.
	List(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// StudentRepository persists students together with their enrollments.
// Deleting a student removes their submissions, enrollments and certificates.
type StudentRepository interface {
	// Create inserts the student and one enrollment per CourseIDs entry.
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	// GetByIDForUpdate is GetByID that also holds the student row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// List returns students newest first.
	List(ctx context.Context) ([]*models.Student, error)
	// ListByCourse returns the students enrolled in a course, by name.
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// LessonRepository persists lessons.
type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	// ListByCourse returns a course's lessons in creation order.
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error)
	Delete(ctx context.Context, id int64) error
}

// SubmissionRepository persists homework submissions.
type SubmissionRepository interface {
	// Create defaults an empty status to submitted and rejects unknown ones.
	Create(ctx context.Context, submission *models.HomeworkSubmission) error
	GetByID(ctx context.Context, id int64) (*models.HomeworkSubmission, error)
	// ListByLesson returns a lesson's submissions newest first.
	ListByLesson(ctx context.Context, lessonID int64) ([]*models.HomeworkSubmission, error)
	// ListByStudent returns a student's submissions newest first.
	ListByStudent(ctx context.Context, studentID int64) ([]*models.HomeworkSubmission, error)
}

// CertificateRepository persists certificates, at most one per
// (student, course) pair.
type CertificateRepository interface {
	// Create fails with apperrors.ErrCertificateAlreadyIssued when the pair
	// already holds a certificate.
	Create(ctx context.Context, certificate *models.Certificate) error
	GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Certificate, error)
	// ListByStudent returns a student's certificates newest first.
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Certificate, error)
}

// Store groups the repositories over one data source.
type Store interface {
	Courses() CourseRepository
	Students() StudentRepository
	Lessons() LessonRepository
	Submissions() SubmissionRepository
	Certificates() CertificateRepository

	// WithTransaction runs fn against a Store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// NormalizeSubmissionStatus fills in the default status and rejects values
// outside the submission lifecycle.
func NormalizeSubmissionStatus(submission *models.HomeworkSubmission) error {
	if submission.Status == "" {
		submission.Status = models.SubmissionSubmitted
	}
	if !submission.Status.Valid() {
		return apperrors.NewFieldError("status", fmt.Sprintf("unknown submission status %q", submission.Status))
	}
	return nil
}
