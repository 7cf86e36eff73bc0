// Package services holds the business rules of the LMS: validation before
// persistence, certificate issuance and the notifications that follow
// lesson and homework creation.
package services

import (
	"time"

	"github.com/minilms/minilms/internal/app/repositories"
	"github.com/minilms/minilms/internal/pkg/filestorage"
	"github.com/minilms/minilms/internal/pkg/notify"
	"github.com/minilms/minilms/internal/pkg/pdf"
	"github.com/rs/zerolog"
)

// Upload subdirectories inside the file store.
const (
	MaterialsDir    = "materials"
	HomeworkDir     = "homework"
	CertificatesDir = "certificates"
)

// Deps carries what the services share.
type Deps struct {
	Store    repositories.Store
	Storage  filestorage.FileStorage
	Notifier notify.Notifier
	Renderer pdf.Renderer
	Logger   zerolog.Logger
	// BaseURL prefixes links placed in notification bodies.
	BaseURL string
	// OperatorEmail receives homework notifications.
	OperatorEmail string
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (d Deps) clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}

// Services holds all the service instances
type Services struct {
	Courses      CourseService
	Students     StudentService
	Lessons      LessonService
	Homework     HomeworkService
	Certificates CertificateService
}

// NewServices initializes all services
func NewServices(deps Deps) *Services {
	return &Services{
		Courses:      NewCourseService(deps),
		Students:     NewStudentService(deps),
		Lessons:      NewLessonService(deps),
		Homework:     NewHomeworkService(deps),
		Certificates: NewCertificateService(deps),
	}
}
