package seed

import (
	"context"

	appModels "github.com/minilms/minilms/internal/app/models"
	appServices "github.com/minilms/minilms/internal/app/services"
	"github.com/rs/zerolog"
)

// Demo data created when seeding is enabled.
const (
	DemoCourseTitle  = "Algebra"
	DemoStudentName  = "Ana"
	DemoStudentEmail = "ana@x.com"
)

// CreateDefaultData creates a demo course and a student enrolled in it.
// Records that already exist are left untouched, so it is safe to run on
// every start.
func CreateDefaultData(ctx context.Context, svc *appServices.Services, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (course/student)...")
	course, err := findOrCreateCourse(ctx, svc.Courses)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo course")
		return err
	}

	students, err := svc.Students.ListStudents(ctx)
	if err != nil {
		return err
	}
	for _, s := range students {
		if s.Email == DemoStudentEmail {
			lgr.Info().Int64("studentID", s.ID).Msg("Demo student already exists")
			return nil
		}
	}

	student := &appModels.Student{
		Name:      DemoStudentName,
		Email:     DemoStudentEmail,
		CourseIDs: []int64{course.ID},
	}
	if err := svc.Students.CreateStudent(ctx, student); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo student")
		return err
	}

	lgr.Info().Int64("courseID", course.ID).Int64("studentID", student.ID).Msg("Demo data created")
	return nil
}

func findOrCreateCourse(ctx context.Context, courses appServices.CourseService) (*appModels.Course, error) {
	existing, err := courses.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.Title == DemoCourseTitle {
			return c, nil
		}
	}

	course := &appModels.Course{
		Title:       DemoCourseTitle,
		Description: "Linear equations and polynomials",
		Teacher:     "Dr. Ivanova",
	}
	if err := courses.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}
