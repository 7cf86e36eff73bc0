package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseValidates(t *testing.T) {
	e := newEnv(t)

	err := e.svc.Courses.CreateCourse(e.ctx, &models.Course{Title: "   "})
	ve, ok := apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "title", ve.Fields[0].Field)

	courses, err := e.svc.Courses.ListCourses(e.ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestLineBreaksNeverReachNotificationSubjects(t *testing.T) {
	e := newEnv(t)

	err := e.svc.Courses.CreateCourse(e.ctx, &models.Course{Title: "Algebra\r\nBcc: all@x.com"})
	ve, ok := apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "title", ve.Fields[0].Field)

	algebra := e.course(t, "Algebra")
	e.student(t, "Ana", "ana@x.com", algebra.ID)

	err = e.svc.Lessons.CreateLesson(e.ctx, &models.Lesson{CourseID: algebra.ID, Title: "Intro\nBcc: all@x.com"}, nil)
	_, ok = apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Empty(t, e.notifier.all())
}

func TestUpdateCourse(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")

	err := e.svc.Courses.UpdateCourse(e.ctx, &models.Course{ID: algebra.ID, Title: " Algebra II ", Teacher: "Dr. Ivanova"})
	require.NoError(t, err)

	got, err := e.svc.Courses.GetCourseByID(e.ctx, algebra.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", got.Title)
	assert.Equal(t, "Dr. Ivanova", got.Teacher)

	err = e.svc.Courses.UpdateCourse(e.ctx, &models.Course{ID: 404, Title: "Nope"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDeleteCourseRemovesLessonsAndSubmissions(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	geometry := e.course(t, "Geometry")
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID, geometry.ID)

	const n = 3
	var lessonIDs []int64
	for i := 0; i < n; i++ {
		l := e.lesson(t, algebra.ID, "Lesson")
		lessonIDs = append(lessonIDs, l.ID)
		_, err := e.svc.Homework.SubmitHomework(e.ctx, l.ID, ana.ID, "", uploadHeader(t, "file", "hw.pdf", []byte("x")))
		require.NoError(t, err)
	}
	kept := e.lesson(t, geometry.ID, "Points")

	require.NoError(t, e.svc.Courses.DeleteCourse(e.ctx, algebra.ID))

	for _, id := range lessonIDs {
		_, err := e.svc.Lessons.GetLessonByID(e.ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)
	}
	subs, err := e.store.Submissions().ListByStudent(e.ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	_, err = e.svc.Lessons.GetLessonByID(e.ctx, kept.ID)
	assert.NoError(t, err)
	_, _, err = e.svc.Courses.GetCourseWithLessons(e.ctx, algebra.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestDeleteStudentKeepsCoursesAndLessons(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID)
	intro := e.lesson(t, algebra.ID, "Intro")
	_, err := e.svc.Homework.SubmitHomework(e.ctx, intro.ID, ana.ID, "done", uploadHeader(t, "file", "hw.pdf", []byte("x")))
	require.NoError(t, err)
	_, err = e.svc.Certificates.IssueCertificate(e.ctx, ana.ID, algebra.ID)
	require.NoError(t, err)

	require.NoError(t, e.svc.Students.DeleteStudent(e.ctx, ana.ID))

	subs, err := e.store.Submissions().ListByLesson(e.ctx, intro.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
	certs, err := e.store.Certificates().ListByStudent(e.ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, certs)

	course, lessons, err := e.svc.Courses.GetCourseWithLessons(e.ctx, algebra.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", course.Title)
	assert.Len(t, lessons, 1)
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.student(t, "Ana", "ana@x.com")

	err := e.svc.Students.CreateStudent(e.ctx, &models.Student{Name: "Other Ana", Email: "ana@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	ve, ok := apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "email", ve.Fields[0].Field)

	students, err := e.svc.Students.ListStudents(e.ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestCreateStudentUnknownCourse(t *testing.T) {
	e := newEnv(t)

	err := e.svc.Students.CreateStudent(e.ctx, &models.Student{Name: "Ana", Email: "ana@x.com", CourseIDs: []int64{5}})
	ve, ok := apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "courseIds", ve.Fields[0].Field)

	students, err := e.svc.Students.ListStudents(e.ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestGetStudentDetail(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	geometry := e.course(t, "Geometry")
	ana := e.student(t, "Ana", "ana@x.com", geometry.ID, algebra.ID)
	_, err := e.svc.Certificates.IssueCertificate(e.ctx, ana.ID, algebra.ID)
	require.NoError(t, err)

	detail, err := e.svc.Students.GetStudentDetail(e.ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", detail.Student.Name)
	require.Len(t, detail.Courses, 2)
	assert.ElementsMatch(t, []string{"Algebra", "Geometry"}, []string{detail.Courses[0].Title, detail.Courses[1].Title})
	require.Len(t, detail.Certificates, 1)
	assert.Equal(t, algebra.ID, detail.Certificates[0].CourseID)

	_, err = e.svc.Students.GetStudentDetail(e.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestCreateLessonNotifiesEnrolledStudents(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	geometry := e.course(t, "Geometry")
	e.student(t, "Ana", "ana@x.com", algebra.ID)
	e.student(t, "Bo", "bo@x.com", algebra.ID, geometry.ID)
	e.student(t, "Cy", "cy@x.com", geometry.ID)

	lesson := &models.Lesson{CourseID: algebra.ID, Title: "Quadratics", Content: "ax^2+bx+c"}
	require.NoError(t, e.svc.Lessons.CreateLesson(e.ctx, lesson, uploadHeader(t, "materials", "slides.PDF", []byte("slides"))))

	require.NotNil(t, lesson.Materials)
	assert.True(t, strings.HasPrefix(*lesson.Materials, "materials/"))
	full, err := e.storage.GetFullPath(*lesson.Materials)
	require.NoError(t, err)
	_, err = os.Stat(full)
	assert.NoError(t, err)

	sent := e.notifier.all()
	require.Len(t, sent, 1)
	assert.ElementsMatch(t, []string{"ana@x.com", "bo@x.com"}, sent[0].to)
	assert.Equal(t, "New lesson in course Algebra: Quadratics", sent[0].subject)
	assert.Equal(t, "A new lesson has been added: Quadratics. Details: http://lms.test/api/v1/lessons/1", sent[0].body)
}

func TestCreateLessonWithoutEnrolledStudentsSendsNothing(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	e.lesson(t, algebra.ID, "Intro")
	assert.Empty(t, e.notifier.all())
}

func TestCreateLessonUnknownCourse(t *testing.T) {
	e := newEnv(t)

	err := e.svc.Lessons.CreateLesson(e.ctx, &models.Lesson{CourseID: 9, Title: "Intro"}, uploadHeader(t, "materials", "a.pdf", []byte("x")))
	ve, ok := apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "courseId", ve.Fields[0].Field)

	_, err = os.Stat(filepath.Join(e.storage.BasePath(), MaterialsDir))
	assert.True(t, os.IsNotExist(err))
}

func TestListEnrolledStudents(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	e.student(t, "Bo", "bo@x.com", algebra.ID)
	e.student(t, "Ana", "ana@x.com", algebra.ID)
	e.student(t, "Cy", "cy@x.com")
	intro := e.lesson(t, algebra.ID, "Intro")

	students, err := e.svc.Lessons.ListEnrolledStudents(e.ctx, intro.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ana", students[0].Name)
	assert.Equal(t, "Bo", students[1].Name)

	_, err = e.svc.Lessons.ListEnrolledStudents(e.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)
}

func TestSubmitHomework(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	intro := e.lesson(t, algebra.ID, "Intro")
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID)

	sub, err := e.svc.Homework.SubmitHomework(e.ctx, intro.ID, ana.ID, " exercises 1-5 ", uploadHeader(t, "file", "hw.pdf", []byte("answers")))
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionSubmitted, sub.Status)
	assert.Nil(t, sub.ReviewedAt)
	assert.Equal(t, "exercises 1-5", sub.Comment)
	assert.True(t, strings.HasPrefix(sub.File, "homework/"))

	subs, err := e.svc.Homework.ListByLesson(e.ctx, intro.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	sent := e.notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"operator@lms.test"}, sent[0].to)
	assert.Equal(t, "New homework from Ana", sent[0].subject)
	assert.Equal(t, "Homework for lesson Intro has been submitted.", sent[0].body)
}

func TestHomeworkLookups(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	intro := e.lesson(t, algebra.ID, "Intro")
	outro := e.lesson(t, algebra.ID, "Outro")
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID)

	sub, err := e.svc.Homework.SubmitHomework(e.ctx, intro.ID, ana.ID, "", uploadHeader(t, "file", "hw.pdf", []byte("x")))
	require.NoError(t, err)

	got, err := e.svc.Homework.GetSubmission(e.ctx, intro.ID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.File, got.File)

	_, err = e.svc.Homework.GetSubmission(e.ctx, outro.ID, sub.ID)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
	_, err = e.svc.Homework.GetSubmission(e.ctx, intro.ID, sub.ID+1)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
	_, err = e.svc.Homework.GetSubmission(e.ctx, 999, sub.ID)
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)

	subs, err := e.svc.Homework.ListByStudent(e.ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)

	_, err = e.svc.Homework.ListByStudent(e.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestSubmitHomeworkUnknownStudentWritesNothing(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	intro := e.lesson(t, algebra.ID, "Intro")

	_, err := e.svc.Homework.SubmitHomework(e.ctx, intro.ID, 999, "", uploadHeader(t, "file", "hw.pdf", []byte("x")))
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	subs, err := e.svc.Homework.ListByLesson(e.ctx, intro.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
	_, err = os.Stat(filepath.Join(e.storage.BasePath(), HomeworkDir))
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, e.notifier.all())
}

func TestSubmitHomeworkRequiresLessonAndFile(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID)
	intro := e.lesson(t, algebra.ID, "Intro")

	_, err := e.svc.Homework.SubmitHomework(e.ctx, 999, ana.ID, "", uploadHeader(t, "file", "hw.pdf", []byte("x")))
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)

	_, err = e.svc.Homework.SubmitHomework(e.ctx, intro.ID, ana.ID, "", nil)
	ve, ok := apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "file", ve.Fields[0].Field)

	_, err = e.svc.Homework.SubmitHomework(e.ctx, intro.ID, 0, "", nil)
	ve, ok = apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "studentId", ve.Fields[0].Field)
}
