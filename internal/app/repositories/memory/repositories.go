package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/repositories"
	"github.com/minilms/minilms/internal/pkg/apperrors"
)

// newestFirst orders by creation time, then by id, descending.
func newestFirst(aAt, bAt int64, aID, bID int64) bool {
	if aAt != bAt {
		return aAt > bAt
	}
	return aID > bID
}

type courseRepository struct{ s *Store }

func (r *courseRepository) Create(_ context.Context, course *models.Course) error {
	defer r.s.lock()()
	st := r.s.data()

	course.ID = st.nextID("courses")
	course.CreatedAt = r.s.now()
	cp := *course
	st.courses[course.ID] = &cp
	return nil
}

func (r *courseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	defer r.s.lock()()

	c, ok := r.s.data().courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *courseRepository) List(_ context.Context) ([]*models.Course, error) {
	defer r.s.lock()()

	courses := make([]*models.Course, 0, len(r.s.data().courses))
	for _, c := range r.s.data().courses {
		cp := *c
		courses = append(courses, &cp)
	}
	sort.Slice(courses, func(i, j int) bool {
		return newestFirst(courses[i].CreatedAt.UnixNano(), courses[j].CreatedAt.UnixNano(), courses[i].ID, courses[j].ID)
	})
	return courses, nil
}

func (r *courseRepository) Update(_ context.Context, course *models.Course) error {
	defer r.s.lock()()

	existing, ok := r.s.data().courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	existing.Title = course.Title
	existing.Description = course.Description
	existing.Teacher = course.Teacher
	course.CreatedAt = existing.CreatedAt
	return nil
}

// Delete cascades to lessons, their submissions, enrollments and certificates.
func (r *courseRepository) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	st := r.s.data()

	if _, ok := st.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(st.courses, id)

	for lessonID, l := range st.lessons {
		if l.CourseID == id {
			st.deleteLesson(lessonID)
		}
	}
	for certID, c := range st.certificates {
		if c.CourseID == id {
			delete(st.certificates, certID)
		}
	}
	for _, s := range st.students {
		kept := s.CourseIDs[:0]
		for _, cid := range s.CourseIDs {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		s.CourseIDs = kept
	}
	return nil
}

func (st *state) deleteLesson(id int64) {
	delete(st.lessons, id)
	for subID, sub := range st.submissions {
		if sub.LessonID == id {
			delete(st.submissions, subID)
		}
	}
}

type studentRepository struct{ s *Store }

func (r *studentRepository) emailTaken(email string) bool {
	for _, s := range r.s.data().students {
		if strings.EqualFold(s.Email, email) {
			return true
		}
	}
	return false
}

func (r *studentRepository) Create(_ context.Context, student *models.Student) error {
	defer r.s.lock()()
	st := r.s.data()

	if r.emailTaken(student.Email) {
		return apperrors.ErrEmailAlreadyExists
	}

	courseIDs := make([]int64, 0, len(student.CourseIDs))
	seen := map[int64]bool{}
	for _, cid := range student.CourseIDs {
		if _, ok := st.courses[cid]; !ok {
			return fmt.Errorf("enrollment in course %d: %w", cid, apperrors.ErrCourseNotFound)
		}
		if !seen[cid] {
			seen[cid] = true
			courseIDs = append(courseIDs, cid)
		}
	}
	sort.Slice(courseIDs, func(i, j int) bool { return courseIDs[i] < courseIDs[j] })

	student.ID = st.nextID("students")
	student.CreatedAt = r.s.now()
	student.CourseIDs = courseIDs
	st.students[student.ID] = copyStudent(student)
	return nil
}

func (r *studentRepository) get(id int64) (*models.Student, error) {
	s, ok := r.s.data().students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return copyStudent(s), nil
}

func (r *studentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	defer r.s.lock()()
	return r.get(id)
}

// GetByIDForUpdate relies on the transaction mutex for exclusivity.
func (r *studentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Student, error) {
	return r.GetByID(ctx, id)
}

func (r *studentRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	defer r.s.lock()()
	return r.emailTaken(email), nil
}

func (r *studentRepository) List(_ context.Context) ([]*models.Student, error) {
	defer r.s.lock()()

	students := make([]*models.Student, 0, len(r.s.data().students))
	for _, s := range r.s.data().students {
		students = append(students, copyStudent(s))
	}
	sort.Slice(students, func(i, j int) bool {
		return newestFirst(students[i].CreatedAt.UnixNano(), students[j].CreatedAt.UnixNano(), students[i].ID, students[j].ID)
	})
	return students, nil
}

func (r *studentRepository) ListByCourse(_ context.Context, courseID int64) ([]*models.Student, error) {
	defer r.s.lock()()

	students := []*models.Student{}
	for _, s := range r.s.data().students {
		if s.IsEnrolled(courseID) {
			students = append(students, copyStudent(s))
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].ID < students[j].ID
	})
	return students, nil
}

// Delete cascades to submissions and certificates.
func (r *studentRepository) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	st := r.s.data()

	if _, ok := st.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(st.students, id)

	for subID, sub := range st.submissions {
		if sub.StudentID == id {
			delete(st.submissions, subID)
		}
	}
	for certID, c := range st.certificates {
		if c.StudentID == id {
			delete(st.certificates, certID)
		}
	}
	return nil
}

type lessonRepository struct{ s *Store }

func (r *lessonRepository) Create(_ context.Context, lesson *models.Lesson) error {
	defer r.s.lock()()
	st := r.s.data()

	if _, ok := st.courses[lesson.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	lesson.ID = st.nextID("lessons")
	lesson.CreatedAt = r.s.now()
	cp := *lesson
	st.lessons[lesson.ID] = &cp
	return nil
}

func (r *lessonRepository) GetByID(_ context.Context, id int64) (*models.Lesson, error) {
	defer r.s.lock()()

	l, ok := r.s.data().lessons[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *lessonRepository) ListByCourse(_ context.Context, courseID int64) ([]*models.Lesson, error) {
	defer r.s.lock()()

	lessons := []*models.Lesson{}
	for _, l := range r.s.data().lessons {
		if l.CourseID == courseID {
			cp := *l
			lessons = append(lessons, &cp)
		}
	}
	sort.Slice(lessons, func(i, j int) bool {
		return !newestFirst(lessons[i].CreatedAt.UnixNano(), lessons[j].CreatedAt.UnixNano(), lessons[i].ID, lessons[j].ID)
	})
	return lessons, nil
}

// Delete cascades to the lesson's submissions.
func (r *lessonRepository) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	st := r.s.data()

	if _, ok := st.lessons[id]; !ok {
		return apperrors.ErrLessonNotFound
	}
	st.deleteLesson(id)
	return nil
}

type submissionRepository struct{ s *Store }

func (r *submissionRepository) Create(_ context.Context, submission *models.HomeworkSubmission) error {
	defer r.s.lock()()
	st := r.s.data()

	if _, ok := st.students[submission.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := st.lessons[submission.LessonID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	if err := repositories.NormalizeSubmissionStatus(submission); err != nil {
		return err
	}
	submission.ID = st.nextID("homework_submissions")
	submission.CreatedAt = r.s.now()
	cp := *submission
	st.submissions[submission.ID] = &cp
	return nil
}

func (r *submissionRepository) GetByID(_ context.Context, id int64) (*models.HomeworkSubmission, error) {
	defer r.s.lock()()

	sub, ok := r.s.data().submissions[id]
	if !ok {
		return nil, apperrors.ErrSubmissionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *submissionRepository) list(match func(*models.HomeworkSubmission) bool) []*models.HomeworkSubmission {
	defer r.s.lock()()

	submissions := []*models.HomeworkSubmission{}
	for _, sub := range r.s.data().submissions {
		if match(sub) {
			cp := *sub
			submissions = append(submissions, &cp)
		}
	}
	sort.Slice(submissions, func(i, j int) bool {
		return newestFirst(submissions[i].CreatedAt.UnixNano(), submissions[j].CreatedAt.UnixNano(), submissions[i].ID, submissions[j].ID)
	})
	return submissions
}

func (r *submissionRepository) ListByLesson(_ context.Context, lessonID int64) ([]*models.HomeworkSubmission, error) {
	return r.list(func(s *models.HomeworkSubmission) bool { return s.LessonID == lessonID }), nil
}

func (r *submissionRepository) ListByStudent(_ context.Context, studentID int64) ([]*models.HomeworkSubmission, error) {
	return r.list(func(s *models.HomeworkSubmission) bool { return s.StudentID == studentID }), nil
}

type certificateRepository struct{ s *Store }

func (r *certificateRepository) find(studentID, courseID int64) *models.Certificate {
	for _, c := range r.s.data().certificates {
		if c.StudentID == studentID && c.CourseID == courseID {
			return c
		}
	}
	return nil
}

func (r *certificateRepository) Create(_ context.Context, certificate *models.Certificate) error {
	defer r.s.lock()()
	st := r.s.data()

	if r.find(certificate.StudentID, certificate.CourseID) != nil {
		return apperrors.ErrCertificateAlreadyIssued
	}
	if _, ok := st.students[certificate.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := st.courses[certificate.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	certificate.ID = st.nextID("certificates")
	cp := *certificate
	st.certificates[certificate.ID] = &cp
	return nil
}

func (r *certificateRepository) GetByStudentAndCourse(_ context.Context, studentID, courseID int64) (*models.Certificate, error) {
	defer r.s.lock()()

	c := r.find(studentID, courseID)
	if c == nil {
		return nil, apperrors.ErrCertificateNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *certificateRepository) ListByStudent(_ context.Context, studentID int64) ([]*models.Certificate, error) {
	defer r.s.lock()()

	certificates := []*models.Certificate{}
	for _, c := range r.s.data().certificates {
		if c.StudentID == studentID {
			cp := *c
			certificates = append(certificates, &cp)
		}
	}
	sort.Slice(certificates, func(i, j int) bool {
		return newestFirst(certificates[i].IssuedAt.UnixNano(), certificates[j].IssuedAt.UnixNano(), certificates[i].ID, certificates[j].ID)
	})
	return certificates, nil
}
