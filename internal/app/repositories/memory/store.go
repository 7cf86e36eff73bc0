// Package memory is an in-process Store used by tests and by the server
// when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/repositories"
)

type state struct {
	seq          map[string]int64
	courses      map[int64]*models.Course
	students     map[int64]*models.Student
	lessons      map[int64]*models.Lesson
	submissions  map[int64]*models.HomeworkSubmission
	certificates map[int64]*models.Certificate
}

func newState() *state {
	return &state{
		seq:          map[string]int64{},
		courses:      map[int64]*models.Course{},
		students:     map[int64]*models.Student{},
		lessons:      map[int64]*models.Lesson{},
		submissions:  map[int64]*models.HomeworkSubmission{},
		certificates: map[int64]*models.Certificate{},
	}
}

// nextID hands out ids per table, like a serial column.
func (st *state) nextID(table string) int64 {
	st.seq[table]++
	return st.seq[table]
}

func (st *state) clone() *state {
	c := newState()
	for table, n := range st.seq {
		c.seq[table] = n
	}
	for id, v := range st.courses {
		cp := *v
		c.courses[id] = &cp
	}
	for id, v := range st.students {
		c.students[id] = copyStudent(v)
	}
	for id, v := range st.lessons {
		cp := *v
		c.lessons[id] = &cp
	}
	for id, v := range st.submissions {
		cp := *v
		c.submissions[id] = &cp
	}
	for id, v := range st.certificates {
		cp := *v
		c.certificates[id] = &cp
	}
	return c
}

func copyStudent(s *models.Student) *models.Student {
	cp := *s
	cp.CourseIDs = append([]int64(nil), s.CourseIDs...)
	return &cp
}

// Store is a mutex-guarded in-memory repositories.Store. A transaction holds
// the mutex for its whole duration, so transactions are serialized and a
// failed one restores the snapshot taken when it began.
type Store struct {
	mu   *sync.Mutex
	st   **state
	inTx bool
	now  func() time.Time
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	st := newState()
	return &Store{mu: &sync.Mutex{}, st: &st, now: time.Now}
}

// WithClock replaces the clock used for created_at timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// lock acquires the mutex unless the caller already runs inside a transaction.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) data() *state {
	return *s.st
}

// Courses implements repositories.Store.
func (s *Store) Courses() repositories.CourseRepository { return &courseRepository{s} }

// Students implements repositories.Store.
func (s *Store) Students() repositories.StudentRepository { return &studentRepository{s} }

// Lessons implements repositories.Store.
func (s *Store) Lessons() repositories.LessonRepository { return &lessonRepository{s} }

// Submissions implements repositories.Store.
func (s *Store) Submissions() repositories.SubmissionRepository { return &submissionRepository{s} }

// Certificates implements repositories.Store.
func (s *Store) Certificates() repositories.CertificateRepository {
	return &certificateRepository{s}
}

// WithTransaction implements repositories.Store.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) (err error) {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data().clone()
	defer func() {
		if r := recover(); r != nil {
			*s.st = snapshot
			panic(r)
		}
		if err != nil {
			*s.st = snapshot
		}
	}()

	return fn(ctx, &Store{mu: s.mu, st: s.st, inTx: true, now: s.now})
}
