package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/repositories/memory"
	"github.com/minilms/minilms/internal/pkg/filestorage"
	"github.com/minilms/minilms/internal/pkg/pdf"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type notification struct {
	to      []string
	subject string
	body    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(recipients []string, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{to: recipients, subject: subject, body: body})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

type env struct {
	ctx      context.Context
	store    *memory.Store
	storage  *filestorage.LocalStorage
	notifier *recordingNotifier
	deps     Deps
	svc      *Services
}

func newEnv(t *testing.T) *env {
	t.Helper()
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "http://lms.test")
	require.NoError(t, err)

	e := &env{
		ctx:      context.Background(),
		store:    memory.NewStore(),
		storage:  storage,
		notifier: &recordingNotifier{},
	}
	e.deps = Deps{
		Store:         e.store,
		Storage:       storage,
		Notifier:      e.notifier,
		Renderer:      pdf.NewFPDFRenderer(false),
		Logger:        zerolog.Nop(),
		BaseURL:       "http://lms.test/",
		OperatorEmail: "operator@lms.test",
	}
	e.svc = NewServices(e.deps)
	return e
}

// withClock rebuilds the services around a fixed sequence of instants.
func (e *env) withClock(instants ...time.Time) {
	var mu sync.Mutex
	i := 0
	e.deps.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := instants[i]
		if i < len(instants)-1 {
			i++
		}
		return t
	}
	e.svc = NewServices(e.deps)
}

func (e *env) course(t *testing.T, title string) *models.Course {
	t.Helper()
	c := &models.Course{Title: title}
	require.NoError(t, e.svc.Courses.CreateCourse(e.ctx, c))
	return c
}

func (e *env) student(t *testing.T, name, email string, courseIDs ...int64) *models.Student {
	t.Helper()
	s := &models.Student{Name: name, Email: email, CourseIDs: courseIDs}
	require.NoError(t, e.svc.Students.CreateStudent(e.ctx, s))
	return s
}

func (e *env) lesson(t *testing.T, courseID int64, title string) *models.Lesson {
	t.Helper()
	l := &models.Lesson{CourseID: courseID, Title: title}
	require.NoError(t, e.svc.Lessons.CreateLesson(e.ctx, l, nil))
	return l
}

func uploadHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}
