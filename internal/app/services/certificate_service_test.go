package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/repositories"
	"github.com/minilms/minilms/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCertificate(t *testing.T, e *env, ref string) string {
	t.Helper()
	full, err := e.storage.GetFullPath(ref)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	return string(data)
}

// anaInAlgebra sets up course 1 "Algebra" and student 7 "Ana" enrolled in it.
func anaInAlgebra(t *testing.T, e *env) (*models.Student, *models.Course) {
	t.Helper()
	algebra := e.course(t, "Algebra")
	require.Equal(t, int64(1), algebra.ID)
	for i := 1; i <= 6; i++ {
		e.student(t, fmt.Sprintf("Filler %d", i), fmt.Sprintf("filler%d@x.com", i))
	}
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID)
	require.Equal(t, int64(7), ana.ID)
	return ana, algebra
}

func TestIssueCertificateScenario(t *testing.T) {
	e := newEnv(t)
	ana, algebra := anaInAlgebra(t, e)

	first, err := e.svc.Certificates.IssueCertificate(e.ctx, ana.ID, algebra.ID)
	require.NoError(t, err)
	assert.Equal(t, IssueStatusIssued, first.Status)
	assert.Equal(t, "certificates/certificate_7_1.pdf", first.Certificate.PDF)
	assert.Equal(t, "certificate_7_1.pdf", filepath.Base(first.Certificate.PDF))

	doc := readCertificate(t, e, first.Certificate.PDF)
	assert.Contains(t, doc, "CERTIFICATE OF COMPLETION")
	assert.Contains(t, doc, "This certifies that Ana")
	assert.Contains(t, doc, "(Algebra)")

	second, err := e.svc.Certificates.IssueCertificate(e.ctx, ana.ID, algebra.ID)
	require.NoError(t, err)
	assert.Equal(t, IssueStatusAlreadyIssued, second.Status)
	assert.Equal(t, first.Certificate.ID, second.Certificate.ID)

	certs, err := e.svc.Certificates.ListForStudent(e.ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, certs, 1)

	has, err := e.svc.Certificates.HasCertificate(e.ctx, ana.ID, algebra.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestIssueCertificateUsesItsOwnIssuanceTime(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID)
	bo := e.student(t, "Bo", "bo@x.com", algebra.ID)

	march := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	june := time.Date(2024, 6, 21, 16, 30, 0, 123456789, time.UTC)
	e.withClock(march, june)

	anaOutcome, err := e.svc.Certificates.IssueCertificate(e.ctx, ana.ID, algebra.ID)
	require.NoError(t, err)
	boOutcome, err := e.svc.Certificates.IssueCertificate(e.ctx, bo.ID, algebra.ID)
	require.NoError(t, err)

	assert.True(t, anaOutcome.Certificate.IssuedAt.Equal(march))
	assert.True(t, boOutcome.Certificate.IssuedAt.Equal(june.Truncate(time.Microsecond)))

	boDoc := readCertificate(t, e, boOutcome.Certificate.PDF)
	assert.Contains(t, boDoc, "Issued on: 2024-06-21")
	assert.NotContains(t, boDoc, "Issued on: 2024-03-09")

	anaDoc := readCertificate(t, e, anaOutcome.Certificate.PDF)
	assert.Contains(t, anaDoc, "Issued on: 2024-03-09")
}

func TestIssueCertificateConcurrentCallsCreateOneRow(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID)

	const callers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[IssueStatus]int{}
		ids      = map[int64]bool{}
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			outcome, err := e.svc.Certificates.IssueCertificate(context.Background(), ana.ID, algebra.ID)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			statuses[outcome.Status]++
			ids[outcome.Certificate.ID] = true
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, statuses[IssueStatusIssued])
	assert.Equal(t, callers-1, statuses[IssueStatusAlreadyIssued])
	assert.Len(t, ids, 1)

	certs, err := e.store.Certificates().ListByStudent(e.ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, certs, 1)
}

func TestIssueCertificateUnknownEntities(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	ana := e.student(t, "Ana", "ana@x.com")

	_, err := e.svc.Certificates.IssueCertificate(e.ctx, 999, algebra.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = e.svc.Certificates.IssueCertificate(e.ctx, ana.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	_, err = os.Stat(filepath.Join(e.storage.BasePath(), CertificatesDir))
	assert.True(t, os.IsNotExist(err), "no certificate file may be written")

	has, err := e.svc.Certificates.HasCertificate(e.ctx, ana.ID, algebra.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = e.svc.Certificates.ListForStudent(e.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

type failingCertificates struct {
	repositories.CertificateRepository
}

func (failingCertificates) Create(context.Context, *models.Certificate) error {
	return errors.New("disk full")
}

// failingStore fails every certificate insert, inside transactions too.
type failingStore struct {
	repositories.Store
}

func (f failingStore) Certificates() repositories.CertificateRepository {
	return failingCertificates{f.Store.Certificates()}
}

func (f failingStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	return f.Store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		return fn(ctx, failingStore{tx})
	})
}

func TestIssueCertificateRemovesFileWhenInsertFails(t *testing.T) {
	e := newEnv(t)
	algebra := e.course(t, "Algebra")
	ana := e.student(t, "Ana", "ana@x.com", algebra.ID)

	deps := e.deps
	deps.Store = failingStore{e.store}
	svc := NewCertificateService(deps)

	_, err := svc.IssueCertificate(e.ctx, ana.ID, algebra.ID)
	require.Error(t, err)

	full, err := e.storage.GetFullPath("certificates/" + models.CertificateFileName(ana.ID, algebra.ID))
	require.NoError(t, err)
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	certs, err := e.store.Certificates().ListByStudent(e.ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, certs)
}
