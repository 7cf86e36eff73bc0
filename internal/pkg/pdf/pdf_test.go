package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = CertificateData{
	StudentName: "Ana",
	CourseTitle: "Algebra",
	IssuedAt:    time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC),
}

func TestFPDFRendererWritesCertificateLines(t *testing.T) {
	out, err := NewFPDFRenderer(false).Render(context.Background(), sample)
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "%PDF-")
	assert.Contains(t, body, TitleLine)
	assert.Contains(t, body, "This certifies that Ana")
	assert.Contains(t, body, CompletionLine)
	assert.Contains(t, body, "(Algebra)")
	assert.Contains(t, body, "Issued on: 2024-03-09")
}

func TestFPDFRendererCompressed(t *testing.T) {
	out, err := NewFPDFRenderer(true).Render(context.Background(), sample)
	require.NoError(t, err)
	assert.Contains(t, string(out[:8]), "%PDF-")
	assert.NotContains(t, string(out), "This certifies that Ana")
}

func TestFPDFRendererHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFPDFRenderer(false).Render(ctx, sample)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChromeRendererHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "certificate.html")
	require.NoError(t, os.WriteFile(path, []byte(
		`<h1>{{.Title}}</h1><p>{{.StudentLine}}</p><p>{{.CompletionLine}}</p><h2>{{.CourseTitle}}</h2><p>{{.DateLine}}</p>`,
	), 0o600))

	r, err := NewChromeRenderer(path)
	require.NoError(t, err)

	html, err := r.HTML(CertificateData{StudentName: "<Ana>", CourseTitle: "Algebra", IssuedAt: sample.IssuedAt})
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>CERTIFICATE OF COMPLETION</h1>")
	assert.Contains(t, html, "This certifies that &lt;Ana&gt;")
	assert.Contains(t, html, "Issued on: 2024-03-09")
}

func TestNewChromeRendererMissingTemplate(t *testing.T) {
	_, err := NewChromeRenderer(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
