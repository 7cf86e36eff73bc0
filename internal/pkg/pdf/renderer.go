// Package pdf renders completion certificates.
package pdf

import (
	"context"
	"time"
)

// DateLayout is the format of the issuance date printed on certificates.
const DateLayout = "2006-01-02"

// Certificate text lines.
const (
	TitleLine      = "CERTIFICATE OF COMPLETION"
	CompletionLine = "has successfully completed the course"
)

// CertificateData holds the fields printed on a certificate.
type CertificateData struct {
	StudentName string
	CourseTitle string
	IssuedAt    time.Time
}

// StudentLine is the sentence naming the student.
func (d CertificateData) StudentLine() string {
	return "This certifies that " + d.StudentName
}

// DateLine is the issuance date sentence.
func (d CertificateData) DateLine() string {
	return "Issued on: " + d.IssuedAt.Format(DateLayout)
}

// Renderer turns certificate data into a single-page PDF document.
type Renderer interface {
	Render(ctx context.Context, data CertificateData) ([]byte, error)
}
