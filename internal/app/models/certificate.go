package models

import (
	"fmt"
	"time"
)

// Certificate proves that a student completed a course. At most one exists
// per (student, course) pair.
type Certificate struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	PDF       string    `json:"pdf" db:"pdf"`
	IssuedAt  time.Time `json:"issuedAt" db:"issued_at"`
}

// CertificateFileName is the deterministic artifact name for a pair.
func CertificateFileName(studentID, courseID int64) string {
	return fmt.Sprintf("certificate_%d_%d.pdf", studentID, courseID)
}
