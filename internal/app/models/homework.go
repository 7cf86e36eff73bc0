package models

import "time"

// SubmissionStatus is the review state of a homework submission.
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionAccepted  SubmissionStatus = "accepted"
	SubmissionRejected  SubmissionStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionSubmitted, SubmissionAccepted, SubmissionRejected:
		return true
	}
	return false
}

// HomeworkSubmission is a student's file response to a lesson.
type HomeworkSubmission struct {
	ID         int64            `json:"id" db:"id"`
	StudentID  int64            `json:"studentId" db:"student_id" validate:"required,gt=0"`
	LessonID   int64            `json:"lessonId" db:"lesson_id" validate:"required,gt=0"`
	File       string           `json:"file" db:"file" validate:"required"`
	Comment    string           `json:"comment" db:"comment"`
	Status     SubmissionStatus `json:"status" db:"status" validate:"omitempty,oneof=submitted accepted rejected"`
	ReviewedAt *time.Time       `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
}
