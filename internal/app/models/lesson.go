package models

import "time"

// Lesson belongs to exactly one course.
type Lesson struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id" validate:"required,gt=0"`
	Title     string    `json:"title" db:"title" validate:"required,notblank,singleline,max=255"`
	Content   string    `json:"content" db:"content"`
	Materials *string   `json:"materials,omitempty" db:"materials"` // Nullable file reference
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
