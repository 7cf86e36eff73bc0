package models

import "time"

// Course is a teachable unit that owns lessons and enrolls students.
type Course struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Title       string    `json:"title" db:"title" validate:"required,notblank,singleline,max=255" example:"Algebra"`
	Description string    `json:"description" db:"description"`
	Teacher     string    `json:"teacher" db:"teacher" validate:"singleline,max=150" example:"Dr. Ivanova"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
