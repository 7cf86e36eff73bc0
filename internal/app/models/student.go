package models

import "time"

// Student defines the student model based on the 'students' table.
// CourseIDs holds the enrollment set; order carries no meaning.
type Student struct {
	ID        int64     `json:"id" db:"id" example:"7"`
	Name      string    `json:"name" db:"name" validate:"required,notblank,singleline,max=150" example:"Ana"`
	Email     string    `json:"email" db:"email" validate:"required,email,max=254" example:"ana@x.com"`
	CourseIDs []int64   `json:"courseIds" validate:"dive,gt=0"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsEnrolled reports whether the student is enrolled in the course.
func (s *Student) IsEnrolled(courseID int64) bool {
	for _, id := range s.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
