package dto

// --- Request DTOs ---

// CourseRequest is the body for creating or editing a course.
type CourseRequest struct {
	Title       string `json:"title" example:"Algebra"`
	Description string `json:"description" example:"Linear equations and polynomials"`
	Teacher     string `json:"teacher" example:"Dr. Ivanova"`
}

// --- Response DTOs ---

// CourseResponse represents a course in API responses.
type CourseResponse struct {
	ID          int64            `json:"id" example:"1"`
	Title       string           `json:"title" example:"Algebra"`
	Description string           `json:"description"`
	Teacher     string           `json:"teacher" example:"Dr. Ivanova"`
	CreatedAt   string           `json:"createdAt" example:"2024-01-15T10:00:00Z"`
	Lessons     []LessonResponse `json:"lessons,omitempty"`
}
