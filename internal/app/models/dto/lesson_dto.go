package dto

// CreateLessonRequest holds the multipart form fields of a new lesson.
// Materials arrive as the optional "materials" file part.
type CreateLessonRequest struct {
	CourseID int64  `form:"courseId" example:"1"`
	Title    string `form:"title" example:"Quadratic equations"`
	Content  string `form:"content"`
}

// LessonResponse represents a lesson in API responses.
type LessonResponse struct {
	ID           int64  `json:"id" example:"3"`
	CourseID     int64  `json:"courseId" example:"1"`
	Title        string `json:"title" example:"Quadratic equations"`
	Content      string `json:"content"`
	MaterialsURL string `json:"materialsUrl,omitempty" example:"http://localhost:8080/uploads/materials/3f0c.pdf"`
	CreatedAt    string `json:"createdAt" example:"2024-01-15T10:00:00Z"`
}

// EnrolledStudentResponse is one choice in the homework student picker.
type EnrolledStudentResponse struct {
	ID    int64  `json:"id" example:"7"`
	Name  string `json:"name" example:"Ana"`
	Email string `json:"email" example:"ana@x.com"`
}
