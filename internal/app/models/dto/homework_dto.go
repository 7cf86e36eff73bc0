package dto

// SubmitHomeworkRequest holds the multipart form fields of a submission.
// The homework itself arrives as the required "file" part.
type SubmitHomeworkRequest struct {
	StudentID int64  `form:"studentId" example:"7"`
	Comment   string `form:"comment" example:"Exercises 1-5"`
}

// HomeworkResponse represents a homework submission in API responses.
type HomeworkResponse struct {
	ID         int64   `json:"id" example:"11"`
	StudentID  int64   `json:"studentId" example:"7"`
	LessonID   int64   `json:"lessonId" example:"3"`
	FileURL    string  `json:"fileUrl" example:"http://localhost:8080/uploads/homework/9a1e.pdf"`
	Comment    string  `json:"comment"`
	Status     string  `json:"status" example:"submitted" enums:"submitted,accepted,rejected"`
	ReviewedAt *string `json:"reviewedAt,omitempty"`
	CreatedAt  string  `json:"createdAt" example:"2024-01-15T10:00:00Z"`
}
