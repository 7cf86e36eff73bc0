package dto

// CreateStudentRequest is the body for registering a student.
type CreateStudentRequest struct {
	Name      string  `json:"name" example:"Ana"`
	Email     string  `json:"email" example:"ana@x.com"`
	CourseIDs []int64 `json:"courseIds" example:"1"`
}

// StudentResponse represents a student with enrollments and certificates.
type StudentResponse struct {
	ID           int64                 `json:"id" example:"7"`
	Name         string                `json:"name" example:"Ana"`
	Email        string                `json:"email" example:"ana@x.com"`
	CreatedAt    string                `json:"createdAt" example:"2024-01-15T10:00:00Z"`
	Courses      []CourseResponse      `json:"courses"`
	Certificates []CertificateResponse `json:"certificates,omitempty"`
}
