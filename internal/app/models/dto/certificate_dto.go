package dto

// CertificateResponse represents an issued certificate.
type CertificateResponse struct {
	ID        int64  `json:"id" example:"1"`
	StudentID int64  `json:"studentId" example:"7"`
	CourseID  int64  `json:"courseId" example:"1"`
	PDFURL    string `json:"pdfUrl" example:"http://localhost:8080/uploads/certificates/certificate_7_1.pdf"`
	IssuedAt  string `json:"issuedAt" example:"2024-01-15T10:00:00Z"`
}

// IssueCertificateResponse reports whether a call created the certificate.
type IssueCertificateResponse struct {
	Status      string              `json:"status" example:"issued" enums:"issued,already_issued"`
	Certificate CertificateResponse `json:"certificate"`
}

// HasCertificateResponse answers whether a student holds a course certificate.
type HasCertificateResponse struct {
	StudentID      int64 `json:"studentId" example:"7"`
	CourseID       int64 `json:"courseId" example:"1"`
	HasCertificate bool  `json:"hasCertificate" example:"true"`
}
