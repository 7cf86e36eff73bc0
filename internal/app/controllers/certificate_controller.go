package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/models/dto"
	"github.com/minilms/minilms/internal/app/services"
	"github.com/minilms/minilms/internal/middleware"
	"github.com/minilms/minilms/internal/pkg/filestorage"
)

// AlreadyIssuedNotice accompanies an issue call that found an existing certificate.
const AlreadyIssuedNotice = "Certificate already issued"

// CertificateController handles certificate operations
type CertificateController struct {
	certificateService services.CertificateService
	studentService     services.StudentService
	fileStorage        filestorage.FileStorage
}

// NewCertificateController creates a new CertificateController
func NewCertificateController(certificateService services.CertificateService, studentService services.StudentService, fileStorage filestorage.FileStorage) *CertificateController {
	return &CertificateController{
		certificateService: certificateService,
		studentService:     studentService,
		fileStorage:        fileStorage,
	}
}

// GenerateCertificate issues the certificate of a student for a course
// @Summary Issue a certificate
// @Description Renders and stores the course certificate of a student. A repeated call returns the existing certificate with status already_issued and a notice.
// @Tags certificates
// @Produce json
// @Param courseId path int true "Course ID" Format(int64) minimum(1)
// @Param studentId path int true "Student ID" Format(int64) minimum(1)
// @Success 201 {object} dto.APIResponse{data=dto.IssueCertificateResponse} "Certificate issued"
// @Success 200 {object} dto.APIResponse{data=dto.IssueCertificateResponse} "Certificate already issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /certificates/{courseId}/{studentId}/generate [post]
func (c *CertificateController) GenerateCertificate(ctx *gin.Context) {
	courseID, ok := parseID(ctx, "courseId")
	if !ok {
		return
	}
	studentID, ok := parseID(ctx, "studentId")
	if !ok {
		return
	}

	outcome, err := c.certificateService.IssueCertificate(ctx, studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.NewAPIResponse(dto.IssueCertificateResponse{
		Status:      string(outcome.Status),
		Certificate: toCertificateResponse(outcome.Certificate, c.fileStorage),
	})
	status := http.StatusCreated
	if outcome.Status == services.IssueStatusAlreadyIssued {
		status = http.StatusOK
		response.Notice = AlreadyIssuedNotice
	}
	ctx.JSON(status, response)
}

// GetStudentCertificates lists the certificates of a student
// @Summary List certificates of a student
// @Tags certificates
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.CertificateResponse} "Certificates retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/certificates [get]
func (c *CertificateController) GetStudentCertificates(ctx *gin.Context) {
	studentID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	certificates, err := c.certificateService.ListForStudent(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := make([]dto.CertificateResponse, 0, len(certificates))
	for _, certificate := range certificates {
		response = append(response, toCertificateResponse(certificate, c.fileStorage))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response))
}

// HasCertificate tells whether a student holds the certificate of a course
// @Summary Check a course certificate
// @Tags certificates
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param courseId path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.HasCertificateResponse} "Check completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/courses/{courseId}/certificate [get]
func (c *CertificateController) HasCertificate(ctx *gin.Context) {
	studentID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	courseID, ok := parseID(ctx, "courseId")
	if !ok {
		return
	}

	if _, err := c.studentService.GetStudentByID(ctx, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	has, err := c.certificateService.HasCertificate(ctx, studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.HasCertificateResponse{
		StudentID:      studentID,
		CourseID:       courseID,
		HasCertificate: has,
	}))
}
