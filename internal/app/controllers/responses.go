package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/models/dto"
	"github.com/minilms/minilms/internal/middleware"
	"github.com/minilms/minilms/internal/pkg/filestorage"
)

// parseID reads a positive integer path parameter. On failure it writes the
// 400 response and returns false.
func parseID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleInvalidID(ctx, name)
		return 0, false
	}
	return id, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toCourseResponse(course *models.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Teacher:     course.Teacher,
		CreatedAt:   formatTime(course.CreatedAt),
	}
}

func toLessonResponse(lesson *models.Lesson, storage filestorage.FileStorage) dto.LessonResponse {
	response := dto.LessonResponse{
		ID:        lesson.ID,
		CourseID:  lesson.CourseID,
		Title:     lesson.Title,
		Content:   lesson.Content,
		CreatedAt: formatTime(lesson.CreatedAt),
	}
	if lesson.Materials != nil {
		response.MaterialsURL = storage.URL(*lesson.Materials)
	}
	return response
}

func toCertificateResponse(certificate *models.Certificate, storage filestorage.FileStorage) dto.CertificateResponse {
	return dto.CertificateResponse{
		ID:        certificate.ID,
		StudentID: certificate.StudentID,
		CourseID:  certificate.CourseID,
		PDFURL:    storage.URL(certificate.PDF),
		IssuedAt:  formatTime(certificate.IssuedAt),
	}
}

func toStudentResponse(student *models.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:        student.ID,
		Name:      student.Name,
		Email:     student.Email,
		CreatedAt: formatTime(student.CreatedAt),
		Courses:   []dto.CourseResponse{},
	}
}

func toHomeworkResponse(submission *models.HomeworkSubmission, storage filestorage.FileStorage) dto.HomeworkResponse {
	response := dto.HomeworkResponse{
		ID:        submission.ID,
		StudentID: submission.StudentID,
		LessonID:  submission.LessonID,
		FileURL:   storage.URL(submission.File),
		Comment:   submission.Comment,
		Status:    string(submission.Status),
		CreatedAt: formatTime(submission.CreatedAt),
	}
	if submission.ReviewedAt != nil {
		reviewed := formatTime(*submission.ReviewedAt)
		response.ReviewedAt = &reviewed
	}
	return response
}
