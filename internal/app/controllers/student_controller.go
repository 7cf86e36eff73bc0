package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/models/dto"
	"github.com/minilms/minilms/internal/app/services"
	"github.com/minilms/minilms/internal/middleware"
	"github.com/minilms/minilms/internal/pkg/filestorage"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentService
	fileStorage    filestorage.FileStorage
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, fileStorage filestorage.FileStorage) *StudentController {
	return &StudentController{
		studentService: studentService,
		fileStorage:    fileStorage,
	}
}

// GetAllStudents retrieves all students
// @Summary List students
// @Description Retrieves all students, newest first
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse} "Students retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		response = append(response, toStudentResponse(student))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response))
}

// CreateStudent handles student registration
// @Summary Register a student
// @Description Creates a student and enrolls them in the given courses. The email must be unused (case-insensitive).
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data, email already used or unknown course"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student := &models.Student{
		Name:      req.Name,
		Email:     req.Email,
		CourseIDs: req.CourseIDs,
	}
	if err := c.studentService.CreateStudent(ctx, student); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondWithDetail(ctx, http.StatusCreated, student.ID)
}

// GetStudentByID retrieves a student with courses and certificates
// @Summary Get student details
// @Description Retrieves a student with enrolled courses and issued certificates
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	c.respondWithDetail(ctx, http.StatusOK, id)
}

func (c *StudentController) respondWithDetail(ctx *gin.Context, status int, id int64) {
	detail, err := c.studentService.GetStudentDetail(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := toStudentResponse(detail.Student)
	for _, course := range detail.Courses {
		response.Courses = append(response.Courses, toCourseResponse(course))
	}
	for _, certificate := range detail.Certificates {
		response.Certificates = append(response.Certificates, toCertificateResponse(certificate, c.fileStorage))
	}
	ctx.JSON(status, dto.NewAPIResponse(response))
}

// DeleteStudent deletes a student
// @Summary Delete a student
// @Description Deletes a student with their enrollments, homework submissions and certificates
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student deleted successfully"}))
}
