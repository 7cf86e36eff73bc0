package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/models"
	"github.com/minilms/minilms/internal/app/models/dto"
	"github.com/minilms/minilms/internal/app/services"
	"github.com/minilms/minilms/internal/middleware"
	"github.com/minilms/minilms/internal/pkg/filestorage"
)

// LessonController handles lesson and homework operations
type LessonController struct {
	lessonService   services.LessonService
	homeworkService services.HomeworkService
	fileStorage     filestorage.FileStorage
}

// NewLessonController creates a new LessonController
func NewLessonController(lessonService services.LessonService, homeworkService services.HomeworkService, fileStorage filestorage.FileStorage) *LessonController {
	return &LessonController{
		lessonService:   lessonService,
		homeworkService: homeworkService,
		fileStorage:     fileStorage,
	}
}

// formFile returns the named upload, or nil when the part is absent.
func formFile(ctx *gin.Context, field string) (*multipart.FileHeader, error) {
	file, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return file, err
}

func badUpload(ctx *gin.Context, field string, err error) {
	if middleware.AbortIfTooLarge(ctx, err) {
		return
	}
	detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid file upload").
		WithField(field).
		WithDetails(err.Error())
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

// CreateLesson handles lesson creation
// @Summary Create a lesson
// @Description Creates a lesson with optional materials and emails the students enrolled in its course
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Param courseId formData int true "Course ID"
// @Param title formData string true "Lesson title"
// @Param content formData string false "Lesson content"
// @Param materials formData file false "Lesson materials"
// @Success 201 {object} dto.APIResponse{data=dto.LessonResponse} "Lesson created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data or unknown course"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	var req dto.CreateLessonRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}

	materials, err := formFile(ctx, "materials")
	if err != nil {
		badUpload(ctx, "materials", err)
		return
	}

	lesson := &models.Lesson{
		CourseID: req.CourseID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if err := c.lessonService.CreateLesson(ctx, lesson, materials); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(toLessonResponse(lesson, c.fileStorage)))
}

// GetLessonByID retrieves a lesson
// @Summary Get lesson details
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse} "Lesson retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson ID format"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [get]
func (c *LessonController) GetLessonByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.lessonService.GetLessonByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toLessonResponse(lesson, c.fileStorage)))
}

// GetLessonsByCourse lists the lessons of a course
// @Summary List lessons of a course
// @Tags lessons
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.LessonResponse} "Lessons retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/lessons [get]
func (c *LessonController) GetLessonsByCourse(ctx *gin.Context) {
	courseID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	lessons, err := c.lessonService.ListLessonsByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := make([]dto.LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		response = append(response, toLessonResponse(lesson, c.fileStorage))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response))
}

// GetEnrolledStudents lists the students who may submit homework for a lesson
// @Summary List students enrolled in a lesson's course
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrolledStudentResponse} "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson ID format"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id}/students [get]
func (c *LessonController) GetEnrolledStudents(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	students, err := c.lessonService.ListEnrolledStudents(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := make([]dto.EnrolledStudentResponse, 0, len(students))
	for _, s := range students {
		response = append(response, dto.EnrolledStudentResponse{ID: s.ID, Name: s.Name, Email: s.Email})
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response))
}

// DeleteLesson deletes a lesson
// @Summary Delete a lesson
// @Description Deletes a lesson with its homework submissions
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Lesson deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson ID"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.lessonService.DeleteLesson(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Lesson deleted successfully"}))
}

// SubmitHomework handles a homework upload for a lesson
// @Summary Submit homework
// @Description Stores the homework file with status submitted and notifies the operator
// @Tags homework
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Param studentId formData int true "Student ID"
// @Param comment formData string false "Comment"
// @Param file formData file true "Homework file"
// @Success 201 {object} dto.APIResponse{data=dto.HomeworkResponse} "Homework submitted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data"
// @Failure 404 {object} dto.ErrorResponse "Lesson or student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id}/homework [post]
func (c *LessonController) SubmitHomework(ctx *gin.Context) {
	lessonID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitHomeworkRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}

	file, err := formFile(ctx, "file")
	if err != nil {
		badUpload(ctx, "file", err)
		return
	}

	submission, err := c.homeworkService.SubmitHomework(ctx, lessonID, req.StudentID, req.Comment, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(toHomeworkResponse(submission, c.fileStorage)))
}

// GetHomeworkByLesson lists the submissions of a lesson
// @Summary List homework of a lesson
// @Tags homework
// @Produce json
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.HomeworkResponse} "Submissions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lesson ID format"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id}/homework [get]
func (c *LessonController) GetHomeworkByLesson(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	submissions, err := c.homeworkService.ListByLesson(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := make([]dto.HomeworkResponse, 0, len(submissions))
	for _, submission := range submissions {
		response = append(response, toHomeworkResponse(submission, c.fileStorage))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response))
}

// GetHomework retrieves one submission of a lesson
// @Summary Get a homework submission
// @Tags homework
// @Produce json
// @Param id path int true "Lesson ID" Format(int64) minimum(1)
// @Param submissionId path int true "Submission ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.HomeworkResponse} "Submission retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Lesson or submission not found"
// @Router /lessons/{id}/homework/{submissionId} [get]
func (c *LessonController) GetHomework(ctx *gin.Context) {
	lessonID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	submissionID, ok := parseID(ctx, "submissionId")
	if !ok {
		return
	}

	submission, err := c.homeworkService.GetSubmission(ctx, lessonID, submissionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toHomeworkResponse(submission, c.fileStorage)))
}

// GetHomeworkByStudent lists the submissions of a student
// @Summary List homework of a student
// @Tags homework
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.HomeworkResponse} "Submissions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/homework [get]
func (c *LessonController) GetHomeworkByStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	submissions, err := c.homeworkService.ListByStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := make([]dto.HomeworkResponse, 0, len(submissions))
	for _, submission := range submissions {
		response = append(response, toHomeworkResponse(submission, c.fileStorage))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response))
}
