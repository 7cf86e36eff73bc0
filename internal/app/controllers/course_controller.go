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

// CourseController handles course-related operations
type CourseController struct {
	courseService services.CourseService
	fileStorage   filestorage.FileStorage
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, fileStorage filestorage.FileStorage) *CourseController {
	return &CourseController{
		courseService: courseService,
		fileStorage:   fileStorage,
	}
}

// GetAllCourses retrieves all courses
// @Summary List courses
// @Description Retrieves all courses, newest first
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse} "Courses retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		response = append(response, toCourseResponse(course))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response))
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Description Creates a course with the provided information
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Teacher:     req.Teacher,
	}
	if err := c.courseService.CreateCourse(ctx, course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(toCourseResponse(course)))
}

// GetCourseByID retrieves a course with its lessons
// @Summary Get course details
// @Description Retrieves a course and its lessons in creation order
// @Tags courses
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	course, lessons, err := c.courseService.GetCourseWithLessons(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := toCourseResponse(course)
	response.Lessons = make([]dto.LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		response.Lessons = append(response.Lessons, toLessonResponse(lesson, c.fileStorage))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response))
}

// UpdateCourse updates an existing course
// @Summary Update a course
// @Description Replaces the title, description and teacher of a course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Param request body dto.CourseRequest true "Updated course information"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course := &models.Course{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Teacher:     req.Teacher,
	}
	if err := c.courseService.UpdateCourse(ctx, course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toCourseResponse(course)))
}

// DeleteCourse deletes a course
// @Summary Delete a course
// @Description Deletes a course with its lessons, homework submissions, enrollments and certificates
// @Tags courses
// @Produce json
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Course deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Course deleted successfully"}))
}
