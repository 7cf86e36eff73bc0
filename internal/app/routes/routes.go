package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/controllers"
	"github.com/minilms/minilms/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter.
type Controllers struct {
	Course      *controllers.CourseController
	Student     *controllers.StudentController
	Lesson      *controllers.LessonController
	Certificate *controllers.CertificateController
	Health      *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers) {
	router.GET("/ping", c.Health.Ping)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", c.Health.Health)

	courses := v1.Group("/courses")
	{
		courses.GET("", c.Course.GetAllCourses)
		courses.POST("", c.Course.CreateCourse)
		courses.GET("/:id", c.Course.GetCourseByID)
		courses.PUT("/:id", c.Course.UpdateCourse)
		courses.DELETE("/:id", c.Course.DeleteCourse)
		courses.GET("/:id/lessons", c.Lesson.GetLessonsByCourse)
	}

	students := v1.Group("/students")
	{
		students.GET("", c.Student.GetAllStudents)
		students.POST("", c.Student.CreateStudent)
		students.GET("/:id", c.Student.GetStudentByID)
		students.DELETE("/:id", c.Student.DeleteStudent)
		students.GET("/:id/certificates", c.Certificate.GetStudentCertificates)
		students.GET("/:id/homework", c.Lesson.GetHomeworkByStudent)
		students.GET("/:id/courses/:courseId/certificate", c.Certificate.HasCertificate)
	}

	lessons := v1.Group("/lessons")
	{
		lessons.POST("", middleware.LimitBody(middleware.MaxUploadSize), c.Lesson.CreateLesson)
		lessons.GET("/:id", c.Lesson.GetLessonByID)
		lessons.DELETE("/:id", c.Lesson.DeleteLesson)
		lessons.GET("/:id/students", c.Lesson.GetEnrolledStudents)
		lessons.POST("/:id/homework", middleware.LimitBody(middleware.MaxUploadSize), c.Lesson.SubmitHomework)
		lessons.GET("/:id/homework", c.Lesson.GetHomeworkByLesson)
		lessons.GET("/:id/homework/:submissionId", c.Lesson.GetHomework)
	}

	certificates := v1.Group("/certificates")
	{
		certificates.POST("/:courseId/:studentId/generate", c.Certificate.GenerateCertificate)
	}
}
