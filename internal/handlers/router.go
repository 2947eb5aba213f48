package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/skillforge/course-service/internal/middleware"
	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/services"
	"github.com/skillforge/course-service/internal/utils"
	"github.com/skillforge/course-service/internal/validator"
)

type HandlerManager struct {
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	jwtSecret         string
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	jwtSecret string,
) *HandlerManager {
	return &HandlerManager{
		userHandler:       NewUserHandler(serviceManager.User(), validator, logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), serviceManager.Report(), validator, logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), validator, logger),
		jwtSecret:         jwtSecret,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", HealthCheck)

	auth := middleware.Auth(hm.jwtSecret)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// User routes
		users := v1.Group("/users")
		{
			users.POST("", hm.userHandler.Register)
			users.GET("/instructors", hm.userHandler.GetInstructors)

			users.GET("/profile", auth, hm.userHandler.GetProfile)
			users.PUT("/profile", auth, hm.userHandler.UpdateProfile)
			users.GET("/enrolled-courses", auth, hm.userHandler.GetEnrolledCourses)
			users.GET("/wishlist", auth, hm.userHandler.GetWishlist)
			users.POST("/wishlist/:courseId", auth, hm.userHandler.AddToWishlist)
			users.DELETE("/wishlist/:courseId", auth, hm.userHandler.RemoveFromWishlist)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.GET("/:id/ratings", hm.courseHandler.GetCourseRatings)

			courses.POST("", auth, middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.GET("/my-courses", auth, hm.courseHandler.GetMyCourses)
			courses.PUT("/:id", auth, hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", auth, hm.courseHandler.DeleteCourse)
			courses.POST("/:id/publish", auth, hm.courseHandler.PublishCourse)
			courses.POST("/:id/rate", auth, hm.courseHandler.RateCourse)
			courses.GET("/:id/enrollments/export", auth, hm.courseHandler.ExportEnrollments)
		}

		// Enrollment routes
		enrollments := v1.Group("/enrollments")
		enrollments.Use(auth)
		{
			enrollments.GET("/my-enrollments", hm.enrollmentHandler.GetMyEnrollments)
			enrollments.POST("/:courseId", hm.enrollmentHandler.Enroll)
			enrollments.GET("/:enrollmentId", hm.enrollmentHandler.GetEnrollment)
			enrollments.PUT("/:enrollmentId/complete-lesson", hm.enrollmentHandler.CompleteLesson)
			enrollments.DELETE("/:enrollmentId", hm.enrollmentHandler.CancelEnrollment)
		}
	}
}

// HealthCheck returns service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "course-service",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
