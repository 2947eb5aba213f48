package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge/course-service/internal/services"
	"github.com/skillforge/course-service/internal/utils"
	"github.com/skillforge/course-service/internal/validator"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
	validator         *validator.Validator
}

func NewEnrollmentHandler(
	enrollmentService services.EnrollmentService,
	validator *validator.Validator,
	logger utils.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
		validator:         validator,
	}
}

// Enroll enrolls the authenticated user in a course
// @Summary Enroll in course
// @Tags enrollments
// @Produce json
// @Param courseId path uint true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollments/{courseId} [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	courseID := ParseUintIDParam(c, "courseId")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Enrolling in course", "course_id", courseID)

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), courseID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// GetMyEnrollments lists the authenticated user's enrollments, newest first
// @Summary List my enrollments
// @Tags enrollments
// @Produce json
// @Success 200 {array} models.Enrollment
// @Failure 401 {object} ErrorResponse
// @Router /enrollments/my-enrollments [get]
func (h *EnrollmentHandler) GetMyEnrollments(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}

	enrollments, err := h.enrollmentService.ListByStudent(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// GetEnrollment retrieves a single enrollment owned by the caller
// @Summary Get enrollment
// @Tags enrollments
// @Produce json
// @Param enrollmentId path uint true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/{enrollmentId} [get]
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	enrollmentID := ParseUintIDParam(c, "enrollmentId")
	if enrollmentID == 0 {
		return
	}

	enrollment, err := h.enrollmentService.GetByID(c.Request.Context(), enrollmentID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// CompleteLesson records lesson completion and updates progress
// @Summary Complete lesson
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollmentId path uint true "Enrollment ID"
// @Param lesson body services.CompleteLessonRequest true "Lesson to complete"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollments/{enrollmentId}/complete-lesson [put]
func (h *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	enrollmentID := ParseUintIDParam(c, "enrollmentId")
	if enrollmentID == 0 {
		return
	}

	var req services.CompleteLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Completing lesson", "enrollment_id", enrollmentID, "lesson_id", req.LessonID)

	enrollment, err := h.enrollmentService.CompleteLesson(c.Request.Context(), enrollmentID, userID, req.LessonID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// CancelEnrollment removes an enrollment and its completion records
// @Summary Cancel enrollment
// @Tags enrollments
// @Produce json
// @Param enrollmentId path uint true "Enrollment ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/{enrollmentId} [delete]
func (h *EnrollmentHandler) CancelEnrollment(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	enrollmentID := ParseUintIDParam(c, "enrollmentId")
	if enrollmentID == 0 {
		return
	}

	h.LogRequest(c, "Cancelling enrollment", "enrollment_id", enrollmentID)

	if err := h.enrollmentService.Cancel(c.Request.Context(), enrollmentID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Enrollment cancelled"})
}
