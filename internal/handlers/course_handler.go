package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillforge/course-service/internal/services"
	"github.com/skillforge/course-service/internal/utils"
	"github.com/skillforge/course-service/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
	reportService services.ReportService
	validator     *validator.Validator
}

func NewCourseHandler(
	courseService services.CourseService,
	reportService services.ReportService,
	validator *validator.Validator,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
		reportService: reportService,
		validator:     validator,
	}
}

// CreateCourse creates a new course owned by the authenticated instructor
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}

	h.LogRequest(c, "Creating course")

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse retrieves a course by ID with instructor and ratings
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourses lists published courses with filtering and pagination
// @Summary List courses
// @Tags courses
// @Produce json
// @Param category query string false "Category filter"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} services.CourseListResponse
// @Failure 400 {object} ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req services.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.courseService.List(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyCourses lists the authenticated instructor's own courses, drafts included
// @Summary List own courses
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Failure 401 {object} ErrorResponse
// @Router /courses/my-courses [get]
func (h *CourseHandler) GetMyCourses(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}

	courses, err := h.courseService.ListByInstructor(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// UpdateCourse updates a course owned by the caller
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param course body services.UpdateCourseRequest true "Course data"
// @Success 200 {object} models.Course
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating course", "course_id", id)

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course and its enrollments
// @Summary Delete course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.courseService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted"})
}

// PublishCourse makes a course visible to students
// @Summary Publish course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/publish [post]
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Publishing course", "course_id", id)

	course, err := h.courseService.Publish(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// RateCourse submits a rating and review for a course
// @Summary Rate course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param rating body services.RateCourseRequest true "Rating data"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /courses/{id}/rate [post]
func (h *CourseHandler) RateCourse(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Rating course", "course_id", id)

	var req services.RateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Rate(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// GetCourseRatings lists the individual ratings and reviews for a course
// @Summary Get course ratings
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {array} models.CourseRating
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/ratings [get]
func (h *CourseHandler) GetCourseRatings(c *gin.Context) {
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	ratings, err := h.courseService.GetRatings(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ratings)
}

// ExportEnrollments downloads the course roster as xlsx or csv
// @Summary Export course enrollments
// @Tags courses
// @Produce application/octet-stream
// @Param id path uint true "Course ID"
// @Param format query string false "Export format (xlsx or csv)" default(xlsx)
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /courses/{id}/enrollments/export [get]
func (h *CourseHandler) ExportEnrollments(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	id := ParseUintIDParam(c, "id")
	if id == 0 {
		return
	}

	format := c.DefaultQuery("format", "xlsx")

	h.LogRequest(c, "Exporting course enrollments", "course_id", id, "format", format)

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "xlsx":
		data, err = h.reportService.ExportEnrollmentsToExcel(c.Request.Context(), id, userID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "csv":
		data, err = h.reportService.ExportEnrollmentsToCSV(c.Request.Context(), id, userID)
		contentType = "text/csv"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid format",
			Details: "supported formats: xlsx, csv",
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("enrollments_%d_%s.%s", id, time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
