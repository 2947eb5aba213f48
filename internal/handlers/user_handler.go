package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge/course-service/internal/services"
	"github.com/skillforge/course-service/internal/utils"
	"github.com/skillforge/course-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
	validator   *validator.Validator
}

func NewUserHandler(
	userService services.UserService,
	validator *validator.Validator,
	logger utils.Logger,
) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
		validator:   validator,
	}
}

// Register creates a new user account
// @Summary Register user
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.RegisterRequest true "User data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetProfile returns the authenticated user's profile
// @Summary Get profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Param profile body services.UpdateProfileRequest true "Profile data"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}

	h.LogRequest(c, "Updating profile", "profile_user_id", userID)

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetEnrolledCourses lists courses the authenticated user is enrolled in
// @Summary Get enrolled courses
// @Tags users
// @Produce json
// @Success 200 {array} models.Course
// @Failure 401 {object} ErrorResponse
// @Router /users/enrolled-courses [get]
func (h *UserHandler) GetEnrolledCourses(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}

	courses, err := h.userService.GetEnrolledCourses(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetWishlist lists the authenticated user's wishlisted courses
// @Summary Get wishlist
// @Tags users
// @Produce json
// @Success 200 {array} models.Course
// @Failure 401 {object} ErrorResponse
// @Router /users/wishlist [get]
func (h *UserHandler) GetWishlist(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}

	courses, err := h.userService.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// AddToWishlist adds a course to the authenticated user's wishlist
// @Summary Add course to wishlist
// @Tags users
// @Produce json
// @Param courseId path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/wishlist/{courseId} [post]
func (h *UserHandler) AddToWishlist(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	courseID := ParseUintIDParam(c, "courseId")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Adding course to wishlist", "course_id", courseID)

	if err := h.userService.AddToWishlist(c.Request.Context(), userID, courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Course added to wishlist"})
}

// RemoveFromWishlist removes a course from the authenticated user's wishlist
// @Summary Remove course from wishlist
// @Tags users
// @Produce json
// @Param courseId path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/wishlist/{courseId} [delete]
func (h *UserHandler) RemoveFromWishlist(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		return
	}
	courseID := ParseUintIDParam(c, "courseId")
	if courseID == 0 {
		return
	}

	if err := h.userService.RemoveFromWishlist(c.Request.Context(), userID, courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Course removed from wishlist"})
}

// GetInstructors lists all instructor accounts
// @Summary List instructors
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users/instructors [get]
func (h *UserHandler) GetInstructors(c *gin.Context) {
	instructors, err := h.userService.GetInstructors(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, instructors)
}
