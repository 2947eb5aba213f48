package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/skillforge/course-service/internal/cache"
	"github.com/skillforge/course-service/internal/events"
	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"github.com/skillforge/course-service/internal/validator"
	"gorm.io/datatypes"
)

const (
	courseCacheTTL        = 5 * time.Minute
	courseCacheKeyFmt     = "course:%d"
	courseListCacheKeyFmt = "courses:list:%s:%s:%d:%d"
	courseListCacheGlob   = "courses:list:*"
)

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, instructorID uint) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, req *ListCoursesRequest) (*CourseListResponse, error)
	ListByInstructor(ctx context.Context, instructorID uint) ([]*models.Course, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, callerID uint) (*models.Course, error)
	Delete(ctx context.Context, id, callerID uint) error
	Publish(ctx context.Context, id, callerID uint) (*models.Course, error)
	Rate(ctx context.Context, courseID, callerID uint, req *RateCourseRequest) (*models.Course, error)
	GetRatings(ctx context.Context, courseID uint) ([]models.CourseRating, error)
}

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     cache.CacheService
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheService cache.CacheService) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		ops:       NewServiceLogger(logger, "course"),
		validator: validator,
		publisher: publisher,
		cache:     cacheService,
	}
}

// ===== REQUEST / RESPONSE TYPES =====

type LessonInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	VideoURL    string `json:"video_url"`
	Duration    string `json:"duration"`
	IsPreview   bool   `json:"is_preview"`
}

type CreateCourseRequest struct {
	Title            string                `json:"title" validate:"required,min=1,max=100"`
	Description      string                `json:"description" validate:"required,max=1000"`
	Category         models.CourseCategory `json:"category" validate:"required,course_category"`
	Price            float64               `json:"price" validate:"min=0"`
	Image            string                `json:"image" validate:"required"`
	Duration         string                `json:"duration" validate:"required"`
	Level            models.CourseLevel    `json:"level" validate:"required,course_level"`
	Lessons          []LessonInput         `json:"lessons" validate:"omitempty,dive"`
	Requirements     []string              `json:"requirements"`
	LearningOutcomes []string              `json:"learning_outcomes"`
	Tags             []string              `json:"tags"`
}

type UpdateCourseRequest struct {
	Title            *string                `json:"title" validate:"omitempty,min=1,max=100"`
	Description      *string                `json:"description" validate:"omitempty,max=1000"`
	Category         *models.CourseCategory `json:"category" validate:"omitempty,course_category"`
	Price            *float64               `json:"price" validate:"omitempty,min=0"`
	Image            *string                `json:"image"`
	Duration         *string                `json:"duration"`
	Level            *models.CourseLevel    `json:"level" validate:"omitempty,course_level"`
	Lessons          []LessonInput          `json:"lessons" validate:"omitempty,dive"`
	Requirements     []string               `json:"requirements"`
	LearningOutcomes []string               `json:"learning_outcomes"`
	Tags             []string               `json:"tags"`
}

type RateCourseRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"required,max=2000"`
}

type ListCoursesRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type CourseListResponse struct {
	Courses     []*models.Course `json:"courses"`
	Total       int64            `json:"total"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, instructorID uint) (course *models.Course, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "create_course", instructorID, 0, "course", time.Since(start), err)
	}()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	caller, err := s.repo.User().GetByID(ctx, instructorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if caller.Role != models.RoleInstructor && caller.Role != models.RoleAdmin {
		return nil, NewPermissionError(instructorID, 0, "course", "create", "instructor or admin role required")
	}

	course = &models.Course{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Price:            req.Price,
		Image:            req.Image,
		Duration:         req.Duration,
		Level:            req.Level,
		InstructorID:     instructorID,
		Lessons:          buildLessons(req.Lessons),
		Requirements:     datatypes.NewJSONSlice(req.Requirements),
		LearningOutcomes: datatypes.NewJSONSlice(req.LearningOutcomes),
		Tags:             datatypes.NewJSONSlice(req.Tags),
	}

	if err = s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.invalidate(ctx, course.ID)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	key := fmt.Sprintf(courseCacheKeyFmt, id)

	var cached models.Course
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	course, err := s.repo.Course().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.cache.Set(ctx, key, course, courseCacheTTL); err != nil {
		s.logger.Warn("failed to cache course", "course_id", id, "error", err)
	}

	return course, nil
}

func (s *courseService) List(ctx context.Context, req *ListCoursesRequest) (*CourseListResponse, error) {
	filters := repositories.CourseFilters{
		Search:        req.Search,
		PublishedOnly: true,
		Page:          req.Page,
		Limit:         req.Limit,
	}
	if req.Category != "" && req.Category != "all" {
		category := models.CourseCategory(req.Category)
		filters.Category = &category
	}
	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}

	key := fmt.Sprintf(courseListCacheKeyFmt, req.Category, req.Search, filters.Page, filters.Limit)
	var cached CourseListResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	resp := &CourseListResponse{
		Courses:     courses,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(filters.Limit))),
		CurrentPage: filters.Page,
	}

	if err := s.cache.Set(ctx, key, resp, courseCacheTTL); err != nil {
		s.logger.Warn("failed to cache course list", "error", err)
	}

	return resp, nil
}

// ListByInstructor returns every course owned by the instructor, drafts
// included. Not cached: instructors expect to see their own edits immediately.
func (s *courseService) ListByInstructor(ctx context.Context, instructorID uint) ([]*models.Course, error) {
	courses, err := s.repo.Course().GetByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instructor courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, callerID uint) (course *models.Course, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "update_course", callerID, id, "course", time.Since(start), err)
	}()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err = s.authorizeManage(ctx, id, callerID, "update")
	if err != nil {
		return nil, err
	}

	applyCourseUpdate(course, req)

	if err = s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.invalidate(ctx, id)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id, callerID uint) (err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "delete_course", callerID, id, "course", time.Since(start), err)
	}()

	if _, err = s.authorizeManage(ctx, id, callerID, "delete"); err != nil {
		return err
	}

	// Enrollments reference the course; removing them first keeps no orphan
	// progress records behind.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if txErr := tx.Enrollment().DeleteByCourse(ctx, id); txErr != nil {
			return txErr
		}
		return tx.Course().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *courseService) Publish(ctx context.Context, id, callerID uint) (course *models.Course, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "publish_course", callerID, id, "course", time.Since(start), err)
	}()

	course, err = s.authorizeManage(ctx, id, callerID, "publish")
	if err != nil {
		return nil, err
	}

	if !course.IsPublished {
		course.IsPublished = true
		if err = s.repo.Course().Update(ctx, course); err != nil {
			return nil, fmt.Errorf("failed to publish course: %w", err)
		}

		s.publish(ctx, events.NewNotificationEvent(events.EventCoursePublished, events.CoursePublishedEvent{
			CourseID:     course.ID,
			CourseTitle:  course.Title,
			InstructorID: course.InstructorID,
			PublishedAt:  time.Now(),
		}))
	}

	s.invalidate(ctx, id)
	return course, nil
}

// ===== RATINGS =====

func (s *courseService) Rate(ctx context.Context, courseID, callerID uint, req *RateCourseRequest) (course *models.Course, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "rate_course", callerID, courseID, "course", time.Since(start), err)
	}()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err = s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	rated, err := s.repo.Course().HasRatingByUser(ctx, courseID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rating: %w", err)
	}
	if rated {
		return nil, ErrAlreadyRated
	}

	rating := &models.CourseRating{
		CourseID: courseID,
		UserID:   callerID,
		Rating:   req.Rating,
		Review:   req.Review,
	}

	// The aggregate is recomputed from the full rating set inside the same
	// transaction as the insert, so it can never drift incrementally. The
	// (course_id, user_id) unique index settles concurrent duplicates.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if txErr := tx.Course().AddRating(ctx, rating); txErr != nil {
			return txErr
		}
		return tx.Course().RecalculateRatingStats(ctx, courseID)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyRated
		}
		return nil, fmt.Errorf("failed to rate course: %w", err)
	}

	s.invalidate(ctx, courseID)

	course, err = s.repo.Course().GetByIDWithDetails(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload course: %w", err)
	}

	s.publish(ctx, events.NewNotificationEvent(events.EventCourseRated, events.CourseRatedEvent{
		CourseID:      courseID,
		UserID:        callerID,
		Rating:        req.Rating,
		AverageRating: course.AverageRating,
		TotalRatings:  course.TotalRatings,
	}))

	return course, nil
}

// GetRatings returns the individual reviews for a course, newest first.
func (s *courseService) GetRatings(ctx context.Context, courseID uint) ([]models.CourseRating, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	ratings, err := s.repo.Course().GetRatings(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}
	return ratings, nil
}

// ===== HELPERS =====

// authorizeManage loads the course and checks the caller may mutate it
// (owning instructor or admin).
func (s *courseService) authorizeManage(ctx context.Context, courseID, callerID uint, action string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	caller, err := s.repo.User().GetByID(ctx, callerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !caller.CanManageCourse(course) {
		return nil, NewPermissionError(callerID, courseID, "course", action, "not course instructor or admin")
	}

	return course, nil
}

func (s *courseService) invalidate(ctx context.Context, courseID uint) {
	if err := s.cache.Delete(ctx, fmt.Sprintf(courseCacheKeyFmt, courseID)); err != nil {
		s.logger.Warn("failed to invalidate course cache", "course_id", courseID, "error", err)
	}
	if err := s.cache.DeletePattern(ctx, courseListCacheGlob); err != nil {
		s.logger.Warn("failed to invalidate course list cache", "error", err)
	}
}

func (s *courseService) publish(ctx context.Context, event *events.NotificationEvent) {
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.Type, "error", err)
	}
}

func buildLessons(inputs []LessonInput) datatypes.JSONSlice[models.Lesson] {
	lessons := make([]models.Lesson, len(inputs))
	for i, in := range inputs {
		lessons[i] = models.Lesson{
			ID:          uuid.NewString(),
			Title:       in.Title,
			Description: in.Description,
			VideoURL:    in.VideoURL,
			Duration:    in.Duration,
			IsPreview:   in.IsPreview,
		}
	}
	return datatypes.NewJSONSlice(lessons)
}

func applyCourseUpdate(course *models.Course, req *UpdateCourseRequest) {
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Image != nil {
		course.Image = *req.Image
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Lessons != nil {
		course.Lessons = buildLessons(req.Lessons)
	}
	if req.Requirements != nil {
		course.Requirements = datatypes.NewJSONSlice(req.Requirements)
	}
	if req.LearningOutcomes != nil {
		course.LearningOutcomes = datatypes.NewJSONSlice(req.LearningOutcomes)
	}
	if req.Tags != nil {
		course.Tags = datatypes.NewJSONSlice(req.Tags)
	}
}
