package repositories

import (
	"context"

	"github.com/skillforge/course-service/internal/models"
)

// CourseRepository interface for course and rating operations
type CourseRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error) // instructor + ratings populated
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	GetByInstructor(ctx context.Context, instructorID uint) ([]*models.Course, error)

	// Rating management. AddRating relies on the (course_id, user_id) unique
	// index; RecalculateRatingStats re-derives the aggregate from the full
	// rating set with a single SQL aggregate, never by increment.
	AddRating(ctx context.Context, rating *models.CourseRating) error
	GetRatings(ctx context.Context, courseID uint) ([]models.CourseRating, error)
	HasRatingByUser(ctx context.Context, courseID, userID uint) (bool, error)
	RecalculateRatingStats(ctx context.Context, courseID uint) error
}
