package repositories

import (
	"context"

	"github.com/skillforge/course-service/internal/models"
)

// UserRepository interface for user and wishlist operations
type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// Query operations
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetInstructors(ctx context.Context) ([]*models.User, error)

	// Derived enrolled-course view (joined through the enrollments table)
	GetEnrolledCourses(ctx context.Context, userID uint) ([]*models.Course, error)

	// Wishlist management
	GetWishlist(ctx context.Context, userID uint) ([]*models.Course, error)
	AddToWishlist(ctx context.Context, userID, courseID uint) error
	RemoveFromWishlist(ctx context.Context, userID, courseID uint) error
	IsInWishlist(ctx context.Context, userID, courseID uint) (bool, error)
}
