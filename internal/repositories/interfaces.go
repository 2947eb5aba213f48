package repositories

import (
	"context"

	"github.com/skillforge/course-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Category      *models.CourseCategory `json:"category"`
	Search        string                 `json:"search"` // matches title or description
	InstructorID  *uint                  `json:"instructor_id"`
	PublishedOnly bool                   `json:"published_only"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	SortBy        string                 `json:"sort_by"`    // "created_at", "title", "price", "average_rating"
	SortOrder     string                 `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORY MANAGER =====

// Repository is the aggregate storage interface handed to the services.
// WithTransaction runs fn against a repository bound to a single database
// transaction; any error rolls the whole transaction back.
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
