package repositories

import (
	"context"

	"github.com/skillforge/course-service/internal/models"
)

// EnrollmentRepository interface for enrollment and lesson-progress operations
type EnrollmentRepository interface {
	// Basic CRUD operations. Create relies on the (student_id, course_id)
	// unique index for the one-enrollment-per-pair invariant.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Enrollment, error) // course + instructor populated
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	GetByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) // newest first, populated
	GetByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error)   // student populated
	ExistsByStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error)

	// Lesson completion. AddCompletedLesson relies on the composite primary
	// key to reject double completion of the same lesson.
	AddCompletedLesson(ctx context.Context, lesson *models.CompletedLesson) error

	// Cascade helpers
	DeleteByCourse(ctx context.Context, courseID uint) error
}
