package postgres

import (
	"context"
	"fmt"

	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	return c.db.WithContext(ctx).Create(course).Error
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Ratings", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_ratings.created_at desc")
		}).
		Preload("Ratings.User").
		First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	return c.db.WithContext(ctx).Save(course).Error
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseRating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, id).Error
	})
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := c.db.WithContext(ctx).Model(&models.Course{})
	query = c.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = c.applyPaginationAndSort(query, filters)

	if err := query.Preload("Instructor").Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) GetByInstructor(ctx context.Context, instructorID uint) ([]*models.Course, error) {
	var courses []*models.Course
	if err := c.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *CoursePostgreSQL) AddRating(ctx context.Context, rating *models.CourseRating) error {
	return c.db.WithContext(ctx).Create(rating).Error
}

func (c *CoursePostgreSQL) GetRatings(ctx context.Context, courseID uint) ([]models.CourseRating, error) {
	var ratings []models.CourseRating
	if err := c.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("User").
		Order("created_at desc").
		Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (c *CoursePostgreSQL) HasRatingByUser(ctx context.Context, courseID, userID uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.CourseRating{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

// RecalculateRatingStats re-derives average_rating and total_ratings from the
// full rating set in one statement. COALESCE keeps the empty set at 0.
func (c *CoursePostgreSQL) RecalculateRatingStats(ctx context.Context, courseID uint) error {
	return c.db.WithContext(ctx).Exec(`
		UPDATE courses SET
			average_rating = COALESCE((SELECT AVG(rating) FROM course_ratings WHERE course_id = ?), 0),
			total_ratings  = (SELECT COUNT(*) FROM course_ratings WHERE course_id = ?)
		WHERE id = ?`,
		courseID, courseID, courseID,
	).Error
}

func (c *CoursePostgreSQL) applyFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

func (c *CoursePostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "title", "price", "average_rating", "created_at":
	default:
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	return query.Limit(limit).Offset((page - 1) * limit)
}
