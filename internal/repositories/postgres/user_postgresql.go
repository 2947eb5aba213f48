package postgres

import (
	"context"

	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	return u.db.WithContext(ctx).Save(user).Error
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (u *UserPostgreSQL) GetInstructors(ctx context.Context) ([]*models.User, error) {
	var instructors []*models.User
	if err := u.db.WithContext(ctx).
		Where("role = ?", models.RoleInstructor).
		Order("name asc").
		Find(&instructors).Error; err != nil {
		return nil, err
	}
	return instructors, nil
}

// GetEnrolledCourses reads the enrolled-course view through the enrollments
// table, so the listing always matches the Enrollment records.
func (u *UserPostgreSQL) GetEnrolledCourses(ctx context.Context, userID uint) ([]*models.Course, error) {
	var courses []*models.Course
	if err := u.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", userID).
		Preload("Instructor").
		Order("enrollments.enrolled_at desc").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (u *UserPostgreSQL) GetWishlist(ctx context.Context, userID uint) ([]*models.Course, error) {
	var user models.User
	if err := u.db.WithContext(ctx).
		Preload("Wishlist.Instructor").
		Preload("Wishlist").
		First(&user, userID).Error; err != nil {
		return nil, err
	}
	courses := make([]*models.Course, len(user.Wishlist))
	for i := range user.Wishlist {
		courses[i] = &user.Wishlist[i]
	}
	return courses, nil
}

func (u *UserPostgreSQL) AddToWishlist(ctx context.Context, userID, courseID uint) error {
	return u.db.WithContext(ctx).Exec(
		"INSERT INTO user_wishlist (user_id, course_id) VALUES (?, ?)",
		userID, courseID,
	).Error
}

func (u *UserPostgreSQL) RemoveFromWishlist(ctx context.Context, userID, courseID uint) error {
	return u.db.WithContext(ctx).Exec(
		"DELETE FROM user_wishlist WHERE user_id = ? AND course_id = ?",
		userID, courseID,
	).Error
}

func (u *UserPostgreSQL) IsInWishlist(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Table("user_wishlist").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}
