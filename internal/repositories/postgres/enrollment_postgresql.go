package postgres

import (
	"context"

	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"gorm.io/gorm"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return e.db.WithContext(ctx).Create(enrollment).Error
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.db.WithContext(ctx).
		Preload("CompletedLessons").
		First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.db.WithContext(ctx).
		Preload("CompletedLessons").
		Preload("Course").
		Preload("Course.Instructor").
		First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return e.db.WithContext(ctx).Save(enrollment).Error
}

func (e *EnrollmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("enrollment_id = ?", id).Delete(&models.CompletedLesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Enrollment{}, id).Error
	})
}

func (e *EnrollmentPostgreSQL) GetByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	if err := e.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("CompletedLessons").
		Preload("Course").
		Preload("Course.Instructor").
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) GetByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	if err := e.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("CompletedLessons").
		Preload("Student").
		Order("enrolled_at asc").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) ExistsByStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (e *EnrollmentPostgreSQL) AddCompletedLesson(ctx context.Context, lesson *models.CompletedLesson) error {
	return e.db.WithContext(ctx).Create(lesson).Error
}

func (e *EnrollmentPostgreSQL) DeleteByCourse(ctx context.Context, courseID uint) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM completed_lessons WHERE enrollment_id IN (SELECT id FROM enrollments WHERE course_id = ?)",
			courseID,
		).Error; err != nil {
			return err
		}
		return tx.Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error
	})
}
