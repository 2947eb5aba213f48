package postgres

import (
	"context"

	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db         *gorm.DB
	user       repositories.UserRepository
	course     repositories.CourseRepository
	enrollment repositories.EnrollmentRepository
}

// NewRepository builds the aggregate repository over a GORM connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		user:       NewUserPostgreSQL(db),
		course:     NewCoursePostgreSQL(db),
		enrollment: NewEnrollmentPostgreSQL(db),
	}
}

func (r *repository) User() repositories.UserRepository             { return r.user }
func (r *repository) Course() repositories.CourseRepository         { return r.course }
func (r *repository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }

// WithTransaction runs fn against a repository bound to a single transaction.
func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the schema, including the unique indexes the
// enrollment and rating invariants depend on.
func Migrate(db *gorm.DB) error {
	// The many2many views on User and Course must resolve to the Enrollment
	// model, not an auto-generated join table, so AutoMigrate keeps the
	// enrollment columns and unique index intact.
	if err := db.SetupJoinTable(&models.User{}, "EnrolledCourses", &models.Enrollment{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Course{}, "EnrolledStudents", &models.Enrollment{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseRating{},
		&models.Enrollment{},
		&models.CompletedLesson{},
	)
}
