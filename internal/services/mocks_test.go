package services

import (
	"context"
	"time"

	"github.com/skillforge/course-service/internal/cache"
	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetInstructors(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetEnrolledCourses(ctx context.Context, userID uint) ([]*models.Course, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockUserRepository) GetWishlist(ctx context.Context, userID uint) ([]*models.Course, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockUserRepository) AddToWishlist(ctx context.Context, userID, courseID uint) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveFromWishlist(ctx context.Context, userID, courseID uint) error {
	args := m.Called(ctx, userID, courseID)
	return args.Error(0)
}

func (m *MockUserRepository) IsInWishlist(ctx context.Context, userID, courseID uint) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

// MockCourseRepository is a mock implementation of CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseRepository) GetByInstructor(ctx context.Context, instructorID uint) ([]*models.Course, error) {
	args := m.Called(ctx, instructorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockCourseRepository) AddRating(ctx context.Context, rating *models.CourseRating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockCourseRepository) GetRatings(ctx context.Context, courseID uint) ([]models.CourseRating, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CourseRating), args.Error(1)
}

func (m *MockCourseRepository) HasRatingByUser(ctx context.Context, courseID, userID uint) (bool, error) {
	args := m.Called(ctx, courseID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) RecalculateRatingStats(ctx context.Context, courseID uint) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

// MockEnrollmentRepository is a mock implementation of EnrollmentRepository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ExistsByStudentAndCourse(ctx context.Context, studentID, courseID uint) (bool, error) {
	args := m.Called(ctx, studentID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) AddCompletedLesson(ctx context.Context, lesson *models.CompletedLesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) DeleteByCourse(ctx context.Context, courseID uint) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

// MockRepository aggregates the repository mocks. Transactions run the
// callback against the same mock set.
type MockRepository struct {
	UserRepo       *MockUserRepository
	CourseRepo     *MockCourseRepository
	EnrollmentRepo *MockEnrollmentRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		UserRepo:       &MockUserRepository{},
		CourseRepo:     &MockCourseRepository{},
		EnrollmentRepo: &MockEnrollmentRepository{},
	}
}

func (m *MockRepository) User() repositories.UserRepository             { return m.UserRepo }
func (m *MockRepository) Course() repositories.CourseRepository         { return m.CourseRepo }
func (m *MockRepository) Enrollment() repositories.EnrollmentRepository { return m.EnrollmentRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

func (m *MockRepository) AssertExpectations(t mock.TestingT) {
	m.UserRepo.AssertExpectations(t)
	m.CourseRepo.AssertExpectations(t)
	m.EnrollmentRepo.AssertExpectations(t)
}

// stubCache is a no-op cache that always misses.
type stubCache struct{}

func (stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (stubCache) Delete(ctx context.Context, key string) error        { return nil }
func (stubCache) DeletePattern(ctx context.Context, key string) error { return nil }
