package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserServiceForTest(repo *MockRepository) UserService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(repo, logger, validator.New())
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password and defaults role to student", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		repo.UserRepo.On("ExistsByEmail", ctx, "ada@example.com").Return(false, nil)
		repo.UserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

		user, err := svc.Register(ctx, &RegisterRequest{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "correct-horse-battery",
		})

		assert.NoError(t, err)
		assert.Equal(t, models.RoleStudent, user.Role)
		assert.NotEqual(t, "correct-horse-battery", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct-horse-battery")))
	})

	t.Run("taken email conflicts", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		repo.UserRepo.On("ExistsByEmail", ctx, "ada@example.com").Return(true, nil)

		_, err := svc.Register(ctx, &RegisterRequest{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "correct-horse-battery",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.True(t, IsConflict(err))
	})

	t.Run("duplicate key from concurrent register conflicts", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		repo.UserRepo.On("ExistsByEmail", ctx, "ada@example.com").Return(false, nil)
		repo.UserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(gorm.ErrDuplicatedKey)

		_, err := svc.Register(ctx, &RegisterRequest{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "correct-horse-battery",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		_, err := svc.Register(ctx, &RegisterRequest{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "short",
		})
		assert.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("email change checks uniqueness", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		repo.UserRepo.On("GetByID", ctx, uint(7)).Return(&models.User{ID: 7, Name: "Ada", Email: "ada@example.com"}, nil)
		repo.UserRepo.On("ExistsByEmail", ctx, "new@example.com").Return(true, nil)

		_, err := svc.UpdateProfile(ctx, 7, &UpdateProfileRequest{Name: "Ada", Email: "new@example.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("same email skips uniqueness check", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		repo.UserRepo.On("GetByID", ctx, uint(7)).Return(&models.User{ID: 7, Name: "Ada", Email: "ada@example.com"}, nil)
		repo.UserRepo.On("Update", ctx, mock.AnythingOfType("*models.User")).Return(nil)

		bio := "Systems programmer"
		user, err := svc.UpdateProfile(ctx, 7, &UpdateProfileRequest{Name: "Ada L.", Email: "ada@example.com", Bio: &bio})

		assert.NoError(t, err)
		assert.Equal(t, "Ada L.", user.Name)
		assert.Equal(t, "Systems programmer", *user.Bio)
		repo.AssertExpectations(t)
	})
}

func TestUserService_Wishlist(t *testing.T) {
	ctx := context.Background()

	t.Run("adds existing course once", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(&models.Course{ID: 10}, nil)
		repo.UserRepo.On("IsInWishlist", ctx, uint(7), uint(10)).Return(false, nil)
		repo.UserRepo.On("AddToWishlist", ctx, uint(7), uint(10)).Return(nil)

		assert.NoError(t, svc.AddToWishlist(ctx, 7, 10))
	})

	t.Run("second add conflicts", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(&models.Course{ID: 10}, nil)
		repo.UserRepo.On("IsInWishlist", ctx, uint(7), uint(10)).Return(true, nil)

		err := svc.AddToWishlist(ctx, 7, 10)
		assert.ErrorIs(t, err, ErrWishlistExists)
		assert.True(t, IsConflict(err))
	})

	t.Run("missing course reads as not found", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newUserServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		err := svc.AddToWishlist(ctx, 7, 99)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}
