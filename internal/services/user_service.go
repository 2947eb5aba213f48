package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"github.com/skillforge/course-service/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error)
	GetEnrolledCourses(ctx context.Context, userID uint) ([]*models.Course, error)
	GetWishlist(ctx context.Context, userID uint) ([]*models.Course, error)
	AddToWishlist(ctx context.Context, userID, courseID uint) error
	RemoveFromWishlist(ctx context.Context, userID, courseID uint) error
	GetInstructors(ctx context.Context) ([]*models.User, error)
}

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		ops:       NewServiceLogger(logger, "user"),
		validator: validator,
	}
}

// ===== REQUEST TYPES =====

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	Role     models.UserRole `json:"role" validate:"omitempty,user_role"`
}

type UpdateProfileRequest struct {
	Name   string  `json:"name" validate:"required,min=1,max=100"`
	Email  string  `json:"email" validate:"required,email"`
	Bio    *string `json:"bio" validate:"omitempty,max=500"`
	Avatar *string `json:"avatar"`
}

// ===== OPERATIONS =====

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (user *models.User, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "register", 0, 0, "user", time.Since(start), err)
	}()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	user = &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
	}

	if err = s.repo.User().Create(ctx, user); err != nil {
		// Email uniqueness is also a DB constraint; a concurrent register
		// with the same address lands here.
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (user *models.User, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "update_profile", userID, userID, "user", time.Since(start), err)
	}()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err = s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != user.Email {
		taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}

	if err = s.repo.User().Update(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *userService) GetEnrolledCourses(ctx context.Context, userID uint) ([]*models.Course, error) {
	courses, err := s.repo.User().GetEnrolledCourses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrolled courses: %w", err)
	}
	return courses, nil
}

func (s *userService) GetWishlist(ctx context.Context, userID uint) ([]*models.Course, error) {
	courses, err := s.repo.User().GetWishlist(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return courses, nil
}

func (s *userService) AddToWishlist(ctx context.Context, userID, courseID uint) (err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "add_to_wishlist", userID, courseID, "course", time.Since(start), err)
	}()

	if _, err = s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	exists, err := s.repo.User().IsInWishlist(ctx, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to check wishlist: %w", err)
	}
	if exists {
		return ErrWishlistExists
	}

	if err = s.repo.User().AddToWishlist(ctx, userID, courseID); err != nil {
		if repositories.IsDuplicateError(err) {
			return ErrWishlistExists
		}
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (s *userService) RemoveFromWishlist(ctx context.Context, userID, courseID uint) error {
	if err := s.repo.User().RemoveFromWishlist(ctx, userID, courseID); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

func (s *userService) GetInstructors(ctx context.Context) ([]*models.User, error) {
	instructors, err := s.repo.User().GetInstructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}
	return instructors, nil
}
