package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/skillforge/course-service/internal/events"
	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"github.com/skillforge/course-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newCourseServiceForTest(repo *MockRepository) (CourseService, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	return NewCourseService(repo, logger, validator.New(), publisher, stubCache{}), publisher
}

func validCreateCourseRequest() *CreateCourseRequest {
	return &CreateCourseRequest{
		Title:       "Go Fundamentals",
		Description: "Learn Go from scratch",
		Category:    models.CategoryOther,
		Price:       49.99,
		Image:       "https://cdn.example.com/go.png",
		Duration:    "8 hours",
		Level:       models.LevelBeginner,
		Lessons: []LessonInput{
			{Title: "Introduction"},
			{Title: "Syntax basics"},
		},
	}
}

func TestCourseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("instructor creates course with generated lesson ids", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.UserRepo.On("GetByID", ctx, uint(42)).Return(&models.User{ID: 42, Role: models.RoleInstructor}, nil)
		repo.CourseRepo.On("Create", ctx, mock.AnythingOfType("*models.Course")).Return(nil)

		course, err := svc.Create(ctx, validCreateCourseRequest(), 42)

		assert.NoError(t, err)
		assert.Equal(t, uint(42), course.InstructorID)
		assert.False(t, course.IsPublished)
		assert.Len(t, course.Lessons, 2)
		assert.NotEmpty(t, course.Lessons[0].ID)
		assert.NotEqual(t, course.Lessons[0].ID, course.Lessons[1].ID)
	})

	t.Run("student cannot create", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.UserRepo.On("GetByID", ctx, uint(7)).Return(&models.User{ID: 7, Role: models.RoleStudent}, nil)

		_, err := svc.Create(ctx, validCreateCourseRequest(), 7)
		assert.Error(t, err)
		assert.True(t, IsForbidden(err))
	})

	t.Run("invalid category fails validation", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		req := validCreateCourseRequest()
		req.Category = "underwater-basket-weaving"

		_, err := svc.Create(ctx, req, 42)
		assert.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}

func TestCourseService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults page and limit", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		courses := []*models.Course{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
		repo.CourseRepo.On("List", ctx, mock.MatchedBy(func(f repositories.CourseFilters) bool {
			return f.PublishedOnly && f.Page == 1 && f.Limit == 10
		})).Return(courses, int64(25), nil)

		resp, err := svc.List(ctx, &ListCoursesRequest{})

		assert.NoError(t, err)
		assert.Equal(t, int64(25), resp.Total)
		assert.Equal(t, 3, resp.TotalPages)
		assert.Equal(t, 1, resp.CurrentPage)
		assert.Len(t, resp.Courses, 2)
	})

	t.Run("category all means no filter", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.CourseRepo.On("List", ctx, mock.MatchedBy(func(f repositories.CourseFilters) bool {
			return f.Category == nil
		})).Return([]*models.Course{}, int64(0), nil)

		_, err := svc.List(ctx, &ListCoursesRequest{Category: "all"})
		assert.NoError(t, err)
	})
}

func TestCourseService_ListByInstructor(t *testing.T) {
	ctx := context.Background()

	t.Run("returns own courses including drafts", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		courses := []*models.Course{
			{ID: 2, InstructorID: 42, IsPublished: true},
			{ID: 1, InstructorID: 42, IsPublished: false},
		}
		repo.CourseRepo.On("GetByInstructor", ctx, uint(42)).Return(courses, nil)

		got, err := svc.ListByInstructor(ctx, 42)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.False(t, got[1].IsPublished)
	})

	t.Run("instructor with no courses gets an empty list", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.CourseRepo.On("GetByInstructor", ctx, uint(43)).Return([]*models.Course{}, nil)

		got, err := svc.ListByInstructor(ctx, 43)
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestCourseService_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("owner publishes once", func(t *testing.T) {
		repo := NewMockRepository()
		svc, publisher := newCourseServiceForTest(repo)

		course := &models.Course{ID: 10, InstructorID: 42, Title: "Go Fundamentals"}
		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(course, nil)
		repo.UserRepo.On("GetByID", ctx, uint(42)).Return(&models.User{ID: 42, Role: models.RoleInstructor}, nil)
		repo.CourseRepo.On("Update", ctx, course).Return(nil)

		published, err := svc.Publish(ctx, 10, 42)

		assert.NoError(t, err)
		assert.True(t, published.IsPublished)

		evts := publisher.GetPublishedEvents()
		assert.Len(t, evts, 1)
		assert.Equal(t, events.EventCoursePublished, evts[0].Type)
	})

	t.Run("publishing an already published course is a no-op", func(t *testing.T) {
		repo := NewMockRepository()
		svc, publisher := newCourseServiceForTest(repo)

		course := &models.Course{ID: 10, InstructorID: 42, IsPublished: true}
		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(course, nil)
		repo.UserRepo.On("GetByID", ctx, uint(42)).Return(&models.User{ID: 42, Role: models.RoleInstructor}, nil)

		published, err := svc.Publish(ctx, 10, 42)

		assert.NoError(t, err)
		assert.True(t, published.IsPublished)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("other instructor cannot publish", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(&models.Course{ID: 10, InstructorID: 42}, nil)
		repo.UserRepo.On("GetByID", ctx, uint(43)).Return(&models.User{ID: 43, Role: models.RoleInstructor}, nil)

		_, err := svc.Publish(ctx, 10, 43)
		assert.True(t, IsForbidden(err))
	})

	t.Run("admin can publish any course", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		course := &models.Course{ID: 10, InstructorID: 42}
		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(course, nil)
		repo.UserRepo.On("GetByID", ctx, uint(1)).Return(&models.User{ID: 1, Role: models.RoleAdmin}, nil)
		repo.CourseRepo.On("Update", ctx, course).Return(nil)

		published, err := svc.Publish(ctx, 10, 1)
		assert.NoError(t, err)
		assert.True(t, published.IsPublished)
	})
}

func TestCourseService_Rate(t *testing.T) {
	ctx := context.Background()

	t.Run("rating recomputes the aggregate", func(t *testing.T) {
		repo := NewMockRepository()
		svc, publisher := newCourseServiceForTest(repo)

		course := &models.Course{ID: 10, InstructorID: 42, IsPublished: true}
		reloaded := &models.Course{ID: 10, AverageRating: 4.5, TotalRatings: 2}

		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(course, nil)
		repo.CourseRepo.On("HasRatingByUser", ctx, uint(10), uint(7)).Return(false, nil)
		repo.CourseRepo.On("AddRating", ctx, mock.AnythingOfType("*models.CourseRating")).Return(nil)
		repo.CourseRepo.On("RecalculateRatingStats", ctx, uint(10)).Return(nil)
		repo.CourseRepo.On("GetByIDWithDetails", ctx, uint(10)).Return(reloaded, nil)

		result, err := svc.Rate(ctx, 10, 7, &RateCourseRequest{Rating: 5, Review: "Great course"})

		assert.NoError(t, err)
		assert.Equal(t, 4.5, result.AverageRating)
		assert.Equal(t, 2, result.TotalRatings)

		evts := publisher.GetPublishedEvents()
		assert.Len(t, evts, 1)
		assert.Equal(t, events.EventCourseRated, evts[0].Type)
	})

	t.Run("second rating by same user conflicts", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(&models.Course{ID: 10}, nil)
		repo.CourseRepo.On("HasRatingByUser", ctx, uint(10), uint(7)).Return(true, nil)

		_, err := svc.Rate(ctx, 10, 7, &RateCourseRequest{Rating: 3, Review: "Changed my mind"})
		assert.ErrorIs(t, err, ErrAlreadyRated)
		assert.True(t, IsConflict(err))
	})

	t.Run("duplicate key from concurrent rating conflicts", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(&models.Course{ID: 10}, nil)
		repo.CourseRepo.On("HasRatingByUser", ctx, uint(10), uint(7)).Return(false, nil)
		repo.CourseRepo.On("AddRating", ctx, mock.AnythingOfType("*models.CourseRating")).Return(gorm.ErrDuplicatedKey)

		_, err := svc.Rate(ctx, 10, 7, &RateCourseRequest{Rating: 4, Review: "Solid"})
		assert.ErrorIs(t, err, ErrAlreadyRated)
	})

	t.Run("rating out of range fails validation", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		_, err := svc.Rate(ctx, 10, 7, &RateCourseRequest{Rating: 6, Review: "Too good"})
		assert.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}

func TestCourseService_GetRatings(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the reviews for an existing course", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		ratings := []models.CourseRating{
			{CourseID: 10, UserID: 8, Rating: 4, Review: "Solid"},
			{CourseID: 10, UserID: 7, Rating: 5, Review: "Great course"},
		}
		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(&models.Course{ID: 10}, nil)
		repo.CourseRepo.On("GetRatings", ctx, uint(10)).Return(ratings, nil)

		got, err := svc.GetRatings(ctx, 10)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 4, got[0].Rating)
	})

	t.Run("missing course reports not found", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetRatings(ctx, 99)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}

func TestCourseService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update touches only provided fields", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		course := &models.Course{ID: 10, InstructorID: 42, Title: "Old title", Price: 10}
		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(course, nil)
		repo.UserRepo.On("GetByID", ctx, uint(42)).Return(&models.User{ID: 42, Role: models.RoleInstructor}, nil)
		repo.CourseRepo.On("Update", ctx, course).Return(nil)

		newTitle := "New title"
		updated, err := svc.Update(ctx, 10, &UpdateCourseRequest{Title: &newTitle}, 42)

		assert.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, float64(10), updated.Price)
	})

	t.Run("delete cascades enrollments", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(10)).Return(&models.Course{ID: 10, InstructorID: 42}, nil)
		repo.UserRepo.On("GetByID", ctx, uint(42)).Return(&models.User{ID: 42, Role: models.RoleInstructor}, nil)
		repo.EnrollmentRepo.On("DeleteByCourse", ctx, uint(10)).Return(nil)
		repo.CourseRepo.On("Delete", ctx, uint(10)).Return(nil)

		err := svc.Delete(ctx, 10, 42)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("delete of missing course reports not found", func(t *testing.T) {
		repo := NewMockRepository()
		svc, _ := newCourseServiceForTest(repo)

		repo.CourseRepo.On("GetByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		err := svc.Delete(ctx, 99, 42)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}
