package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/skillforge/course-service/internal/events"
	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"github.com/skillforge/course-service/internal/validator"
)

// EnrollmentService orchestrates the enrollment workflow: enrolling into a
// course, tracking lesson completion, deriving progress and issuing the
// certificate on the one-way completion transition.
type EnrollmentService interface {
	Enroll(ctx context.Context, courseID, studentID uint) (*models.Enrollment, error)
	GetByID(ctx context.Context, enrollmentID, callerID uint) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error)
	CompleteLesson(ctx context.Context, enrollmentID, callerID uint, lessonID string) (*models.Enrollment, error)
	Cancel(ctx context.Context, enrollmentID, callerID uint) error
}

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		ops:       NewServiceLogger(logger, "enrollment"),
		validator: validator,
		publisher: publisher,
	}
}

// CompleteLessonRequest is the body of the complete-lesson operation.
type CompleteLessonRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
}

func (s *enrollmentService) Enroll(ctx context.Context, courseID, studentID uint) (enrollment *models.Enrollment, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "enroll", studentID, courseID, "course", time.Since(start), err)
	}()

	// The course only has to exist. Unpublished courses are hidden from the
	// public listing but stay directly addressable, for reads and enrolls
	// alike.
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	exists, err := s.repo.Enrollment().ExistsByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing enrollment: %w", err)
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}

	enrollment = &models.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
		Progress:   0,
	}

	// The (student_id, course_id) unique index is the real guard: two
	// concurrent enrolls both passing the existence check resolve here,
	// with the loser getting a duplicate error.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Enrollment().Create(ctx, enrollment)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.publish(ctx, events.NewNotificationEvent(events.EventEnrollmentCreated, events.EnrollmentCreatedEvent{
		EnrollmentID: enrollment.ID,
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		StudentID:    studentID,
		InstructorID: course.InstructorID,
		EnrolledAt:   enrollment.EnrolledAt,
	}))

	return enrollment, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, enrollmentID, callerID uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByIDWithDetails(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.StudentID != callerID {
		return nil, ErrEnrollmentNotOwned
	}

	return enrollment, nil
}

func (s *enrollmentService) ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	enrollments, err := s.repo.Enrollment().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentService) CompleteLesson(ctx context.Context, enrollmentID, callerID uint, lessonID string) (enrollment *models.Enrollment, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "complete_lesson", callerID, enrollmentID, "enrollment", time.Since(start), err)
	}()

	if err = s.validator.Validate(&CompleteLessonRequest{LessonID: lessonID}); err != nil {
		return nil, err
	}

	enrollment, err = s.repo.Enrollment().GetByID(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.StudentID != callerID {
		return nil, ErrEnrollmentNotOwned
	}

	course, err := s.repo.Course().GetByID(ctx, enrollment.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if _, ok := course.LessonByID(lessonID); !ok {
		return nil, ErrLessonNotFound
	}

	for _, done := range enrollment.CompletedLessons {
		if done.LessonID == lessonID {
			return nil, ErrLessonAlreadyDone
		}
	}

	now := time.Now()
	completed := &models.CompletedLesson{
		EnrollmentID: enrollment.ID,
		LessonID:     lessonID,
		CompletedAt:  now,
	}

	var justCompleted bool
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// Composite primary key rejects a concurrent duplicate completion.
		if txErr := tx.Enrollment().AddCompletedLesson(ctx, completed); txErr != nil {
			return txErr
		}

		enrollment.CompletedLessons = append(enrollment.CompletedLessons, *completed)
		justCompleted = enrollment.RecalculateProgress(len(course.Lessons), now)

		if justCompleted {
			certID := uuid.NewString()
			enrollment.Certificate = models.Certificate{
				Issued:        true,
				IssuedAt:      &now,
				CertificateID: &certID,
			}
		}

		return tx.Enrollment().Update(ctx, enrollment)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrLessonAlreadyDone
		}
		return nil, fmt.Errorf("failed to record lesson completion: %w", err)
	}

	s.publish(ctx, events.NewNotificationEvent(events.EventLessonCompleted, events.LessonCompletedEvent{
		EnrollmentID: enrollment.ID,
		CourseID:     course.ID,
		StudentID:    enrollment.StudentID,
		LessonID:     lessonID,
		CompletedAt:  now,
		Progress:     enrollment.Progress,
	}))

	if justCompleted {
		s.publish(ctx, events.NewNotificationEvent(events.EventCourseCompleted, events.CourseCompletedEvent{
			EnrollmentID: enrollment.ID,
			CourseID:     course.ID,
			CourseTitle:  course.Title,
			StudentID:    enrollment.StudentID,
			CompletedAt:  now,
		}))
		s.publish(ctx, events.NewNotificationEvent(events.EventCertificateIssued, events.CertificateIssuedEvent{
			EnrollmentID:  enrollment.ID,
			CourseID:      course.ID,
			StudentID:     enrollment.StudentID,
			CertificateID: *enrollment.Certificate.CertificateID,
			IssuedAt:      now,
		}))
	}

	return enrollment, nil
}

func (s *enrollmentService) Cancel(ctx context.Context, enrollmentID, callerID uint) (err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "cancel_enrollment", callerID, enrollmentID, "enrollment", time.Since(start), err)
	}()

	enrollment, err := s.repo.Enrollment().GetByID(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	if enrollment.StudentID != callerID {
		return ErrEnrollmentNotOwned
	}

	// Completed-lesson rows go with the enrollment; an issued certificate
	// lives on the same row and is removed with it.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Enrollment().Delete(ctx, enrollmentID)
	})
	if err != nil {
		return fmt.Errorf("failed to cancel enrollment: %w", err)
	}

	s.publish(ctx, events.NewNotificationEvent(events.EventEnrollmentCancelled, events.EnrollmentCancelledEvent{
		EnrollmentID: enrollmentID,
		CourseID:     enrollment.CourseID,
		StudentID:    enrollment.StudentID,
		CancelledAt:  time.Now(),
		Progress:     enrollment.Progress,
	}))

	return nil
}

// publish is fire-and-forget: a broker outage must not fail the request.
func (s *enrollmentService) publish(ctx context.Context, event *events.NotificationEvent) {
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.Type, "error", err)
	}
}
