package services

import (
	"log/slog"

	"github.com/skillforge/course-service/internal/cache"
	"github.com/skillforge/course-service/internal/events"
	"github.com/skillforge/course-service/internal/repositories"
	"github.com/skillforge/course-service/internal/validator"
)

// ServiceManager bundles the domain services for handler wiring.
type ServiceManager interface {
	User() UserService
	Course() CourseService
	Enrollment() EnrollmentService
	Report() ReportService
}

type serviceManager struct {
	user       UserService
	course     CourseService
	enrollment EnrollmentService
	report     ReportService
}

func NewServiceManager(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
) ServiceManager {
	return &serviceManager{
		user:       NewUserService(repo, logger, validator),
		course:     NewCourseService(repo, logger, validator, publisher, cacheService),
		enrollment: NewEnrollmentService(repo, logger, validator, publisher),
		report:     NewReportService(repo, logger),
	}
}

func (m *serviceManager) User() UserService             { return m.user }
func (m *serviceManager) Course() CourseService         { return m.course }
func (m *serviceManager) Enrollment() EnrollmentService { return m.enrollment }
func (m *serviceManager) Report() ReportService         { return m.report }
