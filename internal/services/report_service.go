package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/skillforge/course-service/internal/models"
	"github.com/skillforge/course-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ReportService exports a course's enrollment roster for its instructor.
type ReportService interface {
	ExportEnrollmentsToExcel(ctx context.Context, courseID, callerID uint) ([]byte, error)
	ExportEnrollmentsToCSV(ctx context.Context, courseID, callerID uint) ([]byte, error)
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	ops    *ServiceLogger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
		ops:    NewServiceLogger(logger, "report"),
	}
}

// enrollmentRow is one roster line in either export format.
type enrollmentRow struct {
	StudentName      string
	StudentEmail     string
	Progress         int
	CompletedLessons int
	TotalLessons     int
	EnrolledAt       time.Time
	CompletedAt      *time.Time
	CertificateID    string
}

var rosterHeader = []string{
	"Student", "Email", "Progress (%)", "Completed Lessons", "Total Lessons",
	"Enrolled At", "Completed At", "Certificate ID",
}

func (s *reportService) ExportEnrollmentsToExcel(ctx context.Context, courseID, callerID uint) (data []byte, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "export_enrollments_xlsx", callerID, courseID, "course", time.Since(start), err)
	}()

	_, rows, err := s.collectRoster(ctx, courseID, callerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Enrollments"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range rosterHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i, row := range rows {
		values := []interface{}{
			row.StudentName,
			row.StudentEmail,
			row.Progress,
			row.CompletedLessons,
			row.TotalLessons,
			row.EnrolledAt.Format(time.RFC3339),
			formatNullableTime(row.CompletedAt),
			row.CertificateID,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err = f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) ExportEnrollmentsToCSV(ctx context.Context, courseID, callerID uint) (data []byte, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "export_enrollments_csv", callerID, courseID, "course", time.Since(start), err)
	}()

	_, rows, err := s.collectRoster(ctx, courseID, callerID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err = w.Write(rosterHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.StudentName,
			row.StudentEmail,
			strconv.Itoa(row.Progress),
			strconv.Itoa(row.CompletedLessons),
			strconv.Itoa(row.TotalLessons),
			row.EnrolledAt.Format(time.RFC3339),
			formatNullableTime(row.CompletedAt),
			row.CertificateID,
		}
		if err = w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// collectRoster authorizes the caller against the course and flattens its
// enrollments into export rows.
func (s *reportService) collectRoster(ctx context.Context, courseID, callerID uint) (*models.Course, []enrollmentRow, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, fmt.Errorf("failed to get course: %w", err)
	}

	caller, err := s.repo.User().GetByID(ctx, callerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !caller.CanManageCourse(course) {
		return nil, nil, NewPermissionError(callerID, courseID, "course", "export_enrollments", "not course instructor or admin")
	}

	enrollments, err := s.repo.Enrollment().GetByCourse(ctx, courseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get enrollments: %w", err)
	}

	rows := make([]enrollmentRow, 0, len(enrollments))
	for _, e := range enrollments {
		row := enrollmentRow{
			Progress:         e.Progress,
			CompletedLessons: len(e.CompletedLessons),
			TotalLessons:     len(course.Lessons),
			EnrolledAt:       e.EnrolledAt,
			CompletedAt:      e.CompletedAt,
		}
		if e.Student != nil {
			row.StudentName = e.Student.Name
			row.StudentEmail = e.Student.Email
		}
		if e.Certificate.Issued && e.Certificate.CertificateID != nil {
			row.CertificateID = *e.Certificate.CertificateID
		}
		rows = append(rows, row)
	}

	return course, rows, nil
}

func formatNullableTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
