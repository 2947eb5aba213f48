package models

import (
	"math"
	"time"
)

type Enrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`

	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	EnrolledAt       time.Time         `json:"enrolled_at"`
	CompletedLessons []CompletedLesson `json:"completed_lessons" gorm:"foreignKey:EnrollmentID"`

	// Progress is derived from completed lesson count against the course's
	// lesson count; 0..100.
	Progress    int        `json:"progress" gorm:"default:0"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`

	Certificate Certificate `json:"certificate" gorm:"embedded;embeddedPrefix:certificate_"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// Certificate is issued once, when the enrollment reaches 100% progress.
type Certificate struct {
	Issued        bool       `json:"issued" gorm:"default:false"`
	IssuedAt      *time.Time `json:"issued_at"`
	CertificateID *string    `json:"certificate_id" gorm:"size:64"`
}

// CompletedLesson records one lesson completion. The composite primary key
// rejects a second completion of the same lesson at the storage layer.
type CompletedLesson struct {
	EnrollmentID uint      `json:"-" gorm:"primaryKey"`
	LessonID     string    `json:"lesson_id" gorm:"primaryKey;size:64"`
	CompletedAt  time.Time `json:"completed_at"`
}

func (CompletedLesson) TableName() string {
	return "completed_lessons"
}

// ComputeProgress returns round(100 * completed / total). A course with no
// lessons has progress 0 regardless of completions.
func ComputeProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// RecalculateProgress re-derives progress from the completed lesson set and
// applies the one-way completion transition. It reports whether the
// enrollment just transitioned to completed.
func (e *Enrollment) RecalculateProgress(totalLessons int, now time.Time) bool {
	e.Progress = ComputeProgress(len(e.CompletedLessons), totalLessons)
	if e.Progress == 100 && !e.IsCompleted {
		e.IsCompleted = true
		e.CompletedAt = &now
		return true
	}
	return false
}
