package events

import (
	"time"
)

// EventType represents different types of notification events
type EventType string

const (
	// Enrollment events
	EventEnrollmentCreated   EventType = "enrollment.created"
	EventEnrollmentCancelled EventType = "enrollment.cancelled"
	EventLessonCompleted     EventType = "enrollment.lesson_completed"
	EventCourseCompleted     EventType = "enrollment.course_completed"
	EventCertificateIssued   EventType = "enrollment.certificate_issued"

	// Course events
	EventCoursePublished EventType = "course.published"
	EventCourseRated     EventType = "course.rated"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Enrollment notification event payloads

type EnrollmentCreatedEvent struct {
	EnrollmentID uint      `json:"enrollment_id"`
	CourseID     uint      `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	StudentID    uint      `json:"student_id"`
	InstructorID uint      `json:"instructor_id"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

type EnrollmentCancelledEvent struct {
	EnrollmentID uint      `json:"enrollment_id"`
	CourseID     uint      `json:"course_id"`
	StudentID    uint      `json:"student_id"`
	CancelledAt  time.Time `json:"cancelled_at"`
	Progress     int       `json:"progress"`
}

type LessonCompletedEvent struct {
	EnrollmentID uint      `json:"enrollment_id"`
	CourseID     uint      `json:"course_id"`
	StudentID    uint      `json:"student_id"`
	LessonID     string    `json:"lesson_id"`
	CompletedAt  time.Time `json:"completed_at"`
	Progress     int       `json:"progress"`
}

type CourseCompletedEvent struct {
	EnrollmentID uint      `json:"enrollment_id"`
	CourseID     uint      `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	StudentID    uint      `json:"student_id"`
	CompletedAt  time.Time `json:"completed_at"`
}

type CertificateIssuedEvent struct {
	EnrollmentID  uint      `json:"enrollment_id"`
	CourseID      uint      `json:"course_id"`
	StudentID     uint      `json:"student_id"`
	CertificateID string    `json:"certificate_id"`
	IssuedAt      time.Time `json:"issued_at"`
}

// Course notification event payloads

type CoursePublishedEvent struct {
	CourseID     uint      `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	InstructorID uint      `json:"instructor_id"`
	PublishedAt  time.Time `json:"published_at"`
}

type CourseRatedEvent struct {
	CourseID      uint    `json:"course_id"`
	UserID        uint    `json:"user_id"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}
