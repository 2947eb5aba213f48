package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseCategory string

const (
	CategoryHTML       CourseCategory = "html"
	CategoryCSS        CourseCategory = "css"
	CategoryJavaScript CourseCategory = "javascript"
	CategoryReact      CourseCategory = "react"
	CategoryNode       CourseCategory = "node"
	CategoryPython     CourseCategory = "python"
	CategoryJava       CourseCategory = "java"
	CategoryOther      CourseCategory = "other"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

// Lesson is embedded in the course row as part of a JSONB array. Lessons have
// no identity outside their course, so they stay document-style; completion
// records reference them by their generated LessonID.
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
	VideoURL    string `json:"video_url,omitempty"`
	Duration    string `json:"duration,omitempty"`
	IsPreview   bool   `json:"is_preview"`
}

type Course struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Description string         `json:"description" gorm:"not null;type:text" validate:"required,max=1000"`
	Category    CourseCategory `json:"category" gorm:"not null;size:20;index" validate:"required,course_category"`
	Price       float64        `json:"price" gorm:"not null" validate:"min=0"`
	Image       string         `json:"image" gorm:"not null;size:500" validate:"required"`
	Duration    string         `json:"duration" gorm:"not null;size:50" validate:"required"`
	Level       CourseLevel    `json:"level" gorm:"not null;size:20" validate:"required,course_level"`

	InstructorID uint  `json:"instructor_id" gorm:"not null;index"`
	Instructor   *User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`

	Lessons          datatypes.JSONSlice[Lesson] `json:"lessons" gorm:"type:jsonb"`
	Requirements     datatypes.JSONSlice[string] `json:"requirements" gorm:"type:jsonb"`
	LearningOutcomes datatypes.JSONSlice[string] `json:"learning_outcomes" gorm:"type:jsonb"`
	Tags             datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`

	// EnrolledStudents is derived through the enrollments table, mirroring
	// User.EnrolledCourses.
	EnrolledStudents []User `json:"enrolled_students,omitempty" gorm:"many2many:enrollments;joinForeignKey:CourseID;joinReferences:StudentID"`

	Ratings []CourseRating `json:"ratings,omitempty" gorm:"foreignKey:CourseID"`

	// Aggregates recomputed from the full rating set on every rating change,
	// never incremented in place.
	AverageRating float64 `json:"average_rating" gorm:"default:0"`
	TotalRatings  int     `json:"total_ratings" gorm:"default:0"`

	IsPublished bool `json:"is_published" gorm:"default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

// LessonByID returns the lesson with the given id, or false when the course
// has no such lesson.
func (c *Course) LessonByID(lessonID string) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.ID == lessonID {
			return l, true
		}
	}
	return Lesson{}, false
}

// CourseRating is one user's rating of a course. The composite unique index
// makes "at most one rating per user per course" a storage-layer constraint.
type CourseRating struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_course_rating_user"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_course_rating_user"`

	Rating int    `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Review string `json:"review" gorm:"not null;type:text" validate:"required,max=2000"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
}

func (CourseRating) TableName() string {
	return "course_ratings"
}
