package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Name     string   `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Role     UserRole `json:"role" gorm:"default:student;size:20;index" validate:"omitempty,user_role"`

	// Profile info
	Bio    *string `json:"bio" gorm:"type:text" validate:"omitempty,max=500"`
	Avatar *string `json:"avatar" gorm:"size:500"`

	// EnrolledCourses is derived through the enrollments table so it can
	// never diverge from the Enrollment records.
	EnrolledCourses []Course `json:"enrolled_courses,omitempty" gorm:"many2many:enrollments;joinForeignKey:StudentID;joinReferences:CourseID"`
	Wishlist        []Course `json:"wishlist,omitempty" gorm:"many2many:user_wishlist"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// CanManageCourse reports whether the user may mutate the given course.
// Admins manage everything, instructors only their own courses.
func (u *User) CanManageCourse(c *Course) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleInstructor && c.InstructorID == u.ID
}
