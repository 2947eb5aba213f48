package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/skillforge/course-service/internal/models"
)

// Validator wraps the struct-tag validator with the custom rules this
// service registers.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates a struct and returns field-level errors, or nil.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if ve := ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("course_category", validateCourseCategory)
	validate.RegisterValidation("course_level", validateCourseLevel)
	validate.RegisterValidation("user_role", validateUserRole)

	// Use json tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateCourseCategory(fl validator.FieldLevel) bool {
	validCategories := []models.CourseCategory{
		models.CategoryHTML,
		models.CategoryCSS,
		models.CategoryJavaScript,
		models.CategoryReact,
		models.CategoryNode,
		models.CategoryPython,
		models.CategoryJava,
		models.CategoryOther,
	}

	value := fl.Field().String()
	for _, validCategory := range validCategories {
		if string(validCategory) == value {
			return true
		}
	}
	return false
}

func validateCourseLevel(fl validator.FieldLevel) bool {
	validLevels := []models.CourseLevel{
		models.LevelBeginner,
		models.LevelIntermediate,
		models.LevelAdvanced,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStudent,
		models.RoleInstructor,
		models.RoleAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}
