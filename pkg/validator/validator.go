package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/tamirazrab/parley/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()

	// meetingstatus accepts only the known lifecycle states
	_ = v.RegisterValidation("meetingstatus", func(fl validator.FieldLevel) bool {
		return entities.MeetingStatus(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
