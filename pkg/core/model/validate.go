package model

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the custom tags used by model structs
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := ParseWeekday(fl.Field().String())
		return ok
	})
}
