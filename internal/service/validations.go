package service

import (
	"errors"
	"math"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/runcrew/stride/internal/error_values"
	"github.com/runcrew/stride/pkg/entity"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("alphanum_underscore", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for i, char := range value {
				// Cannot be started with a digit or underscore
				if i == 0 && (unicode.IsDigit(char) || char == '_') {
					return false
				}
				// Digits, letters or underscore
				if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
					return false
				}
			}
			return true
		})
		validate.RegisterValidation("activity_kind", func(fl validator.FieldLevel) bool {
			return entity.ActivityKind(fl.Field().String()).Valid()
		})
	})
}

// validateStruct wraps field errors with ErrValidation so handlers can map
// them to 400 responses.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		return errors.Join(errorvalues.ErrValidation, validationErrors)
	}
	return errors.New("validation unexpected error: " + err.Error())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
