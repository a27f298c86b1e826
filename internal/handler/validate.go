package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/astropet/platform/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs struct tag validation and folds failures into one
// VALIDATION_ERROR naming each bad field.
func ValidateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return domain.ErrValidation(err.Error())
	}

	fields := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return domain.ErrValidation("invalid fields: " + strings.Join(fields, ", "))
}
