package service

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"blogsphere/internal/apperror"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// checkStruct validates s and reports the first problem as a 422. When
// requiredMsg is empty a per-field "<Field> is required" message is used.
func checkStruct(v *validator.Validate, s any, requiredMsg string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Internal("validation failed", err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "email" {
			return apperror.Validation("Please enter a valid email address")
		}
	}

	if requiredMsg != "" {
		return apperror.Validation(requiredMsg)
	}
	return apperror.Validation(fmt.Sprintf("%s is required", fieldErrs[0].Field()))
}

// validID reports whether id can name a stored row. Path ids that fail here
// would otherwise reach Postgres as malformed uuid literals.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
