package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/layertint/internal/generate"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance reports fields by their config key rather than the Go
// field name.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// Validate range-checks the set fields.
func (f *File) Validate() error {
	err := validatorInstance().Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &generate.ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "min", "gte":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		msg = fmt.Sprintf("must be at most %s", fe.Param())
	default:
		msg = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &generate.ValidationError{Field: fe.Field(), Message: msg}
}
