package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if n, ok := field.Interface().(interface{ column() any }); ok {
			return n.column()
		}
		return nil
	}, Nullable[string]{}, Nullable[int]{}, Nullable[float64]{}, Nullable[Date]{}, Nullable[uuid.UUID]{})
	return v
}

// validateStruct runs tag validation and reports the first failure as a 400.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return errs.NewInvalidFieldError(fe.Field(), describe(fe))
	}
	return errs.NewBadRequestError(err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

type requiredField struct {
	name    string
	present bool
}

func required(name string, present bool) requiredField {
	return requiredField{name, present}
}

func checkRequired(fields ...requiredField) error {
	for _, f := range fields {
		if !f.present {
			return errs.NewMissingRequiredFieldError(f.name)
		}
	}
	return nil
}

// notBlank reports a non-nil pointer to a non-empty string.
func notBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// keep guards a required column during a partial update: omitted and null
// pass, an empty string does not.
func keep(name string, s *string) requiredField {
	return requiredField{name, s == nil || strings.TrimSpace(*s) != ""}
}
