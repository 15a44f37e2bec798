package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

var validate = newValidator()

type enumValue interface {
	IsValid() bool
}

type ruleChecker interface {
	CheckRules() error
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(columnName)
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(enumValue)
		return ok && value.IsValid()
	})
	return v
}

// columnName reports fields by their database column so violations name the column.
func columnName(f reflect.StructField) string {
	for _, part := range strings.Split(f.Tag.Get("gorm"), ";") {
		if name, ok := strings.CutPrefix(part, "column:"); ok {
			return name
		}
	}
	return f.Name
}

// Validate checks attribute-level rules (required, enum membership, ranges) and
// any cross-field rules of the entity. The first violation is returned.
func Validate(e Entity) error {
	if err := validate.Struct(e); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return violationFor(e, errs[0])
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	if checker, ok := e.(ruleChecker); ok {
		return checker.CheckRules()
	}
	return nil
}

func violationFor(e Entity, fe validator.FieldError) *pkgerrors.Error {
	kind := e.Kind().String()
	field := fe.Field()
	value := fe.Value()

	switch fe.Tag() {
	case "required":
		return pkgerrors.Violation(pkgerrors.CodeRequiredField, kind, field, value, fmt.Sprintf("%s is required", field))
	case "enum":
		return pkgerrors.Violation(pkgerrors.CodeEnumViolation, kind, field, value, fmt.Sprintf("%s value %v is not allowed", field, value))
	case "min", "gte", "gt":
		return pkgerrors.Violation(pkgerrors.CodeRangeViolation, kind, field, value, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "max", "lte", "lt":
		return pkgerrors.Violation(pkgerrors.CodeRangeViolation, kind, field, value, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
	case "len":
		return pkgerrors.Violation(pkgerrors.CodeRangeViolation, kind, field, value, fmt.Sprintf("%s must have length %s", field, fe.Param()))
	case "email":
		return pkgerrors.Violation(pkgerrors.CodeValidation, kind, field, value, fmt.Sprintf("%s must be a valid email", field))
	}
	return pkgerrors.Violation(pkgerrors.CodeValidation, kind, field, value, fmt.Sprintf("%s is invalid", field))
}
