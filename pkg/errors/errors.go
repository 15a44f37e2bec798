package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUniqueViolation     Code = "UNIQUE_VIOLATION"
	CodeForeignKeyViolation Code = "FOREIGN_KEY_VIOLATION"
	CodeEnumViolation       Code = "ENUM_VIOLATION"
	CodeRangeViolation      Code = "RANGE_VIOLATION"
	CodeRequiredField       Code = "REQUIRED_FIELD_VIOLATION"
	CodeInvalidTransition   Code = "INVALID_TRANSITION"
	CodeNotFound            Code = "NOT_FOUND"
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeInternal            Code = "INTERNAL_ERROR"
	CodeDependency          Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
	Constraint     bool
}

var metadataByCode = map[Code]Metadata{
	CodeUniqueViolation: {
		HTTPStatus:     http.StatusConflict,
		PublicMessage:  "value already in use",
		DetailsAllowed: true,
		Constraint:     true,
	},
	CodeForeignKeyViolation: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "referenced record missing",
		DetailsAllowed: true,
		Constraint:     true,
	},
	CodeEnumViolation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "value not allowed",
		DetailsAllowed: true,
		Constraint:     true,
	},
	CodeRangeViolation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "value out of range",
		DetailsAllowed: true,
		Constraint:     true,
	},
	CodeRequiredField: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "required field missing",
		DetailsAllowed: true,
		Constraint:     true,
	},
	CodeInvalidTransition: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "state transition disallowed",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Violation builds a constraint error carrying the entity kind, field and offending value.
func Violation(code Code, kind, field string, value any, message string) *Error {
	return New(code, message).WithDetails(map[string]any{
		"kind":  kind,
		"field": field,
		"value": value,
	})
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// Field returns the "field" detail when the error carries one.
func (e *Error) Field() string {
	if e == nil {
		return ""
	}
	if details, ok := e.details.(map[string]any); ok {
		if field, ok := details["field"].(string); ok {
			return field
		}
	}
	return ""
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of the first typed error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// Is reports whether err carries the provided code.
func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// IsConstraintViolation reports whether err is one of the constraint violation sub-kinds.
func IsConstraintViolation(err error) bool {
	typed := As(err)
	if typed == nil {
		return false
	}
	return MetadataFor(typed.Code()).Constraint
}
