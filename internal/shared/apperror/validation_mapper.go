package apperror

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts validator errors into user-facing AppErrors.
// Only the first failing field is reported so the client gets one clear
// message instead of a wall of them.
func MapValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return New(
			CodeInvalidInput,
			"Invalid input",
			http.StatusBadRequest,
		)
	}

	e := errs[0]

	// e.Field() is already the json name thanks to Init().
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "email":
		return New(
			CodeInvalidInput,
			fmt.Sprintf("%s must be a valid email address", field),
			http.StatusBadRequest,
		)
	case "min":
		return New(
			CodeInvalidInput,
			fmt.Sprintf("%s must be at least %s characters", field, e.Param()),
			http.StatusBadRequest,
		)
	case "len":
		return New(
			CodeInvalidInput,
			fmt.Sprintf("%s must be exactly %s characters", field, e.Param()),
			http.StatusBadRequest,
		)
	default:
		return InvalidField(field)
	}
}
