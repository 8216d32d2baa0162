package apperror

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TagNameFunc reports validation errors under the name found in the given
// struct tag (json, env, ...) instead of the Go field name.
func TagNameFunc(tag string) validator.TagNameFunc {
	return func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	}
}

func formatFieldName(s string) string {
	// API_BASE_URL -> Api Base Url
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(strings.ToLower(s))
}

func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		switch e.Tag() {
		case "required", "required_if":
			return RequiredField(humanReadableField)
		default:
			return InvalidField(humanReadableField)
		}
	}

	return Wrap(err, CodeInvalidConfig, "Invalid configuration", 0)
}
