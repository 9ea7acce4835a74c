// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/actionserver/internal/errors"
)

var (
	// slugRegex matches identifiers usable in URLs and manifest keys.
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Slug validates action-name style identifiers: lowercase alphanumeric runs
// separated by single hyphens or underscores.
var Slug = validation.NewStringRuleWithError(
	func(s string) bool {
		return slugRegex.MatchString(s)
	},
	validation.NewError(
		"validation_slug_format",
		"must contain only lowercase letters, numbers, hyphens and underscores",
	),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
