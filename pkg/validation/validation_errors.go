package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	// Auth fields
	"PhoneNumber": "Phone number",
	"OTP":         "OTP",

	// LinkedIn fields
	"ProfileURL": "LinkedIn profile URL",

	// Job fields
	"Title":        "Title",
	"Company":      "Company",
	"Location":     "Location",
	"Description":  "Description",
	"Requirements": "Requirements",
	"SalaryRange":  "Salary range",
	"JobType":      "Job type",
	"Status":       "Status",

	// Blog fields
	"Content":       "Content",
	"Excerpt":       "Excerpt",
	"Author":        "Author",
	"Tags":          "Tags",
	"FeaturedImage": "Featured image",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, param)

	case "numeric":
		return fmt.Sprintf("%s must contain digits only", label)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))

	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)

	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number (7-15 digits, optional +)", label)

	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)

	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
