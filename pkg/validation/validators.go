package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// E164-like phone: optional +, digits 7-15 length
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// Characters users commonly type as phone separators
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// NormalizePhone returns the canonical form of a phone number: separators
// stripped, optional leading '+', 7 to 15 digits.
func NormalizePhone(raw string) (string, bool) {
	phone := phoneSeparators.Replace(strings.TrimSpace(raw))
	if !phoneRegex.MatchString(phone) {
		return "", false
	}
	return phone, true
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, ok := NormalizePhone(val)
	return ok
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		// Supplementary planes are mostly emoji/symbols
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) { // Symbol, other / Symbol, modifier
			return false
		}
	}
	return true
}
