package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+91-7697470397", "+917697470397", true},
		{"+91 76974 70397", "+917697470397", true},
		{"(555) 123.4567", "5551234567", true},
		{"  9876543210 ", "9876543210", true},
		{"", "", false},
		{"12345", "", false},
		{"+1234567890123456", "", false},
		{"98765abc10", "", false},
		{"++919876543210", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := NormalizePhone(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidPhoneTag(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	type req struct {
		PhoneNumber string `validate:"required,valid_phone"`
	}

	require.NoError(t, v.Struct(req{PhoneNumber: "+91-7697470397"}))

	err := v.Struct(req{PhoneNumber: "call me"})
	require.Error(t, err)
	msgs := FormatValidationErrors(err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Phone number is not a valid phone number")

	msgs = FormatValidationErrors(v.Struct(req{}))
	assert.Equal(t, []string{"Phone number is required"}, msgs)
}

func TestNoEmojiTag(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	type req struct {
		Title *string `validate:"omitempty,no_emoji"`
	}

	plain := "Crème Brûlée: 10 Tips!"
	require.NoError(t, v.Struct(req{Title: &plain}))
	require.NoError(t, v.Struct(req{}))

	rocket := "Hiring now \U0001F680"
	err := v.Struct(req{Title: &rocket})
	require.Error(t, err)
	assert.Len(t, FormatValidationErrors(err), 1)
}
