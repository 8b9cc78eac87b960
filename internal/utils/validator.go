package utils

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	Validate *validator.Validate

	hexColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

const MinPasswordLength = 8

func InitValidator() {
	Validate = NewValidator()
}

// NewValidator returns a validator with the project specific tags registered:
// hex_color, slug, username and password.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hex_color", func(fl validator.FieldLevel) bool {
		return IsHexColor(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsAcceptablePassword(fl.Field().String())
	})
	return v
}

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(value)
}

// IsAcceptablePassword rejects short and purely numeric passwords.
func IsAcceptablePassword(password string) bool {
	if len([]rune(password)) < MinPasswordLength {
		return false
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
