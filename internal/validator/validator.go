// Package validator holds the signup credential policy and the custom
// tags registered with Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"mykhata/internal/aggregate"
	"mykhata/internal/models"
)

// PasswordSymbols is the punctuation set a password must draw from.
const PasswordSymbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?`~"

var (
	usernameRegex      = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	passwordStartRegex = regexp.MustCompile(`^[A-Z]`)
)

// ValidUsername reports whether s starts with an uppercase letter followed
// only by letters and digits.
func ValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// ValidPassword reports whether s starts with an uppercase letter and
// contains at least one character from PasswordSymbols.
func ValidPassword(s string) bool {
	return passwordStartRegex.MatchString(s) && strings.ContainsAny(s, PasswordSymbols)
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username_policy", validateUsername)
		_ = v.RegisterValidation("password_policy", validatePassword)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("granularity", validateGranularity)
	}
}

func validateUsername(fl validator.FieldLevel) bool {
	return ValidUsername(fl.Field().String())
}

func validatePassword(fl validator.FieldLevel) bool {
	return ValidPassword(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	_, ok := models.ParseTransactionType(fl.Field().String())
	return ok
}

func validateGranularity(fl validator.FieldLevel) bool {
	_, ok := aggregate.ParseGranularity(fl.Field().String())
	return ok
}
