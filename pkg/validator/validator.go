package validator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var (
	validate = validator.New()

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,}$`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
	digitPattern    = regexp.MustCompile(`\d`)
	specialPattern  = regexp.MustCompile(`[@$!%*#?&]`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]{8,}$`)
)

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
}

// IsStrongPassword requires 8+ characters drawn from letters, digits and
// @$!%*#?&, with at least one of each kind.
func IsStrongPassword(pw string) bool {
	return passwordPattern.MatchString(pw) &&
		letterPattern.MatchString(pw) &&
		digitPattern.MatchString(pw) &&
		specialPattern.MatchString(pw)
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errs = append(errs, &element)
		}
	}
	return errs
}

// Message renders the first failure as a sentence for the error response.
func Message(errs []*ErrorResponse) string {
	if len(errs) == 0 {
		return ""
	}
	e := errs[0]
	field := lowerFirst(e.FailedField)
	switch e.Tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return field + " must be at least " + e.Value
	case "max":
		return field + " must be at most " + e.Value
	case "gt":
		return field + " must be greater than " + e.Value
	case "gte":
		return field + " must be greater than or equal to " + e.Value
	case "oneof":
		return field + " must be one of: " + e.Value
	case "username":
		return field + " must be at least 3 characters of letters, digits or underscores"
	case "password_strength":
		return field + " must be at least 8 characters and contain a letter, a number and a special character"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
