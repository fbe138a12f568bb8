// internal/utils/validator.go
package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// MaxProductIDLength bounds product ids in runes. Ids come from retailer
// data unchanged, so any printable text is accepted.
const MaxProductIDLength = 128

func init() {
	validate = validator.New()
	validate.RegisterValidation("product_id", validateProductID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateProductID(fl validator.FieldLevel) bool {
	return IsValidProductID(fl.Field().String())
}

// IsValidProductID applies the product_id rule to a path parameter. Whether
// the product exists is left to the catalog lookup.
func IsValidProductID(id string) bool {
	if strings.TrimSpace(id) == "" || !utf8.ValidString(id) {
		return false
	}
	if utf8.RuneCountInString(id) > MaxProductIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "product_id":
		return "Product id must be 1-128 printable characters"
	default:
		return e.Field() + " is invalid"
	}
}
