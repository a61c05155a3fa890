package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail represents the structure of a single validation error.
type ValidationErrorDetail struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Expected string      `json:"expected"`
	Received interface{} `json:"received"`
}

// ValidationErrorData represents the data field in the validation error response.
type ValidationErrorData struct {
	Errors        []ValidationErrorDetail `json:"errors"`
	Documentation string                  `json:"documentation"`
}

const DocumentationLink = "/swagger/index.html"

// BindAndValidate binds the request body to the given object and validates it.
// If validation fails, it sends a formatted error response and returns false.
// If validation succeeds, it returns true.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var validationErrors []ValidationErrorDetail
	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &fieldErrs):
		for _, e := range fieldErrs {
			validationErrors = append(validationErrors, describeFieldError(e))
		}
	case errors.As(err, &typeErr):
		validationErrors = append(validationErrors, ValidationErrorDetail{
			Field:    typeErr.Field,
			Message:  fmt.Sprintf("Field '%s' has invalid type", typeErr.Field),
			Expected: typeErr.Type.String(),
			Received: typeErr.Value,
		})
	default:
		validationErrors = append(validationErrors, ValidationErrorDetail{
			Field:    "body",
			Message:  "Malformed JSON or invalid request body",
			Expected: "valid JSON",
			Received: "invalid",
		})
	}

	RespondValidationErrors(c, "Invalid request parameters", validationErrors)
	return false
}

// RespondValidationErrors writes a 400 carrying the given field errors.
func RespondValidationErrors(c *gin.Context, message string, details []ValidationErrorDetail) {
	c.JSON(http.StatusBadRequest, Response{
		Status:  http.StatusBadRequest,
		Message: message,
		Data: ValidationErrorData{
			Errors:        details,
			Documentation: DocumentationLink,
		},
	})
}

func describeFieldError(e validator.FieldError) ValidationErrorDetail {
	detail := ValidationErrorDetail{
		Field:    e.Field(),
		Message:  fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", e.Field(), e.Tag()),
		Expected: e.Param(),
		Received: e.Value(),
	}
	if detail.Expected == "" {
		detail.Expected = e.Tag()
	}

	switch e.Tag() {
	case "required", "notblank":
		detail.Message = fmt.Sprintf("Field '%s' is required", e.Field())
		detail.Expected = "not blank"
	case "oneof":
		detail.Message = fmt.Sprintf("Field '%s' must be one of: %s", e.Field(), e.Param())
		detail.Expected = e.Param()
	case "max":
		detail.Message = fmt.Sprintf("Field '%s' must be at most %s characters long", e.Field(), e.Param())
		detail.Expected = fmt.Sprintf("max length %s", e.Param())
	}
	return detail
}
