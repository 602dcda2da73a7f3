package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ReasonMissingField is set on VALIDATION_FAILED when a required field was absent
const ReasonMissingField = "MISSING_FIELD"

var setupOnce sync.Once

// SetupValidator configures gin's validator once per process: field names come
// from json (then form) tags and the storefront rules are registered.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return catalog.IsValidSlug(fl.Field().String())
		})
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FormatValidationErrors turns a binding error into a VALIDATION_FAILED response.
// Malformed JSON yields a response without details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var (
		details []dto.ValidationDetail
		reason  string
		errs    validator.ValidationErrors
	)
	if errors.As(err, &errs) {
		details = make([]dto.ValidationDetail, 0, len(errs))
		for _, fe := range errs {
			if fe.Tag() == "required" {
				reason = ReasonMissingField
			}
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)})
		}
	}

	resp := dto.NewValidationErrorResponse("Request validation failed", requestID, details)
	resp.Error.Reason = reason
	return resp
}

// HandleValidationError writes a 400 for a failed bind
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"slug":     "Use lowercase letters, numbers and single hyphens",
}

var boundMessages = map[string]string{
	"oneof": "Must be one of: ",
	"gte":   "Must be greater than or equal to ",
	"lte":   "Must be less than or equal to ",
	"gt":    "Must be greater than ",
	"lt":    "Must be less than ",
}

func describe(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if prefix, ok := boundMessages[fe.Tag()]; ok {
		return prefix + fe.Param()
	}
	switch fe.Tag() {
	case "min", "max":
		bound := "at least "
		if fe.Tag() == "max" {
			bound = "at most "
		}
		switch fe.Kind() {
		case reflect.String:
			return "Must be " + bound + fe.Param() + " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			return "Must contain " + bound + fe.Param() + " items"
		}
		return "Must be " + bound + fe.Param()
	}
	return "Invalid value"
}
