package utils

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Detect markup and comment sequences that have no business in a region or column name.
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their query parameter name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("safetext", func(fl validator.FieldLevel) bool {
		return !dangerousPattern.MatchString(fl.Field().String())
	})
	return v
}

// ViewParams are the query parameters shared by the view, chart and render endpoints.
type ViewParams struct {
	Region    string `query:"region" validate:"max=100,safetext"`
	Indicator string `query:"indicator" validate:"max=100,safetext"`
	RankBy    string `query:"rankBy" validate:"max=100,safetext"`
	Order     string `query:"order" validate:"omitempty,oneof=asc desc dsc ascending descending"`
	N         int    `query:"n" validate:"gte=0,lte=1000"`
	Scope     string `query:"scope" validate:"omitempty,oneof=all filtered"`
}

// ParseViewParams reads and validates ViewParams. The returned map holds one
// or more messages per offending parameter and is empty when all is well.
func ParseViewParams(values url.Values) (ViewParams, map[string][]string) {
	fieldErrors := make(map[string][]string)
	params := ViewParams{
		Region:    SanitizeInput(values.Get("region")),
		Indicator: SanitizeInput(values.Get("indicator")),
		RankBy:    SanitizeInput(values.Get("rankBy")),
		Order:     strings.ToLower(strings.TrimSpace(values.Get("order"))),
		Scope:     strings.ToLower(strings.TrimSpace(values.Get("scope"))),
	}
	params.N, fieldErrors = ParseIntParam(values, "n", fieldErrors)

	for field, messages := range ValidateStruct(params) {
		if _, seen := fieldErrors[field]; seen {
			continue
		}
		fieldErrors[field] = append(fieldErrors[field], messages...)
	}
	return params, fieldErrors
}

// ValidateStruct runs the tag validators over s and converts failures into field errors.
func ValidateStruct(s interface{}) map[string][]string {
	fieldErrors := make(map[string][]string)
	err := validate.Struct(s)
	if err == nil {
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fieldErrors["_"] = append(fieldErrors["_"], err.Error())
		return fieldErrors
	}
	for _, fe := range validationErrors {
		fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], describe(fe))
	}
	return fieldErrors
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s too long (max %s characters)", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "safetext":
		return fmt.Sprintf("%s contains invalid characters", fe.Field())
	}
	return fmt.Sprintf("Invalid field value for field %q.", fe.Field())
}

// SanitizeInput removes HTML tags and surrounding whitespace.
func SanitizeInput(input string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(input, ""))
}
