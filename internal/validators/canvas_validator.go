package validators

import (
	"errors"
	"regexp"
	"sync"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	hexRGB       = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("hexrgb", func(fl validator.FieldLevel) bool {
			return hexRGB.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("objecttype", func(fl validator.FieldLevel) bool {
			return enums.ObjectType(fl.Field().String()).IsValid()
		})
	})
	return validate
}

func ValidateCreateCanvasObject(req *models.CreateCanvasObjectRequest) []error {
	if req == nil {
		return []error{errs.ErrInvalidRequestBody}
	}
	return translate(getValidator().Struct(req))
}

func ValidateUpdateCanvasObject(req *models.UpdateCanvasObjectRequest) []error {
	if req == nil {
		return []error{errs.ErrInvalidRequestBody}
	}
	return translate(getValidator().Struct(req))
}

func IsHexColor(color string) bool {
	return hexRGB.MatchString(color)
}

// translate maps validator field errors onto the service's error sentinels,
// reporting each sentinel once.
func translate(err error) []error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []error{errs.ErrInvalidRequestBody}
	}

	var out []error
	seen := make(map[error]bool)
	for _, fe := range fieldErrs {
		var mapped error
		switch fe.Field() {
		case "WhiteboardID":
			mapped = errs.ErrWhiteboardRequired
		case "ObjectType":
			mapped = errs.ErrInvalidObjectType
		case "X", "Y":
			mapped = errs.ErrMissingPosition
		case "Color":
			mapped = errs.ErrInvalidColor
		case "Width", "Height", "StrokeWidth":
			mapped = errs.ErrInvalidDimensions
		default:
			mapped = errs.ErrInvalidRequestBody
		}
		if !seen[mapped] {
			seen[mapped] = true
			out = append(out, mapped)
		}
	}
	return out
}
