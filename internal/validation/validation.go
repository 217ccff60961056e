package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"hospital-admissions/internal/models"
	"hospital-admissions/pkg/apperrors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)

// Validator checks request structs using the same `binding` tags gin reads
type Validator struct {
	validate *validator.Validate
}

func New() (*Validator, error) {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(jsonFieldName)
	if err := Register(v); err != nil {
		return nil, err
	}
	return &Validator{validate: v}, nil
}

// Struct returns nil or a 400 AppError listing every failed field
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return Translate(err)
	}
	return nil
}

// RegisterGinValidators installs custom rules on gin's binding validator
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	v.RegisterTagNameFunc(jsonFieldName)
	return Register(v)
}

// Register adds the service's custom tags to a validator instance
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		return fmt.Errorf("failed to register phone validator: %w", err)
	}
	if err := v.RegisterValidation("roomstatus", validateRoomStatus); err != nil {
		return fmt.Errorf("failed to register roomstatus validator: %w", err)
	}
	return nil
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validateRoomStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.RoomStatusAvailable, models.RoomStatusOccupied, models.RoomStatusMaintenance, models.RoomStatusReserved:
		return true
	}
	return false
}

// Translate turns binding failures into a 400 with per-field details
func Translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.InvalidInput("invalid request body")
	}

	fields := make(map[string]any, len(validationErrs))
	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		name := lowerFirst(fe.Field())
		msg := describe(fe)
		fields[name] = msg
		messages = append(messages, fmt.Sprintf("%s %s", name, msg))
	}

	return apperrors.Validation(strings.Join(messages, "; "), fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "roomstatus":
		return "must be one of: available occupied maintenance reserved"
	default:
		return "is invalid"
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
