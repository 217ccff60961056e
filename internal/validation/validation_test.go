package validation

import (
	"errors"
	"testing"

	"hospital-admissions/pkg/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Email string `validate:"required,email"`
	Phone string `validate:"required,phone"`
	Role  string `validate:"oneof=doctor nurse"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestPhoneRule(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		phone string
		valid bool
	}{
		{"+1-555-0101-22", true},
		{"555 010 2030", true},
		{"5550102030", true},
		{"555-0101", false},
		{"call me maybe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.valid, v.Var(tt.phone, "phone") == nil)
		})
	}
}

func TestTranslate_FieldErrors(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(contact{Email: "not-an-email", Phone: "123", Role: "surgeon"})
	require.Error(t, err)

	translated := Translate(err)
	appErr := apperrors.As(translated)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, "must be a valid email address", appErr.Details["email"])
	assert.Equal(t, "must be a valid phone number", appErr.Details["phone"])
	assert.Equal(t, "must be one of: doctor nurse", appErr.Details["role"])
	assert.Contains(t, appErr.Message, "email must be a valid email address")
}

func TestRoomStatusRule(t *testing.T) {
	v := newValidator(t)

	type update struct {
		Status string `validate:"roomstatus"`
	}

	assert.NoError(t, v.Struct(update{Status: "maintenance"}))
	err := v.Struct(update{Status: "closed"})
	require.Error(t, err)
	assert.Equal(t, "must be one of: available occupied maintenance reserved", apperrors.As(Translate(err)).Details["status"])
}

func TestTranslate_NonValidationError(t *testing.T) {
	appErr := apperrors.As(Translate(errors.New("unexpected EOF")))
	assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "invalid request body", appErr.Message)
}

func TestValidator_UsesBindingTagsAndJSONNames(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	type admit struct {
		PatientID string `json:"patientId" binding:"required"`
		Duration  int    `json:"expectedDuration" binding:"gte=0"`
	}

	assert.NoError(t, v.Struct(admit{PatientID: "P1001"}))

	appErr := apperrors.As(v.Struct(admit{Duration: -1}))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, "is required", appErr.Details["patientId"])
	assert.Equal(t, "must be at least 0", appErr.Details["expectedDuration"])
}

func TestRegisterGinValidators(t *testing.T) {
	assert.NoError(t, RegisterGinValidators())
}
