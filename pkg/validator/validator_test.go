package validator_test

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
)

func TestIsPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+1 (555) 123-4567", true},
		{"555-123-4567", true},
		{"+44 20 7946 0958", true},
		{"(555)1234567", true},
		{"abc", false},
		{"555-CALL-NOW", false},
		{"++1 555", false},
		{"", false},
		{"+", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.IsPhone(tt.phone))
		})
	}
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	type input struct {
		Name  string  `json:"name" validate:"required"`
		Email string  `json:"email" validate:"required,email"`
		Phone *string `json:"phone" validate:"omitempty,max=32"`
	}

	t.Run("Should accept valid input", func(t *testing.T) {
		phone := "+1 (555) 123-4567"
		assert.NoError(t, v.Validate(input{Name: "Alice", Email: "alice@example.com", Phone: &phone}))
	})

	t.Run("Should report json field names", func(t *testing.T) {
		err := v.Validate(input{Email: "not-an-email"})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		var verrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		require.Len(t, verrs, 2)
		assert.Equal(t, "name", verrs[0].Field())
		assert.Equal(t, "field is required", validator.ValidationErrorMessage(verrs[0]))
		assert.Equal(t, "email", verrs[1].Field())
		assert.Equal(t, "must be a valid email address", validator.ValidationErrorMessage(verrs[1]))
	})
}
