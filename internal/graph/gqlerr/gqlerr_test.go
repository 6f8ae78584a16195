package gqlerr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
	"github.com/tuanvumaihuynh/graphql-crm/internal/graph/gqlerr"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
)

func TestNew(t *testing.T) {
	t.Run("Should keep client errors", func(t *testing.T) {
		err := gqlerr.New(fmt.Errorf("db with tx: %w", apperr.CustomerNotFound("42")))

		assert.Equal(t, "Customer with ID 42 does not exist.", err.Error())
		assert.Equal(t, map[string]any{"code": apperr.CustomerNotFoundCode}, err.Extensions())
		assert.False(t, err.Internal())
	})

	t.Run("Should hide internal errors", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := gqlerr.New(cause)

		assert.Equal(t, "internal server error", err.Error())
		assert.True(t, err.Internal())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Should report field details", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		type input struct {
			Email string `json:"email" validate:"required,email"`
		}
		verr := v.Validate(input{Email: "nope"})
		require.Error(t, verr)

		gqlErr := gqlerr.New(apperr.ValidationErr.WrapParent(verr))
		assert.Equal(t, "Invalid input: email must be a valid email address.", gqlErr.Message)
		assert.Equal(t, []gqlerr.FieldError{{Field: "email", Message: "must be a valid email address"}},
			gqlErr.Extensions()["details"])
	})
}

func TestNewResponse(t *testing.T) {
	body, err := json.Marshal(gqlerr.NewResponse(gqlerr.InternalServerErr))
	require.NoError(t, err)

	var res struct {
		Errors []struct {
			Message    string         `json:"message"`
			Extensions map[string]any `json:"extensions"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "internal server error", res.Errors[0].Message)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", res.Errors[0].Extensions["code"])
}
