package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/graphql-crm/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("CUSTOMER_NOT_FOUND", "customer does not exist")

	t.Run("Should match predefined error after WithMsg", func(t *testing.T) {
		err := fmt.Errorf("service: %w", notFound.WithMsg("Customer with ID 42 does not exist."))

		assert.ErrorIs(t, err, notFound)

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, "Customer with ID 42 does not exist.", zErr.Msg())
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
	})

	t.Run("Should not match error with a different code", func(t *testing.T) {
		other := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product does not exist")
		assert.NotErrorIs(t, notFound, other)
	})

	t.Run("Should unwrap parent", func(t *testing.T) {
		parent := errors.New("boom")
		err := zerror.NewInternalServerError("INTERNAL", "internal").WrapParent(parent)

		assert.ErrorIs(t, err, parent)
		assert.Contains(t, err.Error(), "Parent=(boom)")
	})

	t.Run("Should keep error unchanged when wrapping nil", func(t *testing.T) {
		assert.Nil(t, notFound.WrapParent(nil).Parent())
	})
}

func TestStatusIsClientError(t *testing.T) {
	assert.True(t, zerror.StatusValidationFailed.IsClientError())
	assert.True(t, zerror.StatusConflict.IsClientError())
	assert.False(t, zerror.StatusInternalServerError.IsClientError())
	assert.False(t, zerror.StatusUnknown.IsClientError())
}
