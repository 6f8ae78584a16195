package apperr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
)

func TestBulkCreateFailed(t *testing.T) {
	tests := []struct {
		name string
		errs []string
		want string
	}{
		{
			name: "plain items",
			errs: []string{"Invalid phone format.", "Price must be positive."},
			want: "All records failed to be created. Errors: ['Invalid phone format.', 'Price must be positive.']",
		},
		{
			name: "item holding single quotes",
			errs: []string{"Email 'a@x.com' already exists.", "Invalid phone format."},
			want: `All records failed to be created. Errors: ["Email 'a@x.com' already exists.", 'Invalid phone format.']`,
		},
		{
			name: "item holding both quote kinds",
			errs: []string{`it's "odd"`},
			want: `All records failed to be created. Errors: ['it\'s "odd"']`,
		},
		{
			name: "backslash and newline",
			errs: []string{"a\\b\nc"},
			want: `All records failed to be created. Errors: ['a\\b\nc']`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apperr.BulkCreateFailed(tt.errs)
			assert.ErrorIs(t, err, apperr.ErrBulkCreateFailed)
			assert.Equal(t, tt.want, apperr.Message(err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Customer with ID 42 does not exist.", apperr.Message(apperr.CustomerNotFound("42")))
	assert.Equal(t, "internal server error", apperr.Message(errors.New("connection reset")))
	assert.True(t, apperr.IsNotFound(apperr.ErrProductNotFound))
	assert.False(t, apperr.IsClientError(errors.New("connection reset")))
}
