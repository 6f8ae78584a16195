package nodeid_test

import (
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
	"github.com/tuanvumaihuynh/graphql-crm/internal/nodeid"
)

func TestEncodeDecode(t *testing.T) {
	id := uuid.MustParse("0190f5a4-7c1e-7b7a-9d2e-3f4a5b6c7d8e")

	gid := nodeid.Encode(nodeid.Customer, id)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("Customer:"+id.String())), gid)

	typ, got, err := nodeid.Decode(gid)
	require.NoError(t, err)
	assert.Equal(t, nodeid.Customer, typ)
	assert.Equal(t, id, got)
}

func TestParse(t *testing.T) {
	id := uuid.MustParse("0190f5a4-7c1e-7b7a-9d2e-3f4a5b6c7d8e")

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"raw uuid", id.String(), false},
		{"global id", nodeid.Encode(nodeid.Product, id), false},
		{"global id of another type", nodeid.Encode(nodeid.Customer, id), true},
		{"garbage", "not-an-id", true},
		{"global id without uuid", base64.StdEncoding.EncodeToString([]byte("Product:42")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nodeid.Parse(nodeid.Product, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidGlobalID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}
