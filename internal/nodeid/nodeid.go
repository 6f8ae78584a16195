// Package nodeid encodes and decodes Relay global object identifiers,
// base64 of "Type:uuid".
package nodeid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/graphql-go/relay"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
)

const (
	Customer = "Customer"
	Product  = "Product"
	Order    = "Order"
)

func Encode(typ string, id uuid.UUID) string {
	return relay.ToGlobalID(typ, id.String())
}

// Decode splits a global ID into its type name and UUID.
func Decode(globalID string) (string, uuid.UUID, error) {
	resolved := relay.FromGlobalID(globalID)
	if resolved == nil || resolved.Type == "" {
		return "", uuid.Nil, apperr.ErrInvalidGlobalID.WithMsg(fmt.Sprintf("Invalid global ID %q.", globalID))
	}

	id, err := uuid.Parse(resolved.ID)
	if err != nil {
		return "", uuid.Nil, apperr.ErrInvalidGlobalID.
			WithMsg(fmt.Sprintf("Invalid global ID %q.", globalID)).
			WrapParent(err)
	}

	return resolved.Type, id, nil
}

// Parse accepts either a raw UUID or a global ID of type typ.
func Parse(typ, s string) (uuid.UUID, error) {
	if id, err := uuid.Parse(s); err == nil {
		return id, nil
	}

	got, id, err := Decode(s)
	if err != nil {
		return uuid.Nil, err
	}
	if got != typ {
		return uuid.Nil, apperr.ErrInvalidGlobalID.WithMsg(fmt.Sprintf("Global ID %q does not identify a %s.", s, typ))
	}

	return id, nil
}
