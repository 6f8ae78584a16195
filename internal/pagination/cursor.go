package pagination

import (
	"encoding/base64"
	"encoding/json"
	"slices"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
)

// cursorPayload is the decoded form of an opaque cursor. Keys pins the
// ordering the cursor was issued for.
type cursorPayload struct {
	Keys   []string `json:"k"`
	Values []string `json:"v"`
}

func (o Ordering[T]) encodeCursor(item T) string {
	b, err := json.Marshal(cursorPayload{Keys: o.Keys(), Values: o.values(item)})
	if err != nil {
		// a struct of string slices always marshals
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (o Ordering[T]) decodeCursor(raw string) ([]string, error) {
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, apperr.ErrInvalidCursor.WrapParent(err)
	}

	var payload cursorPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, apperr.ErrInvalidCursor.WrapParent(err)
	}

	if !slices.Equal(payload.Keys, o.Keys()) || len(payload.Values) != len(o) {
		return nil, apperr.ErrInvalidCursor.WithMsg("Cursor does not match the requested ordering.")
	}

	for i, t := range o {
		if !t.Column.Type.valid(payload.Values[i]) {
			return nil, apperr.ErrInvalidCursor
		}
	}

	return payload.Values, nil
}
