package discovery

import (
	"encoding/base64"
	"encoding/json"

	"moving-broker/internal/domain"
	moverrepo "moving-broker/internal/repository/mover"
)

// cursorPayload is the decoded form of the opaque page token. Callers must
// treat the encoded token as an implementation detail; the layout exists
// only so the token round-trips exactly.
type cursorPayload struct {
	Values cursorValues `json:"values"`
	Order  cursorOrder  `json:"order"`
}

type cursorValues struct {
	Value float64 `json:"value"`
	ID    string  `json:"id"`
}

type cursorOrder struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

func encodeCursor(value float64, id string, field moverrepo.OrderField, direction moverrepo.Direction) string {
	payload := cursorPayload{
		Values: cursorValues{Value: value, ID: id},
		Order:  cursorOrder{Field: string(field), Direction: string(direction)},
	}
	raw, _ := json.Marshal(payload)
	return base64.StdEncoding.EncodeToString(raw)
}

// decodeCursor rejects tokens that cannot be parsed or that were issued for
// a different ordering than the current request.
func decodeCursor(token string, field moverrepo.OrderField, direction moverrepo.Direction) (*moverrepo.Seek, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, domain.ErrInvalidCursor
	}
	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, domain.ErrInvalidCursor
	}
	if payload.Values.ID == "" {
		return nil, domain.ErrInvalidCursor
	}
	if payload.Order.Field != string(field) || payload.Order.Direction != string(direction) {
		return nil, domain.ErrInvalidCursor
	}
	return &moverrepo.Seek{Value: payload.Values.Value, ID: payload.Values.ID}, nil
}
