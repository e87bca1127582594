package domain

import "time"

// OfferStatus tracks whether an offer was accepted by the customer.
type OfferStatus string

const (
	OfferPending   OfferStatus = "PENDING"
	OfferConfirmed OfferStatus = "CONFIRMED"
	OfferRejected  OfferStatus = "REJECTED"
)

// EstimateOffer is a mover's priced response to an estimate request.
// This core only reads offers; negotiation happens elsewhere.
type EstimateOffer struct {
	ID        string      `json:"id"`
	RequestID string      `json:"-"`
	MoverID   string      `json:"moverId"`
	Price     int64       `json:"price"`
	Comment   string      `json:"comment"`
	Status    OfferStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}
