package domain

import "time"

// CustomerProfile is the customer-side profile owned by a user account.
type CustomerProfile struct {
	ID            string       `json:"id"`
	UserID        string       `json:"-"`
	Name          string       `json:"name"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	ServiceType   ServiceFlags `json:"serviceType"`
	ServiceRegion ServiceFlags `json:"serviceRegion"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// MoverProfile is the provider-side profile listed in the directory.
type MoverProfile struct {
	ID            string       `json:"id"`
	UserID        string       `json:"-"`
	Nickname      string       `json:"nickname"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	Experience    int          `json:"experience"`
	Intro         string       `json:"intro"`
	Description   string       `json:"description"`
	Phone         string       `json:"-"`
	ServiceType   ServiceFlags `json:"serviceType"`
	ServiceRegion ServiceFlags `json:"serviceRegion"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// ReputationSnapshot carries the precomputed per-mover statistics read from
// the reputation view. Eventually consistent; a missing entry means all
// zeroes, never an error.
type ReputationSnapshot struct {
	ConfirmedEstimateCount int     `json:"confirmedEstimateCount"`
	AverageRating          float64 `json:"averageRating"`
	ReviewCount            int     `json:"reviewCount"`
	LikeCount              int     `json:"likeCount"`
}
