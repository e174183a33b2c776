// model/premium.go
package model

import "time"

type Premium struct {
	IsPremium    bool    `json:"is_premium"`
	MaxListings  int     `json:"max_listings"`
	DiscountRate float64 `json:"discount_rate"`
}

type SubscriptionStatus string

const (
	SubActive   SubscriptionStatus = "ACTIVE"
	SubCanceled SubscriptionStatus = "CANCELED"
	SubPastDue  SubscriptionStatus = "PAST_DUE"
)

type Subscription struct {
	ID          string             `json:"id"`
	PlanID      string             `json:"plan_id"`
	Status      SubscriptionStatus `json:"status"`
	NextBilling *time.Time         `json:"next_billing,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// PaymentConfig is served by the backend so the client never hard-codes
// gateway credentials.
type PaymentConfig struct {
	ClientID    string `json:"client_id"`
	Currency    string `json:"currency"`
	Environment string `json:"environment"` // "sandbox" or "live"
}

type Plan struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Interval string  `json:"interval"`
}
