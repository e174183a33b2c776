package paypalrepo

import "context"

type CreateOrderReq struct {
	ReferenceID string
	Amount      float64
	Currency    string
	Description string
}

type Order struct {
	OrderID     string
	Status      string
	ApproveLink string
}

type Capture struct {
	CaptureID string
	Status    string
}

type Subscription struct {
	SubscriptionID string
	Status         string
	ApproveLink    string
}

// Repo is the payment-button gateway: one-time order capture for rental
// payments and subscription creation for the premium upgrade. Money
// moves at this layer; the backend record is reconciled afterwards.
type Repo interface {
	CreateOrder(ctx context.Context, req CreateOrderReq) (*Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*Capture, error)
	CreateSubscription(ctx context.Context, planID string) (*Subscription, error)
}
