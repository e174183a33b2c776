package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"localloop/model"
	paypalrepo "localloop/repository/paypal"
)

type ErrCode string

const (
	ErrBadInput ErrCode = "BAD_INPUT"
	// ErrUnreconciled means money moved at the gateway but the backend
	// record could not be confirmed. Never swallowed: the caller must
	// show it so the record can be reconciled.
	ErrUnreconciled ErrCode = "UNRECONCILED"
)

type codedError struct {
	code ErrCode
	err  error
}

func (e codedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.code, e.err)
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.err }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// TxRepo is the backend side of the rental payment flow.
type TxRepo interface {
	Get(ctx context.Context, id string) (*model.Transaction, error)
	CompletePayment(ctx context.Context, id string) error
	RequestPickupCode(ctx context.Context, id string) (string, error)
}

// CfgRepo serves gateway credentials and plans.
type CfgRepo interface {
	PaymentConfig(ctx context.Context) (*model.PaymentConfig, error)
	Plans(ctx context.Context) ([]model.Plan, error)
}

// PremiumConfirmer marks the subscription paid backend-side and
// refreshes the stored premium flag.
type PremiumConfirmer interface {
	Upgrade(ctx context.Context, plan string) (*model.Premium, error)
}

// GatewayFactory builds a gateway client from the backend-served
// config; injected so tests can substitute the gateway wholesale.
type GatewayFactory func(cfg model.PaymentConfig) paypalrepo.Repo

type RentalPaid struct {
	Transaction *model.Transaction
	CaptureID   string
	PickupCode  string
}

type SubscriptionCreated struct {
	Subscription *paypalrepo.Subscription
	Premium      *model.Premium
}

type Service interface {
	// PayRental captures a one-time order for the transaction amount,
	// then confirms with the backend and requests the pickup code.
	// Confirmation is always issued before the pickup-code request.
	PayRental(ctx context.Context, tx model.Transaction) (*RentalPaid, error)

	// Subscribe creates the recurring gateway subscription for the
	// premium upgrade, then confirms it with the backend.
	Subscribe(ctx context.Context, planID string) (*SubscriptionCreated, error)
}

type service struct {
	txs     TxRepo
	cfg     CfgRepo
	prem    PremiumConfirmer
	gateway GatewayFactory
}

func New(txs TxRepo, cfg CfgRepo, prem PremiumConfirmer, gateway GatewayFactory) Service {
	return &service{txs: txs, cfg: cfg, prem: prem, gateway: gateway}
}

func (s *service) PayRental(ctx context.Context, tx model.Transaction) (*RentalPaid, error) {
	if tx.ID == "" || tx.TotalAmount <= 0 {
		return nil, codedError{code: ErrBadInput}
	}

	cfg, err := s.cfg.PaymentConfig(ctx)
	if err != nil {
		return nil, err
	}
	gw := s.gateway(*cfg)

	order, err := gw.CreateOrder(ctx, paypalrepo.CreateOrderReq{
		ReferenceID: fmt.Sprintf("rental:%s:%s", tx.ID, uuid.NewString()),
		Amount:      tx.TotalAmount,
		Currency:    cfg.Currency,
		Description: "Rental payment: " + tx.Item.Title,
	})
	if err != nil {
		return nil, err
	}

	capture, err := gw.CaptureOrder(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}

	// Money has moved. From here every failure is a reconciliation
	// problem, not a payment problem.
	if err := s.txs.CompletePayment(ctx, tx.ID); err != nil {
		return nil, codedError{code: ErrUnreconciled, err: err}
	}
	code, err := s.txs.RequestPickupCode(ctx, tx.ID)
	if err != nil {
		return nil, codedError{code: ErrUnreconciled, err: err}
	}

	fresh, err := s.txs.Get(ctx, tx.ID)
	if err != nil {
		return nil, codedError{code: ErrUnreconciled, err: err}
	}
	return &RentalPaid{Transaction: fresh, CaptureID: capture.CaptureID, PickupCode: code}, nil
}

func (s *service) Subscribe(ctx context.Context, planID string) (*SubscriptionCreated, error) {
	if planID == "" {
		return nil, codedError{code: ErrBadInput}
	}

	cfg, err := s.cfg.PaymentConfig(ctx)
	if err != nil {
		return nil, err
	}
	gw := s.gateway(*cfg)

	sub, err := gw.CreateSubscription(ctx, planID)
	if err != nil {
		return nil, err
	}

	prem, err := s.prem.Upgrade(ctx, planID)
	if err != nil {
		return nil, codedError{code: ErrUnreconciled, err: err}
	}
	return &SubscriptionCreated{Subscription: sub, Premium: prem}, nil
}
