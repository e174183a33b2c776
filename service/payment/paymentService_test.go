package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"localloop/model"
	paypalrepo "localloop/repository/paypal"
)

type mockGateway struct {
	orderFn   func(ctx context.Context, req paypalrepo.CreateOrderReq) (*paypalrepo.Order, error)
	captureFn func(ctx context.Context, orderID string) (*paypalrepo.Capture, error)
	subFn     func(ctx context.Context, planID string) (*paypalrepo.Subscription, error)
	calls     *[]string
}

var _ paypalrepo.Repo = (*mockGateway)(nil)

func (m *mockGateway) CreateOrder(ctx context.Context, req paypalrepo.CreateOrderReq) (*paypalrepo.Order, error) {
	*m.calls = append(*m.calls, "create-order")
	if m.orderFn == nil {
		return &paypalrepo.Order{OrderID: "ord-1", Status: "CREATED"}, nil
	}
	return m.orderFn(ctx, req)
}

func (m *mockGateway) CaptureOrder(ctx context.Context, orderID string) (*paypalrepo.Capture, error) {
	*m.calls = append(*m.calls, "capture")
	if m.captureFn == nil {
		return &paypalrepo.Capture{CaptureID: "cap-1", Status: "COMPLETED"}, nil
	}
	return m.captureFn(ctx, orderID)
}

func (m *mockGateway) CreateSubscription(ctx context.Context, planID string) (*paypalrepo.Subscription, error) {
	*m.calls = append(*m.calls, "create-subscription")
	if m.subFn == nil {
		return &paypalrepo.Subscription{SubscriptionID: "sub-1", Status: "ACTIVE"}, nil
	}
	return m.subFn(ctx, planID)
}

type mockTxRepo struct {
	completeFn func(ctx context.Context, id string) error
	pickupFn   func(ctx context.Context, id string) (string, error)
	calls      *[]string
}

var _ TxRepo = (*mockTxRepo)(nil)

func (m *mockTxRepo) Get(ctx context.Context, id string) (*model.Transaction, error) {
	return &model.Transaction{ID: id, Status: model.StatusBorrowed}, nil
}

func (m *mockTxRepo) CompletePayment(ctx context.Context, id string) error {
	*m.calls = append(*m.calls, "complete-payment")
	if m.completeFn == nil {
		return nil
	}
	return m.completeFn(ctx, id)
}

func (m *mockTxRepo) RequestPickupCode(ctx context.Context, id string) (string, error) {
	*m.calls = append(*m.calls, "pickup-code")
	if m.pickupFn == nil {
		return "5521", nil
	}
	return m.pickupFn(ctx, id)
}

type mockCfg struct{}

func (mockCfg) PaymentConfig(ctx context.Context) (*model.PaymentConfig, error) {
	return &model.PaymentConfig{ClientID: "cid", Currency: "EUR", Environment: "sandbox"}, nil
}

func (mockCfg) Plans(ctx context.Context) ([]model.Plan, error) { return nil, nil }

type mockPremium struct {
	upgradeFn func(ctx context.Context, plan string) (*model.Premium, error)
}

func (m *mockPremium) Upgrade(ctx context.Context, plan string) (*model.Premium, error) {
	if m.upgradeFn == nil {
		return &model.Premium{IsPremium: true}, nil
	}
	return m.upgradeFn(ctx, plan)
}

func newService(gw *mockGateway, txs *mockTxRepo, prem *mockPremium) Service {
	return New(txs, mockCfg{}, prem, func(cfg model.PaymentConfig) paypalrepo.Repo { return gw })
}

func rentalTx() model.Transaction {
	return model.Transaction{
		ID:          "t-1",
		TotalAmount: 42.50,
		Item:        model.Item{Title: "Cargo bike"},
	}
}

// The confirmation call is always issued before the pickup-code
// request, and both come after the capture.
func TestPayRental_Sequencing(t *testing.T) {
	ctx := context.Background()
	var calls []string
	gw := &mockGateway{calls: &calls}
	txs := &mockTxRepo{calls: &calls}

	out, err := newService(gw, txs, &mockPremium{}).PayRental(ctx, rentalTx())
	require.NoError(t, err)
	require.Equal(t, []string{"create-order", "capture", "complete-payment", "pickup-code"}, calls)
	require.Equal(t, "cap-1", out.CaptureID)
	require.Equal(t, "5521", out.PickupCode)
	require.Equal(t, model.StatusBorrowed, out.Transaction.Status)
}

func TestPayRental_CaptureFailureIsOrdinary(t *testing.T) {
	ctx := context.Background()
	var calls []string
	gw := &mockGateway{
		calls: &calls,
		captureFn: func(ctx context.Context, orderID string) (*paypalrepo.Capture, error) {
			return nil, errors.New("declined")
		},
	}
	txs := &mockTxRepo{calls: &calls}

	_, err := newService(gw, txs, &mockPremium{}).PayRental(ctx, rentalTx())
	require.Error(t, err)
	// No money moved, so this is not a reconciliation problem and the
	// backend must not have been told anything.
	require.NotEqual(t, ErrUnreconciled, Code(err))
	require.NotContains(t, calls, "complete-payment")
}

// After a successful capture the money has moved; a backend
// confirmation failure must surface as unreconciled, never be swallowed.
func TestPayRental_ConfirmFailureUnreconciled(t *testing.T) {
	ctx := context.Background()
	var calls []string
	gw := &mockGateway{calls: &calls}
	txs := &mockTxRepo{
		calls: &calls,
		completeFn: func(ctx context.Context, id string) error {
			return errors.New("backend down")
		},
	}

	_, err := newService(gw, txs, &mockPremium{}).PayRental(ctx, rentalTx())
	require.Error(t, err)
	require.Equal(t, ErrUnreconciled, Code(err))
	require.Contains(t, err.Error(), "backend down")
	require.NotContains(t, calls, "pickup-code")
}

func TestPayRental_PickupCodeFailureUnreconciled(t *testing.T) {
	ctx := context.Background()
	var calls []string
	gw := &mockGateway{calls: &calls}
	txs := &mockTxRepo{
		calls: &calls,
		pickupFn: func(ctx context.Context, id string) (string, error) {
			return "", errors.New("no code")
		},
	}

	_, err := newService(gw, txs, &mockPremium{}).PayRental(ctx, rentalTx())
	require.Equal(t, ErrUnreconciled, Code(err))
}

func TestPayRental_BadInput(t *testing.T) {
	ctx := context.Background()
	var calls []string
	gw := &mockGateway{calls: &calls}
	txs := &mockTxRepo{calls: &calls}
	svc := newService(gw, txs, &mockPremium{})

	_, err := svc.PayRental(ctx, model.Transaction{})
	require.Equal(t, ErrBadInput, Code(err))
	require.Empty(t, calls)
}

func TestSubscribe_ConfirmsWithBackend(t *testing.T) {
	ctx := context.Background()
	var calls []string
	gw := &mockGateway{calls: &calls}
	txs := &mockTxRepo{calls: &calls}
	var confirmedPlan string
	prem := &mockPremium{
		upgradeFn: func(ctx context.Context, plan string) (*model.Premium, error) {
			confirmedPlan = plan
			return &model.Premium{IsPremium: true}, nil
		},
	}

	out, err := newService(gw, txs, prem).Subscribe(ctx, "plan-monthly")
	require.NoError(t, err)
	require.Equal(t, "plan-monthly", confirmedPlan)
	require.Equal(t, "sub-1", out.Subscription.SubscriptionID)
	require.True(t, out.Premium.IsPremium)
}

func TestSubscribe_ConfirmFailureUnreconciled(t *testing.T) {
	ctx := context.Background()
	var calls []string
	gw := &mockGateway{calls: &calls}
	txs := &mockTxRepo{calls: &calls}
	prem := &mockPremium{
		upgradeFn: func(ctx context.Context, plan string) (*model.Premium, error) {
			return nil, errors.New("backend down")
		},
	}

	_, err := newService(gw, txs, prem).Subscribe(ctx, "plan-monthly")
	require.Equal(t, ErrUnreconciled, Code(err))
}
