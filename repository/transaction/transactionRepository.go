package transactionrepo

import (
	"context"
	"fmt"

	"localloop/model"
	"localloop/util/httpx"
)

// Repo mirrors the transaction endpoints one-to-one. Every mutating
// call is server-validated; the client re-fetches after each one.
type Repo interface {
	Request(ctx context.Context, req model.RequestTransactionReq) (*model.Transaction, error)
	Get(ctx context.Context, id string) (*model.Transaction, error)
	Summary(ctx context.Context, id string) (*model.TransactionSummary, error)
	Mine(ctx context.Context) ([]model.Transaction, error)

	Accept(ctx context.Context, id string) error
	Decline(ctx context.Context, id string) error
	Retract(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	CompletePayment(ctx context.Context, id string) error

	Renegotiate(ctx context.Context, id string, req model.RenegotiateReq) error
	AcceptRenegotiation(ctx context.Context, id string) error
	DeclineRenegotiation(ctx context.Context, id string) error

	// GenerateReturnCode is idempotent: repeated calls return the same
	// code until it is consumed.
	GenerateReturnCode(ctx context.Context, id string) (string, error)
	RequestPickupCode(ctx context.Context, id string) (string, error)
	SubmitReturnCode(ctx context.Context, id, code string) error
}

type httpRepo struct {
	c *httpx.Client
}

func New(c *httpx.Client) Repo { return &httpRepo{c: c} }

func (r *httpRepo) Request(ctx context.Context, req model.RequestTransactionReq) (*model.Transaction, error) {
	var out model.Transaction
	if err := r.c.PostJSON(ctx, "/api/transactions/request", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) Get(ctx context.Context, id string) (*model.Transaction, error) {
	var out model.Transaction
	if err := r.c.GetJSON(ctx, "/api/transactions/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) Summary(ctx context.Context, id string) (*model.TransactionSummary, error) {
	var out model.TransactionSummary
	if err := r.c.GetJSON(ctx, fmt.Sprintf("/api/transactions/%s/summary", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) Mine(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	if err := r.c.GetJSON(ctx, "/api/transactions/mine", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *httpRepo) patch(ctx context.Context, id, verb string) error {
	return r.c.PatchJSON(ctx, fmt.Sprintf("/api/transactions/%s/%s", id, verb), nil, nil)
}

func (r *httpRepo) Accept(ctx context.Context, id string) error  { return r.patch(ctx, id, "accept") }
func (r *httpRepo) Decline(ctx context.Context, id string) error { return r.patch(ctx, id, "decline") }
func (r *httpRepo) Retract(ctx context.Context, id string) error { return r.patch(ctx, id, "retract") }
func (r *httpRepo) Complete(ctx context.Context, id string) error {
	return r.patch(ctx, id, "complete")
}
func (r *httpRepo) CompletePayment(ctx context.Context, id string) error {
	return r.patch(ctx, id, "complete-payment")
}

func (r *httpRepo) Renegotiate(ctx context.Context, id string, req model.RenegotiateReq) error {
	return r.c.PatchJSON(ctx, fmt.Sprintf("/api/transactions/%s/renegotiate", id), req, nil)
}

func (r *httpRepo) AcceptRenegotiation(ctx context.Context, id string) error {
	return r.patch(ctx, id, "renegotiation/accept")
}

func (r *httpRepo) DeclineRenegotiation(ctx context.Context, id string) error {
	return r.patch(ctx, id, "renegotiation/decline")
}

func (r *httpRepo) GenerateReturnCode(ctx context.Context, id string) (string, error) {
	var out struct {
		Code string `json:"code"`
	}
	if err := r.c.PatchJSON(ctx, fmt.Sprintf("/api/transactions/%s/return-code", id), nil, &out); err != nil {
		return "", err
	}
	return out.Code, nil
}

func (r *httpRepo) RequestPickupCode(ctx context.Context, id string) (string, error) {
	var out struct {
		Code string `json:"code"`
	}
	if err := r.c.PatchJSON(ctx, fmt.Sprintf("/api/transactions/%s/pickup-code", id), nil, &out); err != nil {
		return "", err
	}
	return out.Code, nil
}

func (r *httpRepo) SubmitReturnCode(ctx context.Context, id, code string) error {
	return r.c.PostJSON(ctx, fmt.Sprintf("/api/transactions/%s/return-code", id), model.ReturnCodeReq{Code: code}, nil)
}
