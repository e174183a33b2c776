package userrepo

import (
	"context"

	"localloop/model"
	"localloop/util/httpx"
)

// Repo covers users, premium status, subscriptions and the payment
// config endpoints. They share one client because they share one
// concern: who the viewer is and what tier they are on.
type Repo interface {
	Login(ctx context.Context, req model.LoginReq) (string, *model.User, error)
	Me(ctx context.Context) (*model.User, error)
	UpdateMe(ctx context.Context, req model.UpdateProfileReq) (*model.User, error)
	ChangePassword(ctx context.Context, req model.ChangePasswordReq) error
	ByID(ctx context.Context, id string) (*model.User, error)
	Avatar(ctx context.Context, id string) ([]byte, string, error)

	Premium(ctx context.Context) (*model.Premium, error)
	UpgradePremium(ctx context.Context, plan string) error

	Subscription(ctx context.Context) (*model.Subscription, error)
	CancelSubscription(ctx context.Context, reason string) error

	PaymentConfig(ctx context.Context) (*model.PaymentConfig, error)
	Plans(ctx context.Context) ([]model.Plan, error)
}

type httpRepo struct {
	c *httpx.Client
}

func New(c *httpx.Client) Repo { return &httpRepo{c: c} }

func (r *httpRepo) Login(ctx context.Context, req model.LoginReq) (string, *model.User, error) {
	var out struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	if err := r.c.PostJSON(ctx, "/api/auth/login", req, &out); err != nil {
		return "", nil, err
	}
	return out.Token, &out.User, nil
}

func (r *httpRepo) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := r.c.GetJSON(ctx, "/api/users/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) UpdateMe(ctx context.Context, req model.UpdateProfileReq) (*model.User, error) {
	var out model.User
	if err := r.c.PutJSON(ctx, "/api/users/me", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) ChangePassword(ctx context.Context, req model.ChangePasswordReq) error {
	return r.c.PutJSON(ctx, "/api/users/me/password", req, nil)
}

func (r *httpRepo) ByID(ctx context.Context, id string) (*model.User, error) {
	var out model.User
	if err := r.c.GetJSON(ctx, "/api/users/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Avatar returns the raw image bytes and their content type.
func (r *httpRepo) Avatar(ctx context.Context, id string) ([]byte, string, error) {
	return r.c.GetRaw(ctx, "/api/users/"+id+"/avatar")
}

func (r *httpRepo) Premium(ctx context.Context) (*model.Premium, error) {
	var out model.Premium
	if err := r.c.GetJSON(ctx, "/api/users/me/premium", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) UpgradePremium(ctx context.Context, plan string) error {
	body := map[string]string{"plan": plan}
	return r.c.PostJSON(ctx, "/api/users/me/premium/upgrade", body, nil)
}

func (r *httpRepo) Subscription(ctx context.Context) (*model.Subscription, error) {
	var out model.Subscription
	if err := r.c.GetJSON(ctx, "/api/subscriptions/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) CancelSubscription(ctx context.Context, reason string) error {
	body := map[string]string{"reason": reason}
	return r.c.PostJSON(ctx, "/api/subscriptions/me/cancel", body, nil)
}

func (r *httpRepo) PaymentConfig(ctx context.Context) (*model.PaymentConfig, error) {
	var out model.PaymentConfig
	if err := r.c.GetJSON(ctx, "/api/config/paypal", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) Plans(ctx context.Context) ([]model.Plan, error) {
	var out []model.Plan
	if err := r.c.GetJSON(ctx, "/api/config/paypal/plans", &out); err != nil {
		return nil, err
	}
	return out, nil
}
