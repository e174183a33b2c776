package premium

import (
	"context"
	"errors"

	"localloop/model"
)

type ErrCode string

const ErrNoSession ErrCode = "NO_SESSION"

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Premium(ctx context.Context) (*model.Premium, error)
	UpgradePremium(ctx context.Context, plan string) error
	Subscription(ctx context.Context) (*model.Subscription, error)
	CancelSubscription(ctx context.Context, reason string) error
	Plans(ctx context.Context) ([]model.Plan, error)
}

// Sessions is the slice of the session store this service writes
// through, so every dependent view sees the refreshed premium flag.
type Sessions interface {
	Current() (*model.User, error)
	UpdateUser(u model.User) error
}

type Service interface {
	Status(ctx context.Context) (*model.Premium, error)
	Plans(ctx context.Context) ([]model.Plan, error)
	Subscription(ctx context.Context) (*model.Subscription, error)

	// Upgrade and Cancel both POST, force a status re-fetch, and push
	// the fresh premium flag into the session store.
	Upgrade(ctx context.Context, plan string) (*model.Premium, error)
	Cancel(ctx context.Context, reason string) (*model.Premium, error)
}

type service struct {
	r Repo
	s Sessions
}

func New(r Repo, s Sessions) Service { return &service{r: r, s: s} }

func (s *service) Status(ctx context.Context) (*model.Premium, error) {
	return s.r.Premium(ctx)
}

func (s *service) Plans(ctx context.Context) ([]model.Plan, error) {
	return s.r.Plans(ctx)
}

func (s *service) Subscription(ctx context.Context) (*model.Subscription, error) {
	return s.r.Subscription(ctx)
}

func (s *service) Upgrade(ctx context.Context, plan string) (*model.Premium, error) {
	if err := s.r.UpgradePremium(ctx, plan); err != nil {
		return nil, err
	}
	return s.refresh(ctx)
}

func (s *service) Cancel(ctx context.Context, reason string) (*model.Premium, error) {
	if err := s.r.CancelSubscription(ctx, reason); err != nil {
		return nil, err
	}
	return s.refresh(ctx)
}

// refresh re-reads the authoritative status and mirrors the flag into
// the stored profile.
func (s *service) refresh(ctx context.Context) (*model.Premium, error) {
	p, err := s.r.Premium(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.s.Current()
	if err != nil {
		return nil, codedError{code: ErrNoSession}
	}
	u.IsPremium = p.IsPremium
	if err := s.s.UpdateUser(*u); err != nil {
		return nil, err
	}
	return p, nil
}
