package review

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"localloop/model"
)

type ErrCode string

const (
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrNotReviewable ErrCode = "NOT_REVIEWABLE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Create(ctx context.Context, req model.CreateReviewReq) (*model.Review, error)
	CanReview(ctx context.Context, transactionID string) (*model.CanReview, error)
	ForUser(ctx context.Context, userID string) ([]model.Review, error)
}

type Service interface {
	// Create validates the form bounds (rating 1-5, comment <= 500)
	// and checks eligibility before posting. Once-per-role is the
	// server's invariant; the client only reflects it.
	Create(ctx context.Context, req model.CreateReviewReq) (*model.Review, error)
	CanReview(ctx context.Context, transactionID string) (bool, error)
	ForUser(ctx context.Context, userID string) ([]model.Review, error)
}

type service struct {
	r Repo
	v *validator.Validate
}

func New(r Repo) Service { return &service{r: r, v: validator.New()} }

func (s *service) Create(ctx context.Context, req model.CreateReviewReq) (*model.Review, error) {
	if err := s.v.Struct(req); err != nil {
		return nil, makeErr(ErrBadInput)
	}
	eligible, err := s.r.CanReview(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if !eligible.CanReview {
		return nil, makeErr(ErrNotReviewable)
	}
	return s.r.Create(ctx, req)
}

func (s *service) CanReview(ctx context.Context, transactionID string) (bool, error) {
	out, err := s.r.CanReview(ctx, transactionID)
	if err != nil {
		return false, err
	}
	return out.CanReview, nil
}

func (s *service) ForUser(ctx context.Context, userID string) ([]model.Review, error) {
	return s.r.ForUser(ctx, userID)
}
