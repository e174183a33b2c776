package reviewrepo

import (
	"context"

	"localloop/model"
	"localloop/util/httpx"
)

type Repo interface {
	Create(ctx context.Context, req model.CreateReviewReq) (*model.Review, error)
	CanReview(ctx context.Context, transactionID string) (*model.CanReview, error)
	ForUser(ctx context.Context, userID string) ([]model.Review, error)
}

type httpRepo struct {
	c *httpx.Client
}

func New(c *httpx.Client) Repo { return &httpRepo{c: c} }

func (r *httpRepo) Create(ctx context.Context, req model.CreateReviewReq) (*model.Review, error) {
	var out model.Review
	if err := r.c.PostJSON(ctx, "/api/reviews", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) CanReview(ctx context.Context, transactionID string) (*model.CanReview, error) {
	var out model.CanReview
	if err := r.c.GetJSON(ctx, "/api/reviews/can-review/"+transactionID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) ForUser(ctx context.Context, userID string) ([]model.Review, error) {
	var out []model.Review
	if err := r.c.GetJSON(ctx, "/api/reviews/user/"+userID, &out); err != nil {
		return nil, err
	}
	return out, nil
}
