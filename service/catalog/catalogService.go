package catalog

import (
	"context"
	"errors"
	"net/http"

	"localloop/model"
	"localloop/util/httpx"
)

type ErrCode string

const (
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrTooManyImages ErrCode = "TOO_MANY_IMAGES"
	// ErrListingLimit means the free-tier listing cap was hit; the
	// delivery layer turns it into an upgrade prompt, not a plain error.
	ErrListingLimit ErrCode = "LISTING_LIMIT"
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

const maxImages = 3

type Repo interface {
	List(ctx context.Context, f model.ItemFilter) ([]model.Item, error)
	Nearby(ctx context.Context, lat, lng float64) ([]model.Item, error)
	Get(ctx context.Context, id string) (*model.Item, error)
	Mine(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, req model.CreateItemReq, images []httpx.Upload) (*model.Item, error)
	Update(ctx context.Context, id string, req model.CreateItemReq) (*model.Item, error)
	Delete(ctx context.Context, id string) error
}

type Service interface {
	List(ctx context.Context, f model.ItemFilter) ([]model.Item, error)
	Nearby(ctx context.Context, lat, lng float64) ([]model.Item, error)
	Get(ctx context.Context, id string) (*model.Item, error)
	Mine(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, req model.CreateItemReq, images []httpx.Upload) (*model.Item, error)
	Update(ctx context.Context, id string, req model.CreateItemReq) (*model.Item, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	r Repo
}

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, f model.ItemFilter) ([]model.Item, error) {
	return s.r.List(ctx, f)
}

func (s *service) Nearby(ctx context.Context, lat, lng float64) ([]model.Item, error) {
	return s.r.Nearby(ctx, lat, lng)
}

func (s *service) Get(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.r.Get(ctx, id)
	if err != nil {
		if httpx.StatusOf(err) == http.StatusNotFound {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return it, nil
}

func (s *service) Mine(ctx context.Context) ([]model.Item, error) {
	return s.r.Mine(ctx)
}

func (s *service) Create(ctx context.Context, req model.CreateItemReq, images []httpx.Upload) (*model.Item, error) {
	if req.Title == "" || req.Category == "" {
		return nil, makeErr(ErrBadInput)
	}
	if req.PricePerWeek <= 0 {
		return nil, makeErr(ErrBadInput)
	}
	if len(images) > maxImages {
		return nil, makeErr(ErrTooManyImages)
	}
	it, err := s.r.Create(ctx, req, images)
	if err != nil {
		if isListingLimit(err) {
			return nil, makeErr(ErrListingLimit)
		}
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, id string, req model.CreateItemReq) (*model.Item, error) {
	if id == "" {
		return nil, makeErr(ErrBadInput)
	}
	it, err := s.r.Update(ctx, id, req)
	if err != nil {
		if httpx.StatusOf(err) == http.StatusNotFound {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return it, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return makeErr(ErrBadInput)
	}
	return s.r.Delete(ctx, id)
}

func isListingLimit(err error) bool {
	return httpx.CodeOf(err) == "LISTING_LIMIT_EXCEEDED"
}
