package catalog_test

import (
	"context"
	"strings"
	"testing"

	"localloop/model"
	"localloop/service/catalog"
	"localloop/util/httpx"
)

type repoMock struct {
	createFn func(ctx context.Context, req model.CreateItemReq, images []httpx.Upload) (*model.Item, error)
	listFn   func(ctx context.Context, f model.ItemFilter) ([]model.Item, error)
	getFn    func(ctx context.Context, id string) (*model.Item, error)
}

func (m *repoMock) List(ctx context.Context, f model.ItemFilter) ([]model.Item, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, f)
}

func (m *repoMock) Nearby(ctx context.Context, lat, lng float64) ([]model.Item, error) {
	return nil, nil
}

func (m *repoMock) Get(ctx context.Context, id string) (*model.Item, error) {
	if m.getFn == nil {
		return &model.Item{ID: id}, nil
	}
	return m.getFn(ctx, id)
}

func (m *repoMock) Mine(ctx context.Context) ([]model.Item, error) { return nil, nil }

func (m *repoMock) Create(ctx context.Context, req model.CreateItemReq, images []httpx.Upload) (*model.Item, error) {
	if m.createFn == nil {
		return &model.Item{Title: req.Title}, nil
	}
	return m.createFn(ctx, req, images)
}

func (m *repoMock) Update(ctx context.Context, id string, req model.CreateItemReq) (*model.Item, error) {
	return &model.Item{ID: id, Title: req.Title}, nil
}

func (m *repoMock) Delete(ctx context.Context, id string) error { return nil }

func validReq() model.CreateItemReq {
	return model.CreateItemReq{Title: "Ladder", Category: "tools", PricePerWeek: 7.5}
}

func TestCreate_Validation(t *testing.T) {
	s := catalog.New(&repoMock{})
	ctx := context.Background()

	if _, err := s.Create(ctx, model.CreateItemReq{Category: "tools", PricePerWeek: 5}, nil); catalog.Code(err) != catalog.ErrBadInput {
		t.Fatal("expected bad input for empty title")
	}
	if _, err := s.Create(ctx, model.CreateItemReq{Title: "Ladder", PricePerWeek: 5}, nil); catalog.Code(err) != catalog.ErrBadInput {
		t.Fatal("expected bad input for empty category")
	}
	req := validReq()
	req.PricePerWeek = -1
	if _, err := s.Create(ctx, req, nil); catalog.Code(err) != catalog.ErrBadInput {
		t.Fatal("expected bad input for negative price")
	}
}

func TestCreate_ImageCap(t *testing.T) {
	s := catalog.New(&repoMock{})
	images := []httpx.Upload{
		{Field: "images", Filename: "1.jpg", Reader: strings.NewReader("a")},
		{Field: "images", Filename: "2.jpg", Reader: strings.NewReader("b")},
		{Field: "images", Filename: "3.jpg", Reader: strings.NewReader("c")},
		{Field: "images", Filename: "4.jpg", Reader: strings.NewReader("d")},
	}

	if _, err := s.Create(context.Background(), validReq(), images); catalog.Code(err) != catalog.ErrTooManyImages {
		t.Fatalf("expected too-many-images, got %v", err)
	}
	if _, err := s.Create(context.Background(), validReq(), images[:3]); err != nil {
		t.Fatalf("three images should pass: %v", err)
	}
}

// The listing-limit rejection is special-cased so the delivery layer
// can render an upgrade prompt instead of a plain error.
func TestCreate_ListingLimit(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, req model.CreateItemReq, images []httpx.Upload) (*model.Item, error) {
			return nil, &httpx.APIError{Status: 403, Code: "LISTING_LIMIT_EXCEEDED", Message: "limit reached"}
		},
	}
	s := catalog.New(m)

	_, err := s.Create(context.Background(), validReq(), nil)
	if catalog.Code(err) != catalog.ErrListingLimit {
		t.Fatalf("expected listing-limit code, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	m := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Item, error) {
			return nil, &httpx.APIError{Status: 404, Message: "not found"}
		},
	}
	s := catalog.New(m)

	_, err := s.Get(context.Background(), "missing")
	if catalog.Code(err) != catalog.ErrNotFound {
		t.Fatalf("expected not-found code, got %v", err)
	}
}

func TestList_PassThrough(t *testing.T) {
	var gotFilter model.ItemFilter
	m := &repoMock{
		listFn: func(ctx context.Context, f model.ItemFilter) ([]model.Item, error) {
			gotFilter = f
			return []model.Item{{ID: "i-1"}}, nil
		},
	}
	s := catalog.New(m)

	items, err := s.List(context.Background(), model.ItemFilter{Query: "bike", Category: "sport"})
	if err != nil || len(items) != 1 {
		t.Fatalf("got %v %v", items, err)
	}
	if gotFilter.Query != "bike" || gotFilter.Category != "sport" {
		t.Fatalf("filter not forwarded: %+v", gotFilter)
	}
}
