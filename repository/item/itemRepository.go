package itemrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"localloop/model"
	"localloop/util/httpx"
)

type Repo interface {
	List(ctx context.Context, f model.ItemFilter) ([]model.Item, error)
	Nearby(ctx context.Context, lat, lng float64) ([]model.Item, error)
	Get(ctx context.Context, id string) (*model.Item, error)
	Mine(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, req model.CreateItemReq, images []httpx.Upload) (*model.Item, error)
	Update(ctx context.Context, id string, req model.CreateItemReq) (*model.Item, error)
	Delete(ctx context.Context, id string) error
}

type httpRepo struct {
	c *httpx.Client
}

func New(c *httpx.Client) Repo { return &httpRepo{c: c} }

func (r *httpRepo) List(ctx context.Context, f model.ItemFilter) ([]model.Item, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	path := "/api/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []model.Item
	if err := r.c.GetJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *httpRepo) Nearby(ctx context.Context, lat, lng float64) ([]model.Item, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lng", fmt.Sprintf("%f", lng))
	var out []model.Item
	if err := r.c.GetJSON(ctx, "/api/items/nearby?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *httpRepo) Get(ctx context.Context, id string) (*model.Item, error) {
	var out model.Item
	if err := r.c.GetJSON(ctx, "/api/items/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) Mine(ctx context.Context) ([]model.Item, error) {
	var out []model.Item
	if err := r.c.GetJSON(ctx, "/api/items/mine", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create sends the listing as multipart: plain fields, up to three
// image parts, and the availability windows as a JSON field.
func (r *httpRepo) Create(ctx context.Context, req model.CreateItemReq, images []httpx.Upload) (*model.Item, error) {
	fields, err := itemFields(req)
	if err != nil {
		return nil, err
	}
	var out model.Item
	if err := r.c.PostMultipart(ctx, "/api/items", fields, images, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) Update(ctx context.Context, id string, req model.CreateItemReq) (*model.Item, error) {
	var out model.Item
	if err := r.c.PutJSON(ctx, "/api/items/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *httpRepo) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, "/api/items/"+id)
}

func itemFields(req model.CreateItemReq) (map[string]string, error) {
	fields := map[string]string{
		"title":          req.Title,
		"description":    req.Description,
		"category":       req.Category,
		"price_per_week": fmt.Sprintf("%g", req.PricePerWeek),
	}
	if len(req.Availability) > 0 {
		b, err := json.Marshal(req.Availability)
		if err != nil {
			return nil, err
		}
		fields["availability"] = string(b)
	}
	return fields, nil
}
