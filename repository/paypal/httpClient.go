package paypalrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type httpRepo struct {
	base     string
	clientID string
	client   *http.Client
}

// NewHTTP builds a gateway client against the given PayPal base URL
// (sandbox or live). The client id comes from the backend's payment
// config endpoint, never from local configuration.
func NewHTTP(base, clientID string) Repo {
	return &httpRepo{base: base, clientID: clientID, client: &http.Client{Timeout: 15 * time.Second}}
}

func (r *httpRepo) CreateOrder(ctx context.Context, req CreateOrderReq) (*Order, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": req.ReferenceID,
			"description":  req.Description,
			"amount": map[string]string{
				"currency_code": req.Currency,
				"value":         fmt.Sprintf("%.2f", req.Amount),
			},
		}},
	}

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := r.post(ctx, "/v2/checkout/orders", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("paypal: empty order id")
	}

	order := &Order{OrderID: out.ID, Status: out.Status}
	for _, l := range out.Links {
		if l.Rel == "approve" {
			order.ApproveLink = l.Href
		}
	}
	return order, nil
}

func (r *httpRepo) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := r.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", map[string]any{}, &out); err != nil {
		return nil, err
	}
	if out.Status != "COMPLETED" {
		return nil, fmt.Errorf("paypal: capture not completed: %s", out.Status)
	}
	return &Capture{CaptureID: out.ID, Status: out.Status}, nil
}

func (r *httpRepo) CreateSubscription(ctx context.Context, planID string) (*Subscription, error) {
	body := map[string]any{"plan_id": planID}

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := r.post(ctx, "/v1/billing/subscriptions", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("paypal: empty subscription id")
	}

	sub := &Subscription{SubscriptionID: out.ID, Status: out.Status}
	for _, l := range out.Links {
		if l.Rel == "approve" {
			sub.ApproveLink = l.Href
		}
	}
	return sub, nil
}

func (r *httpRepo) post(ctx context.Context, path string, body, out any) error {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.SetBasicAuth(r.clientID, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("paypal %s failed: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
