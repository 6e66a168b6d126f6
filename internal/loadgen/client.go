package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"
)

// Outcome is what one API call returned
type Outcome struct {
	Status   int
	Replayed bool
	OrderID  uuid.UUID
	Code     string
}

// Client calls the storefront API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for baseURL, e.g. http://localhost:8080/api/v1
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		OrderID uuid.UUID `json:"order_id"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

// RecordSale posts a sale with the given Idempotency-Key
func (c *Client) RecordSale(ctx context.Context, sale Sale, key string) (Outcome, error) {
	return c.post(ctx, "/sales", sale, key)
}

// PriceOrder asks for the pickup price of an order
func (c *Client) PriceOrder(ctx context.Context, orderID uuid.UUID, couponCode string) (Outcome, error) {
	body := map[string]any{
		"order_id":    orderID,
		"shipping":    map[string]string{"method": "PICKUP"},
		"coupon_code": couponCode,
	}
	return c.post(ctx, "/checkout/price", body, "")
}

func (c *Client) post(ctx context.Context, path string, body any, key string) (Outcome, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Outcome{}, fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Outcome{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	out := Outcome{Status: resp.StatusCode, Replayed: resp.Header.Get(replayedHeader) == "true"}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return out, fmt.Errorf("read %s response: %w", path, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return out, nil
	}
	out.OrderID = env.Data.OrderID
	if env.Error != nil {
		out.Code = env.Error.Code
	}
	return out, nil
}
