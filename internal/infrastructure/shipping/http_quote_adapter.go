// Package shipping adapts the external carrier quote API to the shipping.Quoter port.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/livesale/backend/internal/domain/shipping"
	"github.com/livesale/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	// maxQuoteResponseSize limits the response body size to prevent memory exhaustion
	maxQuoteResponseSize = 1 << 20
	calculatePath        = "/api/v2/me/shipment/calculate"

	// Default parcel used when products carry no dimensions
	defaultWidthCM  = 20
	defaultHeightCM = 10
	defaultLengthCM = 25
	defaultWeightKG = 0.3
)

// HTTPQuoteAdapter implements shipping.Quoter against a carrier aggregator REST API
type HTTPQuoteAdapter struct {
	baseURL    string
	token      string
	origin     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPQuoteAdapter creates the adapter from configuration
func NewHTTPQuoteAdapter(cfg config.ShippingConfig, logger *zap.Logger) (*HTTPQuoteAdapter, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("shipping: base URL is required")
	}
	if strings.TrimSpace(cfg.OriginPostalCode) == "" {
		return nil, fmt.Errorf("shipping: origin postal code is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPQuoteAdapter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		origin:  cfg.OriginPostalCode,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}, nil
}

// Quote asks the carrier API for delivery options. Services reported with an
// error are skipped; a transport or HTTP failure yields shipping.ErrQuoteUnavailable.
func (a *HTTPQuoteAdapter) Quote(ctx context.Context, req shipping.QuoteRequest) ([]shipping.Option, error) {
	body := quoteRequest{
		From:     quoteAddress{PostalCode: a.origin},
		To:       quoteAddress{PostalCode: req.Destination.String()},
		Products: make([]quoteProduct, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		insured, _ := item.UnitPrice.Float64()
		body.Products = append(body.Products, quoteProduct{
			ID:             item.ProductID.String(),
			Quantity:       item.Quantity,
			InsuranceValue: insured,
			Width:          defaultWidthCM,
			Height:         defaultHeightCM,
			Length:         defaultLengthCM,
			Weight:         defaultWeightKG,
		})
	}

	raw, err := a.doRequest(ctx, body)
	if err != nil {
		a.logger.Warn("shipping quote failed",
			zap.String("destination", req.Destination.String()),
			zap.Error(err))
		return nil, shipping.ErrQuoteUnavailable.Wrap(err)
	}

	var services []quoteService
	if err := json.Unmarshal(raw, &services); err != nil {
		return nil, shipping.ErrQuoteUnavailable.Wrap(fmt.Errorf("decode quote response: %w", err))
	}

	options := make([]shipping.Option, 0, len(services))
	for _, s := range services {
		if s.Error != "" {
			continue
		}
		price, err := parsePrice(s)
		if err != nil {
			a.logger.Debug("skipping service with unparseable price",
				zap.Int("service_id", s.ID), zap.String("price", s.Price))
			continue
		}
		options = append(options, shipping.Option{
			ID:           strconv.Itoa(s.ID),
			Carrier:      s.Company.Name,
			Service:      s.Name,
			Price:        price,
			DeliveryDays: s.DeliveryTime,
		})
	}
	return options, nil
}

// parsePrice prefers the negotiated price when the account has one
func parsePrice(s quoteService) (decimal.Decimal, error) {
	raw := s.CustomPrice
	if raw == "" {
		raw = s.Price
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Round(2), nil
}

func (a *HTTPQuoteAdapter) doRequest(ctx context.Context, body quoteRequest) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+calculatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "livesale-backend")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	started := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shipping: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxQuoteResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to read response: %w", err)
	}
	a.logger.Debug("shipping quote response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("shipping: HTTP %d", resp.StatusCode)
	}
	return raw, nil
}

// Ensure HTTPQuoteAdapter implements shipping.Quoter
var _ shipping.Quoter = (*HTTPQuoteAdapter)(nil)
