package handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	salesapp "github.com/livesale/backend/internal/application/sales"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/customer"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/infrastructure/logger"
	"github.com/livesale/backend/internal/interfaces/http/dto"
	"github.com/livesale/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// ReplayedHeader is set on responses served from the idempotency store
const ReplayedHeader = "Idempotent-Replayed"

// maxIdempotencyKeyLength bounds the client supplied key
const maxIdempotencyKeyLength = 255

// storedSale is what the idempotency store keeps per key: the response and a
// fingerprint of the request that produced it.
type storedSale struct {
	Fingerprint string          `json:"fingerprint"`
	Response    json.RawMessage `json:"response"`
}

// saleFingerprint hashes the fields that decide what a sale does
func saleFingerprint(cmd salesapp.RecordSaleRequest) string {
	h := sha256.New()
	for _, part := range []string{
		strings.TrimSpace(cmd.Customer.Phone),
		strings.TrimSpace(cmd.Customer.SocialHandle),
		strings.TrimSpace(cmd.Customer.Name),
		cmd.ProductID.String(),
		strconv.Itoa(cmd.Quantity),
		string(cmd.Channel),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SaleRecorder records live-sale events
type SaleRecorder interface {
	RecordSale(ctx context.Context, req salesapp.RecordSaleRequest) (*salesapp.RecordSaleResult, error)
}

// SaleHandler handles POST /sales
type SaleHandler struct {
	BaseHandler
	sales SaleRecorder
	store shared.IdempotencyStore
	ttl   time.Duration
}

// NewSaleHandler creates a SaleHandler. A nil store disables Idempotency-Key handling.
func NewSaleHandler(sales SaleRecorder, store shared.IdempotencyStore, ttl time.Duration) *SaleHandler {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return &SaleHandler{sales: sales, store: store, ttl: ttl}
}

// RecordSale godoc
// @ID           recordSale
// @Summary      Record a sale
// @Description  Adds quantity units of a product to the customer's open order of the current business day, creating the order when none is open.
// @Description  Repeating a request with the same Idempotency-Key replays the first response instead of selling twice.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client key that makes retries safe"
// @Param        request body RecordSaleRequest true "Sale event"
// @Success      201 {object} APIResponse[salesapp.RecordSaleResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /sales [post]
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	productID, ok := h.parseUUID(c, "product_id", req.ProductID)
	if !ok {
		return
	}
	channel, err := catalog.ParseSaleChannel(req.Channel)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	cmd := salesapp.RecordSaleRequest{
		Customer: customer.Identity{
			Phone:        req.Phone,
			SocialHandle: req.SocialHandle,
			Name:         req.Name,
		},
		ProductID: productID,
		Quantity:  req.Quantity,
		Channel:   channel,
	}

	key := strings.TrimSpace(c.GetHeader(logger.IdempotencyKeyHeader))
	if key == "" || h.store == nil {
		h.record(c, cmd)
		return
	}
	if len(key) > maxIdempotencyKeyLength {
		h.ValidationError(c, []dto.ValidationDetail{{Field: logger.IdempotencyKeyHeader, Message: "Must be at most 255 characters"}})
		return
	}
	h.recordOnce(c, "sale:"+key, cmd)
}

func (h *SaleHandler) record(c *gin.Context, cmd salesapp.RecordSaleRequest) {
	result, err := h.sales.RecordSale(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// recordOnce runs the sale at most once per key. The first caller claims the key,
// later callers get the stored response or 409 while the first is still running.
// Reusing a key with a different request is rejected with 422.
// A failed sale releases the key so the client can retry it.
func (h *SaleHandler) recordOnce(c *gin.Context, key string, cmd salesapp.RecordSaleRequest) {
	ctx := c.Request.Context()
	log := logger.L(ctx)
	fingerprint := saleFingerprint(cmd)

	claimed, err := h.store.Claim(ctx, key, h.ttl)
	if err != nil {
		log.Error("idempotency claim failed", zap.Error(err))
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, "Idempotency store unavailable")
		return
	}

	if !claimed {
		h.replay(c, key, fingerprint)
		return
	}

	result, err := h.sales.RecordSale(ctx, cmd)
	if err != nil {
		if relErr := h.store.Release(context.WithoutCancel(ctx), key); relErr != nil {
			log.Warn("idempotency release failed", zap.Error(relErr))
		}
		h.HandleError(c, err)
		return
	}

	body, err := json.Marshal(dto.NewSuccessResponse(result))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	record, err := json.Marshal(storedSale{Fingerprint: fingerprint, Response: body})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.store.Complete(context.WithoutCancel(ctx), key, record, h.ttl); err != nil {
		// The sale is committed; a retry will see the key as in flight until it expires.
		log.Warn("idempotency complete failed", zap.Error(err), zap.String("order_id", result.OrderID.String()))
	}
	c.Data(http.StatusCreated, "application/json; charset=utf-8", body)
}

func (h *SaleHandler) replay(c *gin.Context, key, fingerprint string) {
	ctx := c.Request.Context()
	log := logger.L(ctx)

	stored, err := h.store.Lookup(ctx, key)
	if err != nil {
		log.Error("idempotency lookup failed", zap.Error(err))
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, "Idempotency store unavailable")
		return
	}
	if stored == nil {
		h.Error(c, http.StatusConflict, dto.ErrCodeIdempotencyInFlight, "A request with this Idempotency-Key is still being processed")
		return
	}

	var record storedSale
	if err := json.Unmarshal(stored, &record); err != nil {
		log.Error("idempotency record unreadable", zap.Error(err))
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, "Idempotency store unavailable")
		return
	}
	if record.Fingerprint != fingerprint {
		log.Warn("idempotency key reused with a different request")
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeIdempotencyKeyReused,
			"Idempotency-Key was already used for a different sale")
		return
	}

	log.Info("replaying sale response")
	c.Header(ReplayedHeader, "true")
	c.Data(http.StatusCreated, "application/json; charset=utf-8", record.Response)
}
