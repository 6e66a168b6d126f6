package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/livesale/backend/internal/application/checkout"
	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/domain/shipping"
	"github.com/livesale/backend/internal/interfaces/http/dto"
	"github.com/livesale/backend/internal/interfaces/http/middleware"
)

// CheckoutPricer quotes shipping and prices carts
type CheckoutPricer interface {
	PriceCheckout(ctx context.Context, req checkoutapp.PriceCheckoutRequest) (*pricing.Result, error)
	PriceOrder(ctx context.Context, req checkoutapp.PriceOrderRequest) (*pricing.Result, error)
	ShippingOptionsForOrder(ctx context.Context, orderID uuid.UUID, postalCode string) (*checkoutapp.ShippingOptionsResult, error)
}

// CheckoutProcessor starts and confirms payments
type CheckoutProcessor interface {
	Checkout(ctx context.Context, req checkoutapp.CheckoutRequest) (*checkoutapp.CheckoutResponse, error)
	ConfirmPayment(ctx context.Context, req checkoutapp.ConfirmPaymentRequest) (*checkoutapp.ConfirmPaymentResponse, error)
}

// CheckoutHandler handles the /checkout endpoints
type CheckoutHandler struct {
	BaseHandler
	pricer    CheckoutPricer
	processor CheckoutProcessor
}

// NewCheckoutHandler creates a CheckoutHandler
func NewCheckoutHandler(pricer CheckoutPricer, processor CheckoutProcessor) *CheckoutHandler {
	return &CheckoutHandler{pricer: pricer, processor: processor}
}

// ShippingOptions godoc
// @ID           listShippingOptions
// @Summary      List shipping options
// @Description  Returns pickup followed by the delivery quotes for an order's cart.
// @Description  When the carrier cannot be reached only pickup is returned and degraded is true.
// @Tags         checkout
// @Produce      json
// @Param        order_id query string true "Order ID" format(uuid)
// @Param        postal_code query string false "Destination CEP"
// @Success      200 {object} APIResponse[checkoutapp.ShippingOptionsResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /checkout/shipping-options [get]
func (h *CheckoutHandler) ShippingOptions(c *gin.Context) {
	var q ShippingOptionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	orderID, ok := h.parseUUID(c, "order_id", q.OrderID)
	if !ok {
		return
	}

	result, err := h.pricer.ShippingOptionsForOrder(c.Request.Context(), orderID, q.PostalCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Price godoc
// @ID           priceCheckout
// @Summary      Price a checkout
// @Description  Prices either an existing order (order_id) or explicit line items with the chosen shipping and coupon.
// @Description  Exactly one of order_id and line_items must be given. Nothing is persisted.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body PriceRequest true "Pricing input"
// @Success      200 {object} APIResponse[checkoutapp.PricingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /checkout/price [post]
func (h *CheckoutHandler) Price(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if (req.OrderID == "") == (len(req.LineItems) == 0) {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "order_id", Message: "Provide either order_id or line_items"}})
		return
	}

	selection, err := toSelection(req.Shipping)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	var result *pricing.Result
	if req.OrderID != "" {
		orderID, ok := h.parseUUID(c, "order_id", req.OrderID)
		if !ok {
			return
		}
		result, err = h.pricer.PriceOrder(ctx, checkoutapp.PriceOrderRequest{
			OrderID:    orderID,
			Selection:  selection,
			CouponCode: req.CouponCode,
		})
	} else {
		items, ok := h.toLineItems(c, req.LineItems)
		if !ok {
			return
		}
		result, err = h.pricer.PriceCheckout(ctx, checkoutapp.PriceCheckoutRequest{
			Items:      items,
			Selection:  selection,
			CouponCode: req.CouponCode,
		})
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, checkoutapp.ToPricingResponse(result))
}

// Checkout godoc
// @ID           checkout
// @Summary      Check out an order
// @Description  Prices the order, stores the totals and creates a payment with the provider.
// @Description  A zero total marks the order paid without contacting the provider.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body CheckoutRequest true "Checkout input"
// @Success      200 {object} APIResponse[checkoutapp.CheckoutResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	orderID, ok := h.parseUUID(c, "order_id", req.OrderID)
	if !ok {
		return
	}
	selection, err := toSelection(req.Shipping)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.processor.Checkout(c.Request.Context(), checkoutapp.CheckoutRequest{
		OrderID:    orderID,
		Selection:  selection,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConfirmPayment godoc
// @ID           confirmPayment
// @Summary      Confirm a payment
// @Description  Marks the order paid once the provider reports the payment as completed. Confirming a paid order again is a no-op.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body ConfirmPaymentRequest true "Payment confirmation"
// @Success      200 {object} APIResponse[checkoutapp.ConfirmPaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /checkout/confirm [post]
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	orderID, ok := h.parseUUID(c, "order_id", req.OrderID)
	if !ok {
		return
	}

	resp, err := h.processor.ConfirmPayment(c.Request.Context(), checkoutapp.ConfirmPaymentRequest{
		OrderID:          orderID,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func toSelection(req ShippingSelectionRequest) (shipping.Selection, error) {
	return shipping.NewSelection(req.Method, req.OptionID, req.PostalCode)
}

func (h *CheckoutHandler) toLineItems(c *gin.Context, reqs []LineItemRequest) ([]pricing.LineItem, bool) {
	items := make([]pricing.LineItem, 0, len(reqs))
	for _, r := range reqs {
		id, ok := h.parseUUID(c, "line_items.product_id", r.ProductID)
		if !ok {
			return nil, false
		}
		items = append(items, pricing.LineItem{ProductID: id, Quantity: r.Quantity, UnitPrice: r.UnitPrice})
	}
	return items, true
}
