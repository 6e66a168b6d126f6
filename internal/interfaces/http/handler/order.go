package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/livesale/backend/internal/application/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/interfaces/http/middleware"
)

// orderIDParam is the path parameter naming an order
const orderIDParam = "id"

// OrderQuery reads orders
type OrderQuery interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*salesapp.OrderResponse, error)
	ListOrders(ctx context.Context, req salesapp.ListOrdersRequest) (*shared.Paginated[salesapp.OrderResponse], error)
}

// OrderHandler handles the order read endpoints
type OrderHandler struct {
	BaseHandler
	orders OrderQuery
}

// NewOrderHandler creates an OrderHandler
func NewOrderHandler(orders OrderQuery) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// GetOrder godoc
// @ID           getOrder
// @Summary      Get an order
// @Description  Returns an order with its cart lines
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, orderIDParam)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListOrders godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Lists orders newest first, optionally filtered by business day, customer phone and payment state
// @Tags         orders
// @Produce      json
// @Param        business_day query string false "Business day (YYYY-MM-DD)"
// @Param        phone query string false "Customer phone"
// @Param        paid query bool false "Payment state"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]salesapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.orders.ListOrders(c.Request.Context(), salesapp.ListOrdersRequest{
		BusinessDay: q.BusinessDay,
		Phone:       q.Phone,
		Paid:        q.Paid,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
