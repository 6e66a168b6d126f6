package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/customer"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// RecordSaleRequest is one "add this product for this customer" event
type RecordSaleRequest struct {
	Customer  customer.Identity
	ProductID uuid.UUID
	Quantity  int
	Channel   catalog.SaleChannel
}

// RecordSaleResult identifies the order the sale landed in
type RecordSaleResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	IsNewOrder  bool            `json:"is_new_order"`
	OrderTotal  decimal.Decimal `json:"order_total"`
	BusinessDay string          `json:"business_day"`
}

// OrderItemResponse is a cart line as shown to operators
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order with its cart lines
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	CustomerPhone    string              `json:"customer_phone"`
	Channel          string              `json:"channel"`
	BusinessDay      string              `json:"business_day"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Paid             bool                `json:"paid"`
	CartID           *uuid.UUID          `json:"cart_id,omitempty"`
	PaymentReference string              `json:"payment_reference,omitempty"`
	CouponCode       string              `json:"coupon_code,omitempty"`
	GrandTotal       *decimal.Decimal    `json:"grand_total,omitempty"`
	PaidAt           *time.Time          `json:"paid_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Items            []OrderItemResponse `json:"items,omitempty"`
}

// ListOrdersRequest filters the order listing
type ListOrdersRequest struct {
	BusinessDay string
	Phone       string
	Paid        *bool
	Page        int
	PageSize    int
}

// ToOrderResponse converts an order and its optional cart to a response
func ToOrderResponse(order *sales.Order, cart *sales.Cart) OrderResponse {
	resp := OrderResponse{
		ID:               order.ID,
		CustomerPhone:    order.CustomerPhone.String(),
		Channel:          order.Channel.String(),
		BusinessDay:      order.BusinessDay.String(),
		TotalAmount:      order.TotalAmount,
		Paid:             order.Paid,
		CartID:           order.CartID,
		PaymentReference: order.PaymentReference,
		CouponCode:       order.CouponCode(),
		PaidAt:           order.PaidAt,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
	if order.Checkout != nil {
		grand := order.Checkout.GrandTotal
		resp.GrandTotal = &grand
	}
	if cart != nil {
		resp.Items = make([]OrderItemResponse, 0, len(cart.Items))
		for _, item := range cart.Items {
			resp.Items = append(resp.Items, OrderItemResponse{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  item.Subtotal(),
			})
		}
	}
	return resp
}
