package handler

import "github.com/shopspring/decimal"

// RecordSaleRequest is the body of POST /sales. At least one of phone or
// social_handle identifies the customer.
// @name HandlerRecordSaleRequest
type RecordSaleRequest struct {
	Phone        string `json:"phone" example:"11987654321"`
	SocialHandle string `json:"social_handle" example:"@maria.live"`
	Name         string `json:"name" example:"Maria Silva"`
	ProductID    string `json:"product_id" binding:"required,uuid" example:"6f1c5b8e-6a43-4bb4-9a53-2f3b9d0c4a11"`
	Quantity     int    `json:"quantity" example:"2"`
	Channel      string `json:"channel" binding:"required" example:"LIVE"`
}

// ListOrdersQuery are the query parameters of GET /orders
// @name HandlerListOrdersQuery
type ListOrdersQuery struct {
	BusinessDay string `form:"business_day" binding:"omitempty,datetime=2006-01-02" example:"2026-03-14"`
	Phone       string `form:"phone" example:"11987654321"`
	Paid        *bool  `form:"paid" example:"false"`
	Page        int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// ShippingSelectionRequest picks pickup or a quoted delivery option
// @name HandlerShippingSelectionRequest
type ShippingSelectionRequest struct {
	Method     string `json:"method" example:"DELIVERY"`
	OptionID   string `json:"option_id" example:"correios-sedex"`
	PostalCode string `json:"postal_code" example:"01310-100"`
}

// LineItemRequest is one explicit line to price without an order
// @name HandlerLineItemRequest
type LineItemRequest struct {
	ProductID string          `json:"product_id" binding:"required,uuid" example:"6f1c5b8e-6a43-4bb4-9a53-2f3b9d0c4a11"`
	Quantity  int             `json:"quantity" example:"2"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string" example:"49.90"`
}

// PriceRequest is the body of POST /checkout/price: an order or explicit line items
// @name HandlerPriceRequest
type PriceRequest struct {
	OrderID    string                   `json:"order_id" binding:"omitempty,uuid" example:"0e8a8c9e-2b7f-4b8e-9d1c-3f6a1a2b3c4d"`
	LineItems  []LineItemRequest        `json:"line_items" binding:"omitempty,max=200,dive"`
	Shipping   ShippingSelectionRequest `json:"shipping"`
	CouponCode string                   `json:"coupon_code" example:"LIVE10"`
}

// CheckoutRequest is the body of POST /checkout
// @name HandlerCheckoutRequest
type CheckoutRequest struct {
	OrderID    string                   `json:"order_id" binding:"required,uuid" example:"0e8a8c9e-2b7f-4b8e-9d1c-3f6a1a2b3c4d"`
	Shipping   ShippingSelectionRequest `json:"shipping"`
	CouponCode string                   `json:"coupon_code" example:"LIVE10"`
}

// ConfirmPaymentRequest is the body of POST /checkout/confirm
// @name HandlerConfirmPaymentRequest
type ConfirmPaymentRequest struct {
	OrderID          string `json:"order_id" binding:"required,uuid" example:"0e8a8c9e-2b7f-4b8e-9d1c-3f6a1a2b3c4d"`
	PaymentReference string `json:"payment_reference" binding:"required,max=255" example:"cs_test_a1B2c3"`
}

// ShippingOptionsQuery are the query parameters of GET /checkout/shipping-options
// @name HandlerShippingOptionsQuery
type ShippingOptionsQuery struct {
	OrderID    string `form:"order_id" binding:"required,uuid" example:"0e8a8c9e-2b7f-4b8e-9d1c-3f6a1a2b3c4d"`
	PostalCode string `form:"postal_code" example:"01310-100"`
}
