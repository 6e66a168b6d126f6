package shipping

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Method is how the customer receives the order
type Method string

const (
	MethodPickup   Method = "PICKUP"
	MethodDelivery Method = "DELIVERY"
)

// PickupOptionID identifies the always-available in-store pickup option
const PickupOptionID = "pickup"

// Shipping errors
var (
	ErrOptionUnavailable = shared.NewValidationError("SHIPPING_OPTION_UNAVAILABLE", "Selected shipping option is not available for this destination")
	ErrInvalidSelection  = shared.NewValidationError("INVALID_SHIPPING_SELECTION", "Delivery needs a destination postal code and an option")
	ErrQuoteUnavailable  = shared.NewExternalServiceError("SHIPPING_UNAVAILABLE", "Shipping quote service unavailable", nil)
)

// Option is one priced delivery alternative
type Option struct {
	ID           string          `json:"id"`
	Carrier      string          `json:"carrier"`
	Service      string          `json:"service"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"`
}

// Pickup returns the zero-cost pickup option
func Pickup(label string) Option {
	if label == "" {
		label = "Store pickup"
	}
	return Option{ID: PickupOptionID, Carrier: label, Service: string(MethodPickup), Price: decimal.Zero}
}

// Selection is the shipping choice made at checkout
type Selection struct {
	Method     Method
	OptionID   string
	PostalCode valueobject.PostalCode
}

// NewSelection parses method, option and postal code as submitted by the client
func NewSelection(method, optionID, postalCode string) (Selection, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(method)))
	switch m {
	case MethodPickup, "":
		return Selection{Method: MethodPickup, OptionID: PickupOptionID}, nil
	case MethodDelivery:
		if strings.TrimSpace(optionID) == "" {
			return Selection{}, ErrInvalidSelection
		}
		cep, err := valueobject.NewPostalCode(postalCode)
		if err != nil {
			return Selection{}, ErrInvalidSelection.WithMessage(err.Error())
		}
		return Selection{Method: MethodDelivery, OptionID: strings.TrimSpace(optionID), PostalCode: cep}, nil
	default:
		return Selection{}, ErrInvalidSelection.WithMessage("Shipping method must be PICKUP or DELIVERY")
	}
}

// IsPickup reports whether no carrier is involved
func (s Selection) IsPickup() bool {
	return s.Method == MethodPickup
}

// Item is a line sent to the quote collaborator
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// QuoteRequest asks for delivery options to a destination
type QuoteRequest struct {
	Destination valueobject.PostalCode
	Items       []Item
}

// Quoter is the shipping quote accessor
type Quoter interface {
	// Quote returns the delivery options for the request.
	// Failures are reported as errors; callers decide whether to degrade to pickup.
	Quote(ctx context.Context, req QuoteRequest) ([]Option, error)
}

// FindOption returns the option with id
func FindOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
