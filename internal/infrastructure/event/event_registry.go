package event

import (
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
)

// RegisterSalesEvents makes the order and checkout events decodable
func RegisterSalesEvents(serializer *EventSerializer) {
	serializer.Register(sales.EventTypeOrderCreated, 1, func() shared.DomainEvent { return &sales.OrderCreatedEvent{} })
	serializer.Register(sales.EventTypeSaleRecorded, 1, func() shared.DomainEvent { return &sales.SaleRecordedEvent{} })
	serializer.Register(sales.EventTypeCheckoutStarted, 1, func() shared.DomainEvent { return &sales.CheckoutStartedEvent{} })
	serializer.Register(sales.EventTypePaymentConfirmed, 1, func() shared.DomainEvent { return &sales.PaymentConfirmedEvent{} })
}
