package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
)

// ErrGatewayUnavailable wraps failures of the payment collaborator
var ErrGatewayUnavailable = shared.NewExternalServiceError("PAYMENT_UNAVAILABLE", "Payment provider unavailable", nil)

// IntentRequest describes the amount to collect for an order
type IntentRequest struct {
	OrderID       uuid.UUID
	CustomerPhone string
	Amount        valueobject.Money
	Description   string
}

// Intent is the hosted checkout created by the payment collaborator
type Intent struct {
	Reference   string
	RedirectURL string
	ExpiresAt   *time.Time
}

// Gateway is the payment collaborator consumed by the checkout orchestrator
type Gateway interface {
	// CreatePaymentIntent opens a hosted checkout for the request
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}
