package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/livesale/backend/internal/infrastructure/config"
)

// StripeCheckoutConfig holds what the Checkout Session adapter needs
type StripeCheckoutConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string

	// Currency is the ISO code sessions are charged in, lower case
	Currency string

	// SuccessURL receives the customer after payment; {ORDER_ID} is substituted
	SuccessURL string

	// CancelURL receives the customer when they abandon the hosted page
	CancelURL string
}

// StripeCheckoutConfigFrom maps application configuration
func StripeCheckoutConfigFrom(cfg config.PaymentConfig) StripeCheckoutConfig {
	return StripeCheckoutConfig{
		SecretKey:  cfg.StripeSecretKey,
		Currency:   strings.ToLower(cfg.Currency),
		SuccessURL: cfg.SuccessURL,
		CancelURL:  cfg.CancelURL,
	}
}

// Validate validates the Stripe configuration
func (c StripeCheckoutConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if !strings.HasPrefix(c.SecretKey, "sk_test_") && !strings.HasPrefix(c.SecretKey, "sk_live_") {
		return fmt.Errorf("stripe: secret key must start with sk_test_ or sk_live_")
	}
	if c.Currency == "" {
		return fmt.Errorf("stripe: currency is required")
	}
	for name, raw := range map[string]string{"success URL": c.SuccessURL, "cancel URL": c.CancelURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("stripe: %s must be an absolute URL", name)
		}
	}
	return nil
}

// IsTestMode reports whether the key belongs to Stripe test mode
func (c StripeCheckoutConfig) IsTestMode() bool {
	return strings.HasPrefix(c.SecretKey, "sk_test_")
}
