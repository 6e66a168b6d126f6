package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics records storefront counters: recorded sales, order-merge
// conflicts, started checkouts and confirmed payments.
type BusinessMetrics struct {
	logger *zap.Logger

	salesTotal             *Counter
	saleSubtotal           *Histogram
	orderConflictsTotal    *Counter
	checkoutsTotal         *Counter
	checkoutGrandTotal     *Histogram
	paymentsConfirmedTotal *Counter
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates the business instruments on cfg.Meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}

	var err error
	if bm.salesTotal, err = NewCounter(cfg.Meter,
		"livesale_sales_recorded_total", "Total number of sale events recorded", "{sales}"); err != nil {
		return nil, err
	}
	if bm.saleSubtotal, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "livesale_sale_subtotal",
		Description: "Subtotal of individual sale events",
		Unit:        "BRL",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.orderConflictsTotal, err = NewCounter(cfg.Meter,
		"livesale_order_conflicts_total", "Open-order creations that lost the race to a concurrent sale", "{conflicts}"); err != nil {
		return nil, err
	}
	if bm.checkoutsTotal, err = NewCounter(cfg.Meter,
		"livesale_checkouts_total", "Total number of checkouts started", "{checkouts}"); err != nil {
		return nil, err
	}
	if bm.checkoutGrandTotal, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "livesale_checkout_grand_total",
		Description: "Grand total charged at checkout",
		Unit:        "BRL",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.paymentsConfirmedTotal, err = NewCounter(cfg.Meter,
		"livesale_payments_confirmed_total", "Total number of payment confirmations", "{payments}"); err != nil {
		return nil, err
	}

	logger.Info("Business metrics initialized")
	return bm, nil
}

// RecordSale counts one recorded sale and its subtotal.
func (bm *BusinessMetrics) RecordSale(ctx context.Context, channel string, isNewOrder bool, subtotal decimal.Decimal) {
	attrs := []attribute.KeyValue{
		AttrSaleChannel.String(channel),
		AttrOrderIsNew.Bool(isNewOrder),
	}
	bm.salesTotal.Inc(ctx, attrs...)
	bm.saleSubtotal.Record(ctx, subtotal.InexactFloat64(), attrs...)
}

// RecordOrderConflict counts a lost open-order insert; retried is false when the
// retry budget was exhausted.
func (bm *BusinessMetrics) RecordOrderConflict(ctx context.Context, retried bool) {
	bm.orderConflictsTotal.Inc(ctx, AttrRetried.Bool(retried))
}

// RecordCheckout counts a started checkout and its grand total.
func (bm *BusinessMetrics) RecordCheckout(ctx context.Context, grandTotal decimal.Decimal, couponApplied bool) {
	attr := AttrCouponApplied.Bool(couponApplied)
	bm.checkoutsTotal.Inc(ctx, attr)
	bm.checkoutGrandTotal.Record(ctx, grandTotal.InexactFloat64(), attr)
}

// RecordPaymentConfirmed counts a payment confirmation.
func (bm *BusinessMetrics) RecordPaymentConfirmed(ctx context.Context, alreadyPaid bool) {
	bm.paymentsConfirmedTotal.Inc(ctx, AttrAlreadyPaid.Bool(alreadyPaid))
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
