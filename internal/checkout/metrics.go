package checkout

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type chargeMetrics struct {
	attempted metric.Int64Counter
	succeeded metric.Int64Counter
	declined  metric.Int64Counter
}

func newChargeMetrics() (*chargeMetrics, error) {
	meter := otel.Meter("checkout")

	attempted, err := meter.Int64Counter("checkout.charges.attempted",
		metric.WithDescription("Charges submitted to the payment gateway"))
	if err != nil {
		return nil, err
	}
	succeeded, err := meter.Int64Counter("checkout.charges.succeeded",
		metric.WithDescription("Charges confirmed by the payment gateway"))
	if err != nil {
		return nil, err
	}
	declined, err := meter.Int64Counter("checkout.charges.declined",
		metric.WithDescription("Charges declined by the payment gateway"))
	if err != nil {
		return nil, err
	}

	return &chargeMetrics{attempted: attempted, succeeded: succeeded, declined: declined}, nil
}
