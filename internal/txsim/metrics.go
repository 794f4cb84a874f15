package txsim

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/gabapcia/medchain/internal/txsim"

type instruments struct {
	submitted         metric.Int64Counter
	confirmed         metric.Int64Counter
	gasUsed           metric.Int64Histogram
	confirmationDelay metric.Float64Histogram
}

// newInstruments registers the simulator instruments on the global meter
// provider. Registration errors are reported to the global otel error handler
// and leave a no-op instrument in place.
func newInstruments() *instruments {
	meter := otel.Meter(instrumentationName)

	submitted, err := meter.Int64Counter("txsim.transactions.submitted",
		metric.WithDescription("Number of simulated transactions submitted"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		otel.Handle(err)
	}

	confirmed, err := meter.Int64Counter("txsim.transactions.confirmed",
		metric.WithDescription("Number of simulated transactions confirmed"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		otel.Handle(err)
	}

	gasUsed, err := meter.Int64Histogram("txsim.gas.used",
		metric.WithDescription("Gas used per submitted transaction"),
		metric.WithUnit("{gas}"),
	)
	if err != nil {
		otel.Handle(err)
	}

	confirmationDelay, err := meter.Float64Histogram("txsim.confirmation.delay",
		metric.WithDescription("Time between submission and confirmation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &instruments{
		submitted:         submitted,
		confirmed:         confirmed,
		gasUsed:           gasUsed,
		confirmationDelay: confirmationDelay,
	}
}

func (i *instruments) recordSubmitted(ctx context.Context, tx Transaction) {
	attrs := metric.WithAttributes(attribute.String("tx.action", string(tx.Action)))

	i.submitted.Add(ctx, 1, attrs)
	i.gasUsed.Record(ctx, int64(tx.GasUsed), attrs)
}

func (i *instruments) recordConfirmed(ctx context.Context, tx Transaction, delay time.Duration) {
	attrs := metric.WithAttributes(attribute.String("tx.action", string(tx.Action)))

	i.confirmed.Add(ctx, 1, attrs)
	i.confirmationDelay.Record(ctx, delay.Seconds(), attrs)
}
