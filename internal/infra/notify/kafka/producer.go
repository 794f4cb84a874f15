// Package kafka writes supply-chain notifications to a Kafka topic, keyed by
// notification id and carrying the W3C trace context in message headers.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gabapcia/medchain/internal/supplychain"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTopic = "medchain-notifications"

	instrumentationName = "github.com/gabapcia/medchain/internal/infra/notify/kafka"
)

var ErrNoBrokers = errors.New("kafka brokers are required")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	tracer trace.Tracer
}

var _ supplychain.Notifier = (*Producer)(nil)

// NewProducer returns a Producer writing to topic (DefaultTopic when empty).
// Messages with the same key land on the same partition.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return newProducer(writer), nil
}

func newProducer(writer messageWriter) *Producer {
	return &Producer{
		writer: writer,
		tracer: otel.Tracer(instrumentationName),
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func (p *Producer) Notify(ctx context.Context, n supplychain.Notification) error {
	ctx, span := p.tracer.Start(ctx, "notify.kafka.publish", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()

	span.SetAttributes(
		attribute.String("notification.id", n.ID.String()),
		attribute.String("notification.status", string(n.Status)),
	)
	if n.Transaction != nil {
		span.SetAttributes(attribute.String("tx.hash", n.Transaction.Hash))
	}

	payload, err := json.Marshal(n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	headers := make([]kafka.Header, 0, 2)
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{headers: &headers})

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(n.ID.String()),
		Value:   payload,
		Headers: headers,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
