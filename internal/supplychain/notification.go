package supplychain

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/medchain/internal/pkg/logger"
	"github.com/gabapcia/medchain/internal/txsim"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSuccess NotificationStatus = "success"
	NotificationError   NotificationStatus = "error"
	NotificationWarning NotificationStatus = "warning"
)

// Notification is a user-facing event about a supply-chain operation.
type Notification struct {
	ID          uuid.UUID          `json:"id"`
	Message     string             `json:"message"`
	Status      NotificationStatus `json:"status"`
	Transaction *txsim.Transaction `json:"transaction,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Notifier delivers notifications to some sink (log, pub/sub, webhook...).
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// RetryingNotifier is a Notifier that retries failed deliveries on its own.
// When RetriesDelivery reports true the service's retry policy is not applied
// on top of it.
type RetryingNotifier interface {
	Notifier
	RetriesDelivery() bool
}

type logNotifier struct{}

var _ Notifier = logNotifier{}

func (logNotifier) Notify(ctx context.Context, n Notification) error {
	kv := []any{
		"notification.id", n.ID.String(),
		"notification.status", n.Status,
	}
	if n.Transaction != nil {
		kv = append(kv, "tx.hash", n.Transaction.Hash, "tx.status", n.Transaction.Status)
	}
	if n.Error != "" {
		kv = append(kv, "error", n.Error)
	}

	switch n.Status {
	case NotificationError:
		logger.Error(ctx, n.Message, kv...)
	case NotificationWarning:
		logger.Warn(ctx, n.Message, kv...)
	default:
		logger.Info(ctx, n.Message, kv...)
	}

	return nil
}

func (s *service) newNotification(message string, status NotificationStatus, tx *txsim.Transaction, err error) Notification {
	id, idErr := uuid.NewV7()
	if idErr != nil {
		id = uuid.New()
	}

	n := Notification{
		ID:          id,
		Message:     message,
		Status:      status,
		Transaction: tx,
		CreatedAt:   s.now(),
	}
	if err != nil {
		n.Error = err.Error()
	}

	return n
}

// notify fans n out to every notifier. Delivery failures are logged and
// never reach the caller.
func (s *service) notify(ctx context.Context, message string, status NotificationStatus, tx *txsim.Transaction, err error) {
	n := s.newNotification(message, status, tx, err)

	var errs []error
	for _, notifier := range s.notifiers {
		if err := s.deliver(ctx, notifier, n); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		logger.Warn(ctx, "notification delivery failed",
			"notification.id", n.ID.String(),
			"error", errors.Join(errs...),
		)
	}
}

func retriesDelivery(notifier Notifier) bool {
	rn, ok := notifier.(RetryingNotifier)
	return ok && rn.RetriesDelivery()
}

func (s *service) deliver(ctx context.Context, notifier Notifier, n Notification) error {
	if s.retry == nil || retriesDelivery(notifier) {
		return notifier.Notify(ctx, n)
	}

	return s.retry.Execute(ctx, func() error {
		return notifier.Notify(ctx, n)
	})
}
