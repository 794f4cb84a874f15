package txsim

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/gabapcia/medchain/internal/pkg/logger"
	"github.com/gabapcia/medchain/internal/pkg/x/chflow"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Scheduler runs fn once after delay. Implementations must not block the
// caller while waiting.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(delay time.Duration, fn func())

func (f SchedulerFunc) Schedule(delay time.Duration, fn func()) {
	f(delay, fn)
}

var (
	timerScheduler = SchedulerFunc(func(delay time.Duration, fn func()) {
		time.AfterFunc(delay, fn)
	})

	manualScheduler = SchedulerFunc(func(time.Duration, func()) {})
)

func (s *service) SubmitTransaction(ctx context.Context, action Action, payload Payload, from, to string) (Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "txsim.SubmitTransaction",
		trace.WithAttributes(attribute.String("tx.action", string(action))),
	)
	defer span.End()

	pending, confirmedCh := s.submit(ctx, action, payload, from, to, true)
	span.SetAttributes(
		attribute.String("tx.hash", pending.Hash),
		attribute.Int64("tx.nonce", int64(pending.Nonce)),
	)

	if tx, ok := chflow.Receive(ctx, confirmedCh); ok {
		span.SetAttributes(attribute.Int64("tx.block_number", int64(tx.BlockNumber)))
		return tx, nil
	}

	err := ctx.Err()
	if err == nil {
		err = ErrSimulatorReset
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return pending, err
}

func (s *service) Submit(ctx context.Context, action Action, payload Payload, from, to string) Transaction {
	tx, _ := s.submit(ctx, action, payload, from, to, false)
	return tx
}

// submit inserts the pending record and schedules its confirmation. When
// wait is set, the returned channel receives the confirmed record; it is
// closed without a value if Reset discards the transaction first.
func (s *service) submit(ctx context.Context, action Action, payload Payload, from, to string, wait bool) (Transaction, <-chan Transaction) {
	metadata := Payload{}
	if payload != nil {
		metadata = maps.Clone(payload)
	}

	gasUsed := calculateGasUsed(action, payload)

	s.mu.Lock()

	s.counter++

	hash := s.ids.transactionHash()
	for s.known(hash) {
		hash = s.ids.transactionHash()
	}

	if from == "" {
		from = s.ids.address()
	}
	if to == "" {
		to = s.ids.address()
	}

	tx := Transaction{
		Hash:                 hash,
		BlockNumber:          s.blockHeight,
		BlockHash:            s.ids.blockHash(s.blockHeight),
		From:                 from,
		To:                   to,
		Gas:                  transactionGas(gasUsed),
		GasUsed:              gasUsed,
		GasPrice:             s.fees.GasPrice,
		MaxPriorityFeePerGas: s.fees.MaxPriorityFeePerGas,
		MaxFeePerGas:         s.fees.MaxFeePerGas,
		Value:                zeroValue,
		Nonce:                s.counter,
		Data:                 s.ids.calldata(action, payload),
		Status:               StatusPending,
		Timestamp:            s.now(),
		Action:               action,
		Metadata:             metadata,
	}
	s.pending[hash] = tx

	var waiter chan Transaction
	if wait {
		waiter = make(chan Transaction, 1)
		s.waiters[hash] = waiter
	}

	delay := s.confirmationDelay()

	s.mu.Unlock()

	ctx = logger.Derive(ctx, "tx.hash", tx.Hash, "tx.nonce", tx.Nonce, "tx.action", tx.Action)
	logger.Info(ctx, "transaction submitted",
		"tx.block_number", tx.BlockNumber,
		"tx.gas_used", tx.GasUsed,
		"tx.confirmation_delay", delay.String(),
	)
	s.metrics.recordSubmitted(ctx, tx)

	confirmCtx := context.WithoutCancel(ctx)
	s.scheduler.Schedule(delay, func() {
		s.confirmScheduled(confirmCtx, hash)
	})

	return tx.clone(), waiter
}

// known must be called with s.mu held.
func (s *service) known(hash string) bool {
	if _, ok := s.pending[hash]; ok {
		return true
	}

	_, ok := s.confirmed[hash]
	return ok
}

// confirmationDelay draws a delay uniformly from [minDelay, maxDelay].
func (s *service) confirmationDelay() time.Duration {
	if s.maxDelay <= s.minDelay {
		return max(s.minDelay, 0)
	}

	window := uint64(s.maxDelay-s.minDelay) + 1
	return s.minDelay + time.Duration(s.randomness.Uint64n(window))
}

// confirmScheduled is the scheduler callback; the transaction may already be
// confirmed by hand or discarded by Reset, which is not an error here.
func (s *service) confirmScheduled(ctx context.Context, hash string) {
	if _, err := s.Confirm(ctx, hash); err != nil {
		logger.Debug(ctx, "scheduled confirmation skipped", "error", err)
	}
}

func (s *service) Confirm(ctx context.Context, hash string) (Transaction, error) {
	s.mu.Lock()

	tx, ok := s.pending[hash]
	if !ok {
		s.mu.Unlock()
		return Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotPending, hash)
	}

	confirmedAt := s.now()

	tx.Status = StatusConfirmed
	tx.Confirmations = 1
	tx.ConfirmedAt = &confirmedAt

	delete(s.pending, hash)
	s.confirmed[hash] = tx
	s.confirmedOrder = append(s.confirmedOrder, hash)
	s.blockHeight++
	height := s.blockHeight

	waiter, waiting := s.waiters[hash]
	delete(s.waiters, hash)

	s.mu.Unlock()

	if waiting {
		waiter <- tx.clone()
		close(waiter)
	}

	logger.Info(ctx, "transaction confirmed",
		"tx.hash", tx.Hash,
		"tx.nonce", tx.Nonce,
		"chain.height", height,
	)
	s.metrics.recordConfirmed(ctx, tx, confirmedAt.Sub(tx.Timestamp))

	return tx.clone(), nil
}
