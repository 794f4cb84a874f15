// Package txsim simulates a ledger for the supply-chain demo: it mints
// plausible transaction records, charges synthetic gas and confirms every
// submitted transaction after a randomized block-time delay.
//
// A Service is an explicit instance created once with New and passed to its
// consumers. Confirmation is a separate phase (Confirm) fired by a Scheduler,
// so tests can drive it deterministically with WithManualConfirmation.
package txsim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/medchain/internal/pkg/types"

	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrTransactionNotPending is returned by Confirm when the hash does not
	// identify a pending transaction.
	ErrTransactionNotPending = errors.New("transaction is not pending")

	// ErrSimulatorReset is returned to callers still waiting on a transaction
	// that Reset discarded.
	ErrSimulatorReset = errors.New("simulator was reset")
)

// initialBlockHeight is the chain height of a fresh or reset simulator.
const initialBlockHeight uint64 = 1

// zeroValue is the transferred value of every simulated transaction.
const zeroValue = "0x0"

// DefaultNetwork identifies a local Hardhat node.
var DefaultNetwork = Network{
	ChainID:   types.Hex("0x7a69"),
	NetworkID: 31337,
	Name:      "Hardhat Localhost",
}

// DefaultFees are 20 gwei gas price, 2 gwei priority fee and 40 gwei max fee.
var DefaultFees = FeeSchedule{
	GasPrice:             20_000_000_000,
	MaxPriorityFeePerGas: 2_000_000_000,
	MaxFeePerGas:         40_000_000_000,
}

const (
	DefaultConfirmationMinDelay = 2 * time.Second
	DefaultConfirmationMaxDelay = 5 * time.Second
)

// Service is the transaction simulator.
type Service interface {
	// SubmitTransaction submits a transaction and blocks until it is
	// confirmed. If ctx ends first its error is returned together with the
	// pending record; confirmation still happens in the background. Empty
	// from/to addresses are synthesized.
	SubmitTransaction(ctx context.Context, action Action, payload Payload, from, to string) (Transaction, error)

	// Submit records a pending transaction and schedules its confirmation.
	// It never blocks on the confirmation.
	Submit(ctx context.Context, action Action, payload Payload, from, to string) Transaction

	// Confirm promotes a pending transaction to confirmed and advances the
	// block height by one.
	Confirm(ctx context.Context, hash string) (Transaction, error)

	// EstimateGas prices an action without touching any state.
	EstimateGas(action Action, payload Payload) GasEstimate

	// GetTransaction looks a hash up in both collections.
	GetTransaction(hash string) (Transaction, bool)

	// PendingTransactions returns the pending records ordered by nonce.
	PendingTransactions() []Transaction

	// ConfirmedTransactions returns the confirmed records in confirmation order.
	ConfirmedTransactions() []Transaction

	NetworkInfo() NetworkInfo
	NetworkStatus() NetworkStatus

	// Balance returns a random wei amount; consecutive calls differ.
	Balance(address string) *uint256.Int

	// Reset restores the initial counters and empties both collections.
	Reset()
}

type service struct {
	mu             sync.Mutex
	counter        uint64
	blockHeight    uint64
	pending        map[string]Transaction
	confirmed      map[string]Transaction
	confirmedOrder []string
	waiters        map[string]chan Transaction
	ids            *identifiers

	network    Network
	fees       FeeSchedule
	minDelay   time.Duration
	maxDelay   time.Duration
	randomness Randomness
	scheduler  Scheduler
	now        func() time.Time

	tracer  trace.Tracer
	metrics *instruments
}

var _ Service = (*service)(nil)

type config struct {
	network    Network
	fees       FeeSchedule
	minDelay   time.Duration
	maxDelay   time.Duration
	randomness Randomness
	scheduler  Scheduler
	now        func() time.Time
}

// Option configures a Service built by New.
type Option func(*config)

// New creates a simulator at block height 1 with no transactions.
func New(opts ...Option) *service {
	cfg := config{
		network:   DefaultNetwork,
		fees:      DefaultFees,
		minDelay:  DefaultConfirmationMinDelay,
		maxDelay:  DefaultConfirmationMaxDelay,
		scheduler: timerScheduler,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.randomness == nil {
		cfg.randomness = NewRandomness()
	}

	s := &service{
		network:    cfg.network,
		fees:       cfg.fees,
		minDelay:   cfg.minDelay,
		maxDelay:   cfg.maxDelay,
		randomness: cfg.randomness,
		scheduler:  cfg.scheduler,
		now:        cfg.now,
		ids:        newIdentifiers(cfg.randomness),
		tracer:     otel.Tracer(instrumentationName),
		metrics:    newInstruments(),
	}
	s.resetState()

	return s
}

// resetState must be called with s.mu held (or before s is shared).
func (s *service) resetState() {
	s.counter = 0
	s.blockHeight = initialBlockHeight
	s.pending = make(map[string]Transaction)
	s.confirmed = make(map[string]Transaction)
	s.confirmedOrder = nil
	s.waiters = make(map[string]chan Transaction)
}

func (s *service) Reset() {
	s.mu.Lock()
	waiters := s.waiters
	s.resetState()
	s.mu.Unlock()

	for _, waiter := range waiters {
		close(waiter)
	}
}

// WithNetwork overrides the chain identity reported by NetworkInfo.
func WithNetwork(n Network) Option {
	return func(c *config) {
		c.network = n
	}
}

// WithFees overrides the fee parameters stamped on every transaction.
func WithFees(f FeeSchedule) Option {
	return func(c *config) {
		c.fees = f
	}
}

// WithConfirmationDelay sets the window the confirmation delay is drawn from.
func WithConfirmationDelay(min, max time.Duration) Option {
	return func(c *config) {
		c.minDelay = min
		c.maxDelay = max
	}
}

// WithRandomness replaces the entropy source, e.g. with a seeded one.
func WithRandomness(r Randomness) Option {
	return func(c *config) {
		c.randomness = r
	}
}

// WithScheduler replaces the timer used to fire confirmations.
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

// WithManualConfirmation disables automatic confirmation; transactions stay
// pending until Confirm is called.
func WithManualConfirmation() Option {
	return WithScheduler(manualScheduler)
}

// WithClock replaces the source of submission and confirmation timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}
