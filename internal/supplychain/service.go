// Package supplychain runs the pharmaceutical supply-chain operations on top
// of the transaction simulator and keeps the resulting batch and request
// ledger. Every operation reports its progress through the configured
// notifiers.
package supplychain

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gabapcia/medchain/internal/pkg/logger"
	"github.com/gabapcia/medchain/internal/pkg/resilience/retry"
	"github.com/gabapcia/medchain/internal/pkg/validator"
	"github.com/gabapcia/medchain/internal/txsim"

	"github.com/holiman/uint256"
)

var (
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrRequestNotFound    = errors.New("drug request not found")
	ErrRequestNotPending  = errors.New("drug request is not pending")
)

// Simulator is the subset of txsim.Service used by the supply chain.
type Simulator interface {
	SubmitTransaction(ctx context.Context, action txsim.Action, payload txsim.Payload, from, to string) (txsim.Transaction, error)
	NetworkInfo() txsim.NetworkInfo
	NetworkStatus() txsim.NetworkStatus
	Balance(address string) *uint256.Int
}

type Service interface {
	Connect(ctx context.Context, account string) error
	Disconnect(ctx context.Context)
	Account() (string, bool)

	CreateDrugBatch(ctx context.Context, drugName string, quantity uint64, expiryDate, manufacturingDate time.Time) (Batch, txsim.Transaction, error)
	TransferToDistributor(ctx context.Context, batchID uint64, distributor string) (txsim.Transaction, error)
	TransferToHospital(ctx context.Context, batchID uint64, hospital string) (txsim.Transaction, error)
	DispenseToPatient(ctx context.Context, batchID uint64, patient string, quantity uint64) (txsim.Transaction, error)
	VerifyDrug(ctx context.Context, batchID uint64, leaf string, proof []string) (VerificationResult, error)
	GrantRole(ctx context.Context, role Role, address string) (txsim.Transaction, error)
	RequestDrugs(ctx context.Context, distributor string, batchID, quantity uint64, reason string) (DrugRequest, txsim.Transaction, error)
	ApproveRequest(ctx context.Context, requestID uint64) (txsim.Transaction, error)
	RejectRequest(ctx context.Context, requestID uint64) (txsim.Transaction, error)
	UpdateHealthRecord(ctx context.Context, patient, recordHash string) (txsim.Transaction, error)
	ReportExpiredDrug(ctx context.Context, batchID uint64, reason string) (txsim.Transaction, error)

	Batches() []Batch
	Batch(id uint64) (Batch, bool)
	BatchesHeldBy(address string) []Batch
	Requests() []DrugRequest

	NetworkInfo() txsim.NetworkInfo
	NetworkStatus() txsim.NetworkStatus
	Balance(address string) *uint256.Int
}

type service struct {
	mu            sync.Mutex
	account       string
	batches       []Batch
	requests      []DrugRequest
	nextBatchID   uint64
	nextRequestID uint64

	simulator  Simulator
	notifiers  []Notifier
	retry      retry.Retry
	randomness txsim.Randomness
	now        func() time.Time
}

var _ Service = (*service)(nil)

type config struct {
	notifiers  []Notifier
	retry      retry.Retry
	randomness txsim.Randomness
	now        func() time.Time
}

type Option func(*config)

// New returns a disconnected service with an empty ledger. A notifier that
// writes to the logger package is always installed.
func New(simulator Simulator, opts ...Option) *service {
	cfg := config{
		notifiers: []Notifier{logNotifier{}},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.randomness == nil {
		cfg.randomness = txsim.NewRandomness()
	}

	return &service{
		simulator:  simulator,
		notifiers:  cfg.notifiers,
		retry:      cfg.retry,
		randomness: cfg.randomness,
		now:        cfg.now,
	}
}

// WithNotifiers adds notification sinks next to the logging one.
func WithNotifiers(notifiers ...Notifier) Option {
	return func(c *config) {
		c.notifiers = append(c.notifiers, notifiers...)
	}
}

// WithRetry retries each notifier delivery with r.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithRandomness replaces the source behind verification outcomes and the
// cosmetic batch hashes.
func WithRandomness(r txsim.Randomness) Option {
	return func(c *config) {
		c.randomness = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

type connectInput struct {
	Account string `validate:"required,eth_addr"`
}

func (s *service) Connect(ctx context.Context, account string) error {
	if err := validator.Validate(connectInput{Account: account}); err != nil {
		s.notify(ctx, "Failed to connect wallet", NotificationError, nil, err)
		return err
	}

	s.mu.Lock()
	s.account = account
	s.mu.Unlock()

	s.notify(logger.Derive(ctx, "account", account), "Connected to blockchain network", NotificationSuccess, nil, nil)
	return nil
}

func (s *service) Disconnect(ctx context.Context) {
	s.mu.Lock()
	account := s.account
	s.account = ""
	s.mu.Unlock()

	if account != "" {
		logger.Info(ctx, "wallet disconnected", "account", account)
	}
}

func (s *service) Account() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.account, s.account != ""
}

func (s *service) Batches() []Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.batches)
}

func (s *service) Batch(id uint64) (Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.batches, func(b Batch) bool { return b.ID == id })
	if i < 0 {
		return Batch{}, false
	}

	return s.batches[i], true
}

// BatchesHeldBy matches the current holder case-insensitively.
func (s *service) BatchesHeldBy(address string) []Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	var held []Batch
	for _, b := range s.batches {
		if strings.EqualFold(b.CurrentHolder, address) {
			held = append(held, b)
		}
	}

	return held
}

func (s *service) Requests() []DrugRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.requests)
}

func (s *service) NetworkInfo() txsim.NetworkInfo {
	return s.simulator.NetworkInfo()
}

func (s *service) NetworkStatus() txsim.NetworkStatus {
	return s.simulator.NetworkStatus()
}

func (s *service) Balance(address string) *uint256.Int {
	return s.simulator.Balance(address)
}
