package txsim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gabapcia/medchain/internal/pkg/logger"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Init("error")
}

var fixedNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

// captureScheduler records scheduled callbacks instead of running them.
type captureScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (c *captureScheduler) Schedule(delay time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delays = append(c.delays, delay)
	c.fns = append(c.fns, fn)
}

func (c *captureScheduler) runAll() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func TestNew(t *testing.T) {
	svc := New()

	assert.Equal(t, DefaultNetwork, svc.network)
	assert.Equal(t, DefaultFees, svc.fees)
	assert.Equal(t, DefaultConfirmationMinDelay, svc.minDelay)
	assert.Equal(t, DefaultConfirmationMaxDelay, svc.maxDelay)
	assert.Equal(t, uint64(1), svc.blockHeight)
	assert.Zero(t, svc.counter)
	assert.Empty(t, svc.pending)
	assert.Empty(t, svc.confirmed)
}

func TestService_Submit(t *testing.T) {
	t.Run("should record a pending transaction", func(t *testing.T) {
		svc := New(WithManualConfirmation(), WithClock(fixedClock))

		tx := svc.Submit(t.Context(), ActionCreateBatch, Payload{"drugName": "Paracetamol", "quantity": 500}, "0xFrom", "0xTo")

		assert.Equal(t, uint64(1), tx.Nonce)
		assert.Equal(t, uint64(1), tx.BlockNumber)
		assert.Equal(t, uint64(72100), tx.GasUsed)
		assert.Equal(t, uint64(79310), tx.Gas)
		assert.Equal(t, DefaultFees.GasPrice, tx.GasPrice)
		assert.Equal(t, DefaultFees.MaxPriorityFeePerGas, tx.MaxPriorityFeePerGas)
		assert.Equal(t, DefaultFees.MaxFeePerGas, tx.MaxFeePerGas)
		assert.Equal(t, "0x0", tx.Value)
		assert.Equal(t, "0xFrom", tx.From)
		assert.Equal(t, "0xTo", tx.To)
		assert.Equal(t, StatusPending, tx.Status)
		assert.Zero(t, tx.Confirmations)
		assert.Nil(t, tx.ConfirmedAt)
		assert.Equal(t, fixedNow, tx.Timestamp)
		assert.Equal(t, ActionCreateBatch, tx.Action)
		assert.Equal(t, Payload{"drugName": "Paracetamol", "quantity": 500}, tx.Metadata)
		assert.Len(t, tx.Hash, 66)
		assert.Len(t, tx.BlockHash, 66)

		stored, ok := svc.GetTransaction(tx.Hash)
		require.True(t, ok)
		assert.Equal(t, tx, stored)
	})

	t.Run("should synthesize missing addresses", func(t *testing.T) {
		svc := New(WithManualConfirmation())

		tx := svc.Submit(t.Context(), ActionGrantRole, nil, "", "")

		assert.Len(t, tx.From, 42)
		assert.Len(t, tx.To, 42)
		assert.NotEqual(t, tx.From, tx.To)
		assert.NotNil(t, tx.Metadata)
	})

	t.Run("should copy the payload into metadata", func(t *testing.T) {
		svc := New(WithManualConfirmation())
		payload := Payload{"batchId": 1}

		tx := svc.Submit(t.Context(), ActionTransferToHospital, payload, "", "")
		payload["batchId"] = 2

		stored, _ := svc.GetTransaction(tx.Hash)
		assert.Equal(t, 1, stored.Metadata["batchId"])
	})

	t.Run("should assign nonces in call order", func(t *testing.T) {
		svc := New(WithManualConfirmation())

		for i := 1; i <= 5; i++ {
			tx := svc.Submit(t.Context(), ActionVerifyDrug, nil, "", "")
			assert.Equal(t, uint64(i), tx.Nonce)
		}
	})

	t.Run("should assign gap-free nonces to concurrent callers", func(t *testing.T) {
		svc := New(WithManualConfirmation())

		const callers = 50
		var wg sync.WaitGroup
		for range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				svc.Submit(context.Background(), ActionRequestDrugs, nil, "", "")
			}()
		}
		wg.Wait()

		pending := svc.PendingTransactions()
		require.Len(t, pending, callers)
		for i, tx := range pending {
			assert.Equal(t, uint64(i+1), tx.Nonce)
		}
	})

	t.Run("should schedule confirmation within the delay window", func(t *testing.T) {
		scheduler := new(captureScheduler)
		svc := New(
			WithScheduler(scheduler),
			WithConfirmationDelay(time.Second, 3*time.Second),
		)

		for range 20 {
			svc.Submit(t.Context(), ActionVerifyDrug, nil, "", "")
		}

		require.Len(t, scheduler.delays, 20)
		for _, d := range scheduler.delays {
			assert.GreaterOrEqual(t, d, time.Second)
			assert.LessOrEqual(t, d, 3*time.Second)
		}
	})

	t.Run("should use the minimum delay for an empty window", func(t *testing.T) {
		svc := New(WithConfirmationDelay(time.Second, time.Second))

		assert.Equal(t, time.Second, svc.confirmationDelay())
	})

	t.Run("should be reproducible with a seeded randomness", func(t *testing.T) {
		newSeeded := func() *service {
			return New(
				WithManualConfirmation(),
				WithClock(fixedClock),
				WithRandomness(NewRandomness(42)),
			)
		}
		a, b := newSeeded(), newSeeded()

		payload := Payload{"drugName": "Amoxicillin", "quantity": 100}
		txA := a.Submit(t.Context(), ActionCreateBatch, payload, "", "")
		txB := b.Submit(t.Context(), ActionCreateBatch, payload, "", "")

		if diff := cmp.Diff(txA, txB); diff != "" {
			t.Errorf("seeded submissions differ (-a +b):\n%s", diff)
		}
	})
}

func TestService_Confirm(t *testing.T) {
	t.Run("should promote a pending transaction", func(t *testing.T) {
		svc := New(WithManualConfirmation(), WithClock(fixedClock))
		pending := svc.Submit(t.Context(), ActionDispenseToPatient, Payload{"quantity": 2}, "", "")

		confirmed, err := svc.Confirm(t.Context(), pending.Hash)
		require.NoError(t, err)

		want := pending
		want.Status = StatusConfirmed
		want.Confirmations = 1
		want.ConfirmedAt = &fixedNow
		if diff := cmp.Diff(want, confirmed); diff != "" {
			t.Errorf("confirmed record mismatch (-want +got):\n%s", diff)
		}

		assert.Empty(t, svc.PendingTransactions())
		assert.Equal(t, []Transaction{confirmed}, svc.ConfirmedTransactions())
		assert.Equal(t, uint64(2), svc.NetworkInfo().BlockNumber)
	})

	t.Run("should keep the submission block number", func(t *testing.T) {
		svc := New(WithManualConfirmation())

		first := svc.Submit(t.Context(), ActionVerifyDrug, nil, "", "")
		_, err := svc.Confirm(t.Context(), first.Hash)
		require.NoError(t, err)

		second := svc.Submit(t.Context(), ActionVerifyDrug, nil, "", "")
		third := svc.Submit(t.Context(), ActionVerifyDrug, nil, "", "")

		confirmedThird, err := svc.Confirm(t.Context(), third.Hash)
		require.NoError(t, err)
		confirmedSecond, err := svc.Confirm(t.Context(), second.Hash)
		require.NoError(t, err)

		assert.Equal(t, uint64(1), first.BlockNumber)
		assert.Equal(t, uint64(2), confirmedSecond.BlockNumber)
		assert.Equal(t, uint64(2), confirmedThird.BlockNumber)
		assert.Equal(t, uint64(4), svc.NetworkInfo().BlockNumber)
	})

	t.Run("should not depend on confirmation order", func(t *testing.T) {
		svc := New(WithManualConfirmation())

		var hashes []string
		for range 4 {
			hashes = append(hashes, svc.Submit(t.Context(), ActionGrantRole, nil, "", "").Hash)
		}

		for _, i := range []int{2, 0, 3, 1} {
			_, err := svc.Confirm(t.Context(), hashes[i])
			require.NoError(t, err)
		}

		confirmed := svc.ConfirmedTransactions()
		require.Len(t, confirmed, 4)
		assert.Equal(t, []uint64{3, 1, 4, 2}, []uint64{
			confirmed[0].Nonce, confirmed[1].Nonce, confirmed[2].Nonce, confirmed[3].Nonce,
		})
		assert.Equal(t, uint64(5), svc.NetworkInfo().BlockNumber)
	})

	t.Run("should reject an unknown hash", func(t *testing.T) {
		svc := New(WithManualConfirmation())

		_, err := svc.Confirm(t.Context(), "0xdead")

		assert.ErrorIs(t, err, ErrTransactionNotPending)
	})

	t.Run("should reject a second confirmation", func(t *testing.T) {
		svc := New(WithManualConfirmation())
		tx := svc.Submit(t.Context(), ActionVerifyDrug, nil, "", "")

		_, err := svc.Confirm(t.Context(), tx.Hash)
		require.NoError(t, err)

		_, err = svc.Confirm(t.Context(), tx.Hash)
		assert.ErrorIs(t, err, ErrTransactionNotPending)

		stored, _ := svc.GetTransaction(tx.Hash)
		assert.Equal(t, StatusConfirmed, stored.Status)
		assert.Equal(t, uint64(2), svc.NetworkInfo().BlockNumber)
	})

	t.Run("should run from the scheduler", func(t *testing.T) {
		scheduler := new(captureScheduler)
		svc := New(WithScheduler(scheduler))

		tx := svc.Submit(t.Context(), ActionApproveRequest, nil, "", "")
		scheduler.runAll()

		stored, ok := svc.GetTransaction(tx.Hash)
		require.True(t, ok)
		assert.True(t, stored.IsConfirmed())
	})

	t.Run("should never list a transaction twice", func(t *testing.T) {
		svc := New(WithManualConfirmation())

		var hashes []string
		for range 6 {
			hashes = append(hashes, svc.Submit(t.Context(), ActionRejectRequest, nil, "", "").Hash)
		}
		for _, hash := range hashes[:3] {
			_, err := svc.Confirm(t.Context(), hash)
			require.NoError(t, err)
		}

		seen := make(map[string]Status)
		for _, tx := range svc.PendingTransactions() {
			seen[tx.Hash] = tx.Status
		}
		for _, tx := range svc.ConfirmedTransactions() {
			_, dup := seen[tx.Hash]
			assert.False(t, dup, tx.Hash)
			seen[tx.Hash] = tx.Status
		}

		assert.Len(t, seen, 6)
	})
}

func TestService_SubmitTransaction(t *testing.T) {
	t.Run("should return the confirmed transaction", func(t *testing.T) {
		svc := New(WithConfirmationDelay(0, 0))

		tx, err := svc.SubmitTransaction(t.Context(), ActionCreateBatch, Payload{"drugName": "Paracetamol", "quantity": 500}, "", "")
		require.NoError(t, err)

		assert.Equal(t, StatusConfirmed, tx.Status)
		assert.Equal(t, uint64(1), tx.Nonce)
		assert.Equal(t, uint64(1), tx.BlockNumber)
		assert.Equal(t, uint64(1), tx.Confirmations)
		assert.NotNil(t, tx.ConfirmedAt)
		assert.Equal(t, uint64(79310), tx.Gas)
		assert.Equal(t, uint64(2), svc.NetworkInfo().BlockNumber)
	})

	t.Run("should return nonces 1..N with random confirmation delays", func(t *testing.T) {
		svc := New(WithConfirmationDelay(0, 5*time.Millisecond))

		const n = 10
		nonces := make([]uint64, n)
		var wg sync.WaitGroup
		var mu sync.Mutex
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tx, err := svc.SubmitTransaction(context.Background(), ActionVerifyDrug, nil, "", "")
				assert.NoError(t, err)

				mu.Lock()
				nonces[tx.Nonce-1] = tx.Nonce
				mu.Unlock()
			}()
		}
		wg.Wait()

		for i, nonce := range nonces {
			assert.Equal(t, uint64(i+1), nonce)
		}
		assert.Equal(t, uint64(1+n), svc.NetworkInfo().BlockNumber)
	})

	t.Run("should keep confirming after the caller gives up", func(t *testing.T) {
		scheduler := new(captureScheduler)
		svc := New(WithScheduler(scheduler))

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		tx, err := svc.SubmitTransaction(ctx, ActionTransferToDistributor, nil, "", "")
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StatusPending, tx.Status)

		scheduler.runAll()

		stored, ok := svc.GetTransaction(tx.Hash)
		require.True(t, ok)
		assert.Equal(t, StatusConfirmed, stored.Status)
		assert.Equal(t, uint64(2), svc.NetworkInfo().BlockNumber)
	})

	t.Run("should release waiters on reset", func(t *testing.T) {
		svc := New(WithManualConfirmation())

		errCh := make(chan error, 1)
		go func() {
			_, err := svc.SubmitTransaction(context.Background(), ActionUpdateHealthRecord, nil, "", "")
			errCh <- err
		}()

		require.Eventually(t, func() bool {
			return len(svc.PendingTransactions()) == 1
		}, time.Second, time.Millisecond)

		svc.Reset()

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, ErrSimulatorReset)
		case <-time.After(time.Second):
			t.Fatal("waiter was not released")
		}
	})
}

func TestService_Reset(t *testing.T) {
	t.Run("should restore the initial state", func(t *testing.T) {
		scheduler := new(captureScheduler)
		svc := New(WithScheduler(scheduler))

		first := svc.Submit(t.Context(), ActionCreateBatch, nil, "", "")
		_, err := svc.Confirm(t.Context(), first.Hash)
		require.NoError(t, err)
		svc.Submit(t.Context(), ActionCreateBatch, nil, "", "")

		svc.Reset()

		assert.Empty(t, svc.PendingTransactions())
		assert.Empty(t, svc.ConfirmedTransactions())
		assert.Equal(t, uint64(1), svc.NetworkInfo().BlockNumber)

		_, ok := svc.GetTransaction(first.Hash)
		assert.False(t, ok)
	})

	t.Run("should start again from nonce 1", func(t *testing.T) {
		svc := New(WithConfirmationDelay(0, 0))

		_, err := svc.SubmitTransaction(t.Context(), ActionVerifyDrug, nil, "", "")
		require.NoError(t, err)

		svc.Reset()

		tx, err := svc.SubmitTransaction(t.Context(), ActionVerifyDrug, nil, "", "")
		require.NoError(t, err)

		assert.Equal(t, uint64(1), tx.Nonce)
		assert.Equal(t, uint64(2), svc.NetworkInfo().BlockNumber)
	})

	t.Run("should ignore confirmations scheduled before the reset", func(t *testing.T) {
		scheduler := new(captureScheduler)
		svc := New(WithScheduler(scheduler))

		svc.Submit(t.Context(), ActionVerifyDrug, nil, "", "")
		svc.Reset()
		scheduler.runAll()

		assert.Empty(t, svc.ConfirmedTransactions())
		assert.Equal(t, uint64(1), svc.NetworkInfo().BlockNumber)
	})
}
