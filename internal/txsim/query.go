package txsim

import (
	"cmp"
	"slices"

	"github.com/holiman/uint256"
)

const (
	// minBalance is 0.1 ether in wei.
	minBalance uint64 = 100_000_000_000_000_000

	// balanceSpread keeps balances below 10 ether.
	balanceSpread uint64 = 9_900_000_000_000_000_000

	maxPeerCount uint64 = 10
)

func (s *service) EstimateGas(action Action, payload Payload) GasEstimate {
	return estimate(action, payload, s.fees)
}

func (s *service) GetTransaction(hash string) (Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx, ok := s.pending[hash]; ok {
		return tx.clone(), true
	}

	if tx, ok := s.confirmed[hash]; ok {
		return tx.clone(), true
	}

	return Transaction{}, false
}

func (s *service) PendingTransactions() []Transaction {
	s.mu.Lock()
	txs := make([]Transaction, 0, len(s.pending))
	for _, tx := range s.pending {
		txs = append(txs, tx.clone())
	}
	s.mu.Unlock()

	slices.SortFunc(txs, func(a, b Transaction) int {
		return cmp.Compare(a.Nonce, b.Nonce)
	})

	return txs
}

func (s *service) ConfirmedTransactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := make([]Transaction, 0, len(s.confirmedOrder))
	for _, hash := range s.confirmedOrder {
		txs = append(txs, s.confirmed[hash].clone())
	}

	return txs
}

func (s *service) NetworkInfo() NetworkInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return NetworkInfo{
		Network:     s.network,
		FeeSchedule: s.fees,
		BlockNumber: s.blockHeight,
	}
}

func (s *service) NetworkStatus() NetworkStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return NetworkStatus{
		Connected:           true,
		Syncing:             false,
		PeerCount:           1 + s.randomness.Uint64n(maxPeerCount),
		LatestBlock:         s.blockHeight,
		PendingTransactions: len(s.pending),
	}
}

// Balance ignores address; the amount is cosmetic.
func (s *service) Balance(address string) *uint256.Int {
	return uint256.NewInt(minBalance + s.randomness.Uint64n(balanceSpread))
}
