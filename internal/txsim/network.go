package txsim

import "github.com/gabapcia/medchain/internal/pkg/types"

// Network is the static identity of the simulated chain.
type Network struct {
	ChainID   types.Hex `json:"chainId"`
	NetworkID uint64    `json:"networkId"`
	Name      string    `json:"name"`
}

// FeeSchedule holds the per-gas fee parameters, in wei, stamped on every
// transaction and estimate.
type FeeSchedule struct {
	GasPrice             uint64 `json:"gasPrice"`
	MaxPriorityFeePerGas uint64 `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         uint64 `json:"maxFeePerGas"`
}

type NetworkInfo struct {
	Network
	FeeSchedule
	BlockNumber uint64 `json:"blockNumber"`
}

type NetworkStatus struct {
	Connected           bool   `json:"connected"`
	Syncing             bool   `json:"syncing"`
	PeerCount           uint64 `json:"peerCount"`
	LatestBlock         uint64 `json:"latestBlock"`
	PendingTransactions int    `json:"pendingTransactions"`
}
