package txsim

import (
	"maps"
	"time"

	"github.com/gabapcia/medchain/internal/pkg/types"
)

// Status is the lifecycle state of a simulated transaction. The only
// transition is StatusPending -> StatusConfirmed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// Action tags the supply-chain operation a transaction represents.
type Action string

const (
	ActionCreateBatch           Action = "CREATE_BATCH"
	ActionTransferToDistributor Action = "TRANSFER_TO_DISTRIBUTOR"
	ActionTransferToHospital    Action = "TRANSFER_TO_HOSPITAL"
	ActionDispenseToPatient     Action = "DISPENSE_TO_PATIENT"
	ActionVerifyDrug            Action = "VERIFY_DRUG"
	ActionGrantRole             Action = "GRANT_ROLE"
	ActionRequestDrugs          Action = "REQUEST_DRUGS"
	ActionApproveRequest        Action = "APPROVE_REQUEST"
	ActionRejectRequest         Action = "REJECT_REQUEST"
	ActionUpdateHealthRecord    Action = "UPDATE_HEALTH_RECORD"
	ActionReportExpiredDrug     Action = "REPORT_EXPIRED_DRUG"
)

var knownActions = types.NewSet(
	ActionCreateBatch,
	ActionTransferToDistributor,
	ActionTransferToHospital,
	ActionDispenseToPatient,
	ActionVerifyDrug,
	ActionGrantRole,
	ActionRequestDrugs,
	ActionApproveRequest,
	ActionRejectRequest,
	ActionUpdateHealthRecord,
	ActionReportExpiredDrug,
)

// Known reports whether a belongs to the supply-chain action vocabulary.
// Unknown actions are still accepted by the simulator and charged the default
// gas rate.
func (a Action) Known() bool {
	return knownActions.Has(a)
}

// Actions returns the action vocabulary in lexical order.
func Actions() []Action {
	return types.SortedSlice(knownActions)
}

// Payload is the caller-supplied description of an operation. It is copied
// into Transaction.Metadata untouched.
type Payload map[string]any

// Transaction is a simulated ledger transaction record.
type Transaction struct {
	Hash                 string     `json:"hash"`
	BlockNumber          uint64     `json:"blockNumber"`
	BlockHash            string     `json:"blockHash"`
	From                 string     `json:"from"`
	To                   string     `json:"to"`
	Gas                  uint64     `json:"gas"`
	GasUsed              uint64     `json:"gasUsed"`
	GasPrice             uint64     `json:"gasPrice"`
	MaxPriorityFeePerGas uint64     `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         uint64     `json:"maxFeePerGas"`
	Value                string     `json:"value"`
	Nonce                uint64     `json:"nonce"`
	Data                 string     `json:"data"`
	Status               Status     `json:"status"`
	Confirmations        uint64     `json:"confirmations"`
	Timestamp            time.Time  `json:"timestamp"`
	ConfirmedAt          *time.Time `json:"confirmedAt,omitempty"`
	Action               Action     `json:"action"`
	Metadata             Payload    `json:"metadata"`
}

// IsConfirmed reports whether the transaction has been confirmed.
func (t Transaction) IsConfirmed() bool {
	return t.Status == StatusConfirmed
}

// clone returns a copy that shares no mutable state with t.
func (t Transaction) clone() Transaction {
	t.Metadata = maps.Clone(t.Metadata)
	if t.ConfirmedAt != nil {
		confirmedAt := *t.ConfirmedAt
		t.ConfirmedAt = &confirmedAt
	}

	return t
}
