package txsim

import (
	"unicode/utf16"

	"github.com/holiman/uint256"
)

const (
	// baseGas is the intrinsic cost charged to every transaction.
	baseGas uint64 = 21000

	// defaultActionGas is charged on top of baseGas for actions outside the table.
	defaultActionGas uint64 = 30000

	// drugNameGasPerChar is the extra CREATE_BATCH cost per drug name character.
	drugNameGasPerChar uint64 = 100
)

var actionGas = map[Action]uint64{
	ActionCreateBatch:           50000,
	ActionTransferToDistributor: 30000,
	ActionTransferToHospital:    30000,
	ActionDispenseToPatient:     40000,
	ActionVerifyDrug:            25000,
	ActionGrantRole:             35000,
	ActionRequestDrugs:          45000,
	ActionApproveRequest:        30000,
	ActionRejectRequest:         25000,
	ActionUpdateHealthRecord:    60000,
	ActionReportExpiredDrug:     40000,
}

// GasEstimate is the pre-flight cost of an action.
type GasEstimate struct {
	GasUsed              uint64 `json:"gasUsed"`
	GasLimit             uint64 `json:"gasLimit"`
	GasPrice             uint64 `json:"gasPrice"`
	MaxPriorityFeePerGas uint64 `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         uint64 `json:"maxFeePerGas"`
	EstimatedCost        string `json:"estimatedCost"` // wei, decimal
}

// calculateGasUsed is a pure function of action and payload.
func calculateGasUsed(action Action, payload Payload) uint64 {
	extra, ok := actionGas[action]
	if !ok {
		extra = defaultActionGas
	}

	gas := baseGas + extra
	if action == ActionCreateBatch {
		drugName, _ := payload["drugName"].(string)
		gas += drugNameGasPerChar * uint64(len(utf16.Encode([]rune(drugName))))
	}

	return gas
}

// transactionGas adds the 10% buffer recorded on submitted transactions.
func transactionGas(gasUsed uint64) uint64 {
	return gasUsed + gasUsed/10
}

// estimateGasLimit adds the 20% buffer used for estimates.
func estimateGasLimit(gasUsed uint64) uint64 {
	return gasUsed + gasUsed/5
}

func estimate(action Action, payload Payload, fees FeeSchedule) GasEstimate {
	used := calculateGasUsed(action, payload)
	limit := estimateGasLimit(used)

	cost := new(uint256.Int).Mul(uint256.NewInt(limit), uint256.NewInt(fees.GasPrice))

	return GasEstimate{
		GasUsed:              used,
		GasLimit:             limit,
		GasPrice:             fees.GasPrice,
		MaxPriorityFeePerGas: fees.MaxPriorityFeePerGas,
		MaxFeePerGas:         fees.MaxFeePerGas,
		EstimatedCost:        cost.Dec(),
	}
}
