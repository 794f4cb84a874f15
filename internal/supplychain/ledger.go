package supplychain

import (
	"time"

	"github.com/gabapcia/medchain/internal/txsim"
)

type BatchStatus string

const (
	BatchAvailable BatchStatus = "available"
	BatchInTransit BatchStatus = "in-transit"
	BatchDelivered BatchStatus = "delivered"
)

// Batch is a manufactured lot of a single drug tracked through the chain.
type Batch struct {
	ID                uint64      `json:"id"`
	DrugName          string      `json:"drugName"`
	Manufacturer      string      `json:"manufacturer"`
	CurrentHolder     string      `json:"currentHolder"`
	Quantity          uint64      `json:"quantity"`
	ExpiryDate        time.Time   `json:"expiryDate"`
	ManufacturingDate time.Time   `json:"manufacturingDate"`
	Status            BatchStatus `json:"status"`
	MerkleRoot        string      `json:"merkleRoot"`
	IPFSHash          string      `json:"ipfsHash"`
	CreatedAt         time.Time   `json:"createdAt"`
	TransactionHash   string      `json:"transactionHash"`
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// DrugRequest is a hospital asking a distributor for units of a batch.
type DrugRequest struct {
	ID              uint64        `json:"id"`
	Requester       string        `json:"requester"`
	Distributor     string        `json:"distributor"`
	BatchID         uint64        `json:"batchId"`
	Quantity        uint64        `json:"quantity"`
	Reason          string        `json:"reason"`
	Status          RequestStatus `json:"status"`
	TransactionHash string        `json:"transactionHash"`
}

// Role is an access-control role granted on the supply-chain contract.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleManufacturer Role = "MANUFACTURER"
	RoleDistributor  Role = "DISTRIBUTOR"
	RoleHospital     Role = "HOSPITAL"
	RolePatient      Role = "PATIENT"
)

// VerificationResult is the outcome of VerifyDrug. Valid is simulated.
type VerificationResult struct {
	Valid       bool              `json:"valid"`
	Transaction txsim.Transaction `json:"transaction"`
}
