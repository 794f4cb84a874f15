package supplychain

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/gabapcia/medchain/internal/pkg/logger"
	"github.com/gabapcia/medchain/internal/pkg/validator"
	"github.com/gabapcia/medchain/internal/txsim"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// operation describes one supply-chain call: how it is validated, what it
// submits and what the user is told along the way.
type operation struct {
	action  txsim.Action
	payload txsim.Payload
	to      string

	// input is validated with the validator package when set.
	input any

	// precheck runs after validation and before submission.
	precheck func() error

	pendingMessage string
	failureMessage string
}

// execute checks the wallet, validates, notifies pending and submits. On
// error it has already sent the error notification.
func (s *service) execute(ctx context.Context, op operation) (context.Context, string, txsim.Transaction, error) {
	account, ok := s.Account()
	if !ok {
		s.notify(ctx, op.failureMessage, NotificationError, nil, ErrWalletNotConnected)
		return ctx, "", txsim.Transaction{}, ErrWalletNotConnected
	}

	ctx = logger.Derive(ctx, "account", account, "tx.action", op.action)

	if op.input != nil {
		if err := validator.Validate(op.input); err != nil {
			s.notify(ctx, op.failureMessage, NotificationError, nil, err)
			return ctx, account, txsim.Transaction{}, err
		}
	}

	if op.precheck != nil {
		if err := op.precheck(); err != nil {
			s.notify(ctx, op.failureMessage, NotificationError, nil, err)
			return ctx, account, txsim.Transaction{}, err
		}
	}

	s.notify(ctx, op.pendingMessage, NotificationPending, nil, nil)

	tx, err := s.simulator.SubmitTransaction(ctx, op.action, op.payload, account, op.to)
	if err != nil {
		s.notify(ctx, op.failureMessage, NotificationError, nil, err)
		return ctx, account, tx, fmt.Errorf("failed to submit %s transaction: %w", op.action, err)
	}

	return ctx, account, tx, nil
}

type createBatchInput struct {
	DrugName          string    `validate:"required"`
	Quantity          uint64    `validate:"gt=0"`
	ManufacturingDate time.Time `validate:"required"`
	ExpiryDate        time.Time `validate:"required,gtfield=ManufacturingDate"`
}

// CreateDrugBatch mints a batch held by its manufacturer, the active account.
// A zero manufacturingDate means now.
func (s *service) CreateDrugBatch(ctx context.Context, drugName string, quantity uint64, expiryDate, manufacturingDate time.Time) (Batch, txsim.Transaction, error) {
	if manufacturingDate.IsZero() {
		manufacturingDate = s.now()
	}

	ctx, account, tx, err := s.execute(ctx, operation{
		action: txsim.ActionCreateBatch,
		payload: txsim.Payload{
			"drugName":          drugName,
			"quantity":          quantity,
			"expiryDate":        expiryDate.Unix(),
			"manufacturingDate": manufacturingDate.Unix(),
		},
		input: createBatchInput{
			DrugName:          drugName,
			Quantity:          quantity,
			ManufacturingDate: manufacturingDate,
			ExpiryDate:        expiryDate,
		},
		pendingMessage: "Creating drug batch on blockchain...",
		failureMessage: "Failed to create drug batch",
	})
	if err != nil {
		return Batch{}, tx, err
	}

	batch := Batch{
		DrugName:          drugName,
		Manufacturer:      account,
		CurrentHolder:     account,
		Quantity:          quantity,
		ExpiryDate:        time.Unix(expiryDate.Unix(), 0).UTC(),
		ManufacturingDate: time.Unix(manufacturingDate.Unix(), 0).UTC(),
		Status:            BatchAvailable,
		MerkleRoot:        s.randomHex(32),
		IPFSHash:          "Qm" + s.randomHex(22)[2:],
		CreatedAt:         s.now(),
		TransactionHash:   tx.Hash,
	}

	s.mu.Lock()
	s.nextBatchID++
	batch.ID = s.nextBatchID
	s.batches = slices.Insert(s.batches, 0, batch)
	s.mu.Unlock()

	s.notify(ctx, fmt.Sprintf("Drug batch %q created successfully!", drugName), NotificationSuccess, &tx, nil)
	return batch, tx, nil
}

func (s *service) randomHex(n int) string {
	b := make([]byte, n)
	s.randomness.Read(b)
	return hexutil.Encode(b)
}

type transferInput struct {
	BatchID   uint64 `validate:"gt=0"`
	Recipient string `validate:"required,eth_addr"`
}

func (s *service) TransferToDistributor(ctx context.Context, batchID uint64, distributor string) (txsim.Transaction, error) {
	ctx, _, tx, err := s.execute(ctx, operation{
		action: txsim.ActionTransferToDistributor,
		payload: txsim.Payload{
			"batchId":            batchID,
			"distributorAddress": distributor,
		},
		to:             distributor,
		input:          transferInput{BatchID: batchID, Recipient: distributor},
		pendingMessage: "Transferring batch to distributor...",
		failureMessage: "Failed to transfer batch",
	})
	if err != nil {
		return tx, err
	}

	s.updateBatch(batchID, func(b *Batch) {
		b.CurrentHolder = distributor
		b.Status = BatchInTransit
	})

	s.notify(ctx, fmt.Sprintf("Batch #%d transferred to distributor successfully!", batchID), NotificationSuccess, &tx, nil)
	return tx, nil
}

func (s *service) TransferToHospital(ctx context.Context, batchID uint64, hospital string) (txsim.Transaction, error) {
	ctx, _, tx, err := s.execute(ctx, operation{
		action: txsim.ActionTransferToHospital,
		payload: txsim.Payload{
			"batchId":         batchID,
			"hospitalAddress": hospital,
		},
		to:             hospital,
		input:          transferInput{BatchID: batchID, Recipient: hospital},
		pendingMessage: "Transferring batch to hospital...",
		failureMessage: "Failed to transfer batch to hospital",
	})
	if err != nil {
		return tx, err
	}

	s.updateBatch(batchID, func(b *Batch) {
		b.CurrentHolder = hospital
		b.Status = BatchDelivered
	})

	s.notify(ctx, fmt.Sprintf("Batch #%d transferred to hospital successfully!", batchID), NotificationSuccess, &tx, nil)
	return tx, nil
}

type dispenseInput struct {
	BatchID  uint64 `validate:"gt=0"`
	Patient  string `validate:"required,eth_addr"`
	Quantity uint64 `validate:"gt=0"`
}

// DispenseToPatient lowers the batch quantity, never below zero.
func (s *service) DispenseToPatient(ctx context.Context, batchID uint64, patient string, quantity uint64) (txsim.Transaction, error) {
	ctx, _, tx, err := s.execute(ctx, operation{
		action: txsim.ActionDispenseToPatient,
		payload: txsim.Payload{
			"batchId":        batchID,
			"patientAddress": patient,
			"quantity":       quantity,
		},
		to:             patient,
		input:          dispenseInput{BatchID: batchID, Patient: patient, Quantity: quantity},
		pendingMessage: "Dispensing medication to patient...",
		failureMessage: "Failed to dispense medication",
	})
	if err != nil {
		return tx, err
	}

	s.updateBatch(batchID, func(b *Batch) {
		b.Quantity -= min(b.Quantity, quantity)
	})

	s.notify(ctx, fmt.Sprintf("%d units dispensed to patient successfully!", quantity), NotificationSuccess, &tx, nil)
	return tx, nil
}

// updateBatch applies fn to the batch with id; unknown ids are ignored.
func (s *service) updateBatch(id uint64, fn func(*Batch)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.batches {
		if s.batches[i].ID == id {
			fn(&s.batches[i])
			return
		}
	}
}

type verifyInput struct {
	BatchID uint64   `validate:"gt=0"`
	Leaf    string   `validate:"required"`
	Proof   []string `validate:"dive,required"`
}

// validVerificationsPerTen is how many verifications out of ten succeed.
const validVerificationsPerTen = 9

// VerifyDrug submits a Merkle proof check. The outcome is simulated and a
// counterfeit result is reported as an error notification, not as an error.
func (s *service) VerifyDrug(ctx context.Context, batchID uint64, leaf string, proof []string) (VerificationResult, error) {
	ctx, _, tx, err := s.execute(ctx, operation{
		action: txsim.ActionVerifyDrug,
		payload: txsim.Payload{
			"batchId": batchID,
			"leaf":    leaf,
			"proof":   slices.Clone(proof),
		},
		input:          verifyInput{BatchID: batchID, Leaf: leaf, Proof: proof},
		pendingMessage: "Verifying drug authenticity...",
		failureMessage: "Drug verification failed",
	})
	if err != nil {
		return VerificationResult{Transaction: tx}, err
	}

	result := VerificationResult{
		Valid:       s.randomness.Uint64n(10) < validVerificationsPerTen,
		Transaction: tx,
	}

	if result.Valid {
		s.notify(ctx, "Drug verification successful! Authentic medication.", NotificationSuccess, &tx, nil)
	} else {
		s.notify(ctx, "Drug verification failed! Counterfeit detected.", NotificationError, &tx, nil)
	}

	return result, nil
}

type grantRoleInput struct {
	Role    Role   `validate:"required,oneof=ADMIN MANUFACTURER DISTRIBUTOR HOSPITAL PATIENT"`
	Address string `validate:"required,eth_addr"`
}

func (s *service) GrantRole(ctx context.Context, role Role, address string) (txsim.Transaction, error) {
	ctx, _, tx, err := s.execute(ctx, operation{
		action: txsim.ActionGrantRole,
		payload: txsim.Payload{
			"role":    string(role),
			"address": address,
		},
		input:          grantRoleInput{Role: role, Address: address},
		pendingMessage: fmt.Sprintf("Granting %s role...", role),
		failureMessage: "Failed to grant role",
	})
	if err != nil {
		return tx, err
	}

	s.notify(ctx, fmt.Sprintf("%s role granted successfully!", role), NotificationSuccess, &tx, nil)
	return tx, nil
}

type requestDrugsInput struct {
	Distributor string `validate:"required,eth_addr"`
	BatchID     uint64 `validate:"gt=0"`
	Quantity    uint64 `validate:"gt=0"`
	Reason      string `validate:"required"`
}

func (s *service) RequestDrugs(ctx context.Context, distributor string, batchID, quantity uint64, reason string) (DrugRequest, txsim.Transaction, error) {
	ctx, account, tx, err := s.execute(ctx, operation{
		action: txsim.ActionRequestDrugs,
		payload: txsim.Payload{
			"distributorAddress": distributor,
			"batchId":            batchID,
			"quantity":           quantity,
			"reason":             reason,
		},
		to: distributor,
		input: requestDrugsInput{
			Distributor: distributor,
			BatchID:     batchID,
			Quantity:    quantity,
			Reason:      reason,
		},
		pendingMessage: "Submitting drug request...",
		failureMessage: "Failed to submit drug request",
	})
	if err != nil {
		return DrugRequest{}, tx, err
	}

	request := DrugRequest{
		Requester:       account,
		Distributor:     distributor,
		BatchID:         batchID,
		Quantity:        quantity,
		Reason:          reason,
		Status:          RequestPending,
		TransactionHash: tx.Hash,
	}

	s.mu.Lock()
	s.nextRequestID++
	request.ID = s.nextRequestID
	s.requests = append(s.requests, request)
	s.mu.Unlock()

	s.notify(ctx, "Drug request submitted successfully!", NotificationSuccess, &tx, nil)
	return request, tx, nil
}

type resolveRequestInput struct {
	RequestID uint64 `validate:"gt=0"`
}

func (s *service) ApproveRequest(ctx context.Context, requestID uint64) (txsim.Transaction, error) {
	return s.resolveRequest(ctx, requestID, RequestApproved, operation{
		action:         txsim.ActionApproveRequest,
		pendingMessage: "Approving drug request...",
		failureMessage: "Failed to approve request",
	}, "Drug request approved successfully!")
}

func (s *service) RejectRequest(ctx context.Context, requestID uint64) (txsim.Transaction, error) {
	return s.resolveRequest(ctx, requestID, RequestRejected, operation{
		action:         txsim.ActionRejectRequest,
		pendingMessage: "Rejecting drug request...",
		failureMessage: "Failed to reject request",
	}, "Drug request rejected successfully!")
}

func (s *service) resolveRequest(ctx context.Context, requestID uint64, status RequestStatus, op operation, successMessage string) (txsim.Transaction, error) {
	op.payload = txsim.Payload{"requestId": requestID}
	op.input = resolveRequestInput{RequestID: requestID}
	op.precheck = func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		_, err := s.pendingRequest(requestID)
		return err
	}

	ctx, _, tx, err := s.execute(ctx, op)
	if err != nil {
		return tx, err
	}

	s.mu.Lock()
	request, err := s.pendingRequest(requestID)
	if err == nil {
		request.Status = status
	}
	s.mu.Unlock()

	if err != nil {
		s.notify(ctx, op.failureMessage, NotificationError, &tx, err)
		return tx, err
	}

	s.notify(ctx, successMessage, NotificationSuccess, &tx, nil)
	return tx, nil
}

// pendingRequest must be called with s.mu held.
func (s *service) pendingRequest(id uint64) (*DrugRequest, error) {
	i := slices.IndexFunc(s.requests, func(r DrugRequest) bool { return r.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: #%d", ErrRequestNotFound, id)
	}

	if s.requests[i].Status != RequestPending {
		return nil, fmt.Errorf("%w: #%d is %s", ErrRequestNotPending, id, s.requests[i].Status)
	}

	return &s.requests[i], nil
}

type healthRecordInput struct {
	Patient    string `validate:"required,eth_addr"`
	RecordHash string `validate:"required"`
}

func (s *service) UpdateHealthRecord(ctx context.Context, patient, recordHash string) (txsim.Transaction, error) {
	ctx, _, tx, err := s.execute(ctx, operation{
		action: txsim.ActionUpdateHealthRecord,
		payload: txsim.Payload{
			"patientAddress": patient,
			"recordHash":     recordHash,
		},
		to:             patient,
		input:          healthRecordInput{Patient: patient, RecordHash: recordHash},
		pendingMessage: "Updating patient health record...",
		failureMessage: "Failed to update health record",
	})
	if err != nil {
		return tx, err
	}

	s.notify(ctx, "Health record updated successfully!", NotificationSuccess, &tx, nil)
	return tx, nil
}

type expiredDrugInput struct {
	BatchID uint64 `validate:"gt=0"`
	Reason  string `validate:"required"`
}

func (s *service) ReportExpiredDrug(ctx context.Context, batchID uint64, reason string) (txsim.Transaction, error) {
	ctx, _, tx, err := s.execute(ctx, operation{
		action: txsim.ActionReportExpiredDrug,
		payload: txsim.Payload{
			"batchId": batchID,
			"reason":  reason,
		},
		input:          expiredDrugInput{BatchID: batchID, Reason: reason},
		pendingMessage: "Reporting expired drug...",
		failureMessage: "Failed to report expired drug",
	})
	if err != nil {
		return tx, err
	}

	s.notify(ctx, fmt.Sprintf("Expired drug reported for batch #%d", batchID), NotificationWarning, &tx, nil)
	return tx, nil
}
