package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	helper "github.com/ibnlanre/laumga-sub000/internals/helpers"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/dto"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/model"
	partnerService "github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/service"
)

// Debit executes one charge against the mandate's active token and splits
// the proceeds across the active payment partners.
//
// The partner set is read once before the charge; a partner deactivated
// between that read and the charge still participates in this one split.
// That drift is accepted — debits take no distributed lock.
//
// A split that cannot be built (no partners, over-allocation) blocks the
// charge entirely: the processor is never instructed to charge with a
// partial or invalid split.
func (s *MandateService) Debit(ctx context.Context, userID uuid.UUID, in dto.DebitMandateRequest) (*model.MandateTransaction, error) {
	m, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m.MandateProcessorToken == nil || *m.MandateProcessorToken == "" ||
		m.MandateProcessorStatus != gateway.TokenStatusActive {
		return nil, ErrMandateNotChargeable
	}

	amount := m.MandateAmount
	if in.Amount != nil {
		amount = *in.Amount
	}

	partners, err := s.partners.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	split, err := partnerService.BuildSplit(partners, amount)
	if err != nil {
		return nil, err
	}

	txRef := helper.GenerateReference("DEBIT", m.MandateID.String())
	narration := fmt.Sprintf("LAUMGA %s debit", m.MandateFrequency)
	if in.Narration != nil && *in.Narration != "" {
		narration = *in.Narration
	}

	res, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		Token:     *m.MandateProcessorToken,
		Email:     m.MandateEmail,
		Amount:    amount,
		TxRef:     txRef,
		Type:      "account",
		Currency:  s.currency,
		Narration: narration,
		Split:     split,
	})
	if err != nil {
		if gateway.IsRejected(err) {
			// The processor refused the charge outright; keep the failed
			// attempt in the history.
			tx := s.buildTransaction(m, split, amount, txRef, "", model.TransactionStatusFailed)
			if createErr := s.txStore.Create(ctx, tx); createErr != nil {
				return nil, fmt.Errorf("record failed debit: %w (charge error: %v)", createErr, err)
			}
		}
		// Unavailable: the outcome is unknown and nothing is recorded. A
		// retry generates a fresh reference, so a charge that did land
		// surfaces as a clearly distinguishable duplicate on settlement
		// reconciliation rather than a silent double debit.
		return nil, err
	}

	tx := s.buildTransaction(m, split, amount, txRef, res.ID, chargeStatus(res.Status))
	if err := s.txStore.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("charge executed but recording failed: %w", err)
	}
	return tx, nil
}

func (s *MandateService) buildTransaction(m *model.Mandate, split *gateway.SplitConfig, amount int64, txRef, processorID, status string) *model.MandateTransaction {
	clientAmount := partnerService.AllocatedAmount(split, amount)

	tx := &model.MandateTransaction{
		MandateTransactionID:           ulid.Make().String(),
		MandateTransactionMandateID:    m.MandateID,
		MandateTransactionUserID:       m.MandateUserID,
		MandateTransactionAmount:       amount,
		MandateTransactionPlatformFee:  amount - clientAmount,
		MandateTransactionClientAmount: clientAmount,
		MandateTransactionReference:    txRef,
		MandateTransactionProcessorID:  processorID,
		MandateTransactionStatus:       status,
	}
	if status == model.TransactionStatusSuccessful {
		now := s.now()
		tx.MandateTransactionPaidAt = &now
	}
	return tx
}

func chargeStatus(processorStatus string) string {
	switch strings.ToLower(processorStatus) {
	case "successful", "success":
		return model.TransactionStatusSuccessful
	case "failed", "error":
		return model.TransactionStatusFailed
	default:
		return model.TransactionStatusProcessing
	}
}
