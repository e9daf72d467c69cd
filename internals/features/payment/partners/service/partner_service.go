package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/dto"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/model"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/repository"
)

var (
	ErrPartnerNotFound = repository.ErrPartnerNotFound

	// ErrPercentageOverflow: active percentage allocations would sum past
	// 100 after the requested change.
	ErrPercentageOverflow = errors.New("active percentage allocations exceed 100")
)

// SubAccountCreator is the slice of the processor gateway the registry
// needs. The full client satisfies it.
type SubAccountCreator interface {
	CreateSubAccount(ctx context.Context, req gateway.CreateSubAccountRequest) (*gateway.SubAccountResult, error)
}

type PartnerService struct {
	store   repository.PartnerStore
	gateway SubAccountCreator
}

func NewPartnerService(store repository.PartnerStore, gw SubAccountCreator) *PartnerService {
	return &PartnerService{store: store, gateway: gw}
}

// Create registers the sub-account with the processor first and only then
// persists the partner. A failed sub-account creation leaves no local
// record behind.
func (s *PartnerService) Create(ctx context.Context, in dto.CreatePaymentPartnerRequest) (*model.PaymentPartner, error) {
	if in.PaymentPartnerAllocationType == model.AllocationTypePercentage {
		if in.PaymentPartnerAllocationValue >= 100 {
			return nil, fmt.Errorf("%w: %d", ErrPercentageOverflow, in.PaymentPartnerAllocationValue)
		}
		if err := s.checkPercentageHeadroom(ctx, uuid.Nil, in.PaymentPartnerAllocationValue); err != nil {
			return nil, err
		}
	}

	sub, err := s.gateway.CreateSubAccount(ctx, gateway.CreateSubAccountRequest{
		AccountBank:   in.PaymentPartnerBankCode,
		AccountNumber: in.PaymentPartnerAccountNumber,
		BusinessName:  in.PaymentPartnerName,
	})
	if err != nil {
		return nil, err
	}

	feeBearer := in.PaymentPartnerFeeBearer
	if feeBearer == "" {
		feeBearer = model.FeeBearerBusiness
	}
	isActive := true
	if in.PaymentPartnerIsActive != nil {
		isActive = *in.PaymentPartnerIsActive
	}

	partner := &model.PaymentPartner{
		PaymentPartnerName:            in.PaymentPartnerName,
		PaymentPartnerAccountNumber:   in.PaymentPartnerAccountNumber,
		PaymentPartnerBankCode:        in.PaymentPartnerBankCode,
		PaymentPartnerBankName:        sub.BankName,
		PaymentPartnerAllocationType:  in.PaymentPartnerAllocationType,
		PaymentPartnerAllocationValue: in.PaymentPartnerAllocationValue,
		PaymentPartnerAllocationMax:   in.PaymentPartnerAllocationMax,
		PaymentPartnerFeeBearer:       feeBearer,
		PaymentPartnerIsActive:        isActive,
		PaymentPartnerSubAccountID:    sub.SubAccountID,
	}
	if err := s.store.Create(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// Update patches allocation parameters. The processor sub-account id is
// immutable here.
func (s *PartnerService) Update(ctx context.Context, id uuid.UUID, in dto.UpdatePaymentPartnerRequest) (*model.PaymentPartner, error) {
	partner, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.PaymentPartnerName != nil {
		partner.PaymentPartnerName = *in.PaymentPartnerName
	}
	if in.PaymentPartnerAllocationType != nil {
		partner.PaymentPartnerAllocationType = *in.PaymentPartnerAllocationType
	}
	if in.PaymentPartnerAllocationValue != nil {
		partner.PaymentPartnerAllocationValue = *in.PaymentPartnerAllocationValue
	}
	if in.PaymentPartnerAllocationMax != nil {
		if *in.PaymentPartnerAllocationMax == 0 {
			partner.PaymentPartnerAllocationMax = nil // 0 clears the cap
		} else {
			partner.PaymentPartnerAllocationMax = in.PaymentPartnerAllocationMax
		}
	}
	if in.PaymentPartnerFeeBearer != nil {
		partner.PaymentPartnerFeeBearer = *in.PaymentPartnerFeeBearer
	}
	if in.PaymentPartnerIsActive != nil {
		partner.PaymentPartnerIsActive = *in.PaymentPartnerIsActive
	}

	if partner.PaymentPartnerIsActive && partner.PaymentPartnerAllocationType == model.AllocationTypePercentage {
		if partner.PaymentPartnerAllocationValue >= 100 {
			return nil, fmt.Errorf("%w: %d", ErrPercentageOverflow, partner.PaymentPartnerAllocationValue)
		}
		if err := s.checkPercentageHeadroom(ctx, partner.PaymentPartnerID, partner.PaymentPartnerAllocationValue); err != nil {
			return nil, err
		}
	}

	if err := s.store.Save(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *PartnerService) Get(ctx context.Context, id uuid.UUID) (*model.PaymentPartner, error) {
	return s.store.GetByID(ctx, id)
}

func (s *PartnerService) List(ctx context.Context) ([]model.PaymentPartner, error) {
	return s.store.List(ctx)
}

// ListActive feeds the split allocator before a debit.
func (s *PartnerService) ListActive(ctx context.Context) ([]model.PaymentPartner, error) {
	return s.store.ListActive(ctx)
}

func (s *PartnerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// checkPercentageHeadroom enforces the partner-set invariant: active
// percentage allocations never sum past 100. exclude skips the partner
// being updated.
func (s *PartnerService) checkPercentageHeadroom(ctx context.Context, exclude uuid.UUID, candidate int64) error {
	active, err := s.store.ListActive(ctx)
	if err != nil {
		return err
	}
	total := candidate
	for _, p := range active {
		if p.PaymentPartnerID == exclude {
			continue
		}
		if p.PaymentPartnerAllocationType == model.AllocationTypePercentage {
			total += p.PaymentPartnerAllocationValue
		}
	}
	if total > 100 {
		return fmt.Errorf("%w: %d", ErrPercentageOverflow, total)
	}
	return nil
}
