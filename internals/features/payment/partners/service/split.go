package service

import (
	"errors"
	"fmt"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/model"
)

var (
	// ErrNoActivePartners: a split cannot be built from an empty partner
	// set; the charge must be blocked, not sent unsplit.
	ErrNoActivePartners = errors.New("no active payment partners to split against")

	// ErrOverAllocation: the computed distribution exceeds the amount
	// being charged.
	ErrOverAllocation = errors.New("partner allocations exceed the charge amount")
)

/* =========================================================
   Split Allocator

   Pure and deterministic: runs before any external call and
   is unit-testable without network access. The partner list
   it receives may already be stale by the time the charge
   executes (a partner deactivated in between) — that drift
   is accepted; there is no distributed lock around debits.
========================================================= */

// BuildSplit turns the active partner set and a total charge amount (kobo)
// into a processor split configuration.
//
// Type resolution: any fixed-allocation partner forces a fixed split; the
// percentage partners' shares are then computed against the total and
// carried as fixed line items for that charge. Fee bearer: unanimous or
// business.
func BuildSplit(partners []model.PaymentPartner, totalAmount int64) (*gateway.SplitConfig, error) {
	if len(partners) == 0 {
		return nil, ErrNoActivePartners
	}
	if totalAmount <= 0 {
		return nil, fmt.Errorf("split total must be positive, got %d", totalAmount)
	}

	splitType := gateway.SplitTypePercentage
	for _, p := range partners {
		if p.PaymentPartnerAllocationType == model.AllocationTypeFixed {
			splitType = gateway.SplitTypeFixed
			break
		}
	}

	cfg := &gateway.SplitConfig{
		Type:        splitType,
		FeeBearer:   resolveFeeBearer(partners),
		SubAccounts: make([]gateway.SplitItem, 0, len(partners)),
	}

	var allocated int64
	var percentTotal int64
	for _, p := range partners {
		var value int64
		switch splitType {
		case gateway.SplitTypePercentage:
			// Raw percentage; the processor applies it to the total.
			value = p.PaymentPartnerAllocationValue
			percentTotal += value
		case gateway.SplitTypeFixed:
			if p.PaymentPartnerAllocationType == model.AllocationTypePercentage {
				value = roundShare(p.PaymentPartnerAllocationValue, totalAmount)
			} else {
				value = p.PaymentPartnerAllocationValue
			}
			if p.PaymentPartnerAllocationMax != nil && value > *p.PaymentPartnerAllocationMax {
				value = *p.PaymentPartnerAllocationMax
			}
			allocated += value
		}
		cfg.SubAccounts = append(cfg.SubAccounts, gateway.SplitItem{
			SubAccountID: p.PaymentPartnerSubAccountID,
			Value:        value,
		})
	}

	if splitType == gateway.SplitTypeFixed && allocated > totalAmount {
		return nil, fmt.Errorf("%w: %d allocated of %d", ErrOverAllocation, allocated, totalAmount)
	}
	if splitType == gateway.SplitTypePercentage && percentTotal > 100 {
		return nil, fmt.Errorf("%w: %d%% allocated", ErrOverAllocation, percentTotal)
	}

	return cfg, nil
}

// AllocatedAmount returns how much of totalAmount the split hands to
// sub-accounts; the remainder stays with the platform.
func AllocatedAmount(cfg *gateway.SplitConfig, totalAmount int64) int64 {
	var sum int64
	for _, item := range cfg.SubAccounts {
		if cfg.Type == gateway.SplitTypePercentage {
			sum += roundShare(item.Value, totalAmount)
		} else {
			sum += item.Value
		}
	}
	if sum > totalAmount {
		return totalAmount
	}
	return sum
}

// roundShare computes round(percent/100 * total) in integer arithmetic
// (half up) so the allocator stays deterministic across platforms.
func roundShare(percent, total int64) int64 {
	return (percent*total + 50) / 100
}

func resolveFeeBearer(partners []model.PaymentPartner) string {
	bearer := partners[0].PaymentPartnerFeeBearer
	for _, p := range partners[1:] {
		if p.PaymentPartnerFeeBearer != bearer {
			return gateway.FeeBearerBusiness
		}
	}
	if bearer == "" {
		return gateway.FeeBearerBusiness
	}
	return bearer
}
