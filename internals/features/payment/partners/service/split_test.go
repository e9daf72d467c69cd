package service

import (
	"errors"
	"testing"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/model"
)

func pct(subID string, value int64, bearer string) model.PaymentPartner {
	return model.PaymentPartner{
		PaymentPartnerSubAccountID:    subID,
		PaymentPartnerAllocationType:  model.AllocationTypePercentage,
		PaymentPartnerAllocationValue: value,
		PaymentPartnerFeeBearer:       bearer,
		PaymentPartnerIsActive:        true,
	}
}

func fixed(subID string, value int64, max *int64, bearer string) model.PaymentPartner {
	return model.PaymentPartner{
		PaymentPartnerSubAccountID:    subID,
		PaymentPartnerAllocationType:  model.AllocationTypeFixed,
		PaymentPartnerAllocationValue: value,
		PaymentPartnerAllocationMax:   max,
		PaymentPartnerFeeBearer:       bearer,
		PaymentPartnerIsActive:        true,
	}
}

func int64p(v int64) *int64 { return &v }

func TestBuildSplit_EmptySet(t *testing.T) {
	if _, err := BuildSplit(nil, 500_000); !errors.Is(err, ErrNoActivePartners) {
		t.Fatalf("want ErrNoActivePartners, got %v", err)
	}
}

func TestBuildSplit_NonPositiveTotal(t *testing.T) {
	partners := []model.PaymentPartner{pct("RS_1", 10, model.FeeBearerBusiness)}
	if _, err := BuildSplit(partners, 0); err == nil {
		t.Fatal("want error for zero total, got nil")
	}
}

func TestBuildSplit_AllPercentage(t *testing.T) {
	partners := []model.PaymentPartner{
		pct("RS_1", 10, model.FeeBearerBusiness),
		pct("RS_2", 25, model.FeeBearerBusiness),
	}

	cfg, err := BuildSplit(partners, 1_000_000)
	if err != nil {
		t.Fatalf("BuildSplit: %v", err)
	}
	if cfg.Type != gateway.SplitTypePercentage {
		t.Errorf("type = %q, want percentage", cfg.Type)
	}
	if len(cfg.SubAccounts) != 2 {
		t.Fatalf("sub accounts = %d, want 2", len(cfg.SubAccounts))
	}
	// Percentage splits carry the raw percentage; the processor applies it.
	if cfg.SubAccounts[0].Value != 10 || cfg.SubAccounts[1].Value != 25 {
		t.Errorf("values = %d, %d; want 10, 25", cfg.SubAccounts[0].Value, cfg.SubAccounts[1].Value)
	}
	if got := AllocatedAmount(cfg, 1_000_000); got != 350_000 {
		t.Errorf("AllocatedAmount = %d, want 350000", got)
	}
}

func TestBuildSplit_PercentageOverflow(t *testing.T) {
	partners := []model.PaymentPartner{
		pct("RS_1", 60, model.FeeBearerBusiness),
		pct("RS_2", 50, model.FeeBearerBusiness),
	}
	if _, err := BuildSplit(partners, 1_000_000); !errors.Is(err, ErrOverAllocation) {
		t.Fatalf("want ErrOverAllocation, got %v", err)
	}
}

func TestBuildSplit_MixedForcesFixed(t *testing.T) {
	// One fixed partner converts everyone to fixed line items for this
	// charge; the percentage share is computed against the total.
	partners := []model.PaymentPartner{
		pct("RS_1", 10, model.FeeBearerBusiness),
		fixed("RS_2", 200_000, nil, model.FeeBearerBusiness),
	}

	cfg, err := BuildSplit(partners, 1_000_000)
	if err != nil {
		t.Fatalf("BuildSplit: %v", err)
	}
	if cfg.Type != gateway.SplitTypeFixed {
		t.Errorf("type = %q, want fixed", cfg.Type)
	}
	if cfg.SubAccounts[0].Value != 100_000 {
		t.Errorf("converted percentage share = %d, want 100000", cfg.SubAccounts[0].Value)
	}
	if cfg.SubAccounts[1].Value != 200_000 {
		t.Errorf("fixed share = %d, want 200000", cfg.SubAccounts[1].Value)
	}
	if got := AllocatedAmount(cfg, 1_000_000); got != 300_000 {
		t.Errorf("AllocatedAmount = %d, want 300000", got)
	}
}

func TestBuildSplit_CapClampsConvertedShare(t *testing.T) {
	partners := []model.PaymentPartner{
		fixed("RS_1", 50_000, nil, model.FeeBearerBusiness),
		{
			PaymentPartnerSubAccountID:    "RS_2",
			PaymentPartnerAllocationType:  model.AllocationTypePercentage,
			PaymentPartnerAllocationValue: 50,
			PaymentPartnerAllocationMax:   int64p(120_000),
			PaymentPartnerFeeBearer:       model.FeeBearerBusiness,
		},
	}

	cfg, err := BuildSplit(partners, 1_000_000)
	if err != nil {
		t.Fatalf("BuildSplit: %v", err)
	}
	// 50% of 1,000,000 is 500,000, clamped to the 120,000 ceiling.
	if cfg.SubAccounts[1].Value != 120_000 {
		t.Errorf("clamped share = %d, want 120000", cfg.SubAccounts[1].Value)
	}
}

func TestBuildSplit_FixedOverAllocation(t *testing.T) {
	partners := []model.PaymentPartner{
		fixed("RS_1", 400_000, nil, model.FeeBearerBusiness),
		fixed("RS_2", 200_000, nil, model.FeeBearerBusiness),
	}
	if _, err := BuildSplit(partners, 500_000); !errors.Is(err, ErrOverAllocation) {
		t.Fatalf("want ErrOverAllocation, got %v", err)
	}
}

func TestBuildSplit_FeeBearerResolution(t *testing.T) {
	tests := []struct {
		name     string
		partners []model.PaymentPartner
		want     string
	}{
		{
			name: "unanimous sub_accounts",
			partners: []model.PaymentPartner{
				pct("RS_1", 10, model.FeeBearerSubAccounts),
				pct("RS_2", 10, model.FeeBearerSubAccounts),
			},
			want: gateway.FeeBearerSubAccounts,
		},
		{
			name: "disagreement falls back to business",
			partners: []model.PaymentPartner{
				pct("RS_1", 10, model.FeeBearerSubAccounts),
				pct("RS_2", 10, model.FeeBearerBusiness),
			},
			want: gateway.FeeBearerBusiness,
		},
		{
			name: "empty bearer falls back to business",
			partners: []model.PaymentPartner{
				pct("RS_1", 10, ""),
			},
			want: gateway.FeeBearerBusiness,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := BuildSplit(tt.partners, 1_000_000)
			if err != nil {
				t.Fatalf("BuildSplit: %v", err)
			}
			if cfg.FeeBearer != tt.want {
				t.Errorf("fee bearer = %q, want %q", cfg.FeeBearer, tt.want)
			}
		})
	}
}

func TestRoundShare(t *testing.T) {
	tests := []struct {
		percent, total, want int64
	}{
		{10, 1_000_000, 100_000},
		{33, 100, 33},
		{1, 50, 1}, // 0.5 rounds up
		{1, 49, 0}, // 0.49 rounds down
		{100, 777, 777},
	}
	for _, tt := range tests {
		if got := roundShare(tt.percent, tt.total); got != tt.want {
			t.Errorf("roundShare(%d, %d) = %d, want %d", tt.percent, tt.total, got, tt.want)
		}
	}
}
