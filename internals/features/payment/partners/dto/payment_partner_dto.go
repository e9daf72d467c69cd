package dto

import (
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/model"
)

/* =========================================================
   REQUEST DTOs (json tags = DB column names, snake_case)
========================================================= */

type CreatePaymentPartnerRequest struct {
	PaymentPartnerName          string `json:"payment_partner_name" validate:"required,min=2"`
	PaymentPartnerAccountNumber string `json:"payment_partner_account_number" validate:"required,len=10,numeric"`
	PaymentPartnerBankCode      string `json:"payment_partner_bank_code" validate:"required"`

	PaymentPartnerAllocationType  string `json:"payment_partner_allocation_type" validate:"required,oneof=percentage fixed"`
	PaymentPartnerAllocationValue int64  `json:"payment_partner_allocation_value" validate:"required,gt=0"`
	PaymentPartnerAllocationMax   *int64 `json:"payment_partner_allocation_max,omitempty" validate:"omitempty,gt=0"`

	PaymentPartnerFeeBearer string `json:"payment_partner_fee_bearer" validate:"omitempty,oneof=business sub_accounts"`
	PaymentPartnerIsActive  *bool  `json:"payment_partner_is_active,omitempty"`
}

// UpdatePaymentPartnerRequest patches allocation parameters. The processor
// sub-account id is never updatable; re-banking a partner means creating a
// new one.
type UpdatePaymentPartnerRequest struct {
	PaymentPartnerName *string `json:"payment_partner_name,omitempty" validate:"omitempty,min=2"`

	PaymentPartnerAllocationType  *string `json:"payment_partner_allocation_type,omitempty" validate:"omitempty,oneof=percentage fixed"`
	PaymentPartnerAllocationValue *int64  `json:"payment_partner_allocation_value,omitempty" validate:"omitempty,gt=0"`
	PaymentPartnerAllocationMax   *int64  `json:"payment_partner_allocation_max,omitempty" validate:"omitempty,gte=0"`

	PaymentPartnerFeeBearer *string `json:"payment_partner_fee_bearer,omitempty" validate:"omitempty,oneof=business sub_accounts"`
	PaymentPartnerIsActive  *bool   `json:"payment_partner_is_active,omitempty"`
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type PaymentPartnerResponse struct {
	PaymentPartnerID            string `json:"payment_partner_id"`
	PaymentPartnerName          string `json:"payment_partner_name"`
	PaymentPartnerAccountNumber string `json:"payment_partner_account_number"`
	PaymentPartnerBankCode      string `json:"payment_partner_bank_code"`
	PaymentPartnerBankName      string `json:"payment_partner_bank_name"`

	PaymentPartnerAllocationType  string `json:"payment_partner_allocation_type"`
	PaymentPartnerAllocationValue int64  `json:"payment_partner_allocation_value"`
	PaymentPartnerAllocationMax   *int64 `json:"payment_partner_allocation_max,omitempty"`

	PaymentPartnerFeeBearer    string `json:"payment_partner_fee_bearer"`
	PaymentPartnerIsActive     bool   `json:"payment_partner_is_active"`
	PaymentPartnerSubAccountID string `json:"payment_partner_sub_account_id"`
}

func ToPaymentPartnerResponse(p model.PaymentPartner) PaymentPartnerResponse {
	return PaymentPartnerResponse{
		PaymentPartnerID:              p.PaymentPartnerID.String(),
		PaymentPartnerName:            p.PaymentPartnerName,
		PaymentPartnerAccountNumber:   p.PaymentPartnerAccountNumber,
		PaymentPartnerBankCode:        p.PaymentPartnerBankCode,
		PaymentPartnerBankName:        p.PaymentPartnerBankName,
		PaymentPartnerAllocationType:  p.PaymentPartnerAllocationType,
		PaymentPartnerAllocationValue: p.PaymentPartnerAllocationValue,
		PaymentPartnerAllocationMax:   p.PaymentPartnerAllocationMax,
		PaymentPartnerFeeBearer:       p.PaymentPartnerFeeBearer,
		PaymentPartnerIsActive:        p.PaymentPartnerIsActive,
		PaymentPartnerSubAccountID:    p.PaymentPartnerSubAccountID,
	}
}

func ToPaymentPartnerResponses(list []model.PaymentPartner) []PaymentPartnerResponse {
	out := make([]PaymentPartnerResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToPaymentPartnerResponse(p))
	}
	return out
}
