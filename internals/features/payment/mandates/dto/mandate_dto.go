package dto

import (
	"time"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/model"
)

/* =========================================================
   REQUEST DTOs (json tags = DB column names, snake_case)
   Schema-level constraints run before any external call.
========================================================= */

type CreateMandateRequest struct {
	MandateAmount    int64  `json:"mandate_amount" validate:"required,gte=10000"` // kobo, ₦100 minimum
	MandateFrequency string `json:"mandate_frequency" validate:"required,oneof=monthly quarterly annually one-time"`

	MandateStartDate string  `json:"mandate_start_date" validate:"required,datetime=2006-01-02"`
	MandateEndDate   *string `json:"mandate_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	Email         string `json:"email" validate:"required,email"`
	PhoneNumber   string `json:"phone_number" validate:"required,min=7"`
	Address       string `json:"address,omitempty"`
	AccountBank   string `json:"account_bank" validate:"required"` // NIP code from the bank list
	AccountNumber string `json:"account_number" validate:"required,len=10,numeric"`
}

type UpdateMandateRequest struct {
	MandateAmount    *int64  `json:"mandate_amount,omitempty" validate:"omitempty,gte=10000"`
	MandateFrequency *string `json:"mandate_frequency,omitempty" validate:"omitempty,oneof=monthly quarterly annually one-time"`
	MandateEndDate   *string `json:"mandate_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type DebitMandateRequest struct {
	// Amount overrides the mandate amount for this debit when set.
	Amount    *int64  `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Narration *string `json:"narration,omitempty"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type MandateResponse struct {
	MandateID     string `json:"mandate_id"`
	MandateUserID string `json:"mandate_user_id"`

	MandateAmount    int64  `json:"mandate_amount"`
	MandateFrequency string `json:"mandate_frequency"`
	MandateTier      string `json:"mandate_tier"`
	MandateStatus    string `json:"mandate_status"`

	MandateStartDate string  `json:"mandate_start_date"`
	MandateEndDate   *string `json:"mandate_end_date,omitempty"`

	MandateProcessorReference string  `json:"mandate_processor_reference"`
	MandateProcessorStatus    string  `json:"mandate_processor_status"`
	MandateActiveOn           *string `json:"mandate_active_on,omitempty"`

	MandateConsent *model.ConsentDetails `json:"mandate_consent,omitempty"`

	MandateProcessorResponse string    `json:"mandate_processor_response,omitempty"`
	MandateCreatedAt         time.Time `json:"mandate_created_at"`
	MandateUpdatedAt         time.Time `json:"mandate_updated_at"`
}

func ToMandateResponse(m model.Mandate) MandateResponse {
	return MandateResponse{
		MandateID:                 m.MandateID.String(),
		MandateUserID:             m.MandateUserID.String(),
		MandateAmount:             m.MandateAmount,
		MandateFrequency:          m.MandateFrequency,
		MandateTier:               m.MandateTier,
		MandateStatus:             m.MandateStatus,
		MandateStartDate:          m.MandateStartDate,
		MandateEndDate:            m.MandateEndDate,
		MandateProcessorReference: m.MandateProcessorReference,
		MandateProcessorStatus:    m.MandateProcessorStatus,
		MandateActiveOn:           m.MandateActiveOn,
		MandateConsent:            m.MandateConsent.Data(),
		MandateProcessorResponse:  m.MandateProcessorResponse,
		MandateCreatedAt:          m.CreatedAt,
		MandateUpdatedAt:          m.UpdatedAt,
	}
}

// MandateListItem joins the mandate with a snapshot of the owning user for
// the admin listing.
type MandateListItem struct {
	Mandate MandateResponse   `json:"mandate"`
	User    *UserSnapshotItem `json:"user,omitempty"`
}

type UserSnapshotItem struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

type TransactionResponse struct {
	MandateTransactionID string     `json:"mandate_transaction_id"`
	MandateID            string     `json:"mandate_id"`
	Amount               int64      `json:"amount"`
	PlatformFee          int64      `json:"platform_fee"`
	ClientAmount         int64      `json:"client_amount"`
	Reference            string     `json:"reference"`
	Status               string     `json:"status"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	Settled              bool       `json:"settled"`
	CreatedAt            time.Time  `json:"created_at"`
}

func ToTransactionResponse(t model.MandateTransaction) TransactionResponse {
	return TransactionResponse{
		MandateTransactionID: t.MandateTransactionID,
		MandateID:            t.MandateTransactionMandateID.String(),
		Amount:               t.MandateTransactionAmount,
		PlatformFee:          t.MandateTransactionPlatformFee,
		ClientAmount:         t.MandateTransactionClientAmount,
		Reference:            t.MandateTransactionReference,
		Status:               t.MandateTransactionStatus,
		PaidAt:               t.MandateTransactionPaidAt,
		Settled:              t.MandateTransactionSettled,
		CreatedAt:            t.CreatedAt,
	}
}

func ToTransactionResponses(list []model.MandateTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToTransactionResponse(t))
	}
	return out
}
