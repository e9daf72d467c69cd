package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* ===================== Enums (string) ===================== */
/* Mirror the PostgreSQL enums:
   mandate_status, mandate_frequency, mandate_tier
*/

const (
	MandateStatusInitiated = "initiated"
	MandateStatusActive    = "active"
	MandateStatusPaused    = "paused"
	MandateStatusCancelled = "cancelled"
	MandateStatusCompleted = "completed"
	MandateStatusRejected  = "rejected"
)

const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnually  = "annually"
	FrequencyOneTime   = "one-time"
)

const (
	TierSupporter = "supporter"
	TierBuilder   = "builder"
	TierGuardian  = "guardian"
	TierCustom    = "custom"
)

// Tier thresholds in kobo. Only the exact amounts map to named tiers;
// everything else is custom.
const (
	TierSupporterAmount int64 = 500_000   // ₦5,000
	TierBuilderAmount   int64 = 1_000_000 // ₦10,000
	TierGuardianAmount  int64 = 2_500_000 // ₦25,000
)

// DeriveTier classifies a mandate purely from its amount. The stored tier
// is a cache of this function, never an independent value.
func DeriveTier(amountKobo int64) string {
	switch amountKobo {
	case TierSupporterAmount:
		return TierSupporter
	case TierBuilderAmount:
		return TierBuilder
	case TierGuardianAmount:
		return TierGuardian
	default:
		return TierCustom
	}
}

/* ===================== Embedded JSONB values ===================== */

// AuditStamp records who touched the mandate and when. Provenance only,
// never business logic.
type AuditStamp struct {
	UserID string    `json:"user_id"`
	Name   string    `json:"name,omitempty"`
	Photo  *string   `json:"photo,omitempty"`
	At     time.Time `json:"at"`
}

// ConsentDetails identifies the bank transfer that authorized the mandate,
// as reported by the processor.
type ConsentDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

/* ===================== Model ===================== */

// Mandate is the locally persisted side of a recurring-debit authorization.
// At most one non-terminal mandate exists per user; the user id is the
// document key (unique column).
//
// mandate_processor_status mirrors the processor's token lifecycle and is
// only ever overwritten after a successful remote status fetch.
type Mandate struct {
	MandateID     uuid.UUID `gorm:"column:mandate_id;type:uuid;default:gen_random_uuid();primaryKey" json:"mandate_id"`
	MandateUserID uuid.UUID `gorm:"column:mandate_user_id;type:uuid;not null;uniqueIndex" json:"mandate_user_id"`

	MandateAmount    int64  `gorm:"column:mandate_amount;not null;check:mandate_amount > 0" json:"mandate_amount"` // kobo
	MandateFrequency string `gorm:"column:mandate_frequency;not null" json:"mandate_frequency"`
	MandateTier      string `gorm:"column:mandate_tier;not null" json:"mandate_tier"`
	MandateStatus    string `gorm:"column:mandate_status;not null;default:'initiated'" json:"mandate_status"`

	MandateStartDate string  `gorm:"column:mandate_start_date;type:date;not null" json:"mandate_start_date"`
	MandateEndDate   *string `gorm:"column:mandate_end_date;type:date" json:"mandate_end_date,omitempty"` // nil = indefinite

	// Contact details captured at creation; the tokenized charge needs the
	// email again later.
	MandateEmail       string `gorm:"column:mandate_email;not null" json:"mandate_email"`
	MandatePhoneNumber string `gorm:"column:mandate_phone_number" json:"mandate_phone_number"`

	// External processor identifiers
	MandateProcessorReference  string  `gorm:"column:mandate_processor_reference;uniqueIndex" json:"mandate_processor_reference"`
	MandateProcessorAccountID  string  `gorm:"column:mandate_processor_account_id" json:"mandate_processor_account_id"`
	MandateProcessorCustomerID string  `gorm:"column:mandate_processor_customer_id" json:"mandate_processor_customer_id"`
	MandateProcessorStatus     string  `gorm:"column:mandate_processor_status" json:"mandate_processor_status"`
	MandateProcessorToken      *string `gorm:"column:mandate_processor_token" json:"mandate_processor_token,omitempty"` // set once the token activates
	MandateProcessorResponse   string  `gorm:"column:mandate_processor_response" json:"mandate_processor_response"`
	MandateActiveOn            *string `gorm:"column:mandate_active_on;type:date" json:"mandate_active_on,omitempty"`

	MandateConsent datatypes.JSONType[*ConsentDetails] `gorm:"column:mandate_consent;type:jsonb" json:"mandate_consent,omitempty"`

	// Last raw processor payload, kept for unrecognized lifecycle states.
	MandateProcessorRaw datatypes.JSON `gorm:"column:mandate_processor_raw;type:jsonb" json:"-"`

	MandateCreatedBy datatypes.JSONType[AuditStamp] `gorm:"column:mandate_created_by;type:jsonb" json:"mandate_created_by"`
	MandateUpdatedBy datatypes.JSONType[AuditStamp] `gorm:"column:mandate_updated_by;type:jsonb" json:"mandate_updated_by"`

	CreatedAt time.Time `gorm:"column:mandate_created_at;autoCreateTime" json:"mandate_created_at"`
	UpdatedAt time.Time `gorm:"column:mandate_updated_at;autoUpdateTime" json:"mandate_updated_at"`
}

func (Mandate) TableName() string { return "mandates" }

// Terminal reports whether the mandate can no longer produce debits.
func (m *Mandate) Terminal() bool {
	switch m.MandateStatus {
	case MandateStatusCancelled, MandateStatusCompleted, MandateStatusRejected:
		return true
	}
	return false
}
