package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Mirror the PostgreSQL enums:
   partner_allocation_type, partner_fee_bearer
*/

const (
	AllocationTypePercentage = "percentage"
	AllocationTypeFixed      = "fixed"
)

const (
	FeeBearerBusiness    = "business"
	FeeBearerSubAccounts = "sub_accounts"
)

/* ===================== Model ===================== */

// PaymentPartner is a settlement sub-account that participates in debit
// splits. The processor sub-account id is obtained at creation and never
// re-derived afterwards.
type PaymentPartner struct {
	PaymentPartnerID uuid.UUID `gorm:"column:payment_partner_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_partner_id"`

	PaymentPartnerName          string `gorm:"column:payment_partner_name;not null" json:"payment_partner_name"`
	PaymentPartnerAccountNumber string `gorm:"column:payment_partner_account_number;type:varchar(10);not null" json:"payment_partner_account_number"`
	PaymentPartnerBankCode      string `gorm:"column:payment_partner_bank_code;not null" json:"payment_partner_bank_code"` // NIP code
	PaymentPartnerBankName      string `gorm:"column:payment_partner_bank_name" json:"payment_partner_bank_name"`

	// Allocation rule for new splits
	PaymentPartnerAllocationType  string `gorm:"column:payment_partner_allocation_type;not null" json:"payment_partner_allocation_type"`
	PaymentPartnerAllocationValue int64  `gorm:"column:payment_partner_allocation_value;not null;check:payment_partner_allocation_value > 0" json:"payment_partner_allocation_value"`
	PaymentPartnerAllocationMax   *int64 `gorm:"column:payment_partner_allocation_max" json:"payment_partner_allocation_max,omitempty"` // kobo ceiling, applied after a percentage share is computed

	PaymentPartnerFeeBearer string `gorm:"column:payment_partner_fee_bearer;not null;default:'business'" json:"payment_partner_fee_bearer"`
	PaymentPartnerIsActive  bool   `gorm:"column:payment_partner_is_active;not null;default:true" json:"payment_partner_is_active"`

	// External identifier from the processor's sub-account creation
	PaymentPartnerSubAccountID string `gorm:"column:payment_partner_sub_account_id;not null" json:"payment_partner_sub_account_id"`

	CreatedAt time.Time      `gorm:"column:payment_partner_created_at;autoCreateTime" json:"payment_partner_created_at"`
	UpdatedAt time.Time      `gorm:"column:payment_partner_updated_at;autoUpdateTime" json:"payment_partner_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:payment_partner_deleted_at;index" json:"payment_partner_deleted_at,omitempty"`
}

func (PaymentPartner) TableName() string { return "payment_partners" }
