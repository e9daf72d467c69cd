package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionStatusSuccessful = "successful"
	TransactionStatusFailed     = "failed"
	TransactionStatusProcessing = "processing"
)

// MandateTransaction is one debit attempt against a mandate. Immutable
// after creation except for the settlement flag.
type MandateTransaction struct {
	// ULID primary key: lexicographic order == creation order.
	MandateTransactionID string `gorm:"column:mandate_transaction_id;type:char(26);primaryKey" json:"mandate_transaction_id"`

	MandateTransactionMandateID uuid.UUID `gorm:"column:mandate_transaction_mandate_id;type:uuid;not null;index" json:"mandate_transaction_mandate_id"`
	MandateTransactionUserID    uuid.UUID `gorm:"column:mandate_transaction_user_id;type:uuid;not null;index" json:"mandate_transaction_user_id"`

	MandateTransactionAmount       int64 `gorm:"column:mandate_transaction_amount;not null" json:"mandate_transaction_amount"`               // kobo charged
	MandateTransactionPlatformFee  int64 `gorm:"column:mandate_transaction_platform_fee;not null" json:"mandate_transaction_platform_fee"`   // remainder kept by the platform
	MandateTransactionClientAmount int64 `gorm:"column:mandate_transaction_client_amount;not null" json:"mandate_transaction_client_amount"` // sum handed to sub-accounts

	MandateTransactionReference   string `gorm:"column:mandate_transaction_reference;uniqueIndex;not null" json:"mandate_transaction_reference"` // our tx_ref
	MandateTransactionProcessorID string `gorm:"column:mandate_transaction_processor_id" json:"mandate_transaction_processor_id"`                // processor-assigned id

	MandateTransactionStatus string     `gorm:"column:mandate_transaction_status;not null" json:"mandate_transaction_status"`
	MandateTransactionPaidAt *time.Time `gorm:"column:mandate_transaction_paid_at" json:"mandate_transaction_paid_at,omitempty"`

	MandateTransactionSettled bool `gorm:"column:mandate_transaction_settled;not null;default:false" json:"mandate_transaction_settled"`

	CreatedAt time.Time `gorm:"column:mandate_transaction_created_at;autoCreateTime" json:"mandate_transaction_created_at"`
}

func (MandateTransaction) TableName() string { return "mandate_transactions" }
