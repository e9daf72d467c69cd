package gateway

import "encoding/json"

/* =========================================================
   Token lifecycle (processor side)
========================================================= */

const (
	TokenStatusPending   = "PENDING"
	TokenStatusApproved  = "APPROVED"
	TokenStatusActive    = "ACTIVE"
	TokenStatusSuspended = "SUSPENDED"
	TokenStatusDeleted   = "DELETED"
)

// KnownTokenStatus reports whether the processor status string is one we
// model. Unknown values are still carried through on TokenStatus.Raw so a
// new processor state never breaks reconciliation.
func KnownTokenStatus(s string) bool {
	switch s {
	case TokenStatusPending, TokenStatusApproved, TokenStatusActive,
		TokenStatusSuspended, TokenStatusDeleted:
		return true
	}
	return false
}

/* =========================================================
   Account tokenization
========================================================= */

type TokenizeRequest struct {
	Reference     string  `json:"reference"` // caller-generated, idempotency anchor
	Email         string  `json:"email"`
	Amount        int64   `json:"amount"`
	Address       string  `json:"address,omitempty"`
	PhoneNumber   string  `json:"phone_number"`
	AccountBank   string  `json:"account_bank"`
	AccountNumber string  `json:"account_number"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date,omitempty"`
	Narration     string  `json:"narration,omitempty"`
}

// MandateConsent identifies the bank transfer the account holder made to
// authorize the mandate. The processor only supplies it once a matching
// transfer has been observed.
type MandateConsent struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

type TokenizeResult struct {
	Reference         string          `json:"reference"`
	AccountID         string          `json:"account_id"`
	CustomerID        string          `json:"customer_id"`
	Status            string          `json:"status"`
	ProcessorResponse string          `json:"processor_response"`
	MandateConsent    *MandateConsent `json:"mandate_consent,omitempty"`
}

/* =========================================================
   Token status
========================================================= */

type TokenStatus struct {
	Token             *string         `json:"token"`
	Status            string          `json:"status"`
	ActiveOn          *string         `json:"active_on"`
	ProcessorResponse string          `json:"processor_response"`
	Consent           *MandateConsent `json:"-"`

	// Raw carries the untouched data payload so callers can keep
	// unrecognized processor states for later inspection.
	Raw json.RawMessage `json:"-"`
}

// tokenStatusWire is the flat shape the processor returns; consent fields
// arrive inline once a matching transfer exists.
type tokenStatusWire struct {
	Token             *string `json:"token"`
	Status            string  `json:"status"`
	ActiveOn          *string `json:"active_on"`
	ProcessorResponse string  `json:"processor_response"`
	AccountNumber     string  `json:"account_number,omitempty"`
	AccountName       string  `json:"account_name,omitempty"`
	BankName          string  `json:"bank_name,omitempty"`
	Amount            int64   `json:"amount,omitempty"`
}

/* =========================================================
   Split configuration (charge meta)
========================================================= */

const (
	SplitTypePercentage = "percentage"
	SplitTypeFixed      = "fixed"

	FeeBearerBusiness    = "business"
	FeeBearerSubAccounts = "sub_accounts"
)

type SplitItem struct {
	SubAccountID string `json:"sub_account_id"`
	Value        int64  `json:"value"`
}

type SplitConfig struct {
	Type        string      `json:"type"`
	FeeBearer   string      `json:"fee_bearer"`
	SubAccounts []SplitItem `json:"sub_accounts"`
}

/* =========================================================
   Tokenized charge
========================================================= */

type ChargeRequest struct {
	Token     string       `json:"token"`
	Email     string       `json:"email"`
	Amount    int64        `json:"amount"`
	TxRef     string       `json:"tx_ref"`
	Type      string       `json:"type"` // always "account"
	Currency  string       `json:"currency"`
	Narration string       `json:"narration,omitempty"`
	Split     *SplitConfig `json:"split,omitempty"`
}

type ChargeResult struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	ProcessorResponse string `json:"processor_response"`
}

/* =========================================================
   Sub-accounts (settlement partners)
========================================================= */

type CreateSubAccountRequest struct {
	AccountBank   string `json:"account_bank"`
	AccountNumber string `json:"account_number"`
	BusinessName  string `json:"business_name"`
}

type SubAccountResult struct {
	SubAccountID string `json:"sub_account_id"`
	BankName     string `json:"bank_name"`
	AccountName  string `json:"account_name,omitempty"`
}

/* =========================================================
   Banks
========================================================= */

type bankWire struct {
	Name                string `json:"name"`
	BankCode            string `json:"bank_code"`
	NipCode             string `json:"nip_code"`
	SupportsDirectDebit bool   `json:"supports_direct_debit"`
}

// BankOption is the select-friendly shape the frontends consume.
type BankOption struct {
	Value    string `json:"value"` // nip_code
	Label    string `json:"label"` // display name
	BankCode string `json:"bankCode"`
}
