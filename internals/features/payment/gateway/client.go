package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ibnlanre/laumga-sub000/internals/configs"
)

/* =========================================================
   Client

   Thin typed wrapper over the direct-debit processor's HTTP
   API. The client never retries: a retried tokenization or
   charge risks a duplicate financial side effect, so retry
   policy belongs to the caller, where reference uniqueness
   makes a duplicate attempt fail loudly instead of double
   charging.
========================================================= */

type Client struct {
	baseURL   string
	secretKey string
	currency  string
	http      *http.Client
}

// NewClient builds a processor client from config. Pass a non-nil
// httpClient to override the transport (tests inject httptest here).
func NewClient(cfg configs.ProcessorConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		currency:  cfg.Currency,
		http:      httpClient,
	}
}

func (c *Client) Currency() string { return c.currency }

// envelope is the uniform {status, message, data} wrapper on every response.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ProcessorError{Kind: ErrKindUnavailable, Message: "Payment processor unreachable: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProcessorError{Kind: ErrKindUnavailable, StatusCode: resp.StatusCode, Message: "Payment processor response unreadable"}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 500 {
		msg := env.Message
		if msg == "" {
			msg = "Payment processor is currently unavailable"
		}
		return nil, &ProcessorError{Kind: ErrKindUnavailable, StatusCode: resp.StatusCode, Message: msg}
	}
	if resp.StatusCode >= 400 {
		msg := env.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, &ProcessorError{Kind: ErrKindRejected, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &ProcessorError{Kind: ErrKindUnavailable, StatusCode: resp.StatusCode, Message: "Payment processor returned a malformed response"}
	}
	return &env, nil
}

/* =========================================================
   Operations
========================================================= */

// TokenizeAccount begins the authorization handshake. The returned status
// starts at PENDING until the account holder completes the consent
// transfer and the processor activates the token.
func (c *Client) TokenizeAccount(ctx context.Context, req TokenizeRequest) (*TokenizeResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/accounts/tokenize", req)
	if err != nil {
		return nil, err
	}
	var out TokenizeResult
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, &ProcessorError{Kind: ErrKindUnavailable, Message: "Payment processor returned a malformed tokenize payload"}
	}
	return &out, nil
}

// FetchTokenStatus polls the current token lifecycle state.
func (c *Client) FetchTokenStatus(ctx context.Context, reference string) (*TokenStatus, error) {
	env, err := c.do(ctx, http.MethodGet, "/accounts/token/"+reference, nil)
	if err != nil {
		return nil, err
	}
	return decodeTokenStatus(env.Data)
}

// UpdateTokenStatus requests a transition to SUSPENDED, ACTIVE or DELETED
// and returns the resulting state.
func (c *Client) UpdateTokenStatus(ctx context.Context, reference, status string) (*TokenStatus, error) {
	switch status {
	case TokenStatusSuspended, TokenStatusActive, TokenStatusDeleted:
	default:
		return nil, fmt.Errorf("gateway: %q is not a requestable token status", status)
	}

	body := map[string]string{"status": status}
	env, err := c.do(ctx, http.MethodPut, "/accounts/token/"+reference, body)
	if err != nil {
		return nil, err
	}
	return decodeTokenStatus(env.Data)
}

// Charge executes a one-off debit against an active token. The split, when
// present, rides along as charge metadata the processor settles against.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Type == "" {
		req.Type = "account"
	}
	if req.Currency == "" {
		req.Currency = c.currency
	}
	env, err := c.do(ctx, http.MethodPost, "/tokenized-charge", req)
	if err != nil {
		return nil, err
	}
	var out ChargeResult
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, &ProcessorError{Kind: ErrKindUnavailable, Message: "Payment processor returned a malformed charge payload"}
	}
	return &out, nil
}

// CreateSubAccount registers a settlement sub-account for a payment partner.
func (c *Client) CreateSubAccount(ctx context.Context, req CreateSubAccountRequest) (*SubAccountResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/sub-accounts", req)
	if err != nil {
		return nil, err
	}
	var out SubAccountResult
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, &ProcessorError{Kind: ErrKindUnavailable, Message: "Payment processor returned a malformed sub-account payload"}
	}
	return &out, nil
}

// ListBanks returns the processor-supported banks, filtered to the ones
// capable of direct debit and mapped to the select-option shape.
func (c *Client) ListBanks(ctx context.Context) ([]BankOption, error) {
	env, err := c.do(ctx, http.MethodGet, "/banks", nil)
	if err != nil {
		return nil, err
	}
	var banks []bankWire
	if err := json.Unmarshal(env.Data, &banks); err != nil {
		return nil, &ProcessorError{Kind: ErrKindUnavailable, Message: "Payment processor returned a malformed bank list"}
	}

	options := make([]BankOption, 0, len(banks))
	for _, b := range banks {
		if !b.SupportsDirectDebit || b.NipCode == "" {
			continue
		}
		options = append(options, BankOption{
			Value:    b.NipCode,
			Label:    b.Name,
			BankCode: b.BankCode,
		})
	}
	return options, nil
}

func decodeTokenStatus(data json.RawMessage) (*TokenStatus, error) {
	var wire tokenStatusWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &ProcessorError{Kind: ErrKindUnavailable, Message: "Payment processor returned a malformed token payload"}
	}

	ts := &TokenStatus{
		Token:             wire.Token,
		Status:            wire.Status,
		ActiveOn:          wire.ActiveOn,
		ProcessorResponse: wire.ProcessorResponse,
		Raw:               append(json.RawMessage(nil), data...),
	}
	if wire.AccountNumber != "" || wire.BankName != "" {
		ts.Consent = &MandateConsent{
			BankName:      wire.BankName,
			AccountName:   wire.AccountName,
			AccountNumber: wire.AccountNumber,
			Amount:        wire.Amount,
		}
	}
	return ts, nil
}
