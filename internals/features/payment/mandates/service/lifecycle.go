package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	helper "github.com/ibnlanre/laumga-sub000/internals/helpers"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/dto"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/model"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/repository"
	partnerModel "github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/model"
	userModel "github.com/ibnlanre/laumga-sub000/internals/features/users/model"
	userRepository "github.com/ibnlanre/laumga-sub000/internals/features/users/repository"
)

// StaleAfter: an initiated mandate whose authorization is still PENDING
// past this window is treated as abandoned and removed on the next read.
// This is a deliberate cleanup policy, not error suppression; callers see
// "no mandate" and can start over.
const StaleAfter = 10 * time.Minute

/* =========================================================
   Dependencies (injected; no package-level clients)
========================================================= */

// ProcessorGateway is the slice of the gateway client the lifecycle
// service consumes.
type ProcessorGateway interface {
	TokenizeAccount(ctx context.Context, req gateway.TokenizeRequest) (*gateway.TokenizeResult, error)
	FetchTokenStatus(ctx context.Context, reference string) (*gateway.TokenStatus, error)
	UpdateTokenStatus(ctx context.Context, reference, status string) (*gateway.TokenStatus, error)
	Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error)
}

// ActivePartnerLister feeds the split allocator before a debit.
type ActivePartnerLister interface {
	ListActive(ctx context.Context) ([]partnerModel.PaymentPartner, error)
}

// Actor is the authenticated caller; it only feeds audit stamps.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Photo *string
}

type MandateService struct {
	store    repository.MandateStore
	txStore  repository.TransactionStore
	gateway  ProcessorGateway
	partners ActivePartnerLister
	users    userRepository.UserProfileRepo
	currency string

	now func() time.Time // injectable clock for staleness tests
}

func NewMandateService(
	store repository.MandateStore,
	txStore repository.TransactionStore,
	gw ProcessorGateway,
	partners ActivePartnerLister,
	users userRepository.UserProfileRepo,
	currency string,
) *MandateService {
	return &MandateService{
		store:    store,
		txStore:  txStore,
		gateway:  gw,
		partners: partners,
		users:    users,
		currency: currency,
		now:      time.Now,
	}
}

/* =========================================================
   Create
========================================================= */

// Create begins the authorization handshake and persists the mandate as
// initiated. Nothing is written locally unless tokenization succeeds — a
// processor failure leaves no partial state behind.
func (s *MandateService) Create(ctx context.Context, actor Actor, in dto.CreateMandateRequest) (*model.Mandate, error) {
	if _, err := s.store.GetByUserID(ctx, actor.ID); err == nil {
		return nil, ErrMandateExists
	} else if !errors.Is(err, repository.ErrMandateNotFound) {
		return nil, err
	}

	reference := helper.GenerateReference("MANDATE", actor.ID.String())

	tok, err := s.gateway.TokenizeAccount(ctx, gateway.TokenizeRequest{
		Reference:     reference,
		Email:         in.Email,
		Amount:        in.MandateAmount,
		Address:       in.Address,
		PhoneNumber:   in.PhoneNumber,
		AccountBank:   in.AccountBank,
		AccountNumber: in.AccountNumber,
		StartDate:     in.MandateStartDate,
		EndDate:       in.MandateEndDate,
		Narration:     fmt.Sprintf("LAUMGA %s mandate", in.MandateFrequency),
	})
	if err != nil {
		return nil, err
	}

	stamp := s.stamp(actor)
	mandate := &model.Mandate{
		MandateUserID:    actor.ID,
		MandateAmount:    in.MandateAmount,
		MandateFrequency: in.MandateFrequency,
		MandateTier:      model.DeriveTier(in.MandateAmount),
		MandateStatus:    model.MandateStatusInitiated,
		MandateStartDate: in.MandateStartDate,
		MandateEndDate:   in.MandateEndDate,

		MandateEmail:       in.Email,
		MandatePhoneNumber: in.PhoneNumber,

		MandateProcessorReference:  tok.Reference,
		MandateProcessorAccountID:  tok.AccountID,
		MandateProcessorCustomerID: tok.CustomerID,
		MandateProcessorStatus:     tok.Status,
		MandateProcessorResponse:   tok.ProcessorResponse,

		MandateCreatedBy: datatypes.NewJSONType(stamp),
		MandateUpdatedBy: datatypes.NewJSONType(stamp),
	}
	if tok.MandateConsent != nil {
		mandate.MandateConsent = datatypes.NewJSONType(consentFromGateway(tok.MandateConsent))
	}

	if err := s.store.Create(ctx, mandate); err != nil {
		return nil, err
	}
	return mandate, nil
}

/* =========================================================
   Get (read + reconciliation)
========================================================= */

// Get returns the user's mandate reconciled against the processor, or
// (nil, nil) when no mandate exists. This is the sole writer of
// mandate_processor_status and mandate_processor_token.
//
// An initiated mandate still PENDING after StaleAfter is deleted here and
// reported as absent: the authorization was abandoned and the user should
// start a fresh one.
func (s *MandateService) Get(ctx context.Context, userID uuid.UUID) (*model.Mandate, error) {
	m, err := s.store.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrMandateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m.MandateProcessorReference == "" {
		return m, nil
	}

	ts, err := s.gateway.FetchTokenStatus(ctx, m.MandateProcessorReference)
	if err != nil {
		return nil, err
	}

	// Abandoned authorization: delete rather than surface.
	if ts.Status == gateway.TokenStatusPending && s.now().Sub(m.CreatedAt) > StaleAfter {
		if err := s.store.Delete(ctx, userID); err != nil && !errors.Is(err, repository.ErrMandateNotFound) {
			return nil, err
		}
		return nil, nil
	}

	if !s.remoteChanged(m, ts) {
		return m, nil // no-op guard: repeat reads perform no writes
	}

	patch := repository.ProcessorStatePatch{
		ProcessorStatus:   ts.Status,
		ProcessorResponse: ts.ProcessorResponse,
		Token:             ts.Token,
		ActiveOn:          ts.ActiveOn,
		Raw:               ts.Raw,
		Status:            localStatusFor(ts.Status),
	}
	if ts.Consent != nil {
		patch.Consent = consentFromGateway(ts.Consent)
	}

	ok, err := s.store.UpdateProcessorState(ctx, userID, m.MandateProcessorStatus, patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent status-changing operation won the write; their
		// state is at least as fresh as ours.
		return s.store.GetByUserID(ctx, userID)
	}
	return s.store.GetByUserID(ctx, userID)
}

func (s *MandateService) remoteChanged(m *model.Mandate, ts *gateway.TokenStatus) bool {
	if ts.Status != m.MandateProcessorStatus {
		return true
	}
	if ts.Token != nil && (m.MandateProcessorToken == nil || *m.MandateProcessorToken != *ts.Token) {
		return true
	}
	if ts.Consent != nil && m.MandateConsent.Data() == nil {
		return true
	}
	return false
}

/* =========================================================
   Update
========================================================= */

// Update merges a caller patch and stamps the audit record. Tier is
// re-derived whenever the amount changes; it is never set independently.
func (s *MandateService) Update(ctx context.Context, actor Actor, in dto.UpdateMandateRequest) (*model.Mandate, error) {
	if _, err := s.store.GetByUserID(ctx, actor.ID); err != nil {
		return nil, err
	}

	stamp := s.stamp(actor)
	patch := repository.MandatePatch{
		Frequency: in.MandateFrequency,
		EndDate:   in.MandateEndDate,
		UpdatedBy: &stamp,
	}
	if in.MandateAmount != nil {
		tier := model.DeriveTier(*in.MandateAmount)
		patch.Amount = in.MandateAmount
		patch.Tier = &tier
	}

	if err := s.store.ApplyPatch(ctx, actor.ID, patch); err != nil {
		return nil, err
	}
	return s.store.GetByUserID(ctx, actor.ID)
}

/* =========================================================
   Pause / Reinstate / Cancel
========================================================= */

func (s *MandateService) Pause(ctx context.Context, actor Actor) (*model.Mandate, error) {
	return s.transition(ctx, actor, gateway.TokenStatusSuspended, model.MandateStatusPaused)
}

func (s *MandateService) Reinstate(ctx context.Context, actor Actor) (*model.Mandate, error) {
	return s.transition(ctx, actor, gateway.TokenStatusActive, model.MandateStatusActive)
}

func (s *MandateService) transition(ctx context.Context, actor Actor, remoteStatus, localStatus string) (*model.Mandate, error) {
	m, err := s.store.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if m.MandateProcessorReference == "" {
		return nil, ErrMissingReference
	}

	ts, err := s.gateway.UpdateTokenStatus(ctx, m.MandateProcessorReference, remoteStatus)
	if err != nil {
		return nil, err
	}

	stamp := s.stamp(actor)
	patch := repository.ProcessorStatePatch{
		ProcessorStatus:   ts.Status,
		ProcessorResponse: ts.ProcessorResponse,
		Token:             ts.Token,
		Raw:               ts.Raw,
		Status:            &localStatus,
		UpdatedBy:         &stamp,
	}

	// The remote transition already happened; the local write must land.
	// Retry the conditional update against whatever status a concurrent
	// writer left behind.
	expected := m.MandateProcessorStatus
	for attempt := 0; attempt < 3; attempt++ {
		ok, err := s.store.UpdateProcessorState(ctx, actor.ID, expected, patch)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.store.GetByUserID(ctx, actor.ID)
		}
		fresh, err := s.store.GetByUserID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		expected = fresh.MandateProcessorStatus
	}
	return nil, fmt.Errorf("mandate state kept changing while recording %s", localStatus)
}

// Cancel deactivates the token remotely and then removes the local
// record. Terminal and irreversible: the document disappears, with the
// debit history rows left as the audit trail. A mandate that was never
// tokenized has no remote state to deactivate and is deleted outright.
func (s *MandateService) Cancel(ctx context.Context, actor Actor) error {
	m, err := s.store.GetByUserID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if m.MandateProcessorReference == "" {
		return s.store.Delete(ctx, actor.ID)
	}

	if _, err := s.gateway.UpdateTokenStatus(ctx, m.MandateProcessorReference, gateway.TokenStatusDeleted); err != nil {
		return err
	}
	return s.store.Delete(ctx, actor.ID)
}

/* =========================================================
   Listing
========================================================= */

type MandateWithUser struct {
	Mandate model.Mandate
	User    *userModel.User
}

// List returns mandates joined with user profile snapshots. The users are
// batch-fetched in one query regardless of page size.
func (s *MandateService) List(ctx context.Context, limit, offset int) ([]MandateWithUser, int64, error) {
	mandates, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(mandates))
	for _, m := range mandates {
		ids = append(ids, m.MandateUserID)
	}
	snapshots, err := s.users.Snapshots(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]MandateWithUser, 0, len(mandates))
	for _, m := range mandates {
		item := MandateWithUser{Mandate: m}
		if u, ok := snapshots[m.MandateUserID]; ok {
			u := u
			item.User = &u
		}
		out = append(out, item)
	}
	return out, total, nil
}

func (s *MandateService) Transactions(ctx context.Context, userID uuid.UUID) ([]model.MandateTransaction, error) {
	return s.txStore.ListByUser(ctx, userID)
}

/* =========================================================
   helpers
========================================================= */

func (s *MandateService) stamp(actor Actor) model.AuditStamp {
	return model.AuditStamp{
		UserID: actor.ID.String(),
		Name:   actor.Name,
		Photo:  actor.Photo,
		At:     s.now(),
	}
}

// localStatusFor maps a recognized processor token status onto the local
// mandate status. Unknown statuses leave the local status alone; the raw
// payload is retained for inspection.
func localStatusFor(processorStatus string) *string {
	var status string
	switch processorStatus {
	case gateway.TokenStatusApproved, gateway.TokenStatusActive:
		status = model.MandateStatusActive
	case gateway.TokenStatusSuspended:
		status = model.MandateStatusPaused
	case gateway.TokenStatusDeleted:
		status = model.MandateStatusCancelled
	default:
		return nil
	}
	return &status
}

func consentFromGateway(c *gateway.MandateConsent) *model.ConsentDetails {
	if c == nil {
		return nil
	}
	return &model.ConsentDetails{
		BankName:      c.BankName,
		AccountName:   c.AccountName,
		AccountNumber: c.AccountNumber,
		Amount:        c.Amount,
	}
}
