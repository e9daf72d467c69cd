package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/gateway"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/dto"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/model"
	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/repository"
	partnerModel "github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/model"
	userModel "github.com/ibnlanre/laumga-sub000/internals/features/users/model"
)

/* =========================================================
   Stubs
========================================================= */

type memMandateStore struct {
	mandates map[uuid.UUID]*model.Mandate

	conditionalCalls    int
	failNextConditional int
}

func newMemMandateStore() *memMandateStore {
	return &memMandateStore{mandates: map[uuid.UUID]*model.Mandate{}}
}

func (s *memMandateStore) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Mandate, error) {
	m, ok := s.mandates[userID]
	if !ok {
		return nil, repository.ErrMandateNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memMandateStore) Create(_ context.Context, m *model.Mandate) error {
	if _, ok := s.mandates[m.MandateUserID]; ok {
		return repository.ErrMandateExists
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	cp := *m
	s.mandates[m.MandateUserID] = &cp
	return nil
}

func (s *memMandateStore) ApplyPatch(_ context.Context, userID uuid.UUID, patch repository.MandatePatch) error {
	m, ok := s.mandates[userID]
	if !ok {
		return repository.ErrMandateNotFound
	}
	if patch.Amount != nil {
		m.MandateAmount = *patch.Amount
	}
	if patch.Tier != nil {
		m.MandateTier = *patch.Tier
	}
	if patch.Frequency != nil {
		m.MandateFrequency = *patch.Frequency
	}
	if patch.EndDate != nil {
		m.MandateEndDate = patch.EndDate
	}
	return nil
}

func (s *memMandateStore) UpdateProcessorState(_ context.Context, userID uuid.UUID, expectedStatus string, patch repository.ProcessorStatePatch) (bool, error) {
	s.conditionalCalls++
	if s.failNextConditional > 0 {
		s.failNextConditional--
		return false, nil
	}
	m, ok := s.mandates[userID]
	if !ok {
		return false, nil
	}
	if m.MandateProcessorStatus != expectedStatus {
		return false, nil
	}
	m.MandateProcessorStatus = patch.ProcessorStatus
	m.MandateProcessorResponse = patch.ProcessorResponse
	if patch.Token != nil {
		m.MandateProcessorToken = patch.Token
	}
	if patch.ActiveOn != nil {
		m.MandateActiveOn = patch.ActiveOn
	}
	if patch.Consent != nil {
		m.MandateConsent = datatypes.NewJSONType(patch.Consent)
	}
	if patch.Status != nil {
		m.MandateStatus = *patch.Status
	}
	if patch.UpdatedBy != nil {
		m.MandateUpdatedBy = datatypes.NewJSONType(*patch.UpdatedBy)
	}
	return true, nil
}

func (s *memMandateStore) Delete(_ context.Context, userID uuid.UUID) error {
	if _, ok := s.mandates[userID]; !ok {
		return repository.ErrMandateNotFound
	}
	delete(s.mandates, userID)
	return nil
}

func (s *memMandateStore) List(_ context.Context, limit, offset int) ([]model.Mandate, int64, error) {
	var out []model.Mandate
	for _, m := range s.mandates {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

type memTxStore struct {
	rows      []model.MandateTransaction
	createErr error
}

func (s *memTxStore) Create(_ context.Context, t *model.MandateTransaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.rows = append(s.rows, *t)
	return nil
}

func (s *memTxStore) ListByMandate(_ context.Context, mandateID uuid.UUID) ([]model.MandateTransaction, error) {
	var out []model.MandateTransaction
	for _, r := range s.rows {
		if r.MandateTransactionMandateID == mandateID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memTxStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.MandateTransaction, error) {
	var out []model.MandateTransaction
	for _, r := range s.rows {
		if r.MandateTransactionUserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memTxStore) MarkSettled(_ context.Context, id string) error {
	for i := range s.rows {
		if s.rows[i].MandateTransactionID == id {
			s.rows[i].MandateTransactionSettled = true
			return nil
		}
	}
	return repository.ErrTransactionNotFound
}

type gatewayStub struct {
	tokenizeFn func(gateway.TokenizeRequest) (*gateway.TokenizeResult, error)
	fetchFn    func(string) (*gateway.TokenStatus, error)
	updateFn   func(string, string) (*gateway.TokenStatus, error)
	chargeFn   func(gateway.ChargeRequest) (*gateway.ChargeResult, error)

	tokenizeCalls int
	chargeCalls   int
	updateCalls   []string
}

func (g *gatewayStub) TokenizeAccount(_ context.Context, req gateway.TokenizeRequest) (*gateway.TokenizeResult, error) {
	g.tokenizeCalls++
	if g.tokenizeFn == nil {
		return nil, errors.New("unexpected TokenizeAccount call")
	}
	return g.tokenizeFn(req)
}

func (g *gatewayStub) FetchTokenStatus(_ context.Context, reference string) (*gateway.TokenStatus, error) {
	if g.fetchFn == nil {
		return nil, errors.New("unexpected FetchTokenStatus call")
	}
	return g.fetchFn(reference)
}

func (g *gatewayStub) UpdateTokenStatus(_ context.Context, reference, status string) (*gateway.TokenStatus, error) {
	g.updateCalls = append(g.updateCalls, status)
	if g.updateFn == nil {
		return nil, errors.New("unexpected UpdateTokenStatus call")
	}
	return g.updateFn(reference, status)
}

func (g *gatewayStub) Charge(_ context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	g.chargeCalls++
	if g.chargeFn == nil {
		return nil, errors.New("unexpected Charge call")
	}
	return g.chargeFn(req)
}

type partnersStub struct {
	partners []partnerModel.PaymentPartner
	err      error
}

func (p *partnersStub) ListActive(_ context.Context) ([]partnerModel.PaymentPartner, error) {
	return p.partners, p.err
}

type usersStub struct {
	users map[uuid.UUID]userModel.User
}

func (u *usersStub) Snapshots(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]userModel.User, error) {
	out := map[uuid.UUID]userModel.User{}
	for _, id := range ids {
		if usr, ok := u.users[id]; ok {
			out[id] = usr
		}
	}
	return out, nil
}

/* =========================================================
   Fixtures
========================================================= */

func newTestService(store *memMandateStore, tx *memTxStore, gw *gatewayStub, partners ActivePartnerLister) *MandateService {
	svc := NewMandateService(store, tx, gw, partners, &usersStub{}, "NGN")
	return svc
}

func testActor() Actor {
	return Actor{ID: uuid.New(), Name: "Aisha Bello"}
}

func seedMandate(store *memMandateStore, userID uuid.UUID, processorStatus string, token *string, age time.Duration) *model.Mandate {
	m := &model.Mandate{
		MandateID:                 uuid.New(),
		MandateUserID:             userID,
		MandateAmount:             500_000,
		MandateFrequency:          model.FrequencyMonthly,
		MandateTier:               model.TierSupporter,
		MandateStatus:             model.MandateStatusInitiated,
		MandateStartDate:          "2026-09-01",
		MandateEmail:              "aisha@example.com",
		MandateProcessorReference: "MANDATE-abcdef12-1756500000000-a1b2c3",
		MandateProcessorStatus:    processorStatus,
		MandateProcessorToken:     token,
		CreatedAt:                 time.Now().Add(-age),
	}
	store.mandates[userID] = m
	return m
}

func createRequest() dto.CreateMandateRequest {
	return dto.CreateMandateRequest{
		MandateAmount:    500_000,
		MandateFrequency: model.FrequencyMonthly,
		MandateStartDate: "2026-09-01",
		Email:            "aisha@example.com",
		PhoneNumber:      "08030000000",
		AccountBank:      "999991",
		AccountNumber:    "0690000031",
	}
}

/* =========================================================
   Tier derivation
========================================================= */

func TestDeriveTier(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{500_000, model.TierSupporter},
		{1_000_000, model.TierBuilder},
		{2_500_000, model.TierGuardian},
		{500_001, model.TierCustom}, // near-miss stays custom
		{499_999, model.TierCustom},
		{10_000, model.TierCustom},
	}
	for _, tt := range tests {
		if got := model.DeriveTier(tt.amount); got != tt.want {
			t.Errorf("DeriveTier(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

/* =========================================================
   Create
========================================================= */

func TestCreate_Success(t *testing.T) {
	store := newMemMandateStore()
	gw := &gatewayStub{
		tokenizeFn: func(req gateway.TokenizeRequest) (*gateway.TokenizeResult, error) {
			if !strings.HasPrefix(req.Reference, "MANDATE-") {
				t.Errorf("reference = %q, want MANDATE- prefix", req.Reference)
			}
			return &gateway.TokenizeResult{
				Reference:         req.Reference,
				AccountID:         "acc_1",
				CustomerID:        "cus_1",
				Status:            gateway.TokenStatusPending,
				ProcessorResponse: "Transaction in progress",
			}, nil
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})
	actor := testActor()

	m, err := svc.Create(context.Background(), actor, createRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.MandateStatus != model.MandateStatusInitiated {
		t.Errorf("status = %q, want initiated", m.MandateStatus)
	}
	if m.MandateTier != model.TierSupporter {
		t.Errorf("tier = %q, want supporter", m.MandateTier)
	}
	if m.MandateProcessorStatus != gateway.TokenStatusPending {
		t.Errorf("processor status = %q, want PENDING", m.MandateProcessorStatus)
	}
	if m.MandateCreatedBy.Data().UserID != actor.ID.String() {
		t.Errorf("created_by = %q, want actor id", m.MandateCreatedBy.Data().UserID)
	}
	if _, ok := store.mandates[actor.ID]; !ok {
		t.Error("mandate not persisted")
	}
}

func TestCreate_Conflict(t *testing.T) {
	store := newMemMandateStore()
	actor := testActor()
	seedMandate(store, actor.ID, gateway.TokenStatusActive, nil, time.Minute)

	gw := &gatewayStub{}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})

	if _, err := svc.Create(context.Background(), actor, createRequest()); !errors.Is(err, ErrMandateExists) {
		t.Fatalf("want ErrMandateExists, got %v", err)
	}
	if gw.tokenizeCalls != 0 {
		t.Errorf("tokenize called %d times for a duplicate, want 0", gw.tokenizeCalls)
	}
}

func TestCreate_TokenizeFailureLeavesNothing(t *testing.T) {
	store := newMemMandateStore()
	gw := &gatewayStub{
		tokenizeFn: func(gateway.TokenizeRequest) (*gateway.TokenizeResult, error) {
			return nil, &gateway.ProcessorError{Kind: gateway.ErrKindRejected, StatusCode: 400, Message: "Invalid account"}
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})
	actor := testActor()

	_, err := svc.Create(context.Background(), actor, createRequest())
	if !gateway.IsRejected(err) {
		t.Fatalf("want rejected processor error, got %v", err)
	}
	if len(store.mandates) != 0 {
		t.Error("mandate persisted despite tokenization failure")
	}
}

/* =========================================================
   Get (reconciliation)
========================================================= */

func TestGet_Absent(t *testing.T) {
	svc := newTestService(newMemMandateStore(), &memTxStore{}, &gatewayStub{}, &partnersStub{})

	m, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m != nil {
		t.Errorf("want nil mandate, got %+v", m)
	}
}

func TestGet_StalePendingIsCleanedUp(t *testing.T) {
	store := newMemMandateStore()
	userID := uuid.New()
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	seedMandate(store, userID, gateway.TokenStatusPending, nil, 0).CreatedAt = created

	gw := &gatewayStub{
		fetchFn: func(string) (*gateway.TokenStatus, error) {
			return &gateway.TokenStatus{Status: gateway.TokenStatusPending}, nil
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})
	svc.now = func() time.Time { return created.Add(StaleAfter + time.Minute) }

	m, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m != nil {
		t.Error("stale pending mandate should read as absent")
	}
	if _, ok := store.mandates[userID]; ok {
		t.Error("stale pending mandate not deleted")
	}
}

func TestGet_FreshPendingSurvives(t *testing.T) {
	store := newMemMandateStore()
	userID := uuid.New()
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	seedMandate(store, userID, gateway.TokenStatusPending, nil, 0).CreatedAt = created

	gw := &gatewayStub{
		fetchFn: func(string) (*gateway.TokenStatus, error) {
			return &gateway.TokenStatus{Status: gateway.TokenStatusPending}, nil
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})
	svc.now = func() time.Time { return created.Add(5 * time.Minute) }

	m, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m == nil {
		t.Fatal("fresh pending mandate should still be returned")
	}
	if store.conditionalCalls != 0 {
		t.Errorf("unchanged remote state triggered %d writes, want 0", store.conditionalCalls)
	}
}

func TestGet_ActivationIsRecordedOnce(t *testing.T) {
	store := newMemMandateStore()
	userID := uuid.New()
	seedMandate(store, userID, gateway.TokenStatusPending, nil, time.Minute)

	token := "tok_live_1"
	gw := &gatewayStub{
		fetchFn: func(string) (*gateway.TokenStatus, error) {
			return &gateway.TokenStatus{
				Token:  &token,
				Status: gateway.TokenStatusActive,
				Consent: &gateway.MandateConsent{
					BankName:      "WEMA BANK",
					AccountNumber: "0690000031",
					Amount:        50,
				},
			}, nil
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})

	m, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.MandateProcessorStatus != gateway.TokenStatusActive {
		t.Errorf("processor status = %q, want ACTIVE", m.MandateProcessorStatus)
	}
	if m.MandateProcessorToken == nil || *m.MandateProcessorToken != token {
		t.Error("token not recorded")
	}
	if m.MandateStatus != model.MandateStatusActive {
		t.Errorf("local status = %q, want active", m.MandateStatus)
	}
	if store.conditionalCalls != 1 {
		t.Fatalf("conditional writes = %d, want 1", store.conditionalCalls)
	}

	// Second read sees the same remote state: no further writes.
	if _, err := svc.Get(context.Background(), userID); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if store.conditionalCalls != 1 {
		t.Errorf("repeat read issued %d extra writes, want 0", store.conditionalCalls-1)
	}
}

func TestGet_ConcurrentWriterWins(t *testing.T) {
	store := newMemMandateStore()
	userID := uuid.New()
	seedMandate(store, userID, gateway.TokenStatusPending, nil, time.Minute)
	store.failNextConditional = 1

	token := "tok_live_1"
	gw := &gatewayStub{
		fetchFn: func(string) (*gateway.TokenStatus, error) {
			return &gateway.TokenStatus{Token: &token, Status: gateway.TokenStatusActive}, nil
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})

	// The lost conditional update is not an error; the concurrent
	// winner's record is returned as-is.
	m, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m == nil {
		t.Fatal("want mandate, got nil")
	}
}

/* =========================================================
   Update
========================================================= */

func TestUpdate_AmountRederivesTier(t *testing.T) {
	store := newMemMandateStore()
	actor := testActor()
	seedMandate(store, actor.ID, gateway.TokenStatusActive, nil, time.Hour)

	svc := newTestService(store, &memTxStore{}, &gatewayStub{}, &partnersStub{})

	amount := int64(1_000_000)
	m, err := svc.Update(context.Background(), actor, dto.UpdateMandateRequest{MandateAmount: &amount})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.MandateAmount != amount {
		t.Errorf("amount = %d, want %d", m.MandateAmount, amount)
	}
	if m.MandateTier != model.TierBuilder {
		t.Errorf("tier = %q, want builder after amount change", m.MandateTier)
	}
}

/* =========================================================
   Pause / Reinstate / Cancel
========================================================= */

func TestPauseAndReinstate(t *testing.T) {
	store := newMemMandateStore()
	actor := testActor()
	token := "tok_live_1"
	m := seedMandate(store, actor.ID, gateway.TokenStatusActive, &token, time.Hour)
	m.MandateStatus = model.MandateStatusActive

	gw := &gatewayStub{
		updateFn: func(_ string, status string) (*gateway.TokenStatus, error) {
			return &gateway.TokenStatus{Token: &token, Status: status}, nil
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})

	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	paused, err := svc.Pause(context.Background(), actor)
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if paused.MandateStatus != model.MandateStatusPaused {
		t.Errorf("status after pause = %q, want paused", paused.MandateStatus)
	}
	if paused.MandateProcessorStatus != gateway.TokenStatusSuspended {
		t.Errorf("processor status = %q, want SUSPENDED", paused.MandateProcessorStatus)
	}
	pauseStamp := paused.MandateUpdatedBy.Data()
	if pauseStamp.UserID != actor.ID.String() {
		t.Errorf("pause stamp user = %q, want actor id", pauseStamp.UserID)
	}
	if !pauseStamp.At.Equal(clock) {
		t.Errorf("pause stamp at = %v, want %v", pauseStamp.At, clock)
	}

	clock = clock.Add(2 * time.Hour)

	resumed, err := svc.Reinstate(context.Background(), actor)
	if err != nil {
		t.Fatalf("Reinstate: %v", err)
	}
	if resumed.MandateStatus != model.MandateStatusActive {
		t.Errorf("status after reinstate = %q, want active", resumed.MandateStatus)
	}
	if want := []string{gateway.TokenStatusSuspended, gateway.TokenStatusActive}; len(gw.updateCalls) != 2 ||
		gw.updateCalls[0] != want[0] || gw.updateCalls[1] != want[1] {
		t.Errorf("remote transitions = %v, want %v", gw.updateCalls, want)
	}

	// The round-trip leaves two distinct audit stamps behind: same actor,
	// different times.
	reinstateStamp := resumed.MandateUpdatedBy.Data()
	if reinstateStamp.UserID != actor.ID.String() {
		t.Errorf("reinstate stamp user = %q, want actor id", reinstateStamp.UserID)
	}
	if !reinstateStamp.At.After(pauseStamp.At) {
		t.Errorf("reinstate stamp at = %v, want after pause stamp %v", reinstateStamp.At, pauseStamp.At)
	}
}

func TestPause_RetriesAfterConcurrentWrite(t *testing.T) {
	store := newMemMandateStore()
	actor := testActor()
	token := "tok_live_1"
	seedMandate(store, actor.ID, gateway.TokenStatusActive, &token, time.Hour)
	store.failNextConditional = 1

	gw := &gatewayStub{
		updateFn: func(_ string, status string) (*gateway.TokenStatus, error) {
			return &gateway.TokenStatus{Token: &token, Status: status}, nil
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})

	m, err := svc.Pause(context.Background(), actor)
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if m.MandateStatus != model.MandateStatusPaused {
		t.Errorf("status = %q, want paused after retry", m.MandateStatus)
	}
	if store.conditionalCalls != 2 {
		t.Errorf("conditional writes = %d, want 2 (one lost, one retried)", store.conditionalCalls)
	}
}

func TestCancel_RemovesLocalRecord(t *testing.T) {
	store := newMemMandateStore()
	actor := testActor()
	token := "tok_live_1"
	seedMandate(store, actor.ID, gateway.TokenStatusActive, &token, time.Hour)

	gw := &gatewayStub{
		updateFn: func(_ string, status string) (*gateway.TokenStatus, error) {
			return &gateway.TokenStatus{Status: status}, nil
		},
	}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})

	if err := svc.Cancel(context.Background(), actor); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(gw.updateCalls) != 1 || gw.updateCalls[0] != gateway.TokenStatusDeleted {
		t.Errorf("remote transitions = %v, want [DELETED]", gw.updateCalls)
	}
	if _, ok := store.mandates[actor.ID]; ok {
		t.Error("local record still present after cancel")
	}
}

func TestCancel_WithoutReferenceDeletesLocally(t *testing.T) {
	store := newMemMandateStore()
	actor := testActor()
	m := seedMandate(store, actor.ID, "", nil, time.Hour)
	m.MandateProcessorReference = ""

	gw := &gatewayStub{}
	svc := newTestService(store, &memTxStore{}, gw, &partnersStub{})

	// Never tokenized: nothing to deactivate remotely, local delete is
	// unconditional.
	if err := svc.Cancel(context.Background(), actor); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(gw.updateCalls) != 0 {
		t.Errorf("remote transitions = %v, want none without a reference", gw.updateCalls)
	}
	if _, ok := store.mandates[actor.ID]; ok {
		t.Error("reference-less mandate not deleted")
	}
}
