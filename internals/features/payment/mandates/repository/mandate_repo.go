package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/model"
)

var (
	ErrMandateNotFound = errors.New("mandate not found")
	ErrMandateExists   = errors.New("a mandate already exists for this user")
)

/* =========================================================
   Patch structs

   Partial updates are explicit named fields, not map spreads,
   so a typo cannot silently create a new column-shaped key.
========================================================= */

// MandatePatch carries caller-editable fields. Tier travels with Amount:
// the two are only ever written together.
type MandatePatch struct {
	Amount    *int64
	Tier      *string
	Frequency *string
	EndDate   *string
	UpdatedBy *model.AuditStamp
}

// ProcessorStatePatch is the reconciliation write: everything here comes
// from a successful remote status fetch, never from guesses.
type ProcessorStatePatch struct {
	ProcessorStatus   string
	ProcessorResponse string
	Token             *string
	ActiveOn          *string
	Consent           *model.ConsentDetails
	Raw               []byte
	Status            *string // local mandate_status transition, when the remote state implies one
	UpdatedBy         *model.AuditStamp
}

/* =========================================================
   Store
========================================================= */

// MandateStore is the document-store contract the lifecycle service runs
// against: get-by-key, create-if-absent, partial update, conditional
// update, delete. Keyed by the owning user id.
type MandateStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Mandate, error)
	Create(ctx context.Context, m *model.Mandate) error
	ApplyPatch(ctx context.Context, userID uuid.UUID, patch MandatePatch) error

	// UpdateProcessorState writes the reconciled remote state only when
	// the stored processor status still equals expectedStatus. Returns
	// false when a concurrent writer got there first.
	UpdateProcessorState(ctx context.Context, userID uuid.UUID, expectedStatus string, patch ProcessorStatePatch) (bool, error)

	Delete(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]model.Mandate, int64, error)
}

type gormMandateStore struct {
	db *gorm.DB
}

func NewMandateStore(db *gorm.DB) MandateStore {
	return &gormMandateStore{db: db}
}

func (s *gormMandateStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Mandate, error) {
	var m model.Mandate
	err := s.db.WithContext(ctx).
		Where("mandate_user_id = ?", userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMandateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormMandateStore) Create(ctx context.Context, m *model.Mandate) error {
	// Optimistic existence check first; the unique index on
	// mandate_user_id closes the race.
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Mandate{}).
		Where("mandate_user_id = ?", m.MandateUserID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrMandateExists
	}

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrMandateExists
		}
		return err
	}
	return nil
}

func (s *gormMandateStore) ApplyPatch(ctx context.Context, userID uuid.UUID, patch MandatePatch) error {
	updates := map[string]any{}
	if patch.Amount != nil {
		updates["mandate_amount"] = *patch.Amount
	}
	if patch.Tier != nil {
		updates["mandate_tier"] = *patch.Tier
	}
	if patch.Frequency != nil {
		updates["mandate_frequency"] = *patch.Frequency
	}
	if patch.EndDate != nil {
		updates["mandate_end_date"] = *patch.EndDate
	}
	if patch.UpdatedBy != nil {
		updates["mandate_updated_by"] = datatypes.NewJSONType(*patch.UpdatedBy)
	}
	if len(updates) == 0 {
		return nil
	}
	updates["mandate_updated_at"] = time.Now()

	res := s.db.WithContext(ctx).Model(&model.Mandate{}).
		Where("mandate_user_id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMandateNotFound
	}
	return nil
}

func (s *gormMandateStore) UpdateProcessorState(ctx context.Context, userID uuid.UUID, expectedStatus string, patch ProcessorStatePatch) (bool, error) {
	updates := map[string]any{
		"mandate_processor_status":   patch.ProcessorStatus,
		"mandate_processor_response": patch.ProcessorResponse,
		"mandate_updated_at":         time.Now(),
	}
	if patch.Token != nil {
		updates["mandate_processor_token"] = *patch.Token
	}
	if patch.ActiveOn != nil {
		updates["mandate_active_on"] = *patch.ActiveOn
	}
	if patch.Consent != nil {
		updates["mandate_consent"] = datatypes.NewJSONType(patch.Consent)
	}
	if len(patch.Raw) > 0 {
		updates["mandate_processor_raw"] = datatypes.JSON(patch.Raw)
	}
	if patch.Status != nil {
		updates["mandate_status"] = *patch.Status
	}
	if patch.UpdatedBy != nil {
		updates["mandate_updated_by"] = datatypes.NewJSONType(*patch.UpdatedBy)
	}

	res := s.db.WithContext(ctx).Model(&model.Mandate{}).
		Where("mandate_user_id = ? AND mandate_processor_status = ?", userID, expectedStatus).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormMandateStore) Delete(ctx context.Context, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("mandate_user_id = ?", userID).
		Delete(&model.Mandate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMandateNotFound
	}
	return nil
}

func (s *gormMandateStore) List(ctx context.Context, limit, offset int) ([]model.Mandate, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Mandate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Mandate
	err := s.db.WithContext(ctx).
		Order("mandate_created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, total, err
}
