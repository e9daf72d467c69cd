package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/partners/model"
)

var ErrPartnerNotFound = errors.New("payment partner not found")

// PartnerStore abstracts the payment partner collection. Read far more
// often than written: every debit resolves the active set through it.
type PartnerStore interface {
	Create(ctx context.Context, p *model.PaymentPartner) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentPartner, error)
	List(ctx context.Context) ([]model.PaymentPartner, error)
	ListActive(ctx context.Context) ([]model.PaymentPartner, error)
	Save(ctx context.Context, p *model.PaymentPartner) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormPartnerStore struct {
	db *gorm.DB
}

func NewPartnerStore(db *gorm.DB) PartnerStore {
	return &gormPartnerStore{db: db}
}

func (s *gormPartnerStore) Create(ctx context.Context, p *model.PaymentPartner) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormPartnerStore) GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentPartner, error) {
	var p model.PaymentPartner
	err := s.db.WithContext(ctx).
		Where("payment_partner_id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPartnerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormPartnerStore) List(ctx context.Context) ([]model.PaymentPartner, error) {
	var list []model.PaymentPartner
	err := s.db.WithContext(ctx).
		Order("payment_partner_created_at ASC").
		Find(&list).Error
	return list, err
}

func (s *gormPartnerStore) ListActive(ctx context.Context) ([]model.PaymentPartner, error) {
	var list []model.PaymentPartner
	err := s.db.WithContext(ctx).
		Where("payment_partner_is_active = ?", true).
		Order("payment_partner_created_at ASC").
		Find(&list).Error
	return list, err
}

func (s *gormPartnerStore) Save(ctx context.Context, p *model.PaymentPartner) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *gormPartnerStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("payment_partner_id = ?", id).
		Delete(&model.PaymentPartner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPartnerNotFound
	}
	return nil
}
