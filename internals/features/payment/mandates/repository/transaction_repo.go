package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/model"
)

var ErrTransactionNotFound = errors.New("mandate transaction not found")

// TransactionStore holds the debit history. Rows are append-only except
// for the settlement flag.
type TransactionStore interface {
	Create(ctx context.Context, t *model.MandateTransaction) error
	ListByMandate(ctx context.Context, mandateID uuid.UUID) ([]model.MandateTransaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.MandateTransaction, error)
	MarkSettled(ctx context.Context, id string) error
}

type gormTransactionStore struct {
	db *gorm.DB
}

func NewTransactionStore(db *gorm.DB) TransactionStore {
	return &gormTransactionStore{db: db}
}

func (s *gormTransactionStore) Create(ctx context.Context, t *model.MandateTransaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *gormTransactionStore) ListByMandate(ctx context.Context, mandateID uuid.UUID) ([]model.MandateTransaction, error) {
	var list []model.MandateTransaction
	err := s.db.WithContext(ctx).
		Where("mandate_transaction_mandate_id = ?", mandateID).
		Order("mandate_transaction_created_at DESC").
		Find(&list).Error
	return list, err
}

func (s *gormTransactionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.MandateTransaction, error) {
	var list []model.MandateTransaction
	err := s.db.WithContext(ctx).
		Where("mandate_transaction_user_id = ?", userID).
		Order("mandate_transaction_created_at DESC").
		Find(&list).Error
	return list, err
}

func (s *gormTransactionStore) MarkSettled(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&model.MandateTransaction{}).
		Where("mandate_transaction_id = ?", id).
		Update("mandate_transaction_settled", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
