package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ibnlanre/laumga-sub000/internals/features/users/model"
)

// UserProfileRepo resolves profile snapshots for presentation joins.
type UserProfileRepo interface {
	// Snapshots batch-fetches users by id in a single query; missing ids
	// are simply absent from the map.
	Snapshots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.User, error)
}

type gormUserProfileRepo struct {
	db *gorm.DB
}

func NewUserProfileRepo(db *gorm.DB) UserProfileRepo {
	return &gormUserProfileRepo{db: db}
}

func (r *gormUserProfileRepo) Snapshots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.User, error) {
	out := make(map[uuid.UUID]model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.UserID] = u
	}
	return out, nil
}
