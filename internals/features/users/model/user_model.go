package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the slice of the users table the payment engine reads for
// profile snapshots. Registration and authentication live elsewhere.
type User struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserName     string    `gorm:"column:user_name" json:"user_name"`
	UserEmail    string    `gorm:"column:user_email" json:"user_email"`
	UserPhotoURL *string   `gorm:"column:user_photo_url" json:"user_photo_url,omitempty"`

	CreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
}

func (User) TableName() string { return "users" }
