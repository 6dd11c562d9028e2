package models

import (
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/enums"
)

// User represents a registered account, reader or librarian.
type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	Username     string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"type:text;not null"`
	Email        string         `gorm:"type:text;not null"`
	Role         enums.UserRole `gorm:"type:text;not null;default:reader"`
	IsBlocked    bool           `gorm:"column:is_blocked;not null;default:false"`
	PhoneNumber  *string        `gorm:"column:phone_number"`
	Address      *string        `gorm:"column:address"`
	Bio          *string        `gorm:"column:bio"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}
