package models

import (
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/enums"
)

// Book is a catalog entry. Status tracks the latest lifecycle transition;
// per-location quantities live in BookLibrary rows.
type Book struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"`
	Title     string           `gorm:"type:text;not null"`
	Author    string           `gorm:"type:text;not null"`
	Genre     string           `gorm:"type:text;not null"`
	Year      int              `gorm:"not null;default:0"`
	Status    enums.BookStatus `gorm:"type:text;not null;default:available"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
