package models

import "time"

// Library is a physical branch holding copies of catalog books.
type Library struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:text;not null"`
	Address     string    `gorm:"type:text;not null"`
	Phone       string    `gorm:"type:text;not null"`
	Email       string    `gorm:"type:text;not null"`
	OpenHours   string    `gorm:"column:open_hours;not null;default:''"`
	Description *string   `gorm:"column:description"`
	LogoURL     *string   `gorm:"column:logo_url"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name used by earlier deployments.
func (Library) TableName() string {
	return "library_info"
}
