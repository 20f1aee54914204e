package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Emails are stored lowercased and
// trimmed, so the unique index enforces case-insensitive uniqueness.
type User struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string         `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Email     string         `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string         `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, never serialized
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
