package entities

import (
	"time"
)

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserName         string     `gorm:"uniqueIndex;size:64" json:"user_name"`
	PasswordHash     string     `gorm:"size:255" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
