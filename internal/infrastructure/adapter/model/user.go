package model

import (
	"time"
)

// User represents the database model for platform accounts
type User struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	Email         string    `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash  string    `gorm:"not null;size:255"`
	Username      string    `gorm:"not null;size:100"`
	Role          string    `gorm:"not null;size:50;default:user"`
	WalletAddress string    `gorm:"size:255"`
	ReferralCode  string    `gorm:"uniqueIndex;not null;size:20"`
	ReferredBy    *uint64   `gorm:"index"`
	RecoveryCode  string    `gorm:"uniqueIndex;not null;size:20"`
	SectorID      *uint64   `gorm:"index"`
	TotalJoy      int64     `gorm:"not null;default:0"`
	TotalPoints   int64     `gorm:"not null;default:0"`
	IsBanned      bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
