package model

import (
	"time"
)

// DepositRequest represents the database model for deposit requests
type DepositRequest struct {
	ID              uint64  `gorm:"primaryKey;autoIncrement"`
	UserID          uint64  `gorm:"not null;index"`
	ProductID       *uint64 `gorm:"index"`
	Chain           string  `gorm:"not null;size:20"`
	AssignedAddress string  `gorm:"not null;size:255"`
	ExpectedAmount  int64   `gorm:"not null"` // USDT cents
	RateJoyPerUSDT  int64   `gorm:"not null"` // cents, rate snapshot
	JoyAmount       int64   `gorm:"not null"`
	ActualAmount    *int64
	CreditedJoy     int64     `gorm:"not null;default:0"`
	Status          string    `gorm:"not null;size:20;index;default:pending"`
	AdminID         *uint64   `gorm:"index"`
	AdminNotes      string    `gorm:"type:text"`
	ApprovedAt      *time.Time
	CreatedAt       time.Time `gorm:"not null;index"`
	UpdatedAt       time.Time `gorm:"not null"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for DepositRequest
func (DepositRequest) TableName() string {
	return "deposit_requests"
}
