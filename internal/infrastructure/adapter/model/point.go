package model

import (
	"time"
)

// Point represents one append-only point ledger row
type Point struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	UserID       uint64    `gorm:"not null;index"`
	Amount       int64     `gorm:"not null"` // signed
	Type         string    `gorm:"not null;size:50"`
	Description  string    `gorm:"size:255"`
	BalanceAfter int64     `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;index"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Point
func (Point) TableName() string {
	return "points"
}

// Referral represents the database model for referral links
type Referral struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	ReferrerID   uint64    `gorm:"not null;index"`
	ReferredID   uint64    `gorm:"uniqueIndex;not null"`
	RewardPoints int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for Referral
func (Referral) TableName() string {
	return "referrals"
}

// PointWithdrawal represents the database model for point withdrawals
type PointWithdrawal struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `gorm:"not null;index"`
	Amount      int64     `gorm:"not null"`
	Method      string    `gorm:"not null;size:50"`
	AccountInfo string    `gorm:"not null;size:255"`
	Status      string    `gorm:"not null;size:20;index;default:pending"`
	AdminID     *uint64   `gorm:"index"`
	AdminNotes  string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;index"`
	DecidedAt   *time.Time

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for PointWithdrawal
func (PointWithdrawal) TableName() string {
	return "point_withdrawals"
}
