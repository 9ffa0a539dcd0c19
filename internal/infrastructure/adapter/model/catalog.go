package model

import (
	"time"
)

// Product represents the database model for catalog entries
type Product struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"not null;size:255"`
	JoyAmount    int64     `gorm:"not null"`
	PriceUSDT    int64     `gorm:"not null"` // cents
	PriceKRW     int64     `gorm:"not null;default:0"`
	DiscountRate int64     `gorm:"not null;default:0"` // basis points
	SortOrder    int       `gorm:"not null;default:0"`
	IsActive     bool      `gorm:"not null;default:true;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// ExchangeRate represents one row of the append-only rate log
type ExchangeRate struct {
	ID                  uint64    `gorm:"primaryKey;autoIncrement"`
	JoyToKRW            int64     `gorm:"not null;default:0"` // cents
	USDTToKRW           int64     `gorm:"not null;default:0"` // cents
	JoyPerUSDT          int64     `gorm:"not null"`           // cents
	ReferralBonusPoints int64     `gorm:"not null;default:100"`
	IsActive            bool      `gorm:"not null;default:true;index"`
	UpdatedBy           *uint64   `gorm:"index"`
	CreatedAt           time.Time `gorm:"not null"`
}

// TableName specifies the table name for ExchangeRate
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
