package models

import (
	"time"

	"gorm.io/gorm"
)

// TenderKind classifies a payment medium
type TenderKind string

const (
	TenderCash     TenderKind = "cash"
	TenderCard     TenderKind = "card"
	TenderGiftCard TenderKind = "gift_card"
)

// Tender is a configured payment medium.
type Tender struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	PropertyID uint           `gorm:"not null;index" json:"property_id"`
	Name       string         `gorm:"not null" json:"name"`
	Kind       TenderKind     `gorm:"type:varchar(50);default:'cash'" json:"kind"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Tender model
func (Tender) TableName() string {
	return "tenders"
}

// Payment is one applied payment against a check. Append-only; the tender
// name is snapshotted so renaming a tender never rewrites history.
type Payment struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CheckID    uint    `gorm:"not null;index" json:"check_id"`
	TenderID   uint    `gorm:"not null" json:"tender_id"`
	TenderName string  `json:"tender_name"`
	Amount     float64 `gorm:"not null" json:"amount"`
	Tip        float64 `gorm:"default:0" json:"tip"`
	TakenBy    uint    `json:"taken_by"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Payment model
func (Payment) TableName() string {
	return "payments"
}
