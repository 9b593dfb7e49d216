package models

import "time"

// Round is a batch of items sent to preparation together. Round numbers are
// 1-based, strictly increasing and gapless within a check. Immutable once
// created.
type Round struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	CheckID     uint `gorm:"not null;index" json:"check_id"`
	RoundNumber int  `gorm:"not null" json:"round_number"`
	SentBy      uint `gorm:"not null" json:"sent_by"`

	// Auto marks a round created by the payment-triggered send rather than
	// an explicit Send.
	Auto bool `gorm:"default:false" json:"auto"`

	SentAt    time.Time `json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Round model
func (Round) TableName() string {
	return "rounds"
}
