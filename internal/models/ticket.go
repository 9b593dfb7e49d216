package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// TicketStatus defines possible KDS ticket statuses
type TicketStatus string

const (
	TicketStatusActive TicketStatus = "active"
	TicketStatusBumped TicketStatus = "bumped"
)

// ErrTicketAlreadyCommitted is returned when promoting a ticket twice
var ErrTicketAlreadyCommitted = errors.New("ticket is already committed")

// KdsTicket is the unit of kitchen-display work. A ticket is either a
// preview (dynamic-mode live view: IsPreview true, no round) or committed
// to a round. The preview-to-committed promotion happens in place via
// Commit; a ticket never moves back. KdsDeviceID nil means the ticket is
// the round's fallback for unrouted items. Paid is orthogonal to
// active/bumped.
type KdsTicket struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	CheckID uint  `gorm:"not null;index" json:"check_id"`
	RoundID *uint `gorm:"index" json:"round_id,omitempty"`

	KdsDeviceID   *uint       `gorm:"index" json:"kds_device_id,omitempty"`
	OrderDeviceID *uint       `gorm:"index" json:"order_device_id,omitempty"`
	StationType   StationType `gorm:"type:varchar(50)" json:"station_type"`
	RvcID         uint        `gorm:"not null;index" json:"rvc_id"`

	Status    TicketStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	IsPreview bool         `gorm:"default:false;index" json:"is_preview"`
	Paid      bool         `gorm:"default:false" json:"paid"`

	// Denormalized for display on the KDS without extra lookups
	CheckNumber int    `json:"check_number"`
	TableLabel  string `json:"table_label"`

	BumpedAt  *time.Time     `json:"bumped_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []KdsTicketItem `gorm:"foreignKey:TicketID" json:"items,omitempty"`
}

// TableName specifies the table name for KdsTicket model
func (KdsTicket) TableName() string {
	return "kds_tickets"
}

// Commit promotes a preview ticket in place into a committed one. A nil
// roundID commits an emptied preview (no round was created for it). All
// promotion writes must go through here so the transition can only run
// once and only forward.
func (t *KdsTicket) Commit(roundID *uint) error {
	if !t.IsPreview {
		return ErrTicketAlreadyCommitted
	}
	t.IsPreview = false
	t.RoundID = roundID
	return nil
}

// IsCommitted reports whether the ticket belongs to a sent round
func (t *KdsTicket) IsCommitted() bool {
	return !t.IsPreview && t.RoundID != nil
}

// IsFallback reports whether this ticket collects unrouted items
func (t *KdsTicket) IsFallback() bool {
	return !t.IsPreview && t.KdsDeviceID == nil
}

// KdsTicketItem associates a check item with a ticket. One check item can
// appear on several tickets when its print class routes to multiple
// devices.
type KdsTicketItem struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	TicketID    uint `gorm:"not null;index" json:"ticket_id"`
	CheckItemID uint `gorm:"not null;index" json:"check_item_id"`

	Ready bool `gorm:"default:false" json:"ready"`

	// Denormalized for display
	Name     string `json:"name"`
	Quantity int    `gorm:"default:1" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for KdsTicketItem model
func (KdsTicketItem) TableName() string {
	return "kds_ticket_items"
}
