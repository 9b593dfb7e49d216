package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CheckStatus defines possible check statuses
type CheckStatus string

const (
	CheckStatusOpen   CheckStatus = "open"
	CheckStatusClosed CheckStatus = "closed"
)

// OrderType classifies how the guest is served
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

// Check is one guest order/tab from open to payment close. Owned by its
// revenue center; check numbers are sequential per revenue center. A check
// transitions open -> closed exactly once, and only when cumulative payments
// cover the recomputed total.
type Check struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	RvcID       uint        `gorm:"not null;index" json:"rvc_id"`
	CheckNumber int         `gorm:"not null;index" json:"check_number"`
	EmployeeID  uint        `gorm:"not null;index" json:"employee_id"`
	OrderType   OrderType   `gorm:"type:varchar(50);default:'dine_in'" json:"order_type"`
	Status      CheckStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`

	TableLabel string `json:"table_label"`
	GuestCount int    `gorm:"default:1" json:"guest_count"`

	Subtotal      float64 `gorm:"default:0" json:"subtotal"`
	Tax           float64 `gorm:"default:0" json:"tax"`
	ServiceCharge float64 `gorm:"default:0" json:"service_charge"`
	Discount      float64 `gorm:"default:0" json:"discount"`
	Total         float64 `gorm:"default:0" json:"total"`

	OpenedAt  time.Time      `json:"opened_at"`
	ClosedAt  *time.Time     `json:"closed_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Rvc      *Rvc        `gorm:"foreignKey:RvcID" json:"rvc,omitempty"`
	Items    []CheckItem `gorm:"foreignKey:CheckID" json:"items,omitempty"`
	Rounds   []Round     `gorm:"foreignKey:CheckID" json:"rounds,omitempty"`
	Payments []Payment   `gorm:"foreignKey:CheckID" json:"payments,omitempty"`
}

// TableName specifies the table name for Check model
func (Check) TableName() string {
	return "checks"
}

// IsOpen returns true while the check can still be mutated
func (c *Check) IsOpen() bool {
	return c.Status == CheckStatusOpen
}

// ItemStatus defines possible check item statuses
type ItemStatus string

const (
	// ItemStatusPending: freshly added, still editable; in dynamic mode the
	// item is already visible on the preview ticket in this state.
	ItemStatusPending ItemStatus = "pending"
	// ItemStatusActive: committed to a round and in preparation.
	ItemStatusActive ItemStatus = "active"
)

// ModifierSnapshot captures a modifier's identity and price delta at the
// moment it was attached; later modifier edits never affect it.
type ModifierSnapshot struct {
	ModifierID uint    `json:"modifier_id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}

// CheckItem is one ordered line on a check with the menu item's name and
// price snapshotted at add-time. Modifiers are mutable only while the item
// is unsent, or while it is still pending (dynamic-mode exception).
type CheckItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CheckID    uint   `gorm:"not null;index" json:"check_id"`
	MenuItemID *uint  `gorm:"index" json:"menu_item_id,omitempty"`
	Name       string `gorm:"not null" json:"name"`

	UnitPrice float64        `gorm:"not null" json:"unit_price"`
	Modifiers datatypes.JSON `json:"modifiers"`
	Quantity  int            `gorm:"default:1" json:"quantity"`

	Status ItemStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Sent   bool       `gorm:"default:false;index" json:"sent"`

	Voided     bool   `gorm:"default:false;index" json:"voided"`
	VoidReason string `json:"void_reason,omitempty"`
	VoidedBy   *uint  `json:"voided_by,omitempty"`

	// RoundID is set exactly once, when the item is sent
	RoundID *uint `gorm:"index" json:"round_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for CheckItem model
func (CheckItem) TableName() string {
	return "check_items"
}

// ModifierList decodes the stored modifier snapshots
func (ci *CheckItem) ModifierList() []ModifierSnapshot {
	if len(ci.Modifiers) == 0 {
		return nil
	}
	var mods []ModifierSnapshot
	if err := json.Unmarshal(ci.Modifiers, &mods); err != nil {
		return nil
	}
	return mods
}

// SetModifierList encodes modifier snapshots for storage
func (ci *CheckItem) SetModifierList(mods []ModifierSnapshot) error {
	raw, err := json.Marshal(mods)
	if err != nil {
		return err
	}
	ci.Modifiers = raw
	return nil
}

// ModifiersEditable reports whether the item's modifiers may still change
func (ci *CheckItem) ModifiersEditable() bool {
	return !ci.Sent || ci.Status == ItemStatusPending
}

// LineTotal is (unit price + modifier deltas) * quantity
func (ci *CheckItem) LineTotal() float64 {
	unit := ci.UnitPrice
	for _, m := range ci.ModifierList() {
		unit += m.PriceDelta
	}
	return unit * float64(ci.Quantity)
}
