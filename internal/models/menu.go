package models

import (
	"time"

	"gorm.io/gorm"
)

// TaxMode determines how a tax group's rate enters the check totals
type TaxMode string

const (
	// TaxModeInclusive: the displayed price already contains tax; the item
	// contributes to the subtotal only.
	TaxModeInclusive TaxMode = "inclusive"
	// TaxModeAddOn: tax is computed on top of the item total and reported
	// separately.
	TaxModeAddOn TaxMode = "add_on"
)

// TaxGroup holds a tax rate and its application mode.
type TaxGroup struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Mode      TaxMode        `gorm:"type:varchar(20);default:'add_on'" json:"mode"`
	Rate      float64        `gorm:"not null" json:"rate"` // 0.08 = 8%
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for TaxGroup model
func (TaxGroup) TableName() string {
	return "tax_groups"
}

// PrintClass categorizes menu items by which preparation stations must see
// them (hot line, cold line, bar, ...). Routing rules bind print classes to
// order devices.
type PrintClass struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for PrintClass model
func (PrintClass) TableName() string {
	return "print_classes"
}

// PrintClassRouting maps a print class to an order device at one of three
// specificity levels: rvc-level (rvc_id set), property-level (property_id
// set, rvc_id null) or global (both null). Resolution walks the levels in
// that order and the first non-empty level wins.
type PrintClassRouting struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	PrintClassID  uint  `gorm:"not null;index" json:"print_class_id"`
	PropertyID    *uint `gorm:"index" json:"property_id,omitempty"`
	RvcID         *uint `gorm:"index" json:"rvc_id,omitempty"`
	OrderDeviceID uint  `gorm:"not null" json:"order_device_id"`

	// SortOrder preserves the configured device ordering within one level
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for PrintClassRouting model
func (PrintClassRouting) TableName() string {
	return "print_class_routings"
}

// MenuItem is a sellable product. Price and name are snapshotted onto check
// items at add-time, so later menu edits never mutate open checks.
type MenuItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	PropertyID   uint    `gorm:"not null;index" json:"property_id"`
	Name         string  `gorm:"not null" json:"name"`
	Price        float64 `gorm:"not null" json:"price"`
	PrintClassID *uint   `gorm:"index" json:"print_class_id,omitempty"`
	TaxGroupID   *uint   `gorm:"index" json:"tax_group_id,omitempty"`
	Category     string  `json:"category"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PrintClass *PrintClass `gorm:"foreignKey:PrintClassID" json:"print_class,omitempty"`
	TaxGroup   *TaxGroup   `gorm:"foreignKey:TaxGroupID" json:"tax_group,omitempty"`
	Modifiers  []Modifier  `gorm:"foreignKey:MenuItemID" json:"modifiers,omitempty"`
}

// TableName specifies the table name for MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// Modifier is an option attached to a menu item (extra cheese, no onions)
// with a price delta applied per ordered unit.
type Modifier struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MenuItemID uint           `gorm:"not null;index" json:"menu_item_id"`
	Name       string         `gorm:"not null" json:"name"`
	PriceDelta float64        `gorm:"default:0" json:"price_delta"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Modifier model
func (Modifier) TableName() string {
	return "modifiers"
}
