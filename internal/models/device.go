package models

import (
	"time"

	"gorm.io/gorm"
)

// StationType classifies a kitchen display by the station it serves
type StationType string

const (
	StationGrill  StationType = "grill"
	StationFry    StationType = "fry"
	StationSalad  StationType = "salad"
	StationExpo   StationType = "expo"
	StationBar    StationType = "bar"
	StationPastry StationType = "pastry"
)

// OrderDevice is the routing intermediary between a print class and a
// physical kitchen display. Print-class rules target order devices; each
// order device may link to at most one KDS device.
type OrderDevice struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PropertyID  uint   `gorm:"not null;index" json:"property_id"`
	Name        string `gorm:"not null" json:"name"`
	KdsDeviceID *uint  `gorm:"index" json:"kds_device_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	KdsDevice *KdsDevice `gorm:"foreignKey:KdsDeviceID" json:"kds_device,omitempty"`
}

// TableName specifies the table name for OrderDevice model
func (OrderDevice) TableName() string {
	return "order_devices"
}

// KdsDevice is a physical kitchen display screen.
type KdsDevice struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	PropertyID  uint        `gorm:"not null;index" json:"property_id"`
	Name        string      `gorm:"not null" json:"name"`
	StationType StationType `gorm:"type:varchar(50);default:'expo'" json:"station_type"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for KdsDevice model
func (KdsDevice) TableName() string {
	return "kds_devices"
}
