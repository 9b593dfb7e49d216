package models

import (
	"time"

	"gorm.io/gorm"
)

// Property represents one physical restaurant location. All configuration
// scoping (routing overrides, employees, devices) hangs off a property.
type Property struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Timezone  string         `gorm:"default:'UTC'" json:"timezone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Rvcs []Rvc `gorm:"foreignKey:PropertyID" json:"rvcs,omitempty"`
}

// TableName specifies the table name for Property model
func (Property) TableName() string {
	return "properties"
}

// Rvc is a revenue center: a service area (dine-in, bar, drive-thru) that
// owns its own checks, check numbering and configuration scope.
type Rvc struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PropertyID uint   `gorm:"not null;index" json:"property_id"`
	Name       string `gorm:"not null" json:"name"`

	// DynamicOrderMode makes items appear on kitchen displays immediately
	// on add, before an explicit send.
	DynamicOrderMode bool `gorm:"default:false" json:"dynamic_order_mode"`

	DefaultOrderType string         `gorm:"default:'dine_in'" json:"default_order_type"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// TableName specifies the table name for Rvc model
func (Rvc) TableName() string {
	return "rvcs"
}

// Workstation is a physical POS terminal. When it has explicit order-device
// assignments, routing targets are filtered to that set; a default or
// unassigned workstation applies no filter.
type Workstation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RvcID     uint           `gorm:"not null;index" json:"rvc_id"`
	Name      string         `gorm:"not null" json:"name"`
	IsDefault bool           `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Devices []WorkstationDevice `gorm:"foreignKey:WorkstationID" json:"devices,omitempty"`
}

// TableName specifies the table name for Workstation model
func (Workstation) TableName() string {
	return "workstations"
}

// WorkstationDevice assigns an order device to a workstation's allow-list.
type WorkstationDevice struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	WorkstationID uint `gorm:"not null;index" json:"workstation_id"`
	OrderDeviceID uint `gorm:"not null;index" json:"order_device_id"`
}

// TableName specifies the table name for WorkstationDevice model
func (WorkstationDevice) TableName() string {
	return "workstation_devices"
}
