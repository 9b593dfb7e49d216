package models

import (
	"time"

	"gorm.io/gorm"
)

// EmployeeRole defines access levels for POS operations
type EmployeeRole string

const (
	RoleServer    EmployeeRole = "server"
	RoleBartender EmployeeRole = "bartender"
	RoleManager   EmployeeRole = "manager"
	RoleAdmin     EmployeeRole = "admin"
)

// Employee represents a staff member who signs in with a PIN.
type Employee struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	PropertyID uint         `gorm:"not null;index" json:"property_id"`
	Name       string       `gorm:"not null" json:"name"`
	Role       EmployeeRole `gorm:"type:varchar(50);default:'server'" json:"role"`

	// PinHash is a bcrypt hash of the sign-in PIN; never serialized.
	PinHash string `gorm:"not null" json:"-"`

	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Employee model
func (Employee) TableName() string {
	return "employees"
}

// CanApproveVoids returns true if this employee may approve voids of sent items
func (e *Employee) CanApproveVoids() bool {
	return e.Role == RoleManager || e.Role == RoleAdmin
}
