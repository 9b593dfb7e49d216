package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit action names used by the engine
const (
	AuditCheckOpened  = "check.opened"
	AuditItemAdded    = "item.added"
	AuditItemEdited   = "item.edited"
	AuditItemVoided   = "item.voided"
	AuditRoundSent    = "round.sent"
	AuditPaymentTaken = "payment.taken"
	AuditCheckClosed  = "check.closed"
	AuditTicketBumped = "ticket.bumped"
	AuditTicketRecall = "ticket.recalled"
)

// AuditLog is an append-only record of every state-changing action with the
// actor, the target and free-form details. Audit failures are logged but
// never roll back the primary state change.
type AuditLog struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CorrelationID string         `gorm:"type:varchar(64);index" json:"correlation_id"`
	Action        string         `gorm:"not null;index" json:"action"`
	EmployeeID    uint           `gorm:"index" json:"employee_id"`
	CheckID       *uint          `gorm:"index" json:"check_id,omitempty"`
	Details       datatypes.JSON `json:"details"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
