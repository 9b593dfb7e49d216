// Package store is the persistence collaborator for the order engine. The
// engine's packages consume the narrow slices of Store they declare
// themselves; the GORM implementation below is the only one that talks to
// PostgreSQL.
package store

import "github.com/forkline-pos/forkline/internal/models"

// TicketFilter narrows KDS ticket queries for display surfaces
type TicketFilter struct {
	RvcID         *uint
	KdsDeviceID   *uint
	StationType   models.StationType
	IncludeBumped bool
}

// Store exposes typed CRUD/lookup over the engine's entities. Lookups for a
// missing row return an error wrapping apperrors.ErrNotFound; every other
// failure propagates unmodified.
type Store interface {
	// Checks
	GetCheck(id uint) (*models.Check, error)
	GetCheckDetail(id uint) (*models.Check, error)
	ListOpenChecks(rvcID uint) ([]models.Check, error)
	CreateCheck(c *models.Check) error
	UpdateCheck(c *models.Check) error
	NextCheckNumber(rvcID uint) (int, error)

	// Check items
	GetCheckItem(id uint) (*models.CheckItem, error)
	GetCheckItems(checkID uint) ([]models.CheckItem, error)
	CreateCheckItem(ci *models.CheckItem) error
	UpdateCheckItem(ci *models.CheckItem) error

	// Rounds
	CountRounds(checkID uint) (int64, error)
	CreateRound(r *models.Round) error

	// KDS tickets
	GetTicket(id uint) (*models.KdsTicket, error)
	GetPreviewTicket(checkID uint) (*models.KdsTicket, error)
	ListTickets(f TicketFilter) ([]models.KdsTicket, error)
	CreateTicket(t *models.KdsTicket) error
	UpdateTicket(t *models.KdsTicket) error
	MarkTicketsPaid(checkID uint) error
	CreateTicketItem(ti *models.KdsTicketItem) error
	GetTicketItem(id uint) (*models.KdsTicketItem, error)
	UpdateTicketItem(ti *models.KdsTicketItem) error
	TicketItemExists(ticketID, checkItemID uint) (bool, error)

	// Payments
	CreatePayment(p *models.Payment) error
	SumPayments(checkID uint) (float64, error)
	ListPayments(checkID uint) ([]models.Payment, error)

	// Configuration
	GetRvc(id uint) (*models.Rvc, error)
	GetMenuItem(id uint) (*models.MenuItem, error)
	GetTaxGroup(id uint) (*models.TaxGroup, error)
	GetTender(id uint) (*models.Tender, error)
	GetOrderDevice(id uint) (*models.OrderDevice, error)
	GetWorkstation(id uint) (*models.Workstation, error)
	WorkstationDeviceIDs(workstationID uint) ([]uint, error)
	RvcRoutes(printClassID, rvcID uint) ([]models.PrintClassRouting, error)
	PropertyRoutes(printClassID, propertyID uint) ([]models.PrintClassRouting, error)
	GlobalRoutes(printClassID uint) ([]models.PrintClassRouting, error)

	// Employees
	GetEmployee(id uint) (*models.Employee, error)
	ActiveEmployees(propertyID uint) ([]models.Employee, error)

	// Audit
	AppendAudit(a *models.AuditLog) error
}
