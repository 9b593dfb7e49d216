package store

import (
	"errors"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/database"
	"github.com/forkline-pos/forkline/internal/models"
	"gorm.io/gorm"
)

// GormStore implements Store over PostgreSQL via GORM.
type GormStore struct {
	db *database.DB
}

// NewGormStore creates the production store
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

func notFoundOr(err error, wrapped error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrapped
	}
	return err
}

// --- Checks ---

func (s *GormStore) GetCheck(id uint) (*models.Check, error) {
	var c models.Check
	if err := s.db.First(&c, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("check %d", id))
	}
	return &c, nil
}

func (s *GormStore) GetCheckDetail(id uint) (*models.Check, error) {
	var c models.Check
	err := s.db.
		Preload("Items").
		Preload("Rounds").
		Preload("Payments").
		Preload("Rvc").
		First(&c, id).Error
	if err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("check %d", id))
	}
	return &c, nil
}

func (s *GormStore) ListOpenChecks(rvcID uint) ([]models.Check, error) {
	var checks []models.Check
	err := s.db.
		Where("rvc_id = ? AND status = ?", rvcID, models.CheckStatusOpen).
		Order("check_number").
		Find(&checks).Error
	return checks, err
}

func (s *GormStore) CreateCheck(c *models.Check) error {
	return s.db.Create(c).Error
}

func (s *GormStore) UpdateCheck(c *models.Check) error {
	return s.db.Save(c).Error
}

// NextCheckNumber allocates the next sequential check number within one
// revenue center.
func (s *GormStore) NextCheckNumber(rvcID uint) (int, error) {
	var max int
	err := s.db.Model(&models.Check{}).
		Where("rvc_id = ?", rvcID).
		Select("COALESCE(MAX(check_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// --- Check items ---

func (s *GormStore) GetCheckItem(id uint) (*models.CheckItem, error) {
	var ci models.CheckItem
	if err := s.db.First(&ci, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("check item %d", id))
	}
	return &ci, nil
}

func (s *GormStore) GetCheckItems(checkID uint) ([]models.CheckItem, error) {
	var items []models.CheckItem
	err := s.db.Where("check_id = ?", checkID).Order("id").Find(&items).Error
	return items, err
}

func (s *GormStore) CreateCheckItem(ci *models.CheckItem) error {
	return s.db.Create(ci).Error
}

func (s *GormStore) UpdateCheckItem(ci *models.CheckItem) error {
	return s.db.Save(ci).Error
}

// --- Rounds ---

func (s *GormStore) CountRounds(checkID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Round{}).Where("check_id = ?", checkID).Count(&n).Error
	return n, err
}

func (s *GormStore) CreateRound(r *models.Round) error {
	return s.db.Create(r).Error
}

// --- KDS tickets ---

func (s *GormStore) GetTicket(id uint) (*models.KdsTicket, error) {
	var t models.KdsTicket
	if err := s.db.Preload("Items").First(&t, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("ticket %d", id))
	}
	return &t, nil
}

// GetPreviewTicket returns the check's single live preview ticket, or nil
// when none exists.
func (s *GormStore) GetPreviewTicket(checkID uint) (*models.KdsTicket, error) {
	var t models.KdsTicket
	err := s.db.Preload("Items").
		Where("check_id = ? AND is_preview = ?", checkID, true).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) ListTickets(f TicketFilter) ([]models.KdsTicket, error) {
	q := s.db.Preload("Items").Model(&models.KdsTicket{})
	if f.RvcID != nil {
		q = q.Where("rvc_id = ?", *f.RvcID)
	}
	if f.KdsDeviceID != nil {
		q = q.Where("kds_device_id = ?", *f.KdsDeviceID)
	}
	if f.StationType != "" {
		q = q.Where("station_type = ?", f.StationType)
	}
	if !f.IncludeBumped {
		q = q.Where("status = ?", models.TicketStatusActive)
	}
	var tickets []models.KdsTicket
	// "active" sorts before "bumped", so the rail shows live tickets first
	err := q.Order("status, created_at").Find(&tickets).Error
	return tickets, err
}

func (s *GormStore) CreateTicket(t *models.KdsTicket) error {
	return s.db.Create(t).Error
}

func (s *GormStore) UpdateTicket(t *models.KdsTicket) error {
	return s.db.Save(t).Error
}

// MarkTicketsPaid flags every ticket on the check paid; paid is orthogonal
// to the active/bumped status.
func (s *GormStore) MarkTicketsPaid(checkID uint) error {
	return s.db.Model(&models.KdsTicket{}).
		Where("check_id = ?", checkID).
		Update("paid", true).Error
}

func (s *GormStore) CreateTicketItem(ti *models.KdsTicketItem) error {
	return s.db.Create(ti).Error
}

func (s *GormStore) GetTicketItem(id uint) (*models.KdsTicketItem, error) {
	var ti models.KdsTicketItem
	if err := s.db.First(&ti, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("ticket item %d", id))
	}
	return &ti, nil
}

func (s *GormStore) UpdateTicketItem(ti *models.KdsTicketItem) error {
	return s.db.Save(ti).Error
}

func (s *GormStore) TicketItemExists(ticketID, checkItemID uint) (bool, error) {
	var n int64
	err := s.db.Model(&models.KdsTicketItem{}).
		Where("ticket_id = ? AND check_item_id = ?", ticketID, checkItemID).
		Count(&n).Error
	return n > 0, err
}

// --- Payments ---

func (s *GormStore) CreatePayment(p *models.Payment) error {
	return s.db.Create(p).Error
}

func (s *GormStore) SumPayments(checkID uint) (float64, error) {
	var sum float64
	err := s.db.Model(&models.Payment{}).
		Where("check_id = ?", checkID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (s *GormStore) ListPayments(checkID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("check_id = ?", checkID).Order("id").Find(&payments).Error
	return payments, err
}

// --- Configuration ---

func (s *GormStore) GetRvc(id uint) (*models.Rvc, error) {
	var r models.Rvc
	if err := s.db.First(&r, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("rvc %d", id))
	}
	return &r, nil
}

func (s *GormStore) GetMenuItem(id uint) (*models.MenuItem, error) {
	var mi models.MenuItem
	if err := s.db.Preload("Modifiers").First(&mi, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("menu item %d", id))
	}
	return &mi, nil
}

func (s *GormStore) GetTaxGroup(id uint) (*models.TaxGroup, error) {
	var tg models.TaxGroup
	if err := s.db.First(&tg, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("tax group %d", id))
	}
	return &tg, nil
}

func (s *GormStore) GetTender(id uint) (*models.Tender, error) {
	var t models.Tender
	if err := s.db.First(&t, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("tender %d", id))
	}
	return &t, nil
}

func (s *GormStore) GetOrderDevice(id uint) (*models.OrderDevice, error) {
	var od models.OrderDevice
	if err := s.db.Preload("KdsDevice").First(&od, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("order device %d", id))
	}
	return &od, nil
}

func (s *GormStore) GetWorkstation(id uint) (*models.Workstation, error) {
	var ws models.Workstation
	if err := s.db.First(&ws, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("workstation %d", id))
	}
	return &ws, nil
}

func (s *GormStore) WorkstationDeviceIDs(workstationID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.WorkstationDevice{}).
		Where("workstation_id = ?", workstationID).
		Order("id").
		Pluck("order_device_id", &ids).Error
	return ids, err
}

func (s *GormStore) RvcRoutes(printClassID, rvcID uint) ([]models.PrintClassRouting, error) {
	var routes []models.PrintClassRouting
	err := s.db.
		Where("print_class_id = ? AND rvc_id = ?", printClassID, rvcID).
		Order("sort_order, id").
		Find(&routes).Error
	return routes, err
}

func (s *GormStore) PropertyRoutes(printClassID, propertyID uint) ([]models.PrintClassRouting, error) {
	var routes []models.PrintClassRouting
	err := s.db.
		Where("print_class_id = ? AND property_id = ? AND rvc_id IS NULL", printClassID, propertyID).
		Order("sort_order, id").
		Find(&routes).Error
	return routes, err
}

func (s *GormStore) GlobalRoutes(printClassID uint) ([]models.PrintClassRouting, error) {
	var routes []models.PrintClassRouting
	err := s.db.
		Where("print_class_id = ? AND property_id IS NULL AND rvc_id IS NULL", printClassID).
		Order("sort_order, id").
		Find(&routes).Error
	return routes, err
}

// --- Employees ---

func (s *GormStore) GetEmployee(id uint) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.First(&e, id).Error; err != nil {
		return nil, notFoundOr(err, apperrors.NotFoundf("employee %d", id))
	}
	return &e, nil
}

func (s *GormStore) ActiveEmployees(propertyID uint) ([]models.Employee, error) {
	var emps []models.Employee
	err := s.db.
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Find(&emps).Error
	return emps, err
}

// --- Audit ---

func (s *GormStore) AppendAudit(a *models.AuditLog) error {
	return s.db.Create(a).Error
}
