package orders

import (
	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/routing"
	"github.com/forkline-pos/forkline/internal/store"
)

// memStore is a map-backed store.Store so the engine's state transitions
// can be exercised without PostgreSQL.
type memStore struct {
	nextID uint

	checks      map[uint]*models.Check
	checkItems  map[uint]*models.CheckItem
	rounds      map[uint]*models.Round
	tickets     map[uint]*models.KdsTicket
	ticketItems map[uint]*models.KdsTicketItem
	payments    []models.Payment

	rvcs      map[uint]*models.Rvc
	menuItems map[uint]*models.MenuItem
	taxGroups map[uint]*models.TaxGroup
	tenders   map[uint]*models.Tender
	employees map[uint]*models.Employee

	audits []models.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		checks:      map[uint]*models.Check{},
		checkItems:  map[uint]*models.CheckItem{},
		rounds:      map[uint]*models.Round{},
		tickets:     map[uint]*models.KdsTicket{},
		ticketItems: map[uint]*models.KdsTicketItem{},
		rvcs:        map[uint]*models.Rvc{},
		menuItems:   map[uint]*models.MenuItem{},
		taxGroups:   map[uint]*models.TaxGroup{},
		tenders:     map[uint]*models.Tender{},
		employees:   map[uint]*models.Employee{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

// --- Checks ---

func (m *memStore) GetCheck(id uint) (*models.Check, error) {
	c, ok := m.checks[id]
	if !ok {
		return nil, apperrors.NotFoundf("check %d", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) GetCheckDetail(id uint) (*models.Check, error) {
	c, err := m.GetCheck(id)
	if err != nil {
		return nil, err
	}
	c.Items, _ = m.GetCheckItems(id)
	c.Payments, _ = m.ListPayments(id)
	return c, nil
}

func (m *memStore) ListOpenChecks(rvcID uint) ([]models.Check, error) {
	var out []models.Check
	for _, c := range m.checks {
		if c.RvcID == rvcID && c.Status == models.CheckStatusOpen {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) CreateCheck(c *models.Check) error {
	c.ID = m.id()
	cp := *c
	m.checks[c.ID] = &cp
	return nil
}

func (m *memStore) UpdateCheck(c *models.Check) error {
	cp := *c
	m.checks[c.ID] = &cp
	return nil
}

func (m *memStore) NextCheckNumber(rvcID uint) (int, error) {
	max := 0
	for _, c := range m.checks {
		if c.RvcID == rvcID && c.CheckNumber > max {
			max = c.CheckNumber
		}
	}
	return max + 1, nil
}

// --- Check items ---

func (m *memStore) GetCheckItem(id uint) (*models.CheckItem, error) {
	ci, ok := m.checkItems[id]
	if !ok {
		return nil, apperrors.NotFoundf("check item %d", id)
	}
	cp := *ci
	return &cp, nil
}

func (m *memStore) GetCheckItems(checkID uint) ([]models.CheckItem, error) {
	var out []models.CheckItem
	for i := uint(1); i <= m.nextID; i++ {
		if ci, ok := m.checkItems[i]; ok && ci.CheckID == checkID {
			out = append(out, *ci)
		}
	}
	return out, nil
}

func (m *memStore) CreateCheckItem(ci *models.CheckItem) error {
	ci.ID = m.id()
	cp := *ci
	m.checkItems[ci.ID] = &cp
	return nil
}

func (m *memStore) UpdateCheckItem(ci *models.CheckItem) error {
	cp := *ci
	m.checkItems[ci.ID] = &cp
	return nil
}

// --- Rounds ---

func (m *memStore) CountRounds(checkID uint) (int64, error) {
	var n int64
	for _, r := range m.rounds {
		if r.CheckID == checkID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateRound(r *models.Round) error {
	r.ID = m.id()
	cp := *r
	m.rounds[r.ID] = &cp
	return nil
}

// --- KDS tickets ---

func (m *memStore) GetTicket(id uint) (*models.KdsTicket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, apperrors.NotFoundf("ticket %d", id)
	}
	cp := *t
	cp.Items = m.itemsOfTicket(id)
	return &cp, nil
}

func (m *memStore) GetPreviewTicket(checkID uint) (*models.KdsTicket, error) {
	for _, t := range m.tickets {
		if t.CheckID == checkID && t.IsPreview {
			cp := *t
			cp.Items = m.itemsOfTicket(t.ID)
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListTickets(f store.TicketFilter) ([]models.KdsTicket, error) {
	var out []models.KdsTicket
	for i := uint(1); i <= m.nextID; i++ {
		t, ok := m.tickets[i]
		if !ok {
			continue
		}
		if f.RvcID != nil && t.RvcID != *f.RvcID {
			continue
		}
		if f.KdsDeviceID != nil && (t.KdsDeviceID == nil || *t.KdsDeviceID != *f.KdsDeviceID) {
			continue
		}
		if f.StationType != "" && t.StationType != f.StationType {
			continue
		}
		if !f.IncludeBumped && t.Status != models.TicketStatusActive {
			continue
		}
		cp := *t
		cp.Items = m.itemsOfTicket(t.ID)
		out = append(out, cp)
	}
	return out, nil
}

func (m *memStore) itemsOfTicket(ticketID uint) []models.KdsTicketItem {
	var out []models.KdsTicketItem
	for i := uint(1); i <= m.nextID; i++ {
		if ti, ok := m.ticketItems[i]; ok && ti.TicketID == ticketID {
			out = append(out, *ti)
		}
	}
	return out
}

func (m *memStore) CreateTicket(t *models.KdsTicket) error {
	t.ID = m.id()
	cp := *t
	m.tickets[t.ID] = &cp
	return nil
}

func (m *memStore) UpdateTicket(t *models.KdsTicket) error {
	cp := *t
	cp.Items = nil
	m.tickets[t.ID] = &cp
	return nil
}

func (m *memStore) MarkTicketsPaid(checkID uint) error {
	for _, t := range m.tickets {
		if t.CheckID == checkID {
			t.Paid = true
		}
	}
	return nil
}

func (m *memStore) CreateTicketItem(ti *models.KdsTicketItem) error {
	ti.ID = m.id()
	cp := *ti
	m.ticketItems[ti.ID] = &cp
	return nil
}

func (m *memStore) GetTicketItem(id uint) (*models.KdsTicketItem, error) {
	ti, ok := m.ticketItems[id]
	if !ok {
		return nil, apperrors.NotFoundf("ticket item %d", id)
	}
	cp := *ti
	return &cp, nil
}

func (m *memStore) UpdateTicketItem(ti *models.KdsTicketItem) error {
	cp := *ti
	m.ticketItems[ti.ID] = &cp
	return nil
}

func (m *memStore) TicketItemExists(ticketID, checkItemID uint) (bool, error) {
	for _, ti := range m.ticketItems {
		if ti.TicketID == ticketID && ti.CheckItemID == checkItemID {
			return true, nil
		}
	}
	return false, nil
}

// --- Payments ---

func (m *memStore) CreatePayment(p *models.Payment) error {
	p.ID = m.id()
	m.payments = append(m.payments, *p)
	return nil
}

func (m *memStore) SumPayments(checkID uint) (float64, error) {
	var sum float64
	for _, p := range m.payments {
		if p.CheckID == checkID {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (m *memStore) ListPayments(checkID uint) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.payments {
		if p.CheckID == checkID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Configuration ---

func (m *memStore) GetRvc(id uint) (*models.Rvc, error) {
	r, ok := m.rvcs[id]
	if !ok {
		return nil, apperrors.NotFoundf("rvc %d", id)
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) GetMenuItem(id uint) (*models.MenuItem, error) {
	mi, ok := m.menuItems[id]
	if !ok {
		return nil, apperrors.NotFoundf("menu item %d", id)
	}
	cp := *mi
	return &cp, nil
}

func (m *memStore) GetTaxGroup(id uint) (*models.TaxGroup, error) {
	tg, ok := m.taxGroups[id]
	if !ok {
		return nil, apperrors.NotFoundf("tax group %d", id)
	}
	cp := *tg
	return &cp, nil
}

func (m *memStore) GetTender(id uint) (*models.Tender, error) {
	t, ok := m.tenders[id]
	if !ok {
		return nil, apperrors.NotFoundf("tender %d", id)
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) GetOrderDevice(id uint) (*models.OrderDevice, error) {
	return nil, apperrors.NotFoundf("order device %d", id)
}

func (m *memStore) GetWorkstation(id uint) (*models.Workstation, error) {
	return nil, apperrors.NotFoundf("workstation %d", id)
}

func (m *memStore) WorkstationDeviceIDs(workstationID uint) ([]uint, error) {
	return nil, nil
}

func (m *memStore) RvcRoutes(printClassID, rvcID uint) ([]models.PrintClassRouting, error) {
	return nil, nil
}

func (m *memStore) PropertyRoutes(printClassID, propertyID uint) ([]models.PrintClassRouting, error) {
	return nil, nil
}

func (m *memStore) GlobalRoutes(printClassID uint) ([]models.PrintClassRouting, error) {
	return nil, nil
}

// --- Employees ---

func (m *memStore) GetEmployee(id uint) (*models.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, apperrors.NotFoundf("employee %d", id)
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) ActiveEmployees(propertyID uint) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range m.employees {
		if e.PropertyID == propertyID && e.IsActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

// --- Audit ---

func (m *memStore) AppendAudit(a *models.AuditLog) error {
	a.ID = m.id()
	m.audits = append(m.audits, *a)
	return nil
}

// stubResolver returns preconfigured targets per menu item
type stubResolver struct {
	targets map[uint][]routing.Target
}

func (r *stubResolver) ResolveTargetsForMenuItem(menuItemID, propertyID uint, rvcID, workstationID *uint) ([]routing.Target, error) {
	return r.targets[menuItemID], nil
}

// recordingNotifier captures broadcasts
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) BroadcastKdsUpdate(rvcID uint, event string, checkID uint) {
	n.events = append(n.events, event)
}
