package orders

import (
	"time"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/utils"
)

// CreateCheckParams carries the open-check request
type CreateCheckParams struct {
	RvcID      uint
	EmployeeID uint
	OrderType  models.OrderType
	TableLabel string
	GuestCount int
}

// CreateCheck opens a new check with the next sequential check number for
// its revenue center.
func (s *Service) CreateCheck(p CreateCheckParams) (*models.Check, error) {
	rvc, err := s.store.GetRvc(p.RvcID)
	if err != nil {
		return nil, err
	}
	number, err := s.store.NextCheckNumber(rvc.ID)
	if err != nil {
		return nil, err
	}

	orderType := p.OrderType
	if orderType == "" {
		orderType = models.OrderType(rvc.DefaultOrderType)
	}
	guests := p.GuestCount
	if guests <= 0 {
		guests = 1
	}

	check := &models.Check{
		RvcID:       rvc.ID,
		CheckNumber: number,
		EmployeeID:  p.EmployeeID,
		OrderType:   orderType,
		Status:      models.CheckStatusOpen,
		TableLabel:  p.TableLabel,
		GuestCount:  guests,
		OpenedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateCheck(check); err != nil {
		return nil, err
	}

	s.audit(models.AuditCheckOpened, p.EmployeeID, &check.ID, map[string]interface{}{
		"check_number": check.CheckNumber,
		"rvc_id":       rvc.ID,
		"table":        check.TableLabel,
	})
	s.broadcast(rvc.ID, "check.opened", check.ID)
	return check, nil
}

// AddItemParams carries one add-item request
type AddItemParams struct {
	CheckID    uint
	EmployeeID uint
	MenuItemID uint
	Quantity   int
	// ModifierIDs select modifiers of the menu item; their names and price
	// deltas are snapshotted onto the check item.
	ModifierIDs []uint
}

// AddItem snapshots a menu item onto the check. On a dynamic-mode revenue
// center the item is also attached to the check's preview ticket so it
// appears on the kitchen display immediately, still unsent.
func (s *Service) AddItem(p AddItemParams) (*models.CheckItem, error) {
	unlock := s.lockCheck(p.CheckID)
	defer unlock()

	check, err := s.store.GetCheck(p.CheckID)
	if err != nil {
		return nil, err
	}
	if !check.IsOpen() {
		return nil, apperrors.InvalidStatef("check %d is closed", check.ID)
	}
	rvc, err := s.store.GetRvc(check.RvcID)
	if err != nil {
		return nil, err
	}
	menuItem, err := s.store.GetMenuItem(p.MenuItemID)
	if err != nil {
		return nil, err
	}

	qty := p.Quantity
	if qty <= 0 {
		qty = 1
	}

	item := &models.CheckItem{
		CheckID:    check.ID,
		MenuItemID: &menuItem.ID,
		Name:       menuItem.Name,
		UnitPrice:  menuItem.Price,
		Quantity:   qty,
		Status:     models.ItemStatusPending,
	}
	mods, err := snapshotModifiers(menuItem, p.ModifierIDs)
	if err != nil {
		return nil, err
	}
	if err := item.SetModifierList(mods); err != nil {
		return nil, err
	}
	if err := s.store.CreateCheckItem(item); err != nil {
		return nil, err
	}

	s.audit(models.AuditItemAdded, p.EmployeeID, &check.ID, map[string]interface{}{
		"item_id":   item.ID,
		"menu_item": menuItem.ID,
		"quantity":  item.Quantity,
	})

	if rvc.DynamicOrderMode {
		if err := s.addItemToPreviewLocked(check, rvc, item); err != nil {
			return nil, err
		}
	} else {
		s.broadcast(rvc.ID, "item.added", check.ID)
	}
	return item, nil
}

// snapshotModifiers resolves modifier ids against the menu item's own
// modifiers; an id not belonging to the item is a NotFound.
func snapshotModifiers(menuItem *models.MenuItem, ids []uint) ([]models.ModifierSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	byID := make(map[uint]models.Modifier, len(menuItem.Modifiers))
	for _, m := range menuItem.Modifiers {
		byID[m.ID] = m
	}
	snaps := make([]models.ModifierSnapshot, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFoundf("modifier %d on menu item %d", id, menuItem.ID)
		}
		snaps = append(snaps, models.ModifierSnapshot{
			ModifierID: m.ID,
			Name:       m.Name,
			PriceDelta: m.PriceDelta,
		})
	}
	return snaps, nil
}

// EditModifiers replaces an item's modifier snapshots. Legal only while the
// item is unsent, or while it is still pending (dynamic-mode exception).
func (s *Service) EditModifiers(checkID, itemID, employeeID uint, modifierIDs []uint) (*models.CheckItem, error) {
	unlock := s.lockCheck(checkID)
	defer unlock()

	item, err := s.store.GetCheckItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.CheckID != checkID {
		return nil, apperrors.NotFoundf("item %d on check %d", itemID, checkID)
	}
	if item.Voided {
		return nil, apperrors.InvalidStatef("item %d is voided", itemID)
	}
	if !item.ModifiersEditable() {
		return nil, apperrors.InvalidStatef("item %d is sent and no longer pending", itemID)
	}

	if item.MenuItemID == nil {
		return nil, apperrors.InvalidStatef("item %d has no menu item reference", itemID)
	}
	menuItem, err := s.store.GetMenuItem(*item.MenuItemID)
	if err != nil {
		return nil, err
	}
	mods, err := snapshotModifiers(menuItem, modifierIDs)
	if err != nil {
		return nil, err
	}
	if err := item.SetModifierList(mods); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCheckItem(item); err != nil {
		return nil, err
	}

	s.audit(models.AuditItemEdited, employeeID, &checkID, map[string]interface{}{
		"item_id":        item.ID,
		"modifier_count": len(mods),
	})

	check, err := s.store.GetCheck(checkID)
	if err == nil {
		s.broadcast(check.RvcID, "item.edited", checkID)
	}
	return item, nil
}

// VoidItem voids a check item. Voiding an already-sent item records a
// manager approval in the audit entry when a PIN is supplied; a supplied
// PIN that verifies against no void-approving employee is rejected, but an
// absent PIN does not block the void.
func (s *Service) VoidItem(checkID, itemID, employeeID uint, reason, managerPIN string) (*models.CheckItem, error) {
	unlock := s.lockCheck(checkID)
	defer unlock()

	check, err := s.store.GetCheck(checkID)
	if err != nil {
		return nil, err
	}
	if !check.IsOpen() {
		return nil, apperrors.InvalidStatef("check %d is closed", checkID)
	}
	item, err := s.store.GetCheckItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.CheckID != checkID {
		return nil, apperrors.NotFoundf("item %d on check %d", itemID, checkID)
	}
	if item.Voided {
		return nil, apperrors.InvalidStatef("item %d is already voided", itemID)
	}

	var approverID *uint
	if item.Sent && managerPIN != "" {
		rvc, err := s.store.GetRvc(check.RvcID)
		if err != nil {
			return nil, err
		}
		approver, err := s.findApprover(rvc.PropertyID, managerPIN)
		if err != nil {
			return nil, err
		}
		approverID = &approver.ID
	}

	item.Voided = true
	item.VoidReason = reason
	item.VoidedBy = &employeeID
	if err := s.store.UpdateCheckItem(item); err != nil {
		return nil, err
	}

	details := map[string]interface{}{
		"item_id": item.ID,
		"reason":  reason,
		"sent":    item.Sent,
	}
	if approverID != nil {
		details["approved_by"] = *approverID
	}
	s.audit(models.AuditItemVoided, employeeID, &checkID, details)
	s.broadcast(check.RvcID, "item.voided", checkID)
	return item, nil
}

// findApprover matches a manager PIN against active employees allowed to
// approve voids.
func (s *Service) findApprover(propertyID uint, pin string) (*models.Employee, error) {
	emps, err := s.store.ActiveEmployees(propertyID)
	if err != nil {
		return nil, err
	}
	for i := range emps {
		if !emps[i].CanApproveVoids() {
			continue
		}
		if utils.CheckPIN(pin, emps[i].PinHash) {
			return &emps[i], nil
		}
	}
	return nil, apperrors.Unauthorizedf("manager PIN rejected")
}
