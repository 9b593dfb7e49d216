package orders

import (
	"time"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/routing"
)

// SendResult is what a send or finalize returns: the round that was created
// (nil when an emptied preview was cleared) and the check's refreshed item
// list.
type SendResult struct {
	Round *models.Round      `json:"round,omitempty"`
	Items []models.CheckItem `json:"items"`
}

// Send is the explicit send operation. On a dynamic-mode revenue center it
// finalizes the preview ticket; otherwise (or when the preview had nothing
// to commit) it batches every unsent, non-voided item into a new round with
// per-device ticket fan-out.
func (s *Service) Send(checkID, employeeID uint, workstationID *uint) (*SendResult, error) {
	unlock := s.lockCheck(checkID)
	defer unlock()

	check, err := s.store.GetCheck(checkID)
	if err != nil {
		return nil, err
	}
	if !check.IsOpen() {
		return nil, apperrors.InvalidStatef("check %d is closed", checkID)
	}
	rvc, err := s.store.GetRvc(check.RvcID)
	if err != nil {
		return nil, err
	}

	if rvc.DynamicOrderMode {
		res, err := s.finalizePreviewLocked(check, rvc, employeeID)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}

	items, err := s.unsentItems(checkID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.InvalidStatef("check %d has nothing to send", checkID)
	}
	return s.sendItemsLocked(check, rvc, employeeID, items, workstationID, false)
}

// unsentItems returns the check's unsent, non-voided items
func (s *Service) unsentItems(checkID uint) ([]models.CheckItem, error) {
	all, err := s.store.GetCheckItems(checkID)
	if err != nil {
		return nil, err
	}
	var items []models.CheckItem
	for _, it := range all {
		if !it.Sent && !it.Voided {
			items = append(items, it)
		}
	}
	return items, nil
}

// sendItemsLocked creates the next round for the supplied items, fans them
// out into one ticket per target kitchen display plus a single fallback
// ticket for unrouted items, and broadcasts. The caller holds the check
// lock and has already excluded voided/sent items.
func (s *Service) sendItemsLocked(check *models.Check, rvc *models.Rvc, employeeID uint, items []models.CheckItem, workstationID *uint, auto bool) (*SendResult, error) {
	count, err := s.store.CountRounds(check.ID)
	if err != nil {
		return nil, err
	}
	round := &models.Round{
		CheckID:     check.ID,
		RoundNumber: int(count) + 1,
		SentBy:      employeeID,
		Auto:        auto,
		SentAt:      time.Now().UTC(),
	}
	if err := s.store.CreateRound(round); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Sent = true
		items[i].RoundID = &round.ID
		items[i].Status = models.ItemStatusActive
		if err := s.store.UpdateCheckItem(&items[i]); err != nil {
			return nil, err
		}
	}

	// Fan out: group items by target display, unrouted items share one
	// fallback bucket. deviceOrder keeps ticket creation deterministic.
	type bucket struct {
		target routing.Target
		items  []models.CheckItem
	}
	buckets := map[uint]*bucket{}
	var deviceOrder []uint
	var unrouted []models.CheckItem

	for _, item := range items {
		if item.MenuItemID == nil {
			unrouted = append(unrouted, item)
			continue
		}
		targets, err := s.resolver.ResolveTargetsForMenuItem(*item.MenuItemID, rvc.PropertyID, &rvc.ID, workstationID)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			unrouted = append(unrouted, item)
			continue
		}
		for _, tgt := range targets {
			b, ok := buckets[tgt.KdsDeviceID]
			if !ok {
				b = &bucket{target: tgt}
				buckets[tgt.KdsDeviceID] = b
				deviceOrder = append(deviceOrder, tgt.KdsDeviceID)
			}
			b.items = append(b.items, item)
		}
	}

	for _, devID := range deviceOrder {
		b := buckets[devID]
		kdsID := b.target.KdsDeviceID
		odID := b.target.OrderDeviceID
		ticket := &models.KdsTicket{
			CheckID:       check.ID,
			RoundID:       &round.ID,
			KdsDeviceID:   &kdsID,
			OrderDeviceID: &odID,
			StationType:   b.target.StationType,
			RvcID:         rvc.ID,
			Status:        models.TicketStatusActive,
			CheckNumber:   check.CheckNumber,
			TableLabel:    check.TableLabel,
		}
		if err := s.createTicketWithItems(ticket, b.items); err != nil {
			return nil, err
		}
	}

	if len(unrouted) > 0 {
		// Exactly one fallback ticket per round, no device id
		fallback := &models.KdsTicket{
			CheckID:     check.ID,
			RoundID:     &round.ID,
			RvcID:       rvc.ID,
			Status:      models.TicketStatusActive,
			CheckNumber: check.CheckNumber,
			TableLabel:  check.TableLabel,
		}
		if err := s.createTicketWithItems(fallback, unrouted); err != nil {
			return nil, err
		}
	}

	s.audit(models.AuditRoundSent, employeeID, &check.ID, map[string]interface{}{
		"round_number": round.RoundNumber,
		"item_count":   len(items),
		"auto":         auto,
	})
	s.broadcast(rvc.ID, "round.sent", check.ID)

	refreshed, err := s.store.GetCheckItems(check.ID)
	if err != nil {
		return nil, err
	}
	return &SendResult{Round: round, Items: refreshed}, nil
}

func (s *Service) createTicketWithItems(ticket *models.KdsTicket, items []models.CheckItem) error {
	if err := s.store.CreateTicket(ticket); err != nil {
		return err
	}
	for _, item := range items {
		ti := &models.KdsTicketItem{
			TicketID:    ticket.ID,
			CheckItemID: item.ID,
			Name:        item.Name,
			Quantity:    item.Quantity,
		}
		if err := s.store.CreateTicketItem(ti); err != nil {
			return err
		}
	}
	return nil
}
