package orders

import (
	"time"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/models"
)

// AddItemToPreview attaches an item to the check's single preview ticket,
// creating the ticket on first use. Re-adding an attached item is a no-op.
// Only meaningful on dynamic-mode revenue centers; the item stays unsent.
func (s *Service) AddItemToPreview(checkID uint, itemID uint) error {
	unlock := s.lockCheck(checkID)
	defer unlock()

	check, err := s.store.GetCheck(checkID)
	if err != nil {
		return err
	}
	rvc, err := s.store.GetRvc(check.RvcID)
	if err != nil {
		return err
	}
	if !rvc.DynamicOrderMode {
		return apperrors.InvalidStatef("rvc %d is not in dynamic order mode", rvc.ID)
	}
	item, err := s.store.GetCheckItem(itemID)
	if err != nil {
		return err
	}
	return s.addItemToPreviewLocked(check, rvc, item)
}

// addItemToPreviewLocked is the preview attach with the check lock already
// held (AddItem calls it in the same critical section that created the
// item).
func (s *Service) addItemToPreviewLocked(check *models.Check, rvc *models.Rvc, item *models.CheckItem) error {
	ticket, err := s.store.GetPreviewTicket(check.ID)
	if err != nil {
		return err
	}
	if ticket == nil {
		ticket = &models.KdsTicket{
			CheckID:     check.ID,
			RvcID:       rvc.ID,
			Status:      models.TicketStatusActive,
			IsPreview:   true,
			CheckNumber: check.CheckNumber,
			TableLabel:  check.TableLabel,
		}
		if err := s.store.CreateTicket(ticket); err != nil {
			return err
		}
	}

	exists, err := s.store.TicketItemExists(ticket.ID, item.ID)
	if err != nil {
		return err
	}
	if !exists {
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

	s.broadcast(rvc.ID, "preview.updated", check.ID)
	return nil
}

// FinalizePreview commits the check's preview ticket: the next round is
// allocated, the unsent items are marked sent, and the existing preview
// ticket is promoted in place (no per-device fan-out — the single preview
// ticket already is the kitchen's live view). Returns nil when there is no
// preview or nothing to commit.
func (s *Service) FinalizePreview(checkID, employeeID uint) (*SendResult, error) {
	unlock := s.lockCheck(checkID)
	defer unlock()

	check, err := s.store.GetCheck(checkID)
	if err != nil {
		return nil, err
	}
	rvc, err := s.store.GetRvc(check.RvcID)
	if err != nil {
		return nil, err
	}
	return s.finalizePreviewLocked(check, rvc, employeeID)
}

func (s *Service) finalizePreviewLocked(check *models.Check, rvc *models.Rvc, employeeID uint) (*SendResult, error) {
	ticket, err := s.store.GetPreviewTicket(check.ID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, nil
	}

	items, err := s.unsentItems(check.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		// Everything on the preview was voided or already sent; the ticket
		// just stops being a preview.
		if err := ticket.Commit(nil); err != nil {
			return nil, err
		}
		if err := s.store.UpdateTicket(ticket); err != nil {
			return nil, err
		}
		return nil, nil
	}

	count, err := s.store.CountRounds(check.ID)
	if err != nil {
		return nil, err
	}
	round := &models.Round{
		CheckID:     check.ID,
		RoundNumber: int(count) + 1,
		SentBy:      employeeID,
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

	if err := ticket.Commit(&round.ID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTicket(ticket); err != nil {
		return nil, err
	}

	s.audit(models.AuditRoundSent, employeeID, &check.ID, map[string]interface{}{
		"round_number": round.RoundNumber,
		"item_count":   len(items),
		"preview":      true,
	})
	s.broadcast(rvc.ID, "preview.finalized", check.ID)

	refreshed, err := s.store.GetCheckItems(check.ID)
	if err != nil {
		return nil, err
	}
	return &SendResult{Round: round, Items: refreshed}, nil
}
