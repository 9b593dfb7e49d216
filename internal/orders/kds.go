package orders

import (
	"time"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/models"
)

// BumpTicket transitions an active ticket to bumped
func (s *Service) BumpTicket(ticketID, employeeID uint) (*models.KdsTicket, error) {
	ticket, err := s.store.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != models.TicketStatusActive {
		return nil, apperrors.InvalidStatef("ticket %d is not active", ticketID)
	}
	now := time.Now().UTC()
	ticket.Status = models.TicketStatusBumped
	ticket.BumpedAt = &now
	if err := s.store.UpdateTicket(ticket); err != nil {
		return nil, err
	}
	s.audit(models.AuditTicketBumped, employeeID, &ticket.CheckID, map[string]interface{}{
		"ticket_id": ticket.ID,
	})
	s.broadcast(ticket.RvcID, "ticket.bumped", ticket.CheckID)
	return ticket, nil
}

// RecallTicket brings a bumped ticket back to active
func (s *Service) RecallTicket(ticketID, employeeID uint) (*models.KdsTicket, error) {
	ticket, err := s.store.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != models.TicketStatusBumped {
		return nil, apperrors.InvalidStatef("ticket %d is not bumped", ticketID)
	}
	ticket.Status = models.TicketStatusActive
	ticket.BumpedAt = nil
	if err := s.store.UpdateTicket(ticket); err != nil {
		return nil, err
	}
	s.audit(models.AuditTicketRecall, employeeID, &ticket.CheckID, map[string]interface{}{
		"ticket_id": ticket.ID,
	})
	s.broadcast(ticket.RvcID, "ticket.recalled", ticket.CheckID)
	return ticket, nil
}

// MarkTicketItemReady flags one ticket-item ready and broadcasts
func (s *Service) MarkTicketItemReady(ticketItemID, employeeID uint) (*models.KdsTicketItem, error) {
	ti, err := s.store.GetTicketItem(ticketItemID)
	if err != nil {
		return nil, err
	}
	if ti.Ready {
		return ti, nil
	}
	ti.Ready = true
	if err := s.store.UpdateTicketItem(ti); err != nil {
		return nil, err
	}
	ticket, err := s.store.GetTicket(ti.TicketID)
	if err == nil {
		s.broadcast(ticket.RvcID, "item.ready", ticket.CheckID)
	}
	return ti, nil
}
