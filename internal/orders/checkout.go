package orders

import (
	"time"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/models"
	"github.com/shopspring/decimal"
)

// closeTolerance: a check closes once cumulative payments come within one
// cent of the total.
var closeTolerance = decimal.NewFromFloat(0.01)

// Totals is a freshly computed subtotal/tax/total triple
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// PaymentResult reports the outcome of one submitted payment
type PaymentResult struct {
	Payment *models.Payment `json:"payment"`
	Paid    float64         `json:"paid"`
	Totals  Totals          `json:"totals"`
	Closed  bool            `json:"closed"`
}

// PaymentParams carries one submit-payment request
type PaymentParams struct {
	CheckID       uint
	EmployeeID    uint
	TenderID      uint
	Amount        float64
	Tip           float64
	WorkstationID *uint
}

// SubmitPayment appends a payment, recomputes the check's totals from the
// live item state and decides whether the check closes. Closing finalizes
// any dynamic-mode preview, auto-sends whatever is still unsent, marks all
// tickets paid and transitions the check to closed exactly once.
func (s *Service) SubmitPayment(p PaymentParams) (*PaymentResult, error) {
	unlock := s.lockCheck(p.CheckID)
	defer unlock()

	check, err := s.store.GetCheck(p.CheckID)
	if err != nil {
		return nil, err
	}
	if !check.IsOpen() {
		return nil, apperrors.InvalidStatef("check %d is already closed", check.ID)
	}
	rvc, err := s.store.GetRvc(check.RvcID)
	if err != nil {
		return nil, err
	}
	tender, err := s.store.GetTender(p.TenderID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		CheckID:    check.ID,
		TenderID:   tender.ID,
		TenderName: tender.Name,
		Amount:     p.Amount,
		Tip:        p.Tip,
		TakenBy:    p.EmployeeID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreatePayment(payment); err != nil {
		return nil, err
	}
	s.audit(models.AuditPaymentTaken, p.EmployeeID, &check.ID, map[string]interface{}{
		"tender": tender.Name,
		"amount": p.Amount,
		"tip":    p.Tip,
	})

	// Totals are always recomputed from scratch from the live item set;
	// stored totals are never trusted. Safe to re-run after partial
	// payments.
	items, err := s.store.GetCheckItems(check.ID)
	if err != nil {
		return nil, err
	}
	totals, err := s.computeTotals(items)
	if err != nil {
		return nil, err
	}

	paid, err := s.store.SumPayments(check.ID)
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{Payment: payment, Paid: paid, Totals: totals}

	paidDec := decimal.NewFromFloat(paid)
	totalDec := decimal.NewFromFloat(totals.Total)
	if !paidDec.GreaterThan(totalDec.Sub(closeTolerance)) {
		// Not covered yet; the check stays open.
		s.broadcast(rvc.ID, "payment.taken", check.ID)
		return result, nil
	}

	// Full payment: flush anything the kitchen has not seen yet.
	finalized := false
	if rvc.DynamicOrderMode {
		res, err := s.finalizePreviewLocked(check, rvc, p.EmployeeID)
		if err != nil {
			return nil, err
		}
		finalized = res != nil
	}
	if !finalized {
		remaining, err := s.unsentItems(check.ID)
		if err != nil {
			return nil, err
		}
		if len(remaining) > 0 {
			if _, err := s.sendItemsLocked(check, rvc, p.EmployeeID, remaining, p.WorkstationID, true); err != nil {
				return nil, err
			}
		}
	}

	if err := s.store.MarkTicketsPaid(check.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	check.Status = models.CheckStatusClosed
	check.ClosedAt = &now
	check.Subtotal = totals.Subtotal
	check.Tax = totals.Tax
	check.Total = totals.Total
	if err := s.store.UpdateCheck(check); err != nil {
		return nil, err
	}

	s.audit(models.AuditCheckClosed, p.EmployeeID, &check.ID, map[string]interface{}{
		"total": totals.Total,
		"paid":  paid,
	})
	s.broadcast(rvc.ID, "check.closed", check.ID)

	result.Closed = true
	return result, nil
}

// computeTotals walks the non-voided items applying each item's tax mode:
// inclusive prices carry their tax inside the subtotal, add-on tax (and
// items with no tax group, at rate zero) accumulates separately.
func (s *Service) computeTotals(items []models.CheckItem) (Totals, error) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	taxGroups := map[uint]*models.TaxGroup{}

	for _, item := range items {
		if item.Voided {
			continue
		}
		unit := decimal.NewFromFloat(item.UnitPrice)
		for _, m := range item.ModifierList() {
			unit = unit.Add(decimal.NewFromFloat(m.PriceDelta))
		}
		lineTotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		tg, err := s.taxGroupForItem(&item, taxGroups)
		if err != nil {
			return Totals{}, err
		}
		if tg == nil || tg.Mode != models.TaxModeInclusive {
			rate := decimal.Zero
			if tg != nil {
				rate = decimal.NewFromFloat(tg.Rate)
			}
			tax = tax.Add(lineTotal.Mul(rate))
		}
	}

	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	sub, _ := subtotal.Float64()
	tx, _ := tax.Float64()
	total, _ := subtotal.Add(tax).Float64()
	return Totals{Subtotal: sub, Tax: tx, Total: total}, nil
}

// taxGroupForItem resolves the item's tax group through its menu item,
// caching lookups for the duration of one recompute. Items without a menu
// item or tax group return nil.
func (s *Service) taxGroupForItem(item *models.CheckItem, cache map[uint]*models.TaxGroup) (*models.TaxGroup, error) {
	if item.MenuItemID == nil {
		return nil, nil
	}
	menuItem, err := s.store.GetMenuItem(*item.MenuItemID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if menuItem.TaxGroupID == nil {
		return nil, nil
	}
	if tg, ok := cache[*menuItem.TaxGroupID]; ok {
		return tg, nil
	}
	tg, err := s.store.GetTaxGroup(*menuItem.TaxGroupID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	cache[*menuItem.TaxGroupID] = tg
	return tg, nil
}
