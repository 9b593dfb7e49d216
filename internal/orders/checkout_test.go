package orders

import (
	"math"
	"testing"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/models"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) < 0.0001
}

func (f *fixture) pay(t *testing.T, amount float64) *PaymentResult {
	t.Helper()
	res, err := f.svc.SubmitPayment(PaymentParams{
		CheckID:    f.check.ID,
		EmployeeID: 10,
		TenderID:   1,
		Amount:     amount,
	})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	return res
}

func TestInclusiveTaxStaysInSubtotal(t *testing.T) {
	f := newFixture(t, false)
	f.store.taxGroups[1] = &models.TaxGroup{ID: 1, Name: "VAT incl", Mode: models.TaxModeInclusive, Rate: 0.19}
	tg := uint(1)
	f.menuItem(t, 1, "Pils", 10.00, &tg, expoTarget())
	f.addItem(t, 1, 1)

	res := f.pay(t, 10.00)
	if !approx(res.Totals.Subtotal, 10.00) || !approx(res.Totals.Tax, 0) || !approx(res.Totals.Total, 10.00) {
		t.Errorf("inclusive totals wrong: %+v", res.Totals)
	}
	if !res.Closed {
		t.Error("check should close at full payment")
	}
}

func TestAddOnTaxAccumulatesSeparately(t *testing.T) {
	f := newFixture(t, false)
	f.store.taxGroups[1] = &models.TaxGroup{ID: 1, Name: "Sales tax", Mode: models.TaxModeAddOn, Rate: 0.08}
	tg := uint(1)
	f.menuItem(t, 1, "Steak", 10.00, &tg, grillTarget())
	f.addItem(t, 1, 1)

	res := f.pay(t, 10.80)
	if !approx(res.Totals.Subtotal, 10.00) || !approx(res.Totals.Tax, 0.80) || !approx(res.Totals.Total, 10.80) {
		t.Errorf("add-on totals wrong: %+v", res.Totals)
	}
	if !res.Closed {
		t.Error("check should close at full payment")
	}
}

func TestModifiersEnterTheItemTotal(t *testing.T) {
	f := newFixture(t, false)
	f.menuItem(t, 1, "Burger", 9.00, nil)
	f.store.menuItems[1].Modifiers = []models.Modifier{
		{ID: 100, MenuItemID: 1, Name: "Extra cheese", PriceDelta: 1.50},
	}
	item, err := f.svc.AddItem(AddItemParams{
		CheckID: f.check.ID, EmployeeID: 10, MenuItemID: 1, Quantity: 2, ModifierIDs: []uint{100},
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if !approx(item.LineTotal(), 21.00) {
		t.Errorf("line total: got %.2f, want 21.00", item.LineTotal())
	}

	res := f.pay(t, 21.00)
	if !approx(res.Totals.Subtotal, 21.00) {
		t.Errorf("subtotal: got %.2f, want 21.00", res.Totals.Subtotal)
	}
}

func TestCloseBoundary(t *testing.T) {
	// total=25.00: paid 24.99 stays open, paid 24.995 closes
	f := newFixture(t, false)
	f.menuItem(t, 1, "Platter", 25.00, nil, grillTarget())
	f.addItem(t, 1, 1)

	res := f.pay(t, 24.99)
	if res.Closed {
		t.Fatal("24.99 against 25.00 must keep the check open")
	}
	check, _ := f.store.GetCheck(f.check.ID)
	if !check.IsOpen() {
		t.Fatal("check closed prematurely")
	}

	f2 := newFixture(t, false)
	f2.menuItem(t, 1, "Platter", 25.00, nil, grillTarget())
	f2.addItem(t, 1, 1)
	res = f2.pay(t, 24.995)
	if !res.Closed {
		t.Fatal("24.995 against 25.00 must close the check")
	}
}

func TestCloseAutoSendsAndMarksPaid(t *testing.T) {
	f := newFixture(t, false)
	f.menuItem(t, 1, "Burger", 10.00, nil, grillTarget())
	item := f.addItem(t, 1, 1)

	res := f.pay(t, 10.00)
	if !res.Closed {
		t.Fatal("check should close")
	}

	// The unsent item was flushed in an automatic round
	sent, _ := f.store.GetCheckItem(item.ID)
	if !sent.Sent {
		t.Error("item should be auto-sent on close")
	}
	if n, _ := f.store.CountRounds(f.check.ID); n != 1 {
		t.Errorf("expected 1 auto round, got %d", n)
	}
	for _, r := range f.store.rounds {
		if !r.Auto {
			t.Errorf("payment-triggered round must be tagged auto: %+v", r)
		}
	}
	for _, tk := range f.allTickets() {
		if !tk.Paid {
			t.Errorf("ticket not marked paid: %+v", tk)
		}
	}

	check, _ := f.store.GetCheck(f.check.ID)
	if check.Status != models.CheckStatusClosed || check.ClosedAt == nil {
		t.Errorf("check not closed: %+v", check)
	}
	if !approx(check.Total, 10.00) {
		t.Errorf("persisted total: got %.2f, want 10.00", check.Total)
	}
}

func TestPartialPaymentKeepsCheckOpen(t *testing.T) {
	f := newFixture(t, false)
	f.menuItem(t, 1, "Burger", 10.00, nil, grillTarget())
	item := f.addItem(t, 1, 1)

	res := f.pay(t, 4.00)
	if res.Closed {
		t.Fatal("partial payment must not close")
	}
	if !approx(res.Paid, 4.00) {
		t.Errorf("paid: got %.2f, want 4.00", res.Paid)
	}
	// Nothing sent, nothing paid on tickets
	it, _ := f.store.GetCheckItem(item.ID)
	if it.Sent {
		t.Error("partial payment must not auto-send")
	}

	// Second payment covers the rest and closes
	res = f.pay(t, 6.00)
	if !res.Closed {
		t.Error("cumulative payments should close the check")
	}
}

func TestPaymentOnClosedCheckFails(t *testing.T) {
	f := newFixture(t, false)
	f.menuItem(t, 1, "Burger", 10.00, nil, grillTarget())
	f.addItem(t, 1, 1)
	f.pay(t, 10.00)

	_, err := f.svc.SubmitPayment(PaymentParams{CheckID: f.check.ID, EmployeeID: 10, TenderID: 1, Amount: 5})
	if !apperrors.IsInvalidState(err) {
		t.Errorf("expected InvalidState, got %v", err)
	}
}

func TestDynamicPaymentFinalizesPreview(t *testing.T) {
	f := newFixture(t, true)
	f.menuItem(t, 1, "Ramen", 12.00, nil)
	f.addItem(t, 1, 1)

	res := f.pay(t, 12.00)
	if !res.Closed {
		t.Fatal("check should close")
	}
	tickets := f.allTickets()
	if len(tickets) != 1 {
		t.Fatalf("expected the single promoted preview ticket, got %d", len(tickets))
	}
	tk := tickets[0]
	if tk.IsPreview || tk.RoundID == nil || !tk.Paid {
		t.Errorf("preview not promoted and paid: %+v", tk)
	}
	// Promotion, not fan-out: the round exists and the items are sent
	if n, _ := f.store.CountRounds(f.check.ID); n != 1 {
		t.Errorf("expected exactly 1 round, got %d", n)
	}
}

func TestVoidedItemsDropOutOfTotals(t *testing.T) {
	f := newFixture(t, false)
	f.menuItem(t, 1, "Burger", 10.00, nil, grillTarget())
	f.menuItem(t, 2, "Fries", 4.00, nil, grillTarget())
	f.addItem(t, 1, 1)
	fries := f.addItem(t, 2, 1)
	if _, err := f.svc.VoidItem(f.check.ID, fries.ID, 10, "dropped", ""); err != nil {
		t.Fatalf("void: %v", err)
	}

	res := f.pay(t, 10.00)
	if !approx(res.Totals.Total, 10.00) {
		t.Errorf("voided item still in total: %+v", res.Totals)
	}
	if !res.Closed {
		t.Error("payment covering live items should close")
	}
}
