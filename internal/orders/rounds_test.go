package orders

import (
	"testing"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/models"
)

func TestSendFansOutPerDevice(t *testing.T) {
	f := newFixture(t, false)
	// Burger routes to grill and expo: one send must yield two tickets,
	// each carrying the item's ticket-item row.
	f.menuItem(t, 1, "Burger", 9.50, nil, grillTarget(), expoTarget())
	item := f.addItem(t, 1, 1)

	res, err := f.svc.Send(f.check.ID, 10, nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Round == nil || res.Round.RoundNumber != 1 {
		t.Fatalf("expected round 1, got %+v", res.Round)
	}

	tickets := f.allTickets()
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	for _, tk := range tickets {
		if tk.KdsDeviceID == nil {
			t.Errorf("fan-out ticket missing device id: %+v", tk)
		}
		if tk.RoundID == nil || *tk.RoundID != res.Round.ID {
			t.Errorf("ticket not attached to round: %+v", tk)
		}
		if len(tk.Items) != 1 || tk.Items[0].CheckItemID != item.ID {
			t.Errorf("ticket items wrong: %+v", tk.Items)
		}
	}

	sent, _ := f.store.GetCheckItem(item.ID)
	if !sent.Sent || sent.RoundID == nil || sent.Status != models.ItemStatusActive {
		t.Errorf("item not marked sent: %+v", sent)
	}
}

func TestSendUnroutedGetsOneFallbackTicket(t *testing.T) {
	f := newFixture(t, false)
	// No routing configured at any level for either item
	f.menuItem(t, 1, "Mystery Soup", 4.00, nil)
	f.menuItem(t, 2, "Mystery Bread", 2.00, nil)
	f.addItem(t, 1, 1)
	f.addItem(t, 2, 1)

	if _, err := f.svc.Send(f.check.ID, 10, nil); err != nil {
		t.Fatalf("send: %v", err)
	}

	tickets := f.allTickets()
	if len(tickets) != 1 {
		t.Fatalf("expected exactly 1 fallback ticket, got %d", len(tickets))
	}
	if !tickets[0].IsFallback() {
		t.Errorf("ticket should be fallback (no device id): %+v", tickets[0])
	}
	if len(tickets[0].Items) != 2 {
		t.Errorf("fallback should hold both items, got %d", len(tickets[0].Items))
	}
}

func TestRoundNumbersAreGapless(t *testing.T) {
	f := newFixture(t, false)
	f.menuItem(t, 1, "Coffee", 3.00, nil, expoTarget())

	for want := 1; want <= 3; want++ {
		f.addItem(t, 1, 1)
		res, err := f.svc.Send(f.check.ID, 10, nil)
		if err != nil {
			t.Fatalf("send %d: %v", want, err)
		}
		if res.Round.RoundNumber != want {
			t.Errorf("round number: got %d, want %d", res.Round.RoundNumber, want)
		}
	}
}

func TestFanOutConservation(t *testing.T) {
	f := newFixture(t, false)
	// Burger -> 2 devices, fries -> 1 device, soda -> unrouted
	f.menuItem(t, 1, "Burger", 9.50, nil, grillTarget(), expoTarget())
	f.menuItem(t, 2, "Fries", 3.50, nil, grillTarget())
	f.menuItem(t, 3, "Soda", 2.00, nil)
	f.addItem(t, 1, 1)
	f.addItem(t, 2, 1)
	f.addItem(t, 3, 1)

	if _, err := f.svc.Send(f.check.ID, 10, nil); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Sum of per-item target counts: 2 + 1 + 0 = 3 rows across
	// non-fallback tickets; no item silently dropped.
	routed := 0
	for _, tk := range f.allTickets() {
		if tk.IsFallback() {
			continue
		}
		routed += len(tk.Items)
	}
	if routed != 3 {
		t.Errorf("routed ticket-item rows: got %d, want 3", routed)
	}
}

func TestSendWithNothingPendingFails(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.Send(f.check.ID, 10, nil)
	if !apperrors.IsInvalidState(err) {
		t.Errorf("expected InvalidState, got %v", err)
	}
}

func TestSendExcludesVoidedItems(t *testing.T) {
	f := newFixture(t, false)
	f.menuItem(t, 1, "Burger", 9.50, nil, grillTarget())
	keep := f.addItem(t, 1, 1)
	gone := f.addItem(t, 1, 1)

	if _, err := f.svc.VoidItem(f.check.ID, gone.ID, 10, "wrong item", ""); err != nil {
		t.Fatalf("void: %v", err)
	}
	res, err := f.svc.Send(f.check.ID, 10, nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	tickets := f.allTickets()
	if len(tickets) != 1 || len(tickets[0].Items) != 1 || tickets[0].Items[0].CheckItemID != keep.ID {
		t.Errorf("voided item leaked into fan-out: %+v", tickets)
	}
	voided, _ := f.store.GetCheckItem(gone.ID)
	if voided.Sent || voided.RoundID != nil {
		t.Errorf("voided item must stay unsent: %+v", voided)
	}
	_ = res
}
