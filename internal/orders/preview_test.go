package orders

import (
	"testing"

	"github.com/forkline-pos/forkline/internal/models"
)

func TestDynamicAddBuildsOnePreviewTicket(t *testing.T) {
	f := newFixture(t, true)
	f.menuItem(t, 1, "Ramen", 12.00, nil, grillTarget())
	f.menuItem(t, 2, "Gyoza", 6.00, nil, grillTarget())
	a := f.addItem(t, 1, 1)
	b := f.addItem(t, 2, 1)

	tickets := f.allTickets()
	if len(tickets) != 1 {
		t.Fatalf("expected 1 preview ticket, got %d", len(tickets))
	}
	pv := tickets[0]
	if !pv.IsPreview || pv.RoundID != nil {
		t.Errorf("ticket should be a roundless preview: %+v", pv)
	}
	if len(pv.Items) != 2 {
		t.Errorf("preview should carry both items, got %d", len(pv.Items))
	}
	for _, id := range []uint{a.ID, b.ID} {
		item, _ := f.store.GetCheckItem(id)
		if item.Sent {
			t.Errorf("preview items must stay unsent: %+v", item)
		}
	}
}

func TestAddItemToPreviewIsIdempotent(t *testing.T) {
	f := newFixture(t, true)
	f.menuItem(t, 1, "Ramen", 12.00, nil)
	item := f.addItem(t, 1, 1)

	// Re-attaching the same item must not duplicate the association
	if err := f.svc.AddItemToPreview(f.check.ID, item.ID); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	tickets := f.allTickets()
	if len(tickets) != 1 {
		t.Fatalf("expected 1 preview ticket, got %d", len(tickets))
	}
	if len(tickets[0].Items) != 1 {
		t.Errorf("expected exactly 1 ticket-item, got %d", len(tickets[0].Items))
	}
}

func TestFinalizePromotesPreviewInPlace(t *testing.T) {
	f := newFixture(t, true)
	f.menuItem(t, 1, "Ramen", 12.00, nil)
	f.menuItem(t, 2, "Gyoza", 6.00, nil)
	f.addItem(t, 1, 1)
	f.addItem(t, 2, 1)

	before := f.allTickets()
	if len(before) != 1 {
		t.Fatalf("precondition: 1 preview ticket, got %d", len(before))
	}
	previewID := before[0].ID

	res, err := f.svc.FinalizePreview(f.check.ID, 10)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if res == nil || res.Round == nil || res.Round.RoundNumber != 1 {
		t.Fatalf("expected round 1, got %+v", res)
	}

	after := f.allTickets()
	if len(after) != 1 {
		t.Fatalf("finalize must not create tickets, got %d", len(after))
	}
	tk := after[0]
	if tk.ID != previewID {
		t.Errorf("promotion must reuse the preview ticket: got %d, want %d", tk.ID, previewID)
	}
	if tk.IsPreview || tk.RoundID == nil || *tk.RoundID != res.Round.ID {
		t.Errorf("ticket not committed: %+v", tk)
	}
	for _, it := range res.Items {
		if !it.Sent || it.Status != models.ItemStatusActive {
			t.Errorf("item not sent after finalize: %+v", it)
		}
	}
}

func TestFinalizeWithoutPreviewIsNoop(t *testing.T) {
	f := newFixture(t, true)
	res, err := f.svc.FinalizePreview(f.check.ID, 10)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}
}

func TestFinalizeEmptiedPreviewJustClears(t *testing.T) {
	f := newFixture(t, true)
	f.menuItem(t, 1, "Ramen", 12.00, nil)
	item := f.addItem(t, 1, 1)
	if _, err := f.svc.VoidItem(f.check.ID, item.ID, 10, "changed mind", ""); err != nil {
		t.Fatalf("void: %v", err)
	}

	res, err := f.svc.FinalizePreview(f.check.ID, 10)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if res != nil {
		t.Errorf("emptied preview must return nil, got %+v", res)
	}

	if n, _ := f.store.CountRounds(f.check.ID); n != 0 {
		t.Errorf("no round should exist, got %d", n)
	}
	tickets := f.allTickets()
	if len(tickets) != 1 || tickets[0].IsPreview {
		t.Errorf("preview flag must be cleared: %+v", tickets)
	}
	if pv, _ := f.store.GetPreviewTicket(f.check.ID); pv != nil {
		t.Errorf("no live preview should remain")
	}
}

func TestSendOnDynamicRvcFinalizes(t *testing.T) {
	f := newFixture(t, true)
	f.menuItem(t, 1, "Ramen", 12.00, nil)
	f.addItem(t, 1, 1)

	res, err := f.svc.Send(f.check.ID, 10, nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Round == nil || res.Round.RoundNumber != 1 {
		t.Fatalf("expected finalize round, got %+v", res)
	}
	tickets := f.allTickets()
	if len(tickets) != 1 || tickets[0].IsPreview {
		t.Errorf("send must promote the preview, not fan out: %+v", tickets)
	}
}

func TestTicketCommitIsOneWay(t *testing.T) {
	tk := &models.KdsTicket{IsPreview: true}
	round := uint(7)
	if err := tk.Commit(&round); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if err := tk.Commit(&round); err == nil {
		t.Error("second commit must fail")
	}
}
