package orders

import (
	"testing"

	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/routing"
)

// fixture wires a Service against in-memory collaborators with one revenue
// center and one open check.
type fixture struct {
	store    *memStore
	resolver *stubResolver
	notifier *recordingNotifier
	svc      *Service
	rvc      *models.Rvc
	check    *models.Check
}

func newFixture(t *testing.T, dynamic bool) *fixture {
	t.Helper()
	st := newMemStore()
	st.rvcs[1] = &models.Rvc{ID: 1, PropertyID: 1, Name: "Dining Room", DynamicOrderMode: dynamic, DefaultOrderType: "dine_in"}
	st.tenders[1] = &models.Tender{ID: 1, PropertyID: 1, Name: "Cash", Kind: models.TenderCash, IsActive: true}

	resolver := &stubResolver{targets: map[uint][]routing.Target{}}
	notifier := &recordingNotifier{}
	svc := NewService(st, resolver, notifier)

	check, err := svc.CreateCheck(CreateCheckParams{RvcID: 1, EmployeeID: 10, TableLabel: "T1", GuestCount: 2})
	if err != nil {
		t.Fatalf("create check: %v", err)
	}
	return &fixture{store: st, resolver: resolver, notifier: notifier, svc: svc, rvc: st.rvcs[1], check: check}
}

// menuItem registers a menu item and optional routing targets for it
func (f *fixture) menuItem(t *testing.T, id uint, name string, price float64, taxGroupID *uint, targets ...routing.Target) {
	t.Helper()
	f.store.menuItems[id] = &models.MenuItem{
		ID: id, PropertyID: 1, Name: name, Price: price, TaxGroupID: taxGroupID, IsActive: true,
	}
	if len(targets) > 0 {
		f.resolver.targets[id] = targets
	}
}

// addItem puts a menu item on the fixture check
func (f *fixture) addItem(t *testing.T, menuItemID uint, qty int) *models.CheckItem {
	t.Helper()
	item, err := f.svc.AddItem(AddItemParams{
		CheckID:    f.check.ID,
		EmployeeID: 10,
		MenuItemID: menuItemID,
		Quantity:   qty,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	return item
}

func grillTarget() routing.Target {
	return routing.Target{KdsDeviceID: 100, KdsDeviceName: "Grill KDS", StationType: models.StationGrill, OrderDeviceID: 10, OrderDeviceName: "Grill"}
}

func expoTarget() routing.Target {
	return routing.Target{KdsDeviceID: 101, KdsDeviceName: "Expo KDS", StationType: models.StationExpo, OrderDeviceID: 11, OrderDeviceName: "Expo"}
}

// allTickets returns every stored ticket ordered by id
func (f *fixture) allTickets() []models.KdsTicket {
	var out []models.KdsTicket
	for i := uint(1); i <= f.store.nextID; i++ {
		if tk, ok := f.store.tickets[i]; ok {
			cp := *tk
			cp.Items = f.store.itemsOfTicket(tk.ID)
			out = append(out, cp)
		}
	}
	return out
}
