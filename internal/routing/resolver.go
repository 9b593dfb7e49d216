// Package routing resolves which kitchen-display devices must see a menu
// item. Routing rules live at three specificity levels (revenue center,
// property, global); resolution walks them in order and the first non-empty
// level wins outright. Levels are never merged. An item that resolves to
// nothing is unrouted, which is a valid outcome, not an error.
package routing

import "github.com/forkline-pos/forkline/internal/models"

// Store is the slice of persistence the resolver needs.
type Store interface {
	RvcRoutes(printClassID, rvcID uint) ([]models.PrintClassRouting, error)
	PropertyRoutes(printClassID, propertyID uint) ([]models.PrintClassRouting, error)
	GlobalRoutes(printClassID uint) ([]models.PrintClassRouting, error)
	GetWorkstation(id uint) (*models.Workstation, error)
	WorkstationDeviceIDs(workstationID uint) ([]uint, error)
	GetMenuItem(id uint) (*models.MenuItem, error)
	GetOrderDevice(id uint) (*models.OrderDevice, error)
}

// Target is one kitchen display that must receive an item, with the
// display metadata a ticket needs.
type Target struct {
	KdsDeviceID     uint               `json:"kds_device_id"`
	KdsDeviceName   string             `json:"kds_device_name"`
	StationType     models.StationType `json:"station_type"`
	OrderDeviceID   uint               `json:"order_device_id"`
	OrderDeviceName string             `json:"order_device_name"`
}

// Resolver answers "which devices see this item" questions.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver backed by the given store
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveOrderDevices returns the order-device ids configured for a print
// class, trying rvc-level, then property-level, then global rules. The
// first level with any rules wins; an empty result at all levels means
// unrouted.
func (r *Resolver) ResolveOrderDevices(printClassID, propertyID uint, rvcID *uint) ([]uint, error) {
	scopes := []func() ([]models.PrintClassRouting, error){}
	if rvcID != nil {
		id := *rvcID
		scopes = append(scopes, func() ([]models.PrintClassRouting, error) {
			return r.store.RvcRoutes(printClassID, id)
		})
	}
	scopes = append(scopes,
		func() ([]models.PrintClassRouting, error) {
			return r.store.PropertyRoutes(printClassID, propertyID)
		},
		func() ([]models.PrintClassRouting, error) {
			return r.store.GlobalRoutes(printClassID)
		},
	)

	for _, lookup := range scopes {
		routes, err := lookup()
		if err != nil {
			return nil, err
		}
		if len(routes) == 0 {
			continue
		}
		ids := make([]uint, 0, len(routes))
		for _, route := range routes {
			ids = append(ids, route.OrderDeviceID)
		}
		return ids, nil
	}
	return nil, nil
}

// WorkstationAllowSet returns the set of order-device ids a workstation may
// route to, or nil when the workstation applies no filter (default
// workstation or no explicit assignments).
func (r *Resolver) WorkstationAllowSet(workstationID uint) (map[uint]bool, error) {
	ws, err := r.store.GetWorkstation(workstationID)
	if err != nil {
		return nil, err
	}
	if ws.IsDefault {
		return nil, nil
	}
	ids, err := r.store.WorkstationDeviceIDs(workstationID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	allow := make(map[uint]bool, len(ids))
	for _, id := range ids {
		allow[id] = true
	}
	return allow, nil
}

// ResolveTargetsForMenuItem expands a menu item into the kitchen displays
// that must see it. An item without a print class returns no targets. Order
// devices without a linked or active KDS device are skipped. Result order
// mirrors the configured rule order.
func (r *Resolver) ResolveTargetsForMenuItem(menuItemID, propertyID uint, rvcID, workstationID *uint) ([]Target, error) {
	item, err := r.store.GetMenuItem(menuItemID)
	if err != nil {
		return nil, err
	}
	if item.PrintClassID == nil {
		return nil, nil
	}

	deviceIDs, err := r.ResolveOrderDevices(*item.PrintClassID, propertyID, rvcID)
	if err != nil {
		return nil, err
	}

	var allow map[uint]bool
	if workstationID != nil {
		allow, err = r.WorkstationAllowSet(*workstationID)
		if err != nil {
			return nil, err
		}
	}

	targets := make([]Target, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		if allow != nil && !allow[id] {
			continue
		}
		od, err := r.store.GetOrderDevice(id)
		if err != nil {
			return nil, err
		}
		if od.KdsDeviceID == nil || od.KdsDevice == nil || !od.KdsDevice.IsActive {
			continue
		}
		targets = append(targets, Target{
			KdsDeviceID:     *od.KdsDeviceID,
			KdsDeviceName:   od.KdsDevice.Name,
			StationType:     od.KdsDevice.StationType,
			OrderDeviceID:   od.ID,
			OrderDeviceName: od.Name,
		})
	}
	return targets, nil
}
