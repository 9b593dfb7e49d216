// Package orders implements the order check and kitchen ticket engine:
// round batching and per-device ticket fan-out, the dynamic-mode preview
// ticket lifecycle, and the checkout/tax computation that closes a check.
package orders

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/routing"
	"github.com/forkline-pos/forkline/internal/store"
	"github.com/google/uuid"
)

// TargetResolver answers which kitchen displays must see a menu item
type TargetResolver interface {
	ResolveTargetsForMenuItem(menuItemID, propertyID uint, rvcID, workstationID *uint) ([]routing.Target, error)
}

// Broadcaster pushes realtime update notifications to KDS clients. Delivery
// is fire-and-forget; it never blocks or fails the triggering operation.
type Broadcaster interface {
	BroadcastKdsUpdate(rvcID uint, event string, checkID uint)
}

// Service drives all state transitions on checks, rounds and tickets.
// Operations on one check are serialized through a per-check mutex so a
// simultaneous Send and Pay cannot interleave their read-decide-write
// sequences.
type Service struct {
	store    store.Store
	resolver TargetResolver
	notifier Broadcaster

	mu         sync.Mutex
	checkLocks map[uint]*sync.Mutex
}

// NewService creates the order engine
func NewService(st store.Store, resolver TargetResolver, notifier Broadcaster) *Service {
	return &Service{
		store:      st,
		resolver:   resolver,
		notifier:   notifier,
		checkLocks: make(map[uint]*sync.Mutex),
	}
}

// lockCheck acquires the per-check mutex and returns the unlock func.
// Lock entries are never evicted; a lock is a few dozen bytes and the
// number of distinct checks per process lifetime is bounded in practice.
func (s *Service) lockCheck(checkID uint) func() {
	s.mu.Lock()
	l, ok := s.checkLocks[checkID]
	if !ok {
		l = &sync.Mutex{}
		s.checkLocks[checkID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// audit appends an audit row. Audit writes never roll back the primary
// state change; a failure is logged and swallowed.
func (s *Service) audit(action string, employeeID uint, checkID *uint, details map[string]interface{}) {
	var raw []byte
	if details != nil {
		var err error
		raw, err = json.Marshal(details)
		if err != nil {
			log.Printf("audit: failed to marshal details for %s: %v", action, err)
		}
	}
	entry := &models.AuditLog{
		CorrelationID: uuid.New().String(),
		Action:        action,
		EmployeeID:    employeeID,
		CheckID:       checkID,
		Details:       raw,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.AppendAudit(entry); err != nil {
		log.Printf("audit: failed to append %s: %v", action, err)
	}
}

// broadcast notifies the check's revenue-center channel; the notifier also
// fans out to the "all" channel.
func (s *Service) broadcast(rvcID uint, event string, checkID uint) {
	if s.notifier != nil {
		s.notifier.BroadcastKdsUpdate(rvcID, event, checkID)
	}
}
