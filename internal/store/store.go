// Package store holds the hospital's live operational state: the OPD queue,
// the bed inventory, admissions and stock levels.
//
// HospitalStore is the single writer for that state. Every mutation runs
// under the write lock and every query returns copies, so callers on
// concurrent request goroutines never observe a half-applied update.
package store

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

var (
	// ErrBedUnavailable is returned by CreateAdmission when the requested bed
	// does not exist or is not available.
	ErrBedUnavailable = apperrors.NewConflictError("selected bed is not available")

	// ErrInvalidQuantity is returned for non-positive stock quantities.
	ErrInvalidQuantity = apperrors.NewValidationError("quantity must be a positive integer")
	// ErrStockOverflow is returned when a restock would exceed the int range.
	ErrStockOverflow = apperrors.NewValidationError("restock quantity exceeds the stock limit")
)

// Options configures a HospitalStore. Zero values select production
// defaults.
type Options struct {
	// Seed drives queue priority assignment and seeded bed occupancy.
	Seed uint64
	// Now returns the current time.
	Now func() time.Time
	// NewID returns a fresh identifier with the given prefix.
	NewID func(prefix string) string
}

// HospitalStore owns the queue, beds, admissions and inventory collections.
type HospitalStore struct {
	mu sync.RWMutex

	queue      []entities.QueueEntry
	beds       []entities.Bed
	admissions []entities.Admission
	inventory  []entities.InventoryItem

	sequence uint64
	rng      *rand.Rand
	now      func() time.Time
	newID    func(prefix string) string
}

// New creates an empty store. Use Seed to install the standard bed and
// inventory layout.
func New(opts Options) *HospitalStore {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := opts.NewID
	if newID == nil {
		newID = func(prefix string) string { return prefix + "-" + uuid.New().String() }
	}
	return &HospitalStore{
		rng:   rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		now:   now,
		newID: newID,
	}
}

// State is a consistent copy of every collection, taken under one read lock.
type State struct {
	Queue      []entities.QueueEntry
	Beds       []entities.Bed
	Admissions []entities.Admission
	Inventory  []entities.InventoryItem
	TakenAt    time.Time
}

// Snapshot copies all four collections at a single point in time.
func (s *HospitalStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := State{
		Queue:      append([]entities.QueueEntry(nil), s.queue...),
		Beds:       append([]entities.Bed(nil), s.beds...),
		Admissions: cloneAdmissions(s.admissions),
		Inventory:  make([]entities.InventoryItem, len(s.inventory)),
		TakenAt:    s.now(),
	}
	for i := range s.inventory {
		state.Inventory[i] = cloneItem(s.inventory[i])
	}
	return state
}

// Now returns the store clock's current time.
func (s *HospitalStore) Now() time.Time {
	return s.now()
}

func cloneItem(item entities.InventoryItem) entities.InventoryItem {
	item.UsageHistory = append([]entities.UsageRecord(nil), item.UsageHistory...)
	return item
}

func cloneAdmissions(in []entities.Admission) []entities.Admission {
	out := make([]entities.Admission, len(in))
	for i, a := range in {
		if a.DischargedAt != nil {
			t := *a.DischargedAt
			a.DischargedAt = &t
		}
		out[i] = a
	}
	return out
}
