package store

import (
	"math"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// ConsumeInventory takes stock out, flooring at zero. A usage record is
// appended even when the floor is hit; it keeps the requested quantity and
// the amount actually deducted, and marks the one consume that took the item
// to or below its threshold. Unknown items are a no-op.
func (s *HospitalStore) ConsumeInventory(itemID string, quantity int, admissionID string) (entities.InventoryItem, bool, error) {
	if quantity <= 0 {
		return entities.InventoryItem{}, false, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.itemIndex(itemID)
	if i < 0 {
		return entities.InventoryItem{}, false, nil
	}

	item := &s.inventory[i]
	wasLow := item.IsLowStock()
	deducted := min(quantity, item.CurrentStock)
	item.CurrentStock -= deducted
	item.UsageHistory = append(item.UsageHistory, entities.UsageRecord{
		Date:            s.now(),
		Quantity:        quantity,
		Deducted:        deducted,
		AdmissionID:     admissionID,
		CrossedLowStock: !wasLow && item.IsLowStock(),
	})
	return cloneItem(*item), true, nil
}

// Restock adds stock and refreshes the restock timestamp. Unknown items are
// a no-op; a quantity that would overflow the stock is rejected unchanged.
func (s *HospitalStore) Restock(itemID string, quantity int) (entities.InventoryItem, bool, error) {
	if quantity <= 0 {
		return entities.InventoryItem{}, false, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.itemIndex(itemID)
	if i < 0 {
		return entities.InventoryItem{}, false, nil
	}

	item := &s.inventory[i]
	if quantity > math.MaxInt-item.CurrentStock {
		return entities.InventoryItem{}, false, ErrStockOverflow
	}
	item.CurrentStock += quantity
	item.LastRestocked = s.now()
	return cloneItem(*item), true, nil
}

func (s *HospitalStore) itemIndex(id string) int {
	for i := range s.inventory {
		if s.inventory[i].ID == id {
			return i
		}
	}
	return -1
}

// InventoryItem returns an item by id.
func (s *HospitalStore) InventoryItem(id string) (entities.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.itemIndex(id); i >= 0 {
		return cloneItem(s.inventory[i]), true
	}
	return entities.InventoryItem{}, false
}

// Inventory returns every item in catalogue order.
func (s *HospitalStore) Inventory() []entities.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.InventoryItem, len(s.inventory))
	for i := range s.inventory {
		out[i] = cloneItem(s.inventory[i])
	}
	return out
}

// LowStockItems returns exactly the items whose stock is at or below their
// minimum threshold.
func (s *HospitalStore) LowStockItems() []entities.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entities.InventoryItem
	for i := range s.inventory {
		if s.inventory[i].IsLowStock() {
			out = append(out, cloneItem(s.inventory[i]))
		}
	}
	return out
}
