package entities

import "time"

// InventoryCategory groups stock items
type InventoryCategory string

const (
	CategoryMedicine   InventoryCategory = "medicine"
	CategoryConsumable InventoryCategory = "consumable"
	CategoryEquipment  InventoryCategory = "equipment"
)

// InventoryCategories lists every category in display order
var InventoryCategories = []InventoryCategory{CategoryMedicine, CategoryConsumable, CategoryEquipment}

// Valid reports whether c is a known category
func (c InventoryCategory) Valid() bool {
	switch c {
	case CategoryMedicine, CategoryConsumable, CategoryEquipment:
		return true
	}
	return false
}

// UsageRecord is one consumption entry. Quantity is what was requested,
// Deducted is what actually left stock after flooring at zero.
type UsageRecord struct {
	Date        time.Time `json:"date"`
	Quantity    int       `json:"quantity"`
	Deducted    int       `json:"deducted"`
	AdmissionID string    `json:"admissionId,omitempty"`

	// CrossedLowStock is set on the consume that made the item low stock
	CrossedLowStock bool `json:"crossedLowStock,omitempty"`
}

// InventoryItem is a stocked medicine, consumable or piece of equipment
type InventoryItem struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Category      InventoryCategory `json:"category"`
	CurrentStock  int               `json:"currentStock"`
	MinThreshold  int               `json:"minThreshold"`
	Unit          string            `json:"unit"`
	LastRestocked time.Time         `json:"lastRestocked"`
	UsageHistory  []UsageRecord     `json:"usageHistory"`
}

// IsLowStock reports whether stock is at or below the minimum threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.MinThreshold
}

// StockLevel buckets an item's stock relative to its threshold
type StockLevel string

const (
	StockLevelCritical StockLevel = "critical"
	StockLevelLow      StockLevel = "low"
	StockLevelModerate StockLevel = "moderate"
	StockLevelGood     StockLevel = "good"
)

// Stock level boundaries as multiples of the minimum threshold
const (
	stockRatioCritical = 0.5
	stockRatioLow      = 1.0
	stockRatioModerate = 1.5
)

// Level classifies the item's current stock against its threshold
func (i *InventoryItem) Level() StockLevel {
	stock := float64(i.CurrentStock)
	threshold := float64(i.MinThreshold)
	switch {
	case stock <= threshold*stockRatioCritical:
		return StockLevelCritical
	case stock <= threshold*stockRatioLow:
		return StockLevelLow
	case stock <= threshold*stockRatioModerate:
		return StockLevelModerate
	default:
		return StockLevelGood
	}
}
