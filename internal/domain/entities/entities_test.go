package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepartmentKey(t *testing.T) {
	assert.Equal(t, "cardiology", DepartmentKey(DepartmentCardiology))
	assert.Equal(t, "generalMedicine", DepartmentKey(DepartmentGeneralMedicine))
	assert.Equal(t, "emergency", DepartmentKey(DepartmentEmergency))
}

func TestInventoryItem_Level(t *testing.T) {
	tests := []struct {
		stock int
		want  StockLevel
	}{
		{stock: 0, want: StockLevelCritical},
		{stock: 100, want: StockLevelCritical},
		{stock: 150, want: StockLevelLow},
		{stock: 200, want: StockLevelLow},
		{stock: 300, want: StockLevelModerate},
		{stock: 301, want: StockLevelGood},
	}
	for _, tt := range tests {
		item := InventoryItem{CurrentStock: tt.stock, MinThreshold: 200}
		assert.Equal(t, tt.want, item.Level(), "stock %d", tt.stock)
	}
}

func TestInventoryItem_IsLowStock(t *testing.T) {
	assert.True(t, (&InventoryItem{CurrentStock: 200, MinThreshold: 200}).IsLowStock())
	assert.False(t, (&InventoryItem{CurrentStock: 201, MinThreshold: 200}).IsLowStock())
}

func TestClassifyWaitAndOccupancy(t *testing.T) {
	assert.Equal(t, WaitLevelNormal, ClassifyWait(30))
	assert.Equal(t, WaitLevelHigh, ClassifyWait(31))
	assert.Equal(t, WaitLevelCritical, ClassifyWait(60))

	assert.Equal(t, OccupancyLevelLow, ClassifyOccupancy(49))
	assert.Equal(t, OccupancyLevelModerate, ClassifyOccupancy(70))
	assert.Equal(t, OccupancyLevelHigh, ClassifyOccupancy(85))
	assert.Equal(t, OccupancyLevelCritical, ClassifyOccupancy(95))
}

func TestCapacitySnapshot_Totals(t *testing.T) {
	s := CapacitySnapshot{BedAvailability: map[string]BedAvailability{
		"cardiology": {Total: 10, Available: 4},
		"emergency":  {Total: 15, Available: 6},
	}}
	total, available := s.Totals()
	assert.Equal(t, 25, total)
	assert.Equal(t, 10, available)
}
