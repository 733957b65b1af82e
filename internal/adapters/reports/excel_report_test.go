package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

func TestExcelInventoryReport(t *testing.T) {
	restocked := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	items := []entities.InventoryItem{
		{ID: "INV-1", Name: "Paracetamol 500mg", Category: entities.CategoryMedicine, CurrentStock: 1500, MinThreshold: 500, Unit: "tablets", LastRestocked: restocked},
		{
			ID: "INV-5", Name: "Insulin 100IU/ml", Category: entities.CategoryMedicine, CurrentStock: 0, MinThreshold: 200, Unit: "vials", LastRestocked: restocked,
			UsageHistory: []entities.UsageRecord{{Quantity: 9999, Deducted: 150}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExcelInventoryReport{}.WriteInventoryReport(&buf, items))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventory"}, f.GetSheetList())

	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Current Stock", rows[0][3])
	assert.Equal(t, "INV-5", rows[2][0])
	assert.Equal(t, "critical", rows[2][6])
	assert.Equal(t, "2026-03-01 08:30", rows[2][7])
	assert.Equal(t, "150", rows[2][8])
}
