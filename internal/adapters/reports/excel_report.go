package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
)

const inventorySheet = "Inventory"

var inventoryHeaders = []string{
	"ID", "Name", "Category", "Current Stock", "Min Threshold", "Unit", "Stock Level", "Last Restocked", "Units Used",
}

var inventoryColumnWidths = []float64{10, 28, 14, 14, 14, 12, 12, 22, 12}

// ExcelInventoryReport renders the stock list as an .xlsx workbook
type ExcelInventoryReport struct{}

var _ providers.InventoryReportWriter = ExcelInventoryReport{}

// ContentType returns the workbook MIME type
func (ExcelInventoryReport) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileExtension returns the workbook extension
func (ExcelInventoryReport) FileExtension() string {
	return "xlsx"
}

// WriteInventoryReport writes one row per item, low stock rows highlighted
func (ExcelInventoryReport) WriteInventoryReport(w io.Writer, items []entities.InventoryItem) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(inventorySheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lowStockStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FDE2E1"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create low stock style: %w", err)
	}

	for col, header := range inventoryHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(inventorySheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(inventorySheet, name, name, inventoryColumnWidths[col]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(inventoryHeaders), 1)
	if err := f.SetCellStyle(inventorySheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i := range items {
		item := &items[i]
		row := i + 2
		used := 0
		for _, u := range item.UsageHistory {
			used += u.Deducted
		}
		values := []interface{}{
			item.ID,
			item.Name,
			string(item.Category),
			item.CurrentStock,
			item.MinThreshold,
			item.Unit,
			string(item.Level()),
			item.LastRestocked.Format("2006-01-02 15:04"),
			used,
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(inventorySheet, first, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if item.IsLowStock() {
			last, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(inventorySheet, first, last, lowStockStyle); err != nil {
				return fmt.Errorf("failed to style row %d: %w", row, err)
			}
		}
	}

	if err := f.SetPanes(inventorySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
