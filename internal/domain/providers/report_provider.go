package providers

import (
	"io"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// InventoryReportWriter renders an inventory report to w
type InventoryReportWriter interface {
	WriteInventoryReport(w io.Writer, items []entities.InventoryItem) error
	ContentType() string
	FileExtension() string
}
