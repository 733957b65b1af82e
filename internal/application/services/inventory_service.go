package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
	"github.com/zatekoja/hospitalops/internal/domain/repositories"
	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalops/internal/store"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

// watchListRatio selects items at or below 1.5x their threshold
const watchListRatio = 1.5

// ItemView is an inventory item with its derived stock level
type ItemView struct {
	entities.InventoryItem
	StockLevel entities.StockLevel `json:"stockLevel"`
	LowStock   bool                `json:"lowStock"`
}

func newItemView(item entities.InventoryItem) ItemView {
	return ItemView{InventoryItem: item, StockLevel: item.Level(), LowStock: item.IsLowStock()}
}

// CategorySummary counts items per category
type CategorySummary struct {
	Category entities.InventoryCategory `json:"category"`
	Items    int                        `json:"items"`
	LowStock int                        `json:"lowStock"`
}

// InventoryService manages stock levels
type InventoryService struct {
	store  *store.HospitalStore
	events *EventPublisher
	index  repositories.InventorySearchRepository
	report providers.InventoryReportWriter
}

// NewInventoryService creates a new inventory service
func NewInventoryService(s *store.HospitalStore, events *EventPublisher, index repositories.InventorySearchRepository, report providers.InventoryReportWriter) *InventoryService {
	return &InventoryService{store: s, events: events, index: index, report: report}
}

// SyncIndex pushes every item into the search index
func (s *InventoryService) SyncIndex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	if err := s.index.Index(ctx, s.store.Inventory()); err != nil {
		return apperrors.NewExternalError("failed to index inventory", err)
	}
	return nil
}

// Consume records usage against an item. Unknown ids are a no-op.
func (s *InventoryService) Consume(ctx context.Context, itemID string, quantity int, admissionID string) (ItemView, bool, error) {
	ctx, span := observability.StartSpan(ctx, "InventoryService.Consume")
	defer span.End()

	item, ok, err := s.store.ConsumeInventory(itemID, quantity, admissionID)
	if err != nil || !ok {
		return ItemView{}, false, err
	}

	last := item.UsageHistory[len(item.UsageHistory)-1]
	s.events.Publish(ctx, entities.HospitalEventInventoryConsumed, item.ID, "", map[string]interface{}{
		"quantity":      last.Quantity,
		"deducted":      last.Deducted,
		"current_stock": item.CurrentStock,
		"admission_id":  admissionID,
	})
	if last.CrossedLowStock {
		observability.LoggerFromContext(ctx).Warn().
			Str("item_id", item.ID).
			Int("current_stock", item.CurrentStock).
			Int("min_threshold", item.MinThreshold).
			Msg("Inventory item dropped below threshold")
		s.events.Publish(ctx, entities.HospitalEventLowStockAlert, item.ID, "", map[string]interface{}{
			"current_stock": item.CurrentStock,
			"min_threshold": item.MinThreshold,
		})
	}
	s.reindex(ctx, item)
	return newItemView(item), true, nil
}

// Restock adds stock to an item. Unknown ids are a no-op.
func (s *InventoryService) Restock(ctx context.Context, itemID string, quantity int) (ItemView, bool, error) {
	item, ok, err := s.store.Restock(itemID, quantity)
	if err != nil || !ok {
		return ItemView{}, false, err
	}

	s.events.Publish(ctx, entities.HospitalEventInventoryRestocked, item.ID, "", map[string]interface{}{
		"quantity":      quantity,
		"current_stock": item.CurrentStock,
	})
	s.reindex(ctx, item)
	return newItemView(item), true, nil
}

func (s *InventoryService) reindex(ctx context.Context, item entities.InventoryItem) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, []entities.InventoryItem{item}); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("item_id", item.ID).Msg("Failed to reindex inventory item")
	}
}

// List returns every item with its stock level
func (s *InventoryService) List() []ItemView {
	return toViews(s.store.Inventory())
}

// LowStock returns items at or below their minimum threshold
func (s *InventoryService) LowStock() []ItemView {
	return toViews(s.store.LowStockItems())
}

// WatchList returns up to limit items at or below 1.5x their threshold
func (s *InventoryService) WatchList(limit int) []ItemView {
	var out []ItemView
	for _, item := range s.store.Inventory() {
		if float64(item.CurrentStock) > float64(item.MinThreshold)*watchListRatio {
			continue
		}
		out = append(out, newItemView(item))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// CategorySummary counts items and low-stock items per category
func (s *InventoryService) CategorySummary() []CategorySummary {
	counts := make(map[entities.InventoryCategory]*CategorySummary)
	out := make([]CategorySummary, len(entities.InventoryCategories))
	for i, c := range entities.InventoryCategories {
		out[i].Category = c
		counts[c] = &out[i]
	}
	for _, item := range s.store.Inventory() {
		summary, ok := counts[item.Category]
		if !ok {
			continue
		}
		summary.Items++
		if item.IsLowStock() {
			summary.LowStock++
		}
	}
	return out
}

// Search finds items by name, optionally within a category
func (s *InventoryService) Search(ctx context.Context, query string, category entities.InventoryCategory) ([]ItemView, error) {
	if category != "" && !category.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown category %q", category))
	}

	if s.index == nil {
		q := strings.ToLower(strings.TrimSpace(query))
		var out []ItemView
		for _, item := range s.store.Inventory() {
			if category != "" && item.Category != category {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(item.Name), q) {
				continue
			}
			out = append(out, newItemView(item))
		}
		return out, nil
	}

	ids, err := s.index.Search(ctx, repositories.InventorySearchParams{Query: query, Category: category})
	if err != nil {
		return nil, apperrors.NewExternalError("inventory search failed", err)
	}
	out := make([]ItemView, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.store.InventoryItem(id); ok {
			out = append(out, newItemView(item))
		}
	}
	return out, nil
}

// Export writes the inventory report to w
func (s *InventoryService) Export(w io.Writer) error {
	if s.report == nil {
		return apperrors.NewInternalError("inventory export is not configured", nil)
	}
	if err := s.report.WriteInventoryReport(w, s.store.Inventory()); err != nil {
		return apperrors.NewInternalError("failed to write inventory report", err)
	}
	return nil
}

// ReportContentType returns the export MIME type and file extension
func (s *InventoryService) ReportContentType() (string, string) {
	if s.report == nil {
		return "application/octet-stream", "bin"
	}
	return s.report.ContentType(), s.report.FileExtension()
}

func toViews(items []entities.InventoryItem) []ItemView {
	out := make([]ItemView, len(items))
	for i, item := range items {
		out[i] = newItemView(item)
	}
	return out
}
