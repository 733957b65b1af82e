package repositories

import (
	"context"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// InventorySearchParams filters an inventory search
type InventorySearchParams struct {
	Query    string
	Category entities.InventoryCategory
	LowStock bool
	Limit    int
}

// InventorySearchRepository indexes and searches stock items
type InventorySearchRepository interface {
	// Index upserts items into the search index
	Index(ctx context.Context, items []entities.InventoryItem) error

	// Search returns the IDs of matching items, best match first
	Search(ctx context.Context, params InventorySearchParams) ([]string, error)
}
