package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/repositories"
	tsclient "github.com/zatekoja/hospitalops/internal/infrastructure/clients/typesense"
)

const defaultSearchLimit = 20

// TypesenseInventoryIndex implements inventory search using Typesense
type TypesenseInventoryIndex struct {
	client *tsclient.Client
}

var _ repositories.InventorySearchRepository = (*TypesenseInventoryIndex)(nil)

// NewTypesenseInventoryIndex creates a new Typesense inventory index
func NewTypesenseInventoryIndex(client *tsclient.Client) *TypesenseInventoryIndex {
	return &TypesenseInventoryIndex{client: client}
}

// Index upserts items into the collection
func (a *TypesenseInventoryIndex) Index(ctx context.Context, items []entities.InventoryItem) error {
	documents := a.client.Client().Collection(tsclient.InventoryCollection).Documents()
	for i := range items {
		if _, err := documents.Upsert(ctx, inventoryDocument(&items[i])); err != nil {
			return fmt.Errorf("failed to index inventory item %s: %w", items[i].ID, err)
		}
	}
	return nil
}

// Search runs a typo-tolerant name search
func (a *TypesenseInventoryIndex) Search(ctx context.Context, params repositories.InventorySearchParams) ([]string, error) {
	q := strings.TrimSpace(params.Query)
	if q == "" {
		q = "*"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String("name"),
		PerPage: pointer.Int(limit),
	}
	if filter := buildInventoryFilter(params); filter != "" {
		searchParams.FilterBy = pointer.String(filter)
	}

	result, err := a.client.Client().Collection(tsclient.InventoryCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search inventory: %w", err)
	}

	ids := []string{}
	if result.Hits == nil {
		return ids, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if id, ok := (*hit.Document)["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func inventoryDocument(item *entities.InventoryItem) map[string]interface{} {
	return map[string]interface{}{
		"id":             item.ID,
		"name":           item.Name,
		"category":       string(item.Category),
		"unit":           item.Unit,
		"current_stock":  item.CurrentStock,
		"min_threshold":  item.MinThreshold,
		"low_stock":      item.IsLowStock(),
		"last_restocked": item.LastRestocked.Unix(),
	}
}

func buildInventoryFilter(params repositories.InventorySearchParams) string {
	var filters []string
	if params.Category != "" {
		filters = append(filters, "category:="+string(params.Category))
	}
	if params.LowStock {
		filters = append(filters, "low_stock:=true")
	}
	return strings.Join(filters, " && ")
}
