package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/repositories"
)

// MemoryInventoryIndex is a substring matcher used when Typesense is disabled
type MemoryInventoryIndex struct {
	mu    sync.RWMutex
	items map[string]entities.InventoryItem
}

var _ repositories.InventorySearchRepository = (*MemoryInventoryIndex)(nil)

// NewMemoryInventoryIndex creates an empty index
func NewMemoryInventoryIndex() *MemoryInventoryIndex {
	return &MemoryInventoryIndex{items: make(map[string]entities.InventoryItem)}
}

// Index stores the current state of items
func (m *MemoryInventoryIndex) Index(ctx context.Context, items []entities.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		m.items[item.ID] = item
	}
	return nil
}

// Search matches the query against item names, case-insensitively.
// Prefix matches rank ahead of other substring matches.
func (m *MemoryInventoryIndex) Search(ctx context.Context, params repositories.InventorySearchParams) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(params.Query))
	type match struct {
		id     string
		name   string
		prefix bool
	}
	var matches []match
	for _, item := range m.items {
		if params.Category != "" && item.Category != params.Category {
			continue
		}
		if params.LowStock && !item.IsLowStock() {
			continue
		}
		name := strings.ToLower(item.Name)
		if q != "" && !strings.Contains(name, q) {
			continue
		}
		matches = append(matches, match{id: item.ID, name: name, prefix: q != "" && strings.HasPrefix(name, q)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		return matches[i].name < matches[j].name
	})

	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	ids := []string{}
	for i := 0; i < len(matches) && i < limit; i++ {
		ids = append(ids, matches[i].id)
	}
	return ids, nil
}
