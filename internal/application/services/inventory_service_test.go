package services_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitalops/internal/adapters/reports"
	"github.com/zatekoja/hospitalops/internal/adapters/search"
	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
	"github.com/zatekoja/hospitalops/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

// MockInventoryIndex for testing
type MockInventoryIndex struct {
	mock.Mock
}

func (m *MockInventoryIndex) Index(ctx context.Context, items []entities.InventoryItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockInventoryIndex) Search(ctx context.Context, params repositories.InventorySearchParams) ([]string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestInventoryService_ConsumeRaisesLowStockAlert(t *testing.T) {
	s, _ := newTestStore(t)
	bus := newRecordingBus()
	service := services.NewInventoryService(s, newPublisher(bus), nil, nil)
	ctx := context.Background()

	item, applied, err := service.Consume(ctx, "INV-6", 30, "ADM-1")
	require.NoError(t, err)
	require.True(t, applied)
	assert.Equal(t, 15, item.CurrentStock)
	assert.True(t, item.LowStock)
	assert.Equal(t, entities.StockLevelLow, item.StockLevel)

	// already below threshold, no second alert
	_, _, err = service.Consume(ctx, "INV-6", 1, "")
	require.NoError(t, err)

	assert.Equal(t, []entities.HospitalEventType{
		entities.HospitalEventInventoryConsumed,
		entities.HospitalEventLowStockAlert,
		entities.HospitalEventInventoryConsumed,
	}, bus.eventTypes(providers.EventChannelHospitalUpdates))
}

func TestInventoryService_ConcurrentConsumesAlertOnce(t *testing.T) {
	s, _ := newTestStore(t)
	bus := newRecordingBus()
	service := services.NewInventoryService(s, newPublisher(bus), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := service.Consume(context.Background(), "INV-1", 25, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	alerts := 0
	for _, eventType := range bus.eventTypes(providers.EventChannelHospitalUpdates) {
		if eventType == entities.HospitalEventLowStockAlert {
			alerts++
		}
	}
	assert.Equal(t, 1, alerts)
}

func TestInventoryService_ConsumeFloorsAtZero(t *testing.T) {
	s, _ := newTestStore(t)
	service := services.NewInventoryService(s, nil, nil, nil)

	item, applied, err := service.Consume(context.Background(), "INV-5", 9999, "")

	require.NoError(t, err)
	require.True(t, applied)
	assert.Equal(t, 0, item.CurrentStock)
	assert.Equal(t, entities.StockLevelCritical, item.StockLevel)
	require.Len(t, item.UsageHistory, 1)
	assert.Equal(t, 9999, item.UsageHistory[0].Quantity)
	assert.Equal(t, 150, item.UsageHistory[0].Deducted)
}

func TestInventoryService_NoOpsAndValidation(t *testing.T) {
	s, _ := newTestStore(t)
	bus := newRecordingBus()
	service := services.NewInventoryService(s, newPublisher(bus), nil, nil)
	ctx := context.Background()

	_, applied, err := service.Consume(ctx, "INV-99", 1, "")
	require.NoError(t, err)
	assert.False(t, applied)

	_, _, err = service.Restock(ctx, "INV-1", 0)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, _, err = service.Consume(ctx, "INV-1", -3, "")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	assert.Empty(t, bus.eventTypes(providers.EventChannelHospitalUpdates))
}

func TestInventoryService_MutationsReindex(t *testing.T) {
	s, _ := newTestStore(t)
	index := new(MockInventoryIndex)
	index.On("Index", mock.Anything, mock.MatchedBy(func(items []entities.InventoryItem) bool {
		return len(items) == 1 && items[0].ID == "INV-6" && items[0].CurrentStock == 100
	})).Return(nil).Once()
	service := services.NewInventoryService(s, nil, index, nil)

	item, applied, err := service.Restock(context.Background(), "INV-6", 55)

	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 100, item.CurrentStock)
	index.AssertExpectations(t)
}

func TestInventoryService_Summaries(t *testing.T) {
	s, _ := newTestStore(t)
	service := services.NewInventoryService(s, nil, nil, nil)

	assert.Len(t, service.List(), 8)

	low := service.LowStock()
	require.Len(t, low, 1)
	assert.Equal(t, "INV-5", low[0].ID)

	watch := service.WatchList(6)
	require.Len(t, watch, 1)
	assert.Equal(t, "INV-5", watch[0].ID)

	assert.Equal(t, []services.CategorySummary{
		{Category: entities.CategoryMedicine, Items: 3, LowStock: 1},
		{Category: entities.CategoryConsumable, Items: 4, LowStock: 0},
		{Category: entities.CategoryEquipment, Items: 1, LowStock: 0},
	}, service.CategorySummary())
}

func TestInventoryService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("substring match without an index", func(t *testing.T) {
		s, _ := newTestStore(t)
		service := services.NewInventoryService(s, nil, nil, nil)

		items, err := service.Search(ctx, "SYR", "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "INV-8", items[0].ID)
	})

	t.Run("index results keep their order", func(t *testing.T) {
		s, _ := newTestStore(t)
		index := search.NewMemoryInventoryIndex()
		service := services.NewInventoryService(s, nil, index, nil)
		require.NoError(t, service.SyncIndex(ctx))

		items, err := service.Search(ctx, "", entities.CategoryMedicine)
		require.NoError(t, err)
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		assert.Equal(t, []string{"INV-2", "INV-5", "INV-1"}, ids)
	})

	t.Run("index failure is external", func(t *testing.T) {
		s, _ := newTestStore(t)
		index := new(MockInventoryIndex)
		index.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
		service := services.NewInventoryService(s, nil, index, nil)

		_, err := service.Search(ctx, "gloves", "")
		assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
	})

	t.Run("unknown category", func(t *testing.T) {
		s, _ := newTestStore(t)
		service := services.NewInventoryService(s, nil, nil, nil)

		_, err := service.Search(ctx, "", "food")
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}

func TestInventoryService_Export(t *testing.T) {
	s, _ := newTestStore(t)

	unconfigured := services.NewInventoryService(s, nil, nil, nil)
	assert.Error(t, unconfigured.Export(&bytes.Buffer{}))

	service := services.NewInventoryService(s, nil, nil, reports.ExcelInventoryReport{})
	var buf bytes.Buffer
	require.NoError(t, service.Export(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))

	contentType, ext := service.ReportContentType()
	assert.Equal(t, "xlsx", ext)
	assert.Contains(t, contentType, "spreadsheetml")
}
