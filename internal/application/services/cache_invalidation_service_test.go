package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitalops/internal/adapters/cache"
	"github.com/zatekoja/hospitalops/internal/adapters/events"
	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
)

// MockCacheProvider for testing
type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	args := m.Called(ctx, key, value, expirationSeconds)
	return args.Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func TestCacheInvalidationService_InvalidateAggregates(t *testing.T) {
	c := new(MockCacheProvider)
	c.On("DeletePattern", mock.Anything, "http:cache:capacity:*").Return(nil).Once()
	c.On("DeletePattern", mock.Anything, "http:cache:dashboard:*").Return(nil).Once()
	service := services.NewCacheInvalidationService(c, events.NewLocalEventBus())

	require.NoError(t, service.InvalidateAggregates(context.Background()))
	c.AssertExpectations(t)
}

func TestCacheInvalidationService_InvalidateAggregatesError(t *testing.T) {
	c := new(MockCacheProvider)
	c.On("DeletePattern", mock.Anything, "http:cache:capacity:*").Return(errors.New("redis down"))
	service := services.NewCacheInvalidationService(c, events.NewLocalEventBus())

	err := service.InvalidateAggregates(context.Background())
	assert.ErrorContains(t, err, "http:cache:capacity:*")
	c.AssertNotCalled(t, "DeletePattern", mock.Anything, "http:cache:dashboard:*")
}

func TestCacheInvalidationService_DropsCachedResponsesOnEvent(t *testing.T) {
	lru, err := cache.NewLRUAdapter(100)
	require.NoError(t, err)
	bus := events.NewLocalEventBus()
	defer bus.Close()
	ctx := context.Background()

	require.NoError(t, lru.Set(ctx, "http:cache:capacity:abc", []byte("{}"), 60))
	require.NoError(t, lru.Set(ctx, "http:cache:dashboard:def", []byte("{}"), 60))
	require.NoError(t, lru.Set(ctx, "other:key", []byte("x"), 60))

	service := services.NewCacheInvalidationService(lru, bus)
	require.NoError(t, service.Start())
	defer service.Stop()

	event := entities.NewHospitalEvent(testHospitalID, entities.HospitalEventAdmissionCreated, "ADM-1", entities.DepartmentCardiology, nil)
	require.NoError(t, bus.Publish(ctx, providers.EventChannelHospitalUpdates, event))

	assert.Eventually(t, func() bool {
		capacity, _ := lru.Exists(ctx, "http:cache:capacity:abc")
		dashboard, _ := lru.Exists(ctx, "http:cache:dashboard:def")
		return !capacity && !dashboard
	}, time.Second, 10*time.Millisecond)

	other, err := lru.Exists(ctx, "other:key")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestCacheInvalidationService_StopWithoutStart(t *testing.T) {
	service := services.NewCacheInvalidationService(new(MockCacheProvider), events.NewLocalEventBus())
	service.Stop()
}
