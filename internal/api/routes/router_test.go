package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitalops/internal/adapters/cache"
	"github.com/zatekoja/hospitalops/internal/adapters/database"
	"github.com/zatekoja/hospitalops/internal/adapters/events"
	"github.com/zatekoja/hospitalops/internal/adapters/reports"
	"github.com/zatekoja/hospitalops/internal/api/handlers"
	"github.com/zatekoja/hospitalops/internal/api/middleware"
	"github.com/zatekoja/hospitalops/internal/api/routes"
	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := store.New(store.Options{Seed: 1})
	s.Seed(0)

	bus := events.NewLocalEventBus()
	lru, err := cache.NewLRUAdapter(64)
	require.NoError(t, err)

	publisher := services.NewEventPublisher(bus, "HSP-001", nil)
	admissions := services.NewAdmissionService(s, publisher, "HSP-001")
	capacity := services.NewCapacityService(s, services.CapacityConfig{HospitalID: "HSP-001", HospitalName: "City General"}, nil, nil)
	stream := handlers.NewSSEHandler(bus)

	invalidation := services.NewCacheInvalidationService(lru, bus)
	require.NoError(t, invalidation.Start())

	router := routes.NewRouter(routes.Handlers{
		Health:     handlers.NewHealthHandler("HSP-001", stream),
		Queue:      handlers.NewQueueHandler(services.NewQueueService(s, publisher)),
		Beds:       handlers.NewBedHandler(admissions),
		Admissions: handlers.NewAdmissionHandler(admissions),
		Inventory:  handlers.NewInventoryHandler(services.NewInventoryService(s, publisher, nil, reports.ExcelInventoryReport{})),
		Capacity:   handlers.NewCapacityHandler(capacity, services.NewSnapshotArchiver(capacity, database.NewMemorySnapshotAdapter(0), time.Minute)),
		Dashboard:  handlers.NewDashboardHandler(services.NewDashboardService(s)),
		Stream:     stream,
	}, middleware.NewCacheMiddleware(lru, 60, nil), nil, nil)

	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(func() {
		server.Close()
		invalidation.Stop()
		_ = bus.Close()
	})
	return server
}

func do(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestRouter_Endpoints(t *testing.T) {
	server := newTestServer(t)

	routes := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/queue", http.StatusOK},
		{http.MethodGet, "/api/queue/wait-times", http.StatusOK},
		{http.MethodDelete, "/api/queue/PAT-x", http.StatusOK},
		{http.MethodGet, "/api/beds", http.StatusOK},
		{http.MethodGet, "/api/beds/available", http.StatusOK},
		{http.MethodGet, "/api/admissions", http.StatusOK},
		{http.MethodGet, "/api/admissions/discharges", http.StatusOK},
		{http.MethodPost, "/api/admissions/ADM-x/discharge", http.StatusOK},
		{http.MethodGet, "/api/inventory", http.StatusOK},
		{http.MethodGet, "/api/inventory/low-stock", http.StatusOK},
		{http.MethodGet, "/api/inventory/categories", http.StatusOK},
		{http.MethodGet, "/api/inventory/search?q=ins", http.StatusOK},
		{http.MethodGet, "/api/capacity", http.StatusOK},
		{http.MethodGet, "/api/capacity/citywide", http.StatusOK},
		{http.MethodGet, "/api/capacity/history", http.StatusOK},
		{http.MethodGet, "/api/dashboard", http.StatusOK},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
		{http.MethodPut, "/api/queue", http.StatusMethodNotAllowed},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			resp, _ := do(t, rt.method, server.URL+rt.path, nil)
			assert.Equal(t, rt.status, resp.StatusCode)
		})
	}
}

func TestRouter_AdmissionInvalidatesCachedCapacity(t *testing.T) {
	server := newTestServer(t)

	resp, before := do(t, http.MethodGet, server.URL+"/api/capacity", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, server.URL+"/api/capacity", nil)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	cardiology := before["bedAvailability"].(map[string]interface{})["cardiology"].(map[string]interface{})
	assert.Equal(t, float64(10), cardiology["available"])

	resp, _ = do(t, http.MethodPost, server.URL+"/api/admissions", map[string]string{
		"patientId": "PAT-1", "patientName": "Ada", "department": "Cardiology", "bedId": "BED-0-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, server.URL+"/api/admissions", map[string]string{
		"patientId": "PAT-2", "patientName": "Bola", "department": "Cardiology", "bedId": "BED-0-1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	assert.Eventually(t, func() bool {
		resp, after := do(t, http.MethodGet, server.URL+"/api/capacity", nil)
		if resp.Header.Get("X-Cache") != "MISS" {
			return false
		}
		cardiology := after["bedAvailability"].(map[string]interface{})["cardiology"].(map[string]interface{})
		return cardiology["available"] == float64(9)
	}, 2*time.Second, 20*time.Millisecond)
}
