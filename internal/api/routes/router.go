package routes

import (
	"net/http"

	"github.com/zatekoja/hospitalops/internal/api/handlers"
	"github.com/zatekoja/hospitalops/internal/api/middleware"
	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
)

// Handlers groups every route handler
type Handlers struct {
	Health     *handlers.HealthHandler
	Queue      *handlers.QueueHandler
	Beds       *handlers.BedHandler
	Admissions *handlers.AdmissionHandler
	Inventory  *handlers.InventoryHandler
	Capacity   *handlers.CapacityHandler
	Dashboard  *handlers.DashboardHandler
	Stream     *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	handlers       Handlers
	allowedOrigins []string

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router; cacheMiddleware may be nil
func NewRouter(h Handlers, cacheMiddleware *middleware.CacheMiddleware, allowedOrigins []string, metrics *observability.Metrics) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		handlers:        h,
		allowedOrigins:  allowedOrigins,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	h := r.handlers

	r.mux.HandleFunc("GET /health", h.Health.Health)

	// OPD queue
	r.mux.HandleFunc("GET /api/queue", h.Queue.ListQueue)
	r.mux.HandleFunc("POST /api/queue", h.Queue.CheckIn)
	r.mux.HandleFunc("GET /api/queue/wait-times", h.Queue.WaitTimes)
	r.mux.HandleFunc("PATCH /api/queue/{id}/status", h.Queue.UpdateStatus)
	r.mux.HandleFunc("DELETE /api/queue/{id}", h.Queue.RemovePatient)

	// Beds
	r.mux.HandleFunc("GET /api/beds", h.Beds.ListBeds)
	r.mux.HandleFunc("GET /api/beds/available", h.Beds.AvailableBeds)
	r.mux.HandleFunc("PATCH /api/beds/{id}", h.Beds.UpdateBed)

	// Admissions
	r.mux.HandleFunc("GET /api/admissions", h.Admissions.ListAdmissions)
	r.mux.HandleFunc("POST /api/admissions", h.Admissions.CreateAdmission)
	r.mux.HandleFunc("GET /api/admissions/discharges", h.Admissions.RecentDischarges)
	r.mux.HandleFunc("POST /api/admissions/{id}/discharge", h.Admissions.Discharge)

	// Inventory
	r.mux.HandleFunc("GET /api/inventory", h.Inventory.ListInventory)
	r.mux.HandleFunc("GET /api/inventory/low-stock", h.Inventory.LowStock)
	r.mux.HandleFunc("GET /api/inventory/categories", h.Inventory.Categories)
	r.mux.HandleFunc("GET /api/inventory/search", h.Inventory.Search)
	r.mux.HandleFunc("GET /api/inventory/export", h.Inventory.Export)
	r.mux.HandleFunc("POST /api/inventory/{id}/consume", h.Inventory.Consume)
	r.mux.HandleFunc("POST /api/inventory/{id}/restock", h.Inventory.Restock)

	// Inter-hospital capacity
	r.mux.HandleFunc("GET /api/capacity", h.Capacity.GetCapacity)
	r.mux.HandleFunc("GET /api/capacity/citywide", h.Capacity.CityWide)
	r.mux.HandleFunc("GET /api/capacity/history", h.Capacity.History)

	r.mux.HandleFunc("GET /api/dashboard", h.Dashboard.GetDashboard)

	// Real-time updates
	r.mux.HandleFunc("GET /api/stream/events", h.Stream.StreamEvents)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
