package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
)

const (
	heartbeatInterval = 30 * time.Second
	// reconnect hint sent to EventSource clients, in milliseconds
	streamRetryMillis = 5000
)

// SSEHandler streams hospital events to dashboards over Server-Sent Events
type SSEHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration

	mu      sync.Mutex
	clients map[string]int // bus channel -> open streams
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		heartbeat: heartbeatInterval,
		clients:   make(map[string]int),
	}
}

// StreamEvents handles SSE connections for hospital updates, optionally
// narrowed to one department
// GET /api/stream/events?department=X
func (h *SSEHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	channel := providers.EventChannelHospitalUpdates
	if department := r.URL.Query().Get("department"); department != "" {
		if !entities.IsKnownDepartment(department) {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("unknown department %q", department))
			return
		}
		channel = providers.GetDepartmentChannel(department)
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to channel")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	h.track(channel, 1)
	defer h.track(channel, -1)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "retry: %d\n\n", streamRetryMillis)
	writeSSE(w, "", "connected", map[string]interface{}{
		"channel":   channel,
		"timestamp": time.Now().UTC(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("channel", channel).Msg("Client disconnected from event stream")
			return
		case <-ticker.C:
			writeSSE(w, "", "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
		case event, ok := <-events:
			if !ok {
				// bus closed underneath us
				return
			}
			writeSSE(w, event.ID, string(event.EventType), event)
		}
		flusher.Flush()
	}
}

func (h *SSEHandler) track(channel string, delta int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[channel] += delta
	if h.clients[channel] <= 0 {
		delete(h.clients, channel)
	}
	log.Debug().Str("channel", channel).Int("clients", h.clients[channel]).Msg("Stream clients changed")
}

// writeSSE writes one event frame. id is omitted when empty.
func writeSSE(w io.Writer, id, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to marshal event data")
		return
	}

	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}

// GetClientCount returns the number of connected stream clients
func (h *SSEHandler) GetClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := 0
	for _, n := range h.clients {
		count += n
	}
	return count
}
