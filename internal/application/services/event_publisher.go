package services

import (
	"context"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
)

// EventPublisher stamps hospital events and sends them to the hospital-wide
// channel and the department channel. Publishing never fails the caller.
type EventPublisher struct {
	bus        providers.EventBus
	hospitalID string
	metrics    *observability.Metrics
}

// NewEventPublisher creates a publisher; bus may be nil to disable events
func NewEventPublisher(bus providers.EventBus, hospitalID string, metrics *observability.Metrics) *EventPublisher {
	return &EventPublisher{bus: bus, hospitalID: hospitalID, metrics: metrics}
}

// Publish emits one event
func (p *EventPublisher) Publish(ctx context.Context, eventType entities.HospitalEventType, entityID, department string, fields map[string]interface{}) {
	if p == nil || p.bus == nil {
		return
	}
	event := entities.NewHospitalEvent(p.hospitalID, eventType, entityID, department, fields)

	channels := []string{providers.EventChannelHospitalUpdates}
	if department != "" {
		channels = append(channels, providers.GetDepartmentChannel(department))
	}
	for _, channel := range channels {
		if err := p.bus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("channel", channel).
				Str("event_type", string(eventType)).
				Msg("Failed to publish hospital event")
		}
	}
	observability.RecordHospitalEvent(ctx, p.metrics, string(eventType), department)
}
