package providers

import (
	"context"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelHospitalUpdates carries every state change of this hospital
	EventChannelHospitalUpdates = "hospital:updates"

	// EventChannelDepartmentPrefix is the prefix for department-specific channels
	EventChannelDepartmentPrefix = "department:"
)

// GetDepartmentChannel returns the channel name for a department
func GetDepartmentChannel(department string) string {
	return EventChannelDepartmentPrefix + entities.DepartmentKey(department)
}
