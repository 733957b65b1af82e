package providers

import (
	"context"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// PeerCapacityProvider fetches capacity snapshots from peer hospitals
type PeerCapacityProvider interface {
	// FetchCapacity returns the current snapshot published by a peer
	FetchCapacity(ctx context.Context, hospitalID string) (*entities.CapacitySnapshot, error)

	// Peers lists the configured peer hospital IDs
	Peers() []string
}
