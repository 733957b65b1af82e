// Package capacityapi fetches capacity snapshots from peer hospitals over
// their public capacity endpoint.
package capacityapi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

const capacityPath = "/api/capacity"

// Options tunes the peer HTTP client
type Options struct {
	Timeout          time.Duration
	RetryCount       int
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultOptions returns the settings used in production
func DefaultOptions() Options {
	return Options{
		Timeout:          5 * time.Second,
		RetryCount:       2,
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
	}
}

// Client calls peer hospitals, one circuit breaker per peer
type Client struct {
	http     *resty.Client
	peers    map[string]string
	breakers map[string]*gobreaker.CircuitBreaker
}

var _ providers.PeerCapacityProvider = (*Client)(nil)

// NewClient creates a client for the given peer ID to base URL map
func NewClient(peers map[string]string, opts Options) *Client {
	httpClient := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json")

	c := &Client{
		http:     httpClient,
		peers:    make(map[string]string, len(peers)),
		breakers: make(map[string]*gobreaker.CircuitBreaker, len(peers)),
	}

	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 3
	}
	for id, baseURL := range peers {
		c.peers[id] = strings.TrimRight(baseURL, "/")
		c.breakers[id] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "peer-" + id,
			Timeout: opts.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Peer circuit breaker state changed")
			},
		})
	}
	return c
}

// Peers returns the configured peer hospital IDs in sorted order
func (c *Client) Peers() []string {
	ids := make([]string, 0, len(c.peers))
	for id := range c.peers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FetchCapacity gets the current capacity snapshot of a peer hospital
func (c *Client) FetchCapacity(ctx context.Context, hospitalID string) (*entities.CapacitySnapshot, error) {
	baseURL, ok := c.peers[hospitalID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown hospital %s", hospitalID))
	}

	result, err := c.breakers[hospitalID].Execute(func() (interface{}, error) {
		var snapshot entities.CapacitySnapshot
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&snapshot).
			Get(baseURL + capacityPath)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("peer responded with status %d", resp.StatusCode())
		}
		return &snapshot, nil
	})
	if err != nil {
		return nil, apperrors.NewExternalError(fmt.Sprintf("failed to fetch capacity from %s", hospitalID), err)
	}

	return result.(*entities.CapacitySnapshot), nil
}
