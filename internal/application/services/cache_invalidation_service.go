package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
)

// CacheInvalidationService drops cached aggregate responses whenever
// hospital state changes
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	groups   []string
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		groups:   []string{providers.CacheGroupCapacity, providers.CacheGroupDashboard},
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelHospitalUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to hospital updates: %w", err)
	}

	s.started = true
	go s.processEvents(eventChan)
	log.Info().Strs("groups", s.groups).Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service and waits for the event loop
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	if s.started {
		<-s.done
	}
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.HospitalEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.HospitalEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.InvalidateAggregates(ctx); err != nil {
		log.Warn().Err(err).
			Str("event_id", event.ID).
			Str("event_type", string(event.EventType)).
			Msg("Cache invalidation failed")
		return
	}
	log.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.EventType)).
		Msg("Invalidated cached aggregates")
}

// InvalidateAggregates drops cached capacity and dashboard responses
func (s *CacheInvalidationService) InvalidateAggregates(ctx context.Context) error {
	for _, group := range s.groups {
		pattern := providers.CacheGroupPattern(group)
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	return nil
}
