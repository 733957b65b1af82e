package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
)

// MessageWriter is the subset of *kafka.Writer the forwarder uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter creates a writer for the hospital events topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// KafkaForwarder copies every hospital event from the bus onto a Kafka
// topic, keyed by hospital ID, for downstream analytics.
type KafkaForwarder struct {
	bus    providers.EventBus
	writer MessageWriter
	cancel context.CancelFunc
	done   chan struct{}
}

// NewKafkaForwarder creates a forwarder; call Start to begin consuming
func NewKafkaForwarder(bus providers.EventBus, writer MessageWriter) *KafkaForwarder {
	return &KafkaForwarder{bus: bus, writer: writer, done: make(chan struct{})}
}

// Start subscribes to hospital updates and forwards them in the background
func (f *KafkaForwarder) Start(ctx context.Context) error {
	ctx, f.cancel = context.WithCancel(ctx)

	eventChan, err := f.bus.Subscribe(ctx, providers.EventChannelHospitalUpdates)
	if err != nil {
		f.cancel()
		return fmt.Errorf("failed to subscribe to hospital updates: %w", err)
	}

	go func() {
		defer close(f.done)
		for event := range eventChan {
			payload, err := json.Marshal(event)
			if err != nil {
				log.Warn().Err(err).Str("event_id", event.ID).Msg("Failed to marshal event for Kafka")
				continue
			}
			writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = f.writer.WriteMessages(writeCtx, kafka.Message{
				Key:   []byte(event.HospitalID),
				Value: payload,
				Headers: []kafka.Header{
					{Key: "event_type", Value: []byte(event.EventType)},
				},
			})
			cancel()
			if err != nil {
				log.Warn().Err(err).Str("event_id", event.ID).Msg("Failed to forward event to Kafka")
			}
		}
	}()

	log.Info().Msg("Kafka event forwarder started")
	return nil
}

// Stop stops forwarding and closes the writer
func (f *KafkaForwarder) Stop() error {
	if f.cancel == nil {
		return f.writer.Close()
	}
	f.cancel()
	<-f.done
	return f.writer.Close()
}
