package events

import (
	"attendtrack/config"
	"attendtrack/internal/database"
	"attendtrack/internal/logger"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const ImportCompleted = "import.completed"

var ErrBusClosed = errors.New("event bus is closed")

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Handler func(event Event) error

// EventBus fans events out to subscribers. With a valkey client events travel
// through valkey pub/sub so every process sees them; without one they are
// delivered in-process, synchronously.
type EventBus struct {
	client   database.CacheClient
	config   config.Config
	log      logger.Logger
	mu       sync.RWMutex
	handlers map[string][]Handler
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	closed   bool
}

func New(client database.CacheClient, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		client:   client,
		config:   config,
		log:      logger.New("EventBus"),
		handlers: make(map[string][]Handler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (b *EventBus) Subscribe(channel string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	first := len(b.handlers[channel]) == 0
	b.handlers[channel] = append(b.handlers[channel], handler)

	if first && b.client != nil && !b.closed {
		b.wg.Add(1)
		go b.receive(channel)
	}
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBusClosed
	}

	if event.Channel == "" {
		event.Channel = channel
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if b.client == nil {
		b.dispatch(channel, event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "channel", channel)
	}

	cmd := b.client.B().Publish().Channel(channel).Message(string(payload)).Build()
	if err := b.client.Do(b.ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel)
	}

	return nil
}

func (b *EventBus) receive(channel string) {
	defer b.wg.Done()
	log := b.log.Function("receive")

	err := b.client.Receive(b.ctx, b.client.B().Subscribe().Channel(channel).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to decode event", err, "channel", msg.Channel)
				return
			}
			b.dispatch(msg.Channel, event)
		})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Er("subscription ended", err, "channel", channel)
	}
}

func (b *EventBus) dispatch(channel string, event Event) {
	log := b.log.Function("dispatch")

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[channel]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			log.Er("event handler failed", err, "channel", channel, "eventID", event.ID)
		}
	}
}

func (b *EventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
	return nil
}
