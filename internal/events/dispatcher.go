package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher decouples event publication from handling. Publish enqueues and
// returns; a consumer goroutine runs the subscribed handlers, so publishers
// never wait on delivery.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	Close()
}

type queueDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	queue     chan Event
	done      chan struct{}
	closed    bool
	logger    *zap.Logger
}

// NewQueueDispatcher creates a dispatcher with the given queue capacity and
// starts its consumer goroutine.
func NewQueueDispatcher(buffer int, logger *zap.Logger) Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &queueDispatcher{
		listeners: make(map[EventType][]EventHandler),
		queue:     make(chan Event, buffer),
		done:      make(chan struct{}),
		logger:    logger,
	}
	go d.consume()
	return d
}

// Publish enqueues the event without blocking the caller. When the queue is
// full the event is dropped and logged; delivery is best-effort.
func (d *queueDispatcher) Publish(_ context.Context, event Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil
	}
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("event queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.Int64("incident_id", event.IncidentID))
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *queueDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Close stops accepting events and drains the queue.
func (d *queueDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	<-d.done
}

func (d *queueDispatcher) consume() {
	defer close(d.done)
	for event := range d.queue {
		d.mu.RLock()
		handlers := append([]EventHandler{}, d.listeners[event.Type]...)
		d.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(context.Background(), event); err != nil {
				d.logger.Error("event handler failed",
					zap.String("event_type", string(event.Type)),
					zap.Int64("incident_id", event.IncidentID),
					zap.Error(err))
			}
		}
	}
}
