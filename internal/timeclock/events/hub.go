// Package events fans clock events out to kiosk displays over websockets.
package events

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/aussiebroadwan/timeclock/internal/timeclock/domain"
)

// broadcastBuffer bounds how many events may queue before Publish drops.
const broadcastBuffer = 64

// Subscriber abstracts a streaming client. Send must not block; an error
// drops the subscriber.
type Subscriber interface {
	Send([]byte) error
	Close()
}

// Hub owns the subscriber set. All mutation happens on the run goroutine.
type Hub struct {
	logger *slog.Logger

	clients   map[Subscriber]struct{}
	count     atomic.Int64
	register  chan Subscriber
	unreg     chan Subscriber
	broadcast chan []byte
	stop      chan struct{}
	done      chan struct{}
}

// NewHub creates a Hub and starts its loop. Call Stop to release it.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		logger:    logger,
		clients:   make(map[Subscriber]struct{}),
		register:  make(chan Subscriber),
		unreg:     make(chan Subscriber),
		broadcast: make(chan []byte, broadcastBuffer),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
		case c := <-h.unreg:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Close()
			}
			h.count.Store(int64(len(h.clients)))
		case payload := <-h.broadcast:
			for c := range h.clients {
				if err := c.Send(payload); err != nil {
					c.Close()
					delete(h.clients, c)
				}
			}
			h.count.Store(int64(len(h.clients)))
		case <-h.stop:
			for c := range h.clients {
				c.Close()
			}
			clear(h.clients)
			h.count.Store(0)
			return
		}
	}
}

// Register adds a subscriber. It is a no-op once the hub has stopped.
func (h *Hub) Register(c Subscriber) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

// Unregister removes and closes a subscriber.
func (h *Hub) Unregister(c Subscriber) {
	select {
	case h.unreg <- c:
	case <-h.done:
	}
}

// Publish queues ev for every subscriber without blocking the caller. Events
// are dropped when the queue is full.
func (h *Hub) Publish(ev domain.ClockEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to encode clock event", "error", err)
		return
	}
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("kiosk event dropped", "user_id", ev.UserID)
	}
}

// Subscribers is the number of connected subscribers.
func (h *Hub) Subscribers() int { return int(h.count.Load()) }

// Stop closes every subscriber and ends the loop.
func (h *Hub) Stop() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	<-h.done
}
