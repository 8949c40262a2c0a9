package events

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// sendBuffer is how many events a client may fall behind before the hub
	// drops it.
	sendBuffer = 16
)

var (
	ErrSlowSubscriber = errors.New("events: subscriber too slow")
	ErrClientClosed   = errors.New("events: client closed")
)

// Client is a websocket subscriber. Events are queued by Send and written
// by the client's own writer goroutine, started by Serve.
type Client struct {
	conn *websocket.Conn
	log  *slog.Logger

	send      chan []byte
	closeOnce sync.Once
	closed    chan struct{}
}

func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		log:    logger,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}
}

// Send queues one text frame without blocking.
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.closed:
		return ErrClientClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	default:
		c.log.Warn("websocket client too slow, dropping")
		return ErrSlowSubscriber
	}
}

// Close terminates the connection. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// Serve runs the writer and discards inbound frames. It returns when the
// peer goes away or the client is closed, and leaves the client closed.
func (c *Client) Serve() {
	defer c.Close()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.writePump()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only goroutine writing to conn.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.log.Warn("websocket send failed", "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}
