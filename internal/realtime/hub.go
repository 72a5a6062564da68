package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ErrHubFull is returned when the client limit is reached
var ErrHubFull = errors.New("realtime hub is full")

// Timing
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// WelcomeFunc builds the first message a new client receives
type WelcomeFunc func(ctx context.Context) (Message, error)

// Hub fans messages out to websocket clients
// ⭐ SSOT: 클라이언트 집합은 Run 고루틴만 소유
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]struct{}
	done       chan struct{}

	count      atomic.Int64
	maxClients int
	upgrader   websocket.Upgrader
	welcome    WelcomeFunc
	logger     zerolog.Logger
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithMaxClients caps concurrent connections (0 = unlimited)
func WithMaxClients(n int) HubOption {
	return func(h *Hub) { h.maxClients = n }
}

// WithWelcome sends a snapshot to every new client
func WithWelcome(fn WelcomeFunc) HubOption {
	return func(h *Hub) { h.welcome = fn }
}

// WithOriginCheck overrides the upgrade origin policy
func WithOriginCheck(fn func(r *http.Request) bool) HubOption {
	return func(h *Hub) { h.upgrader.CheckOrigin = fn }
}

// NewHub creates a hub; call Run to start it
func NewHub(log zerolog.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: log.With().Str("component", "realtime.hub").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run owns the client set until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info().Msg("Realtime hub started")
	defer func() {
		close(h.done)
		h.logger.Info().Msg("Realtime hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}

		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// 느린 클라이언트는 끊음
					h.logger.Warn().Str("remote", c.remote).Msg("Dropping slow realtime client")
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Broadcast queues a message for every client; it never blocks
func (h *Hub) Broadcast(msg Message) error {
	frame, err := msg.encode()
	if err != nil {
		return fmt.Errorf("failed to encode realtime message: %w", err)
	}
	select {
	case h.broadcast <- frame:
		return nil
	default:
		return fmt.Errorf("realtime broadcast queue full, %s dropped", msg.Type)
	}
}

// Serve upgrades the request and attaches the connection to the hub.
// It returns once the client is registered; pumps run in their own goroutines.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	if h.maxClients > 0 && h.ClientCount() >= h.maxClients {
		return ErrHubFull
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 가 이미 HTTP 에러 응답을 씀
		return fmt.Errorf("websocket upgrade failed: %w", err)
	}

	c := newClient(h, conn, r.RemoteAddr)

	if h.welcome != nil {
		msg, err := h.welcome(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to build realtime welcome")
			msg = NewMessage(MessageWelcome, nil)
		}
		if frame, err := msg.encode(); err == nil {
			c.send <- frame
		}
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return fmt.Errorf("realtime hub stopped")
	case <-r.Context().Done():
		conn.Close()
		return r.Context().Err()
	}

	go c.writePump()
	go c.readPump()

	h.logger.Debug().Str("remote", c.remote).Msg("Realtime client connected")
	return nil
}
