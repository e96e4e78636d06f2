// Package session serves live editing sessions over websockets. Each
// connection drives its own editor; a board is open in at most one session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrBoardBusy  = errors.New("board is open in another session")
	ErrHubStopped = errors.New("session hub stopped")
)

type registration struct {
	client *Client
	result chan error
}

type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Client // boardID -> client

	register   chan registration
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions:   make(map[string]*Client),
		register:   make(chan registration),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns session bookkeeping until ctx is cancelled, then stops every
// open session.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case req := <-h.register:
			req.result <- h.addClient(req.client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.stopAll()
			return
		}
	}
}

func (h *Hub) Register(client *Client) error {
	req := registration{client: client, result: make(chan error, 1)}
	select {
	case h.register <- req:
		return <-req.result
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.removeClient(client)
	}
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Active reports whether boardID is open in a session.
func (h *Hub) Active(boardID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessions[boardID]
	return ok
}

// Wait blocks until every session has ended and saved, or ctx expires.
func (h *Hub) Wait(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for h.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (h *Hub) addClient(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.sessions[client.BoardID]; ok {
		h.logger.Warn("board busy", "board", client.BoardID, "user", client.UserID, "holder", existing.UserID)
		return ErrBoardBusy
	}
	h.sessions[client.BoardID] = client

	h.logger.Info("session opened", "board", client.BoardID, "user", client.UserID, "client", client.ID)
	return nil
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.sessions[client.BoardID]; !ok || current != client {
		return
	}
	delete(h.sessions, client.BoardID)

	h.logger.Info("session closed", "board", client.BoardID, "user", client.UserID, "client", client.ID)
}

func (h *Hub) stopAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.sessions {
		c.Stop()
	}
}
