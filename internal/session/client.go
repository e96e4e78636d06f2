package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/inamate/artboard/internal/checkpoint"
	"github.com/inamate/artboard/internal/document"
	"github.com/inamate/artboard/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// Client is one connection's editing session. The editor is only touched
// from the read loop.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	ID      string
	UserID  string
	BoardID string
	board   document.Board

	editor   *engine.Editor
	recorder *engine.Recorder
	writer   *checkpoint.Writer
	logger   *slog.Logger

	stopOnce sync.Once
	cancel   context.CancelFunc
}

type ClientConfig struct {
	ID       string
	UserID   string
	Board    document.Board
	Editor   *engine.Editor
	Recorder *engine.Recorder
	Writer   *checkpoint.Writer
	Logger   *slog.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		ID:       cfg.ID,
		UserID:   cfg.UserID,
		BoardID:  cfg.Board.ID,
		board:    cfg.Board,
		editor:   cfg.Editor,
		recorder: cfg.Recorder,
		writer:   cfg.Writer,
		logger:   logger.With("board", cfg.Board.ID, "user", cfg.UserID, "client", cfg.ID),
	}
}

// Serve registers the session, runs both pumps and returns once the
// connection is gone and the last checkpoint has been written.
func (c *Client) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancel = cancel

	if err := c.hub.Register(c); err != nil {
		return err
	}
	defer c.hub.Unregister(c)

	c.sendWelcome()

	go c.writer.Run(ctx)
	go c.WritePump(ctx)
	c.ReadPump(ctx)

	cancel()
	<-c.writer.Done()
	if err := c.writer.Err(); err != nil {
		c.logger.Warn("session ended with unsaved changes", "error", err)
	}
	return nil
}

// Stop ends the session. Safe to call from any goroutine.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
	})
}

func (c *Client) ReadPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Debug("read error", "error", err)
			return
		}
		c.handle(data)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// handle applies one client message to the editor and queues the reply.
func (c *Client) handle(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Warn("invalid message", "error", err)
		c.sendError(msg.Seq, "invalid message")
		return
	}

	switch msg.Type {
	case TypeEvent:
		var ev engine.Event
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			c.sendError(msg.Seq, "invalid event payload")
			return
		}
		if err := c.editor.Apply(ev); err != nil {
			c.recorder.Drain()
			c.sendError(msg.Seq, err.Error())
			return
		}
		c.sendEffects(msg.Seq)

	case TypeRender:
		c.sendPayload(TypeFrame, msg.Seq, FramePayload{Commands: c.editor.Render()})

	default:
		c.logger.Warn("unknown message type", "type", msg.Type)
		c.sendError(msg.Seq, "unknown message type")
	}
}

func (c *Client) sendWelcome() {
	c.recorder.Drain()
	c.sendPayload(TypeWelcome, 0, WelcomePayload{
		ClientID: c.ID,
		Board:    c.board,
		Elements: c.editor.Scene().Elements(),
		Tool:     c.editor.Tool(),
		Settings: c.editor.Settings(),
	})
}

func (c *Client) sendEffects(seq int64) {
	effects := c.recorder.Drain()
	if effects == nil {
		effects = []engine.Effect{}
	}
	c.sendPayload(TypeEffects, seq, EffectsPayload{
		Effects:  effects,
		Mode:     c.editor.Mode(),
		Selected: c.editor.Scene().Selected(),
	})
}

func (c *Client) sendError(seq int64, message string) {
	c.sendPayload(TypeError, seq, ErrorPayload{Message: message})
}

func (c *Client) sendPayload(msgType string, seq int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("marshal payload", "type", msgType, "error", err)
		return
	}
	c.Send(&Message{Type: msgType, Seq: seq, Payload: data})
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("client send buffer full, dropping message", "type", msg.Type)
	}
}
