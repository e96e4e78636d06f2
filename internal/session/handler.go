package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/artboard/internal/board"
	"github.com/inamate/artboard/internal/checkpoint"
	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
	"github.com/inamate/artboard/internal/engine"
	"github.com/inamate/artboard/internal/storage"
)

// Authenticator resolves the user behind a websocket handshake.
type Authenticator interface {
	Authenticate(r *http.Request) (string, error)
}

// Boards checks that a user may open a board.
type Boards interface {
	Get(ctx context.Context, boardID, userID string) (*document.Board, error)
}

type Handler struct {
	hub      *Hub
	auth     Authenticator
	boards   Boards
	store    storage.Store
	settings config.Settings
	origins  []string
	logger   *slog.Logger

	// Sessions outlive the upgrade request; they end when this context does.
	baseCtx context.Context
}

type HandlerConfig struct {
	Hub      *Hub
	Auth     Authenticator
	Boards   Boards
	Store    storage.Store
	Settings config.Settings
	Origins  []string
	Logger   *slog.Logger
	BaseCtx  context.Context
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.BaseCtx == nil {
		cfg.BaseCtx = context.Background()
	}
	return &Handler{
		hub:      cfg.Hub,
		auth:     cfg.Auth,
		boards:   cfg.Boards,
		store:    cfg.Store,
		settings: cfg.Settings,
		origins:  cfg.Origins,
		logger:   cfg.Logger,
		baseCtx:  cfg.BaseCtx,
	}
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]

	userID, err := h.auth.Authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	b, err := h.boards.Get(r.Context(), boardID, userID)
	if err != nil {
		switch {
		case errors.Is(err, board.ErrNotFound):
			http.Error(w, "board not found", http.StatusNotFound)
		case errors.Is(err, board.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			h.logger.Error("get board", "board", boardID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	if h.hub.Active(boardID) {
		http.Error(w, ErrBoardBusy.Error(), http.StatusConflict)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.logger.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	logger := h.logger.With("board", boardID)

	recorder := &engine.Recorder{}
	writer := checkpoint.New(h.store, boardID, logger)
	editor := engine.NewEditor(h.settings,
		engine.WithProjection(recorder),
		engine.WithCheckpointer(writer),
		engine.WithLogger(logger),
	)
	editor.Load(r.Context(), h.store, boardID)

	client := NewClient(h.hub, conn, ClientConfig{
		ID:       clientID,
		UserID:   userID,
		Board:    *b,
		Editor:   editor,
		Recorder: recorder,
		Writer:   writer,
		Logger:   h.logger,
	})

	if err := client.Serve(h.baseCtx); err != nil {
		// Lost the race for the board between Active and Register.
		conn.Close(websocket.StatusPolicyViolation, err.Error())
	}
}
