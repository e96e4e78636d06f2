// Package board manages the boards a user owns and their element snapshots.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
	"github.com/inamate/artboard/internal/engine"
	"github.com/inamate/artboard/internal/storage"
	"github.com/inamate/artboard/internal/typeid"
)

var (
	ErrNotFound  = errors.New("board not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid board")
	ErrBusy      = errors.New("board is open in a live session")
)

// Repository is the board storage the service needs.
type Repository interface {
	storage.Store

	CreateBoard(ctx context.Context, b document.Board) error
	GetBoard(ctx context.Context, id string) (*document.Board, error)
	ListBoards(ctx context.Context, ownerID string) ([]document.Board, error)
	DeleteBoard(ctx context.Context, id string) error
}

// Sessions reports which boards are held by a live editing session.
type Sessions interface {
	Active(boardID string) bool
}

type Service struct {
	repo     Repository
	sessions Sessions
	settings config.Settings
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithSessions makes writes outside a session fail with ErrBusy while the
// board is open in one.
func WithSessions(sessions Sessions) Option {
	return func(s *Service) { s.sessions = sessions }
}

func NewService(repo Repository, settings config.Settings, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:     repo,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams are the caller-supplied fields of a new board. Zero values
// take the configured artboard defaults.
type CreateParams struct {
	Name       string  `json:"name"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background"`
}

func (s *Service) Create(ctx context.Context, ownerID string, p CreateParams) (*document.Board, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	b := document.Board{
		ID:         typeid.NewBoardID(),
		OwnerID:    ownerID,
		Name:       name,
		Width:      p.Width,
		Height:     p.Height,
		Background: p.Background,
		CreatedAt:  s.now().UTC().Truncate(time.Millisecond),
	}
	b.UpdatedAt = b.CreatedAt
	if b.Width <= 0 {
		b.Width = s.settings.Artboard.Width
	}
	if b.Height <= 0 {
		b.Height = s.settings.Artboard.Height
	}
	if b.Background == "" {
		b.Background = s.settings.Artboard.Background
	}

	if err := s.repo.CreateBoard(ctx, b); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	s.logger.Info("board created", "board", b.ID, "owner", ownerID)
	return &b, nil
}

// Get returns the board if userID owns it. Malformed ids are reported as
// not found without a store lookup.
func (s *Service) Get(ctx context.Context, boardID, userID string) (*document.Board, error) {
	if err := typeid.ValidateBoardID(boardID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	b, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get board: %w", err)
	}
	if b.OwnerID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]document.Board, error) {
	boards, err := s.repo.ListBoards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

func (s *Service) Delete(ctx context.Context, boardID, userID string) error {
	if err := s.writable(ctx, boardID, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteBoard(ctx, boardID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete board: %w", err)
	}
	s.logger.Info("board deleted", "board", boardID)
	return nil
}

// Elements returns the board's saved elements in ascending z. A board that
// was never saved, or whose snapshot is unreadable, has no elements.
func (s *Service) Elements(ctx context.Context, boardID, userID string) (*document.Board, []document.Element, error) {
	b, err := s.Get(ctx, boardID, userID)
	if err != nil {
		return nil, nil, err
	}

	elements, err := s.repo.Load(ctx, boardID)
	if err != nil {
		s.logger.Warn("load board, returning empty", "board", boardID, "error", err)
		elements = nil
	}
	return b, s.normalize(elements), nil
}

// ReplaceElements overwrites the board's snapshot. Elements are normalized
// the same way the editor normalizes a loaded scene; the stored result is
// returned.
func (s *Service) ReplaceElements(ctx context.Context, boardID, userID string, elements []document.Element) ([]document.Element, error) {
	if err := s.writable(ctx, boardID, userID); err != nil {
		return nil, err
	}

	normalized := s.normalize(elements)
	if err := s.repo.Save(ctx, boardID, normalized); err != nil {
		return nil, fmt.Errorf("save elements: %w", err)
	}
	return normalized, nil
}

// writable checks ownership and that no live session holds the board.
func (s *Service) writable(ctx context.Context, boardID, userID string) error {
	if _, err := s.Get(ctx, boardID, userID); err != nil {
		return err
	}
	if s.sessions != nil && s.sessions.Active(boardID) {
		return ErrBusy
	}
	return nil
}

func (s *Service) normalize(elements []document.Element) []document.Element {
	scene := engine.NewScene(s.settings)
	scene.Restore(elements, s.logger)
	return scene.Elements()
}
