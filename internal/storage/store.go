// Package storage persists boards, their element snapshots and users.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Store is the load/save port for element snapshots. Load returns nil, nil
// when nothing has been saved for the board.
type Store interface {
	Save(ctx context.Context, boardID string, elements []document.Element) error
	Load(ctx context.Context, boardID string) ([]document.Element, error)
	Close() error
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

// Database is a Store that also keeps board metadata and user accounts.
type Database interface {
	Store

	CreateBoard(ctx context.Context, b document.Board) error
	GetBoard(ctx context.Context, id string) (*document.Board, error)
	ListBoards(ctx context.Context, ownerID string) ([]document.Board, error)
	DeleteBoard(ctx context.Context, id string) error

	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// Open connects the database selected by cfg.StoreDriver and applies the
// schema.
func Open(ctx context.Context, cfg *config.Config) (Database, error) {
	switch cfg.StoreDriver {
	case "sqlite", "":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		return OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func decodeDocument(boardID string, data []byte) ([]document.Element, error) {
	elements, err := document.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decode board %s: %w", boardID, err)
	}
	return elements, nil
}
