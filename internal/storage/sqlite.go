package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/inamate/artboard/internal/document"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id           TEXT PRIMARY KEY,
    email        TEXT NOT NULL UNIQUE,
    password     TEXT NOT NULL,
    display_name TEXT NOT NULL,
    created_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS boards (
    id         TEXT PRIMARY KEY,
    owner_id   TEXT NOT NULL,
    name       TEXT NOT NULL,
    width      REAL NOT NULL,
    height     REAL NOT NULL,
    background TEXT NOT NULL,
    document   BLOB,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS boards_owner_idx ON boards (owner_id);
`

// SQLite is the embedded Database used for single-node deployments.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Save(ctx context.Context, boardID string, elements []document.Element) error {
	data, err := document.EncodeSnapshot(elements)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE boards SET document = ?, updated_at = ? WHERE id = ?`,
		data, time.Now().UnixMilli(), boardID)
	if err != nil {
		return fmt.Errorf("save board %s: %w", boardID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("save board %s: %w", boardID, ErrNotFound)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, boardID string) ([]document.Element, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM boards WHERE id = ?`, boardID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load board %s: %w", boardID, err)
	}
	return decodeDocument(boardID, data)
}

func (s *SQLite) CreateBoard(ctx context.Context, b document.Board) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO boards (id, owner_id, name, width, height, background, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, b.ID, b.OwnerID, b.Name, b.Width, b.Height, b.Background, b.CreatedAt.UnixMilli(), b.UpdatedAt.UnixMilli())
	if err != nil {
		if isSQLiteUnique(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create board: %w", err)
	}
	return nil
}

func (s *SQLite) GetBoard(ctx context.Context, id string) (*document.Board, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, owner_id, name, width, height, background, created_at, updated_at
        FROM boards
        WHERE id = ?
    `, id)

	b, err := scanSQLiteBoard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get board: %w", err)
	}
	return b, nil
}

func (s *SQLite) ListBoards(ctx context.Context, ownerID string) ([]document.Board, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, owner_id, name, width, height, background, created_at, updated_at
        FROM boards
        WHERE owner_id = ?
        ORDER BY updated_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	boards := []document.Board{}
	for rows.Next() {
		b, err := scanSQLiteBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, *b)
	}
	return boards, rows.Err()
}

func (s *SQLite) DeleteBoard(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO users (id, email, password, display_name, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.CreatedAt.UnixMilli())
	if err != nil {
		if isSQLiteUnique(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE email = ?`, email)
}

func (s *SQLite) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE id = ?`, id)
}

func (s *SQLite) getUser(ctx context.Context, query string, arg string) (*User, error) {
	var u User
	var created int64
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return &u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteBoard(row rowScanner) (*document.Board, error) {
	var b document.Board
	var created, updated int64
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Width, &b.Height, &b.Background, &created, &updated); err != nil {
		return nil, err
	}
	b.CreatedAt = time.UnixMilli(created).UTC()
	b.UpdatedAt = time.UnixMilli(updated).UTC()
	return &b, nil
}

func isSQLiteUnique(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
