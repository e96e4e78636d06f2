package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/artboard/internal/document"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id           TEXT PRIMARY KEY,
        email        TEXT NOT NULL UNIQUE,
        password     TEXT NOT NULL,
        display_name TEXT NOT NULL,
        created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS boards (
        id         TEXT PRIMARY KEY,
        owner_id   TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
        name       TEXT NOT NULL,
        width      DOUBLE PRECISION NOT NULL,
        height     DOUBLE PRECISION NOT NULL,
        background TEXT NOT NULL,
        document   JSONB,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS boards_owner_idx ON boards (owner_id)`,
}

// Postgres is the Database used for shared deployments.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) Save(ctx context.Context, boardID string, elements []document.Element) error {
	data, err := document.EncodeSnapshot(elements)
	if err != nil {
		return err
	}

	tag, err := p.pool.Exec(ctx,
		`UPDATE boards SET document = $1, updated_at = now() WHERE id = $2`,
		data, boardID)
	if err != nil {
		return fmt.Errorf("save board %s: %w", boardID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save board %s: %w", boardID, ErrNotFound)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, boardID string) ([]document.Element, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT document FROM boards WHERE id = $1`, boardID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load board %s: %w", boardID, err)
	}
	return decodeDocument(boardID, data)
}

func (p *Postgres) CreateBoard(ctx context.Context, b document.Board) error {
	_, err := p.pool.Exec(ctx, `
        INSERT INTO boards (id, owner_id, name, width, height, background, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, b.ID, b.OwnerID, b.Name, b.Width, b.Height, b.Background, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create board: %w", err)
	}
	return nil
}

func (p *Postgres) GetBoard(ctx context.Context, id string) (*document.Board, error) {
	var b document.Board
	err := p.pool.QueryRow(ctx, `
        SELECT id, owner_id, name, width, height, background, created_at, updated_at
        FROM boards
        WHERE id = $1
    `, id).Scan(&b.ID, &b.OwnerID, &b.Name, &b.Width, &b.Height, &b.Background, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get board: %w", err)
	}
	return &b, nil
}

func (p *Postgres) ListBoards(ctx context.Context, ownerID string) ([]document.Board, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id, owner_id, name, width, height, background, created_at, updated_at
        FROM boards
        WHERE owner_id = $1
        ORDER BY updated_at DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (document.Board, error) {
		var b document.Board
		err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Width, &b.Height, &b.Background, &b.CreatedAt, &b.UpdatedAt)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan boards: %w", err)
	}
	return boards, nil
}

func (p *Postgres) DeleteBoard(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateUser(ctx context.Context, u User) error {
	_, err := p.pool.Exec(ctx, `
        INSERT INTO users (id, email, password, display_name, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return p.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`, email)
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*User, error) {
	return p.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`, id)
}

func (p *Postgres) getUser(ctx context.Context, query, arg string) (*User, error) {
	var u User
	err := p.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
