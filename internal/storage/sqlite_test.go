package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/inamate/artboard/internal/document"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedBoard(t *testing.T, db *SQLite, id, owner string) document.Board {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	b := document.Board{
		ID:         id,
		OwnerID:    owner,
		Name:       "Board " + id,
		Width:      800,
		Height:     600,
		Background: "#ffffff",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.CreateBoard(context.Background(), b); err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	return b
}

func TestSQLiteSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)
	seedBoard(t, db, "board_1", "user_1")

	got, err := db.Load(ctx, "board_1")
	if err != nil {
		t.Fatalf("Load before save: %v", err)
	}
	if got != nil {
		t.Fatalf("Load before save = %v, want nil", got)
	}

	elements := []document.Element{
		{ID: "el_2", Kind: document.KindText, X: 5, Y: 5, Width: 200, Height: 40, ZIndex: 2, Content: "Hi", FontSize: 16, TextColor: "#111827"},
		{ID: "el_1", Kind: document.KindRectangle, X: 10, Y: 20, Width: 150, Height: 100, Rotation: 45, ZIndex: 1, FillColor: "#3b82f6"},
	}
	if err := db.Save(ctx, "board_1", elements); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = db.Load(ctx, "board_1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load returned %d elements, want 2", len(got))
	}
	if got[0].ID != "el_1" || got[1].ID != "el_2" {
		t.Errorf("Load order = %s,%s, want el_1,el_2", got[0].ID, got[1].ID)
	}
	if got[0].Rotation != 45 || got[1].Content != "Hi" {
		t.Errorf("Load lost fields: %+v", got)
	}
}

func TestSQLiteSaveUnknownBoard(t *testing.T) {
	db := openTestSQLite(t)
	err := db.Save(context.Background(), "missing", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Save unknown board error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteLoadUnknownBoard(t *testing.T) {
	db := openTestSQLite(t)
	got, err := db.Load(context.Background(), "missing")
	if err != nil || got != nil {
		t.Errorf("Load unknown board = %v, %v; want nil, nil", got, err)
	}
}

func TestSQLiteBoards(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	want := seedBoard(t, db, "board_1", "user_1")
	seedBoard(t, db, "board_2", "user_1")
	seedBoard(t, db, "board_3", "user_2")

	got, err := db.GetBoard(ctx, "board_1")
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if got.Name != want.Name || got.Width != want.Width || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("GetBoard = %+v, want %+v", got, want)
	}

	if err := db.CreateBoard(ctx, want); !errors.Is(err, ErrDuplicate) {
		t.Errorf("CreateBoard duplicate error = %v, want ErrDuplicate", err)
	}

	list, err := db.ListBoards(ctx, "user_1")
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("ListBoards returned %d boards, want 2", len(list))
	}

	if err := db.DeleteBoard(ctx, "board_1"); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	if _, err := db.GetBoard(ctx, "board_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBoard after delete error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteBoard(ctx, "board_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteBoard error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteUsers(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	u := User{
		ID:           "user_1",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		DisplayName:  "Ada",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := db.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := u
	dup.ID = "user_2"
	if err := db.CreateUser(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("CreateUser duplicate email error = %v, want ErrDuplicate", err)
	}

	byEmail, err := db.GetUserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != u.ID || byEmail.PasswordHash != u.PasswordHash {
		t.Errorf("GetUserByEmail = %+v, want %+v", byEmail, u)
	}

	byID, err := db.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Email != u.Email {
		t.Errorf("GetUserByID email = %q, want %q", byID.Email, u.Email)
	}

	if _, err := db.GetUserByID(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByID unknown error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteMalformedDocument(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)
	seedBoard(t, db, "board_1", "user_1")

	if _, err := db.db.ExecContext(ctx, `UPDATE boards SET document = ? WHERE id = ?`, []byte("{not json"), "board_1"); err != nil {
		t.Fatalf("corrupt document: %v", err)
	}

	_, err := db.Load(ctx, "board_1")
	if !errors.Is(err, document.ErrMalformedSnapshot) {
		t.Errorf("Load corrupt document error = %v, want ErrMalformedSnapshot", err)
	}
}
