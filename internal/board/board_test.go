package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/inamate/artboard/internal/auth"
	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
	"github.com/inamate/artboard/internal/storage"
	"github.com/inamate/artboard/internal/typeid"
)

type fakeSessions map[string]bool

func (f fakeSessions) Active(boardID string) bool { return f[boardID] }

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "boards.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db, config.DefaultSettings(), nil, opts...)
}

func TestCreateDefaults(t *testing.T) {
	s := newTestService(t)
	b, err := s.Create(context.Background(), "user_1", CreateParams{Name: "  Poster "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Name != "Poster" || b.Width != 800 || b.Height != 600 || b.Background != "#ffffff" {
		t.Errorf("Create = %+v, want defaults", b)
	}
	if !strings.HasPrefix(b.ID, "board_") {
		t.Errorf("id = %q, want board_ prefix", b.ID)
	}

	if _, err := s.Create(context.Background(), "user_1", CreateParams{}); !errors.Is(err, ErrInvalid) {
		t.Errorf("Create without name error = %v, want ErrInvalid", err)
	}
}

func TestOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	b, err := s.Create(ctx, "user_1", CreateParams{Name: "Mine"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.Get(ctx, b.ID, "user_2"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Get by stranger error = %v, want ErrForbidden", err)
	}
	if err := s.Delete(ctx, b.ID, "user_2"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete by stranger error = %v, want ErrForbidden", err)
	}
	for _, id := range []string{"board_missing", typeid.NewBoardID(), typeid.NewUserID(), ""} {
		if _, err := s.Get(ctx, id, "user_1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestWritesRefusedWhileSessionOpen(t *testing.T) {
	ctx := context.Background()
	sessions := fakeSessions{}
	s := newTestService(t, WithSessions(sessions))
	b, err := s.Create(ctx, "user_1", CreateParams{Name: "Live"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sessions[b.ID] = true
	in := []document.Element{{ID: "el_1", Kind: document.KindRectangle, Width: 50, Height: 50, ZIndex: 1}}
	if _, err := s.ReplaceElements(ctx, b.ID, "user_1", in); !errors.Is(err, ErrBusy) {
		t.Errorf("ReplaceElements error = %v, want ErrBusy", err)
	}
	if err := s.Delete(ctx, b.ID, "user_1"); !errors.Is(err, ErrBusy) {
		t.Errorf("Delete error = %v, want ErrBusy", err)
	}
	if _, err := s.ReplaceElements(ctx, b.ID, "user_2", in); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger ReplaceElements error = %v, want ErrForbidden", err)
	}
	if _, elements, _ := s.Elements(ctx, b.ID, "user_1"); len(elements) != 0 {
		t.Errorf("refused write was stored: %+v", elements)
	}

	sessions[b.ID] = false
	if _, err := s.ReplaceElements(ctx, b.ID, "user_1", in); err != nil {
		t.Errorf("ReplaceElements after session closed: %v", err)
	}
}

func TestReplaceElementsNormalizes(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	b, _ := s.Create(ctx, "user_1", CreateParams{Name: "Board"})

	in := []document.Element{
		{ID: "el_a", Kind: document.KindRectangle, Width: 5, Height: 100, Rotation: 370, ZIndex: 7},
		{ID: "el_b", Kind: document.KindText, Width: 200, Height: 40, ZIndex: 3, Content: "x", FontSize: 16},
		{ID: "el_a", Kind: document.KindRectangle, Width: 50, Height: 50, ZIndex: 9},
		{ID: "el_c", Kind: "circle", Width: 50, Height: 50, ZIndex: 1},
	}
	saved, err := s.ReplaceElements(ctx, b.ID, "user_1", in)
	if err != nil {
		t.Fatalf("ReplaceElements: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved %d elements, want 2", len(saved))
	}
	if saved[0].ID != "el_b" || saved[0].ZIndex != 1 || saved[1].ZIndex != 2 {
		t.Errorf("z order not renumbered: %+v", saved)
	}
	if saved[1].Width != 20 || saved[1].Rotation != 10 {
		t.Errorf("el_a not clamped: %+v", saved[1])
	}

	_, loaded, err := s.Elements(ctx, b.ID, "user_1")
	if err != nil {
		t.Fatalf("Elements: %v", err)
	}
	if len(loaded) != 2 || loaded[1] != saved[1] {
		t.Errorf("Elements = %+v, want %+v", loaded, saved)
	}
}

func newTestRouter(t *testing.T, userID string, opts ...Option) http.Handler {
	t.Helper()
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), userID)))
		})
	})
	NewHandler(newTestService(t, opts...)).Routes(api)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandlerFlow(t *testing.T) {
	h := newTestRouter(t, "user_1")

	rec := do(t, h, "POST", "/api/boards", `{"name":"Launch","width":400,"height":300}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var b document.Board
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	base := "/api/boards/" + b.ID

	if rec := do(t, h, "GET", base+"/elements", ""); rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty elements = %d %s", rec.Code, rec.Body.String())
	}

	put := `{"version":1,"elements":[{"id":"el_1","kind":"rectangle","x":10,"y":10,"width":50,"height":50,"rotation":0,"zIndex":1,"fillColor":"#ff0000"}]}`
	if rec := do(t, h, "PUT", base+"/elements", put); rec.Code != http.StatusOK {
		t.Fatalf("put elements = %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, "PUT", base+"/elements", `"nope"`); rec.Code != http.StatusBadRequest {
		t.Errorf("put garbage status = %d, want 400", rec.Code)
	}

	tests := []struct {
		format   string
		wantType string
	}{
		{"json", "application/json"},
		{"html", "text/html; charset=utf-8"},
		{"png", "image/png"},
	}
	for _, tt := range tests {
		rec := do(t, h, "GET", base+"/export?format="+tt.format, "")
		if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != tt.wantType {
			t.Errorf("export %s = %d %q", tt.format, rec.Code, rec.Header().Get("Content-Type"))
		}
	}
	if rec := do(t, h, "GET", base+"/export?format=svg", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("export svg status = %d, want 400", rec.Code)
	}

	if rec := do(t, h, "GET", "/api/boards", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), b.ID) {
		t.Errorf("list = %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, "DELETE", base, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := do(t, h, "GET", base, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, "GET", "/api/boards/not-a-board", ""); rec.Code != http.StatusNotFound {
		t.Errorf("get malformed id status = %d, want 404", rec.Code)
	}
}

func TestHandlerConflictWhileSessionOpen(t *testing.T) {
	sessions := fakeSessions{}
	h := newTestRouter(t, "user_1", WithSessions(sessions))

	rec := do(t, h, "POST", "/api/boards", `{"name":"Live"}`)
	var b document.Board
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	base := "/api/boards/" + b.ID
	sessions[b.ID] = true

	put := `[{"id":"el_1","kind":"rectangle","width":50,"height":50,"zIndex":1}]`
	if rec := do(t, h, "PUT", base+"/elements", put); rec.Code != http.StatusConflict {
		t.Errorf("put during session = %d, want 409", rec.Code)
	}
	if rec := do(t, h, "DELETE", base, ""); rec.Code != http.StatusConflict {
		t.Errorf("delete during session = %d, want 409", rec.Code)
	}
	if rec := do(t, h, "GET", base+"/elements", ""); rec.Code != http.StatusOK {
		t.Errorf("read during session = %d, want 200", rec.Code)
	}
}
