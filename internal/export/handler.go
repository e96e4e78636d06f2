package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
)

const maxRequestSize = 10 << 20 // 10MB

type Handler struct {
	settings config.Settings
}

func NewHandler(settings config.Settings) *Handler {
	return &Handler{settings: settings}
}

type exportRequest struct {
	Name       string             `json:"name"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Background string             `json:"background"`
	Elements   []document.Element `json:"elements"`
}

// Export encodes the elements posted in the body. Board dimensions default
// to the configured artboard.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.Error(w, "invalid format: must be json, html, or png", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	board := document.Board{
		Name:       req.Name,
		Width:      req.Width,
		Height:     req.Height,
		Background: req.Background,
	}
	if board.Width <= 0 {
		board.Width = h.settings.Artboard.Width
	}
	if board.Height <= 0 {
		board.Height = h.settings.Artboard.Height
	}
	if board.Background == "" {
		board.Background = h.settings.Artboard.Background
	}

	Serve(w, format, board, req.Elements)
}

// Serve encodes into memory first so that encoding failures still produce a
// clean error response.
func Serve(w http.ResponseWriter, format Format, board document.Board, elements []document.Element) {
	start := time.Now()

	var buf bytes.Buffer
	if err := Write(&buf, format, board, elements); err != nil {
		if errors.Is(err, ErrRasterTooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, fmt.Sprintf("encoding failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, fileName(board.Name), format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "format", format, "elements", len(elements), "size", buf.Len(), "took", time.Since(start))
}

func fileName(name string) string {
	if name == "" {
		return "artboard"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
