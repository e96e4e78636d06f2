// Package checkpoint persists editor snapshots in the background. Editors hand
// over every new scene state; only the most recent one is written.
package checkpoint

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/artboard/internal/document"
)

const DefaultSaveTimeout = 5 * time.Second

// Saver is the write half of a snapshot store.
type Saver interface {
	Save(ctx context.Context, boardID string, elements []document.Element) error
}

type Writer struct {
	saver   Saver
	boardID string
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	latest  []document.Element
	dirty   bool
	lastErr error

	wake chan struct{}
	done chan struct{}
}

func New(saver Saver, boardID string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		saver:   saver,
		boardID: boardID,
		logger:  logger.With("board", boardID),
		timeout: DefaultSaveTimeout,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Checkpoint queues elements for saving and returns immediately. A snapshot
// that has not been written yet is replaced.
func (w *Writer) Checkpoint(elements []document.Element) {
	w.mu.Lock()
	w.latest = elements
	w.dirty = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run writes queued snapshots until ctx is cancelled, then flushes whatever
// is still pending.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), w.timeout)
			w.Flush(flushCtx)
			cancel()
			return
		case <-w.wake:
			saveCtx, cancel := context.WithTimeout(ctx, w.timeout)
			w.Flush(saveCtx)
			cancel()
		}
	}
}

// Done is closed once Run has returned.
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Flush writes the pending snapshot, if any, on the calling goroutine.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if !w.dirty {
		w.mu.Unlock()
		return nil
	}
	elements := w.latest
	w.dirty = false
	w.mu.Unlock()

	err := w.saver.Save(ctx, w.boardID, elements)

	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("save checkpoint", "error", err)
		return err
	}
	w.logger.Debug("checkpoint saved", "elements", len(elements))
	return nil
}

// Err returns the result of the most recent save.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}
