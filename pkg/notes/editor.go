package notes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/mythos/internal/debounce"
	"github.com/aretw0/mythos/pkg/store"
)

// DefaultSaveDelay is the quiet period before an edited panel is written.
const DefaultSaveDelay = 400 * time.Millisecond

// Editor buffers edits to one panel and writes them after a quiet period.
// At most one write is pending at a time and it always carries the newest
// content.
type Editor struct {
	svc     *Service
	pageID  string
	panelID string
	key     string
	saves   *debounce.Debouncer

	mu      sync.Mutex
	content string
	closed  bool
	seq     uint64

	// writeMu serialises writes; written is the seq of the last one persisted.
	writeMu sync.Mutex
	written uint64
}

// NewEditor creates an editor for one panel of a page. A non-positive delay
// uses DefaultSaveDelay.
func NewEditor(svc *Service, pageID, panelID string, delay time.Duration) (*Editor, error) {
	if !IsPanel(panelID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPanel, panelID)
	}
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Editor{
		svc:     svc,
		pageID:  pageID,
		panelID: panelID,
		key:     store.NoteContentKey(pageID, panelID),
		saves:   debounce.New(delay),
	}, nil
}

// Load reads the stored content into the editor and returns it.
func (e *Editor) Load(ctx context.Context) string {
	content, _ := e.svc.ReadPanel(ctx, e.pageID, e.panelID)
	e.mu.Lock()
	e.content = content
	e.mu.Unlock()
	return content
}

// Content returns the in-memory content, which may not be saved yet.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content
}

// Change replaces the in-memory content and schedules its write, cancelling
// any write still pending.
func (e *Editor) Change(content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.content = content
	e.seq++
	seq := e.seq
	e.saves.Add(e.key, func() { e.write(seq, content) })
}

// write persists content unless a newer change was already written. A timer
// that fired before a Flush may still be running; it finishes first or is
// skipped, so it never overwrites newer content.
func (e *Editor) write(seq uint64, content string) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if seq <= e.written {
		return
	}
	// The panel id was validated in NewEditor.
	_ = e.svc.WritePanel(context.Background(), e.pageID, e.panelID, content)
	e.written = seq
}

// Saving reports whether a write is pending.
func (e *Editor) Saving() bool {
	return e.saves.Pending(e.key)
}

// Flush writes the pending content now. It reports whether a write was pending.
func (e *Editor) Flush() bool {
	return e.saves.FlushKey(e.key)
}

// Close writes any pending content and stops the editor. Later changes are ignored.
func (e *Editor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.saves.Flush()
	e.saves.StopAndWait(e.saves.Delay() + time.Second)
}
