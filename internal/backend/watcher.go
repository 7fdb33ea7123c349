package backend

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/menu"
)

// Kind represents the reason a watcher event was emitted.
type Kind int

const (
	// KindChanged follows a modification of the watched file.
	KindChanged Kind = iota
	// KindRequested follows an explicit Reload call.
	KindRequested
)

func (k Kind) String() string {
	if k == KindRequested {
		return "requested"
	}
	return "changed"
}

// Event carries a freshly parsed tree or the error that prevented it.
type Event struct {
	Kind Kind
	Path string
	Tree *menu.Tree
	Err  error
}

// minReloadGap bounds how often the file is re-read, so an editor writing
// in several steps yields one reload per burst.
const minReloadGap = 250 * time.Millisecond

// Watcher polls a menu file at a fixed interval and publishes a reparsed
// tree whenever its size or modification time changes.
type Watcher struct {
	path     string
	interval time.Duration
	gate     *gate

	ctx    context.Context
	cancel context.CancelFunc

	requests chan struct{}
	events   chan Event
	wg       sync.WaitGroup

	last snapshot
}

type snapshot struct {
	modTime time.Time
	size    int64
	missing bool
}

// NewWatcher starts watching path. An interval of zero disables polling;
// Reload still works.
func NewWatcher(path string, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		interval: interval,
		gate:     &gate{gap: minReloadGap},
		ctx:      ctx,
		cancel:   cancel,
		requests: make(chan struct{}, 1),
		events:   make(chan Event, 4),
		last:     stat(path),
	}

	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of reload events. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Reload asks for the file to be re-read regardless of whether it changed.
func (w *Watcher) Reload() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

// Stop cancels the watcher. The poller exits after its current read
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.requests:
			w.last = stat(w.path)
			if !w.emit(KindRequested) {
				return
			}
		case <-tick:
			current := stat(w.path)
			if current == w.last {
				continue
			}
			w.last = current
			events.Menu.Changed(w.path)
			if !w.emit(KindChanged) {
				return
			}
		}
	}
}

func (w *Watcher) emit(kind Kind) bool {
	if !w.gate.wait(w.ctx) {
		return false
	}
	tree, err := menu.ParseFile(w.path)
	evt := Event{Kind: kind, Path: w.path, Tree: tree, Err: err}
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func stat(path string) snapshot {
	info, err := os.Stat(path)
	if err != nil {
		return snapshot{missing: true}
	}
	return snapshot{modTime: info.ModTime(), size: info.Size()}
}
