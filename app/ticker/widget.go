package ticker

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dispatcher runs a widget cycle off the caller's goroutine.
type Dispatcher interface {
	Dispatch(w *Widget, seq uint64) error
}

// Snapshot is a copy of a widget's latest state.
type Snapshot struct {
	ID        string
	Element   string
	Kind      Kind
	State     State
	Options   Options
	Output    Output
	Seq       uint64
	UpdatedAt time.Time
}

// Widget is one element instance. Every attach or attribute change on an
// attached widget starts a cycle with a new sequence number; a completion
// older than the newest started cycle is discarded.
type Widget struct {
	ID      string
	Element string
	Kind    Kind

	runner     CycleRunner
	dispatcher Dispatcher

	mu        sync.Mutex
	attached  bool
	opts      Options
	output    Output
	seq       uint64
	settled   uint64
	pending   map[uint64]Options
	updatedAt time.Time
	changed   chan struct{}
}

func NewWidget(element string, kind Kind, runner CycleRunner, dispatcher Dispatcher) *Widget {
	return &Widget{
		ID:         uuid.NewString(),
		Element:    element,
		Kind:       kind,
		runner:     runner,
		dispatcher: dispatcher,
		opts:       DefaultOptions(),
		output:     Output{State: StateUnattached},
		pending:    make(map[uint64]Options),
		updatedAt:  time.Now(),
		changed:    make(chan struct{}),
	}
}

// Attach connects the widget and starts a cycle. It returns the cycle's sequence number.
func (w *Widget) Attach() uint64 {
	w.mu.Lock()
	w.attached = true
	seq := w.beginLocked()
	w.mu.Unlock()

	w.dispatch(seq)
	return seq
}

// SetAttribute updates one option. When attached, a new cycle starts and its
// sequence number is returned with started set.
func (w *Widget) SetAttribute(name, value string) (seq uint64, started bool, err error) {
	w.mu.Lock()
	if !w.opts.Set(name, value) {
		w.mu.Unlock()
		return 0, false, fmt.Errorf("unknown attribute %q", name)
	}
	if !w.attached {
		w.mu.Unlock()
		return 0, false, nil
	}
	seq = w.beginLocked()
	w.mu.Unlock()

	w.dispatch(seq)
	return seq, true, nil
}

// SetAttributes applies all attributes and starts at most one cycle.
func (w *Widget) SetAttributes(attrs map[string]string) (seq uint64, started bool, err error) {
	w.mu.Lock()
	next := w.opts
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		if !next.Set(name, attrs[name]) {
			w.mu.Unlock()
			return 0, false, fmt.Errorf("unknown attribute %q", name)
		}
	}
	w.opts = next
	if !w.attached {
		w.mu.Unlock()
		return 0, false, nil
	}
	seq = w.beginLocked()
	w.mu.Unlock()

	w.dispatch(seq)
	return seq, true, nil
}

// Detach disconnects the widget. In-flight cycles are discarded on completion.
func (w *Widget) Detach() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.attached = false
	clear(w.pending)
	w.output = Output{State: StateUnattached}
	w.settled = w.seq
	w.touchLocked()
}

// Execute runs cycle seq and commits its output unless a newer cycle started meanwhile.
func (w *Widget) Execute(ctx context.Context, seq uint64) {
	w.mu.Lock()
	opts, ok := w.pending[seq]
	delete(w.pending, seq)
	w.mu.Unlock()

	if !ok {
		return
	}

	out := w.runner.Run(ctx, w.Kind, opts)
	w.commit(seq, out)
}

func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Wait blocks until cycle seq has completed, been superseded or been
// discarded by Detach.
func (w *Widget) Wait(ctx context.Context, seq uint64) (Snapshot, error) {
	for {
		w.mu.Lock()
		if w.settled >= seq {
			snap := w.snapshotLocked()
			w.mu.Unlock()
			return snap, nil
		}
		changed := w.changed
		w.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return w.Snapshot(), ctx.Err()
		}
	}
}

func (w *Widget) beginLocked() uint64 {
	w.seq++
	w.pending[w.seq] = w.opts
	w.output = loadingOutput()
	w.touchLocked()
	return w.seq
}

func (w *Widget) dispatch(seq uint64) {
	if w.dispatcher == nil {
		go w.Execute(context.Background(), seq)
		return
	}
	if err := w.dispatcher.Dispatch(w, seq); err != nil {
		w.mu.Lock()
		delete(w.pending, seq)
		w.mu.Unlock()
		w.commit(seq, errorOutput(fmt.Errorf("failed to schedule cycle: %w", err)))
	}
}

func (w *Widget) commit(seq uint64, out Output) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seq > w.settled {
		w.settled = seq
	}
	if !w.attached || seq < w.seq {
		slog.Debug("Discarding stale cycle", "widget", w.ID, "seq", seq, "latest", w.seq)
		w.touchLocked()
		return
	}
	w.output = out
	w.touchLocked()
}

// touchLocked wakes every Wait call.
func (w *Widget) touchLocked() {
	w.updatedAt = time.Now()
	close(w.changed)
	w.changed = make(chan struct{})
}

func (w *Widget) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        w.ID,
		Element:   w.Element,
		Kind:      w.Kind,
		State:     w.output.State,
		Options:   w.opts,
		Output:    w.output,
		Seq:       w.seq,
		UpdatedAt: w.updatedAt,
	}
}
