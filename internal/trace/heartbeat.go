package trace

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Heartbeat wraps a Tracer and, every interval, reports which file spans are
// still open. In a batch run a file that shows up beat after beat is the one
// that hangs.
type Heartbeat struct {
	Tracer

	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}

	mu    sync.Mutex
	open  map[uint64]string
	beats uint64
}

// StartHeartbeat starts beating into inner. Returns nil when inner is
// disabled or interval is not positive; a nil *Heartbeat is safe to Stop.
func StartHeartbeat(inner Tracer, interval time.Duration) *Heartbeat {
	if inner == nil || !inner.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{
		Tracer:   inner,
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
		open:     map[uint64]string{},
	}
	go h.loop(ctx)
	return h
}

// Emit forwards ev and keeps the set of open file spans current.
func (h *Heartbeat) Emit(ev *Event) {
	if ev.Scope == ScopeFile {
		h.mu.Lock()
		switch ev.Kind {
		case KindSpanBegin:
			h.open[ev.SpanID] = strings.TrimPrefix(ev.Name, "file:")
		case KindSpanEnd:
			delete(h.open, ev.SpanID)
		}
		h.mu.Unlock()
	}
	h.Tracer.Emit(ev)
}

func (h *Heartbeat) loop(ctx context.Context) {
	defer close(h.done)
	tick := time.NewTicker(h.interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			h.beat()
		}
	}
}

func (h *Heartbeat) beat() {
	h.mu.Lock()
	h.beats++
	n := h.beats
	names := make([]string, 0, len(h.open))
	for _, name := range h.open {
		names = append(names, name)
	}
	h.mu.Unlock()

	detail := fmt.Sprintf("#%d", n)
	if len(names) > 0 {
		slices.Sort(names)
		detail += " open: " + strings.Join(names, ", ")
	}
	record(h.Tracer, KindHeartbeat, ScopeDriver, 0, 0, "heartbeat", detail, nil)
}

// Stop ends the beat loop and waits for it. Safe to call more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

// Close stops the beat loop, then closes the wrapped tracer.
func (h *Heartbeat) Close() error {
	h.Stop()
	return h.Tracer.Close()
}
