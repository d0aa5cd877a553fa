package trace

import (
	"io"
	"slices"
	"sync"
)

// RingTracer remembers only the newest events. The REPL shows it on demand
// and ring mode dumps it on exit.
type RingTracer struct {
	level Level

	mu   sync.Mutex
	buf  []Event
	next int // слот для следующей записи
	size int // сколько слотов занято
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{level: level, buf: make([]Event, capacity)}
}

// Emit overwrites the oldest event once the ring is full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	stored := *ev
	if stored.Seq == 0 {
		stored.Seq = NextSeq()
	}

	t.mu.Lock()
	t.buf[t.next] = stored
	t.next = (t.next + 1) % len(t.buf)
	t.size = min(t.size+1, len(t.buf))
	t.mu.Unlock()
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.size < len(t.buf) {
		return slices.Clone(t.buf[:t.size])
	}
	return slices.Concat(t.buf[t.next:], t.buf[:t.next])
}

// Reset forgets everything.
func (t *RingTracer) Reset() {
	t.mu.Lock()
	clear(t.buf)
	t.next, t.size = 0, 0
	t.mu.Unlock()
}

// Dump renders the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
