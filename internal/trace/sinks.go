package trace

import (
	"errors"
	"io"
	"sync"
)

// StreamTracer renders every accepted event straight to w. Write errors are
// ignored: a broken trace sink never fails a run.
type StreamTracer struct {
	level  Level
	format Format

	mu sync.Mutex
	w  io.Writer
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}
	line := FormatEvent(ev, t.format)
	t.mu.Lock()
	_, _ = t.w.Write(line)
	t.mu.Unlock()
}

// Flush forwards to w when it buffers (bufio.Writer and friends).
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes, then closes w if it is a Closer. openOutput hides Close on
// writers the tracer does not own.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if c, ok := t.w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

// MultiTracer fans each event out to several sinks under one sequence number.
type MultiTracer struct {
	level   Level
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{level: level, tracers: tracers}
}

func (t *MultiTracer) Emit(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}
	for _, inner := range t.tracers {
		inner.Emit(ev)
	}
}

func (t *MultiTracer) each(fn func(Tracer) error) error {
	errs := make([]error, 0, len(t.tracers))
	for _, inner := range t.tracers {
		errs = append(errs, fn(inner))
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Flush() error  { return t.each(Tracer.Flush) }
func (t *MultiTracer) Close() error  { return t.each(Tracer.Close) }
func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
