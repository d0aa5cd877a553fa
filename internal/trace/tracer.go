package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Tracer is an event sink. Emit is called from many goroutines at once.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool // Level() > LevelOff
}

// Nop discards everything. New returns it for LevelOff and FromContext
// falls back to it.
var Nop Tracer = off{}

type off struct{}

func (off) Emit(*Event)   {}
func (off) Flush() error  { return nil }
func (off) Close() error  { return nil }
func (off) Level() Level  { return LevelOff }
func (off) Enabled() bool { return false }

// StorageMode picks where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory, dumped on exit
	ModeBoth
)

var modeNames = []string{"stream", "ring", "both"}

func (m StorageMode) String() string {
	if m >= ModeStream && int(m) <= len(modeNames) {
		return modeNames[m-1]
	}
	return "unknown"
}

// ParseMode accepts stream, ring or both.
func ParseMode(s string) (StorageMode, error) {
	i := slices.Index(modeNames, strings.ToLower(s))
	if i < 0 {
		return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: %s)", s, strings.Join(modeNames, "|"))
	}
	return StorageMode(i + 1), nil
}

// Config describes the tracer the CLI flags ask for.
type Config struct {
	Level Level
	Mode  StorageMode // 0 means ModeStream
	// FormatAuto: NDJSON for *.ndjson and *.jsonl paths, text otherwise.
	Format Format

	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "" or "-" is stderr
	RingSize   int       // 0 means 4096

	// Heartbeat > 0 wraps the sink in a Heartbeat.
	Heartbeat time.Duration
}

// New builds the sink described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Format == FormatAuto {
		cfg.Format = FormatText
		switch filepath.Ext(cfg.OutputPath) {
		case ".ndjson", ".jsonl":
			cfg.Format = FormatNDJSON
		}
	}

	var sink Tracer
	switch cfg.Mode {
	case 0, ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sink = NewStreamTracer(w, cfg.Level, cfg.Format)
	case ModeRing:
		sink = NewRingTracer(cfg.RingSize, cfg.Level)
	case ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sink = NewMultiTracer(cfg.Level,
			NewStreamTracer(w, cfg.Level, cfg.Format),
			NewRingTracer(cfg.RingSize, cfg.Level))
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	if hb := StartHeartbeat(sink, cfg.Heartbeat); hb != nil {
		return hb, nil
	}
	return sink, nil
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return nopCloser{cfg.Output}, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser keeps Close from closing writers the tracer does not own.
type nopCloser struct{ io.Writer }

// Ring returns the in-memory ring of t, if it keeps one.
func Ring(t Tracer) (*RingTracer, bool) {
	switch tt := t.(type) {
	case *RingTracer:
		return tt, true
	case *Heartbeat:
		return Ring(tt.Tracer)
	case *MultiTracer:
		for _, inner := range tt.tracers {
			if r, ok := Ring(inner); ok {
				return r, true
			}
		}
	}
	return nil, false
}
