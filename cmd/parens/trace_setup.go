package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"parens/internal/trace"
)

// flagReader collects the first lookup error so a block of Get calls needs
// one check.
type flagReader struct {
	set *pflag.FlagSet
	err error
}

func (r *flagReader) note(name string, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("failed to get %s flag: %w", name, err)
	}
}

func (r *flagReader) str(name string) string {
	v, err := r.set.GetString(name)
	r.note(name, err)
	return v
}

func (r *flagReader) int(name string) int {
	v, err := r.set.GetInt(name)
	r.note(name, err)
	return v
}

func (r *flagReader) duration(name string) time.Duration {
	v, err := r.set.GetDuration(name)
	r.note(name, err)
	return v
}

// setupTracing installs the tracer asked for by the --trace* flags into the
// command context. The returned cleanup dumps the ring (in ring mode) and
// closes the sink.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	r := flagReader{set: flags}
	output := r.str("trace")
	levelName := r.str("trace-level")
	modeName := r.str("trace-mode")
	ringSize := r.int("trace-ring-size")
	heartbeat := r.duration("trace-heartbeat")
	if r.err != nil {
		return nil, r.err
	}

	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазы
	if output != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	stderr := cmd.ErrOrStderr()
	return func() {
		// в ring-режиме события копятся в памяти; выгружаем их при выходе
		if ring, ok := trace.Ring(tracer); ok && mode == trace.ModeRing {
			if err := ring.Dump(stderr, trace.FormatText); err != nil {
				fmt.Fprintf(stderr, "trace: dump: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close: %v\n", err)
		}
	}, nil
}
