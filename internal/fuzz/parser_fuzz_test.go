package fuzztests

import (
	"context"
	"testing"
	"time"

	"parens/internal/driver"
	"parens/internal/testkit"
)

// runTimeout is the maximum time allowed for one input.
// If the pipeline takes longer, it indicates a potential infinite loop.
const runTimeout = 5 * time.Second

func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		opts := driver.DefaultOptions()
		opts.Until = driver.StageParse
		res := driver.RunSource(context.Background(), "fuzz.lisp", clampInput(input), opts)
		if res.Expr == nil {
			return
		}
		if err := testkit.CheckSpanInvariants(res.Expr, res.File); err != nil {
			t.Fatalf("span invariants broken for %q: %v", truncateForLog(input, 200), err)
		}
	})
}

// FuzzPipelineNoHang runs the whole pipeline and checks that a failure and
// the diagnostics bag always agree.
func FuzzPipelineNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		done := make(chan *driver.Result, 1)
		go func() {
			done <- driver.RunSource(ctx, "fuzz.lisp", input, driver.DefaultOptions())
		}()

		select {
		case res := <-done:
			if res.OK() == res.Bag.HasErrors() {
				t.Fatalf("result error %v disagrees with %d diagnostics for %q", res.Err, res.Bag.Len(), truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("pipeline hang detected: run took longer than %v\ninput (%d bytes): %q",
				runTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
