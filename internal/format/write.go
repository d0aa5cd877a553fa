package format

import (
	"bytes"

	"github.com/mattn/go-runewidth"
)

// lineWriter tracks the display column so the printer can decide whether a
// list still fits. Indentation is written lazily, on the first text of a line.
type lineWriter struct {
	opt     Options
	eol     string
	buf     bytes.Buffer
	depth   int
	pending bool // начало строки, отступ ещё не записан
	col     int
}

// column is where the next text would start, counting a pending indent.
func (w *lineWriter) column() int {
	if w.pending {
		return w.depth * w.opt.IndentWidth
	}
	return w.col
}

func (w *lineWriter) write(s string) {
	if s == "" {
		return
	}
	if w.pending {
		if w.opt.UseTabs {
			w.buf.Write(bytes.Repeat([]byte{'\t'}, w.depth))
		} else {
			w.buf.Write(bytes.Repeat([]byte{' '}, w.depth*w.opt.IndentWidth))
		}
		// таб считается за IndentWidth колонок
		w.col = w.depth * w.opt.IndentWidth
		w.pending = false
	}
	w.buf.WriteString(s)
	w.col += runewidth.StringWidth(s)
}

// newline ends the line; consecutive calls do not produce blank lines.
func (w *lineWriter) newline() {
	if b := w.buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		w.buf.WriteString(w.eol)
	}
	w.pending, w.col = true, 0
}

func (w *lineWriter) indent(delta int) { w.depth = max(w.depth+delta, 0) }
