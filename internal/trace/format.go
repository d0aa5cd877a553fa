package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format selects how events are rendered.
type Format uint8

const (
	FormatAuto   Format = iota // by output path: .ndjson/.jsonl get NDJSON
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat accepts auto, text, ndjson (json is an alias).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as a single newline-terminated record.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(nil, ev)
	}
	return appendText(nil, ev)
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return fmt.Appendf(dst, "{\"error\":%q}\n", err.Error())
	}
	return append(append(dst, data...), '\n')
}

var kindGlyphs = map[Kind]string{
	KindSpanBegin: "→",
	KindSpanEnd:   "←",
	KindPoint:     "•",
	KindHeartbeat: "♡",
	KindFailure:   "✗",
}

// appendText: "15:04:05.000000 #12     → parse (ok) {k=v}"; child events
// are indented by two spaces.
func appendText(dst []byte, ev *Event) []byte {
	dst = fmt.Appendf(dst, "%s #%-5d ", ev.Time.Format("15:04:05.000000"), ev.Seq)
	if ev.ParentID != 0 {
		dst = append(dst, "  "...)
	}
	if g, ok := kindGlyphs[ev.Kind]; ok {
		dst = append(dst, g+" "...)
	}
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = fmt.Appendf(dst, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		dst = fmt.Appendf(dst, " {%s}", strings.Join(pairs, ", "))
	}
	return append(dst, '\n')
}
