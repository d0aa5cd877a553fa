package diag

import "parens/internal/source"

// Reporter принимает диагностики от фаз конвейера.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// BagReporter складывает всё в Bag.
type BagReporter struct{ Bag *Bag }

func (r *BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil || r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}

// fingerprint identifies a diagnostic for deduplication; notes and fixes
// do not count.
type fingerprint struct {
	code Code
	sev  Severity
	at   source.Span
	msg  string
}

// DedupReporter forwards each distinct diagnostic once. The evaluator reports
// a failure where it happens and the driver reports the returned error again,
// so every run goes through one of these. Not safe for concurrent use.
type DedupReporter struct {
	next    Reporter
	seen    map[fingerprint]struct{}
	dropped int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[fingerprint]struct{}{}}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	fp := fingerprint{code: code, sev: sev, at: primary, msg: msg}
	if _, dup := r.seen[fp]; dup {
		r.dropped++
		return
	}
	r.seen[fp] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Dropped reports how many duplicates were swallowed.
func (r *DedupReporter) Dropped() int {
	if r == nil {
		return 0
	}
	return r.dropped
}
