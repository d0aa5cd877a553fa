package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one run, up to a limit.
type Bag struct {
	items    []Diagnostic
	limit    int // <= 0: без ограничения
	overflow int
}

// NewBag creates a bag holding at most limit diagnostics (limit <= 0 means no limit).
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

func (b *Bag) full() bool { return b.limit > 0 && len(b.items) >= b.limit }

// Add stores d unless the bag is full; overflowing diagnostics are only
// counted.
func (b *Bag) Add(d Diagnostic) bool {
	if b.full() {
		b.overflow++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap is the limit the bag was created with (or grown to by Merge).
func (b *Bag) Cap() int { return b.limit }

func (b *Bag) Len() int { return len(b.items) }

// Overflow counts diagnostics rejected because the bag was full.
func (b *Bag) Overflow() int { return b.overflow }

// Items returns the stored diagnostics. The slice is shared; do not modify.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) atLeast(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

func (b *Bag) HasErrors() bool   { return b.atLeast(SevError) }
func (b *Bag) HasWarnings() bool { return b.atLeast(SevWarning) }

// First returns the first error, in insertion order.
func (b *Bag) First() (Diagnostic, bool) {
	i := slices.IndexFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
	if i < 0 {
		return Diagnostic{}, false
	}
	return b.items[i], true
}

// Merge appends everything from other. The limit grows if needed so nothing
// from a per-file bag is lost when batch results are combined.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.overflow += other.overflow
	if b.limit > 0 {
		b.limit = max(b.limit, len(b.items))
	}
}

// Sort orders by file and position, then errors before warnings, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
