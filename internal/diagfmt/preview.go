package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"parens/internal/diag"
	"parens/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview cuts out the whole lines the edit touches and returns
// them as they are and as they would read after the edit.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	f, ok := fs.Lookup(edit.Span.File)
	if !ok {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	if edit.Span.End < edit.Span.Start || edit.Span.Start < f.BodyStart() || int(edit.Span.End) > len(f.Content) {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", edit.Span.Offsets())
	}

	first, last := f.Position(edit.Span.Start).Line, f.Position(edit.Span.End).Line
	lo, hi := f.LineStart(first), f.LineStart(last+1)
	block := string(f.Content[lo:hi])
	from, to := int(edit.Span.Start-lo), int(edit.Span.End-lo)
	patched := block[:from] + edit.NewText + block[to:]

	return fixEditPreview{before: previewLines(block), after: previewLines(patched)}, nil
}

func previewLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
