package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"parens/internal/diag"
	"parens/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyOptions configures how fixes are applied.
type ApplyOptions struct {
	// DryRun computes the new contents without writing files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects the fixes attached to diagnostics and applies every one that
// does not overlap an earlier fix. Virtual files are never written; their new
// contents are still reported in FileChanges.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := make([]candidate, 0)
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				result.Skipped = append(result.Skipped, SkippedFix{Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			candidates = append(candidates, candidate{diag: d, fix: f, order: len(candidates)})
		}
	}
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.FixEdit)
	editCount := make(map[source.FileID]int)

	for _, cand := range candidates {
		staged, reason := stage(fs, cand.fix.Edits, buffers, appliedEdits)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Reason: reason})
			continue
		}
		for id, buf := range staged {
			buffers[id] = buf
		}
		for _, e := range cand.fix.Edits {
			appliedEdits[e.Span.File] = insertEditSorted(appliedEdits[e.Span.File], e)
			editCount[e.Span.File]++
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: formatFilePath(fs, cand.diag.Primary.File),
			EditCount:   len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	for id, buf := range buffers {
		file := fs.Get(id)
		if !opts.DryRun && file.Flags&source.FileVirtual == 0 {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, buf, mode); err != nil {
				return result, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      file.FormatPath("relative", fs.BaseDir()),
			EditCount: editCount[id],
			Content:   buf,
		})
	}
	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	return result, nil
}

// stage applies edits to copies of the current buffers. Offsets in edits
// refer to the original file content and are shifted by earlier fixes.
func stage(fs *source.FileSet, edits []diag.FixEdit, buffers map[source.FileID][]byte, applied map[source.FileID][]diag.FixEdit) (map[source.FileID][]byte, string) {
	staged := make(map[source.FileID][]byte)
	// с конца файла к началу: правки одного фикса не сдвигают друг друга
	ordered := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Span.Start > ordered[j].Span.Start })
	for _, edit := range ordered {
		file, ok := fs.Lookup(edit.Span.File)
		if !ok {
			return nil, "target file is unknown"
		}
		if conflictsWithExisting(applied[edit.Span.File], edit) {
			return nil, fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", fs.BaseDir()))
		}
		working, ok := staged[edit.Span.File]
		if !ok {
			base := buffers[edit.Span.File]
			if base == nil {
				base = file.Content
			}
			working = append([]byte(nil), base...)
		}
		delta := cumulativeDelta(applied[edit.Span.File], int(edit.Span.Start))
		start := int(edit.Span.Start) + delta
		end := int(edit.Span.End) + delta
		if start < 0 || end < start || end > len(working) {
			return nil, "edit span out of range"
		}
		suffix := append([]byte(nil), working[end:]...)
		staged[edit.Span.File] = append(append(working[:start], edit.NewText...), suffix...)
	}
	return staged, ""
}

// sortCandidates orders fixes by file, span start, span end and then
// insertion order, so application is deterministic.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func conflictsWithExisting(existing []diag.FixEdit, edit diag.FixEdit) bool {
	for _, prev := range existing {
		if spansConflict(prev.Span, edit.Span) {
			return true
		}
	}
	return false
}

// spansConflict reports whether two half-open spans overlap.
// Two zero-length spans conflict only at the same position; a zero-length
// span conflicts with a non-empty one when it lies strictly inside it.
func spansConflict(a, b source.Span) bool {
	if a.Empty() && b.Empty() {
		return a.Start == b.Start
	}
	if a.Empty() {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

func cumulativeDelta(edits []diag.FixEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		if int(e.Span.End) > pos {
			break
		}
		delta += len(e.NewText) - int(e.Span.Len())
	}
	return delta
}

func insertEditSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.FixEdit{})
	copy(edits[idx+1:], edits[idx:])
	edits[idx] = edit
	return edits
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file, ok := fs.Lookup(fileID)
	if !ok {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
