package source

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileID indexes a FileSet. IDs are never reused, so an edited REPL line or a
// re-read file gets a fresh one and old spans stay valid.
type FileID uint32

// NoFile marks spans that belong to no loaded file, e.g. I/O failures.
const NoFile = ^FileID(0)

// FileFlags records where a text came from and what its bytes look like.
// Content is never rewritten; the flags only describe it.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // REPL line, --expr, test input
	FileBOM                           // starts with a UTF-8 BOM
	FileCRLF                          // lines end with \r\n
	FileNotNFC                        // some text is not in NFC form
)

// bom is the UTF-8 byte order mark. It belongs to no line and no token.
const bom = "\xEF\xBB\xBF"


// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// File is one immutable source text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags

	// Lines[i] is the byte offset where line i+1 starts; Lines[0] is the
	// length of the BOM, 0 without one.
	Lines []uint32
}

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(err)
	}
	return n
}

// BodyStart is the offset of the first byte after the BOM.
func (f *File) BodyStart() uint32 { return f.Lines[0] }

func lineStarts(content []byte) []uint32 {
	starts := []uint32{0}
	if bytes.HasPrefix(content, []byte(bom)) {
		starts[0] = uint32(len(bom))
	}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return starts
}

// Position maps a byte offset to line and column. Offsets past the end land
// on the last line.
func (f *File) Position(off uint32) LineCol {
	// номер строки = число начал строк не правее off
	i, found := slices.BinarySearch(f.Lines, off)
	if !found {
		i--
	}
	i = max(i, 0)
	// внутри BOM: первая колонка
	return LineCol{Line: uint32(i + 1), Col: off - min(off, f.Lines[i]) + 1}
}

// LineStart returns the offset of the first byte of the 1-based line, or
// the content length when the file has fewer lines.
func (f *File) LineStart(line uint32) uint32 {
	switch {
	case line <= 1:
		return f.Lines[0]
	case int(line) <= len(f.Lines):
		return f.Lines[line-1]
	}
	return f.size()
}

// GetLine returns the 1-based line without its line ending; "" when absent.
func (f *File) GetLine(line uint32) string {
	if line == 0 || int(line) > len(f.Lines) {
		return ""
	}
	start, end := f.LineStart(line), f.LineStart(line+1)
	if end > start && f.Content[end-1] == '\n' {
		end--
		if end > start && f.Content[end-1] == '\r' {
			end--
		}
	}
	return string(f.Content[start:end])
}

// Text returns the bytes covered by sp, clamped to the file bounds.
func (f *File) Text(sp Span) string {
	n := f.size()
	start, end := min(sp.Start, n), min(sp.End, n)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for humans. mode is one of absolute, relative,
// basename or auto; virtual files always keep their given name.
func (f *File) FormatPath(mode, baseDir string) string {
	if f.Flags&FileVirtual != 0 {
		return f.Path
	}
	var (
		out string
		err error
	)
	switch mode {
	case "absolute":
		out, err = AbsolutePath(f.Path)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		out, err = RelativePath(f.Path, baseDir)
	case "basename":
		out = BaseName(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			out = BaseName(f.Path)
		}
	}
	if err != nil || out == "" {
		return f.Path
	}
	return out
}
