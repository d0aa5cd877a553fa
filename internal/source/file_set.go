package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every text of one run and turns spans into positions.
// Not safe for concurrent writes: load everything before fanning out.
type FileSet struct {
	files   []*File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{latest: map[string]FileID{}}
}

// NewFileSetWithBase makes paths render relative to baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir is the directory relative paths are computed from; the working
// directory when none was given.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// Len counts every version ever added.
func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores content under path and always returns a new FileID, even for a
// path seen before. The bytes are kept as given; Inspect only adds flags.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil || FileID(n) == NoFile {
		panic(fmt.Errorf("source: too many files: %d", len(fs.files)))
	}
	id := FileID(n)
	path = normalizePath(path)
	fs.files = append(fs.files, &File{
		ID:      id,
		Path:    path,
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags | Inspect(content),
		Lines:   lineStarts(content),
	})
	fs.latest[path] = id
	return id
}

// Load reads path from disk. Spans index the file's bytes exactly, so
// writers (fix, fmt) can splice into them.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.Add(path, raw, 0), nil
}

// AddVirtual stores an in-memory text verbatim, so offsets match the
// caller's string.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get panics on an unknown id; use Lookup for untrusted ids.
func (fs *FileSet) Get(id FileID) *File { return fs.files[id] }

func (fs *FileSet) Lookup(id FileID) (*File, bool) {
	if int(id) >= len(fs.files) {
		return nil, false
	}
	return fs.files[id], true
}

// GetLatest returns the newest version of path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

// Resolve converts both ends of span into line/column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.files[span.File]
	return f.Position(span.Start), f.Position(span.End)
}
