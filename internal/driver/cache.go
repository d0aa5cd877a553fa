package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"parens/internal/diag"
	"parens/internal/source"
	"parens/internal/vm"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// Digest identifies a cached run: source content plus everything that can
// change its outcome.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache хранит результаты вычислений по Digest на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is the msgpack document stored per Digest.
type CachePayload struct {
	Schema uint16 `msgpack:"schema"`
	Path   string `msgpack:"path"`

	ValueKind uint8  `msgpack:"value_kind"`
	Int       int32  `msgpack:"int"`
	Builtin   string `msgpack:"builtin,omitempty"`

	Failed bool         `msgpack:"failed"`
	Diags  []cachedDiag `msgpack:"diags,omitempty"`
	Stored time.Time    `msgpack:"stored"`
}

type cachedDiag struct {
	Severity uint8        `msgpack:"sev"`
	Code     uint16       `msgpack:"code"`
	Message  string       `msgpack:"msg"`
	Start    uint32       `msgpack:"start"`
	End      uint32       `msgpack:"end"`
	Notes    []cachedNote `msgpack:"notes,omitempty"`
	Fixes    []cachedFix  `msgpack:"fixes,omitempty"`
}

type cachedNote struct {
	Start uint32 `msgpack:"start"`
	End   uint32 `msgpack:"end"`
	Msg   string `msgpack:"msg"`
}

type cachedFix struct {
	Title string       `msgpack:"title"`
	Edits []cachedEdit `msgpack:"edits"`
}

type cachedEdit struct {
	Start   uint32 `msgpack:"start"`
	End     uint32 `msgpack:"end"`
	NewText string `msgpack:"new_text"`
}

// OpenDiskCache creates dir if needed and returns a cache rooted there.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	// Для удобства очистки — подкаталог "results".
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("corrupt entry %s: %w", key, err)
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, затем удалим, чтобы параллельный Get не увидел полузаписанное
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheKey mixes the source hash with the limits and builtin table.
func cacheKey(file *source.File, opts Options, ev *vm.Evaluator) Digest {
	h := sha256.New()
	fmt.Fprintf(h, "parens-cache/v%d\x00", cacheSchemaVersion)
	h.Write(file.Hash[:])
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(int64(opts.MaxDepth)))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(opts.MaxTokenLength)))
	h.Write(buf[:])
	h.Write([]byte(strings.Join(ev.Names(), "\x00")))

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// store records the outcome of res under key.
func (c *DiskCache) store(key Digest, res *Result) error {
	payload := &CachePayload{
		Schema:    cacheSchemaVersion,
		Path:      res.File.Path,
		ValueKind: uint8(res.Value.Kind),
		Int:       res.Value.Int,
		Failed:    res.Err != nil,
		Stored:    time.Now().UTC(),
	}
	if res.Value.Builtin != nil {
		payload.Builtin = res.Value.Builtin.Name
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsCacheError {
			continue
		}
		payload.Diags = append(payload.Diags, toCachedDiag(d))
	}
	return c.Put(key, payload)
}

// replay fills res from the entry stored under key. Entries from another
// schema, or naming a builtin the evaluator lacks, count as misses.
func (c *DiskCache) replay(key Digest, res *Result, ev *vm.Evaluator) (bool, error) {
	var payload CachePayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok || payload.Schema != cacheSchemaVersion {
		return false, err
	}

	switch vm.ValueKind(payload.ValueKind) {
	case vm.VKInt:
		res.Value = vm.IntValue(payload.Int)
	case vm.VKBuiltin:
		b, found := ev.Lookup(payload.Builtin)
		if !found {
			return false, nil
		}
		res.Value = vm.BuiltinValue(b)
	}

	id := res.File.ID
	for _, cd := range payload.Diags {
		d := fromCachedDiag(cd, id)
		res.Bag.Add(d)
		if payload.Failed && res.Err == nil && d.Severity == diag.SevError {
			res.Err = &CachedError{Diag: d}
		}
	}
	if payload.Failed && res.Err == nil {
		res.Err = &CachedError{Diag: diag.NewError(diag.UnknownCode, source.At(id, 0), "cached run failed")}
	}
	return true, nil
}

// CachedError replays an error diagnostic restored from the cache.
type CachedError struct {
	Diag diag.Diagnostic
}

func (e *CachedError) Error() string {
	return fmt.Sprintf("%s at %s", e.Diag.Message, e.Diag.Primary.Offsets())
}

func (e *CachedError) Diagnostic() diag.Diagnostic { return e.Diag }

func toCachedDiag(d diag.Diagnostic) cachedDiag {
	cd := cachedDiag{
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Message:  d.Message,
		Start:    d.Primary.Start,
		End:      d.Primary.End,
	}
	for _, n := range d.Notes {
		cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
	}
	for _, fix := range d.Fixes {
		cf := cachedFix{Title: fix.Title}
		for _, e := range fix.Edits {
			cf.Edits = append(cf.Edits, cachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
		}
		cd.Fixes = append(cd.Fixes, cf)
	}
	return cd
}

func fromCachedDiag(cd cachedDiag, id source.FileID) diag.Diagnostic {
	d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), source.Span{File: id, Start: cd.Start, End: cd.End}, cd.Message)
	for _, n := range cd.Notes {
		d = d.WithNote(source.Span{File: id, Start: n.Start, End: n.End}, n.Msg)
	}
	for _, cf := range cd.Fixes {
		edits := make([]diag.FixEdit, 0, len(cf.Edits))
		for _, e := range cf.Edits {
			edits = append(edits, diag.FixEdit{Span: source.Span{File: id, Start: e.Start, End: e.End}, NewText: e.NewText})
		}
		d = d.WithFix(cf.Title, edits...)
	}
	return d
}
