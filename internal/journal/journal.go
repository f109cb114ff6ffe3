// Package journal appends ledger events to a zstd-compressed JSON-lines file.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/Garsondee/City-Sense/internal/city"
)

// Entry is the on-disk form of one event.
type Entry struct {
	Seq      int      `json:"seq"`
	Kind     string   `json:"kind"`
	X        int      `json:"x"`
	Z        int      `json:"z"`
	Type     string   `json:"type"`
	Handle   string   `json:"handle,omitempty"`
	Model    string   `json:"model,omitempty"`
	Shape    string   `json:"shape,omitempty"`
	Rotation int      `json:"rotation,omitempty"`
	Cells    [][2]int `json:"cells,omitempty"`
}

// FromEvent converts a ledger event.
func FromEvent(e city.Event) Entry {
	en := Entry{
		Seq:  e.Seq,
		Kind: e.Kind.String(),
		X:    e.Pos.X,
		Z:    e.Pos.Z,
		Type: e.Type.String(),
	}
	if e.Kind != city.EventRunCompleted {
		en.Handle = e.Handle.String()
		en.Model = e.Model
	}
	if e.Kind == city.EventReshaped {
		en.Shape = e.Variant.Shape.String()
		en.Rotation = e.Variant.Rotation
	}
	for _, p := range e.Positions {
		en.Cells = append(en.Cells, [2]int{p.X, p.Z})
	}
	return en
}

// Writer is a JSONL+zstd sink. It is safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error // first write error seen by the listener
}

// Create opens path for writing, truncating any existing journal.
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Write appends one entry.
func (w *Writer) Write(en Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("journal: write after close")
	}
	b, err := json.Marshal(en)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Listener returns a ledger listener that journals every event. The first
// failure is kept and reported by Err and Close.
func (w *Writer) Listener() city.Listener {
	return func(e city.Event) {
		if err := w.Write(FromEvent(e)); err != nil {
			w.mu.Lock()
			if w.err == nil {
				w.err = err
			}
			w.mu.Unlock()
		}
	}
}

// Err returns the first listener write error.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close flushes and closes the journal.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return w.err
	}
	var errs []error
	errs = append(errs, w.err, w.w.Flush(), w.enc.Close(), w.f.Close())
	w.w, w.enc, w.f = nil, nil, nil
	return errors.Join(errs...)
}

// Read decodes every entry from a compressed journal stream.
func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var en Entry
		if err := json.Unmarshal(sc.Bytes(), &en); err != nil {
			return out, fmt.Errorf("journal line %d: %w", line, err)
		}
		out = append(out, en)
	}
	return out, sc.Err()
}

// ReadFile is Read over the file at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
