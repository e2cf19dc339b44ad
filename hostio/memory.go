package hostio

import (
	"io"
	"sync"
)

// seekableBuffer is an io.ReadWriteSeeker backed by a plain byte slice,
// which is all MemoryStreamSet needs for tests and demonstrations: a write
// replaces everything from the current position onward (appending when the
// position is at the end), reads/seeks operate over the whole accumulated
// content.
type seekableBuffer struct {
	data []byte
	pos  int64
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data[:b.pos], p...)
	b.pos += int64(len(p))
	return len(p), nil
}

func (b *seekableBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = b.pos
	case io.SeekEnd:
		base = int64(len(b.data))
	}
	b.pos = base + offset
	return b.pos, nil
}

// MemoryStreamSet is a process-local Getter backed by an in-memory map,
// used by the codec's own round-trip tests and by short demonstrations.
type MemoryStreamSet struct {
	mu      sync.Mutex
	streams map[string]*seekableBuffer
}

// NewMemoryStreamSet returns an empty in-memory stream set.
func NewMemoryStreamSet() *MemoryStreamSet {
	return &MemoryStreamSet{streams: make(map[string]*seekableBuffer)}
}

// Getter returns the Getter function the codec consumes. Streams are
// created lazily on first access, so every path "exists" once asked for;
// through this Getter an absent stream cannot be told apart from an empty
// one.
func (m *MemoryStreamSet) Getter() Getter {
	return func(path Path) (io.ReadWriteSeeker, bool) {
		key := path.String()

		m.mu.Lock()
		defer m.mu.Unlock()

		buf, ok := m.streams[key]
		if !ok {
			buf = &seekableBuffer{}
			m.streams[key] = buf
		}
		return buf, true
	}
}

// Reset seeks every created stream back to its start, so a single
// MemoryStreamSet can serve a serialize pass and a subsequent deserialize
// pass over the same bytes.
func (m *MemoryStreamSet) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, buf := range m.streams {
		buf.pos = 0
	}
}

// Snapshot returns a copy of the raw bytes accumulated for path so far,
// independent of the stream's current seek position. This is how a caller
// hands a finished session's stream off to persistent storage, such as a
// GranuleStore.
func (m *MemoryStreamSet) Snapshot(path Path) []byte {
	key := path.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.streams[key]
	if !ok {
		return nil
	}
	out := make([]byte, len(buf.data))
	copy(out, buf.data)
	return out
}

// Restore seeds path with data, positioned at its start, as if freshly
// loaded back from persistent storage.
func (m *MemoryStreamSet) Restore(path Path, data []byte) {
	key := path.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	m.streams[key] = &seekableBuffer{data: cp}
}
