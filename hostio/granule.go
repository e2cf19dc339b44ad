package hostio

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arloliu/dictcol/compress"
	"github.com/arloliu/dictcol/errs"
	"github.com/arloliu/dictcol/internal/hash"
)

// GranuleStore persists whole granules (opaque byte blobs produced by
// draining a codec's streams for one row range) to individual files under
// a directory, compressed with the given codec. This is the layer where
// compression actually applies; the keys/indexes stream bytes the codec
// itself produces are never touched by it.
type GranuleStore struct {
	dir  string
	codn compress.Codec
}

// NewGranuleStore returns a store rooted at dir, using codec for every
// granule it writes and reads.
func NewGranuleStore(dir string, codec compress.Codec) *GranuleStore {
	return &GranuleStore{dir: dir, codn: codec}
}

func (g *GranuleStore) granulePath(name string) string {
	return filepath.Join(g.dir, name+".granule")
}

// WriteGranule compresses payload and writes it to disk under name, with
// an xxHash64 checksum of the compressed bytes prefixed so ReadGranule can
// detect on-disk corruption before handing a broken payload to the codec.
func (g *GranuleStore) WriteGranule(name string, payload []byte) error {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("hostio: create granule dir %q: %w", g.dir, err)
	}

	compressed, err := g.codn.Compress(payload)
	if err != nil {
		return fmt.Errorf("hostio: compress granule %q: %w", name, err)
	}

	checksum := hash.ID(string(compressed))
	out := make([]byte, 8+len(compressed))
	binary.LittleEndian.PutUint64(out[:8], checksum)
	copy(out[8:], compressed)

	return os.WriteFile(g.granulePath(name), out, 0o644)
}

// ReadGranule verifies the stored checksum, then decompresses the granule
// stored under name.
func (g *GranuleStore) ReadGranule(name string) ([]byte, error) {
	raw, err := os.ReadFile(g.granulePath(name))
	if err != nil {
		return nil, fmt.Errorf("hostio: read granule %q: %w", name, err)
	}
	if len(raw) < 8 {
		return nil, fmt.Errorf("%w: granule %q shorter than its checksum header", errs.ErrLogicalError, name)
	}

	want := binary.LittleEndian.Uint64(raw[:8])
	compressed := raw[8:]
	if got := hash.ID(string(compressed)); got != want {
		return nil, fmt.Errorf("%w: granule %q checksum mismatch: want %x, got %x", errs.ErrLogicalError, name, want, got)
	}

	payload, err := g.codn.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("hostio: decompress granule %q: %w", name, err)
	}

	return payload, nil
}
