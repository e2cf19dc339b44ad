// Package hostio models the storage-layer collaborator the dictionary
// column codec delegates substream routing to: a path-addressed set of
// seekable streams, plus a granule-level file store that persists whole
// blocks of those streams to disk under a chosen compression codec.
//
// The codec's own keys/indexes streams are never compressed (compression
// of those streams is an explicit non-goal); compression applies only at
// this host layer, to the granule files it writes on the codec's behalf.
package hostio

import (
	"io"
	"strings"
)

// Path is a stack of substream tags, e.g. {"col_7", "DictionaryKeys"}.
type Path []string

// Join appends a tag and returns the resulting path.
func (p Path) Join(tag string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = tag
	return out
}

func (p Path) String() string { return strings.Join(p, "/") }

// KeysTag and IndexesTag name the two substreams this codec addresses
// relative to its own path.
const (
	KeysTag    = "DictionaryKeys"
	IndexesTag = "DictionaryIndexes"
)

// Getter resolves a path to a stream, or reports that none exists there.
type Getter func(path Path) (io.ReadWriteSeeker, bool)

// StreamSet enumerates every substream path a column (and its nested
// element codecs) will address, so the host can pre-create files/buffers.
type StreamSet interface {
	EnumerateStreams(base Path, visit func(Path))
}

// EnumerateDictionaryStreams implements the codec's own contribution to
// StreamSet.EnumerateStreams: it recurses into the keys sub-path (so a
// nested element codec can advertise its own substreams under it) then
// visits the indexes sub-path as a leaf.
func EnumerateDictionaryStreams(base Path, nested StreamSet, visit func(Path)) {
	keysPath := base.Join(KeysTag)
	if nested != nil {
		nested.EnumerateStreams(keysPath, visit)
	} else {
		visit(keysPath)
	}
	visit(base.Join(IndexesTag))
}

// Resolve looks up the keys and indexes streams for base. Whether each
// one was found is reported through hasKeys and hasIndexes, so the caller
// can tell "both absent" from "one missing" and raise its own logical
// error.
func Resolve(getter Getter, base Path) (keys io.ReadWriteSeeker, hasKeys bool, indexes io.ReadWriteSeeker, hasIndexes bool) {
	keys, hasKeys = getter(base.Join(KeysTag))
	indexes, hasIndexes = getter(base.Join(IndexesTag))
	return keys, hasKeys, indexes, hasIndexes
}
