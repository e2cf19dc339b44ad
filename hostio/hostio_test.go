package hostio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/dictcol/compress"
	"github.com/arloliu/dictcol/errs"
	"github.com/arloliu/dictcol/format"
	"github.com/stretchr/testify/require"
)

func TestMemoryStreamSet_WriteThenReadBack(t *testing.T) {
	ms := NewMemoryStreamSet()
	getter := ms.Getter()

	base := Path{"col_0"}
	keys, hasKeys, indexes, hasIndexes := Resolve(getter, base)
	require.True(t, hasKeys)
	require.True(t, hasIndexes)

	_, err := keys.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = indexes.Write([]byte("world"))
	require.NoError(t, err)

	ms.Reset()

	buf := make([]byte, 5)
	_, err = keys.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
}

func TestEnumerateDictionaryStreams_VisitsKeysThenIndexes(t *testing.T) {
	var visited []Path
	EnumerateDictionaryStreams(Path{"col_0"}, nil, func(p Path) {
		visited = append(visited, p)
	})

	require.Equal(t, []Path{
		{"col_0", KeysTag},
		{"col_0", IndexesTag},
	}, visited)
}

func TestGranuleStore_RoundTrip(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressionZstd, "test")
	require.NoError(t, err)

	store := NewGranuleStore(filepath.Join(t.TempDir(), "granules"), codec)

	payload := []byte("some granule payload bytes repeated repeated repeated")
	require.NoError(t, store.WriteGranule("g0", payload))

	got, err := store.ReadGranule("g0")
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestGranuleStore_DetectsChecksumMismatch(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressionZstd, "test")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "granules")
	store := NewGranuleStore(dir, codec)
	require.NoError(t, store.WriteGranule("g0", []byte("some granule payload")))

	path := filepath.Join(dir, "g0.granule")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[8] ^= 0xFF // flip every bit of one byte inside the compressed payload
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = store.ReadGranule("g0")
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrLogicalError))
}
