// Package compress provides compression codecs for granule payloads.
//
// The column codec itself never compresses its keys/indexes streams; that
// stays out of scope for the dictionary encoding. Instead, hostio.GranuleStore
// applies a Codec from this package to a whole granule's bytes once a
// session finishes with it:
//
//	codec, _ := compress.CreateCodec(format.CompressionZstd, "granule-store")
//	store := hostio.NewGranuleStore(dir, codec)
//	store.WriteGranule(name, payload)
//
// Four algorithms are available: None (no-op), Zstd (best ratio), S2
// (balanced), and LZ4 (fastest decompression). CreateCodec/GetCodec select
// among them by format.CompressionType.
package compress
