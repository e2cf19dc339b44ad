// Package elemcodec implements the per-kind element codecs used to
// serialize and deserialize the distinct-value payloads of a dictionary
// encoded column: fixed-width unsigned bit patterns for integer, date, and
// datetime kinds, and length-prefixed or fixed-length payloads for string
// kinds.
//
// Two carrier types cover every admitted dicttype.Kind: uint64 (the
// two's-complement bit pattern of any admitted integer/date/datetime
// value, truncated to its declared byte width) and string.
package elemcodec

import (
	"io"

	"github.com/arloliu/dictcol/endian"
)

// Codec serializes and deserializes a bulk run, or a single instance, of
// carrier values T to and from a byte stream.
type Codec[T comparable] interface {
	// SerializeBulk writes len(values) encoded elements to w, in order.
	SerializeBulk(w io.Writer, engine endian.EndianEngine, values []T) error
	// DeserializeBulk reads exactly n encoded elements from r.
	DeserializeBulk(r io.Reader, engine endian.EndianEngine, n int) ([]T, error)
	// SerializeOne writes a single encoded element to w.
	SerializeOne(w io.Writer, engine endian.EndianEngine, v T) error
	// DeserializeOne reads a single encoded element from r.
	DeserializeOne(r io.Reader, engine endian.EndianEngine) (T, error)
}
