// Package indexvec implements the packed, unsigned-width index vector
// referenced by a dictionary encoded column's index-type header: a run of
// dictionary ids, each stored using the narrowest of four fixed widths
// that can hold the largest id present.
package indexvec

import (
	"fmt"
	"io"

	"github.com/arloliu/dictcol/elemcodec"
	"github.com/arloliu/dictcol/endian"
	"github.com/arloliu/dictcol/errs"
)

// Width is the on-wire element width code for a packed index vector.
type Width uint8

const (
	Width8 Width = iota
	Width16
	Width32
	Width64
)

// ByteSize returns the number of bytes one packed element occupies.
func (w Width) ByteSize() int {
	switch w {
	case Width8:
		return 1
	case Width16:
		return 2
	case Width32:
		return 4
	case Width64:
		return 8
	default:
		return 0
	}
}

func (w Width) String() string {
	switch w {
	case Width8:
		return "u8"
	case Width16:
		return "u16"
	case Width32:
		return "u32"
	case Width64:
		return "u64"
	default:
		return "invalid"
	}
}

// ParseWidth validates a width code read off the wire.
func ParseWidth(code uint64) (Width, error) {
	if code > uint64(Width64) {
		return 0, fmt.Errorf("%w: code %d", errs.ErrUnknownIndexWidth, code)
	}
	return Width(code), nil
}

func codecFor(w Width) elemcodec.IntCodec {
	return elemcodec.IntCodec{ByteWidth: w.ByteSize()}
}

// Vector is an in-memory, logical list of dictionary ids. Its packed width
// is derived on demand from the largest id it currently holds; the
// physical packing only happens at Pack/Unpack time.
type Vector struct {
	IDs []uint64
}

// New returns an empty index vector.
func New() *Vector { return &Vector{} }

// FromIDs wraps an existing id slice.
func FromIDs(ids []uint64) *Vector { return &Vector{IDs: ids} }

// Len returns the number of logical elements.
func (v *Vector) Len() int { return len(v.IDs) }

// Append adds one id.
func (v *Vector) Append(id uint64) { v.IDs = append(v.IDs, id) }

// At returns the id at position i.
func (v *Vector) At(i int) uint64 { return v.IDs[i] }

// Width returns the narrowest width able to hold every id currently held.
func (v *Vector) Width() Width {
	var max uint64
	for _, id := range v.IDs {
		if id > max {
			max = id
		}
	}
	return WidthFor(max)
}

// WidthFor returns the narrowest width able to hold maxID.
func WidthFor(maxID uint64) Width {
	switch {
	case maxID <= 0xFF:
		return Width8
	case maxID <= 0xFFFF:
		return Width16
	case maxID <= 0xFFFFFFFF:
		return Width32
	default:
		return Width64
	}
}

// Pack writes every id at the given width.
func (v *Vector) Pack(w io.Writer, engine endian.EndianEngine, width Width) error {
	return codecFor(width).SerializeBulk(w, engine, v.IDs)
}

// Unpack reads n ids packed at the given width.
func Unpack(r io.Reader, engine endian.EndianEngine, width Width, n int) (*Vector, error) {
	ids, err := codecFor(width).DeserializeBulk(r, engine, n)
	if err != nil {
		return nil, err
	}
	return &Vector{IDs: ids}, nil
}
