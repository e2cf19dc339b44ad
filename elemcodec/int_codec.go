package elemcodec

import (
	"fmt"
	"io"

	"github.com/arloliu/dictcol/endian"
	"github.com/arloliu/dictcol/internal/pool"
)

// IntCodec serializes uint64 carrier values as their low ByteWidth bytes,
// in the stream's endianness. ByteWidth must be 1, 2, 4, or 8.
//
// Truncation to ByteWidth bytes preserves the two's-complement bit pattern
// of any signed integer kind admitted by dicttype, so callers of a signed
// kind round-trip by reinterpreting the uint64 carrier as int8/16/32/64 at
// the boundary rather than needing a distinct signed codec.
type IntCodec struct {
	ByteWidth int
}

var _ Codec[uint64] = IntCodec{}

func (c IntCodec) checkWidth() error {
	switch c.ByteWidth {
	case 1, 2, 4, 8:
		return nil
	default:
		return fmt.Errorf("elemcodec: invalid int byte width %d", c.ByteWidth)
	}
}

func (c IntCodec) put(buf *pool.ByteBuffer, engine endian.EndianEngine, v uint64) {
	switch c.ByteWidth {
	case 1:
		buf.B = append(buf.B, byte(v))
	case 2:
		buf.B = engine.AppendUint16(buf.B, uint16(v))
	case 4:
		buf.B = engine.AppendUint32(buf.B, uint32(v))
	case 8:
		buf.B = engine.AppendUint64(buf.B, v)
	}
}

func (c IntCodec) SerializeBulk(w io.Writer, engine endian.EndianEngine, values []uint64) error {
	if err := c.checkWidth(); err != nil {
		return err
	}

	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)

	buf.Grow(len(values) * c.ByteWidth)
	for _, v := range values {
		c.put(buf, engine, v)
	}

	_, err := buf.WriteTo(w)
	return err
}

func (c IntCodec) DeserializeBulk(r io.Reader, engine endian.EndianEngine, n int) ([]uint64, error) {
	if err := c.checkWidth(); err != nil {
		return nil, err
	}

	raw := make([]byte, n*c.ByteWidth)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read %d-byte int elements: %w", c.ByteWidth, err)
	}

	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		chunk := raw[i*c.ByteWidth : (i+1)*c.ByteWidth]
		switch c.ByteWidth {
		case 1:
			out[i] = uint64(chunk[0])
		case 2:
			out[i] = uint64(engine.Uint16(chunk))
		case 4:
			out[i] = uint64(engine.Uint32(chunk))
		case 8:
			out[i] = engine.Uint64(chunk)
		}
	}
	return out, nil
}

func (c IntCodec) SerializeOne(w io.Writer, engine endian.EndianEngine, v uint64) error {
	return c.SerializeBulk(w, engine, []uint64{v})
}

func (c IntCodec) DeserializeOne(r io.Reader, engine endian.EndianEngine) (uint64, error) {
	vs, err := c.DeserializeBulk(r, engine, 1)
	if err != nil {
		return 0, err
	}
	return vs[0], nil
}
