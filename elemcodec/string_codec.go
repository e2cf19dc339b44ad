package elemcodec

import (
	"fmt"
	"io"

	"github.com/arloliu/dictcol/endian"
	"github.com/arloliu/dictcol/internal/pool"
)

// StringCodec serializes string carrier values.
//
// When FixedLen == 0 each value is written as a uint32 byte-length prefix
// followed by its payload (generalized from the teacher's one-byte
// length-prefixed variable string encoder, since dictionary keys are not
// bounded to 255 bytes). When FixedLen > 0 every value must already be
// exactly FixedLen bytes and is written with no prefix at all.
type StringCodec struct {
	FixedLen int
}

var _ Codec[string] = StringCodec{}

func (c StringCodec) SerializeBulk(w io.Writer, engine endian.EndianEngine, values []string) error {
	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)

	for _, v := range values {
		if err := c.appendOne(buf, engine, v); err != nil {
			return err
		}
	}

	_, err := buf.WriteTo(w)
	return err
}

func (c StringCodec) appendOne(buf *pool.ByteBuffer, engine endian.EndianEngine, v string) error {
	if c.FixedLen > 0 {
		if len(v) != c.FixedLen {
			return fmt.Errorf("elemcodec: fixed string length mismatch: want %d, got %d", c.FixedLen, len(v))
		}
		buf.B = append(buf.B, v...)
		return nil
	}

	buf.B = engine.AppendUint32(buf.B, uint32(len(v)))
	buf.B = append(buf.B, v...)
	return nil
}

func (c StringCodec) DeserializeBulk(r io.Reader, engine endian.EndianEngine, n int) ([]string, error) {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		v, err := c.DeserializeOne(r, engine)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c StringCodec) SerializeOne(w io.Writer, engine endian.EndianEngine, v string) error {
	return c.SerializeBulk(w, engine, []string{v})
}

func (c StringCodec) DeserializeOne(r io.Reader, engine endian.EndianEngine) (string, error) {
	if c.FixedLen > 0 {
		raw := make([]byte, c.FixedLen)
		if _, err := io.ReadFull(r, raw); err != nil {
			return "", fmt.Errorf("read fixed string of length %d: %w", c.FixedLen, err)
		}
		return string(raw), nil
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", fmt.Errorf("read string length prefix: %w", err)
	}
	n := engine.Uint32(lenBuf[:])

	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", fmt.Errorf("read string payload of length %d: %w", n, err)
	}
	return string(raw), nil
}

// ForKind returns the string codec fixed length implied by a dicttype
// descriptor's FixedLen field: 0 for variable-length String.
func ForKind(fixedLen int) StringCodec {
	return StringCodec{FixedLen: fixedLen}
}
