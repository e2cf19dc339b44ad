package elemcodec

import (
	"bytes"
	"testing"

	"github.com/arloliu/dictcol/endian"
	"github.com/stretchr/testify/require"
)

func TestIntCodec_RoundTrip(t *testing.T) {
	for _, width := range []int{1, 2, 4, 8} {
		c := IntCodec{ByteWidth: width}
		values := []uint64{0, 1, 42, 255}

		var buf bytes.Buffer
		require.NoError(t, c.SerializeBulk(&buf, endian.GetLittleEndianEngine(), values))

		got, err := c.DeserializeBulk(&buf, endian.GetLittleEndianEngine(), len(values))
		require.NoError(t, err)

		want := make([]uint64, len(values))
		mask := uint64(1)<<(uint(width)*8) - 1
		if width == 8 {
			mask = ^uint64(0)
		}
		for i, v := range values {
			want[i] = v & mask
		}
		require.Equal(t, want, got)
	}
}

func TestIntCodec_PreservesTwosComplementTruncation(t *testing.T) {
	c := IntCodec{ByteWidth: 1}
	negativeOne := uint64(int64(-1)) // all bits set

	var buf bytes.Buffer
	require.NoError(t, c.SerializeOne(&buf, endian.GetLittleEndianEngine(), negativeOne))

	got, err := c.DeserializeOne(&buf, endian.GetLittleEndianEngine())
	require.NoError(t, err)
	require.Equal(t, int8(-1), int8(got))
}

func TestStringCodec_VariableLength(t *testing.T) {
	c := StringCodec{}
	values := []string{"", "a", "hello world"}

	var buf bytes.Buffer
	require.NoError(t, c.SerializeBulk(&buf, endian.GetLittleEndianEngine(), values))

	got, err := c.DeserializeBulk(&buf, endian.GetLittleEndianEngine(), len(values))
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestStringCodec_Fixed(t *testing.T) {
	c := StringCodec{FixedLen: 4}

	var buf bytes.Buffer
	require.NoError(t, c.SerializeOne(&buf, endian.GetLittleEndianEngine(), "abcd"))

	got, err := c.DeserializeOne(&buf, endian.GetLittleEndianEngine())
	require.NoError(t, err)
	require.Equal(t, "abcd", got)
}

func TestStringCodec_FixedRejectsWrongLength(t *testing.T) {
	c := StringCodec{FixedLen: 4}
	var buf bytes.Buffer
	err := c.SerializeOne(&buf, endian.GetLittleEndianEngine(), "abc")
	require.Error(t, err)
}
