package codec

import (
	"errors"
	"io"
	"testing"

	"github.com/arloliu/dictcol/dictcolumn"
	"github.com/arloliu/dictcol/elemcodec"
	"github.com/arloliu/dictcol/endian"
	"github.com/arloliu/dictcol/errs"
	"github.com/arloliu/dictcol/hostio"
	"github.com/arloliu/dictcol/indexvec"
	"github.com/arloliu/dictcol/uniquecol"
	"github.com/stretchr/testify/require"
)

func fillColumn[T comparable](c *dictcolumn.Column[T], values []T) {
	mapping, _ := c.Dict.InsertRangeWithOverflow(values, 0, len(values), ^uint64(0))
	for _, id := range mapping {
		c.Indexes.Append(id)
	}
}

func engine() endian.EndianEngine { return endian.GetLittleEndianEngine() }

// S1 - strings within budget: no overflow ever occurs, everything resolves
// through the global dictionary directly (Case A).
func TestScenario1_StringsWithinBudget(t *testing.T) {
	values := []string{"a", "b", "a", "c", "b", "a"}
	opts := NonNullable[string](elemcodec.StringCodec{}, engine(), 16, false)

	src := dictcolumn.New[string]()
	fillColumn(src, values)

	ms := hostio.NewMemoryStreamSet()
	getter := ms.Getter()
	base := hostio.Path{"col"}

	ser := NewSerializer(opts)
	require.NoError(t, ser.Prefix(getter, base))
	require.NoError(t, ser.Serialize(getter, base, src, 0, src.Len()))
	require.NoError(t, ser.Suffix(getter, base))

	ms.Reset()

	dst := dictcolumn.New[string]()
	des := NewDeserializer(opts)
	require.NoError(t, des.Prefix(getter, base))
	require.NoError(t, des.Deserialize(getter, base, dst, src.Len()))

	require.Equal(t, dst.Len(), src.Len())
	for i := range values {
		v, ok := dst.At(i)
		require.True(t, ok)
		require.Equal(t, values[i], v)
	}
	require.True(t, des.lastIndexType.NeedGlobalDictionary)
	require.False(t, des.lastIndexType.HasAdditionalKeys)
	require.Equal(t, indexvec.Width8, des.lastIndexType.Width)
}

// runUint32RoundTrip round-trips a u32-kind column (carried as uint64, as
// elemcodec.IntCodec always is) and returns the decoded column together
// with the index-type header observed for its single block.
func runUint32RoundTrip(t *testing.T, values []uint64, maxDictSize uint64, useNewDictOnOverflow bool) (*dictcolumn.Column[uint64], IndexType) {
	t.Helper()
	opts := NonNullable[uint64](elemcodec.IntCodec{ByteWidth: 4}, engine(), maxDictSize, useNewDictOnOverflow)

	src := dictcolumn.New[uint64]()
	fillColumn(src, values)

	ms := hostio.NewMemoryStreamSet()
	getter := ms.Getter()
	base := hostio.Path{"col"}

	ser := NewSerializer(opts)
	require.NoError(t, ser.Prefix(getter, base))
	require.NoError(t, ser.Serialize(getter, base, src, 0, src.Len()))
	require.NoError(t, ser.Suffix(getter, base))

	ms.Reset()

	dst := dictcolumn.New[uint64]()
	des := NewDeserializer(opts)
	require.NoError(t, des.Prefix(getter, base))
	require.NoError(t, des.Deserialize(getter, base, dst, src.Len()))

	return dst, des.lastIndexType
}

// S2 - overflow into additional keys, flushed only at the suffix.
func TestScenario2_OverflowIntoAdditionalKeys(t *testing.T) {
	dst, header := runUint32RoundTrip(t, []uint64{1, 2, 3, 4, 5}, 2, false)

	require.Equal(t, 5, dst.Len())
	for i, want := range []uint64{1, 2, 3, 4, 5} {
		v, ok := dst.At(i)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
	require.True(t, header.NeedGlobalDictionary)
	require.True(t, header.HasAdditionalKeys)
}

// S3 - same values as S2 but the overflow triggers an immediate mid-session
// flush of a fresh global dictionary rather than deferring to the suffix.
func TestScenario3_NewDictionaryOnOverflow(t *testing.T) {
	dst, header := runUint32RoundTrip(t, []uint64{1, 2, 3, 4, 5}, 2, true)

	require.Equal(t, 5, dst.Len())
	for i, want := range []uint64{1, 2, 3, 4, 5} {
		v, ok := dst.At(i)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
	require.True(t, header.NeedGlobalDictionary)
	require.True(t, header.HasAdditionalKeys)
}

// S4 - nullable strings: the null representative must round-trip through
// id 0 of both the global dictionary and the reconstructed column.
func TestScenario4_NullableStrings(t *testing.T) {
	values := []uniquecol.Optional[string]{
		uniquecol.Some("a"),
		uniquecol.Null[string](),
		uniquecol.Some("b"),
		uniquecol.Some("a"),
		uniquecol.Null[string](),
	}
	opts := Nullable[string](elemcodec.StringCodec{}, engine(), 16, false)

	src := dictcolumn.New[uniquecol.Optional[string]]()
	fillColumn(src, values)

	ms := hostio.NewMemoryStreamSet()
	getter := ms.Getter()
	base := hostio.Path{"col"}

	ser := NewSerializer(opts)
	require.NoError(t, ser.Prefix(getter, base))
	require.NoError(t, ser.Serialize(getter, base, src, 0, src.Len()))
	require.NoError(t, ser.Suffix(getter, base))

	ms.Reset()

	dst := dictcolumn.New[uniquecol.Optional[string]]()
	des := NewDeserializer(opts)
	require.NoError(t, des.Prefix(getter, base))
	require.NoError(t, des.Deserialize(getter, base, dst, src.Len()))

	require.Equal(t, src.Len(), dst.Len())
	for i := range values {
		v, ok := dst.At(i)
		require.True(t, ok)
		require.Equal(t, values[i], v)
	}

	nullID, ok := dst.Dict.IDOf(uniquecol.Null[string]())
	require.True(t, ok)
	require.Equal(t, uint64(0), nullID)
}

// S5 - two Serialize blocks over disjoint ranges, decoded through several
// small Deserialize calls whose limits straddle block boundaries.
func TestScenario5_MultiBlockAppendAndPartialReads(t *testing.T) {
	values := []string{"x", "y", "x", "z"}
	opts := NonNullable[string](elemcodec.StringCodec{}, engine(), 16, false)

	src := dictcolumn.New[string]()
	fillColumn(src, values)

	ms := hostio.NewMemoryStreamSet()
	getter := ms.Getter()
	base := hostio.Path{"col"}

	ser := NewSerializer(opts)
	require.NoError(t, ser.Prefix(getter, base))
	require.NoError(t, ser.Serialize(getter, base, src, 0, 2))
	require.NoError(t, ser.Serialize(getter, base, src, 2, 2))
	require.NoError(t, ser.Suffix(getter, base))

	ms.Reset()

	dst := dictcolumn.New[string]()
	des := NewDeserializer(opts)
	require.NoError(t, des.Prefix(getter, base))
	for i := 0; i < len(values); i++ {
		require.NoError(t, des.Deserialize(getter, base, dst, 1))
	}

	require.Equal(t, len(values), dst.Len())
	for i, want := range values {
		v, ok := dst.At(i)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

// S6 - a header word with a stray bit set outside width/flags is a
// logical error, surfaced by Deserialize exactly as by DeserializeIndexType
// on its own.
func TestScenario6_MalformedHeaderPropagatesThroughDeserialize(t *testing.T) {
	opts := NonNullable[string](elemcodec.StringCodec{}, engine(), 16, false)

	ms := hostio.NewMemoryStreamSet()
	getter := ms.Getter()
	base := hostio.Path{"col"}

	keys, _, indexes, _ := hostio.Resolve(getter, base)
	require.NoError(t, writeU64(keys, keysStreamVersion))
	require.NoError(t, writeU64(indexes, uint64(1)<<5)) // stray bit outside width/flags

	ms.Reset()

	dst := dictcolumn.New[string]()
	des := NewDeserializer(opts)
	require.NoError(t, des.Prefix(getter, base))

	err := des.Deserialize(getter, base, dst, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrMalformedHeader))
}

// A Case A block whose packed index refers to an id past the end of the
// global dictionary it names is a corrupt indexes column, not a panic.
func TestDeserialize_RejectsOutOfRangeIndex(t *testing.T) {
	opts := NonNullable[uint64](elemcodec.IntCodec{ByteWidth: 8}, engine(), 16, false)

	ms := hostio.NewMemoryStreamSet()
	getter := ms.Getter()
	base := hostio.Path{"col"}

	keys, _, indexes, _ := hostio.Resolve(getter, base)
	require.NoError(t, writeU64(keys, keysStreamVersion))
	require.NoError(t, writeU64(keys, 2))
	require.NoError(t, opts.Elem.SerializeBulk(keys, opts.Engine, []uint64{100, 200}))

	header := IndexType{Width: indexvec.Width8, NeedGlobalDictionary: true}
	require.NoError(t, header.Serialize(indexes, engine()))
	require.NoError(t, writeU64(indexes, 1))
	require.NoError(t, indexvec.FromIDs([]uint64{99}).Pack(indexes, engine(), indexvec.Width8))

	ms.Reset()

	dst := dictcolumn.New[uint64]()
	des := NewDeserializer(opts)
	require.NoError(t, des.Prefix(getter, base))

	err := des.Deserialize(getter, base, dst, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrNonUniqueIndex))
}

// Universal property: round-trip value equality holds across a variety of
// budgets and overflow policies for the same input.
func TestProperty_RoundTripAcrossBudgets(t *testing.T) {
	values := []string{"p", "q", "p", "r", "q", "p", "s", "r"}

	for _, tc := range []struct {
		name                 string
		maxDictionarySize    uint64
		useNewDictOnOverflow bool
	}{
		{"no-budget", 0, false},
		{"generous-budget", 100, false},
		{"tight-budget", 2, false},
		{"tight-budget-refresh", 2, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opts := NonNullable[string](elemcodec.StringCodec{}, engine(), tc.maxDictionarySize, tc.useNewDictOnOverflow)

			src := dictcolumn.New[string]()
			fillColumn(src, values)

			ms := hostio.NewMemoryStreamSet()
			getter := ms.Getter()
			base := hostio.Path{"col"}

			ser := NewSerializer(opts)
			require.NoError(t, ser.Prefix(getter, base))
			require.NoError(t, ser.Serialize(getter, base, src, 0, src.Len()))
			require.NoError(t, ser.Suffix(getter, base))

			ms.Reset()

			dst := dictcolumn.New[string]()
			des := NewDeserializer(opts)
			require.NoError(t, des.Prefix(getter, base))
			require.NoError(t, des.Deserialize(getter, base, dst, src.Len()))

			require.Equal(t, src.Len(), dst.Len())
			for i, want := range values {
				v, ok := dst.At(i)
				require.True(t, ok)
				require.Equal(t, want, v)
			}
		})
	}
}

// Universal property: budget discipline. With a new dictionary on overflow,
// the global dictionary never exceeds the configured budget at a block
// boundary.
func TestProperty_BudgetDisciplineWithRefresh(t *testing.T) {
	values := make([]uint64, 0, 20)
	for i := uint64(0); i < 20; i++ {
		values = append(values, i)
	}

	opts := NonNullable[uint64](elemcodec.IntCodec{ByteWidth: 8}, engine(), 5, true)

	src := dictcolumn.New[uint64]()
	fillColumn(src, values)

	ms := hostio.NewMemoryStreamSet()
	getter := ms.Getter()
	base := hostio.Path{"col"}

	ser := NewSerializer(opts)
	require.NoError(t, ser.Prefix(getter, base))
	require.NoError(t, ser.Serialize(getter, base, src, 0, src.Len()))
	require.LessOrEqual(t, ser.global.Len(), 5)
	require.NoError(t, ser.Suffix(getter, base))

	ms.Reset()

	dst := dictcolumn.New[uint64]()
	des := NewDeserializer(opts)
	require.NoError(t, des.Prefix(getter, base))
	require.NoError(t, des.Deserialize(getter, base, dst, src.Len()))

	require.Equal(t, src.Len(), dst.Len())
	for i, want := range values {
		v, ok := dst.At(i)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

// Configure/With* let a caller start from NonNullable's defaults and
// override a subset of fields without repeating the element codec.
func TestConfigure_OverridesSelectedFields(t *testing.T) {
	base := NonNullable[string](elemcodec.StringCodec{}, engine(), 16, false)

	cfg, err := Configure(base,
		WithMaxDictionarySize[string, string](4),
		WithNewDictionaryOnOverflow[string, string](true),
	)
	require.NoError(t, err)
	require.Equal(t, uint64(4), cfg.MaxDictionarySize)
	require.True(t, cfg.UseNewDictionaryOnOverflow)
	require.NotNil(t, cfg.Elem)
	require.Equal(t, base.Engine, cfg.Engine)
}

// Universal property: a stream pair absent entirely is a silent no-op
// rather than an error, matching a host that skips a column for a path.
func TestProperty_AbsentStreamsAreNoOp(t *testing.T) {
	opts := NonNullable[string](elemcodec.StringCodec{}, engine(), 16, false)

	src := dictcolumn.New[string]()
	fillColumn(src, []string{"a"})

	absent := func(hostio.Path) (io.ReadWriteSeeker, bool) { return nil, false }

	ser := NewSerializer(opts)
	require.NoError(t, ser.Prefix(hostio.NewMemoryStreamSet().Getter(), hostio.Path{"col"}))
	require.NoError(t, ser.Serialize(absent, hostio.Path{"missing"}, src, 0, 1))
}
