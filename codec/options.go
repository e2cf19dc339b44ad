package codec

import (
	"github.com/arloliu/dictcol/elemcodec"
	"github.com/arloliu/dictcol/endian"
	"github.com/arloliu/dictcol/internal/options"
)

// Options configures a Serializer/Deserializer pair for one logical
// element type.
//
// T is the logical carrier held by the column and its dictionaries: X
// itself for a non-nullable type, or uniquecol.Optional[X] for a nullable
// one. X is the wire carrier the element codec knows how to read and
// write (uint64 for integer/date/datetime kinds, string for string
// kinds). Strip projects a logical T down to its non-null wire payload,
// reporting false for the reserved null representative; Wrap is its
// inverse, used when rehydrating values read off the wire back into T.
//
// For a non-nullable type, Strip and Wrap are the identity (T == X).
type Options[T comparable, X comparable] struct {
	MaxDictionarySize          uint64
	UseNewDictionaryOnOverflow bool
	Elem                       elemcodec.Codec[X]
	Engine                     endian.EndianEngine
	Strip                      func(T) (X, bool)
	Wrap                       func(X) T
}

// NonNullable returns Options whose Strip/Wrap are the identity function,
// for use when T == X (no nullable wrapper).
func NonNullable[X comparable](elem elemcodec.Codec[X], engine endian.EndianEngine, maxDictSize uint64, useNewDictOnOverflow bool) Options[X, X] {
	return Options[X, X]{
		MaxDictionarySize:          maxDictSize,
		UseNewDictionaryOnOverflow: useNewDictOnOverflow,
		Elem:                       elem,
		Engine:                     engine,
		Strip:                      func(v X) (X, bool) { return v, true },
		Wrap:                       func(v X) X { return v },
	}
}

// WithMaxDictionarySize overrides the budget at which the global
// dictionary spills into additional keys. Use it with Configure to adjust
// a default-constructed Options without repeating its other fields.
func WithMaxDictionarySize[T comparable, X comparable](n uint64) options.Option[*Options[T, X]] {
	return options.NoError(func(o *Options[T, X]) { o.MaxDictionarySize = n })
}

// WithNewDictionaryOnOverflow overrides whether a full global dictionary
// is flushed and replaced mid-session rather than only at the suffix.
func WithNewDictionaryOnOverflow[T comparable, X comparable](enabled bool) options.Option[*Options[T, X]] {
	return options.NoError(func(o *Options[T, X]) { o.UseNewDictionaryOnOverflow = enabled })
}

// Configure applies opts to a copy of base in order, for callers that want
// to start from NonNullable/Nullable's defaults and adjust a subset of
// fields without repeating the element codec and endianness.
func Configure[T comparable, X comparable](base Options[T, X], opts ...options.Option[*Options[T, X]]) (Options[T, X], error) {
	cfg := base
	if err := options.Apply(&cfg, opts...); err != nil {
		return Options[T, X]{}, err
	}
	return cfg, nil
}
