package codec

import (
	"github.com/arloliu/dictcol/elemcodec"
	"github.com/arloliu/dictcol/endian"
	"github.com/arloliu/dictcol/uniquecol"
)

// Nullable returns Options for a type wrapped in Nullable(...): T is
// uniquecol.Optional[X], with id 0 of every dictionary reserved for the
// null representative.
func Nullable[X comparable](elem elemcodec.Codec[X], engine endian.EndianEngine, maxDictSize uint64, useNewDictOnOverflow bool) Options[uniquecol.Optional[X], X] {
	return Options[uniquecol.Optional[X], X]{
		MaxDictionarySize:          maxDictSize,
		UseNewDictionaryOnOverflow: useNewDictOnOverflow,
		Elem:                       elem,
		Engine:                     engine,
		Strip: func(v uniquecol.Optional[X]) (X, bool) {
			return v.Value, v.Valid
		},
		Wrap: uniquecol.Some[X],
	}
}

// NewDictionary returns an empty dictionary of the shape Options[T, X]
// expects: for a nullable Options (T = Optional[X]) id 0 is pre-reserved
// for null; for a non-nullable Options the dictionary starts empty.
func NewDictionary[T comparable, X comparable](opts Options[T, X]) *uniquecol.Column[T] {
	var zero T
	if x, ok := opts.Strip(zero); !ok {
		_ = x
		return uniquecol.NewNullable(zero)
	}
	return uniquecol.New[T]()
}
