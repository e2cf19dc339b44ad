package codec

import (
	"fmt"

	"github.com/arloliu/dictcol/dicttype"
	"github.com/arloliu/dictcol/elemcodec"
	"github.com/arloliu/dictcol/endian"
	"github.com/arloliu/dictcol/errs"
	"github.com/arloliu/dictcol/uniquecol"
)

// OptionsFor is the C6 factory: it turns a validated dicttype.Type into the
// Options wired for that type's carrier and nullability, dispatching on
// t.CarriesUint64() for the element codec (elemcodec.IntCodecFor for
// integer/date/datetime kinds, elemcodec.StringCodecFor for string kinds)
// and on t.Nullable() for the Strip/Wrap carrier (NonNullable vs Nullable).
//
// The concrete type returned is one of Options[uint64, uint64],
// Options[uniquecol.Optional[uint64], uint64], Options[string, string], or
// Options[uniquecol.Optional[string], string]; a caller that built t itself
// knows which and type-asserts accordingly.
func OptionsFor(t dicttype.Type, engine endian.EndianEngine, maxDictSize uint64, useNewDictOnOverflow bool) any {
	if t.CarriesUint64() {
		ic := elemcodec.IntCodecFor(t)
		if t.Nullable() {
			return Nullable[uint64](ic, engine, maxDictSize, useNewDictOnOverflow)
		}
		return NonNullable[uint64](ic, engine, maxDictSize, useNewDictOnOverflow)
	}

	sc := elemcodec.StringCodecFor(t)
	if t.Nullable() {
		return Nullable[string](sc, engine, maxDictSize, useNewDictOnOverflow)
	}
	return NonNullable[string](sc, engine, maxDictSize, useNewDictOnOverflow)
}

// SerializerFor builds a Serializer for t via OptionsFor. The concrete
// return type mirrors OptionsFor's; callers type-assert to the variant
// matching the Type they constructed.
func SerializerFor(t dicttype.Type, engine endian.EndianEngine, maxDictSize uint64, useNewDictOnOverflow bool) (any, error) {
	switch o := OptionsFor(t, engine, maxDictSize, useNewDictOnOverflow).(type) {
	case Options[uint64, uint64]:
		return NewSerializer(o), nil
	case Options[uniquecol.Optional[uint64], uint64]:
		return NewSerializer(o), nil
	case Options[string, string]:
		return NewSerializer(o), nil
	case Options[uniquecol.Optional[string], string]:
		return NewSerializer(o), nil
	default:
		return nil, fmt.Errorf("%w: unhandled options variant %T for type %s", errs.ErrIllegalTypeOfArgument, o, t)
	}
}

// DeserializerFor builds a Deserializer for t via OptionsFor, mirroring
// SerializerFor.
func DeserializerFor(t dicttype.Type, engine endian.EndianEngine, maxDictSize uint64, useNewDictOnOverflow bool) (any, error) {
	switch o := OptionsFor(t, engine, maxDictSize, useNewDictOnOverflow).(type) {
	case Options[uint64, uint64]:
		return NewDeserializer(o), nil
	case Options[uniquecol.Optional[uint64], uint64]:
		return NewDeserializer(o), nil
	case Options[string, string]:
		return NewDeserializer(o), nil
	case Options[uniquecol.Optional[string], string]:
		return NewDeserializer(o), nil
	default:
		return nil, fmt.Errorf("%w: unhandled options variant %T for type %s", errs.ErrIllegalTypeOfArgument, o, t)
	}
}
