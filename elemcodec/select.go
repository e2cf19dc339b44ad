package elemcodec

import "github.com/arloliu/dictcol/dicttype"

// IntCodecFor returns the IntCodec for an integer/date/datetime type.
// The caller must only invoke this for a Type whose Kind is integer-like
// or date-like; dicttype.New already guarantees that split for the Types
// it accepts.
func IntCodecFor(t dicttype.Type) IntCodec {
	return IntCodec{ByteWidth: t.Kind().ByteWidth()}
}

// StringCodecFor returns the StringCodec for a string/fixed-string type.
func StringCodecFor(t dicttype.Type) StringCodec {
	return ForKind(t.FixedLen())
}
