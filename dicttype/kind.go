// Package dicttype describes the element types admitted into a dictionary
// encoded column and validates them at construction time.
//
// A Type is built only through New or NewNullable, which enforce the C6
// type guard: after stripping an optional nullable wrapper, the inner kind
// must be an integer, a date, a datetime, or a (fixed) string.
package dicttype

// Kind identifies the scalar element type carried by a dictionary encoded
// column, independent of nullability.
type Kind uint8

const (
	KindInt8 Kind = iota + 1
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindDate16
	KindDateTime32
	KindString
	KindFixedString
)

func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindUint8:
		return "UInt8"
	case KindUint16:
		return "UInt16"
	case KindUint32:
		return "UInt32"
	case KindUint64:
		return "UInt64"
	case KindDate16:
		return "Date"
	case KindDateTime32:
		return "DateTime"
	case KindString:
		return "String"
	case KindFixedString:
		return "FixedString"
	default:
		return "Unknown"
	}
}

// IsInteger reports whether k is one of the signed/unsigned integer kinds.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUint64
}

// IsDateLike reports whether k is Date16 or DateTime32.
func (k Kind) IsDateLike() bool {
	return k == KindDate16 || k == KindDateTime32
}

// IsStringLike reports whether k is String or FixedString.
func (k Kind) IsStringLike() bool {
	return k == KindString || k == KindFixedString
}

// ByteWidth returns the on-wire element width in bytes for kinds whose
// carrier is a fixed-size unsigned integer bit pattern (integers, Date16,
// DateTime32). It returns 0 for string-like kinds, whose width is either
// variable (String) or carried separately as FixedLen (FixedString).
func (k Kind) ByteWidth() int {
	switch k {
	case KindInt8, KindUint8:
		return 1
	case KindInt16, KindUint16, KindDate16:
		return 2
	case KindInt32, KindUint32, KindDateTime32:
		return 4
	case KindInt64, KindUint64:
		return 8
	default:
		return 0
	}
}
