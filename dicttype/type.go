package dicttype

import (
	"fmt"

	"github.com/arloliu/dictcol/errs"
)

// Type is an immutable, validated descriptor of a dictionary column's
// element type. It is only ever constructed through New or NewNullable.
type Type struct {
	kind     Kind
	fixedLen int
	nullable bool
}

// Kind returns the element kind, independent of nullability.
func (t Type) Kind() Kind { return t.kind }

// FixedLen returns the fixed byte length for KindFixedString, or 0 for
// every other kind.
func (t Type) FixedLen() int { return t.fixedLen }

// Nullable reports whether the type admits a null value (id 0 reserved in
// the global dictionary).
func (t Type) Nullable() bool { return t.nullable }

// CarriesUint64 reports whether values of this type are carried as a
// uint64 bit pattern (integers, Date16, DateTime32) as opposed to string.
func (t Type) CarriesUint64() bool { return !t.kind.IsStringLike() }

func (t Type) String() string {
	s := t.kind.String()
	if t.kind == KindFixedString {
		s = fmt.Sprintf("%s(%d)", s, t.fixedLen)
	}
	if t.nullable {
		s = "Nullable(" + s + ")"
	}
	return s
}

// New constructs a non-nullable Type. fixedLen is only meaningful (and
// required to be > 0) for KindFixedString; it must be 0 for every other
// kind.
func New(kind Kind, fixedLen int) (Type, error) {
	return newType(kind, fixedLen, false)
}

// NewNullable constructs a Type wrapped in Nullable(...). The id 0 slot of
// its global dictionary is reserved for the null value.
func NewNullable(kind Kind, fixedLen int) (Type, error) {
	return newType(kind, fixedLen, true)
}

func newType(kind Kind, fixedLen int, nullable bool) (Type, error) {
	switch {
	case kind.IsInteger(), kind.IsDateLike(), kind == KindString:
		if fixedLen != 0 {
			return Type{}, fmt.Errorf("%w: fixedLen must be 0 for %s, got %d", errs.ErrIllegalTypeOfArgument, kind, fixedLen)
		}
	case kind == KindFixedString:
		if fixedLen <= 0 {
			return Type{}, fmt.Errorf("%w: FixedString requires fixedLen > 0, got %d", errs.ErrIllegalTypeOfArgument, fixedLen)
		}
	default:
		return Type{}, fmt.Errorf("%w: kind %q is not admitted into a dictionary encoded column", errs.ErrIllegalTypeOfArgument, kind)
	}

	return Type{kind: kind, fixedLen: fixedLen, nullable: nullable}, nil
}

// ArgCount validates the WithDictionary(T) type grammar: exactly one inner
// type argument. It returns the single argument on success.
func ArgCount(args []Type) (Type, error) {
	if len(args) != 1 {
		return Type{}, fmt.Errorf("%w: WithDictionary expects exactly 1 argument, got %d", errs.ErrArgumentCountMismatch, len(args))
	}
	return args[0], nil
}
