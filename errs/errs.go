// Package errs defines the sentinel errors returned by the dictcol packages.
//
// Call sites wrap these with fmt.Errorf("%w: ...", errs.ErrXxx, ...) to attach
// context; callers should match on the sentinel with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalTypeOfArgument is returned when a dictionary element type is
	// constructed from a Kind that is not admitted (see dicttype.New).
	ErrIllegalTypeOfArgument = errors.New("illegal type of argument")

	// ErrArgumentCountMismatch is returned when WithDictionary(T) is given
	// a number of inner-type arguments other than exactly one.
	ErrArgumentCountMismatch = errors.New("number of arguments doesn't match")

	// ErrLogicalError is the umbrella sentinel for broken invariants:
	// missing streams where required, unknown versions, unknown index
	// widths, malformed headers, or state of the wrong shape. The errors
	// below all wrap this one (errors.Is(err, ErrLogicalError) succeeds
	// for any of them) while remaining individually distinguishable.
	ErrLogicalError = errors.New("logical error")

	// ErrMissingStream is returned when a required keys/indexes stream is
	// unavailable: exactly one of the two at codec.Serializer.Serialize, the
	// keys stream at a Prefix or Suffix, or either stream at
	// codec.Deserializer.Deserialize.
	ErrMissingStream = fmt.Errorf("%w: a required keys/indexes stream is missing", ErrLogicalError)

	// ErrUnknownVersion is returned when the first word of the keys stream
	// is not the only version this format recognizes (1).
	ErrUnknownVersion = fmt.Errorf("%w: unknown keys stream version", ErrLogicalError)

	// ErrUnknownIndexWidth is returned when an IndexType header's width
	// code is not one of {0,1,2,3}.
	ErrUnknownIndexWidth = fmt.Errorf("%w: unknown index width code", ErrLogicalError)

	// ErrMalformedHeader is returned when an IndexType header has bits set
	// outside width (bits 0-1), need-global-dictionary (bit 8), and
	// has-additional-keys (bit 9).
	ErrMalformedHeader = fmt.Errorf("%w: malformed index-type header", ErrLogicalError)

	// ErrNonUniqueIndex is returned when a decoded indexes column holds an
	// id that does not resolve to any entry of the dictionary it indexes
	// into.
	ErrNonUniqueIndex = fmt.Errorf("%w: indexes column is not a valid unsigned index vector", ErrLogicalError)

	// ErrWrongState is returned when a serializer/deserializer method is
	// called out of order (e.g. Serialize or Deserialize before Prefix),
	// when a stream the decoder reads cannot seek, or when a column's
	// dictionary binding does not permit the requested operation.
	ErrWrongState = fmt.Errorf("%w: encoder/decoder state of wrong shape", ErrLogicalError)
)
