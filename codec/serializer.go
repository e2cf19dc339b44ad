package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arloliu/dictcol/dictcolumn"
	"github.com/arloliu/dictcol/errs"
	"github.com/arloliu/dictcol/hostio"
	"github.com/arloliu/dictcol/indexvec"
	"github.com/arloliu/dictcol/uniquecol"
)

// keysStreamVersion is the only version this format recognizes:
// SingleDictionaryWithAdditionalKeysPerBlock.
const keysStreamVersion = uint64(1)

// Serializer drives the C4 encoding state machine for one logical column
// across a prefix -> zero or more Serialize blocks -> Suffix session.
type Serializer[T comparable, X comparable] struct {
	opts   Options[T, X]
	global *uniquecol.Column[T]
	prefix bool
}

// NewSerializer returns a Serializer in its pre-prefix state.
func NewSerializer[T comparable, X comparable](opts Options[T, X]) *Serializer[T, X] {
	return &Serializer[T, X]{opts: opts}
}

func writeU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// Prefix writes the keys stream version and resets the global dictionary
// to empty. It must be called exactly once before the first Serialize.
func (s *Serializer[T, X]) Prefix(getter hostio.Getter, base hostio.Path) error {
	keys, hasKeys, _, _ := hostio.Resolve(getter, base)
	if !hasKeys {
		return fmt.Errorf("%w: keys stream unavailable at prefix", errs.ErrMissingStream)
	}

	if err := writeU64(keys, keysStreamVersion); err != nil {
		return err
	}

	s.global = NewDictionary(s.opts)
	s.prefix = true
	return nil
}

// Serialize encodes column[offset : offset+limit) as one block. Calling it
// with both streams absent is a silent no-op, matching the host's ability
// to skip a column entirely for a given path.
func (s *Serializer[T, X]) Serialize(getter hostio.Getter, base hostio.Path, column *dictcolumn.Column[T], offset, limit int) error {
	if !s.prefix {
		return fmt.Errorf("%w: Serialize called before Prefix", errs.ErrWrongState)
	}

	keys, hasKeys, indexes, hasIndexes := hostio.Resolve(getter, base)
	switch {
	case !hasKeys && !hasIndexes:
		return nil
	case !hasKeys || !hasIndexes:
		return fmt.Errorf("%w: exactly one of keys/indexes is available", errs.ErrMissingStream)
	}

	if remaining := column.Len() - offset; limit > remaining {
		limit = remaining
	}

	// Compact the row range into a local dictionary ourselves rather than
	// delegating to column.CutAndCompact: we need id 0 reserved for null
	// (when nullable) so it lines up with the same convention used by
	// the global dictionary and the additional-keys column, which
	// dictcolumn.Column has no notion of (it is agnostic to nullability).
	values := make([]T, limit)
	for i := 0; i < limit; i++ {
		values[i], _ = column.At(offset + i)
	}
	local := NewDictionary(s.opts)
	positions, _ := local.InsertRangeWithOverflow(values, 0, limit, ^uint64(0))
	keyValues := local.Values()

	needGlobal := s.opts.MaxDictionarySize > 0
	if needGlobal {
		mapping, overflow := s.global.InsertRangeWithOverflow(keyValues, 0, len(keyValues), s.opts.MaxDictionarySize)
		for i, p := range positions {
			positions[i] = mapping[p]
		}
		keyValues = overflow
	}

	needAdditionalKeys := len(keyValues) > 0
	needWriteGlobal := s.opts.UseNewDictionaryOnOverflow && uint64(s.global.Len()) >= s.opts.MaxDictionarySize && s.opts.MaxDictionarySize > 0

	idxVec := indexvec.FromIDs(positions)
	header := Classify(idxVec, needGlobal, needAdditionalKeys)
	if err := header.Serialize(indexes, s.opts.Engine); err != nil {
		return err
	}

	if needWriteGlobal {
		if err := s.writeNestedWithCount(keys, s.global.Values()); err != nil {
			return err
		}
		s.global = NewDictionary(s.opts)
	}

	if needAdditionalKeys {
		if err := s.writeNestedWithCount(indexes, keyValues); err != nil {
			return err
		}
	}

	if err := writeU64(indexes, uint64(len(positions))); err != nil {
		return err
	}
	return idxVec.Pack(indexes, s.opts.Engine, header.Width)
}

// Suffix flushes a non-empty global dictionary once at the end of the
// session, when the global dictionary path is in use.
func (s *Serializer[T, X]) Suffix(getter hostio.Getter, base hostio.Path) error {
	if s.opts.MaxDictionarySize == 0 || s.global.Len() == 0 {
		return nil
	}

	keys, hasKeys, _, _ := hostio.Resolve(getter, base)
	if !hasKeys {
		return fmt.Errorf("%w: keys stream unavailable at suffix", errs.ErrMissingStream)
	}

	return s.writeNestedWithCount(keys, s.global.Values())
}

// writeNestedWithCount writes |nested| as u64 then the element codec's
// bulk form of the non-null wire payload projected out of values.
func (s *Serializer[T, X]) writeNestedWithCount(w io.Writer, values []T) error {
	nested := make([]X, 0, len(values))
	for _, v := range values {
		if x, ok := s.opts.Strip(v); ok {
			nested = append(nested, x)
		}
	}

	if err := writeU64(w, uint64(len(nested))); err != nil {
		return err
	}
	return s.opts.Elem.SerializeBulk(w, s.opts.Engine, nested)
}
