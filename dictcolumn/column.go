// Package dictcolumn implements the dictionary encoded column D(T): a
// pair of a shared (or private) unique column of distinct values and a
// packed index vector of per-row dictionary ids.
package dictcolumn

import (
	"fmt"

	"github.com/arloliu/dictcol/errs"
	"github.com/arloliu/dictcol/indexvec"
	"github.com/arloliu/dictcol/uniquecol"
)

// Column is the in-memory dictionary encoded column D(T).
type Column[T comparable] struct {
	Dict    *uniquecol.Column[T]
	Indexes *indexvec.Vector
}

// New returns a column with its own private, empty dictionary.
func New[T comparable]() *Column[T] {
	return &Column[T]{Dict: uniquecol.New[T](), Indexes: indexvec.New()}
}

// NewShared returns a column referencing an existing dictionary by
// pointer identity, e.g. one shared across several blocks or columns.
func NewShared[T comparable](dict *uniquecol.Column[T]) *Column[T] {
	return &Column[T]{Dict: dict, Indexes: indexvec.New()}
}

// Len returns the number of logical rows.
func (c *Column[T]) Len() int { return c.Indexes.Len() }

// At returns the value of row i.
func (c *Column[T]) At(i int) (T, bool) {
	return c.Dict.At(c.Indexes.At(i))
}

// SetSharedDictionary replaces the column's dictionary by reference. It is
// only legal on a column that has not inserted any row yet, since every
// previously stored index would otherwise point into the wrong dictionary.
func (c *Column[T]) SetSharedDictionary(dict *uniquecol.Column[T]) error {
	if c.Indexes.Len() != 0 {
		return fmt.Errorf("%w: cannot rebind dictionary of a non-empty column", errs.ErrWrongState)
	}
	c.Dict = dict
	return nil
}

// InsertRangeFrom appends count rows copied from other[offset:offset+count]
// without touching the dictionary. It requires other to reference the
// exact same dictionary instance (by pointer identity); a copy is not
// close enough, since row identity is the dictionary id, not the value.
func (c *Column[T]) InsertRangeFrom(other *Column[T], offset, count int) error {
	if other.Dict != c.Dict {
		return fmt.Errorf("%w: source column does not share this column's dictionary", errs.ErrWrongState)
	}
	if offset < 0 || count < 0 || offset+count > other.Indexes.Len() {
		return fmt.Errorf("%w: range [%d,%d) out of bounds for length %d", errs.ErrLogicalError, offset, offset+count, other.Indexes.Len())
	}

	for i := 0; i < count; i++ {
		c.Indexes.Append(other.Indexes.At(offset + i))
	}
	return nil
}

// InsertRangeFromDictionaryEncoded appends every row referenced by
// indexes into the receiver, translating each row's value through keys
// and re-inserting it into the receiver's own dictionary. Unlike
// InsertRangeFrom, the two dictionaries need not be related: this is the
// path used when merging columns that do not already share a dictionary.
func (c *Column[T]) InsertRangeFromDictionaryEncoded(keys *uniquecol.Column[T], indexes *indexvec.Vector) {
	values := make([]T, indexes.Len())
	for i := range values {
		v, _ := keys.At(indexes.At(i))
		values[i] = v
	}

	mapping, overflow := c.Dict.InsertRangeWithOverflow(values, 0, len(values), ^uint64(0))
	_ = overflow // unreachable: max_dict_size is unbounded for this merge path

	for _, id := range mapping {
		c.Indexes.Append(id)
	}
}

// CutAndCompact returns a new column containing only the rows in
// [offset, offset+limit), with a freshly compacted dictionary holding
// exactly the distinct values referenced by that range, renumbered
// densely in first-occurrence order.
func (c *Column[T]) CutAndCompact(offset, limit int) *Column[T] {
	out := New[T]()

	values := make([]T, limit)
	for i := 0; i < limit; i++ {
		v, _ := c.Dict.At(c.Indexes.At(offset + i))
		values[i] = v
	}

	mapping, _ := out.Dict.InsertRangeWithOverflow(values, 0, limit, ^uint64(0))
	for _, id := range mapping {
		out.Indexes.Append(id)
	}

	return out
}
