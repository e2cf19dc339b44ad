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

// Deserializer drives the C5 decoding state machine for one logical
// column. A single instance may be fed several Deserialize calls whose
// limits sum to less than one block's row count; state persists between
// calls exactly as required by the "partial reads" testable property.
type Deserializer[T comparable, X comparable] struct {
	opts           Options[T, X]
	global         *uniquecol.Column[T]
	additionalKeys *uniquecol.Column[T]
	lastIndexType  IndexType
	numPendingRows uint64
	prefix         bool
}

// NewDeserializer returns a Deserializer in its pre-prefix state.
func NewDeserializer[T comparable, X comparable](opts Options[T, X]) *Deserializer[T, X] {
	return &Deserializer[T, X]{opts: opts}
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func atEOF(s io.Seeker) (bool, error) {
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, err
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return false, err
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return false, err
	}
	return cur >= end, nil
}

// Prefix reads and validates the keys stream version.
func (d *Deserializer[T, X]) Prefix(getter hostio.Getter, base hostio.Path) error {
	keys, hasKeys, _, _ := hostio.Resolve(getter, base)
	if !hasKeys {
		return fmt.Errorf("%w: keys stream unavailable at prefix", errs.ErrMissingStream)
	}

	version, err := readU64(keys)
	if err != nil {
		return fmt.Errorf("read keys stream version: %w", err)
	}
	if version != keysStreamVersion {
		return fmt.Errorf("%w: got %d", errs.ErrUnknownVersion, version)
	}

	d.global = NewDictionary(d.opts)
	d.prefix = true
	return nil
}

// readNested reads a nested key block. When reserveNull is true, id 0 of
// the returned column is reserved for the null representative (the global
// dictionary, and additional keys used in Case B's role as a standalone
// per-block dictionary). When false, the column is numbered densely from
// 0 with no reservation (additional keys used in Case C's role as the
// overflow tail, which never contains the null representative and must
// line up with InsertRangeWithOverflow's own 0-based overflow numbering).
func (d *Deserializer[T, X]) readNested(r io.Reader, n uint64, reserveNull bool) (*uniquecol.Column[T], error) {
	xs, err := d.opts.Elem.DeserializeBulk(r, d.opts.Engine, int(n))
	if err != nil {
		return nil, err
	}

	wrapped := make([]T, len(xs))
	for i, x := range xs {
		wrapped[i] = d.opts.Wrap(x)
	}

	var col *uniquecol.Column[T]
	if reserveNull {
		col = NewDictionary(d.opts)
	} else {
		col = uniquecol.New[T]()
	}
	col.InsertRangeWithOverflow(wrapped, 0, len(wrapped), ^uint64(0))
	return col, nil
}

// Deserialize decodes up to limit rows into target, which must already be
// set up (typically dictcolumn.New[T]()) and is appended to in place.
func (d *Deserializer[T, X]) Deserialize(getter hostio.Getter, base hostio.Path, target *dictcolumn.Column[T], limit int) error {
	if !d.prefix {
		return fmt.Errorf("%w: Deserialize called before Prefix", errs.ErrWrongState)
	}

	keys, hasKeys, indexes, hasIndexes := hostio.Resolve(getter, base)
	if !hasKeys || !hasIndexes {
		return fmt.Errorf("%w: keys/indexes stream unavailable", errs.ErrMissingStream)
	}
	keysSeeker, ok := keys.(io.Seeker)
	if !ok {
		return fmt.Errorf("%w: keys stream does not support seeking", errs.ErrWrongState)
	}
	indexesSeeker, ok := indexes.(io.Seeker)
	if !ok {
		return fmt.Errorf("%w: indexes stream does not support seeking", errs.ErrWrongState)
	}

	for limit > 0 {
		if d.numPendingRows == 0 {
			eof, err := atEOF(indexesSeeker)
			if err != nil {
				return err
			}
			if eof {
				return nil
			}

			header, err := DeserializeIndexType(indexes, d.opts.Engine)
			if err != nil {
				return err
			}
			d.lastIndexType = header

			if header.NeedGlobalDictionary {
				keysEOF, err := atEOF(keysSeeker)
				if err != nil {
					return err
				}
				if !keysEOF {
					numKeys, err := readU64(keys)
					if err != nil {
						return err
					}
					fresh, err := d.readNested(keys, numKeys, true)
					if err != nil {
						return err
					}
					d.global = fresh
				}
			}

			if header.HasAdditionalKeys {
				numAdd, err := readU64(indexes)
				if err != nil {
					return err
				}
				// Additional keys serve as a standalone per-block
				// dictionary (Case B, null reserved) when the global
				// dictionary is not in use, or as the overflow tail
				// (Case C, densely 0-based) when it is.
				add, err := d.readNested(indexes, numAdd, !header.NeedGlobalDictionary)
				if err != nil {
					return err
				}
				d.additionalKeys = add
			} else {
				d.additionalKeys = nil
			}

			pending, err := readU64(indexes)
			if err != nil {
				return err
			}
			d.numPendingRows = pending
		}

		n := d.numPendingRows
		if uint64(limit) < n {
			n = uint64(limit)
		}

		idx, err := indexvec.Unpack(indexes, d.opts.Engine, d.lastIndexType.Width, int(n))
		if err != nil {
			return err
		}

		if err := d.reconstruct(target, idx); err != nil {
			return err
		}

		limit -= int(n)
		d.numPendingRows -= n
	}

	return nil
}

func (d *Deserializer[T, X]) reconstruct(target *dictcolumn.Column[T], idx *indexvec.Vector) error {
	switch {
	case !d.lastIndexType.NeedGlobalDictionary:
		// Case B: every id refers to this block's additional keys.
		add := d.additionalKeys
		if add == nil {
			add = uniquecol.New[T]()
		}
		addLen := uint64(add.Len())
		for _, id := range idx.IDs {
			if id >= addLen {
				return fmt.Errorf("%w: id %d exceeds additional-keys dictionary size %d", errs.ErrNonUniqueIndex, id, addLen)
			}
		}
		target.InsertRangeFromDictionaryEncoded(add, idx)
		return nil

	case !d.lastIndexType.HasAdditionalKeys && (target.Len() == 0 || target.Dict == d.global):
		// Case A: ids refer directly to the (shared) global dictionary.
		if target.Len() == 0 {
			if err := target.SetSharedDictionary(d.global); err != nil {
				return err
			}
		}
		globalLen := uint64(d.global.Len())
		for _, id := range idx.IDs {
			if id >= globalLen {
				return fmt.Errorf("%w: id %d exceeds global dictionary size %d", errs.ErrNonUniqueIndex, id, globalLen)
			}
			target.Indexes.Append(id)
		}
		return nil

	default:
		// Case C: ids split between the global dictionary and this
		// block's additional keys; rebuild a combined keys column.
		add := d.additionalKeys
		if add == nil {
			add = uniquecol.New[T]()
		}

		globalLen := uint64(d.global.Len())
		addLen := uint64(add.Len())
		remap := make(map[uint64]uint64)
		var order []uint64
		for _, v := range idx.IDs {
			if v >= globalLen && v-globalLen >= addLen {
				return fmt.Errorf("%w: id %d exceeds combined dictionary size %d", errs.ErrNonUniqueIndex, v, globalLen+addLen)
			}
			if v < globalLen {
				if _, ok := remap[v]; !ok {
					remap[v] = uint64(len(order))
					order = append(order, v)
				}
			}
		}

		combined := make([]T, 0, len(order)+add.Len())
		for _, gid := range order {
			val, _ := d.global.At(gid)
			combined = append(combined, val)
		}
		combined = append(combined, add.Values()...)

		k := uniquecol.New[T]()
		kmapping, _ := k.InsertRangeWithOverflow(combined, 0, len(combined), ^uint64(0))

		n := uint64(len(order))
		rewritten := make([]uint64, len(idx.IDs))
		for i, v := range idx.IDs {
			var kPos uint64
			if v < globalLen {
				kPos = remap[v]
			} else {
				kPos = n + (v - globalLen)
			}
			rewritten[i] = kmapping[kPos]
		}

		target.InsertRangeFromDictionaryEncoded(k, indexvec.FromIDs(rewritten))
		return nil
	}
}
