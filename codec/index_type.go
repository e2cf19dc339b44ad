// Package codec implements the C1 index-type header and the C4/C5
// serializer/deserializer state machines that drive a dictionary encoded
// column's on-wire representation across the keys and indexes streams.
package codec

import (
	"fmt"
	"io"

	"github.com/arloliu/dictcol/endian"
	"github.com/arloliu/dictcol/errs"
	"github.com/arloliu/dictcol/indexvec"
)

const (
	flagNeedGlobalDictionary = uint64(1) << 8
	flagHasAdditionalKeys    = uint64(1) << 9
)

// IndexType is the 8-byte block header: the packed width of the indexes
// stream plus two flags: whether this block depends on a global dictionary
// carried over from earlier blocks, and whether it carries additional keys
// of its own.
type IndexType struct {
	Width                indexvec.Width
	NeedGlobalDictionary bool
	HasAdditionalKeys    bool
}

// Classify derives an IndexType from an in-memory index vector and the
// two flags the serializer has already decided for this block.
func Classify(indexes *indexvec.Vector, needGlobalDictionary, hasAdditionalKeys bool) IndexType {
	return IndexType{
		Width:                indexes.Width(),
		NeedGlobalDictionary: needGlobalDictionary,
		HasAdditionalKeys:    hasAdditionalKeys,
	}
}

func (it IndexType) word() uint64 {
	w := uint64(it.Width)
	if it.NeedGlobalDictionary {
		w |= flagNeedGlobalDictionary
	}
	if it.HasAdditionalKeys {
		w |= flagHasAdditionalKeys
	}
	return w
}

// Serialize writes the 8-byte header.
func (it IndexType) Serialize(w io.Writer, engine endian.EndianEngine) error {
	var buf [8]byte
	engine.PutUint64(buf[:], it.word())
	_, err := w.Write(buf[:])
	return err
}

// DeserializeIndexType reads and validates an 8-byte header: after masking
// off the two flag bits, the residue must be a known width code (0..3);
// any other bit pattern is a malformed header.
func DeserializeIndexType(r io.Reader, engine endian.EndianEngine) (IndexType, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return IndexType{}, fmt.Errorf("read index-type header: %w", err)
	}
	word := engine.Uint64(buf[:])

	needGlobal := word&flagNeedGlobalDictionary != 0
	hasAdditional := word&flagHasAdditionalKeys != 0
	residue := word &^ (flagNeedGlobalDictionary | flagHasAdditionalKeys)

	const widthCodeMask = uint64(indexvec.Width64)
	if residue&^widthCodeMask != 0 {
		return IndexType{}, fmt.Errorf("%w: residue %#x after masking flags", errs.ErrMalformedHeader, residue)
	}

	width, err := indexvec.ParseWidth(residue & widthCodeMask)
	if err != nil {
		return IndexType{}, fmt.Errorf("%w: header width code", err)
	}

	return IndexType{
		Width:                width,
		NeedGlobalDictionary: needGlobal,
		HasAdditionalKeys:    hasAdditional,
	}, nil
}
