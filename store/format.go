// Package store implements the columnar file format the generated
// programs read: one file per column. Fixed-size columns are raw
// little-endian arrays. String columns carry a 64 bit count, a slot
// table of (size, offset) pairs and a byte heap; offsets are relative
// to the file start so a mapped file can be used in place.
package store

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/dianpeng/plan2cc/types"
)

const (
	stringHeaderSize = 8  // uint64 count
	stringSlotSize   = 16 // uint64 size, uint64 offset
)

// elemSize returns the on-disk width of a fixed-size column type.
func elemSize(t types.Type) (int, error) {
	switch t {
	case types.Integer, types.Date:
		return 4, nil
	case types.BigInt, types.Double:
		return 8, nil
	case types.Char, types.Bool:
		return 1, nil
	default:
		return 0, errors.Newf("type %s has no fixed element size", t)
	}
}

// WriteInt32Column writes a fixed column of 32 bit values (Integer or
// Date, which shares the encoding).
func WriteInt32Column(w io.Writer, vals []int32) error {
	return binary.Write(w, binary.LittleEndian, vals)
}

func WriteInt64Column(w io.Writer, vals []int64) error {
	return binary.Write(w, binary.LittleEndian, vals)
}

func WriteFloat64Column(w io.Writer, vals []float64) error {
	return binary.Write(w, binary.LittleEndian, vals)
}

func WriteByteColumn(w io.Writer, vals []byte) error {
	_, err := w.Write(vals)
	return err
}

// WriteStringColumn writes the slot table layout. The heap starts
// right after the slots; every offset is relative to the file start.
func WriteStringColumn(w io.Writer, vals []string) error {
	count := uint64(len(vals))
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}
	offset := uint64(stringHeaderSize + stringSlotSize*len(vals))
	for _, v := range vals {
		if err := binary.Write(w, binary.LittleEndian, uint64(len(v))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, offset); err != nil {
			return err
		}
		offset += uint64(len(v))
	}
	for _, v := range vals {
		if _, err := io.WriteString(w, v); err != nil {
			return err
		}
	}
	return nil
}
