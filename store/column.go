package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/dianpeng/plan2cc/schema"
	"github.com/dianpeng/plan2cc/types"
)

// Column is one mapped column file.
type Column struct {
	Type types.Type
	data []byte
}

// ColumnPath names the file of one column inside a data directory.
func ColumnPath(dir, rel, att string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s.col", rel, att))
}

// OpenColumn maps a column file read-only.
func OpenColumn(path string, t types.Type) (*Column, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open column %s", path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat column %s", path)
	}
	if st.Size() == 0 {
		return &Column{Type: t}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap column %s", path)
	}

	c := &Column{Type: t, data: data}
	if err := c.check(path); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Column) check(path string) error {
	if c.Type == types.String {
		if len(c.data) < stringHeaderSize {
			return errors.Newf("string column %s: truncated header", path)
		}
		n := binary.LittleEndian.Uint64(c.data)
		if uint64(len(c.data)) < stringHeaderSize+stringSlotSize*n {
			return errors.Newf("string column %s: truncated slot table", path)
		}
		return nil
	}
	sz, err := elemSize(c.Type)
	if err != nil {
		return errors.Wrapf(err, "column %s", path)
	}
	if len(c.data)%sz != 0 {
		return errors.Newf("column %s: size %d not a multiple of element size %d",
			path, len(c.data), sz)
	}
	return nil
}

// Close unmaps the file.
func (c *Column) Close() error {
	if c.data == nil {
		return nil
	}
	data := c.data
	c.data = nil
	return unix.Munmap(data)
}

// Count returns the number of values in the column.
func (c *Column) Count() int {
	if c.data == nil {
		return 0
	}
	if c.Type == types.String {
		return int(binary.LittleEndian.Uint64(c.data))
	}
	sz, _ := elemSize(c.Type)
	return len(c.data) / sz
}

func (c *Column) Int32(i int) int32 {
	return int32(binary.LittleEndian.Uint32(c.data[i*4:]))
}

func (c *Column) Int64(i int) int64 {
	return int64(binary.LittleEndian.Uint64(c.data[i*8:]))
}

func (c *Column) Float64(i int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(c.data[i*8:]))
}

func (c *Column) Byte(i int) byte {
	return c.data[i]
}

func (c *Column) Date(i int) types.DateValue {
	return types.DateValue{Value: c.Int32(i)}
}

func (c *Column) String(i int) string {
	slot := c.data[stringHeaderSize+i*stringSlotSize:]
	size := binary.LittleEndian.Uint64(slot)
	offset := binary.LittleEndian.Uint64(slot[8:])
	return string(c.data[offset : offset+size])
}

// Table is one fully opened relation.
type Table struct {
	Rel        schema.Relation
	TupleCount uint64
	columns    map[string]*Column
}

// OpenTable maps every column of a relation and cross-checks the
// tuple counts.
func OpenTable(dir string, rel schema.Relation) (*Table, error) {
	t := &Table{Rel: rel, columns: map[string]*Column{}}
	for i, att := range rel.Attributes {
		c, err := OpenColumn(ColumnPath(dir, rel.Name, att.Name), att.Type)
		if err != nil {
			t.Close()
			return nil, err
		}
		if i == 0 {
			t.TupleCount = uint64(c.Count())
		} else if uint64(c.Count()) != t.TupleCount {
			c.Close()
			t.Close()
			return nil, errors.Newf(
				"relation %s: column %s has %d tuples, expected %d",
				rel.Name, att.Name, c.Count(), t.TupleCount)
		}
		t.columns[att.Name] = c
	}
	return t, nil
}

// Column returns an opened column by attribute name.
func (t *Table) Column(att string) (*Column, error) {
	c, ok := t.columns[att]
	if !ok {
		return nil, errors.Newf("unknown attribute %q in table %s", att, t.Rel.Name)
	}
	return c, nil
}

func (t *Table) Close() error {
	var first error
	for _, c := range t.columns {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	t.columns = map[string]*Column{}
	return first
}
