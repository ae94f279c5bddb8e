// Package ingest turns TPC-H text tables into column files. Input is
// the dbgen `.tbl` dialect: '|' separated fields, one optional
// trailing separator per line. Plain CSV works by changing the
// separator.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/dianpeng/plan2cc/schema"
	"github.com/dianpeng/plan2cc/store"
	"github.com/dianpeng/plan2cc/types"
)

// Options controls one import run.
type Options struct {
	// Separator is the field separator, '|' for .tbl.
	Separator rune
}

func DefaultOptions() Options {
	return Options{Separator: '|'}
}

// column accumulates one attribute before the files are written.
type column struct {
	att  schema.Attribute
	i32  []int32
	i64  []int64
	f64  []float64
	b    []byte
	strs []string
}

func (c *column) append(field string) error {
	switch c.att.Type {
	case types.Integer:
		v, err := strconv.ParseInt(field, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "attribute %s", c.att.Name)
		}
		c.i32 = append(c.i32, int32(v))
	case types.BigInt:
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "attribute %s", c.att.Name)
		}
		c.i64 = append(c.i64, v)
	case types.Double:
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return errors.Wrapf(err, "attribute %s", c.att.Name)
		}
		c.f64 = append(c.f64, v)
	case types.Char:
		if len(field) != 1 {
			return errors.Newf("attribute %s: %q is not a single character", c.att.Name, field)
		}
		c.b = append(c.b, field[0])
	case types.Bool:
		v, err := strconv.ParseBool(field)
		if err != nil {
			return errors.Wrapf(err, "attribute %s", c.att.Name)
		}
		if v {
			c.b = append(c.b, 1)
		} else {
			c.b = append(c.b, 0)
		}
	case types.Date:
		d, err := types.ParseDate(field)
		if err != nil {
			return errors.Wrapf(err, "attribute %s", c.att.Name)
		}
		c.i32 = append(c.i32, d.Value)
	case types.String:
		c.strs = append(c.strs, field)
	default:
		return errors.Newf("attribute %s: type %s cannot be imported", c.att.Name, c.att.Type)
	}
	return nil
}

func (c *column) write(w io.Writer) error {
	switch c.att.Type {
	case types.Integer, types.Date:
		return store.WriteInt32Column(w, c.i32)
	case types.BigInt:
		return store.WriteInt64Column(w, c.i64)
	case types.Double:
		return store.WriteFloat64Column(w, c.f64)
	case types.Char, types.Bool:
		return store.WriteByteColumn(w, c.b)
	case types.String:
		return store.WriteStringColumn(w, c.strs)
	default:
		return errors.Newf("attribute %s: type %s cannot be written", c.att.Name, c.att.Type)
	}
}

// Relation reads one text table and writes its column files into dir.
// Returns the tuple count and the per-attribute checksums for the
// manifest.
func Relation(dir string, rel schema.Relation, r io.Reader, opts Options) (uint64, map[string]uint64, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.Separator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	cols := make([]*column, len(rel.Attributes))
	for i, att := range rel.Attributes {
		cols[i] = &column{att: att}
	}

	var count uint64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, nil, errors.Wrapf(err, "relation %s", rel.Name)
		}
		// dbgen emits a trailing separator, which scans as one empty
		// extra field
		if len(record) == len(cols)+1 && record[len(record)-1] == "" {
			record = record[:len(cols)]
		}
		if len(record) != len(cols) {
			return 0, nil, errors.Newf(
				"relation %s row %d: %d fields, expected %d",
				rel.Name, count+1, len(record), len(cols))
		}
		for i, field := range record {
			if err := cols[i].append(field); err != nil {
				return 0, nil, errors.Wrapf(err, "relation %s row %d", rel.Name, count+1)
			}
		}
		count++
	}

	checksums := map[string]uint64{}
	for _, c := range cols {
		path := store.ColumnPath(dir, rel.Name, c.att.Name)
		f, err := os.Create(path)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "create column %s", path)
		}
		if err := c.write(f); err != nil {
			f.Close()
			return 0, nil, err
		}
		if err := f.Close(); err != nil {
			return 0, nil, errors.Wrapf(err, "close column %s", path)
		}
		sum, err := store.ChecksumFile(path)
		if err != nil {
			return 0, nil, err
		}
		checksums[c.att.Name] = sum
	}
	return count, checksums, nil
}

// Directory imports every catalog relation that has a `<name>.tbl`
// file under tblDir, writing column files and the manifest into
// dataDir. Relations without an input file are skipped.
func Directory(dataDir, tblDir string, cat *schema.Catalog, opts Options) (*store.Manifest, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dataDir)
	}

	m := store.NewManifest()
	for _, name := range cat.Names() {
		rel, err := cat.Relation(name)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(tblDir, name+".tbl")
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "open %s", path)
		}
		count, checksums, err := Relation(dataDir, rel, f, opts)
		f.Close()
		if err != nil {
			return nil, err
		}
		m.Relations[name] = store.RelationManifest{
			TupleCount: count,
			Checksums:  checksums,
		}
	}

	if err := store.WriteManifest(dataDir, m); err != nil {
		return nil, err
	}
	return m, nil
}
