package cg

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/dianpeng/plan2cc/schema"
)

// Scan drives a column loop over one relation. It is the only
// operator that creates IUs from the catalog: one per attribute,
// living as long as the operator does.
type Scan struct {
	ctx        *Context
	relName    string
	attributes []*IU
}

// NewScan looks the relation up in the catalog and materializes one
// IU per attribute.
func NewScan(ctx *Context, cat *schema.Catalog, relName string) (*Scan, error) {
	rel, err := cat.Relation(relName)
	if err != nil {
		return nil, err
	}
	s := &Scan{ctx: ctx, relName: relName}
	for _, att := range rel.Attributes {
		s.attributes = append(s.attributes, ctx.newIU(att.Name, att.Type))
	}
	return s, nil
}

// IU returns the handle for one attribute.
func (s *Scan) IU(attName string) (*IU, error) {
	for _, iu := range s.attributes {
		if iu.Name == attName {
			return iu, nil
		}
	}
	return nil, errors.Newf("unknown attribute %q in scan of %q", attName, s.relName)
}

// IUs returns handles for several attributes at once.
func (s *Scan) IUs(attNames ...string) ([]*IU, error) {
	out := make([]*IU, 0, len(attNames))
	for _, n := range attNames {
		iu, err := s.IU(n)
		if err != nil {
			return nil, err
		}
		out = append(out, iu)
	}
	return out, nil
}

func (s *Scan) AvailableIUs() IUSet {
	return NewIUSet(s.attributes...)
}

func (s *Scan) Produce(required IUSet, consume Consumer) {
	i := s.ctx.Fresh("i")
	s.ctx.Block(fmt.Sprintf("for (uint64_t %s = 0; %s != db.%s.tupleCount; %s++)", i, i, s.relName, i), func() {
		// bind only what was asked for, unreferenced columns are
		// never read
		for _, iu := range required.IUs() {
			s.ctx.provide(iu, fmt.Sprintf("db.%s.%s[%s]", s.relName, iu.Name, i))
		}
		consume()
	})
}
