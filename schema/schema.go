// Package schema holds the static catalog the compiler consults when
// constructing table scans: relation name to ordered attribute list.
package schema

import (
	"github.com/cockroachdb/errors"

	"github.com/dianpeng/plan2cc/types"
)

type Attribute struct {
	Name string
	Type types.Type
}

type Relation struct {
	Name       string
	Attributes []Attribute
}

func (r Relation) Attribute(name string) (Attribute, error) {
	for _, a := range r.Attributes {
		if a.Name == name {
			return a, nil
		}
	}
	return Attribute{}, errors.Newf("unknown attribute %q in relation %q", name, r.Name)
}

// Catalog is a read-only mapping once populated. It is a value rather
// than package state so tests can register fixture relations and two
// compilations can never alias each other.
type Catalog struct {
	rels  map[string]Relation
	order []string
}

func NewCatalog() *Catalog {
	return &Catalog{rels: map[string]Relation{}}
}

func (c *Catalog) Add(name string, attrs []Attribute) {
	if _, ok := c.rels[name]; !ok {
		c.order = append(c.order, name)
	}
	c.rels[name] = Relation{Name: name, Attributes: attrs}
}

func (c *Catalog) Relation(name string) (Relation, error) {
	r, ok := c.rels[name]
	if !ok {
		return Relation{}, errors.Newf("unknown relation %q", name)
	}
	return r, nil
}

// Names returns the relation names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
