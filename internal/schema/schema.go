package schema

import (
	"bytes"
	"encoding/json"
)

// ContainerKind says whether a container is a relational table or a
// document collection. It decides the JSON name key.
type ContainerKind int

const (
	KindTable ContainerKind = iota
	KindCollection
)

// Column describes one column or document field.
type Column struct {
	Type       string  `json:"type"`
	Nullable   bool    `json:"nullable"`
	Default    *string `json:"default"`
	PrimaryKey bool    `json:"primary_key"`
}

// ForeignKey describes one foreign-key constraint.
type ForeignKey struct {
	ConstrainedColumns []string `json:"constrained_columns"`
	ReferredTable      string   `json:"referred_table"`
	ReferredColumns    []string `json:"referred_columns"`
}

// Columns is a column map that remembers insertion order: catalog order for
// relational sources, first-seen order for sampled documents. A plain Go map
// would lose that ordering in iteration and in JSON output.
type Columns struct {
	names []string
	items map[string]Column
}

// Add records col under name. Adding an existing name overwrites the
// descriptor but keeps its original position.
func (c *Columns) Add(name string, col Column) {
	if c.items == nil {
		c.items = make(map[string]Column)
	}
	if _, ok := c.items[name]; !ok {
		c.names = append(c.names, name)
	}
	c.items[name] = col
}

// Get returns the column recorded under name.
func (c *Columns) Get(name string) (Column, bool) {
	col, ok := c.items[name]
	return col, ok
}

// Has reports whether name has been recorded.
func (c *Columns) Has(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Names returns the column names in insertion order.
func (c *Columns) Names() []string {
	return c.names
}

// Len returns the number of recorded columns.
func (c *Columns) Len() int {
	return len(c.names)
}

// MarshalJSON writes the columns as a JSON object in insertion order.
func (c Columns) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ContainerSchema is the uniform description of one table or collection.
type ContainerSchema struct {
	Name        string
	Kind        ContainerKind
	Columns     Columns
	PrimaryKeys []string
	ForeignKeys []ForeignKey
}

// MarshalJSON emits the container under a kind-specific name key
// (table_name for tables, collection_name for collections).
func (s ContainerSchema) MarshalJSON() ([]byte, error) {
	type body struct {
		Columns     Columns      `json:"columns"`
		PrimaryKeys []string     `json:"primary_keys"`
		ForeignKeys []ForeignKey `json:"foreign_keys"`
	}
	b := body{
		Columns:     s.Columns,
		PrimaryKeys: s.PrimaryKeys,
		ForeignKeys: s.ForeignKeys,
	}
	if b.PrimaryKeys == nil {
		b.PrimaryKeys = []string{}
	}
	if b.ForeignKeys == nil {
		b.ForeignKeys = []ForeignKey{}
	}
	if s.Kind == KindCollection {
		return json.Marshal(struct {
			Name string `json:"collection_name"`
			body
		}{s.Name, b})
	}
	return json.Marshal(struct {
		Name string `json:"table_name"`
		body
	}{s.Name, b})
}
