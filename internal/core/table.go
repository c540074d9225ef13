package core

import "strings"

// Table is the structured form derived from a CREATE TABLE statement's
// DDL text. Columns preserve declaration order; indexes and foreign keys
// are sets keyed by name.
type Table struct {
	Name        string
	Columns     []*Column
	Indexes     []*Index
	ForeignKeys []*ForeignKey
	Checks      []*CheckConstraint
	Options     TableOptions
}

// Column is one column definition inside a Table.
type Column struct {
	Name string
	// Type is the full type text including length/precision/enum members,
	// e.g. "varchar(255)" or "enum('a','b,c')". Equal compares it with
	// whitespace runs collapsed; the text stored here is kept as parsed
	// for re-emission.
	Type     string
	Nullable bool
	Default  *string
	// Extra carries AUTO_INCREMENT, ON UPDATE CURRENT_TIMESTAMP, or a
	// generated-column expression/storage suffix, exactly as declared.
	Extra   string
	Comment *string
}

// normalizedType collapses internal whitespace runs in Type for comparison.
func (c *Column) normalizedType() string {
	return strings.Join(strings.Fields(c.Type), " ")
}

// Equal reports field-wise equality, with Type compared after whitespace
// normalization as spec.md §3 requires.
func (c *Column) Equal(o *Column) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Name == o.Name &&
		c.normalizedType() == o.normalizedType() &&
		c.Nullable == o.Nullable &&
		ptrEqual(c.Default, o.Default) &&
		c.Extra == o.Extra &&
		ptrEqual(c.Comment, o.Comment)
}

// IndexKind is the closed enumeration of index kinds a CREATE TABLE may declare.
type IndexKind string

const (
	IndexPrimary  IndexKind = "primary"
	IndexUnique   IndexKind = "unique"
	IndexKey      IndexKind = "key"
	IndexFullText IndexKind = "fulltext"
)

// IndexColumn is one column reference within an index, with its optional
// key-part prefix length.
type IndexColumn struct {
	Name   string
	Prefix int // 0 means no prefix length was specified.
}

// Index models PRIMARY KEY, UNIQUE KEY, KEY, and FULLTEXT KEY clauses.
// PRIMARY KEY is conventionally stored under the name "PRIMARY".
type Index struct {
	Name    string
	Kind    IndexKind
	Columns []IndexColumn
	// Options carries trailing clauses such as "USING BTREE".
	Options string
}

// Equal reports whether two indexes are structurally identical: same
// kind, same column sequence (order-sensitive), same options text.
func (i *Index) Equal(o *Index) bool {
	if i == nil || o == nil {
		return i == o
	}
	if i.Kind != o.Kind || len(i.Columns) != len(o.Columns) {
		return false
	}
	for k := range i.Columns {
		if i.Columns[k] != o.Columns[k] {
			return false
		}
	}
	return strings.TrimSpace(i.Options) == strings.TrimSpace(o.Options)
}

// ForeignKey models a CONSTRAINT ... FOREIGN KEY clause.
type ForeignKey struct {
	Name         string
	LocalColumns []string
	RefTable     string
	RefColumns   []string
	// OnDelete/OnUpdate are normalized: an absent clause in the source DDL
	// is stored as "RESTRICT", matching MySQL/MariaDB's implicit default,
	// so textual absence on one side never causes a spurious diff.
	OnDelete string
	OnUpdate string
}

// Equal reports field-wise equality of two foreign keys.
func (f *ForeignKey) Equal(o *ForeignKey) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.Name == o.Name &&
		stringsEqual(f.LocalColumns, o.LocalColumns) &&
		f.RefTable == o.RefTable &&
		stringsEqual(f.RefColumns, o.RefColumns) &&
		f.OnDelete == o.OnDelete &&
		f.OnUpdate == o.OnUpdate
}

// CheckConstraint models an inline or table-level CHECK (expr) clause.
// It is captured so the parser never silently drops CHECK constraints
// (compatibility requirement: "CHECK constraints must all parse without
// error"), but per spec.md §3 it is not one of the four tracked option
// keys and is not compared by the table differ.
type CheckConstraint struct {
	Name       string
	Expression string
}

// TableOptions is the subset of table-level options tracked for diffing:
// engine, default charset, collation, and comment. AUTO_INCREMENT=<n> is
// parsed and discarded (invariant I3): it is treated as data, not schema.
type TableOptions struct {
	Engine         string
	DefaultCharset string
	Collate        string
	Comment        string
}

// Equal reports the four tracked options are all string-equal.
func (o TableOptions) Equal(other TableOptions) bool {
	return o.Engine == other.Engine &&
		o.DefaultCharset == other.DefaultCharset &&
		o.Collate == other.Collate &&
		o.Comment == other.Comment
}

// Equal reports whether two parsed tables are structurally identical:
// same columns in the same order, same index set, same foreign-key set,
// same tracked options. Column order matters (declaration order); indexes
// and foreign keys are compared as name-keyed sets, so their list order
// does not. CHECK constraints are not compared.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Name != o.Name || len(t.Columns) != len(o.Columns) {
		return false
	}
	for i := range t.Columns {
		if !t.Columns[i].Equal(o.Columns[i]) {
			return false
		}
	}
	if !t.Options.Equal(o.Options) {
		return false
	}
	if len(t.Indexes) != len(o.Indexes) || len(t.ForeignKeys) != len(o.ForeignKeys) {
		return false
	}
	oIdx := indexByName(t.Indexes)
	nIdx := indexByName(o.Indexes)
	for name, idx := range oIdx {
		other, ok := nIdx[name]
		if !ok || !idx.Equal(other) {
			return false
		}
	}
	oFK := fkByName(t.ForeignKeys)
	nFK := fkByName(o.ForeignKeys)
	for name, fk := range oFK {
		other, ok := nFK[name]
		if !ok || !fk.Equal(other) {
			return false
		}
	}
	return true
}

// FindColumn returns the column named name, or nil when absent.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// PredecessorColumn returns the name of the column declared immediately
// before name, or "" if name is first or not found.
func (t *Table) PredecessorColumn(name string) string {
	for i, c := range t.Columns {
		if c.Name == name {
			if i == 0 {
				return ""
			}
			return t.Columns[i-1].Name
		}
	}
	return ""
}

func indexByName(idxs []*Index) map[string]*Index {
	m := make(map[string]*Index, len(idxs))
	for _, i := range idxs {
		m[i.Name] = i
	}
	return m
}

func fkByName(fks []*ForeignKey) map[string]*ForeignKey {
	m := make(map[string]*ForeignKey, len(fks))
	for _, f := range fks {
		m[f.Name] = f
	}
	return m
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
