package core

// KindDiff partitions the names of one object kind between two schemas.
// Every list is sorted (spec invariant I1/P5): nothing downstream may
// depend on map iteration order.
type KindDiff struct {
	OnlyInSource []string
	OnlyInDest   []string
	InBoth       []string
}

// Diff is the full comparison result between a SOURCE and a DEST snapshot:
// a per-kind name partition for all seven kinds, plus a structural delta
// for every table present on both sides whose parsed representations differ.
type Diff struct {
	PerKind     map[ObjectKind]*KindDiff
	TableDeltas map[string]*TableDelta
	// TableParseNotes carries a diagnostic message for a table present on
	// both sides whose DDL could not be parsed on at least one side (spec.md
	// §7): rather than fabricate a structural delta, the table is treated as
	// opaque and compared as whitespace-normalized text. A note is recorded
	// here only when that text comparison found a difference; the planner
	// renders it as a comment with no executable statement.
	TableParseNotes map[string]string
}

// NewDiff allocates an empty Diff with all seven kind buckets present.
func NewDiff() *Diff {
	d := &Diff{
		PerKind:         make(map[ObjectKind]*KindDiff, len(AllKinds())),
		TableDeltas:     make(map[string]*TableDelta),
		TableParseNotes: make(map[string]string),
	}
	for _, k := range AllKinds() {
		d.PerKind[k] = &KindDiff{}
	}
	return d
}

// IsEmpty reports whether the diff carries no changes whatsoever: no kind
// has an only-in-source or only-in-dest name, no table has a delta, and no
// table carries a parse note. InBoth names alone do not make a diff
// non-empty. This is the null-diff / idempotence property (P2, P4).
func (d *Diff) IsEmpty() bool {
	for _, k := range AllKinds() {
		kd := d.PerKind[k]
		if kd == nil {
			continue
		}
		if len(kd.OnlyInSource) != 0 || len(kd.OnlyInDest) != 0 {
			return false
		}
		if k == KindTable {
			continue // in_both tables only matter via TableDeltas
		}
	}
	return len(d.TableDeltas) == 0 && len(d.TableParseNotes) == 0 && d.tableKindDiffEmpty()
}

func (d *Diff) tableKindDiffEmpty() bool {
	kd := d.PerKind[KindTable]
	return kd == nil || (len(kd.OnlyInSource) == 0 && len(kd.OnlyInDest) == 0)
}

// ChangeOp is the closed enumeration of atomic TableDelta change kinds.
type ChangeOp string

const (
	OpAddColumn      ChangeOp = "add_column"
	OpDropColumn     ChangeOp = "drop_column"
	OpModifyColumn   ChangeOp = "modify_column"
	OpAddIndex       ChangeOp = "add_index"
	OpDropIndex      ChangeOp = "drop_index"
	OpAddForeignKey  ChangeOp = "add_foreign_key"
	OpDropForeignKey ChangeOp = "drop_foreign_key"
	OpSetOption      ChangeOp = "set_option"
)

// Change is one atomic entry in a TableDelta. Only the fields relevant to
// Op are populated; values are held by copy (not pointer) so a TableDelta
// remains valid after the snapshot it was computed from is discarded.
type Change struct {
	Op ChangeOp

	Column    *Column // AddColumn, DropColumn(name only via ColumnName), ModifyColumn new value
	OldColumn *Column // ModifyColumn old value
	After     string  // AddColumn: source-side predecessor; DropColumn: dest-side predecessor; "" if the column is first

	ColumnName string // DropColumn

	Index    *Index // AddIndex
	OldIndex *Index

	IndexName string // DropIndex

	ForeignKey    *ForeignKey // AddForeignKey
	OldForeignKey *ForeignKey

	ForeignKeyName string // DropForeignKey

	OptionKey string // SetOption
	OldValue  string
	NewValue  string
}

// TableDelta is the ordered list of atomic changes between the DEST and
// SOURCE parsed representations of one table, in the fixed emission
// order spec.md §4.5 defines: columns, then indexes, then foreign keys,
// then options; within each group, drops/modifies/adds, alphabetical by
// affected name within each sub-group.
type TableDelta struct {
	TableName string
	Changes   []Change
}
