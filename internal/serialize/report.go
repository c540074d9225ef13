package serialize

import (
	"fmt"
	"sort"
	"strings"

	"schemadiff/internal/core"
)

// Report renders a human-readable summary of a Diff, independent of the SQL
// plan: which objects were added/removed per kind, and per table which
// columns/indexes/foreign keys/options changed. Grounded on the teacher's
// plain-text diff summary; adapted here to walk core.Diff/TableDelta
// directly instead of a kind-specific SchemaDiff/TableDiff pair.
func Report(diff *core.Diff) string {
	if diff.IsEmpty() {
		return "No differences detected.\n"
	}

	var sb strings.Builder
	sb.WriteString("Schema differences:\n")

	for _, kind := range core.AllKinds() {
		kd := diff.PerKind[kind]
		if kd == nil {
			continue
		}
		writeKindDiff(&sb, kind, kd)
	}

	for _, name := range tableDeltaNamesSorted(diff) {
		writeTableDelta(&sb, name, diff.TableDeltas[name])
	}

	for _, name := range tableParseNoteNamesSorted(diff) {
		fmt.Fprintf(&sb, "\nTable %s: %s\n", name, diff.TableParseNotes[name])
	}

	return sb.String()
}

func tableDeltaNamesSorted(diff *core.Diff) []string {
	names := make([]string, 0, len(diff.TableDeltas))
	for name := range diff.TableDeltas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func tableParseNoteNamesSorted(diff *core.Diff) []string {
	names := make([]string, 0, len(diff.TableParseNotes))
	for name := range diff.TableParseNotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeKindDiff(sb *strings.Builder, kind core.ObjectKind, kd *core.KindDiff) {
	if len(kd.OnlyInSource) > 0 {
		fmt.Fprintf(sb, "\nAdded %ss:\n", kind)
		for _, n := range kd.OnlyInSource {
			fmt.Fprintf(sb, "  - %s%s\n", n, riskNote(kind, "add"))
		}
	}
	if len(kd.OnlyInDest) > 0 {
		fmt.Fprintf(sb, "\nRemoved %ss:\n", kind)
		for _, n := range kd.OnlyInDest {
			fmt.Fprintf(sb, "  - %s%s\n", n, riskNote(kind, "remove"))
		}
	}
}

func writeTableDelta(sb *strings.Builder, name string, delta *core.TableDelta) {
	fmt.Fprintf(sb, "\nModified table: %s\n", name)
	for _, c := range delta.Changes {
		switch c.Op {
		case core.OpAddColumn:
			fmt.Fprintf(sb, "  - Column added: %s %s\n", c.Column.Name, c.Column.Type)
		case core.OpDropColumn:
			fmt.Fprintf(sb, "  - Column removed: %s%s\n", c.ColumnName, riskNote(core.KindTable, "remove-column"))
		case core.OpModifyColumn:
			fmt.Fprintf(sb, "  - Column modified: %s from %q to %q\n", c.Column.Name, c.OldColumn.Type, c.Column.Type)
		case core.OpAddIndex:
			fmt.Fprintf(sb, "  - Index added: %s\n", c.Index.Name)
		case core.OpDropIndex:
			fmt.Fprintf(sb, "  - Index removed: %s\n", c.IndexName)
		case core.OpAddForeignKey:
			fmt.Fprintf(sb, "  - Foreign key added: %s\n", c.ForeignKey.Name)
		case core.OpDropForeignKey:
			fmt.Fprintf(sb, "  - Foreign key removed: %s\n", c.ForeignKeyName)
		case core.OpSetOption:
			fmt.Fprintf(sb, "  - Option %s: %q -> %q\n", c.OptionKey, c.OldValue, c.NewValue)
		}
	}
}

// riskNote appends a short warning for operations that are destructive or
// irreversible at the data level (dropping a table, dropping a column).
// Purely advisory: the plan itself is produced either way.
func riskNote(kind core.ObjectKind, op string) string {
	switch {
	case kind == core.KindTable && op == "remove":
		return "  [WARNING: destructive, drops all rows]"
	case op == "remove-column":
		return "  [WARNING: destructive, drops column data]"
	default:
		return ""
	}
}

