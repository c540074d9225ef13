package planner

import (
	"fmt"
	"strings"

	"schemadiff/internal/core"
)

// BuildReverse produces the rollback plan: the statements that restore dest
// to its pre-migration state. It is the mirror image of BuildForward,
// constructed by swapping which side is "create from" and which is "drop",
// and — critically — using dest's own captured DDL when recreating an
// object the forward plan would have dropped, since after a forward run
// that object no longer exists anywhere to re-fetch it from (spec.md §4.7).
func BuildReverse(diff *core.Diff, source, dest *core.Snapshot) *Plan {
	plan := &Plan{SourceSchema: source.Schema, DestSchema: dest.Schema}
	kinds := core.AllKinds()
	for i := len(kinds) - 1; i >= 0; i-- {
		kind := kinds[i]
		kd := diff.PerKind[kind]
		if kd == nil {
			plan.Sections = append(plan.Sections, Section{Name: sectionName(kind)})
			continue
		}
		var stmts []Statement
		if kind == core.KindTable {
			// Forward created these (only_in_source): reverse drops them.
			stmts = append(stmts, forwardDropTables(kd.OnlyInSource, dest.Schema)...)
			stmts = append(stmts, reverseTableDeltas(diff, dest.Schema)...)
			// Forward dropped these (only_in_dest): reverse restores dest's own DDL.
			stmts = append(stmts, reverseCreateFromDest(core.KindTable, kd.OnlyInDest, dest)...)
		} else {
			stmts = append(stmts, forwardDropObjects(kind, kd.OnlyInSource, dest.Schema)...)
			stmts = append(stmts, reverseCreateFromDest(kind, kd.OnlyInDest, dest)...)
		}
		plan.Sections = append(plan.Sections, Section{Name: sectionName(kind), Statements: stmts})
	}
	return plan
}

func reverseCreateFromDest(kind core.ObjectKind, names []string, dest *core.Snapshot) []Statement {
	var out []Statement
	for _, name := range names {
		rec, ok := dest.Find(kind, name)
		if !ok || rec.DDLError != nil {
			continue
		}
		out = append(out, Statement{
			Comment:   fmt.Sprintf("%s RESTORED: %s", titleKind(kind), name),
			SQL:       qualifyCreateStatement(rec.DDL, dest.Schema, name),
			Delimited: kind.UsesDelimiter(),
		})
	}
	return out
}

// reverseTableDeltas inverts every atomic change in every table delta:
// add_column <-> drop_column, modify_column with old/new swapped, indexes
// and FKs re-added using the DEST-side definition the forward plan removed,
// option changes with old/new swapped.
func reverseTableDeltas(diff *core.Diff, schema string) []Statement {
	var out []Statement
	for _, name := range inBothTableNames(diff) {
		if delta := diff.TableDeltas[name]; delta != nil {
			out = append(out, reverseOneTableDelta(name, delta, schema)...)
			continue
		}
		if note, ok := diff.TableParseNotes[name]; ok {
			out = append(out, Statement{Comment: note})
		}
	}
	return out
}

func reverseOneTableDelta(table string, delta *core.TableDelta, schema string) []Statement {
	qualified := fmt.Sprintf("`%s`.`%s`", schema, table)
	var out []Statement

	emit := func(comment, clause string) {
		out = append(out, Statement{Comment: comment, SQL: fmt.Sprintf("ALTER TABLE %s %s", qualified, clause)})
	}

	// Forward added these FKs/indexes; reverse drops them first.
	for _, c := range delta.Changes {
		if c.Op == core.OpAddForeignKey {
			emit(fmt.Sprintf("Foreign key RESTORED-DROP: %s", c.ForeignKey.Name), fmt.Sprintf("DROP FOREIGN KEY `%s`", c.ForeignKey.Name))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpAddIndex {
			emit(fmt.Sprintf("Index RESTORED-DROP: %s", c.Index.Name), dropIndexClause(c.Index, c.Index.Name))
		}
	}
	// Forward added columns; reverse drops them. Forward dropped columns;
	// reverse re-adds them using the DEST-side definition. Forward modified
	// columns; reverse modifies back to the DEST-side definition.
	for _, c := range delta.Changes {
		if c.Op == core.OpModifyColumn {
			emit(fmt.Sprintf("Column MODIFIED: %s FROM %s TO %s", c.OldColumn.Name, c.Column.Type, c.OldColumn.Type),
				fmt.Sprintf("MODIFY COLUMN %s", renderColumnDef(c.OldColumn)))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpAddColumn {
			emit(fmt.Sprintf("Column REMOVED: %s", c.Column.Name), fmt.Sprintf("DROP COLUMN `%s`", c.Column.Name))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpDropColumn && c.OldColumn != nil {
			clause := fmt.Sprintf("ADD COLUMN %s", renderColumnDef(c.OldColumn))
			if c.After != "" {
				clause += fmt.Sprintf(" AFTER `%s`", c.After)
			}
			emit(fmt.Sprintf("Column ADDED: %s", c.OldColumn.Name), clause)
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpDropIndex && c.OldIndex != nil {
			emit(fmt.Sprintf("Index ADDED: %s", c.OldIndex.Name), fmt.Sprintf("ADD %s", renderIndexDef(c.OldIndex)))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpDropForeignKey && c.OldForeignKey != nil {
			emit(fmt.Sprintf("Foreign key ADDED: %s", c.OldForeignKey.Name), fmt.Sprintf("ADD %s", renderForeignKeyDef(c.OldForeignKey)))
		}
	}

	var optionClauses []string
	var optionComments []string
	for _, c := range delta.Changes {
		if c.Op == core.OpSetOption {
			optionClauses = append(optionClauses, optionClause(c.OptionKey, c.OldValue))
			optionComments = append(optionComments, fmt.Sprintf("%s FROM %s TO %s", c.OptionKey, c.NewValue, c.OldValue))
		}
	}
	if len(optionClauses) > 0 {
		emit("Option RESTORED: "+strings.Join(optionComments, ", "), strings.Join(optionClauses, " "))
	}

	return out
}
