package planner

import (
	"fmt"
	"strings"

	"schemadiff/internal/core"
)

// BuildForward produces the forward migration plan: the statements that
// transform dest into structural equivalence with source.
func BuildForward(diff *core.Diff, source, dest *core.Snapshot) *Plan {
	plan := &Plan{SourceSchema: source.Schema, DestSchema: dest.Schema}
	for _, kind := range core.AllKinds() {
		kd := diff.PerKind[kind]
		if kd == nil {
			plan.Sections = append(plan.Sections, Section{Name: sectionName(kind)})
			continue
		}
		var stmts []Statement
		if kind == core.KindTable {
			stmts = append(stmts, forwardDropTables(kd.OnlyInDest, dest.Schema)...)
			stmts = append(stmts, forwardTableDeltas(diff, dest.Schema)...)
			stmts = append(stmts, forwardCreateTables(kd.OnlyInSource, source, dest.Schema)...)
		} else {
			stmts = append(stmts, forwardDropObjects(kind, kd.OnlyInDest, dest.Schema)...)
			stmts = append(stmts, forwardCreateObjects(kind, kd.OnlyInSource, source, dest.Schema)...)
		}
		plan.Sections = append(plan.Sections, Section{Name: sectionName(kind), Statements: stmts})
	}
	return plan
}

func forwardDropTables(names []string, schema string) []Statement {
	var out []Statement
	for _, name := range names {
		out = append(out, Statement{
			Comment: fmt.Sprintf("Table REMOVED: %s", name),
			SQL:     fmt.Sprintf("DROP TABLE IF EXISTS `%s`.`%s`", schema, name),
		})
	}
	return out
}

func forwardCreateTables(names []string, source *core.Snapshot, destSchema string) []Statement {
	var out []Statement
	for _, name := range names {
		rec, ok := source.Find(core.KindTable, name)
		if !ok || rec.DDLError != nil {
			continue
		}
		out = append(out, Statement{
			Comment: fmt.Sprintf("Table ADDED: %s", name),
			SQL:     qualifyCreateStatement(rec.DDL, destSchema, name),
		})
	}
	return out
}

// forwardTableDeltas renders every TableDelta's changes in the fixed
// intra-table phase order spec.md §4.6 defines: drop FKs, drop indexes,
// column modifies/drops/adds, add indexes, add FKs, option changes. Tables
// that could not be parsed on at least one side (§7) emit only their
// diagnostic comment, with no executable statement.
func forwardTableDeltas(diff *core.Diff, schema string) []Statement {
	var out []Statement
	names := inBothTableNames(diff)
	for _, name := range names {
		if delta := diff.TableDeltas[name]; delta != nil {
			out = append(out, forwardOneTableDelta(name, delta, schema)...)
			continue
		}
		if note, ok := diff.TableParseNotes[name]; ok {
			out = append(out, Statement{Comment: note})
		}
	}
	return out
}

func inBothTableNames(diff *core.Diff) []string {
	kd := diff.PerKind[core.KindTable]
	if kd == nil {
		return nil
	}
	return kd.InBoth
}

func forwardOneTableDelta(table string, delta *core.TableDelta, schema string) []Statement {
	qualified := fmt.Sprintf("`%s`.`%s`", schema, table)
	var out []Statement

	emit := func(comment, clause string) {
		out = append(out, Statement{Comment: comment, SQL: fmt.Sprintf("ALTER TABLE %s %s", qualified, clause)})
	}

	for _, c := range delta.Changes {
		if c.Op == core.OpDropForeignKey {
			emit(fmt.Sprintf("Foreign key REMOVED: %s", c.ForeignKeyName), fmt.Sprintf("DROP FOREIGN KEY `%s`", c.ForeignKeyName))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpDropIndex {
			emit(fmt.Sprintf("Index REMOVED: %s", c.IndexName), dropIndexClause(c.OldIndex, c.IndexName))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpModifyColumn {
			emit(fmt.Sprintf("Column MODIFIED: %s FROM %s TO %s", c.Column.Name, c.OldColumn.Type, c.Column.Type),
				fmt.Sprintf("MODIFY COLUMN %s", renderColumnDef(c.Column)))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpDropColumn {
			emit(fmt.Sprintf("Column REMOVED: %s", c.ColumnName), fmt.Sprintf("DROP COLUMN `%s`", c.ColumnName))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpAddColumn {
			clause := fmt.Sprintf("ADD COLUMN %s", renderColumnDef(c.Column))
			if c.After != "" {
				clause += fmt.Sprintf(" AFTER `%s`", c.After)
			}
			emit(fmt.Sprintf("Column ADDED: %s", c.Column.Name), clause)
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpAddIndex {
			emit(fmt.Sprintf("Index ADDED: %s", c.Index.Name), fmt.Sprintf("ADD %s", renderIndexDef(c.Index)))
		}
	}
	for _, c := range delta.Changes {
		if c.Op == core.OpAddForeignKey {
			emit(fmt.Sprintf("Foreign key ADDED: %s", c.ForeignKey.Name), fmt.Sprintf("ADD %s", renderForeignKeyDef(c.ForeignKey)))
		}
	}

	var optionClauses []string
	var optionComments []string
	for _, c := range delta.Changes {
		if c.Op == core.OpSetOption {
			optionClauses = append(optionClauses, optionClause(c.OptionKey, c.NewValue))
			optionComments = append(optionComments, fmt.Sprintf("%s FROM %s TO %s", c.OptionKey, c.OldValue, c.NewValue))
		}
	}
	if len(optionClauses) > 0 {
		emit("Option CHANGED: "+strings.Join(optionComments, ", "), strings.Join(optionClauses, " "))
	}

	return out
}

func forwardDropObjects(kind core.ObjectKind, names []string, schema string) []Statement {
	var out []Statement
	for _, name := range names {
		out = append(out, Statement{
			Comment: fmt.Sprintf("%s REMOVED: %s", titleKind(kind), name),
			SQL:     fmt.Sprintf("DROP %s IF EXISTS `%s`.`%s`", dropKeyword(kind), schema, name),
		})
	}
	return out
}

func forwardCreateObjects(kind core.ObjectKind, names []string, source *core.Snapshot, destSchema string) []Statement {
	var out []Statement
	for _, name := range names {
		rec, ok := source.Find(kind, name)
		if !ok || rec.DDLError != nil {
			continue
		}
		out = append(out, Statement{
			Comment:   fmt.Sprintf("%s ADDED: %s", titleKind(kind), name),
			SQL:       qualifyCreateStatement(rec.DDL, destSchema, name),
			Delimited: kind.UsesDelimiter(),
		})
	}
	return out
}

func titleKind(kind core.ObjectKind) string {
	s := string(kind)
	return strings.ToUpper(s[:1]) + s[1:]
}

func dropKeyword(kind core.ObjectKind) string {
	return kind.DropKeyword()
}

// qualifyCreateStatement rewrites the first backtick-quoted occurrence of
// name anywhere in ddl so it carries an explicit schema qualifier, e.g.
// "CREATE TABLE `t`" becomes "CREATE TABLE `schema`.`t`". It does not check
// that this occurrence is the object name after the CREATE ... keyword, and
// returns ddl unchanged when name never appears backtick-quoted.
// Pattern-based: it does not re-parse the whole statement.
func qualifyCreateStatement(ddl, schema, name string) string {
	target := fmt.Sprintf("`%s`", name)
	qualified := fmt.Sprintf("`%s`.`%s`", schema, name)
	if idx := strings.Index(ddl, target); idx != -1 {
		return ddl[:idx] + qualified + ddl[idx+len(target):]
	}
	return ddl
}
