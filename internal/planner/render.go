package planner

import (
	"fmt"
	"strings"

	"schemadiff/internal/core"
)

// renderColumnDef renders a column definition clause suitable for use after
// ADD COLUMN or MODIFY COLUMN, e.g. "`email` varchar(255) NOT NULL DEFAULT
// 'n/a' COMMENT 'contact address'".
func renderColumnDef(c *core.Column) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "`%s` %s", c.Name, c.Type)
	if c.Nullable {
		sb.WriteString(" NULL")
	} else {
		sb.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		fmt.Fprintf(&sb, " DEFAULT %s", formatDefaultLiteral(*c.Default))
	}
	if c.Extra != "" {
		fmt.Fprintf(&sb, " %s", c.Extra)
	}
	if c.Comment != nil && *c.Comment != "" {
		fmt.Fprintf(&sb, " COMMENT '%s'", escapeSingleQuotes(*c.Comment))
	}
	return sb.String()
}

// formatDefaultLiteral quotes a default value unless it looks like a bare
// keyword/expression (CURRENT_TIMESTAMP, NULL, a numeric literal, or an
// already-parenthesized expression for generated defaults).
func formatDefaultLiteral(v string) string {
	upper := strings.ToUpper(strings.TrimSpace(v))
	switch {
	case upper == "NULL", upper == "CURRENT_TIMESTAMP", strings.HasPrefix(upper, "CURRENT_TIMESTAMP("):
		return v
	case strings.HasPrefix(v, "("):
		return v
	case isNumericLiteral(v):
		return v
	default:
		return fmt.Sprintf("'%s'", escapeSingleQuotes(v))
	}
}

func isNumericLiteral(v string) bool {
	if v == "" {
		return false
	}
	for i, r := range v {
		if r == '-' && i == 0 {
			continue
		}
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// renderIndexDef renders an index definition clause suitable for use after
// ADD in an ALTER TABLE statement, e.g. "UNIQUE KEY `uq_email` (`email`)".
func renderIndexDef(idx *core.Index) string {
	var sb strings.Builder
	switch idx.Kind {
	case core.IndexPrimary:
		sb.WriteString("PRIMARY KEY ")
	case core.IndexUnique:
		fmt.Fprintf(&sb, "UNIQUE KEY `%s` ", idx.Name)
	case core.IndexFullText:
		fmt.Fprintf(&sb, "FULLTEXT KEY `%s` ", idx.Name)
	default:
		fmt.Fprintf(&sb, "KEY `%s` ", idx.Name)
	}
	sb.WriteString("(")
	sb.WriteString(renderIndexColumns(idx.Columns))
	sb.WriteString(")")
	if idx.Options != "" {
		fmt.Fprintf(&sb, " %s", idx.Options)
	}
	return sb.String()
}

func renderIndexColumns(cols []core.IndexColumn) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		if c.Prefix > 0 {
			parts[i] = fmt.Sprintf("`%s`(%d)", c.Name, c.Prefix)
		} else {
			parts[i] = fmt.Sprintf("`%s`", c.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// dropIndexClause renders the clause used to drop idx; DROP PRIMARY KEY has
// no name argument, unlike every other index kind.
func dropIndexClause(idx *core.Index, name string) string {
	if idx != nil && idx.Kind == core.IndexPrimary {
		return "DROP PRIMARY KEY"
	}
	return fmt.Sprintf("DROP INDEX `%s`", name)
}

// renderForeignKeyDef renders a foreign key definition clause suitable for
// use after ADD in an ALTER TABLE statement.
func renderForeignKeyDef(fk *core.ForeignKey) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CONSTRAINT `%s` FOREIGN KEY (%s) REFERENCES `%s` (%s)",
		fk.Name, backtickJoin(fk.LocalColumns), fk.RefTable, backtickJoin(fk.RefColumns))
	if fk.OnDelete != "" && fk.OnDelete != "RESTRICT" {
		fmt.Fprintf(&sb, " ON DELETE %s", fk.OnDelete)
	}
	if fk.OnUpdate != "" && fk.OnUpdate != "RESTRICT" {
		fmt.Fprintf(&sb, " ON UPDATE %s", fk.OnUpdate)
	}
	return sb.String()
}

func backtickJoin(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("`%s`", n)
	}
	return strings.Join(parts, ", ")
}

// optionClause renders one table-option ALTER clause for the given key.
func optionClause(key, value string) string {
	switch key {
	case "ENGINE":
		return fmt.Sprintf("ENGINE=%s", value)
	case "DEFAULT CHARSET":
		return fmt.Sprintf("DEFAULT CHARSET=%s", value)
	case "COLLATE":
		return fmt.Sprintf("COLLATE=%s", value)
	case "COMMENT":
		return fmt.Sprintf("COMMENT='%s'", escapeSingleQuotes(value))
	default:
		return ""
	}
}
