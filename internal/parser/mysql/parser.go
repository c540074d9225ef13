// Package mysql parses a single CREATE TABLE statement into the core.Table
// model. It is pattern-based over a real SQL grammar — it uses TiDB's
// parser to build an AST and walks it — rather than a hand-rolled regex
// scanner, so it correctly handles nested parentheses in ENUM members,
// generated-column expressions, and CHECK constraints that a naive
// tokenizer would trip over. It is not a full SQL grammar for every
// dialect: only the CREATE TABLE subset spec.md §4.3 requires.
package mysql

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"schemadiff/internal/core"
)

// Parser parses CREATE TABLE text into *core.Table. It is not safe for
// concurrent use by multiple goroutines on account of the underlying
// TiDB parser instance; callers running table parsing concurrently
// should construct one Parser per goroutine.
type Parser struct {
	p *parser.Parser
}

// New returns a ready-to-use Parser.
func New() *Parser {
	return &Parser{p: parser.New()}
}

// ParseTable parses one CREATE TABLE statement. It errors if ddl does not
// parse as valid SQL, or contains no CREATE TABLE statement. When ddl holds
// several statements, the first CREATE TABLE among them is converted and
// the rest are ignored.
func (p *Parser) ParseTable(ddl string) (*core.Table, error) {
	stmtNodes, _, err := p.p.Parse(ddl, "", "")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	for _, stmt := range stmtNodes {
		if create, ok := stmt.(*ast.CreateTableStmt); ok {
			return p.convertCreateTable(create), nil
		}
	}
	return nil, fmt.Errorf("no CREATE TABLE statement found")
}

func (p *Parser) convertCreateTable(stmt *ast.CreateTableStmt) *core.Table {
	table := &core.Table{Name: stmt.Table.Name.O}

	p.parseTableOptions(stmt.Options, table)
	p.parseColumns(stmt.Cols, table)
	p.parseConstraints(stmt.Constraints, table)
	p.normalizeForeignKeyDefaults(table)

	return table
}

// parseTableOptions extracts only the four tracked options (engine,
// default charset, collation, comment). AUTO_INCREMENT=<n> and every
// other clause is recognized and silently ignored — spec invariant I3
// forbids AUTO_INCREMENT from ever reaching TableOptions.
func (p *Parser) parseTableOptions(opts []*ast.TableOption, table *core.Table) {
	for _, opt := range opts {
		switch opt.Tp {
		case ast.TableOptionEngine:
			table.Options.Engine = opt.StrValue
		case ast.TableOptionCharset:
			table.Options.DefaultCharset = opt.StrValue
		case ast.TableOptionCollate:
			table.Options.Collate = opt.StrValue
		case ast.TableOptionComment:
			table.Options.Comment = opt.StrValue
		case ast.TableOptionAutoIncrement:
			// Deliberately discarded: AUTO_INCREMENT is data, not schema.
		}
	}
}

func (p *Parser) parseColumns(cols []*ast.ColumnDef, table *core.Table) {
	for _, colDef := range cols {
		col := &core.Column{
			Name:     colDef.Name.Name.O,
			Type:     colDef.Tp.String(),
			Nullable: true,
		}

		var extraParts []string
		for _, opt := range colDef.Options {
			switch opt.Tp {
			case ast.ColumnOptionNotNull:
				col.Nullable = false
			case ast.ColumnOptionNull:
				col.Nullable = true
			case ast.ColumnOptionPrimaryKey:
				col.Nullable = false
				p.ensurePrimaryKeyColumn(table, col.Name)
			case ast.ColumnOptionAutoIncrement:
				extraParts = append(extraParts, "auto_increment")
			case ast.ColumnOptionDefaultValue:
				col.Default = p.exprToString(opt.Expr)
			case ast.ColumnOptionOnUpdate:
				if s := p.exprToString(opt.Expr); s != nil {
					extraParts = append(extraParts, "on update "+*s)
				}
			case ast.ColumnOptionComment:
				if s := p.exprToString(opt.Expr); s != nil {
					col.Comment = s
				}
			case ast.ColumnOptionUniqKey:
				table.Indexes = append(table.Indexes, &core.Index{
					Name:    col.Name,
					Kind:    core.IndexUnique,
					Columns: []core.IndexColumn{{Name: col.Name}},
				})
			case ast.ColumnOptionFulltext:
				table.Indexes = append(table.Indexes, &core.Index{
					Name:    col.Name,
					Kind:    core.IndexFullText,
					Columns: []core.IndexColumn{{Name: col.Name}},
				})
			case ast.ColumnOptionCheck:
				if s := p.exprToString(opt.Expr); s != nil {
					table.Checks = append(table.Checks, &core.CheckConstraint{
						Name: col.Name + "_chk", Expression: *s,
					})
				}
			case ast.ColumnOptionReference:
				table.ForeignKeys = append(table.ForeignKeys, p.referenceToForeignKey(col.Name, opt.Refer))
			case ast.ColumnOptionGenerated:
				storage := "VIRTUAL"
				if opt.Stored {
					storage = "STORED"
				}
				if s := p.exprToString(opt.Expr); s != nil {
					extraParts = append(extraParts, fmt.Sprintf("generated always as (%s) %s", *s, storage))
				}
			case ast.ColumnOptionNoOption:
			}
		}
		col.Extra = strings.Join(extraParts, " ")
		table.Columns = append(table.Columns, col)
	}
}

// ensurePrimaryKeyColumn adds colName to the table's PRIMARY index,
// creating it if this is the first primary-key column seen.
func (p *Parser) ensurePrimaryKeyColumn(table *core.Table, colName string) {
	for _, idx := range table.Indexes {
		if idx.Kind == core.IndexPrimary {
			idx.Columns = append(idx.Columns, core.IndexColumn{Name: colName})
			return
		}
	}
	table.Indexes = append(table.Indexes, &core.Index{
		Name:    "PRIMARY",
		Kind:    core.IndexPrimary,
		Columns: []core.IndexColumn{{Name: colName}},
	})
}

func (p *Parser) parseConstraints(constraints []*ast.Constraint, table *core.Table) {
	for _, c := range constraints {
		cols := make([]core.IndexColumn, 0, len(c.Keys))
		for _, key := range c.Keys {
			cols = append(cols, core.IndexColumn{Name: key.Column.Name.O, Prefix: key.Length})
		}

		switch c.Tp {
		case ast.ConstraintPrimaryKey:
			table.Indexes = append(table.Indexes, &core.Index{Name: "PRIMARY", Kind: core.IndexPrimary, Columns: cols})
		case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
			table.Indexes = append(table.Indexes, &core.Index{Name: c.Name, Kind: core.IndexUnique, Columns: cols, Options: usingOption(c.Option)})
		case ast.ConstraintIndex, ast.ConstraintKey:
			table.Indexes = append(table.Indexes, &core.Index{Name: c.Name, Kind: core.IndexKey, Columns: cols, Options: usingOption(c.Option)})
		case ast.ConstraintFulltext:
			table.Indexes = append(table.Indexes, &core.Index{Name: c.Name, Kind: core.IndexFullText, Columns: cols})
		case ast.ConstraintForeignKey:
			fk := p.referenceToForeignKey("", c.Refer)
			fk.Name = c.Name
			fk.LocalColumns = namesOf(cols)
			table.ForeignKeys = append(table.ForeignKeys, fk)
		case ast.ConstraintCheck:
			chk := &core.CheckConstraint{Name: c.Name}
			if c.Expr != nil {
				if s := p.exprToString(c.Expr); s != nil {
					chk.Expression = *s
				}
			}
			table.Checks = append(table.Checks, chk)
		}
	}
}

func namesOf(cols []core.IndexColumn) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func usingOption(opt *ast.IndexOption) string {
	if opt == nil {
		return ""
	}
	switch opt.Tp {
	case ast.IndexTypeBtree:
		return "USING BTREE"
	case ast.IndexTypeHash:
		return "USING HASH"
	default:
		return ""
	}
}

func (p *Parser) referenceToForeignKey(localCol string, refer *ast.ReferenceDef) *core.ForeignKey {
	fk := &core.ForeignKey{OnDelete: "RESTRICT", OnUpdate: "RESTRICT"}
	if localCol != "" {
		fk.LocalColumns = []string{localCol}
	}
	if refer == nil {
		return fk
	}
	fk.RefTable = refer.Table.Name.O
	for _, spec := range refer.IndexPartSpecifications {
		if spec.Column != nil {
			fk.RefColumns = append(fk.RefColumns, spec.Column.Name.O)
		}
	}
	if refer.OnDelete != nil && refer.OnDelete.ReferOpt != ast.ReferOptionNoOption {
		fk.OnDelete = refer.OnDelete.ReferOpt.String()
	}
	if refer.OnUpdate != nil && refer.OnUpdate.ReferOpt != ast.ReferOptionNoOption {
		fk.OnUpdate = refer.OnUpdate.ReferOpt.String()
	}
	return fk
}

// normalizeForeignKeyDefaults fills in an empty RESTRICT default for any
// FK whose referential action text is blank, matching MySQL/MariaDB's
// implicit behavior: absence means RESTRICT (spec.md §9 open question).
func (p *Parser) normalizeForeignKeyDefaults(table *core.Table) {
	for _, fk := range table.ForeignKeys {
		if strings.TrimSpace(fk.OnDelete) == "" {
			fk.OnDelete = "RESTRICT"
		}
		if strings.TrimSpace(fk.OnUpdate) == "" {
			fk.OnUpdate = "RESTRICT"
		}
	}
}

func (p *Parser) exprToString(expr ast.ExprNode) *string {
	if expr == nil {
		return nil
	}
	var sb strings.Builder
	ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := expr.Restore(ctx); err != nil {
		return nil
	}
	s := strings.TrimSpace(sb.String())
	if unquoted, ok := tryUnquoteStringLiteral(s); ok {
		return &unquoted
	}
	return &s
}

func tryUnquoteStringLiteral(s string) (string, bool) {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return "", false
	}
	return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), true
}
