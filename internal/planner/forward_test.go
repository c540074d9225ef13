package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemadiff/internal/core"
)

func findSection(plan *Plan, name string) Section {
	for _, s := range plan.Sections {
		if s.Name == name {
			return s
		}
	}
	return Section{}
}

func TestBuildForwardEmitsAllSectionsInFixedOrder(t *testing.T) {
	diff := core.NewDiff()
	source := core.NewSnapshot("src")
	dest := core.NewSnapshot("dst")

	plan := BuildForward(diff, source, dest)
	want := []string{"TABLES", "PROCEDURES", "FUNCTIONS", "TRIGGERS", "EVENTS", "VIEWS", "SEQUENCES"}
	require.Len(t, plan.Sections, len(want))
	for i, name := range want {
		assert.Equal(t, name, plan.Sections[i].Name, "section %d", i)
	}
}

func TestBuildForwardDropsOnlyInDestTable(t *testing.T) {
	diff := core.NewDiff()
	diff.PerKind[core.KindTable].OnlyInDest = []string{"legacy"}
	source := core.NewSnapshot("src")
	dest := core.NewSnapshot("dst")

	plan := BuildForward(diff, source, dest)
	stmts := findSection(plan, "TABLES").Statements
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].SQL, "DROP TABLE IF EXISTS `dst`.`legacy`")
}

func TestBuildForwardCreatesOnlyInSourceTableQualified(t *testing.T) {
	diff := core.NewDiff()
	diff.PerKind[core.KindTable].OnlyInSource = []string{"orders"}
	source := core.NewSnapshot("src")
	source.Add(core.ObjectRecord{Ref: core.ObjectRef{Kind: core.KindTable, Name: "orders"}, DDL: "CREATE TABLE `orders` (`id` int)"})
	source.Sort()
	dest := core.NewSnapshot("dst")

	plan := BuildForward(diff, source, dest)
	stmts := findSection(plan, "TABLES").Statements
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].SQL, "CREATE TABLE `dst`.`orders`")
}

func TestBuildForwardTableDeltaPhaseOrder(t *testing.T) {
	diff := core.NewDiff()
	diff.PerKind[core.KindTable].InBoth = []string{"t"}
	diff.TableDeltas["t"] = &core.TableDelta{
		TableName: "t",
		Changes: []core.Change{
			{Op: core.OpDropForeignKey, ForeignKeyName: "fk_old"},
			{Op: core.OpDropIndex, IndexName: "idx_old", OldIndex: &core.Index{Name: "idx_old", Kind: core.IndexKey}},
			{Op: core.OpModifyColumn, Column: &core.Column{Name: "a", Type: "bigint"}, OldColumn: &core.Column{Name: "a", Type: "int"}},
			{Op: core.OpDropColumn, ColumnName: "b", OldColumn: &core.Column{Name: "b", Type: "int"}},
			{Op: core.OpAddColumn, Column: &core.Column{Name: "c", Type: "int"}},
			{Op: core.OpAddIndex, Index: &core.Index{Name: "idx_new", Kind: core.IndexKey, Columns: []core.IndexColumn{{Name: "c"}}}},
			{Op: core.OpAddForeignKey, ForeignKey: &core.ForeignKey{Name: "fk_new", LocalColumns: []string{"c"}, RefTable: "other", RefColumns: []string{"id"}}},
			{Op: core.OpSetOption, OptionKey: "ENGINE", OldValue: "MyISAM", NewValue: "InnoDB"},
		},
	}
	source := core.NewSnapshot("src")
	dest := core.NewSnapshot("dst")

	plan := BuildForward(diff, source, dest)
	stmts := findSection(plan, "TABLES").Statements
	require.Len(t, stmts, 8)
	wantOrder := []string{
		"DROP FOREIGN KEY", "DROP INDEX", "MODIFY COLUMN", "DROP COLUMN",
		"ADD COLUMN", "ADD KEY", "ADD CONSTRAINT", "ENGINE=",
	}
	for i, frag := range wantOrder {
		assert.Contains(t, stmts[i].SQL, frag, "statement %d", i)
	}
}

func TestBuildForwardStoredCodeUsesDelimiter(t *testing.T) {
	diff := core.NewDiff()
	diff.PerKind[core.KindProcedure].OnlyInSource = []string{"recalc"}
	source := core.NewSnapshot("src")
	source.Add(core.ObjectRecord{Ref: core.ObjectRef{Kind: core.KindProcedure, Name: "recalc"}, DDL: "CREATE PROCEDURE `recalc`() BEGIN SELECT 1; END"})
	source.Sort()
	dest := core.NewSnapshot("dst")

	plan := BuildForward(diff, source, dest)
	stmts := findSection(plan, "PROCEDURES").Statements
	require.Len(t, stmts, 1)
	assert.True(t, stmts[0].Delimited, "expected the delimited statement flag to be set")
}

func TestBuildForwardEmitsDiagnosticCommentForUnparseableTable(t *testing.T) {
	diff := core.NewDiff()
	diff.PerKind[core.KindTable].InBoth = []string{"weird"}
	diff.TableParseNotes["weird"] = `table "weird" could not be fully parsed; review manually`
	source := core.NewSnapshot("src")
	dest := core.NewSnapshot("dst")

	plan := BuildForward(diff, source, dest)
	stmts := findSection(plan, "TABLES").Statements
	require.Len(t, stmts, 1)
	assert.Empty(t, stmts[0].SQL, "diagnostic entry must carry no executable SQL")
	assert.Contains(t, stmts[0].Comment, "weird")
}
