package serialize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"schemadiff/internal/planner"
)

func TestRenderSectionOrderAndBanners(t *testing.T) {
	plan := &planner.Plan{
		SourceSchema: "src",
		DestSchema:   "dst",
		Sections: []planner.Section{
			{Name: "TABLES", Statements: []planner.Statement{{Comment: "Table ADDED: t", SQL: "CREATE TABLE `dst`.`t` (`id` int)"}}},
			{Name: "PROCEDURES"},
		},
	}
	out := Render(plan, Forward, time.Unix(0, 0))

	assert.Contains(t, out, "-- TABLES CHANGES")
	assert.Contains(t, out, "-- PROCEDURES CHANGES")
	assert.Contains(t, out, "-- Table ADDED: t")
	assert.Contains(t, out, "CREATE TABLE `dst`.`t` (`id` int);")
	assert.Contains(t, out, "SET FOREIGN_KEY_CHECKS = 0;")
	assert.Contains(t, out, "SET FOREIGN_KEY_CHECKS = 1;")
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), "script completed."), "missing footer:\n%s", out)
}

func TestRenderDelimitedStatementWrapsWithDollarDollar(t *testing.T) {
	plan := &planner.Plan{
		Sections: []planner.Section{
			{Name: "PROCEDURES", Statements: []planner.Statement{
				{Comment: "Procedure ADDED: p", SQL: "CREATE PROCEDURE `dst`.`p`() BEGIN SELECT 1; END", Delimited: true},
			}},
		},
	}
	out := Render(plan, Forward, time.Unix(0, 0))
	assert.Contains(t, out, "DELIMITER $$")
	assert.Contains(t, out, "DELIMITER ;")
}

func TestRenderIsDeterministicForSameTimestamp(t *testing.T) {
	plan := &planner.Plan{
		SourceSchema: "src",
		DestSchema:   "dst",
		Sections:     []planner.Section{{Name: "TABLES"}},
	}
	ts := time.Unix(1700000000, 0)
	a := Render(plan, Forward, ts)
	b := Render(plan, Forward, ts)
	assert.Equal(t, a, b, "expected byte-identical output for identical plan and timestamp")
}

func TestRenderEmptySectionNotesNoChanges(t *testing.T) {
	plan := &planner.Plan{Sections: []planner.Section{{Name: "VIEWS"}}}
	out := Render(plan, Reverse, time.Unix(0, 0))
	assert.Contains(t, out, "-- (no changes)")
}

func TestRenderDiagnosticOnlyStatementEmitsNoSQL(t *testing.T) {
	plan := &planner.Plan{
		Sections: []planner.Section{
			{Name: "TABLES", Statements: []planner.Statement{
				{Comment: `table "weird" could not be fully parsed; DDL text differs between source and dest, review manually`},
			}},
		},
	}
	out := Render(plan, Forward, time.Unix(0, 0))
	assert.Contains(t, out, "-- table \"weird\" could not be fully parsed")
	assert.NotContains(t, out, "\n;\n", "diagnostic-only statement must not render a bare semicolon")
}
