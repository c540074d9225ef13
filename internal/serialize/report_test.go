package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schemadiff/internal/core"
)

func TestReportNoDifferences(t *testing.T) {
	diff := core.NewDiff()
	got := Report(diff)
	assert.Contains(t, got, "No differences detected")
}

func TestReportListsAddedAndRemovedObjects(t *testing.T) {
	diff := core.NewDiff()
	diff.PerKind[core.KindTable].OnlyInSource = []string{"orders"}
	diff.PerKind[core.KindTable].OnlyInDest = []string{"legacy"}

	got := Report(diff)
	assert.Contains(t, got, "Added tables:")
	assert.Contains(t, got, "- orders")
	assert.Contains(t, got, "Removed tables:")
	assert.Contains(t, got, "- legacy")
	assert.Contains(t, got, "WARNING: destructive", "expected destructive-drop warning for removed table")
}

func TestReportDescribesTableDelta(t *testing.T) {
	diff := core.NewDiff()
	diff.TableDeltas["t"] = &core.TableDelta{
		TableName: "t",
		Changes: []core.Change{
			{Op: core.OpAddColumn, Column: &core.Column{Name: "c", Type: "int"}},
			{Op: core.OpSetOption, OptionKey: "ENGINE", OldValue: "MyISAM", NewValue: "InnoDB"},
		},
	}
	got := Report(diff)
	assert.Contains(t, got, "Modified table: t")
	assert.Contains(t, got, "Column added: c int")
	assert.Contains(t, got, `Option ENGINE: "MyISAM" -> "InnoDB"`)
}
