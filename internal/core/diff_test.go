package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDiffIsEmpty(t *testing.T) {
	d := NewDiff()
	assert.True(t, d.IsEmpty(), "expected a freshly built Diff to be empty")
}

func TestDiffNotEmptyWithOnlyInSourceTable(t *testing.T) {
	d := NewDiff()
	d.PerKind[KindTable].OnlyInSource = []string{"t"}
	assert.False(t, d.IsEmpty(), "expected diff with an only-in-source table to be non-empty")
}

func TestDiffNotEmptyWithTableDelta(t *testing.T) {
	d := NewDiff()
	d.TableDeltas["t"] = &TableDelta{TableName: "t", Changes: []Change{{Op: OpAddColumn}}}
	assert.False(t, d.IsEmpty(), "expected diff with a table delta to be non-empty")
}

// A recorded parse-failure diagnostic (spec.md §7) is itself a detected
// difference, even though it carries no structural TableDelta.
func TestDiffNotEmptyWithParseFailureNote(t *testing.T) {
	d := NewDiff()
	d.TableParseNotes["weird"] = "could not be fully parsed"
	assert.False(t, d.IsEmpty(), "expected diff with a recorded parse-failure note to be non-empty")
}
