// Package planner turns a core.Diff into an ordered sequence of SQL
// statements: the Forward Planner (spec component F) transforms DEST toward
// SOURCE, the Reverse Planner (component G) produces the inverse. Neither
// touches a database connection; both are pure functions over already-built
// values. The planner builds each statement's SQL text, including
// identifier and literal quoting (render.go); file-level rendering
// (DELIMITER wrapping, statement terminators, banners, headers) belongs to
// internal/serialize — a planner.Statement only decides what SQL to run and
// a one-line comment describing why.
package planner

import "schemadiff/internal/core"

// Statement is one planned DDL statement.
type Statement struct {
	Comment   string
	SQL       string
	Delimited bool // true for stored-code bodies needing DELIMITER $$ wrapping
}

// Section groups statements under one banner, in the fixed order
// TABLES, PROCEDURES, FUNCTIONS, TRIGGERS, EVENTS, VIEWS, SEQUENCES.
type Section struct {
	Name       string
	Statements []Statement
}

// Plan is a full forward or reverse migration plan for one schema pair.
type Plan struct {
	SourceSchema string
	DestSchema   string
	Sections     []Section
}

func sectionName(kind core.ObjectKind) string {
	switch kind {
	case core.KindTable:
		return "TABLES"
	case core.KindProcedure:
		return "PROCEDURES"
	case core.KindFunction:
		return "FUNCTIONS"
	case core.KindTrigger:
		return "TRIGGERS"
	case core.KindEvent:
		return "EVENTS"
	case core.KindView:
		return "VIEWS"
	case core.KindSequence:
		return "SEQUENCES"
	default:
		return string(kind)
	}
}
