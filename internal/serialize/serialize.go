// Package serialize renders a planner.Plan into the two UTF-8 SQL text
// artifacts spec.md §6 describes: a timestamped header, section banners,
// per-statement comments, DELIMITER wrapping for stored-code bodies, and a
// trailing footer. It is textual-only: every decision about what SQL to run
// was already made by internal/planner.
package serialize

import (
	"fmt"
	"strings"
	"time"

	"schemadiff/internal/planner"
)

// Kind distinguishes the two artifacts this package renders; it only
// affects the header wording, since forward and reverse plans share the
// exact same statement/section shape.
type Kind int

const (
	Forward Kind = iota
	Reverse
)

// Render produces the full SQL text for plan, generated at the given time
// (callers pass time.Now() once per run so repeated renders of the same
// plan are byte-identical in tests).
func Render(plan *planner.Plan, kind Kind, generatedAt time.Time) string {
	var sb strings.Builder
	writeHeader(&sb, plan, kind, generatedAt)

	for _, section := range plan.Sections {
		fmt.Fprintf(&sb, "\n-- %s CHANGES\n", section.Name)
		if len(section.Statements) == 0 {
			sb.WriteString("-- (no changes)\n")
			continue
		}
		for _, stmt := range section.Statements {
			writeStatement(&sb, stmt)
		}
	}

	sb.WriteString("\nSET FOREIGN_KEY_CHECKS = 1;\n")
	sb.WriteString("-- script completed.\n")
	return sb.String()
}

func writeHeader(sb *strings.Builder, plan *planner.Plan, kind Kind, generatedAt time.Time) {
	label := "forward migration"
	if kind == Reverse {
		label = "rollback"
	}
	fmt.Fprintf(sb, "-- Generated %s\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(sb, "-- %s: %s -> %s\n", label, plan.SourceSchema, plan.DestSchema)
	sb.WriteString("-- Review before executing against a production schema.\n")
	sb.WriteString("SET FOREIGN_KEY_CHECKS = 0;\n")
}

func writeStatement(sb *strings.Builder, stmt planner.Statement) {
	if stmt.Comment != "" {
		fmt.Fprintf(sb, "-- %s\n", stmt.Comment)
	}
	if stmt.SQL == "" {
		// Diagnostic-only entry (spec.md §7 parse-failure fallback): no
		// statement to execute, just the comment already written above.
		return
	}
	if stmt.Delimited {
		sb.WriteString("DELIMITER $$\n")
		sb.WriteString(strings.TrimRight(stmt.SQL, "; \n"))
		sb.WriteString("$$\n")
		sb.WriteString("DELIMITER ;\n")
		return
	}
	sb.WriteString(strings.TrimRight(stmt.SQL, "; \n"))
	sb.WriteString(";\n")
}
