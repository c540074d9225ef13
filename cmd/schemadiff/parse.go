package main

import (
	"schemadiff/internal/core"
	parsermysql "schemadiff/internal/parser/mysql"
)

// newTableParser returns a function bound to one TiDB parser instance. The
// parser is not safe for concurrent use, and buildDiff only ever calls it
// sequentially, so one instance is reused across every table.
func newTableParser() func(ddl string) (*core.Table, error) {
	p := parsermysql.New()
	return p.ParseTable
}
