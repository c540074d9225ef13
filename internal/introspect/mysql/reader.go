// Package mysql implements the DDL Reader (spec component A) against a live
// MariaDB/MySQL server via github.com/go-sql-driver/mysql. Every object's
// definition is captured with the server's own SHOW CREATE ... statement,
// never reconstructed from information_schema columns, so the DDL text
// downstream stages diff and re-emit is byte-for-byte what the server itself
// considers the object's definition.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"schemadiff/internal/core"
)

// Reader is the concrete introspect.Reader backed by a *sql.DB connection
// pool. It is safe for concurrent use: every method opens its own query on
// the shared pool.
type Reader struct {
	DB *sql.DB
}

// Open creates a connection pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*Reader, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, core.NewStageError(core.StageConnect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, core.NewStageError(core.StageConnect, err)
	}
	return &Reader{DB: db}, nil
}

// Close releases the underlying connection pool.
func (r *Reader) Close() error { return r.DB.Close() }

// ListNames enumerates every object of kind in schema.
func (r *Reader) ListNames(ctx context.Context, schema string, kind core.ObjectKind) ([]string, error) {
	switch kind {
	case core.KindTable:
		return r.listFullTables(ctx, schema, "BASE TABLE")
	case core.KindView:
		return r.listFullTables(ctx, schema, "VIEW")
	case core.KindProcedure:
		return r.listRoutines(ctx, schema, "PROCEDURE")
	case core.KindFunction:
		return r.listRoutines(ctx, schema, "FUNCTION")
	case core.KindTrigger:
		return r.listTriggers(ctx, schema)
	case core.KindEvent:
		return r.listEvents(ctx, schema)
	case core.KindSequence:
		return r.listSequences(ctx, schema)
	default:
		return nil, fmt.Errorf("unsupported object kind %q", kind)
	}
}

// ShowCreate fetches one object's DDL via the matching SHOW CREATE statement.
func (r *Reader) ShowCreate(ctx context.Context, schema string, kind core.ObjectKind, name string) (string, error) {
	qualified := fmt.Sprintf("`%s`.`%s`", schema, name)
	switch kind {
	case core.KindTable:
		return r.showCreateSimple(ctx, "SHOW CREATE TABLE "+qualified, "Create Table")
	case core.KindSequence:
		// MariaDB's CREATE SEQUENCE form (START/INCREMENT/CACHE/CYCLE) is
		// materially different from SHOW CREATE TABLE's table-shaped
		// representation of the same object; the result column is still
		// named "Create Table", so showCreateSimple's column-by-name
		// lookup needs no change.
		return r.showCreateSimple(ctx, "SHOW CREATE SEQUENCE "+qualified, "Create Table")
	case core.KindView:
		return r.showCreateSimple(ctx, "SHOW CREATE VIEW "+qualified, "Create View")
	case core.KindProcedure:
		return r.showCreateSimple(ctx, "SHOW CREATE PROCEDURE "+qualified, "Create Procedure")
	case core.KindFunction:
		return r.showCreateSimple(ctx, "SHOW CREATE FUNCTION "+qualified, "Create Function")
	case core.KindTrigger:
		return r.showCreateSimple(ctx, fmt.Sprintf("SHOW CREATE TRIGGER `%s`.`%s`", schema, name), "SQL Original Statement")
	case core.KindEvent:
		return r.showCreateSimple(ctx, "SHOW CREATE EVENT "+qualified, "Create Event")
	default:
		return "", fmt.Errorf("unsupported object kind %q", kind)
	}
}

// showCreateSimple runs a SHOW CREATE ... statement and returns the column
// named createCol, whichever ordinal position the server puts it at. MariaDB
// and MySQL disagree on exact column sets across object kinds and versions,
// so the column is located by name rather than assumed to sit at a fixed index.
func (r *Reader) showCreateSimple(ctx context.Context, query, createCol string) (string, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}
	idx := -1
	for i, c := range cols {
		if strings.EqualFold(c, createCol) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", fmt.Errorf("column %q not found in result of %q", createCol, query)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no rows returned for %q", query)
	}

	dest := make([]sql.NullString, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return "", err
	}
	return stripLeadingStatements(dest[idx].String), nil
}

// stripLeadingStatements removes a leading "USE `db`;" or
// "CREATE DATABASE ...;" statement some servers prepend to SHOW CREATE
// output, and trims surrounding whitespace.
func stripLeadingStatements(ddl string) string {
	ddl = strings.TrimSpace(ddl)
	for {
		upper := strings.ToUpper(ddl)
		switch {
		case strings.HasPrefix(upper, "USE "):
			if i := strings.Index(ddl, ";"); i != -1 {
				ddl = strings.TrimSpace(ddl[i+1:])
				continue
			}
		case strings.HasPrefix(upper, "CREATE DATABASE"):
			if i := strings.Index(ddl, ";"); i != -1 {
				ddl = strings.TrimSpace(ddl[i+1:])
				continue
			}
		}
		return ddl
	}
}

func (r *Reader) listFullTables(ctx context.Context, schema, tableType string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = ? AND table_type = ?`, schema, tableType)
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (r *Reader) listRoutines(ctx context.Context, schema, routineType string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT routine_name FROM information_schema.routines
		WHERE routine_schema = ? AND routine_type = ?`, schema, routineType)
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (r *Reader) listTriggers(ctx context.Context, schema string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT trigger_name FROM information_schema.triggers
		WHERE trigger_schema = ?`, schema)
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

func (r *Reader) listEvents(ctx context.Context, schema string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT event_name FROM information_schema.events
		WHERE event_schema = ?`, schema)
	if err != nil {
		return nil, err
	}
	return scanNames(rows)
}

// listSequences queries MariaDB's table_type = 'SEQUENCE' marker.
// Plain MySQL servers never report this table_type, so the list comes back
// empty there rather than erroring.
func (r *Reader) listSequences(ctx context.Context, schema string) ([]string, error) {
	return r.listFullTables(ctx, schema, "SEQUENCE")
}

func scanNames(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
