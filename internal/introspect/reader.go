// Package introspect builds a core.Snapshot for one schema by enumerating
// every object of each core.ObjectKind and capturing its DDL text. The
// orchestration here (Introspector) is driver-agnostic; internal/introspect/mysql
// supplies the concrete Reader that talks to a live MariaDB/MySQL server.
package introspect

import (
	"context"

	"schemadiff/internal/core"
)

// Reader is the DDL Reader collaborator (spec component A): it knows how to
// list the names of one object kind in a schema, and how to fetch one
// object's CREATE statement text. Implementations are expected to strip any
// leading "USE <schema>;" / "CREATE DATABASE ..." noise some servers prepend
// to SHOW CREATE output, and to return the DDL exactly as the server emits
// it otherwise.
type Reader interface {
	// ListNames returns the names of every object of the given kind in
	// schema, in whatever order the server returns them. Callers must not
	// assume any ordering; Introspector sorts the final Snapshot.
	ListNames(ctx context.Context, schema string, kind core.ObjectKind) ([]string, error)

	// ShowCreate returns the DDL text for one object. A non-nil error here
	// is a per-object failure (stage extract-ddl), not fatal to the run.
	ShowCreate(ctx context.Context, schema string, kind core.ObjectKind, name string) (string, error)
}
