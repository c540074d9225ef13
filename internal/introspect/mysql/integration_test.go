package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"schemadiff/internal/core"
	"schemadiff/internal/introspect"
)

func TestReaderIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mariadb:11",
		tcmysql.WithDatabase("appdb"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("testpass"),
		tcmysql.WithScripts("testdata/seed.sql"),
	)
	require.NoError(t, err, "failed to start MariaDB container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	reader, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })

	insp := introspect.New(reader)
	snap, err := insp.Snapshot(ctx, "appdb")
	require.NoError(t, err)

	names := snap.Names(core.KindTable)
	assert.Contains(t, names, "users")
	assert.Contains(t, names, "posts")

	rec, ok := snap.Find(core.KindTable, "users")
	require.True(t, ok)
	assert.NoError(t, rec.DDLError)
	assert.Contains(t, rec.DDL, "CREATE TABLE")
}

func TestReaderIntegrationEmptySchemaListsNoTables(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mariadb:11",
		tcmysql.WithDatabase("appdb"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("testpass"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	reader, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })

	// No tables exist in a fresh schema: ListNames should succeed with an
	// empty list rather than erroring.
	names, err := reader.ListNames(ctx, "appdb", core.KindTable)
	require.NoError(t, err)
	assert.Empty(t, names)
}
