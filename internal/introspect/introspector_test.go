package introspect

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemadiff/internal/core"
)

type fakeReader struct {
	names map[core.ObjectKind][]string
	fail  map[string]error // keyed by kind:name
}

func (f *fakeReader) ListNames(ctx context.Context, schema string, kind core.ObjectKind) ([]string, error) {
	return f.names[kind], nil
}

func (f *fakeReader) ShowCreate(ctx context.Context, schema string, kind core.ObjectKind, name string) (string, error) {
	key := fmt.Sprintf("%s:%s", kind, name)
	if err, ok := f.fail[key]; ok {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE `%s` (`id` int)", name), nil
}

func TestSnapshotIsSortedRegardlessOfFanOut(t *testing.T) {
	reader := &fakeReader{
		names: map[core.ObjectKind][]string{
			core.KindTable: {"zebra", "mango", "apple", "kiwi", "banana"},
		},
	}
	insp := New(reader)
	insp.Concurrency = 4

	snap, err := insp.Snapshot(context.Background(), "db")
	require.NoError(t, err)
	got := snap.Names(core.KindTable)
	want := []string{"apple", "banana", "kiwi", "mango", "zebra"}
	assert.Equal(t, want, got)
}

func TestSnapshotRecordsPerObjectFailureWithoutAbortingRun(t *testing.T) {
	reader := &fakeReader{
		names: map[core.ObjectKind][]string{
			core.KindTable: {"good", "bad"},
		},
		fail: map[string]error{
			"table:bad": fmt.Errorf("boom"),
		},
	}
	insp := New(reader)

	snap, err := insp.Snapshot(context.Background(), "db")
	require.NoError(t, err, "expected no fatal error")

	good, ok := snap.Find(core.KindTable, "good")
	require.True(t, ok)
	assert.Nil(t, good.DDLError, "expected good table to have no error")

	bad, ok := snap.Find(core.KindTable, "bad")
	require.True(t, ok)
	assert.NotNil(t, bad.DDLError, "expected bad table to carry a DDLError")
}

func TestSnapshotFatalOnEnumerationFailure(t *testing.T) {
	reader := &failingListReader{err: fmt.Errorf("connection reset")}
	insp := New(reader)

	_, err := insp.Snapshot(context.Background(), "db")
	assert.Error(t, err, "expected enumeration failure to abort the run")
}

type failingListReader struct{ err error }

func (f *failingListReader) ListNames(ctx context.Context, schema string, kind core.ObjectKind) ([]string, error) {
	return nil, f.err
}

func (f *failingListReader) ShowCreate(ctx context.Context, schema string, kind core.ObjectKind, name string) (string, error) {
	return "", nil
}
