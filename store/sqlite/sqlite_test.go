package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeclock/punch"
	"github.com/warp/timeclock/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AppendAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 24, 9, 30, 0, 0, time.UTC)

	entry := punch.AuditEntry{
		ID:        "entry-1",
		Timestamp: at,
		Action:    punch.AuditCorrection,
		Badge:     "0000000123",
		Dates:     []string{"24/01/2024"},
		Lines:     []string{"00000001232401241300003"},
		Removed:   []string{"25/01/2024 0900"},
		Error:     "disk full",
	}
	require.NoError(t, store.Append(ctx, entry))

	got, err := store.Query(ctx, punch.AuditFilter{Badge: "0000000123"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, entry.ID, got[0].ID)
	assert.True(t, at.Equal(got[0].Timestamp))
	assert.Equal(t, entry.Action, got[0].Action)
	assert.Equal(t, entry.Dates, got[0].Dates)
	assert.Equal(t, entry.Lines, got[0].Lines)
	assert.Equal(t, entry.Removed, got[0].Removed)
	assert.Equal(t, "disk full", got[0].Error)
}

func TestStore_QueryFiltersAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 24, 9, 0, 0, 0, time.UTC)

	entries := []punch.AuditEntry{
		{ID: "a", Timestamp: base, Action: punch.AuditManualAdd, Badge: "0000000001"},
		{ID: "b", Timestamp: base.Add(time.Second), Action: punch.AuditDuplication, Badge: "0000000001"},
		{ID: "c", Timestamp: base.Add(2 * time.Second), Action: punch.AuditManualAdd, Badge: "0000000002"},
	}
	for _, e := range entries {
		require.NoError(t, store.Append(ctx, e))
	}

	all, err := store.Query(ctx, punch.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))

	manual, err := store.Query(ctx, punch.AuditFilter{Actions: []punch.AuditAction{punch.AuditManualAdd}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(manual))

	limited, err := store.Query(ctx, punch.AuditFilter{Badge: "0000000001", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(limited))
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, punch.AuditEntry{ID: "same", Timestamp: time.Now()}))
	assert.Error(t, store.Append(ctx, punch.AuditEntry{ID: "same", Timestamp: time.Now()}))
}

func ids(entries []punch.AuditEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
