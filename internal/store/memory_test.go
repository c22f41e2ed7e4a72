package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroAppAPI/internal/types/premiumrequest"
)

func TestMemoryListRecentBreaksTiesDeterministically(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	at := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := mem.CreateRequest(ctx, &premiumrequest.Request{
			UserID:      "u1",
			Status:      premiumrequest.StatusPending,
			RequestDate: at,
		})
		require.NoError(t, err)
	}

	first, err := mem.ListRecentRequests(ctx, 50)
	require.NoError(t, err)
	second, err := mem.ListRecentRequests(ctx, 50)
	require.NoError(t, err)

	require.Len(t, first, 5)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestMemoryDeleteWatchesBeforeReportsCount(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	cutoff := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, mem.AddWatch(ctx, "u1", cutoff.Add(-time.Hour)))
	require.NoError(t, mem.AddWatch(ctx, "u1", cutoff)) // at the cutoff stays
	require.NoError(t, mem.AddWatch(ctx, "u1", cutoff.Add(time.Hour)))

	removed, err := mem.DeleteWatchesBefore(ctx, "u1", cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	count, err := mem.CountWatchesSince(ctx, "u1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryMarkApprovedUnknownID(t *testing.T) {
	mem := NewMemory()

	err := mem.MarkApproved(context.Background(), "missing", "admin1", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
