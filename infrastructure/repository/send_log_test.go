package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database/sqlite/sqlitetest"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

var testKey = domain.SendLogKey{
	ReportID:       "r1",
	Weekday:        "segunda",
	TimeOfDay:      "09:00",
	OccurrenceDate: "2026-10-19",
}

func TestSendLogRepository_ClaimIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewSendLogRepository(sqlitetest.NewConnection(t))

	var (
		wg      sync.WaitGroup
		claimed atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Claim(ctx, testKey, "t1")
			assert.NoError(t, err)
			if ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), claimed.Load())
}

func TestSendLogRepository_CompleteAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewSendLogRepository(sqlitetest.NewConnection(t))

	ok, err := repo.Claim(ctx, testKey, "t1")
	require.NoError(t, err)
	require.True(t, ok)

	sentAt := time.Date(2026, 10, 19, 12, 0, 5, 0, time.UTC)
	require.NoError(t, repo.Complete(ctx, testKey, &domain.DeliveryResult{
		Message:   "Relatório",
		Attempted: 2,
		Failed:    1,
		SentAt:    sentAt,
	}))

	entry, err := repo.Find(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, domain.SendLogStatusSent, entry.Status)
	assert.Equal(t, "t1", entry.TenantID)
	assert.Equal(t, 2, entry.RecipientCount)
	assert.Equal(t, 1, entry.FailedCount)
	assert.Equal(t, "Relatório", entry.Message)
	require.NotNil(t, entry.SentAt)
	assert.True(t, sentAt.Equal(*entry.SentAt))

	// Concluído não pode ser concluído de novo nem liberado
	err = repo.Complete(ctx, testKey, &domain.DeliveryResult{SentAt: sentAt})
	assert.True(t, domain.IsStoreError(err))

	require.NoError(t, repo.Release(ctx, testKey))
	_, err = repo.Find(ctx, testKey)
	assert.NoError(t, err)

	ok, err = repo.Claim(ctx, testKey, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSendLogRepository_ReleaseAllowsNewClaim(t *testing.T) {
	ctx := context.Background()
	repo := NewSendLogRepository(sqlitetest.NewConnection(t))

	ok, err := repo.Claim(ctx, testKey, "t1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.Release(ctx, testKey))

	_, err = repo.Find(ctx, testKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err = repo.Claim(ctx, testKey, "t1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSendLogRepository_ListByReport(t *testing.T) {
	ctx := context.Background()
	repo := NewSendLogRepository(sqlitetest.NewConnection(t))

	dates := []string{"2026-10-05", "2026-10-12", "2026-10-19"}
	for _, date := range dates {
		key := testKey
		key.OccurrenceDate = date
		ok, err := repo.Claim(ctx, key, "t1")
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, repo.Complete(ctx, key, &domain.DeliveryResult{Message: date, Attempted: 1, SentAt: time.Now()}))
	}

	// Reserva pendente não aparece na listagem
	pending := testKey
	pending.OccurrenceDate = "2026-10-26"
	_, err := repo.Claim(ctx, pending, "t1")
	require.NoError(t, err)

	entries, err := repo.ListByReport(ctx, "r1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-10-19", entries[0].OccurrenceDate)
	assert.Equal(t, "2026-10-12", entries[1].OccurrenceDate)

	entries, err = repo.ListByReport(ctx, "r1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
