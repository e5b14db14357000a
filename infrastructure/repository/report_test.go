package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database/sqlite/sqlitetest"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

func TestReportRepository_ListDue(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(sqlitetest.NewConnection(t))

	reports := []*domain.ReportDefinition{
		{ID: "r1", TenantID: "t1", Weekday: "segunda", TimeOfDay: "09:00", Recipients: "5511", Active: true},
		{ID: "r2", TenantID: "t2", Weekday: "Segunda-feira", TimeOfDay: "9:00", Recipients: "5512", Active: true},
		{ID: "r3", TenantID: "t1", Weekday: "segunda", TimeOfDay: "09:00", Recipients: "5513", Active: false},
		{ID: "r4", TenantID: "t1", Weekday: "terça", TimeOfDay: "09:00", Recipients: "5514", Active: true},
		{ID: "r5", TenantID: "t1", Weekday: "segunda", TimeOfDay: "09:01", Recipients: "5515", Active: true},
	}
	for _, r := range reports {
		require.NoError(t, repo.Save(ctx, r))
	}

	due, err := repo.ListDue(ctx, domain.Slot{Weekday: "segunda", TimeOfDay: "09:00", OccurrenceDate: "2026-10-19"})
	require.NoError(t, err)

	ids := make([]string, 0, len(due))
	for _, r := range due {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r1", "r2"}, ids)
}

func TestReportRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(sqlitetest.NewConnection(t))

	require.NoError(t, repo.Save(ctx, &domain.ReportDefinition{ID: "r1", TenantID: "t1", Weekday: "sexta", TimeOfDay: "18:00", Active: true}))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "sexta", got.Weekday)
	assert.True(t, got.Active)

	_, err = repo.GetByID(ctx, "r2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
