package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database/sqlite/sqlitetest"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	repomocks "github.com/vfg2006/ads-report-dispatcher/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/refreshing"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/reporting"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/reporting/mocks"
	"go.uber.org/mock/gomock"
)

// Segunda-feira, 09:00
var mondayNine = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

var dispatchConfig = config.ReportDispatch{
	Enabled:           true,
	CronSchedule:      "* * * * *",
	MaxConcurrentJobs: 3,
	CallTimeout:       time.Second,
	RecipientSuffix:   "@c.us",
	Location:          time.UTC,
}

type dispatchFixture struct {
	service     *ReportDispatchService
	credentials repository.CredentialRepository
	reports     repository.ReportRepository
	sendLog     repository.SendLogRepository
	provider    *mocks.MockCampaignMetricsProvider
	messenger   *mocks.MockMessenger
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	conn := sqlitetest.NewConnection(t)

	credentials := repository.NewCredentialRepository(conn, nil)
	reports := repository.NewReportRepository(conn)
	sendLog := repository.NewSendLogRepository(conn)

	provider := mocks.NewMockCampaignMetricsProvider(ctrl)
	provider.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()
	messenger := mocks.NewMockMessenger(ctrl)

	guard := refreshing.NewService(credentials, time.Second)
	deliverer := reporting.NewService(guard, messenger, dispatchConfig, provider)

	return &dispatchFixture{
		service:     NewReportDispatchService(reports, sendLog, deliverer, dispatchConfig),
		credentials: credentials,
		reports:     reports,
		sendLog:     sendLog,
		provider:    provider,
		messenger:   messenger,
	}
}

func (f *dispatchFixture) seedTenant(t *testing.T, tenantID, accessToken, refreshToken string) {
	t.Helper()
	require.NoError(t, f.credentials.Put(context.Background(), &domain.Credential{
		TenantID:          tenantID,
		Platform:          domain.PlatformMeta,
		AccessToken:       accessToken,
		RefreshToken:      refreshToken,
		SelectedAccountID: "act_" + tenantID,
	}))
}

func (f *dispatchFixture) seedReport(t *testing.T, id, tenantID, weekday, timeOfDay, recipients string) {
	t.Helper()
	require.NoError(t, f.reports.Save(context.Background(), &domain.ReportDefinition{
		ID:         id,
		TenantID:   tenantID,
		Weekday:    weekday,
		TimeOfDay:  timeOfDay,
		Recipients: recipients,
		Active:     true,
	}))
}

func slotKey(reportID string) domain.SendLogKey {
	return domain.NewSendLogKey(reportID, domain.ResolveSlot(mondayNine))
}

func TestRunTick_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)
	f.seedTenant(t, "t1", "token", "")
	f.seedReport(t, "r1", "t1", "segunda", "09:00", "551199999999")

	f.provider.EXPECT().FetchActiveCampaignMetrics(gomock.Any(), "act_t1", "token").Return([]domain.CampaignMetricsSnapshot{
		{Name: "Campanha Leads", Impressions: 100, Clicks: 7, Conversions: 2, CostPerConversion: ptr(4.5)},
		{Name: "Campanha Alcance", Impressions: 900},
	}, nil).Times(1)
	f.messenger.EXPECT().SendText(gomock.Any(), "551199999999@c.us", gomock.Any()).Return(nil).Times(1)

	summary, err := f.service.RunTick(ctx, mondayNine)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Due)
	assert.Equal(t, 1, summary.Sent)

	entry, err := f.sendLog.Find(ctx, slotKey("r1"))
	require.NoError(t, err)
	assert.Equal(t, domain.SendLogStatusSent, entry.Status)
	assert.Equal(t, 1, entry.RecipientCount)
	assert.Contains(t, entry.Message, "Campanha Leads")
	assert.Contains(t, entry.Message, "Campanha Alcance")

	// Mesmo minuto: nenhum novo envio
	summary, err = f.service.RunTick(ctx, mondayNine.Add(20*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Sent)

	entries, err := f.sendLog.ListByReport(ctx, "r1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunTick_ConcurrentTicksSendOnce(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)
	f.seedTenant(t, "t1", "token", "")
	f.seedReport(t, "r1", "t1", "Segunda-feira", "9:00", "5511999")

	f.provider.EXPECT().FetchActiveCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
	f.messenger.EXPECT().SendText(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.RunTick(ctx, mondayNine)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := f.sendLog.ListByReport(ctx, "r1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunTick_AuthFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)
	f.seedTenant(t, "t1", "expired", "")
	f.seedTenant(t, "t2", "valid", "")
	f.seedReport(t, "r1", "t1", "segunda", "09:00", "5511111")
	f.seedReport(t, "r2", "t2", "segunda", "09:00", "5522222")

	f.provider.EXPECT().FetchActiveCampaignMetrics(gomock.Any(), "act_t1", "expired").
		Return(nil, domain.NewAuthError(nil, "token expirado"))
	f.provider.EXPECT().FetchActiveCampaignMetrics(gomock.Any(), "act_t2", "valid").
		Return([]domain.CampaignMetricsSnapshot{{Name: "Campanha"}}, nil)
	f.messenger.EXPECT().SendText(gomock.Any(), "5522222@c.us", gomock.Any()).Return(nil)

	summary, err := f.service.RunTick(ctx, mondayNine)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Claimed)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Failed)

	_, err = f.sendLog.Find(ctx, slotKey("r1"))
	assert.True(t, errors.Is(err, domain.ErrNotFound), "reserva do tenant com falha deve ser liberada")

	entry, err := f.sendLog.Find(ctx, slotKey("r2"))
	require.NoError(t, err)
	assert.Equal(t, domain.SendLogStatusSent, entry.Status)
}

func TestRunTick_DeliveryFailuresAreCounted(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)
	f.seedTenant(t, "t1", "token", "")
	f.seedReport(t, "r1", "t1", "segunda", "09:00", "5511111,5522222")

	f.provider.EXPECT().FetchActiveCampaignMetrics(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.messenger.EXPECT().SendText(gomock.Any(), "5511111@c.us", gomock.Any()).Return(errors.New("timeout"))
	f.messenger.EXPECT().SendText(gomock.Any(), "5522222@c.us", gomock.Any()).Return(nil)

	_, err := f.service.RunTick(ctx, mondayNine)
	require.NoError(t, err)

	entry, err := f.sendLog.Find(ctx, slotKey("r1"))
	require.NoError(t, err)
	assert.Equal(t, 2, entry.RecipientCount)
	assert.Equal(t, 1, entry.FailedCount)
	assert.Contains(t, entry.Message, reporting.NoActiveCampaignsMessage)
}

func TestRunTick_NotDue(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)
	f.seedTenant(t, "t1", "token", "")
	f.seedReport(t, "r1", "t1", "terça", "09:00", "5511111")
	f.seedReport(t, "r2", "t1", "segunda", "09:01", "5511111")

	summary, err := f.service.RunTick(ctx, mondayNine)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Due)
}

func TestRunTick_ListDueFailureAbortsTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := repomocks.NewMockReportRepository(ctrl)
	sendLog := repomocks.NewMockSendLogRepository(ctrl)
	deliverer := mocks.NewMockDeliverer(ctrl)

	reports.EXPECT().ListDue(gomock.Any(), gomock.Any()).Return(nil, domain.NewStoreError(errors.New("conexão recusada"), "erro ao listar relatórios"))
	sendLog.EXPECT().Claim(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	service := NewReportDispatchService(reports, sendLog, deliverer, dispatchConfig)

	_, err := service.RunTick(context.Background(), mondayNine)
	assert.True(t, domain.IsStoreError(err))
}

func TestRunTick_CompleteFailureKeepsClaim(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := repomocks.NewMockReportRepository(ctrl)
	sendLog := repomocks.NewMockSendLogRepository(ctrl)
	deliverer := mocks.NewMockDeliverer(ctrl)

	report := &domain.ReportDefinition{ID: "r1", TenantID: "t1", Weekday: "segunda", TimeOfDay: "09:00", Active: true}
	reports.EXPECT().ListDue(gomock.Any(), gomock.Any()).Return([]*domain.ReportDefinition{report}, nil)
	sendLog.EXPECT().Claim(gomock.Any(), slotKey("r1"), "t1").Return(true, nil)
	deliverer.EXPECT().Deliver(gomock.Any(), report, mondayNine).Return(&domain.DeliveryResult{Attempted: 1}, nil)
	sendLog.EXPECT().Complete(gomock.Any(), slotKey("r1"), gomock.Any()).Return(domain.NewStoreError(errors.New("disk full"), ""))
	sendLog.EXPECT().Release(gomock.Any(), gomock.Any()).Times(0)

	service := NewReportDispatchService(reports, sendLog, deliverer, dispatchConfig)

	summary, err := service.RunTick(context.Background(), mondayNine)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunTick_ReleasesClaimAfterCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := repomocks.NewMockReportRepository(ctrl)
	deliverer := mocks.NewMockDeliverer(ctrl)
	sendLog := repository.NewSendLogRepository(sqlitetest.NewConnection(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report := &domain.ReportDefinition{ID: "r1", TenantID: "t1", Weekday: "segunda", TimeOfDay: "09:00", Active: true}
	reports.EXPECT().ListDue(gomock.Any(), gomock.Any()).Return([]*domain.ReportDefinition{report}, nil)
	deliverer.EXPECT().Deliver(gomock.Any(), report, mondayNine).DoAndReturn(
		func(ctx context.Context, _ *domain.ReportDefinition, _ time.Time) (*domain.DeliveryResult, error) {
			// desligamento no meio do processamento
			cancel()
			return nil, domain.NewPlatformError(ctx.Err(), "meta")
		})

	service := NewReportDispatchService(reports, sendLog, deliverer, dispatchConfig)

	summary, err := service.RunTick(ctx, mondayNine)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	_, err = sendLog.Find(context.Background(), slotKey("r1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunTick_UsesConfiguredTimezone(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := repomocks.NewMockReportRepository(ctrl)
	sendLog := repomocks.NewMockSendLogRepository(ctrl)
	deliverer := mocks.NewMockDeliverer(ctrl)

	cfg := dispatchConfig
	cfg.Location = time.FixedZone("BRT", -3*60*60)

	reports.EXPECT().ListDue(gomock.Any(), domain.Slot{
		Weekday:        "segunda",
		TimeOfDay:      "06:00",
		OccurrenceDate: "2026-10-19",
	}).Return(nil, nil)

	service := NewReportDispatchService(reports, sendLog, deliverer, cfg)

	_, err := service.RunTick(context.Background(), mondayNine)
	require.NoError(t, err)
}

func TestGetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	reports := repomocks.NewMockReportRepository(ctrl)
	reports.EXPECT().ListDue(gomock.Any(), gomock.Any()).Return(nil, nil)

	service := NewReportDispatchService(reports, repomocks.NewMockSendLogRepository(ctrl), mocks.NewMockDeliverer(ctrl), dispatchConfig)

	_, err := service.RunTick(context.Background(), mondayNine)
	require.NoError(t, err)

	status := service.GetStatus()
	assert.Equal(t, true, status["dispatch_enabled"])
	assert.Equal(t, 0, status["running_ticks"])
	assert.Equal(t, "09:00", status["last_tick"].(map[string]any)["time_of_day"])
}

func ptr(v float64) *float64 { return &v }
