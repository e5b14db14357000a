package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/reporting"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
)

const releaseTimeout = 5 * time.Second

// TickSummary resume o processamento de um tick
type TickSummary struct {
	CorrelationID string
	Slot          domain.Slot
	Due           int
	Claimed       int
	Skipped       int
	Sent          int
	Failed        int
}

// ReportDispatchService dispara, a cada minuto, os relatórios cujo dia e horário
// coincidem com o instante atual. Cada ocorrência é reservada no registro de
// envios antes do processamento, então ticks repetidos ou concorrentes não
// geram envios duplicados.
type ReportDispatchService struct {
	scheduler *gocron.Scheduler
	config    config.ReportDispatch
	reports   repository.ReportRepository
	sendLog   repository.SendLogRepository
	deliverer reporting.Deliverer
	now       func() time.Time

	// Serializa a fase de reserva entre ticks sobrepostos
	claimMutex sync.Mutex

	statusMutex         sync.Mutex
	runningTicks        int
	lastTickStartedAt   time.Time
	lastTickCompletedAt time.Time
	lastSummary         TickSummary
	totalSent           int
	totalFailed         int
}

func NewReportDispatchService(
	reports repository.ReportRepository,
	sendLog repository.SendLogRepository,
	deliverer reporting.Deliverer,
	cfg config.ReportDispatch,
) *ReportDispatchService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}

	log.L.WithFields(log.Fields{
		"cron_schedule":       cfg.CronSchedule,
		"max_concurrent_jobs": cfg.MaxConcurrentJobs,
		"timezone":            cfg.Location.String(),
		"enabled":             cfg.Enabled,
	}).Info("Configuração do despacho de relatórios carregada")

	return &ReportDispatchService{
		scheduler: gocron.NewScheduler(cfg.Location),
		config:    cfg,
		reports:   reports,
		sendLog:   sendLog,
		deliverer: deliverer,
		now:       time.Now,
	}
}

// Start agenda o tick e para o agendador quando o contexto for cancelado
func (s *ReportDispatchService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		log.L.Info("Despacho de relatórios desabilitado por configuração")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de despacho de relatórios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.RunTick(ctx, s.now())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar despacho de relatórios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *ReportDispatchService) Stop() {
	if s.scheduler.IsRunning() {
		log.L.Info("Parando agendador de despacho de relatórios")
		s.scheduler.Stop()
	}
}

// RunTick processa os relatórios devidos no instante informado
func (s *ReportDispatchService) RunTick(ctx context.Context, now time.Time) (TickSummary, error) {
	ctx, correlationID := log.WithCorrelationID(ctx)
	local := now.In(s.config.Location)
	slot := domain.ResolveSlot(local)

	summary := TickSummary{CorrelationID: correlationID, Slot: slot}
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"weekday":         slot.Weekday,
		"time_of_day":     slot.TimeOfDay,
		"occurrence_date": slot.OccurrenceDate,
	})

	s.tickStarted()
	defer func() { s.tickFinished(summary) }()

	due, err := s.reports.ListDue(ctx, slot)
	if err != nil {
		logger.WithFields(log.Fields{
			"error":      err.Error(),
			"error_kind": domain.KindOf(err),
		}).Error("Erro ao buscar relatórios devidos, tick abortado")
		return summary, err
	}

	summary.Due = len(due)
	if len(due) == 0 {
		logger.Debug("Nenhum relatório devido")
		return summary, nil
	}

	claimed := s.claim(ctx, slot, due, &summary)
	summary.Claimed = len(claimed)

	if len(claimed) > 0 {
		sent := s.processClaimed(ctx, slot, local, claimed)
		summary.Sent = sent
		summary.Failed += len(claimed) - sent
	}

	logger.WithFields(log.Fields{
		"due":     summary.Due,
		"claimed": summary.Claimed,
		"skipped": summary.Skipped,
		"sent":    summary.Sent,
		"failed":  summary.Failed,
	}).Info("Tick de despacho concluído")

	return summary, nil
}

func (s *ReportDispatchService) claim(ctx context.Context, slot domain.Slot, due []*domain.ReportDefinition, summary *TickSummary) []*domain.ReportDefinition {
	s.claimMutex.Lock()
	defer s.claimMutex.Unlock()

	claimed := make([]*domain.ReportDefinition, 0, len(due))
	for _, report := range due {
		ok, err := s.sendLog.Claim(ctx, domain.NewSendLogKey(report.ID, slot), report.TenantID)
		if err != nil {
			summary.Failed++
			log.ForContext(ctx).WithFields(log.Fields{
				"tenant_id":  report.TenantID,
				"report_id":  report.ID,
				"error":      err.Error(),
				"error_kind": domain.KindOf(err),
			}).Error("Erro ao reservar envio do relatório")
			continue
		}

		if !ok {
			summary.Skipped++
			log.ForContext(ctx).WithField("report_id", report.ID).Debug("Relatório já enviado nesta ocorrência")
			continue
		}

		claimed = append(claimed, report)
	}

	return claimed
}

// processClaimed processa os relatórios reservados em paralelo, limitado por MaxConcurrentJobs
func (s *ReportDispatchService) processClaimed(ctx context.Context, slot domain.Slot, now time.Time, reports []*domain.ReportDefinition) int {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	results := make([]bool, len(reports))
	var wg sync.WaitGroup

	for i, report := range reports {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, report *domain.ReportDefinition) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			results[i] = s.processReport(ctx, slot, now, report)
		}(i, report)
	}

	wg.Wait()

	sent := 0
	for _, ok := range results {
		if ok {
			sent++
		}
	}
	return sent
}

// processReport é o limite de falha de cada relatório: qualquer erro é registrado
// e a reserva é desfeita, sem afetar os demais relatórios do tick.
func (s *ReportDispatchService) processReport(ctx context.Context, slot domain.Slot, now time.Time, report *domain.ReportDefinition) (ok bool) {
	key := domain.NewSendLogKey(report.ID, slot)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id": report.TenantID,
		"report_id": report.ID,
	})

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic_error", r).Error("Pânico ao processar relatório")
			s.release(ctx, key, logger)
			ok = false
		}
	}()

	result, err := s.deliverer.Deliver(ctx, report, now)
	if err != nil {
		logger.WithFields(log.Fields{
			"error":      err.Error(),
			"error_kind": domain.KindOf(err),
		}).Error("Erro ao processar relatório")
		s.release(ctx, key, logger)
		return false
	}

	// Mensagens já saíram: a reserva fica pendente se a conclusão falhar,
	// impedindo reenvio na mesma ocorrência.
	if err := s.sendLog.Complete(ctx, key, result); err != nil {
		logger.WithFields(log.Fields{
			"error":      err.Error(),
			"error_kind": domain.KindOf(err),
		}).Error("Erro ao registrar envio do relatório")
		return false
	}

	logger.WithFields(log.Fields{
		"recipients": result.Attempted,
		"failed":     result.Failed,
	}).Info("Relatório enviado")

	return true
}

// release roda fora do cancelamento do tick: uma reserva não liberada no
// desligamento deixaria um registro pendente de um relatório nunca enviado.
func (s *ReportDispatchService) release(ctx context.Context, key domain.SendLogKey, logger log.Logger) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.sendLog.Release(releaseCtx, key); err != nil {
		logger.WithField("error", err.Error()).Error("Erro ao liberar reserva do relatório")
	}
}

func (s *ReportDispatchService) tickStarted() {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	s.runningTicks++
	s.lastTickStartedAt = s.now()
}

func (s *ReportDispatchService) tickFinished(summary TickSummary) {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	s.runningTicks--
	s.lastTickCompletedAt = s.now()
	s.lastSummary = summary
	s.totalSent += summary.Sent
	s.totalFailed += summary.Failed
}

// TriggerManualRun executa um tick imediato em segundo plano
func (s *ReportDispatchService) TriggerManualRun() {
	log.L.Info("Iniciando despacho manual de relatórios")
	go s.RunTick(context.Background(), s.now())
}

// GetStatus retorna o status atual do agendador
func (s *ReportDispatchService) GetStatus() map[string]any {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	return map[string]any{
		"dispatch_enabled":        s.config.Enabled,
		"dispatch_cron":           s.config.CronSchedule,
		"dispatch_timezone":       s.config.Location.String(),
		"dispatch_max_concurrent": s.config.MaxConcurrentJobs,
		"scheduler_running":       s.scheduler.IsRunning(),
		"running_ticks":           s.runningTicks,
		"last_tick_started_at":    s.lastTickStartedAt,
		"last_tick_completed_at":  s.lastTickCompletedAt,
		"last_tick": map[string]any{
			"correlation_id":  s.lastSummary.CorrelationID,
			"weekday":         s.lastSummary.Slot.Weekday,
			"time_of_day":     s.lastSummary.Slot.TimeOfDay,
			"occurrence_date": s.lastSummary.Slot.OccurrenceDate,
			"due":             s.lastSummary.Due,
			"claimed":         s.lastSummary.Claimed,
			"skipped":         s.lastSummary.Skipped,
			"sent":            s.lastSummary.Sent,
			"failed":          s.lastSummary.Failed,
		},
		"total_sent":   s.totalSent,
		"total_failed": s.totalFailed,
	}
}
