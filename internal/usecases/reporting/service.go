package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/refreshing"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
)

const defaultCallTimeout = 30 * time.Second

type Service struct {
	guard           refreshing.Guard
	messenger       Messenger
	providers       map[domain.Platform]CampaignMetricsProvider
	recipientSuffix string
	callTimeout     time.Duration
	location        *time.Location
	now             func() time.Time
}

func NewService(
	guard refreshing.Guard,
	messenger Messenger,
	cfg config.ReportDispatch,
	providers ...CampaignMetricsProvider,
) *Service {
	byPlatform := make(map[domain.Platform]CampaignMetricsProvider, len(providers))
	for _, p := range providers {
		byPlatform[p.Platform()] = p
	}

	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	return &Service{
		guard:           guard,
		messenger:       messenger,
		providers:       byPlatform,
		recipientSuffix: cfg.RecipientSuffix,
		callTimeout:     callTimeout,
		location:        location,
		now:             time.Now,
	}
}

// Provider devolve o adaptador registrado para a plataforma
func (s *Service) Provider(platform domain.Platform) (CampaignMetricsProvider, bool) {
	p, ok := s.providers[platform]
	return p, ok
}

// Deliver processa um relatório devido: busca métricas com token válido, monta a
// mensagem e envia para cada destinatário. Falhas individuais de envio são
// contadas e não interrompem os demais destinatários.
func (s *Service) Deliver(ctx context.Context, report *domain.ReportDefinition, now time.Time) (*domain.DeliveryResult, error) {
	recipients := NormalizeRecipients(report.Recipients, s.recipientSuffix)
	if len(recipients) == 0 {
		return nil, domain.NewConfigError(nil, "relatório sem destinatários válidos")
	}

	campaigns, err := s.FetchCampaigns(ctx, report.TenantID)
	if err != nil {
		return nil, err
	}

	message := Render(now.In(s.location), campaigns)
	failed := s.fanOut(ctx, report, recipients, message)

	return &domain.DeliveryResult{
		Message:   message,
		Attempted: len(recipients),
		Failed:    failed,
		SentAt:    s.now().UTC(),
	}, nil
}

// FetchCampaigns consulta a conta selecionada do tenant pelo guarda de token
func (s *Service) FetchCampaigns(ctx context.Context, tenantID string) ([]domain.CampaignMetricsSnapshot, error) {
	var campaigns []domain.CampaignMetricsSnapshot

	err := s.guard.WithValidToken(ctx, tenantID, func(ctx context.Context, credential *domain.Credential) error {
		if err := credential.ValidateForDispatch(); err != nil {
			return err
		}

		provider, ok := s.providers[credential.Platform]
		if !ok {
			return domain.NewConfigError(nil, "nenhum adaptador para a plataforma "+string(credential.Platform))
		}

		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()

		result, err := provider.FetchActiveCampaignMetrics(callCtx, credential.SelectedAccountID, credential.AccessToken)
		if err != nil {
			if domain.KindOf(err) == "unknown" {
				return domain.NewPlatformError(err, string(credential.Platform))
			}
			return err
		}

		campaigns = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

func (s *Service) fanOut(ctx context.Context, report *domain.ReportDefinition, recipients []string, message string) int {
	failed := 0

	for _, recipient := range recipients {
		sendCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		err := s.messenger.SendText(sendCtx, recipient, message)
		cancel()

		if err != nil {
			failed++
			log.ForContext(ctx).WithFields(log.Fields{
				"tenant_id": report.TenantID,
				"report_id": report.ID,
				"recipient": recipient,
				"error":     err.Error(),
			}).Warn("Falha ao enviar relatório para destinatário")
			continue
		}

		log.ForContext(ctx).WithFields(log.Fields{
			"report_id": report.ID,
			"recipient": recipient,
		}).Debug("Relatório enviado para destinatário")
	}

	return failed
}
