package connecting

import (
	"context"
	"time"

	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/refreshing"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/reporting"
)

// Connector verifica a integração de cada tenant com a plataforma de anúncios
type Connector interface {
	Status(ctx context.Context, tenantID string) (*domain.ConnectionStatus, error)
	ListTenants(ctx context.Context) ([]string, error)
}

type Service struct {
	credentials repository.CredentialRepository
	guard       refreshing.Guard
	providers   map[domain.Platform]reporting.CampaignMetricsProvider
	callTimeout time.Duration
}

func NewService(
	credentials repository.CredentialRepository,
	guard refreshing.Guard,
	callTimeout time.Duration,
	providers ...reporting.CampaignMetricsProvider,
) *Service {
	byPlatform := make(map[domain.Platform]reporting.CampaignMetricsProvider, len(providers))
	for _, p := range providers {
		byPlatform[p.Platform()] = p
	}

	return &Service{
		credentials: credentials,
		guard:       guard,
		providers:   byPlatform,
		callTimeout: callTimeout,
	}
}

// Status lista as contas acessíveis com o token do tenant, renovando-o se preciso.
// Um token válido sem conta selecionada ainda é considerado conectado.
func (s *Service) Status(ctx context.Context, tenantID string) (*domain.ConnectionStatus, error) {
	status := &domain.ConnectionStatus{TenantID: tenantID}

	err := s.guard.WithValidToken(ctx, tenantID, func(ctx context.Context, credential *domain.Credential) error {
		provider, ok := s.providers[credential.Platform]
		if !ok {
			return domain.NewConfigError(nil, "nenhum adaptador para a plataforma "+string(credential.Platform))
		}

		if s.callTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
			defer cancel()
		}

		accounts, err := provider.ListAccessibleAccounts(ctx, credential.AccessToken)
		if err != nil {
			return err
		}

		status.Platform = credential.Platform
		status.SelectedAccountID = credential.SelectedAccountID
		status.Accounts = accounts
		return nil
	})
	if err != nil {
		return nil, err
	}

	status.Connected = true
	return status, nil
}

func (s *Service) ListTenants(ctx context.Context) ([]string, error) {
	return s.credentials.ListTenants(ctx)
}
