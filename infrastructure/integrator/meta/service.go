package meta

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

// MetaIntegrator adapta a Graph API para o formato comum de métricas
type MetaIntegrator struct {
	Client metaclient.Client
	now    func() time.Time
}

func New(client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		Client: client,
		now:    time.Now,
	}
}

func (s *MetaIntegrator) Platform() domain.Platform {
	return domain.PlatformMeta
}

// FetchActiveCampaignMetrics consulta as campanhas ativas em uma única requisição
// com expansão de insights
func (s *MetaIntegrator) FetchActiveCampaignMetrics(ctx context.Context, accountID, accessToken string) ([]domain.CampaignMetricsSnapshot, error) {
	campaigns, err := s.Client.GetActiveCampaignsByAccountID(ctx, accountID, accessToken)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Warn("meta: falha ao buscar campanhas ativas")
		return nil, err
	}

	snapshots := make([]domain.CampaignMetricsSnapshot, 0, len(campaigns))
	for i := range campaigns {
		snapshots = append(snapshots, campaigns[i].ToSnapshot())
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"campaigns":  len(snapshots),
	}).Debug("meta: métricas de campanhas obtidas")

	return snapshots, nil
}

func (s *MetaIntegrator) ListAccessibleAccounts(ctx context.Context, accessToken string) ([]*domain.AdAccount, error) {
	accounts, err := s.Client.GetAdAccounts(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.AdAccount, 0, len(accounts))
	for _, account := range accounts {
		id := account.AccountID
		if id == "" {
			id = account.ID
		}
		result = append(result, &domain.AdAccount{
			ID:       id,
			Name:     account.Name,
			Platform: domain.PlatformMeta,
		})
	}

	return result, nil
}

// RefreshToken troca o token guardado como refresh token por um novo token de longa duração
func (s *MetaIntegrator) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenBundle, error) {
	resp, err := s.Client.ExchangeToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	return &domain.TokenBundle{
		AccessToken: resp.AccessToken,
		// O token de longa duração também serve para a próxima troca
		RefreshToken: resp.AccessToken,
		Expiry:       metaclient.CalculateTokenExpiration(s.now(), resp.ExpiresIn),
	}, nil
}
