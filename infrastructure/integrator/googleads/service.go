package googleads

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/googleads/adsclient"
	googleadsdomain "github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

// GoogleAdsIntegrator adapta a API REST do Google Ads para o formato comum de métricas
type GoogleAdsIntegrator struct {
	Client    adsclient.Client
	refresher *adsclient.TokenRefresher
}

func New(client adsclient.Client, refresher *adsclient.TokenRefresher) *GoogleAdsIntegrator {
	return &GoogleAdsIntegrator{
		Client:    client,
		refresher: refresher,
	}
}

func (s *GoogleAdsIntegrator) Platform() domain.Platform {
	return domain.PlatformGoogleAds
}

// FetchActiveCampaignMetrics verifica o tipo da conta antes de consultar.
// Contas gerenciadoras (MCC) não possuem campanhas próprias e são recusadas.
func (s *GoogleAdsIntegrator) FetchActiveCampaignMetrics(ctx context.Context, accountID, accessToken string) ([]domain.CampaignMetricsSnapshot, error) {
	customer, err := s.Client.GetCustomer(ctx, accountID, accessToken)
	if err != nil {
		return nil, err
	}

	if customer.Manager {
		logrus.WithField("account_id", accountID).Warn("google_ads: conta gerenciadora selecionada")
		return nil, domain.NewPermissionError(nil, fmt.Sprintf("google_ads: a conta %s é gerenciadora e não possui métricas de campanha", accountID))
	}

	rows, err := s.Client.Search(ctx, accountID, accessToken, googleadsdomain.CampaignMetricsQuery)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Warn("google_ads: falha ao buscar campanhas ativas")
		return nil, err
	}

	snapshots := make([]domain.CampaignMetricsSnapshot, 0, len(rows))
	for i := range rows {
		snapshots = append(snapshots, rows[i].ToSnapshot())
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"campaigns":  len(snapshots),
	}).Debug("google_ads: métricas de campanhas obtidas")

	return snapshots, nil
}

// ListAccessibleAccounts lista as contas do token com nome e indicador de gerenciadora.
// Contas cujos metadados não podem ser lidos entram apenas com o id.
func (s *GoogleAdsIntegrator) ListAccessibleAccounts(ctx context.Context, accessToken string) ([]*domain.AdAccount, error) {
	ids, err := s.Client.ListAccessibleCustomers(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.AdAccount, 0, len(ids))
	for _, id := range ids {
		account := &domain.AdAccount{
			ID:       id,
			Platform: domain.PlatformGoogleAds,
		}

		customer, err := s.Client.GetCustomer(ctx, id, accessToken)
		if err != nil {
			if domain.IsAuthError(err) {
				return nil, err
			}
			logrus.WithFields(logrus.Fields{
				"account_id": id,
				"error":      err.Error(),
			}).Debug("google_ads: metadados da conta indisponíveis")
		} else {
			account.Name = customer.DescriptiveName
			account.Manager = customer.Manager
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (s *GoogleAdsIntegrator) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenBundle, error) {
	if s.refresher == nil {
		return nil, domain.NewAuthError(nil, "google_ads: refresh não configurado")
	}
	return s.refresher.Refresh(ctx, refreshToken)
}
