package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

// CampaignMetricsProvider é a capacidade comum das plataformas de anúncio
type CampaignMetricsProvider interface {
	Platform() domain.Platform
	// FetchActiveCampaignMetrics devolve as campanhas ativas da conta com as métricas do dia
	FetchActiveCampaignMetrics(ctx context.Context, accountID, accessToken string) ([]domain.CampaignMetricsSnapshot, error)
	ListAccessibleAccounts(ctx context.Context, accessToken string) ([]*domain.AdAccount, error)
}

// Messenger entrega uma mensagem de texto a um destinatário já normalizado
type Messenger interface {
	SendText(ctx context.Context, to, text string) error
}

// Deliverer busca, renderiza e envia um relatório
type Deliverer interface {
	Deliver(ctx context.Context, report *domain.ReportDefinition, now time.Time) (*domain.DeliveryResult, error)
}
