package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestRenderBodyWithoutCampaigns(t *testing.T) {
	assert.Equal(t, NoActiveCampaignsMessage, RenderBody(nil))
	assert.Equal(t, NoActiveCampaignsMessage, RenderBody([]domain.CampaignMetricsSnapshot{}))
}

func TestRender(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	message := Render(now, []domain.CampaignMetricsSnapshot{
		{
			Name:              "Leads Outubro",
			Objective:         "OUTCOME_LEADS",
			Impressions:       1500,
			Clicks:            42,
			Conversions:       3,
			CostPerConversion: ptr(12.5),
		},
		{
			Name:        "Alcance",
			Impressions: 800,
		},
	})

	expected := "Relatório de campanhas ativas - 19/10/2026 09:00\n\n" +
		"Campanha: Leads Outubro\n" +
		"Objetivo: OUTCOME_LEADS\n" +
		"Impressões: 1500\n" +
		"Cliques: 42\n" +
		"Conversões: 3\n" +
		"Custo por conversão: R$ 12,50\n\n" +
		"Campanha: Alcance\n" +
		"Objetivo: N/D\n" +
		"Impressões: 800\n" +
		"Cliques: 0\n" +
		"Conversões: 0\n" +
		"Custo por conversão: N/D"

	assert.Equal(t, expected, message)
}

func TestRenderZeroConversionsUsesPlaceholder(t *testing.T) {
	body := RenderBody([]domain.CampaignMetricsSnapshot{
		{Name: "Sem conversão", Conversions: 0, Spend: 50, CostPerConversion: ptr(0)},
	})

	assert.Contains(t, body, "Custo por conversão: N/D")
	assert.NotContains(t, body, "NaN")
	assert.NotContains(t, body, "Inf")
	assert.NotContains(t, body, "R$ 0")
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "2", formatDecimal(2))
	assert.Equal(t, "2,50", formatDecimal(2.5))
	assert.Equal(t, "0", formatDecimal(0))
}
