package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/pkg/utils"
)

const (
	NoActiveCampaignsMessage = "Nenhuma campanha ativa no momento."
	MetricPlaceholder        = "N/D"

	headerLayout = "02/01/2006 15:04"
)

// Render monta a mensagem completa: cabeçalho com data e hora, linha em branco e corpo
func Render(now time.Time, campaigns []domain.CampaignMetricsSnapshot) string {
	return fmt.Sprintf("Relatório de campanhas ativas - %s\n\n%s", now.Format(headerLayout), RenderBody(campaigns))
}

// RenderBody nunca devolve texto vazio
func RenderBody(campaigns []domain.CampaignMetricsSnapshot) string {
	if len(campaigns) == 0 {
		return NoActiveCampaignsMessage
	}

	blocks := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		blocks = append(blocks, renderCampaign(c))
	}

	return strings.Join(blocks, "\n\n")
}

func renderCampaign(c domain.CampaignMetricsSnapshot) string {
	objective := strings.TrimSpace(c.Objective)
	if objective == "" {
		objective = MetricPlaceholder
	}

	lines := []string{
		"Campanha: " + c.Name,
		"Objetivo: " + objective,
		"Impressões: " + strconv.FormatInt(c.Impressions, 10),
		"Cliques: " + strconv.FormatInt(c.Clicks, 10),
		"Conversões: " + formatDecimal(c.Conversions),
		"Custo por conversão: " + formatCost(c.Conversions, c.CostPerConversion),
	}

	return strings.Join(lines, "\n")
}

// formatDecimal omite casas decimais quando o valor é inteiro
func formatDecimal(v float64) string {
	v = utils.RoundWithTwoDecimalPlace(v)
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

func formatCost(conversions float64, cost *float64) string {
	if conversions <= 0 || cost == nil {
		return MetricPlaceholder
	}
	return "R$ " + strings.Replace(strconv.FormatFloat(utils.RoundWithTwoDecimalPlace(*cost), 'f', 2, 64), ".", ",", 1)
}
