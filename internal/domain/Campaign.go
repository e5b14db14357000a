package domain

// CampaignMetricsSnapshot são as métricas de uma campanha ativa no momento da consulta.
// Nunca é persistido.
type CampaignMetricsSnapshot struct {
	CampaignID  string  `json:"campaign_id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Objective   string  `json:"objective"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Spend       float64 `json:"spend"`
	// CostPerConversion é nil quando não há conversões
	CostPerConversion *float64 `json:"cost_per_conversion,omitempty"`
}

// ResolveCostPerConversion aplica a política de custo por conversão:
// sem conversões não há custo calculável; sem valor da plataforma usa spend/conversões.
func ResolveCostPerConversion(conversions, upstream, spend float64, hasUpstream bool) *float64 {
	if conversions <= 0 {
		return nil
	}

	if hasUpstream && upstream > 0 {
		v := upstream
		return &v
	}

	if spend > 0 {
		v := spend / conversions
		return &v
	}

	return nil
}
