package metadomain

import (
	"bytes"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Campaign struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	Objective string        `json:"objective"`
	Insights  *InsightsEdge `json:"insights"`
}

type InsightsEdge struct {
	Data []CampaignInsight `json:"data"`
}

type CampaignInsight struct {
	Impressions       Metric `json:"impressions"`
	Clicks            Metric `json:"clicks"`
	Spend             Metric `json:"spend"`
	Conversions       Metric `json:"conversions"`
	CostPerConversion Metric `json:"cost_per_conversion"`
	DateStart         string `json:"date_start"`
	DateStop          string `json:"date_stop"`
}

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next"`
}

type ResponseAdCampaign struct {
	Data   []Campaign `json:"data"`
	Paging *Paging    `json:"paging"`
}

// Metric aceita os formatos que a Graph API usa para métricas:
// número, texto ou lista de ações com valor. Ausente vale zero;
// texto presente e não numérico é erro de decodificação.
type Metric struct {
	Value float64
	Set   bool
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '[':
		var actions []Action
		if err := json.Unmarshal(data, &actions); err != nil {
			return err
		}
		for _, action := range actions {
			v, err := utils.ParseNumber(action.Value)
			if err != nil {
				return fmt.Errorf("ação %s: %w", action.ActionType, err)
			}
			m.Value += v
		}
		m.Set = len(actions) > 0
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := utils.ParseNumber(s)
		if err != nil {
			return err
		}
		m.Value = v
		m.Set = strings.TrimSpace(s) != ""
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("métrica em formato inesperado: %s", string(data))
		}
		m.Value = f
		m.Set = true
	}

	return nil
}

// ToSnapshot consolida os insights da campanha. Campos ausentes viram zero.
func (c *Campaign) ToSnapshot() domain.CampaignMetricsSnapshot {
	snapshot := domain.CampaignMetricsSnapshot{
		CampaignID: c.ID,
		Name:       c.Name,
		Status:     c.Status,
		Objective:  c.Objective,
	}

	var (
		costPerConversion float64
		hasCost           bool
	)

	if c.Insights != nil {
		for _, insight := range c.Insights.Data {
			snapshot.Impressions += int64(insight.Impressions.Value)
			snapshot.Clicks += int64(insight.Clicks.Value)
			snapshot.Spend += insight.Spend.Value
			snapshot.Conversions += insight.Conversions.Value
			if insight.CostPerConversion.Set {
				costPerConversion = insight.CostPerConversion.Value
				hasCost = true
			}
		}
	}

	// Com mais de uma linha de insight o custo informado não vale para o total
	if c.Insights != nil && len(c.Insights.Data) > 1 {
		hasCost = false
	}

	snapshot.CostPerConversion = domain.ResolveCostPerConversion(snapshot.Conversions, costPerConversion, snapshot.Spend, hasCost)

	return snapshot
}
