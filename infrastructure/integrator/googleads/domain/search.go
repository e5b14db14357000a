package googleadsdomain

import (
	"bytes"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const microsPerUnit = 1_000_000

// CampaignMetricsQuery busca as campanhas habilitadas com métricas do dia corrente
const CampaignMetricsQuery = `SELECT campaign.id, campaign.name, campaign.status, campaign.advertising_channel_type, ` +
	`metrics.impressions, metrics.clicks, metrics.conversions, metrics.cost_per_conversion, metrics.cost_micros ` +
	`FROM campaign WHERE segments.date DURING TODAY AND campaign.status = 'ENABLED'`

type SearchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

type SearchResponse struct {
	Results       []SearchRow `json:"results"`
	NextPageToken string      `json:"nextPageToken"`
	FieldMask     string      `json:"fieldMask"`
}

type SearchRow struct {
	Campaign *Campaign `json:"campaign"`
	Metrics  *Metrics  `json:"metrics"`
}

type Campaign struct {
	ResourceName           string `json:"resourceName"`
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Status                 string `json:"status"`
	AdvertisingChannelType string `json:"advertisingChannelType"`
}

type Metrics struct {
	Impressions       *Number `json:"impressions"`
	Clicks            *Number `json:"clicks"`
	Conversions       *Number `json:"conversions"`
	CostPerConversion *Number `json:"costPerConversion"`
	CostMicros        *Number `json:"costMicros"`
}

// Number aceita int64 serializado como texto (padrão da API REST) e double como número.
// Texto não numérico é erro de decodificação.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := utils.ParseNumber(s)
		if err != nil {
			return err
		}
		*n = Number(v)
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// ToSnapshot converte a linha do relatório. Valores monetários chegam em micros.
func (r *SearchRow) ToSnapshot() domain.CampaignMetricsSnapshot {
	snapshot := domain.CampaignMetricsSnapshot{}

	if r.Campaign != nil {
		snapshot.CampaignID = r.Campaign.ID
		snapshot.Name = r.Campaign.Name
		snapshot.Status = r.Campaign.Status
		snapshot.Objective = r.Campaign.AdvertisingChannelType
	}

	if r.Metrics == nil {
		return snapshot
	}

	snapshot.Impressions = int64(r.Metrics.Impressions.Float())
	snapshot.Clicks = int64(r.Metrics.Clicks.Float())
	snapshot.Conversions = r.Metrics.Conversions.Float()
	snapshot.Spend = r.Metrics.CostMicros.Float() / microsPerUnit

	costPerConversion := r.Metrics.CostPerConversion.Float() / microsPerUnit
	snapshot.CostPerConversion = domain.ResolveCostPerConversion(
		snapshot.Conversions,
		costPerConversion,
		snapshot.Spend,
		r.Metrics.CostPerConversion != nil,
	)

	return snapshot
}
