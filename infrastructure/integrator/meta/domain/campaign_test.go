package metadomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected Metric
	}{
		{name: "lista de ações", payload: `[{"action_type":"lead","value":"3"},{"action_type":"purchase","value":"2"}]`, expected: Metric{Value: 5, Set: true}},
		{name: "texto", payload: `"4.5"`, expected: Metric{Value: 4.5, Set: true}},
		{name: "número", payload: `7`, expected: Metric{Value: 7, Set: true}},
		{name: "nulo", payload: `null`, expected: Metric{}},
		{name: "lista vazia", payload: `[]`, expected: Metric{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Metric
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &m))
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestMetricUnmarshalInvalid(t *testing.T) {
	payloads := map[string]string{
		"texto não numérico": `"abc"`,
		"ação não numérica":  `[{"action_type":"lead","value":"3"},{"action_type":"purchase","value":"n/a"}]`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			var m Metric
			assert.Error(t, json.Unmarshal([]byte(payload), &m))
		})
	}
}

func TestMetricUnmarshalEmptyText(t *testing.T) {
	var m Metric
	require.NoError(t, json.Unmarshal([]byte(`""`), &m))
	assert.Equal(t, Metric{}, m)
}

func TestCampaignToSnapshot(t *testing.T) {
	payload := `{
		"id": "120",
		"name": "Leads Outubro",
		"status": "ACTIVE",
		"objective": "OUTCOME_LEADS",
		"insights": {"data": [{
			"impressions": "1500",
			"clicks": "42",
			"spend": "30.00",
			"conversions": [{"action_type": "lead", "value": "6"}],
			"cost_per_conversion": [{"action_type": "lead", "value": "5.00"}]
		}]}
	}`

	var campaign Campaign
	require.NoError(t, json.Unmarshal([]byte(payload), &campaign))

	snapshot := campaign.ToSnapshot()
	assert.Equal(t, "120", snapshot.CampaignID)
	assert.Equal(t, "OUTCOME_LEADS", snapshot.Objective)
	assert.Equal(t, int64(1500), snapshot.Impressions)
	assert.Equal(t, int64(42), snapshot.Clicks)
	assert.Equal(t, 6.0, snapshot.Conversions)
	require.NotNil(t, snapshot.CostPerConversion)
	assert.Equal(t, 5.0, *snapshot.CostPerConversion)
}

func TestCampaignToSnapshotWithoutInsights(t *testing.T) {
	campaign := Campaign{ID: "1", Name: "Sem dados", Status: "ACTIVE"}

	snapshot := campaign.ToSnapshot()
	assert.Equal(t, int64(0), snapshot.Impressions)
	assert.Equal(t, int64(0), snapshot.Clicks)
	assert.Equal(t, 0.0, snapshot.Conversions)
	assert.Nil(t, snapshot.CostPerConversion)
}
