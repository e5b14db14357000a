package googleads

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/googleads/adsclient"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

func newTestIntegrator(t *testing.T, handler http.HandlerFunc) *GoogleAdsIntegrator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.GoogleAds{
		URL:             server.URL + "/v17",
		DeveloperToken:  "dev-token",
		LoginCustomerID: "111-222-3333",
		ClientID:        "client",
		ClientSecret:    "secret",
		TokenURL:        server.URL + "/token",
	}

	return New(adsclient.NewClient(cfg, server.Client()), adsclient.NewTokenRefresher(cfg, server.Client()))
}

func TestFetchActiveCampaignMetrics(t *testing.T) {
	searches := 0
	integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "dev-token", r.Header.Get("developer-token"))
		assert.Equal(t, "1112223333", r.Header.Get("login-customer-id"))

		switch r.URL.Path {
		case "/v17/customers/1234567890":
			w.Write([]byte(`{"resourceName":"customers/1234567890","id":"1234567890","descriptiveName":"Loja","manager":false}`))
		case "/v17/customers/1234567890/googleAds:search":
			assert.Equal(t, http.MethodPost, r.Method)
			body, _ := io.ReadAll(r.Body)
			searches++
			if searches == 1 {
				assert.Contains(t, string(body), "DURING TODAY")
				w.Write([]byte(`{"results":[{"campaign":{"id":"1","name":"Pesquisa","status":"ENABLED","advertisingChannelType":"SEARCH"},
					"metrics":{"impressions":"100","clicks":"5","conversions":0,"costMicros":"3000000"}}],"nextPageToken":"p2"}`))
				return
			}
			assert.Contains(t, string(body), `"pageToken":"p2"`)
			w.Write([]byte(`{"results":[{"campaign":{"id":"2","name":"Display","status":"ENABLED"},
				"metrics":{"impressions":"50","clicks":"2","conversions":2,"costMicros":"4000000"}}]}`))
		default:
			t.Errorf("caminho inesperado: %s", r.URL.Path)
		}
	})

	snapshots, err := integrator.FetchActiveCampaignMetrics(context.Background(), "123-456-7890", "token")
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	assert.Equal(t, "Pesquisa", snapshots[0].Name)
	assert.Nil(t, snapshots[0].CostPerConversion)
	assert.Equal(t, "Display", snapshots[1].Name)
	require.NotNil(t, snapshots[1].CostPerConversion)
	assert.Equal(t, 2.0, *snapshots[1].CostPerConversion)
}

func TestFetchActiveCampaignMetricsInvalidSearchResponses(t *testing.T) {
	tests := []struct {
		name   string
		search func(w http.ResponseWriter)
	}{
		{
			name: "métrica não numérica",
			search: func(w http.ResponseWriter) {
				w.Write([]byte(`{"results":[{"campaign":{"id":"1","name":"Pesquisa"},"metrics":{"impressions":"abc"}}]}`))
			},
		},
		{
			name: "paginação sem fim",
			search: func(w http.ResponseWriter) {
				w.Write([]byte(`{"results":[{"campaign":{"id":"1","name":"Pesquisa"}}],"nextPageToken":"mais"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/v17/customers/1234567890" {
					w.Write([]byte(`{"resourceName":"customers/1234567890","id":"1234567890","manager":false}`))
					return
				}
				tt.search(w)
			})

			snapshots, err := integrator.FetchActiveCampaignMetrics(context.Background(), "1234567890", "token")
			require.Error(t, err)
			assert.True(t, domain.IsPlatformError(err), "erro inesperado: %v", err)
			assert.Nil(t, snapshots)
		})
	}
}

func TestFetchActiveCampaignMetricsManagerAccount(t *testing.T) {
	integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v17/customers/999" {
			t.Errorf("busca não deveria ser feita para conta gerenciadora: %s", r.URL.Path)
			return
		}
		w.Write([]byte(`{"resourceName":"customers/999","id":"999","manager":true}`))
	})

	snapshots, err := integrator.FetchActiveCampaignMetrics(context.Background(), "999", "token")
	require.Error(t, err)
	assert.True(t, domain.IsPermissionError(err))
	assert.Nil(t, snapshots)
}

func TestFetchActiveCampaignMetricsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{
			name:   "token inválido",
			status: http.StatusUnauthorized,
			body:   `{"error":{"code":401,"message":"Request had invalid authentication credentials.","status":"UNAUTHENTICATED"}}`,
			check:  domain.IsAuthError,
		},
		{
			name:   "permissão negada",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`,
			check:  domain.IsPermissionError,
		},
		{
			name:   "erro interno",
			status: http.StatusInternalServerError,
			body:   `{"error":{"code":500,"message":"Internal error","status":"INTERNAL"}}`,
			check:  domain.IsPlatformError,
		},
		{
			name:   "401 sem corpo",
			status: http.StatusUnauthorized,
			body:   ``,
			check:  domain.IsAuthError,
		},
		{
			name:   "corpo não JSON",
			status: http.StatusOK,
			body:   `<html>manutenção</html>`,
			check:  domain.IsPlatformError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			snapshots, err := integrator.FetchActiveCampaignMetrics(context.Background(), "1", "token")
			require.Error(t, err)
			assert.True(t, tt.check(err), "erro inesperado: %v", err)
			assert.Nil(t, snapshots)
		})
	}
}

func TestFetchActiveCampaignMetricsWithoutResults(t *testing.T) {
	integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v17/customers/1" {
			w.Write([]byte(`{"resourceName":"customers/1","id":"1"}`))
			return
		}
		w.Write([]byte(`{"fieldMask":"campaign.id,campaign.name"}`))
	})

	snapshots, err := integrator.FetchActiveCampaignMetrics(context.Background(), "1", "token")
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestListAccessibleAccounts(t *testing.T) {
	integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v17/customers:listAccessibleCustomers":
			w.Write([]byte(`{"resourceNames":["customers/1","customers/2"]}`))
		case "/v17/customers/1":
			w.Write([]byte(`{"resourceName":"customers/1","id":"1","descriptiveName":"MCC","manager":true}`))
		case "/v17/customers/2":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":403,"status":"PERMISSION_DENIED"}}`))
		}
	})

	accounts, err := integrator.ListAccessibleAccounts(context.Background(), "token")
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "MCC", accounts[0].Name)
	assert.True(t, accounts[0].Manager)
	assert.Equal(t, "2", accounts[1].ID)
	assert.Equal(t, domain.PlatformGoogleAds, accounts[1].Platform)
}

func TestRefreshToken(t *testing.T) {
	integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.NoError(t, r.ParseForm())

		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "rt-1", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "client", r.PostForm.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"novo","token_type":"Bearer","expires_in":3599}`))
	})

	bundle, err := integrator.RefreshToken(context.Background(), "rt-1")
	require.NoError(t, err)
	assert.Equal(t, "novo", bundle.AccessToken)
	assert.Equal(t, "rt-1", bundle.RefreshToken)
	require.NotNil(t, bundle.Expiry)
}

func TestRefreshTokenRejected(t *testing.T) {
	integrator := newTestIntegrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`))
	})

	_, err := integrator.RefreshToken(context.Background(), "rt-1")
	require.Error(t, err)
	assert.True(t, domain.IsAuthError(err))

	_, err = integrator.RefreshToken(context.Background(), "")
	assert.True(t, domain.IsAuthError(err))
}
