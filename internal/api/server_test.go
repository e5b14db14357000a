package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
	"go.uber.org/mock/gomock"
)

type stubConnector struct{}

func (stubConnector) Status(_ context.Context, tenantID string) (*domain.ConnectionStatus, error) {
	return &domain.ConnectionStatus{TenantID: tenantID, Connected: true}, nil
}

func (stubConnector) ListTenants(context.Context) ([]string, error) {
	return []string{"loja-centro"}, nil
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(&config.Config{}, Dependencies{})
	assert.Error(t, err)
}

func TestNewHandlerAppliesAuthentication(t *testing.T) {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)

	cfg := &config.Config{
		Server: config.Server{AllowedOrigins: []string{"http://localhost:3000"}},
		Auth:   config.Auth{Secret: "segredo"},
	}

	h := NewHandler(cfg, Dependencies{
		Connector: stubConnector{},
		SendLog:   mocks.NewMockSendLogRepository(ctrl),
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tenants", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "painel",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("segredo"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "loja-centro")
}
