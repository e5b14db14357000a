package adsclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	googleadsdomain "github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Limite de páginas seguidas em uma busca
const maxPages = 50

type Client interface {
	ListAccessibleCustomers(ctx context.Context, accessToken string) ([]string, error)
	GetCustomer(ctx context.Context, customerID, accessToken string) (*googleadsdomain.Customer, error)
	Search(ctx context.Context, customerID, accessToken, query string) ([]googleadsdomain.SearchRow, error)
}

type GoogleAdsClient struct {
	cfg        config.GoogleAds
	httpClient *http.Client
}

func NewClient(cfg config.GoogleAds, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleAdsClient{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

func (c *GoogleAdsClient) do(ctx context.Context, method, path, accessToken string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao serializar requisição"), "google_ads")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s/%s", c.cfg.URL, path), body)
	if err != nil {
		return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao criar a requisição"), "google_ads")
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("developer-token", c.cfg.DeveloperToken)
	if c.cfg.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", googleadsdomain.NormalizeCustomerID(c.cfg.LoginCustomerID))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao fazer a requisição"), "google_ads")
	}
	defer resp.Body.Close()

	return HandleResponse(resp)
}

// HandleResponse lê a resposta e classifica o objeto de erro da API
func HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao ler resposta"), "google_ads")
	}

	var errorResp googleadsdomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error != nil {
		details := errorResp.Error
		cause := errors.Errorf("status %d, código %d (%s): %s", resp.StatusCode, details.Code, details.Status, details.Message)

		switch {
		case details.IsTokenExpired():
			return nil, domain.NewAuthError(cause, "google_ads: token expirado ou inválido")
		case details.IsPermissionDenied():
			return nil, domain.NewPermissionError(cause, "google_ads: permissão negada")
		default:
			return nil, domain.NewPlatformError(cause, "google_ads")
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.NewAuthError(nil, "google_ads: "+resp.Status)
	case resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewPermissionError(nil, "google_ads: "+resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, domain.NewPlatformError(errors.Errorf("status %d", resp.StatusCode), "google_ads: resposta inesperada")
	}

	return body, nil
}

// decodeObject exige um objeto JSON; corpos vazios, listas ou HTML são rejeitados
func decodeObject(body []byte, target any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.NewPlatformError(nil, "google_ads: resposta não é um objeto JSON")
	}

	if err := json.Unmarshal(trimmed, target); err != nil {
		return domain.NewPlatformError(errors.Wrap(err, "erro ao decodificar resposta"), "google_ads")
	}

	return nil
}
